// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/repository"
)

// Service はユーザー管理のサービス層。
// 初回サインイン時のユーザー登録と管理者権限の付与を提供する。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// EnsureUser は指定emailのユーザーが存在することを保証する。
// 未登録なら一般ユーザーとして作成し、登録済みなら何もしない。
// email一意制約により同時初回サインインでも重複レコードは生じない。
// 作成した場合はtrueを返す。
func (s *Service) EnsureUser(ctx context.Context, email, name string) (bool, error) {
	now := time.Now()
	u := &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Role:      model.RoleNone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.userRepo.CreateIfAbsent(ctx, u)
	if err != nil {
		return false, fmt.Errorf("failed to ensure user: %w", err)
	}
	if created {
		slog.Info("registered new user",
			slog.String("user_id", u.ID),
			slog.String("email", email),
		)
	}
	return created, nil
}

// ListUsers は全ユーザーを返す。
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// IsAdmin は指定emailのユーザーが管理者かどうかを返す。
// 未登録のemailはfalseを返し、エラーにはしない。
func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to find user: %w", err)
	}
	if u == nil {
		return false, nil
	}
	return u.IsAdmin(), nil
}

// ElevateToAdmin は指定IDのユーザーに管理者ロールを付与する。
// 対象が存在しない場合はNotFoundエラーを返す。既に管理者の場合は冪等に成功する。
func (s *Service) ElevateToAdmin(ctx context.Context, id string) error {
	updated, err := s.userRepo.UpdateRole(ctx, id, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if updated == 0 {
		return model.NewNotFoundError("user")
	}
	slog.Info("elevated user to admin",
		slog.String("user_id", id),
	)
	return nil
}
