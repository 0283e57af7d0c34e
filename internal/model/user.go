// Package model はドメインモデルを定義する。
package model

import "time"

// ユーザーロール。roleカラムに格納される値。
const (
	// RoleNone は一般ユーザー（ロールなし）を表す。
	RoleNone = ""
	// RoleAdmin は管理者ロールを表す。
	RoleAdmin = "admin"
)

// User はサービス利用ユーザーを表す。
// emailを自然キーとし、初回サインイン時に自動作成される。
type User struct {
	ID        string
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin はユーザーが管理者ロールを持つかを返す。
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
