package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleClient }

// Profile 注册用户；ID 与身份令牌的 subject 一一对应
type Profile struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	FullName     string    `gorm:"size:128;not null" json:"fullName"`
	CompanyName  *string   `gorm:"size:191" json:"companyName"`
	Phone        *string   `gorm:"size:32" json:"phone"`
	Role         Role      `gorm:"size:16;not null;default:client" json:"role"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }

// Actor 当前请求的调用方；零值表示匿名
type Actor struct {
	ID    string
	Email string
	Role  Role
}

func (a Actor) Authenticated() bool { return a.ID != "" }

func (a Actor) IsAdmin() bool { return a.Authenticated() && a.Role == RoleAdmin }

func (p *Profile) Actor() Actor { return Actor{ID: p.ID, Email: p.Email, Role: p.Role} }

// NormalizeEmail 邮箱统一小写去空白后再查重/比对
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// optional 空串视为未填写
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
