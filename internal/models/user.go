package models

import (
	"time"
)

// 角色常量，权限从低到高：user < admin < super_admin
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:20;not null" json:"name"`
	Email     string    `gorm:"size:50;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`                  // Hash
	Role      string    `gorm:"size:15;default:'user';not null" json:"role"` // user, admin, super_admin
	IsActive  bool      `gorm:"default:true;not null" json:"is_active"`      // 软删除标记，停用可恢复
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin 是否具有管理权限（admin 或 super_admin）
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
