package domain

import "time"

// OperatorRole 管理面板操作员角色
type OperatorRole string

const (
	// RoleAdmin 普通管理员
	RoleAdmin OperatorRole = "admin"
	// RoleSuper 超级管理员
	RoleSuper OperatorRole = "super"
)

// Operator 管理面板操作员账户
//
// 面板的登录主体，与客户 (Customer) 无关。
type Operator struct {
	ID           string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string       `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Username     string       `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	PasswordHash string       `json:"-" gorm:"type:varchar(100);not null"`
	Role         OperatorRole `json:"role" gorm:"type:varchar(20);default:'admin'"`
	IsActive     bool         `json:"isActive" gorm:"default:true"`
	LastLoginAt  *time.Time   `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt" gorm:"autoUpdateTime"`
}

// IsSuper 是否超级管理员
func (o *Operator) IsSuper() bool {
	return o.Role == RoleSuper
}
