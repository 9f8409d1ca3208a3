package domain

import "time"

// Customer 客户
//
// 删除客户时级联删除其域名、主机账户与订单。
type Customer struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	FirstName string    `json:"firstName" gorm:"type:varchar(100);not null"`
	LastName  string    `json:"lastName" gorm:"type:varchar(100);not null"`
	Phone     string    `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Company   string    `json:"company,omitempty" gorm:"type:varchar(255)"`
	Status    string    `json:"status" gorm:"type:varchar(20);default:'active'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	Domains         []RegisteredDomain `json:"domains,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	HostingAccounts []HostingAccount   `json:"hostingAccounts,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Orders          []Order            `json:"orders,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// FullName 客户全名
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
