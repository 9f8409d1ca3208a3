package domain

import "time"

// DomainStatus 域名状态
type DomainStatus string

const (
	// DomainStatusActive 正常可用
	DomainStatusActive DomainStatus = "active"
	// DomainStatusExpired 已过期
	DomainStatusExpired DomainStatus = "expired"
	// DomainStatusPending 待处理（注册中）
	DomainStatusPending DomainStatus = "pending"
	// DomainStatusSuspended 已暂停
	DomainStatusSuspended DomainStatus = "suspended"
	// DomainStatusPendingTransfer 转移处理中
	DomainStatusPendingTransfer DomainStatus = "pending_transfer"
)

// RegisteredDomain 已注册域名
//
// 仅在注册商可用性检查 + 注册调用成功后创建；expiry_date 在创建时必填。
// locked=true 的域名不允许转移。
type RegisteredDomain struct {
	ID                string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name              string       `json:"name" gorm:"uniqueIndex;type:varchar(255);not null"`
	Status            DomainStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ExpiryDate        time.Time    `json:"expiryDate" gorm:"not null"`
	RegistrationDate  time.Time    `json:"registrationDate"`
	Locked            bool         `json:"locked" gorm:"default:false"`
	PrivacyProtection bool         `json:"privacyProtection" gorm:"default:false"`
	AutoRenew         bool         `json:"autoRenew" gorm:"default:true"`
	AuthCode          string       `json:"-" gorm:"type:varchar(100)"`
	Registrar         string       `json:"registrar,omitempty" gorm:"type:varchar(100)"`
	CustomerID        string       `json:"customerId" gorm:"type:varchar(36);index"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt" gorm:"autoUpdateTime"`

	// 关联（随域名删除级联删除）
	Nameservers []Nameserver `json:"nameservers,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	DNSRecords  []DNSRecord  `json:"dnsRecords,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// DaysUntilExpiry 距到期日的天数（已过期为负数）
func (d *RegisteredDomain) DaysUntilExpiry(now time.Time) int {
	return int(d.ExpiryDate.Sub(now).Hours() / 24)
}

// Nameserver 权威域名服务器
//
// Position 为发送给注册商的权威顺序，顺序有业务含义。
type Nameserver struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Hostname string `json:"hostname" gorm:"type:varchar(255);not null"`
	Position int    `json:"position" gorm:"default:0"`
	DomainID string `json:"domainId" gorm:"type:varchar(36);index;not null"`

	CreatedAt time.Time `json:"createdAt"`
}

// DefaultNameservers 新注册域名使用的默认域名服务器
func DefaultNameservers() []string {
	return []string{"ns1.default.com", "ns2.default.com"}
}
