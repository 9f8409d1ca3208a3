package domain

import "time"

// HostingStatus 主机账户状态
type HostingStatus string

const (
	// HostingStatusActive 正常服务中
	HostingStatusActive HostingStatus = "active"
	// HostingStatusSuspended 已暂停（保留 suspended_reason）
	HostingStatusSuspended HostingStatus = "suspended"
	// HostingStatusPending 开通中
	HostingStatusPending HostingStatus = "pending"
	// HostingStatusCancelled 已取消
	HostingStatusCancelled HostingStatus = "cancelled"
)

// HostingPackage 主机套餐
//
// 被在用账户引用后不可修改，只能通过显式的套餐变更切换。
type HostingPackage struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name             string    `json:"name" gorm:"type:varchar(255);not null"`
	DiskSpace        int       `json:"diskSpace" gorm:"not null"`      // MB
	Bandwidth        int       `json:"bandwidth" gorm:"not null"`      // MB
	Price            float64   `json:"price" gorm:"not null"`          // 月费 USD
	PlanType         string    `json:"planType" gorm:"type:varchar(20)"`
	MaxDomains       int       `json:"maxDomains" gorm:"default:1"`
	MaxDatabases     int       `json:"maxDatabases" gorm:"default:1"`
	MaxEmailAccounts int       `json:"maxEmailAccounts" gorm:"default:1"`
	Active           bool      `json:"active" gorm:"default:true"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// HostingAccount 主机账户
//
// 与域名字符串一对一；仅在套餐、客户校验及域名唯一性检查通过后创建。
type HostingAccount struct {
	ID              string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Domain          string        `json:"domain" gorm:"uniqueIndex;type:varchar(255);not null"`
	Username        string        `json:"username" gorm:"type:varchar(50);not null"`
	Status          HostingStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	IPAddress       string        `json:"ipAddress,omitempty" gorm:"type:varchar(45)"`
	DiskUsage       int           `json:"diskUsage" gorm:"default:0"`      // MB
	BandwidthUsage  int           `json:"bandwidthUsage" gorm:"default:0"` // MB
	SuspendedReason string        `json:"suspendedReason,omitempty" gorm:"type:text"`
	CustomerID      string        `json:"customerId" gorm:"type:varchar(36);index;not null"`
	PackageID       string        `json:"packageId" gorm:"type:varchar(36);index"`
	CreatedAt       time.Time     `json:"createdAt"`
	ExpiresDate     *time.Time    `json:"expiresDate,omitempty"`
	UpdatedAt       time.Time     `json:"updatedAt" gorm:"autoUpdateTime"`
}

// UsageReport 资源使用报告
//
// 百分比按 usage/limit*100 保留两位小数；limit 为 0 时百分比为 0。
type UsageReport struct {
	DiskUsage             int     `json:"diskUsage"`
	DiskLimit             int     `json:"diskLimit"`
	DiskUsagePercent      float64 `json:"diskUsagePercent"`
	BandwidthUsage        int     `json:"bandwidthUsage"`
	BandwidthLimit        int     `json:"bandwidthLimit"`
	BandwidthUsagePercent float64 `json:"bandwidthUsagePercent"`
}
