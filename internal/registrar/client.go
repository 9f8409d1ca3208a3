package registrar

import (
	"context"
	"time"

	"hostpanel/backend/internal/domain"
)

// RegistrationRequest 域名注册请求
type RegistrationRequest struct {
	Domain    string             `json:"domain"`
	Years     int                `json:"years"`
	Contacts  domain.ContactInfo `json:"contacts"`
	Privacy   bool               `json:"privacy"`
	AutoRenew bool               `json:"auto_renew"`
}

// TransferRequest 域名转入请求
type TransferRequest struct {
	Domain   string             `json:"domain"`
	AuthCode string             `json:"auth_code"`
	Contacts domain.ContactInfo `json:"contacts"`
}

// Status 域名注册商侧状态
type Status struct {
	Locked bool `json:"locked"`
}

// DomainInfo 注册商返回的域名详情
type DomainInfo struct {
	Status            string    `json:"status"`
	ExpiryDate        time.Time `json:"expiry_date"`
	RegistrationDate  time.Time `json:"registration_date"`
	Nameservers       []string  `json:"nameservers"`
	Locked            bool      `json:"locked"`
	PrivacyProtection bool      `json:"privacy"`
	AutoRenew         bool      `json:"auto_renew"`
}

// PrivacyStatus WHOIS 隐私保护状态
type PrivacyStatus struct {
	Enabled     bool       `json:"privacy_enabled"`
	ExpiryDate  *time.Time `json:"privacy_expiry,omitempty"`
	ServiceType string     `json:"privacy_service,omitempty"`
}

// Client 注册商远程 API 能力契约
//
// 所有业务组件只通过该接口访问注册商，生产环境使用 HTTPClient，
// 测试与本地开发使用 Fake。
type Client interface {
	// CheckAvailability 查询域名是否可注册
	CheckAvailability(ctx context.Context, name string) (bool, error)
	// Register 提交域名注册
	Register(ctx context.Context, req RegistrationRequest) error
	// Renew 提交域名续费
	Renew(ctx context.Context, name string, years int) error
	// Transfer 提交域名转入
	Transfer(ctx context.Context, req TransferRequest) error

	// GetStatus 查询域名锁定状态
	GetStatus(ctx context.Context, name string) (*Status, error)
	// Lock 锁定域名禁止转移
	Lock(ctx context.Context, name string) error
	// Unlock 解除域名锁定
	Unlock(ctx context.Context, name string) error
	// GetAuthCode 获取转移授权码
	GetAuthCode(ctx context.Context, name string) (string, error)
	// GetDomainInfo 获取域名完整详情
	GetDomainInfo(ctx context.Context, name string) (*DomainInfo, error)

	// EnableWhoisPrivacy 启用 WHOIS 隐私保护
	EnableWhoisPrivacy(ctx context.Context, name string) (bool, error)
	// DisableWhoisPrivacy 关闭 WHOIS 隐私保护
	DisableWhoisPrivacy(ctx context.Context, name string) (bool, error)
	// GetWhoisPrivacyStatus 查询隐私保护状态
	GetWhoisPrivacyStatus(ctx context.Context, name string) (*PrivacyStatus, error)

	// GetContacts 获取域名联系人
	GetContacts(ctx context.Context, name string, contactType domain.ContactType) (*domain.ContactInfo, error)
	// UpdateContacts 更新域名联系人
	UpdateContacts(ctx context.Context, name string, contactType domain.ContactType, contact domain.ContactInfo) error

	// GetDNSRecords 获取域名的全部 DNS 记录
	GetDNSRecords(ctx context.Context, name string) ([]domain.DNSRecord, error)
	// AddDNSRecord 新增一条 DNS 记录，返回远端记录 ID
	AddDNSRecord(ctx context.Context, name string, record domain.DNSRecord) (string, error)
	// DeleteDNSRecord 删除一条 DNS 记录
	DeleteDNSRecord(ctx context.Context, name, recordID string) error
}
