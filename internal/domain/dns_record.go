package domain

import "time"

// DNSRecordType DNS 记录类型
type DNSRecordType string

const (
	DNSRecordTypeA     DNSRecordType = "A"
	DNSRecordTypeAAAA  DNSRecordType = "AAAA"
	DNSRecordTypeCNAME DNSRecordType = "CNAME"
	DNSRecordTypeMX    DNSRecordType = "MX"
	DNSRecordTypeTXT   DNSRecordType = "TXT"
	DNSRecordTypeNS    DNSRecordType = "NS"
	DNSRecordTypeSRV   DNSRecordType = "SRV"
	DNSRecordTypeCAA   DNSRecordType = "CAA"
	DNSRecordTypePTR   DNSRecordType = "PTR"
	DNSRecordTypeSOA   DNSRecordType = "SOA"
)

// TTL 合法范围（秒）
const (
	MinDNSTTL = 60
	MaxDNSTTL = 86400

	// DefaultDNSTTL 远端未返回 TTL 时使用的默认值
	DefaultDNSTTL = 3600

	// MaxTXTValueLength TXT 记录值的最大字节数
	MaxTXTValueLength = 255

	// MaxMXPriority MX 优先级上限
	MaxMXPriority = 65535
)

// DNSRecord DNS 记录
//
// Priority 仅 MX 记录必填，取值 [0, 65535]。
type DNSRecord struct {
	ID       string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Type     DNSRecordType `json:"type" gorm:"type:varchar(10);not null"`
	Name     string        `json:"name" gorm:"type:varchar(255);not null"`
	Value    string        `json:"value" gorm:"type:text;not null"`
	TTL      int           `json:"ttl" gorm:"default:3600"`
	Priority *int          `json:"priority,omitempty"`
	DomainID string        `json:"domainId,omitempty" gorm:"type:varchar(36);index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Key 记录的逻辑标识（type/name/value），用于集合比较
func (r *DNSRecord) Key() string {
	return string(r.Type) + "/" + r.Name + "/" + r.Value
}

// Equal 判断两条记录在业务上等价（忽略 ID 与时间戳）
func (r *DNSRecord) Equal(other *DNSRecord) bool {
	if r.Type != other.Type || r.Name != other.Name || r.Value != other.Value || r.TTL != other.TTL {
		return false
	}
	if (r.Priority == nil) != (other.Priority == nil) {
		return false
	}
	if r.Priority != nil && *r.Priority != *other.Priority {
		return false
	}
	return true
}
