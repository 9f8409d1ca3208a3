package domain

import (
	"net/netip"
	"regexp"
	"strings"
)

// 校验常量
const (
	// MaxDomainNameLength 域名总长度上限（RFC 1035）
	MaxDomainNameLength = 253
	// MaxDomainLabelLength 单个 label 长度上限
	MaxDomainLabelLength = 63
	// MinHostingUsernameLength 主机账户用户名最小长度
	MinHostingUsernameLength = 3
	// MinHostingPasswordLength 主机账户密码最小长度
	MinHostingPasswordLength = 8
)

// 正则表达式
var (
	// 域名 label（字母数字，内部允许连字符）
	domainLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

	// DNS 名称（支持通配符前缀与尾部点）
	dnsNameRegex = regexp.MustCompile(`^(\*\.)?([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.?$`)

	// 邮箱地址
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// 国际电话号码（宽松格式）
	phoneRegex = regexp.MustCompile(`^\+\d{1,3}[\s.-]?\(?\d{1,4}\)?[\s.-]?\d{1,4}[\s.-]?\d{1,9}$`)

	// 主机账户用户名（小写字母开头，允许数字与下划线）
	hostingUsernameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{2,}$`)

	// IPv6 压缩/混合写法的回退模式（netip 解析失败时使用）
	ipv6FallbackRegexes = []*regexp.Regexp{
		regexp.MustCompile(`^([0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}$`),
		regexp.MustCompile(`^::([0-9a-fA-F]{1,4}:){0,6}[0-9a-fA-F]{1,4}$`),
		regexp.MustCompile(`^([0-9a-fA-F]{1,4}:){1,7}:$`),
		regexp.MustCompile(`^([0-9a-fA-F]{1,4}:){1,6}:[0-9a-fA-F]{1,4}$`),
	}
)

// validTLDs 允许的 TLD 列表
var validTLDs = map[string]bool{
	"com": true, "net": true, "org": true, "ir": true, "io": true,
	"co": true, "info": true, "biz": true, "me": true, "tv": true,
	"us": true, "uk": true, "de": true, "fr": true, "it": true,
	"es": true, "nl": true,
}

// ValidateDomainName 校验完整域名语法
//
// 规则：label.label...TLD，每个 label 1-63 字符，字母数字加内部连字符，
// 不允许下划线、连续点、首尾连字符，总长不超过 253，至少一个点。
func ValidateDomainName(name string) bool {
	if name == "" || len(name) > MaxDomainNameLength {
		return false
	}
	if !strings.Contains(name, ".") {
		return false
	}
	if strings.Contains(name, "..") || strings.Contains(name, "_") {
		return false
	}
	labels := strings.Split(name, ".")
	for _, label := range labels {
		if len(label) == 0 || len(label) > MaxDomainLabelLength {
			return false
		}
		if !domainLabelRegex.MatchString(label) {
			return false
		}
	}
	return true
}

// ValidateDNSName 校验 DNS 记录名称
//
// 允许通配符前缀 "*." 与可选的尾部点。
func ValidateDNSName(name string) bool {
	if name == "" || len(name) > MaxDomainNameLength+1 {
		return false
	}
	return dnsNameRegex.MatchString(name)
}

// ValidateIPv4 校验 IPv4 地址（严格点分十进制）
func ValidateIPv4(value string) bool {
	addr, err := netip.ParseAddr(value)
	return err == nil && addr.Is4()
}

// ValidateIPv6 校验 IPv6 地址
//
// 优先使用严格解析，压缩/混合写法解析失败时回退到模式匹配。
func ValidateIPv6(value string) bool {
	addr, err := netip.ParseAddr(value)
	if err == nil {
		return addr.Is6() && !addr.Is4()
	}
	for _, re := range ipv6FallbackRegexes {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// ValidateEmail 校验邮箱地址格式
func ValidateEmail(email string) bool {
	if email == "" {
		return false
	}
	return emailRegex.MatchString(email)
}

// ValidatePhone 校验国际电话号码格式
func ValidatePhone(phone string) bool {
	if phone == "" {
		return false
	}
	return phoneRegex.MatchString(phone)
}

// ValidateTLD 校验 TLD 是否在允许列表中（大小写不敏感，允许前导点）
func ValidateTLD(tld string) bool {
	return validTLDs[strings.ToLower(strings.TrimPrefix(tld, "."))]
}

// ValidateHostingUsername 校验主机账户用户名
func ValidateHostingUsername(username string) bool {
	if len(username) < MinHostingUsernameLength {
		return false
	}
	return hostingUsernameRegex.MatchString(strings.ToLower(username))
}

// ValidateDNSRecord 校验单条 DNS 记录的完整性
//
// 任何写入远端之前都必须通过此校验。
func ValidateDNSRecord(record *DNSRecord) error {
	if record.Name == "" || record.Value == "" {
		return NewValidationError("name and value are required for DNS record")
	}
	if record.TTL < MinDNSTTL || record.TTL > MaxDNSTTL {
		return NewValidationError("TTL must be between %d and %d seconds", MinDNSTTL, MaxDNSTTL)
	}
	if !ValidateDNSName(record.Name) {
		return NewValidationError("invalid DNS name: %s", record.Name)
	}

	if record.Type == DNSRecordTypeMX {
		if record.Priority == nil {
			return NewValidationError("priority is required for MX records")
		}
		if *record.Priority < 0 || *record.Priority > MaxMXPriority {
			return NewValidationError("priority must be between 0 and %d", MaxMXPriority)
		}
	}

	switch record.Type {
	case DNSRecordTypeA:
		if !ValidateIPv4(record.Value) {
			return NewValidationError("invalid IPv4 address: %s", record.Value)
		}
	case DNSRecordTypeAAAA:
		if !ValidateIPv6(record.Value) {
			return NewValidationError("invalid IPv6 address: %s", record.Value)
		}
	case DNSRecordTypeCNAME, DNSRecordTypeMX, DNSRecordTypeNS:
		if !ValidateDNSName(record.Value) {
			return NewValidationError("invalid value for %s record: %s", record.Type, record.Value)
		}
	case DNSRecordTypeTXT:
		if len(record.Value) > MaxTXTValueLength {
			return NewValidationError("TXT value exceeds %d bytes", MaxTXTValueLength)
		}
	}

	return nil
}

// ValidateContactInfo 校验注册联系人信息（邮箱与姓名必填）
func ValidateContactInfo(contact *ContactInfo) error {
	if contact == nil || contact.Email == "" {
		return NewValidationError("valid contact information with email is required")
	}
	if contact.FirstName == "" || contact.LastName == "" {
		return NewValidationError("first name and last name are required")
	}
	return nil
}
