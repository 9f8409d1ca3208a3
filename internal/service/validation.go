package service

import (
	"regexp"
	"strings"

	"hostpanel/backend/internal/domain"
)

// minDomainNameLength 低于该长度时给出警告（如 a.co 为 4）
const minDomainNameLength = 4

var domainCharsRegex = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)

// SyntaxResult 域名语法校验结果
type SyntaxResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// DomainValidationService 域名语法与 TLD 校验
//
// 纯函数集合，无 I/O；与 DomainManager 的注册前校验保持相同语义。
type DomainValidationService struct{}

// NewDomainValidationService 创建域名校验服务
func NewDomainValidationService() *DomainValidationService {
	return &DomainValidationService{}
}

// ValidateDomainSyntax 校验域名语法并返回全部错误与警告
func (s *DomainValidationService) ValidateDomainSyntax(name string) *SyntaxResult {
	result := &SyntaxResult{Valid: true, Errors: []string{}, Warnings: []string{}}

	if len(name) < minDomainNameLength {
		result.Valid = false
		result.Errors = append(result.Errors, "Domain name too short (minimum 4 characters)")
	} else if len(name) > domain.MaxDomainNameLength {
		result.Valid = false
		result.Errors = append(result.Errors, "Domain name too long (maximum 253 characters)")
	}

	if name != "" && !domainCharsRegex.MatchString(name) {
		result.Valid = false
		result.Errors = append(result.Errors, "Domain name contains invalid characters")
	}

	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		result.Valid = false
		result.Errors = append(result.Errors, "Domain name cannot start or end with hyphen")
	}

	if strings.Contains(name, "..") {
		result.Valid = false
		result.Errors = append(result.Errors, "Domain name cannot contain consecutive dots")
	}

	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		result.Valid = false
		result.Errors = append(result.Errors, "Domain name must have at least one dot")
	}
	for _, part := range parts {
		if len(part) == 0 {
			result.Valid = false
			result.Errors = append(result.Errors, "Domain name parts cannot be empty")
		} else if len(part) > domain.MaxDomainLabelLength {
			result.Valid = false
			result.Errors = append(result.Errors, "Domain name part too long (maximum 63 characters)")
		}
	}

	if result.Valid && len(name) < 8 {
		result.Warnings = append(result.Warnings, "Short domain names may be premium-priced")
	}

	return result
}

// ValidateTLD 校验 TLD 是否在允许列表中
func (s *DomainValidationService) ValidateTLD(tld string) bool {
	return domain.ValidateTLD(tld)
}
