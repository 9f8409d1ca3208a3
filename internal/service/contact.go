package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/registrar"
)

// euCountries .eu 域名允许的联系人国家代码
var euCountries = map[string]bool{
	"EU": true, "AT": true, "BE": true, "BG": true, "HR": true, "CY": true,
	"CZ": true, "DK": true, "EE": true, "FI": true, "FR": true, "DE": true,
	"GR": true, "HU": true, "IE": true, "IT": true, "LV": true, "LT": true,
	"LU": true, "MT": true, "NL": true, "PL": true, "PT": true, "RO": true,
	"SK": true, "SI": true, "ES": true, "SE": true,
}

// ContactValidationResult 联系人校验结果
type ContactValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ContactService 域名联系人管理
type ContactService struct {
	registrar registrar.Client
	log       *zap.Logger
}

// NewContactService 创建联系人服务
func NewContactService(reg registrar.Client, log *zap.Logger) *ContactService {
	return &ContactService{registrar: reg, log: log}
}

// GetContactInfo 获取指定类型的域名联系人
func (s *ContactService) GetContactInfo(ctx context.Context, domainName string, contactType domain.ContactType) (*domain.ContactInfo, error) {
	contact, err := s.registrar.GetContacts(ctx, domainName, contactType)
	if err != nil {
		s.log.Error("failed to get contact info",
			zap.String("domain", domainName),
			zap.String("type", string(contactType)),
			zap.Error(err),
		)
		return nil, domain.NewDomainError("get_contacts", domainName,
			fmt.Errorf("failed to get contact information: %w", err))
	}
	return contact, nil
}

// UpdateContactInfo 更新指定类型的域名联系人
//
// 校验失败直接返回校验错误，不包装为 DomainError。
func (s *ContactService) UpdateContactInfo(ctx context.Context, domainName string, contactType domain.ContactType, contact domain.ContactInfo) error {
	if err := domain.ValidateContactInfo(&contact); err != nil {
		return err
	}

	if err := s.registrar.UpdateContacts(ctx, domainName, contactType, contact); err != nil {
		s.log.Error("failed to update contact info",
			zap.String("domain", domainName),
			zap.String("type", string(contactType)),
			zap.Error(err),
		)
		return domain.NewDomainError("update_contacts", domainName,
			fmt.Errorf("failed to update contact information: %w", err))
	}

	s.log.Info("updated contact info",
		zap.String("domain", domainName),
		zap.String("type", string(contactType)),
	)
	return nil
}

// ValidateContactInfo 按 TLD 规则校验联系人信息
//
// .eu 要求欧盟国家联系人；.ca 要求加拿大本地联系人。
func (s *ContactService) ValidateContactInfo(contact domain.ContactInfo, tld string) *ContactValidationResult {
	result := &ContactValidationResult{Valid: true, Errors: []string{}}

	if contact.FirstName == "" || contact.LastName == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "First and last name are required")
	}
	if !domain.ValidateEmail(contact.Email) {
		result.Valid = false
		result.Errors = append(result.Errors, "Invalid email format")
	}
	if !domain.ValidatePhone(contact.Phone) {
		result.Valid = false
		result.Errors = append(result.Errors, "Invalid phone number format")
	}

	switch tld {
	case ".eu":
		if !euCountries[contact.Country] {
			result.Valid = false
			result.Errors = append(result.Errors, "EU domains require EU-based contact")
		}
	case ".ca":
		if contact.Country != "CA" {
			result.Valid = false
			result.Errors = append(result.Errors, ".ca domains require Canadian presence")
		}
	}
	return result
}

// PrivacyService WHOIS 隐私保护管理
type PrivacyService struct {
	registrar registrar.Client
	log       *zap.Logger
}

// NewPrivacyService 创建隐私保护服务
func NewPrivacyService(reg registrar.Client, log *zap.Logger) *PrivacyService {
	return &PrivacyService{registrar: reg, log: log}
}

// EnablePrivacy 启用隐私保护
func (s *PrivacyService) EnablePrivacy(ctx context.Context, domainName string) error {
	if _, err := s.registrar.EnableWhoisPrivacy(ctx, domainName); err != nil {
		return domain.NewDomainError("enable_privacy", domainName,
			fmt.Errorf("failed to enable privacy protection: %w", err))
	}
	s.log.Info("enabled privacy protection", zap.String("domain", domainName))
	return nil
}

// DisablePrivacy 关闭隐私保护
func (s *PrivacyService) DisablePrivacy(ctx context.Context, domainName string) error {
	if _, err := s.registrar.DisableWhoisPrivacy(ctx, domainName); err != nil {
		return domain.NewDomainError("disable_privacy", domainName,
			fmt.Errorf("failed to disable privacy protection: %w", err))
	}
	s.log.Info("disabled privacy protection", zap.String("domain", domainName))
	return nil
}

// GetPrivacyStatus 查询隐私保护状态
func (s *PrivacyService) GetPrivacyStatus(ctx context.Context, domainName string) (*registrar.PrivacyStatus, error) {
	status, err := s.registrar.GetWhoisPrivacyStatus(ctx, domainName)
	if err != nil {
		return nil, domain.NewDomainError("privacy_status", domainName,
			fmt.Errorf("failed to get privacy status: %w", err))
	}
	return status, nil
}
