package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/pool"
	"hostpanel/backend/internal/registrar"
	"hostpanel/backend/internal/storage"
)

// 域名建议生成使用的固定前后缀，顺序有业务含义（输出必须可复现）
var (
	suggestionPrefixes = []string{"my", "get", "the", "best", "top"}
	suggestionSuffixes = []string{"online", "site", "web", "hub", "center"}
)

// defaultSuggestionTLDs 未指定 TLD 时的默认候选
var defaultSuggestionTLDs = []string{".com", ".net", ".org", ".ir"}

// transferMinDaysToExpiry 距到期日不足该天数的域名不建议转移
const transferMinDaysToExpiry = 60

// TLDPriceTable 每个 TLD 的单年基础价格（USD）
//
// 键为不带点的 TLD。查询时自动去除前导点。
type TLDPriceTable map[string]domain.PriceInfo

// Get 查询 TLD 基础价格，前导点被忽略
func (t TLDPriceTable) Get(tld string) (domain.PriceInfo, bool) {
	price, ok := t[strings.ToLower(strings.TrimPrefix(tld, "."))]
	return price, ok
}

// PriceCache 价格与可用性查询缓存能力契约
//
// 由 storage/redis.Cache 实现；未配置缓存时传 nil，所有查询直接回源。
type PriceCache interface {
	GetAvailability(ctx context.Context, domainName string) (bool, bool)
	SetAvailability(ctx context.Context, domainName string, available bool)
	GetPricing(ctx context.Context, tld string) (*domain.PriceInfo, bool)
	SetPricing(ctx context.Context, tld string, price *domain.PriceInfo)
}

// DomainManager 域名生命周期管理
//
// 封装可用性检查、注册、续费、转移、锁定与价格查询；
// 所有远程失败统一包装为 DomainError。
type DomainManager struct {
	registrar registrar.Client
	domains   storage.DomainRepository
	cache     PriceCache
	pricing   TLDPriceTable
	log       *zap.Logger

	now func() time.Time
}

// NewDomainManager 创建域名管理服务
//
// domains 可为 nil（不持久化注册结果）；cache 可为 nil（不启用缓存）。
func NewDomainManager(reg registrar.Client, domains storage.DomainRepository, cache PriceCache, pricing TLDPriceTable, log *zap.Logger) *DomainManager {
	return &DomainManager{
		registrar: reg,
		domains:   domains,
		cache:     cache,
		pricing:   pricing,
		log:       log,
		now:       time.Now,
	}
}

// CheckAvailability 检查单个域名是否可注册
//
// 语法校验失败时不发起任何远程调用，直接返回包装了校验错误的 DomainError。
func (m *DomainManager) CheckAvailability(ctx context.Context, name string) (bool, error) {
	if !domain.ValidateDomainName(name) {
		return false, domain.NewDomainError("check_availability", name,
			domain.NewValidationError("invalid domain name: %s", name))
	}

	if m.cache != nil {
		if available, hit := m.cache.GetAvailability(ctx, name); hit {
			return available, nil
		}
	}

	available, err := m.registrar.CheckAvailability(ctx, name)
	if err != nil {
		m.log.Error("availability check failed", zap.String("domain", name), zap.Error(err))
		return false, domain.NewDomainError("check_availability", name,
			fmt.Errorf("failed to check domain availability: %w", err))
	}

	if m.cache != nil {
		m.cache.SetAvailability(ctx, name, available)
	}

	m.log.Info("checked domain availability",
		zap.String("domain", name),
		zap.Bool("available", available),
	)
	return available, nil
}

// bulkAvailabilityWorkers 批量可用性检查的最大并发查询数
const bulkAvailabilityWorkers = 5

// CheckBulkAvailability 批量检查域名可用性
//
// 查询之间相互独立，按协程池并发执行；
// 单个域名失败不会中断整批，失败项记为 false。
func (m *DomainManager) CheckBulkAvailability(ctx context.Context, names []string) map[string]bool {
	results := make(map[string]bool, len(names))
	var mu sync.Mutex

	workers := pool.NewWorkerPool(bulkAvailabilityWorkers, len(names), m.log)
	workers.Start(ctx)
	for _, name := range names {
		name := name
		workers.Submit(func() {
			available, err := m.CheckAvailability(ctx, name)
			if err != nil {
				m.log.Error("bulk availability item failed", zap.String("domain", name), zap.Error(err))
				available = false
			}
			mu.Lock()
			results[name] = available
			mu.Unlock()
		})
	}
	workers.Stop()

	return results
}

// SuggestNames 生成确定性的域名建议
//
// 输出顺序：每个 TLD 的基础建议（keyword+tld）在前，之后按 TLD 逐个
// 追加前缀与后缀组合；去重保留首次出现的位置，最终截断到 count。
// 相同输入总是产生相同输出。
func (m *DomainManager) SuggestNames(keyword string, tlds []string, count int) []string {
	if len(tlds) == 0 {
		tlds = defaultSuggestionTLDs
	}

	var all []string
	for _, tld := range tlds {
		all = append(all, keyword+tld)
	}
	for _, tld := range tlds {
		for _, prefix := range suggestionPrefixes {
			all = append(all, prefix+keyword+tld)
		}
		for _, suffix := range suggestionSuffixes {
			all = append(all, keyword+suffix+tld)
		}
	}

	seen := make(map[string]bool, len(all))
	suggestions := make([]string, 0, count)
	for _, name := range all {
		if seen[name] {
			continue
		}
		seen[name] = true
		suggestions = append(suggestions, name)
		if len(suggestions) == count {
			break
		}
	}

	m.log.Info("generated domain suggestions",
		zap.String("keyword", keyword),
		zap.Int("count", len(suggestions)),
	)
	return suggestions
}

// Register 注册新域名
//
// 校验 → 可用性复查 → 远程注册 → 构造并持久化域名实体。
// 到期日按 365 天/年 计算，是对真实日历年的刻意近似。
func (m *DomainManager) Register(ctx context.Context, name string, years int, contact *domain.ContactInfo) (*domain.RegisteredDomain, error) {
	if err := m.validateRegistrationInput(name, years, contact); err != nil {
		return nil, domain.NewDomainError("register", name, err)
	}

	available, err := m.CheckAvailability(ctx, name)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.NewDomainError("register", name,
			fmt.Errorf("domain %s is not available", name))
	}

	req := registrar.RegistrationRequest{
		Domain:    name,
		Years:     years,
		Contacts:  *contact,
		Privacy:   false,
		AutoRenew: true,
	}
	if err := m.registrar.Register(ctx, req); err != nil {
		m.log.Error("domain registration failed", zap.String("domain", name), zap.Error(err))
		return nil, domain.NewDomainError("register", name,
			fmt.Errorf("domain registration failed: %w", err))
	}

	now := m.now().UTC()
	registered := &domain.RegisteredDomain{
		ID:               uuid.NewString(),
		Name:             name,
		Status:           domain.DomainStatusActive,
		ExpiryDate:       now.AddDate(0, 0, 365*years),
		RegistrationDate: now,
		AutoRenew:        true,
		CreatedAt:        now,
	}
	for i, hostname := range domain.DefaultNameservers() {
		registered.Nameservers = append(registered.Nameservers, domain.Nameserver{
			ID:       uuid.NewString(),
			Hostname: hostname,
			Position: i,
			DomainID: registered.ID,
		})
	}

	if m.domains != nil {
		if err := m.domains.SaveDomain(registered); err != nil {
			m.log.Error("failed to persist registered domain", zap.String("domain", name), zap.Error(err))
			return nil, domain.NewDomainError("register", name, err)
		}
	}

	m.log.Info("registered domain",
		zap.String("domain", name),
		zap.Int("years", years),
	)
	return registered, nil
}

// RegisterWithPrivacy 注册域名并尽力启用隐私保护
//
// 隐私开启失败只记日志，注册结果仍然返回（privacy_protection 保持 false）。
func (m *DomainManager) RegisterWithPrivacy(ctx context.Context, name string, years int, contact *domain.ContactInfo) (*domain.RegisteredDomain, error) {
	registered, err := m.Register(ctx, name, years, contact)
	if err != nil {
		return nil, err
	}

	success, err := m.registrar.EnableWhoisPrivacy(ctx, name)
	if err != nil || !success {
		m.log.Warn("domain registered but privacy protection failed",
			zap.String("domain", name),
			zap.Error(err),
		)
		return registered, nil
	}

	registered.PrivacyProtection = true
	if m.domains != nil {
		if err := m.domains.SaveDomain(registered); err != nil {
			m.log.Warn("failed to persist privacy flag", zap.String("domain", name), zap.Error(err))
		}
	}
	return registered, nil
}

// Renew 续费域名
func (m *DomainManager) Renew(ctx context.Context, name string, years int) error {
	if years <= 0 {
		return domain.NewDomainError("renew", name,
			domain.NewValidationError("years must be a positive integer"))
	}

	if err := m.registrar.Renew(ctx, name, years); err != nil {
		m.log.Error("domain renewal failed", zap.String("domain", name), zap.Error(err))
		return domain.NewDomainError("renew", name,
			fmt.Errorf("domain renewal failed: %w", err))
	}

	if m.domains != nil {
		if registered, err := m.domains.GetDomainByName(name); err == nil {
			registered.ExpiryDate = registered.ExpiryDate.AddDate(0, 0, 365*years)
			registered.Status = domain.DomainStatusActive
			if err := m.domains.SaveDomain(registered); err != nil {
				m.log.Warn("failed to persist renewed expiry", zap.String("domain", name), zap.Error(err))
			}
		} else if !errors.Is(err, storage.ErrDomainNotFound) {
			m.log.Warn("failed to load domain for renewal update", zap.String("domain", name), zap.Error(err))
		}
	}

	m.log.Info("renewed domain", zap.String("domain", name), zap.Int("years", years))
	return nil
}

// Transfer 发起域名转入
//
// 不自动调用 CheckTransferEligibility，资格检查是独立的咨询性操作。
func (m *DomainManager) Transfer(ctx context.Context, name, authCode string, contact *domain.ContactInfo) error {
	req := registrar.TransferRequest{
		Domain:   name,
		AuthCode: authCode,
	}
	if contact != nil {
		req.Contacts = *contact
	}

	if err := m.registrar.Transfer(ctx, req); err != nil {
		m.log.Error("domain transfer failed", zap.String("domain", name), zap.Error(err))
		return domain.NewDomainError("transfer", name,
			fmt.Errorf("domain transfer failed: %w", err))
	}

	m.log.Info("transfer initiated", zap.String("domain", name))
	return nil
}

// CheckTransferEligibility 检查域名是否适合转移
//
// 域名被锁定或距到期不足 60 天时返回 false；任何内部错误也吞掉返回
// false，该方法从不报错。
func (m *DomainManager) CheckTransferEligibility(ctx context.Context, name string) bool {
	locked, err := m.GetLockStatus(ctx, name)
	if err != nil {
		m.log.Error("transfer eligibility check failed", zap.String("domain", name), zap.Error(err))
		return false
	}
	if locked {
		m.log.Warn("domain is locked, cannot transfer", zap.String("domain", name))
		return false
	}

	details, err := m.GetDomainDetails(ctx, name)
	if err != nil {
		m.log.Error("transfer eligibility check failed", zap.String("domain", name), zap.Error(err))
		return false
	}

	days := details.DaysUntilExpiry(m.now())
	if days < transferMinDaysToExpiry {
		m.log.Warn("domain too close to expiry for transfer",
			zap.String("domain", name),
			zap.Int("days_until_expiry", days),
		)
		return false
	}
	return true
}

// GetLockStatus 查询域名锁定状态
func (m *DomainManager) GetLockStatus(ctx context.Context, name string) (bool, error) {
	status, err := m.registrar.GetStatus(ctx, name)
	if err != nil {
		return false, domain.NewDomainError("get_lock_status", name,
			fmt.Errorf("failed to get domain lock status: %w", err))
	}
	return status.Locked, nil
}

// Lock 锁定域名禁止转移
func (m *DomainManager) Lock(ctx context.Context, name string) error {
	if err := m.registrar.Lock(ctx, name); err != nil {
		return domain.NewDomainError("lock", name,
			fmt.Errorf("failed to lock domain: %w", err))
	}
	m.log.Info("locked domain", zap.String("domain", name))
	return nil
}

// Unlock 解除域名锁定
func (m *DomainManager) Unlock(ctx context.Context, name string) error {
	if err := m.registrar.Unlock(ctx, name); err != nil {
		return domain.NewDomainError("unlock", name,
			fmt.Errorf("failed to unlock domain: %w", err))
	}
	m.log.Info("unlocked domain", zap.String("domain", name))
	return nil
}

// GetAuthCode 获取转移授权码
func (m *DomainManager) GetAuthCode(ctx context.Context, name string) (string, error) {
	code, err := m.registrar.GetAuthCode(ctx, name)
	if err != nil {
		return "", domain.NewDomainError("get_auth_code", name,
			fmt.Errorf("failed to get authorization code: %w", err))
	}
	if code == "" {
		return "", domain.NewDomainError("get_auth_code", name,
			errors.New("no authorization code received"))
	}
	return code, nil
}

// GetDomainDetails 获取注册商侧的域名完整详情
func (m *DomainManager) GetDomainDetails(ctx context.Context, name string) (*domain.RegisteredDomain, error) {
	info, err := m.registrar.GetDomainInfo(ctx, name)
	if err != nil {
		return nil, domain.NewDomainError("get_details", name,
			fmt.Errorf("failed to get domain details: %w", err))
	}

	details := &domain.RegisteredDomain{
		Name:              name,
		Status:            domain.DomainStatus(info.Status),
		ExpiryDate:        info.ExpiryDate,
		RegistrationDate:  info.RegistrationDate,
		Locked:            info.Locked,
		PrivacyProtection: info.PrivacyProtection,
		AutoRenew:         info.AutoRenew,
	}
	if details.Status == "" {
		details.Status = domain.DomainStatusActive
	}
	for i, hostname := range info.Nameservers {
		details.Nameservers = append(details.Nameservers, domain.Nameserver{
			Hostname: hostname,
			Position: i,
		})
	}
	return details, nil
}

// EnablePrivacyProtection 启用 WHOIS 隐私保护
func (m *DomainManager) EnablePrivacyProtection(ctx context.Context, name string) (bool, error) {
	success, err := m.registrar.EnableWhoisPrivacy(ctx, name)
	if err != nil {
		return false, domain.NewDomainError("enable_privacy", name,
			fmt.Errorf("failed to enable privacy protection: %w", err))
	}
	if !success {
		m.log.Warn("privacy protection not enabled", zap.String("domain", name))
	}
	return success, nil
}

// RenewalPrice 计算续费价格（基础价 × 年数）
func (m *DomainManager) RenewalPrice(ctx context.Context, name string, years int) (*domain.PriceInfo, error) {
	parts := strings.Split(name, ".")
	tld := parts[len(parts)-1]
	return m.priceForTLD(ctx, "renewal_price", tld, years)
}

// RegistrationPrice 计算注册价格（基础价 × 年数）
func (m *DomainManager) RegistrationPrice(ctx context.Context, tld string, years int) (*domain.PriceInfo, error) {
	return m.priceForTLD(ctx, "registration_price", tld, years)
}

func (m *DomainManager) priceForTLD(ctx context.Context, op, tld string, years int) (*domain.PriceInfo, error) {
	base, err := m.lookupTLDPrice(ctx, tld)
	if err != nil {
		return nil, domain.NewDomainError(op, tld, err)
	}
	y := float64(years)
	return &domain.PriceInfo{
		Registration: base.Registration * y,
		Renewal:      base.Renewal * y,
		Transfer:     base.Transfer * y,
		Currency:     "USD",
	}, nil
}

// TLDPricing 批量查询 TLD 价格
//
// 单个 TLD 查询失败时其条目为 nil，不中断整批。
func (m *DomainManager) TLDPricing(ctx context.Context, tlds []string) map[string]*domain.PriceInfo {
	pricing := make(map[string]*domain.PriceInfo, len(tlds))
	for _, tld := range tlds {
		base, err := m.lookupTLDPrice(ctx, tld)
		if err != nil {
			m.log.Error("failed to get TLD pricing", zap.String("tld", tld), zap.Error(err))
			pricing[tld] = nil
			continue
		}
		price := *base
		pricing[tld] = &price
	}
	return pricing
}

// lookupTLDPrice 查询 TLD 单年基础价格（经缓存）
func (m *DomainManager) lookupTLDPrice(ctx context.Context, tld string) (*domain.PriceInfo, error) {
	normalized := strings.ToLower(strings.TrimPrefix(tld, "."))

	if m.cache != nil {
		if price, hit := m.cache.GetPricing(ctx, normalized); hit {
			return price, nil
		}
	}

	base, ok := m.pricing.Get(normalized)
	if !ok {
		return nil, fmt.Errorf("no pricing configured for TLD: %s", tld)
	}

	if m.cache != nil {
		m.cache.SetPricing(ctx, normalized, &base)
	}
	return &base, nil
}

// validateRegistrationInput 注册前的输入校验，任何远程调用之前执行
func (m *DomainManager) validateRegistrationInput(name string, years int, contact *domain.ContactInfo) error {
	if !domain.ValidateDomainName(name) {
		return domain.NewValidationError("invalid domain name format")
	}
	if years <= 0 {
		return domain.NewValidationError("years must be a positive integer")
	}
	return domain.ValidateContactInfo(contact)
}
