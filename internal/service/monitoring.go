package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/storage"
)

// ExpiringDomain 即将到期的域名摘要
type ExpiringDomain struct {
	DomainName      string    `json:"domainName"`
	ExpiryDate      time.Time `json:"expiryDate"`
	DaysUntilExpiry int       `json:"daysUntilExpiry"`
	AutoRenew       bool      `json:"autoRenew"`
}

// DomainSnapshot 域名当前状态快照
type DomainSnapshot struct {
	Domain    string    `json:"domain"`
	CheckedAt time.Time `json:"checkedAt"`
	Error     string    `json:"error,omitempty"`

	Status            domain.DomainStatus `json:"status,omitempty"`
	Locked            bool                `json:"locked"`
	PrivacyProtection bool                `json:"privacyProtection"`
	Nameservers       []string            `json:"nameservers,omitempty"`
}

// DomainMonitoringService 域名到期与状态监控
type DomainMonitoringService struct {
	domains  *DomainManager
	store    storage.DomainRepository
	log      *zap.Logger

	now func() time.Time
}

// NewDomainMonitoringService 创建域名监控服务
func NewDomainMonitoringService(domains *DomainManager, store storage.DomainRepository, log *zap.Logger) *DomainMonitoringService {
	return &DomainMonitoringService{
		domains: domains,
		store:   store,
		log:     log,
		now:     time.Now,
	}
}

// CheckExpiringDomains 列出 daysThreshold 天内到期且尚未过期的域名
func (s *DomainMonitoringService) CheckExpiringDomains(daysThreshold int) ([]ExpiringDomain, error) {
	if daysThreshold <= 0 {
		daysThreshold = 30
	}

	registered, err := s.store.ListExpiringDomains(daysThreshold)
	if err != nil {
		s.log.Error("failed to list expiring domains", zap.Error(err))
		return nil, err
	}

	now := s.now()
	expiring := make([]ExpiringDomain, 0, len(registered))
	for _, d := range registered {
		days := d.DaysUntilExpiry(now)
		if days <= 0 || days > daysThreshold {
			continue
		}
		expiring = append(expiring, ExpiringDomain{
			DomainName:      d.Name,
			ExpiryDate:      d.ExpiryDate,
			DaysUntilExpiry: days,
			AutoRenew:       d.AutoRenew,
		})
	}

	s.log.Info("checked expiring domains",
		zap.Int("threshold_days", daysThreshold),
		zap.Int("count", len(expiring)),
	)
	return expiring, nil
}

// MonitorDomain 抓取域名在注册商侧的当前状态快照
//
// 快照失败不报错，错误信息记录在快照内。
func (s *DomainMonitoringService) MonitorDomain(ctx context.Context, domainName string) *DomainSnapshot {
	snapshot := &DomainSnapshot{
		Domain:    domainName,
		CheckedAt: s.now().UTC(),
	}

	details, err := s.domains.GetDomainDetails(ctx, domainName)
	if err != nil {
		s.log.Error("domain monitoring failed", zap.String("domain", domainName), zap.Error(err))
		snapshot.Error = err.Error()
		return snapshot
	}

	snapshot.Status = details.Status
	snapshot.Locked = details.Locked
	snapshot.PrivacyProtection = details.PrivacyProtection
	for _, ns := range details.Nameservers {
		snapshot.Nameservers = append(snapshot.Nameservers, ns.Hostname)
	}
	return snapshot
}
