package service

import (
	"context"

	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
)

// BulkResult 批量操作结果
//
// 单项失败不会中断整批，失败项进入 Failed 列表。
type BulkResult struct {
	Successful     []string `json:"successful"`
	Failed         []string `json:"failed"`
	TotalProcessed int      `json:"totalProcessed"`
}

func newBulkResult() *BulkResult {
	return &BulkResult{
		Successful: []string{},
		Failed:     []string{},
	}
}

func (r *BulkResult) record(name string, err error) {
	if err != nil {
		r.Failed = append(r.Failed, name)
	} else {
		r.Successful = append(r.Successful, name)
	}
	r.TotalProcessed++
}

// BulkOperationsService 域名批量操作
type BulkOperationsService struct {
	domains  *DomainManager
	contacts *ContactService
	log      *zap.Logger
}

// NewBulkOperationsService 创建批量操作服务
func NewBulkOperationsService(domains *DomainManager, contacts *ContactService, log *zap.Logger) *BulkOperationsService {
	return &BulkOperationsService{domains: domains, contacts: contacts, log: log}
}

// BulkRenewal 批量续费
func (s *BulkOperationsService) BulkRenewal(ctx context.Context, names []string, years int) *BulkResult {
	results := newBulkResult()
	for _, name := range names {
		err := s.domains.Renew(ctx, name, years)
		if err != nil {
			s.log.Error("bulk renewal item failed", zap.String("domain", name), zap.Error(err))
		}
		results.record(name, err)
	}

	s.log.Info("bulk renewal completed",
		zap.Int("successful", len(results.Successful)),
		zap.Int("failed", len(results.Failed)),
	)
	return results
}

// BulkContactUpdate 批量更新联系人
func (s *BulkOperationsService) BulkContactUpdate(ctx context.Context, names []string, contactType domain.ContactType, contact domain.ContactInfo) *BulkResult {
	results := newBulkResult()
	for _, name := range names {
		err := s.contacts.UpdateContactInfo(ctx, name, contactType, contact)
		if err != nil {
			s.log.Error("bulk contact update item failed", zap.String("domain", name), zap.Error(err))
		}
		results.record(name, err)
	}
	return results
}

// BulkLock 批量锁定或解锁
func (s *BulkOperationsService) BulkLock(ctx context.Context, names []string, lock bool) *BulkResult {
	results := newBulkResult()
	for _, name := range names {
		var err error
		if lock {
			err = s.domains.Lock(ctx, name)
		} else {
			err = s.domains.Unlock(ctx, name)
		}
		if err != nil {
			s.log.Error("bulk lock item failed",
				zap.String("domain", name),
				zap.Bool("lock", lock),
				zap.Error(err),
			)
		}
		results.record(name, err)
	}

	s.log.Info("bulk lock completed",
		zap.Bool("lock", lock),
		zap.Int("successful", len(results.Successful)),
	)
	return results
}
