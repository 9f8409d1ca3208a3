package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/monitoring"
	"hostpanel/backend/internal/registrar"
)

// TxScope 原子多语句作用域
//
// 由 storage/postgres.Client 实现。fn 返回错误时作用域内记录的
// 全部变更意图一起回滚。
type TxScope interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// RecordChange 在当前作用域内记录一条变更意图
	RecordChange(ctx context.Context, domainName, action string, record domain.DNSRecord) error
}

// DNSManager DNS 记录集同步引擎
//
// 把某域名的远端记录集原子地替换为期望集合。注入 TxScope 时走事务
// 路径（变更意图随失败回滚）；否则走备份/补偿路径。同一域名上的并发
// 更新通过按域名加锁串行化，防止交错的备份/恢复序列互相破坏。
type DNSManager struct {
	registrar registrar.Client
	tx        TxScope
	metrics   *monitoring.Metrics
	log       *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDNSManager 创建 DNS 同步引擎
//
// tx 与 metrics 均可为 nil。
func NewDNSManager(reg registrar.Client, tx TxScope, metrics *monitoring.Metrics, log *zap.Logger) *DNSManager {
	return &DNSManager{
		registrar: reg,
		tx:        tx,
		metrics:   metrics,
		log:       log,
		locks:     make(map[string]*sync.Mutex),
	}
}

// domainLock 返回指定域名的互斥锁
func (m *DNSManager) domainLock(name string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[name] = lock
	}
	return lock
}

// GetRecords 获取域名的全部远端 DNS 记录
//
// 远端未提供 TTL 时使用默认值 3600。
func (m *DNSManager) GetRecords(ctx context.Context, domainName string) ([]domain.DNSRecord, error) {
	records, err := m.registrar.GetDNSRecords(ctx, domainName)
	if err != nil {
		m.log.Error("failed to fetch DNS records", zap.String("domain", domainName), zap.Error(err))
		return nil, domain.NewDNSError("get_records", domainName,
			fmt.Errorf("failed to get DNS records: %w", err))
	}

	for i := range records {
		if records[i].TTL == 0 {
			records[i].TTL = domain.DefaultDNSTTL
		}
	}

	m.log.Info("fetched DNS records",
		zap.String("domain", domainName),
		zap.Int("count", len(records)),
	)
	return records, nil
}

// UpdateRecords 原子替换域名的远端记录集
//
// 所有记录先通过校验再触碰远端状态。事务路径下任何一步失败都会回滚
// 已记录的变更意图；补偿路径下失败时用备份恢复，恢复本身失败升级为
// Critical DNSError。
func (m *DNSManager) UpdateRecords(ctx context.Context, domainName string, records []domain.DNSRecord) error {
	for i := range records {
		if err := domain.ValidateDNSRecord(&records[i]); err != nil {
			return domain.NewDNSError("update_records", domainName, err)
		}
	}

	lock := m.domainLock(domainName)
	lock.Lock()
	defer lock.Unlock()

	if m.tx != nil {
		err := m.updateWithTransaction(ctx, domainName, records)
		m.metrics.RecordDNSReconciliation("transactional", err)
		return err
	}
	err := m.updateWithCompensation(ctx, domainName, records)
	m.metrics.RecordDNSReconciliation("fallback", err)
	return err
}

// updateWithTransaction 事务路径：delete-all + recreate-all 包在单个
// 原子作用域内，变更意图先入日志，任何一步失败整个序列回滚。
func (m *DNSManager) updateWithTransaction(ctx context.Context, domainName string, records []domain.DNSRecord) error {
	err := m.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := m.registrar.GetDNSRecords(txCtx, domainName)
		if err != nil {
			return fmt.Errorf("failed to get current records: %w", err)
		}

		for _, record := range current {
			if err := m.tx.RecordChange(txCtx, domainName, "delete", record); err != nil {
				return fmt.Errorf("failed to journal delete: %w", err)
			}
			if err := m.registrar.DeleteDNSRecord(txCtx, domainName, record.ID); err != nil {
				return fmt.Errorf("failed to delete record %s: %w", record.ID, err)
			}
		}

		for _, record := range records {
			if err := m.tx.RecordChange(txCtx, domainName, "create", record); err != nil {
				return fmt.Errorf("failed to journal create: %w", err)
			}
			if _, err := m.registrar.AddDNSRecord(txCtx, domainName, record); err != nil {
				return fmt.Errorf("failed to add record %s: %w", record.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		m.log.Error("transactional DNS update failed",
			zap.String("domain", domainName),
			zap.Error(err),
		)
		return domain.NewDNSError("update_records", domainName,
			fmt.Errorf("failed to update DNS records: %w", err))
	}

	m.log.Info("updated DNS records",
		zap.String("domain", domainName),
		zap.Int("count", len(records)),
	)
	return nil
}

// updateWithCompensation 补偿路径：先快照当前记录作为备份，
// 删除并重建；中途失败时主动删掉已写入的记录并重建备份。
func (m *DNSManager) updateWithCompensation(ctx context.Context, domainName string, records []domain.DNSRecord) error {
	backup, err := m.GetRecords(ctx, domainName)
	if err != nil {
		return err
	}

	if err := m.replaceRecords(ctx, domainName, records); err != nil {
		m.log.Error("DNS update failed, restoring backup",
			zap.String("domain", domainName),
			zap.Error(err),
		)
		if restoreErr := m.restoreFromBackup(ctx, domainName, backup); restoreErr != nil {
			m.metrics.RecordDNSRestoreFailure()
			m.log.Error("DNS restoration failed, remote record set may be inconsistent",
				zap.String("domain", domainName),
				zap.Error(restoreErr),
			)
			return domain.NewCriticalDNSError("update_records", domainName,
				fmt.Errorf("restoration failed after update error %v: %w", err, restoreErr))
		}
		return domain.NewDNSError("update_records", domainName,
			fmt.Errorf("failed to update DNS records: %w", err))
	}

	m.log.Info("updated DNS records",
		zap.String("domain", domainName),
		zap.Int("count", len(records)),
	)
	return nil
}

// replaceRecords 删除远端当前记录并写入新记录集
func (m *DNSManager) replaceRecords(ctx context.Context, domainName string, records []domain.DNSRecord) error {
	current, err := m.registrar.GetDNSRecords(ctx, domainName)
	if err != nil {
		return fmt.Errorf("failed to get current records: %w", err)
	}
	for _, record := range current {
		if err := m.registrar.DeleteDNSRecord(ctx, domainName, record.ID); err != nil {
			return fmt.Errorf("failed to delete record %s: %w", record.ID, err)
		}
	}
	for _, record := range records {
		if _, err := m.registrar.AddDNSRecord(ctx, domainName, record); err != nil {
			return fmt.Errorf("failed to add record %s: %w", record.Name, err)
		}
	}
	return nil
}

// restoreFromBackup 补偿：清空远端现存记录并重建备份集合
func (m *DNSManager) restoreFromBackup(ctx context.Context, domainName string, backup []domain.DNSRecord) error {
	current, err := m.registrar.GetDNSRecords(ctx, domainName)
	if err != nil {
		return fmt.Errorf("failed to list records for restore: %w", err)
	}
	for _, record := range current {
		if err := m.registrar.DeleteDNSRecord(ctx, domainName, record.ID); err != nil {
			return fmt.Errorf("failed to delete record during restore: %w", err)
		}
	}
	for _, record := range backup {
		if _, err := m.registrar.AddDNSRecord(ctx, domainName, record); err != nil {
			return fmt.Errorf("failed to recreate backup record %s: %w", record.Name, err)
		}
	}

	m.log.Info("restored DNS records from backup",
		zap.String("domain", domainName),
		zap.Int("count", len(backup)),
	)
	return nil
}
