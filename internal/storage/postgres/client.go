package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
)

// Config PostgreSQL 连接池配置
type Config struct {
	DSN             string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
}

// Client 封装 PostgreSQL 连接池
//
// 为 DNS 同步引擎提供原子多语句作用域（TxScope）与变更日志。
type Client struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// New 创建新的 PostgreSQL 客户端并初始化变更日志表
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	client := &Client{pool: pool, log: log}

	if err := client.ensureJournalSchema(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create dns change journal: %w", err)
	}

	log.Info("connected to PostgreSQL",
		zap.Int("max_conns", cfg.MaxConns),
		zap.Int("min_conns", cfg.MinConns),
	)

	return client, nil
}

// Pool 返回底层的连接池
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Close 关闭数据库连接池
func (c *Client) Close() {
	c.pool.Close()
	c.log.Info("PostgreSQL connection closed")
}

// Ping 测试数据库连接
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// txKey 事务上下文键
type txKey struct{}

// WithinTransaction 在单个数据库事务内执行 fn
//
// fn 返回错误时整个事务回滚；fn 内通过同一 context 发起的日志写入
// 全部落在该事务中，实现"记录的意图随失败一起回滚"。
func (c *Client) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
			c.log.Error("transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// exec 从上下文解析执行器：事务优先，否则使用连接池
func (c *Client) exec(ctx context.Context, sql string, args ...any) error {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		_, err := tx.Exec(ctx, sql, args...)
		return err
	}
	_, err := c.pool.Exec(ctx, sql, args...)
	return err
}

// ensureJournalSchema 初始化 DNS 变更日志表
func (c *Client) ensureJournalSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS dns_change_journal (
    id          BIGSERIAL PRIMARY KEY,
    domain_name VARCHAR(255) NOT NULL,
    action      VARCHAR(20)  NOT NULL,
    record_type VARCHAR(10)  NOT NULL,
    record_name VARCHAR(255) NOT NULL,
    record_value TEXT        NOT NULL,
    ttl         INTEGER      NOT NULL,
    priority    INTEGER,
    created_at  TIMESTAMPTZ  NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_dns_journal_domain ON dns_change_journal (domain_name, created_at);`
	return c.exec(ctx, ddl)
}

// RecordChange 记录一条 DNS 变更意图
//
// 在 WithinTransaction 作用域内调用时随事务一起提交或回滚。
func (c *Client) RecordChange(ctx context.Context, domainName, action string, record domain.DNSRecord) error {
	const insert = `
INSERT INTO dns_change_journal (domain_name, action, record_type, record_name, record_value, ttl, priority)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	return c.exec(ctx, insert,
		domainName, action, string(record.Type), record.Name, record.Value, record.TTL, record.Priority)
}

// ChangeEntry DNS 变更日志条目
type ChangeEntry struct {
	ID         int64     `json:"id"`
	DomainName string    `json:"domainName"`
	Action     string    `json:"action"`
	RecordType string    `json:"recordType"`
	RecordName string    `json:"recordName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ListChanges 查询某域名最近的变更日志
func (c *Client) ListChanges(ctx context.Context, domainName string, limit int) ([]ChangeEntry, error) {
	const query = `
SELECT id, domain_name, action, record_type, record_name, created_at
FROM dns_change_journal
WHERE domain_name = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := c.pool.Query(ctx, query, domainName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ChangeEntry
	for rows.Next() {
		var e ChangeEntry
		if err := rows.Scan(&e.ID, &e.DomainName, &e.Action, &e.RecordType, &e.RecordName, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
