package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"hostpanel/backend/internal/storage"
)

// AlertLevel 告警级别
type AlertLevel string

const (
	AlertLevelInfo     AlertLevel = "info"
	AlertLevelWarning  AlertLevel = "warning"
	AlertLevelCritical AlertLevel = "critical"
)

// Alert 告警
type Alert struct {
	ID         string                 `json:"id"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Level      AlertLevel             `json:"level"`
	Component  string                 `json:"component"`
	Timestamp  time.Time              `json:"timestamp"`
	Resolved   bool                   `json:"resolved"`
	ResolvedAt *time.Time             `json:"resolved_at,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// AlertRule 告警规则
type AlertRule struct {
	ID            string
	Name          string
	Condition     func() bool
	Level         AlertLevel
	Component     string
	Message       string
	Cooldown      time.Duration
	LastTriggered time.Time
}

// AlertReceiver 告警接收器接口
type AlertReceiver interface {
	SendAlert(alert *Alert) error
}

// AlertManager 告警管理器
//
// 规则在固定间隔下评估，到期域名告警由监控任务直接触发。
// 同一 ID 的告警在被解决前不会重复发送。
type AlertManager struct {
	alerts    map[string]*Alert
	rules     []AlertRule
	receivers []AlertReceiver
	logger    *zap.Logger
	mu        sync.RWMutex
}

// NewAlertManager 创建告警管理器
func NewAlertManager(logger *zap.Logger) *AlertManager {
	return &AlertManager{
		alerts:    make(map[string]*Alert),
		rules:     make([]AlertRule, 0),
		receivers: make([]AlertReceiver, 0),
		logger:    logger,
	}
}

// AddReceiver 添加告警接收器
func (am *AlertManager) AddReceiver(receiver AlertReceiver) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.receivers = append(am.receivers, receiver)
}

// AddRule 添加告警规则
func (am *AlertManager) AddRule(rule AlertRule) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.rules = append(am.rules, rule)
}

// TriggerAlert 触发告警
//
// 相同 ID 的未解决告警不会重复触发。
func (am *AlertManager) TriggerAlert(alert *Alert) {
	am.mu.Lock()
	defer am.mu.Unlock()

	if existing, exists := am.alerts[alert.ID]; exists && !existing.Resolved {
		am.logger.Debug("alert already active, skipping",
			zap.String("alert_id", alert.ID),
		)
		return
	}

	am.alerts[alert.ID] = alert

	for _, receiver := range am.receivers {
		if err := receiver.SendAlert(alert); err != nil {
			am.logger.Error("failed to send alert",
				zap.String("alert_id", alert.ID),
				zap.Error(err),
			)
		}
	}

	am.logger.Info("alert triggered",
		zap.String("alert_id", alert.ID),
		zap.String("level", string(alert.Level)),
		zap.String("component", alert.Component),
	)
}

// ResolveAlert 解决告警
func (am *AlertManager) ResolveAlert(alertID string) {
	am.mu.Lock()
	defer am.mu.Unlock()

	if alert, exists := am.alerts[alertID]; exists && !alert.Resolved {
		now := time.Now()
		alert.Resolved = true
		alert.ResolvedAt = &now

		am.logger.Info("alert resolved", zap.String("alert_id", alertID))
	}
}

// GetAlerts 获取告警列表
func (am *AlertManager) GetAlerts() []Alert {
	am.mu.RLock()
	defer am.mu.RUnlock()

	alerts := make([]Alert, 0, len(am.alerts))
	for _, alert := range am.alerts {
		alerts = append(alerts, *alert)
	}
	return alerts
}

// GetActiveAlerts 获取活跃告警
func (am *AlertManager) GetActiveAlerts() []Alert {
	am.mu.RLock()
	defer am.mu.RUnlock()

	alerts := make([]Alert, 0)
	for _, alert := range am.alerts {
		if !alert.Resolved {
			alerts = append(alerts, *alert)
		}
	}
	return alerts
}

// CheckRules 检查告警规则
func (am *AlertManager) CheckRules() {
	am.mu.RLock()
	rules := make([]AlertRule, len(am.rules))
	copy(rules, am.rules)
	am.mu.RUnlock()

	for _, rule := range rules {
		if time.Since(rule.LastTriggered) < rule.Cooldown {
			continue
		}

		if rule.Condition() {
			alert := &Alert{
				ID:        fmt.Sprintf("%s_%d", rule.ID, time.Now().Unix()),
				Title:     rule.Name,
				Message:   rule.Message,
				Level:     rule.Level,
				Component: rule.Component,
				Timestamp: time.Now(),
			}

			am.TriggerAlert(alert)

			am.mu.Lock()
			for i, r := range am.rules {
				if r.ID == rule.ID {
					am.rules[i].LastTriggered = time.Now()
					break
				}
			}
			am.mu.Unlock()
		}
	}
}

// StartMonitoring 按固定间隔评估告警规则，ctx 取消时退出
func (am *AlertManager) StartMonitoring(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			am.CheckRules()
		}
	}
}

// ========== 内置告警规则 ==========

// DatabaseConnectionRule 数据库连接告警规则
func DatabaseConnectionRule(store storage.Store) AlertRule {
	return AlertRule{
		ID:   "database_connection",
		Name: "Database Connection",
		Condition: func() bool {
			return store.Health() != nil
		},
		Level:     AlertLevelCritical,
		Component: "database",
		Message:   "Database connection failed",
		Cooldown:  1 * time.Minute,
	}
}

// HighMemoryUsageRule 高内存使用告警规则
func HighMemoryUsageRule(thresholdMB float64) AlertRule {
	return AlertRule{
		ID:   "high_memory_usage",
		Name: "High Memory Usage",
		Condition: func() bool {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			return float64(m.Alloc)/1024/1024 > thresholdMB
		},
		Level:     AlertLevelWarning,
		Component: "memory",
		Message:   fmt.Sprintf("Memory usage exceeds %.0f MB", thresholdMB),
		Cooldown:  5 * time.Minute,
	}
}

// NewDomainExpiryAlert 构造到期域名告警
//
// 告警 ID 按域名固定，未解决前同一域名不会重复告警。
func NewDomainExpiryAlert(domainName string, daysUntilExpiry int, autoRenew bool) *Alert {
	level := AlertLevelWarning
	if daysUntilExpiry <= 7 {
		level = AlertLevelCritical
	}

	return &Alert{
		ID:        "domain_expiry_" + domainName,
		Title:     "Domain Expiring Soon",
		Message:   fmt.Sprintf("domain %s expires in %d days", domainName, daysUntilExpiry),
		Level:     level,
		Component: "domains",
		Timestamp: time.Now(),
		Metadata: map[string]interface{}{
			"domain":            domainName,
			"days_until_expiry": daysUntilExpiry,
			"auto_renew":        autoRenew,
		},
	}
}

// ========== 告警接收器实现 ==========

// LogAlertReceiver 日志告警接收器
type LogAlertReceiver struct {
	logger *zap.Logger
}

// NewLogAlertReceiver 创建日志告警接收器
func NewLogAlertReceiver(logger *zap.Logger) *LogAlertReceiver {
	return &LogAlertReceiver{logger: logger}
}

// SendAlert 发送告警到日志
func (lar *LogAlertReceiver) SendAlert(alert *Alert) error {
	fields := []zap.Field{
		zap.String("alert_id", alert.ID),
		zap.String("title", alert.Title),
		zap.String("message", alert.Message),
		zap.String("component", alert.Component),
		zap.Time("timestamp", alert.Timestamp),
	}

	switch alert.Level {
	case AlertLevelCritical:
		lar.logger.Error("CRITICAL ALERT", fields...)
	case AlertLevelWarning:
		lar.logger.Warn("WARNING ALERT", fields...)
	default:
		lar.logger.Info("INFO ALERT", fields...)
	}
	return nil
}

// WebhookAlertReceiver Webhook 告警接收器
type WebhookAlertReceiver struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookAlertReceiver 创建 Webhook 告警接收器
func NewWebhookAlertReceiver(url string, logger *zap.Logger) *WebhookAlertReceiver {
	return &WebhookAlertReceiver{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// SendAlert 将告警以 JSON 形式 POST 到配置的 Webhook 地址
func (war *WebhookAlertReceiver) SendAlert(alert *Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, war.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := war.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver alert webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}

	war.logger.Debug("alert delivered to webhook",
		zap.String("url", war.url),
		zap.String("alert_id", alert.ID),
	)
	return nil
}
