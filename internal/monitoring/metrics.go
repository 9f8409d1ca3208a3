package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 监控指标
//
// 所有 Record/Update 方法对 nil 接收者安全，未启用监控的组件可持有 nil。
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 注册商调用指标
	RegistrarCallsTotal *prometheus.CounterVec

	// WHM 调用指标
	WHMCallsTotal *prometheus.CounterVec

	// DNS 同步指标
	DNSReconciliationsTotal *prometheus.CounterVec
	DNSRestoreFailuresTotal prometheus.Counter

	// 业务指标
	DomainsRegistered prometheus.Counter
	DomainsRenewed    prometheus.Counter
	AccountsCreated   prometheus.Counter
	AccountsSuspended prometheus.Counter

	// 错误指标
	ErrorsTotal *prometheus.CounterVec
	PanicsTotal prometheus.Counter
}

// NewMetrics 创建监控指标
func NewMetrics() *Metrics {
	return &Metrics{
		// HTTP 请求指标
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostpanel_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hostpanel_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		// 注册商调用指标
		RegistrarCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostpanel_registrar_calls_total",
				Help: "Total number of registrar API calls",
			},
			[]string{"operation", "outcome"},
		),

		// WHM 调用指标
		WHMCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostpanel_whm_calls_total",
				Help: "Total number of WHM API calls",
			},
			[]string{"operation", "outcome"},
		),

		// DNS 同步指标
		DNSReconciliationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostpanel_dns_reconciliations_total",
				Help: "Total number of DNS record set reconciliations",
			},
			[]string{"path", "outcome"},
		),

		DNSRestoreFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hostpanel_dns_restore_failures_total",
				Help: "Total number of failed DNS backup restorations",
			},
		),

		// 业务指标
		DomainsRegistered: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hostpanel_domains_registered_total",
				Help: "Total number of domains registered",
			},
		),

		DomainsRenewed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hostpanel_domains_renewed_total",
				Help: "Total number of domains renewed",
			},
		),

		AccountsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hostpanel_hosting_accounts_created_total",
				Help: "Total number of hosting accounts created",
			},
		),

		AccountsSuspended: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hostpanel_hosting_accounts_suspended_total",
				Help: "Total number of hosting accounts suspended",
			},
		),

		// 错误指标
		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostpanel_errors_total",
				Help: "Total number of errors",
			},
			[]string{"type", "component"},
		),

		PanicsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hostpanel_panics_total",
				Help: "Total number of panics",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRegistrarCall 记录注册商调用
func (m *Metrics) RecordRegistrarCall(operation string, err error) {
	if m == nil {
		return
	}
	m.RegistrarCallsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

// RecordWHMCall 记录 WHM 调用
func (m *Metrics) RecordWHMCall(operation string, err error) {
	if m == nil {
		return
	}
	m.WHMCallsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

// RecordDNSReconciliation 记录 DNS 记录集同步
//
// path 为 "transactional" 或 "fallback"。
func (m *Metrics) RecordDNSReconciliation(path string, err error) {
	if m == nil {
		return
	}
	m.DNSReconciliationsTotal.WithLabelValues(path, outcome(err)).Inc()
}

// RecordDNSRestoreFailure 记录备份恢复失败（远端可能处于不一致状态）
func (m *Metrics) RecordDNSRestoreFailure() {
	if m == nil {
		return
	}
	m.DNSRestoreFailuresTotal.Inc()
}

// RecordDomainRegistered 记录域名注册
func (m *Metrics) RecordDomainRegistered() {
	if m == nil {
		return
	}
	m.DomainsRegistered.Inc()
}

// RecordDomainRenewed 记录域名续费
func (m *Metrics) RecordDomainRenewed() {
	if m == nil {
		return
	}
	m.DomainsRenewed.Inc()
}

// RecordAccountCreated 记录主机账户创建
func (m *Metrics) RecordAccountCreated() {
	if m == nil {
		return
	}
	m.AccountsCreated.Inc()
}

// RecordAccountSuspended 记录主机账户暂停
func (m *Metrics) RecordAccountSuspended() {
	if m == nil {
		return
	}
	m.AccountsSuspended.Inc()
}

// RecordError 记录错误
func (m *Metrics) RecordError(errorType, component string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordPanic 记录 panic
func (m *Metrics) RecordPanic() {
	if m == nil {
		return
	}
	m.PanicsTotal.Inc()
}

// HTTPHandler 返回 Prometheus HTTP 处理器
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.Handler()
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
