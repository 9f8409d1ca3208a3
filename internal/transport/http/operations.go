package httptransport

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/monitoring"
	"hostpanel/backend/internal/service"
)

// OperationsHandler 处理批量操作与域名监控相关的 HTTP 请求
type OperationsHandler struct {
	bulk       *service.BulkOperationsService
	monitoring *service.DomainMonitoringService
	alerts     *monitoring.AlertManager
	log        *zap.Logger
}

// NewOperationsHandler 创建批量操作处理器
//
// alerts 可为 nil（未启用告警管理时相关接口返回空列表）。
func NewOperationsHandler(bulk *service.BulkOperationsService, monitoringSvc *service.DomainMonitoringService, alerts *monitoring.AlertManager, log *zap.Logger) *OperationsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OperationsHandler{
		bulk:       bulk,
		monitoring: monitoringSvc,
		alerts:     alerts,
		log:        log,
	}
}

type bulkRenewalRequest struct {
	Names []string `json:"names" binding:"required"`
	Years int      `json:"years" binding:"required"`
}

type bulkLockRequest struct {
	Names  []string `json:"names" binding:"required"`
	Locked bool     `json:"locked"`
}

type bulkContactRequest struct {
	Names       []string           `json:"names" binding:"required"`
	ContactType domain.ContactType `json:"contactType" binding:"required"`
	Contact     domain.ContactInfo `json:"contact" binding:"required"`
}

// BulkRenewal 批量域名续费
//
// 单项失败不会中断整批，失败域名列在返回结果的 failed 中。
// @Summary 批量续费
// @Tags 批量操作
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body bulkRenewalRequest true "域名列表与年限"
// @Success 200 {object} service.BulkResult "逐项结果"
// @Router /v1/bulk/renew [post]
func (h *OperationsHandler) BulkRenewal(c *gin.Context) {
	var req bulkRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if len(req.Names) == 0 {
		BadRequest(c, "域名列表不能为空")
		return
	}

	result := h.bulk.BulkRenewal(c.Request.Context(), req.Names, req.Years)
	Success(c, result)
}

// BulkLock 批量锁定或解锁
// @Summary 批量锁定
// @Tags 批量操作
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body bulkLockRequest true "域名列表与目标状态"
// @Success 200 {object} service.BulkResult "逐项结果"
// @Router /v1/bulk/lock [post]
func (h *OperationsHandler) BulkLock(c *gin.Context) {
	var req bulkLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if len(req.Names) == 0 {
		BadRequest(c, "域名列表不能为空")
		return
	}

	result := h.bulk.BulkLock(c.Request.Context(), req.Names, req.Locked)
	Success(c, result)
}

// BulkContactUpdate 批量更新联系人
// @Summary 批量更新联系人
// @Tags 批量操作
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body bulkContactRequest true "域名列表与联系人信息"
// @Success 200 {object} service.BulkResult "逐项结果"
// @Router /v1/bulk/contacts [post]
func (h *OperationsHandler) BulkContactUpdate(c *gin.Context) {
	var req bulkContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if len(req.Names) == 0 {
		BadRequest(c, "域名列表不能为空")
		return
	}

	result := h.bulk.BulkContactUpdate(c.Request.Context(), req.Names, req.ContactType, req.Contact)
	Success(c, result)
}

// ListExpiringDomains 列出即将到期的域名
// @Summary 即将到期域名
// @Tags 监控
// @Produce json
// @Security BearerAuth
// @Param days query int false "到期阈值天数，默认 30"
// @Success 200 {object} object{domains=[]service.ExpiringDomain,count=int} "到期域名列表"
// @Router /v1/monitoring/expiring [get]
func (h *OperationsHandler) ListExpiringDomains(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 0 {
		BadRequest(c, "天数格式无效")
		return
	}

	expiring, err := h.monitoring.CheckExpiringDomains(days)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{
		"domains": expiring,
		"count":   len(expiring),
	})
}

// MonitorDomain 抓取域名在注册商侧的状态快照
// @Summary 域名状态快照
// @Tags 监控
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Success 200 {object} service.DomainSnapshot "状态快照"
// @Router /v1/domains/{name}/status [get]
func (h *OperationsHandler) MonitorDomain(c *gin.Context) {
	snapshot := h.monitoring.MonitorDomain(c.Request.Context(), c.Param("name"))
	Success(c, snapshot)
}

// ListActiveAlerts 列出当前活跃告警
// @Summary 活跃告警
// @Tags 监控
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{alerts=[]monitoring.Alert,count=int} "活跃告警列表"
// @Router /v1/monitoring/alerts [get]
func (h *OperationsHandler) ListActiveAlerts(c *gin.Context) {
	alerts := []monitoring.Alert{}
	if h.alerts != nil {
		alerts = h.alerts.GetActiveAlerts()
	}

	Success(c, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}
