package httptransport

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/service"
)

// DNSHandler 处理 DNS 记录相关的 HTTP 请求
type DNSHandler struct {
	dns *service.DNSManager
	log *zap.Logger
}

// NewDNSHandler 创建 DNS 处理器
func NewDNSHandler(dns *service.DNSManager, log *zap.Logger) *DNSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DNSHandler{dns: dns, log: log}
}

type updateRecordsRequest struct {
	Records []domain.DNSRecord `json:"records" binding:"required"`
}

// GetRecords 获取域名的 DNS 记录
// @Summary 获取 DNS 记录
// @Tags DNS
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Success 200 {object} object{domain=string,records=[]domain.DNSRecord} "记录列表"
// @Failure 404 {object} Response "域名不存在"
// @Router /v1/domains/{name}/dns [get]
func (h *DNSHandler) GetRecords(c *gin.Context) {
	name := c.Param("name")
	records, err := h.dns.GetRecords(c.Request.Context(), name)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"domain":  name,
		"records": records,
	})
}

// UpdateRecords 全量替换域名的 DNS 记录
//
// 更新失败时记录集会回滚到更新前的状态；回滚也失败时
// 该域名需要人工介入，错误消息会明确说明。
// @Summary 更新 DNS 记录
// @Tags DNS
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Param request body updateRecordsRequest true "完整记录集"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} Response "记录校验失败"
// @Router /v1/domains/{name}/dns [put]
func (h *DNSHandler) UpdateRecords(c *gin.Context) {
	var req updateRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	name := c.Param("name")
	if err := h.dns.UpdateRecords(c.Request.Context(), name, req.Records); err != nil {
		if domain.IsCriticalDNSError(err) {
			h.log.Error("dns update left domain in inconsistent state",
				zap.String("domain", name),
				zap.Error(err),
			)
			InternalError(c, "DNS更新失败且回滚失败，域名状态不一致，请联系管理员")
			return
		}
		RespondError(c, err)
		return
	}

	SuccessWithMsg(c, "DNS记录更新成功", nil)
}
