package httptransport

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/service"
)

// ContactHandler 处理域名联系人与隐私保护相关的 HTTP 请求
type ContactHandler struct {
	contacts *service.ContactService
	privacy  *service.PrivacyService
	log      *zap.Logger
}

// NewContactHandler 创建联系人处理器
func NewContactHandler(contacts *service.ContactService, privacy *service.PrivacyService, log *zap.Logger) *ContactHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContactHandler{
		contacts: contacts,
		privacy:  privacy,
		log:      log,
	}
}

type validateContactRequest struct {
	Contact domain.ContactInfo `json:"contact" binding:"required"`
	TLD     string             `json:"tld" binding:"required"`
}

type privacyRequest struct {
	Enabled bool `json:"enabled"`
}

// contactTypeFromParam 解析路径中的联系人类型
func contactTypeFromParam(c *gin.Context) (domain.ContactType, bool) {
	switch t := domain.ContactType(c.Param("type")); t {
	case domain.ContactTypeRegistrant, domain.ContactTypeAdmin,
		domain.ContactTypeTech, domain.ContactTypeBilling:
		return t, true
	default:
		BadRequest(c, "联系人类型无效")
		return "", false
	}
}

// GetContact 获取域名联系人
// @Summary 获取联系人
// @Tags 联系人
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Param type path string true "联系人类型" Enums(registrant, admin, tech, billing)
// @Success 200 {object} domain.ContactInfo "联系人信息"
// @Router /v1/domains/{name}/contacts/{type} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	contactType, ok := contactTypeFromParam(c)
	if !ok {
		return
	}

	contact, err := h.contacts.GetContactInfo(c.Request.Context(), c.Param("name"), contactType)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, contact)
}

// UpdateContact 更新域名联系人
// @Summary 更新联系人
// @Tags 联系人
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Param type path string true "联系人类型" Enums(registrant, admin, tech, billing)
// @Param request body domain.ContactInfo true "联系人信息"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} Response "联系人信息校验失败"
// @Router /v1/domains/{name}/contacts/{type} [put]
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	contactType, ok := contactTypeFromParam(c)
	if !ok {
		return
	}

	var contact domain.ContactInfo
	if err := c.ShouldBindJSON(&contact); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if err := h.contacts.UpdateContactInfo(c.Request.Context(), c.Param("name"), contactType, contact); err != nil {
		RespondError(c, err)
		return
	}

	SuccessWithMsg(c, "联系人更新成功", nil)
}

// ValidateContact 按 TLD 规则校验联系人信息
// @Summary 校验联系人
// @Tags 联系人
// @Accept json
// @Produce json
// @Param request body validateContactRequest true "联系人与目标 TLD"
// @Success 200 {object} service.ContactValidationResult "校验结果"
// @Router /v1/contacts/validate [post]
func (h *ContactHandler) ValidateContact(c *gin.Context) {
	var req validateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	result := h.contacts.ValidateContactInfo(req.Contact, req.TLD)
	Success(c, result)
}

// GetPrivacyStatus 查询 WHOIS 隐私保护状态
// @Summary 查询隐私保护状态
// @Tags 联系人
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Success 200 {object} registrar.PrivacyStatus "隐私保护状态"
// @Router /v1/domains/{name}/privacy [get]
func (h *ContactHandler) GetPrivacyStatus(c *gin.Context) {
	status, err := h.privacy.GetPrivacyStatus(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, status)
}

// SetPrivacy 启用或关闭 WHOIS 隐私保护
// @Summary 设置隐私保护
// @Tags 联系人
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Param request body privacyRequest true "目标状态"
// @Success 200 {object} Response "操作成功"
// @Router /v1/domains/{name}/privacy [put]
func (h *ContactHandler) SetPrivacy(c *gin.Context) {
	var req privacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	name := c.Param("name")
	var err error
	if req.Enabled {
		err = h.privacy.EnablePrivacy(c.Request.Context(), name)
	} else {
		err = h.privacy.DisablePrivacy(c.Request.Context(), name)
	}
	if err != nil {
		RespondError(c, err)
		return
	}

	if req.Enabled {
		SuccessWithMsg(c, "隐私保护已启用", nil)
	} else {
		SuccessWithMsg(c, "隐私保护已关闭", nil)
	}
}
