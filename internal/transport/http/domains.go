package httptransport

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/service"
)

// DomainHandler 处理域名注册与生命周期相关的 HTTP 请求
type DomainHandler struct {
	domains    *service.DomainManager
	validation *service.DomainValidationService
	log        *zap.Logger
}

// NewDomainHandler 创建域名处理器
func NewDomainHandler(domains *service.DomainManager, validation *service.DomainValidationService, log *zap.Logger) *DomainHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DomainHandler{
		domains:    domains,
		validation: validation,
		log:        log,
	}
}

type registerDomainRequest struct {
	Name    string             `json:"name" binding:"required"`
	Years   int                `json:"years" binding:"required"`
	Privacy bool               `json:"privacy"`
	Contact domain.ContactInfo `json:"contact" binding:"required"`
}

type renewDomainRequest struct {
	Years int `json:"years" binding:"required"`
}

type transferDomainRequest struct {
	Name     string             `json:"name" binding:"required"`
	AuthCode string             `json:"authCode" binding:"required"`
	Contact  domain.ContactInfo `json:"contact" binding:"required"`
}

type bulkAvailabilityRequest struct {
	Names []string `json:"names" binding:"required"`
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

type validateDomainRequest struct {
	Name string `json:"name" binding:"required"`
}

// CheckAvailability 查询域名是否可注册
// @Summary 查询域名可用性
// @Tags 域名
// @Produce json
// @Param name query string true "完整域名"
// @Success 200 {object} object{domain=string,available=bool} "查询结果"
// @Failure 400 {object} Response "域名语法错误"
// @Router /v1/availability [get]
func (h *DomainHandler) CheckAvailability(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		BadRequest(c, "域名不能为空")
		return
	}

	available, err := h.domains.CheckAvailability(c.Request.Context(), name)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{
		"domain":    name,
		"available": available,
	})
}

// CheckBulkAvailability 批量查询域名可用性
// @Summary 批量查询域名可用性
// @Tags 域名
// @Accept json
// @Produce json
// @Param request body bulkAvailabilityRequest true "域名列表"
// @Success 200 {object} object{results=object} "各域名可用性"
// @Router /v1/availability/bulk [post]
func (h *DomainHandler) CheckBulkAvailability(c *gin.Context) {
	var req bulkAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if len(req.Names) == 0 {
		BadRequest(c, "域名列表不能为空")
		return
	}

	results := h.domains.CheckBulkAvailability(c.Request.Context(), req.Names)
	Success(c, gin.H{"results": results})
}

// SuggestNames 基于关键词生成候选域名
// @Summary 域名推荐
// @Tags 域名
// @Produce json
// @Param keyword query string true "关键词"
// @Param tlds query string false "逗号分隔的 TLD 列表"
// @Param count query int false "返回数量上限"
// @Success 200 {object} object{suggestions=[]string} "候选域名"
// @Router /v1/suggestions [get]
func (h *DomainHandler) SuggestNames(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		BadRequest(c, "关键词不能为空")
		return
	}

	var tlds []string
	if raw := c.Query("tlds"); raw != "" {
		for _, tld := range strings.Split(raw, ",") {
			if tld = strings.TrimSpace(tld); tld != "" {
				tlds = append(tlds, tld)
			}
		}
	}

	count, _ := strconv.Atoi(c.DefaultQuery("count", "10"))
	suggestions := h.domains.SuggestNames(keyword, tlds, count)
	Success(c, gin.H{"suggestions": suggestions})
}

// Register 注册新域名
// @Summary 注册域名
// @Tags 域名
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body registerDomainRequest true "注册信息"
// @Success 201 {object} domain.RegisteredDomain "注册成功"
// @Failure 400 {object} Response "参数错误或域名不可用"
// @Router /v1/domains [post]
func (h *DomainHandler) Register(c *gin.Context) {
	var req registerDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	var registered *domain.RegisteredDomain
	var err error
	if req.Privacy {
		registered, err = h.domains.RegisterWithPrivacy(c.Request.Context(), req.Name, req.Years, &req.Contact)
	} else {
		registered, err = h.domains.Register(c.Request.Context(), req.Name, req.Years, &req.Contact)
	}
	if err != nil {
		RespondError(c, err)
		return
	}

	CreatedWithMsg(c, "域名注册成功", registered)
}

// Renew 域名续费
// @Summary 域名续费
// @Tags 域名
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Param request body renewDomainRequest true "续费年限"
// @Success 200 {object} Response "续费成功"
// @Failure 404 {object} Response "域名不存在"
// @Router /v1/domains/{name}/renew [post]
func (h *DomainHandler) Renew(c *gin.Context) {
	var req renewDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if err := h.domains.Renew(c.Request.Context(), c.Param("name"), req.Years); err != nil {
		RespondError(c, err)
		return
	}

	SuccessWithMsg(c, "域名续费成功", nil)
}

// Transfer 发起域名转入
// @Summary 域名转入
// @Tags 域名
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body transferDomainRequest true "转入信息"
// @Success 200 {object} Response "转入已发起"
// @Failure 400 {object} Response "授权码无效或域名被锁定"
// @Router /v1/transfers [post]
func (h *DomainHandler) Transfer(c *gin.Context) {
	var req transferDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if err := h.domains.Transfer(c.Request.Context(), req.Name, req.AuthCode, &req.Contact); err != nil {
		RespondError(c, err)
		return
	}

	SuccessWithMsg(c, "域名转入已发起", nil)
}

// TransferEligibility 检查域名是否符合转入条件
// @Summary 转入资格检查
// @Tags 域名
// @Produce json
// @Param name path string true "域名"
// @Success 200 {object} object{domain=string,eligible=bool} "检查结果"
// @Router /v1/domains/{name}/transfer-eligibility [get]
func (h *DomainHandler) TransferEligibility(c *gin.Context) {
	name := c.Param("name")
	eligible := h.domains.CheckTransferEligibility(c.Request.Context(), name)
	Success(c, gin.H{
		"domain":   name,
		"eligible": eligible,
	})
}

// GetDetails 获取域名详情
// @Summary 域名详情
// @Tags 域名
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Success 200 {object} domain.RegisteredDomain "域名详情"
// @Failure 404 {object} Response "域名不存在"
// @Router /v1/domains/{name} [get]
func (h *DomainHandler) GetDetails(c *gin.Context) {
	details, err := h.domains.GetDomainDetails(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, details)
}

// GetLockStatus 查询转移锁状态
// @Summary 查询转移锁状态
// @Tags 域名
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Success 200 {object} object{domain=string,locked=bool} "锁定状态"
// @Router /v1/domains/{name}/lock [get]
func (h *DomainHandler) GetLockStatus(c *gin.Context) {
	name := c.Param("name")
	locked, err := h.domains.GetLockStatus(c.Request.Context(), name)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"domain": name,
		"locked": locked,
	})
}

// SetLock 锁定或解锁域名
// @Summary 设置转移锁
// @Tags 域名
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Param request body lockRequest true "锁定状态"
// @Success 200 {object} Response "操作成功"
// @Router /v1/domains/{name}/lock [put]
func (h *DomainHandler) SetLock(c *gin.Context) {
	var req lockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	name := c.Param("name")
	var err error
	if req.Locked {
		err = h.domains.Lock(c.Request.Context(), name)
	} else {
		err = h.domains.Unlock(c.Request.Context(), name)
	}
	if err != nil {
		RespondError(c, err)
		return
	}

	if req.Locked {
		SuccessWithMsg(c, "域名已锁定", nil)
	} else {
		SuccessWithMsg(c, "域名已解锁", nil)
	}
}

// GetAuthCode 获取转移授权码
// @Summary 获取转移授权码
// @Tags 域名
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Success 200 {object} object{domain=string,authCode=string} "授权码"
// @Failure 404 {object} Response "域名不存在"
// @Router /v1/domains/{name}/auth-code [get]
func (h *DomainHandler) GetAuthCode(c *gin.Context) {
	name := c.Param("name")
	authCode, err := h.domains.GetAuthCode(c.Request.Context(), name)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"domain":   name,
		"authCode": authCode,
	})
}

// GetPricing 查询 TLD 价格表
// @Summary 查询 TLD 价格
// @Tags 域名
// @Produce json
// @Param tlds query string false "逗号分隔的 TLD 列表，缺省返回全部"
// @Success 200 {object} object{pricing=object} "价格表"
// @Router /v1/pricing [get]
func (h *DomainHandler) GetPricing(c *gin.Context) {
	var tlds []string
	if raw := c.Query("tlds"); raw != "" {
		for _, tld := range strings.Split(raw, ",") {
			if tld = strings.TrimSpace(tld); tld != "" {
				tlds = append(tlds, tld)
			}
		}
	}

	pricing := h.domains.TLDPricing(c.Request.Context(), tlds)
	Success(c, gin.H{"pricing": pricing})
}

// GetRenewalPrice 查询域名续费价格
// @Summary 查询续费价格
// @Tags 域名
// @Produce json
// @Security BearerAuth
// @Param name path string true "域名"
// @Param years query int false "续费年限，默认 1"
// @Success 200 {object} domain.PriceInfo "价格信息"
// @Router /v1/domains/{name}/renewal-price [get]
func (h *DomainHandler) GetRenewalPrice(c *gin.Context) {
	years, err := strconv.Atoi(c.DefaultQuery("years", "1"))
	if err != nil || years < 1 {
		BadRequest(c, "年限格式无效")
		return
	}

	price, err := h.domains.RenewalPrice(c.Request.Context(), c.Param("name"), years)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, price)
}

// ValidateSyntax 校验域名语法
// @Summary 域名语法校验
// @Tags 域名
// @Accept json
// @Produce json
// @Param request body validateDomainRequest true "待校验域名"
// @Success 200 {object} service.SyntaxResult "校验结果"
// @Router /v1/validation/domains [post]
func (h *DomainHandler) ValidateSyntax(c *gin.Context) {
	var req validateDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	result := h.validation.ValidateDomainSyntax(req.Name)
	Success(c, result)
}
