package httptransport

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hostpanel/backend/internal/service"
)

// HostingHandler 处理主机账户相关的 HTTP 请求
type HostingHandler struct {
	hosting *service.HostingManager
	log     *zap.Logger
}

// NewHostingHandler 创建主机处理器
func NewHostingHandler(hosting *service.HostingManager, log *zap.Logger) *HostingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HostingHandler{hosting: hosting, log: log}
}

type createAccountRequest struct {
	Domain     string `json:"domain" binding:"required"`
	PackageID  string `json:"packageId" binding:"required"`
	CustomerID string `json:"customerId" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type suspendRequest struct {
	Reason string `json:"reason"`
}

type changePlanRequest struct {
	PackageID string `json:"packageId" binding:"required"`
}

type renewAccountRequest struct {
	Years int `json:"years" binding:"required"`
}

type createEmailRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Quota    int    `json:"quota"`
}

type createDatabaseRequest struct {
	Name     string `json:"name" binding:"required"`
	User     string `json:"user" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type accountPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// CreateAccount 创建主机账户
// @Summary 创建主机账户
// @Tags 主机
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createAccountRequest true "开户信息"
// @Success 201 {object} domain.HostingAccount "创建成功"
// @Failure 400 {object} Response "参数错误或域名已有账户"
// @Router /v1/hosting/accounts [post]
func (h *HostingHandler) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	account, err := h.hosting.CreateAccount(c.Request.Context(),
		req.Domain, req.PackageID, req.CustomerID, req.Username, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}

	CreatedWithMsg(c, "主机账户创建成功", account)
}

// GetAccount 获取账户详情（含套餐、客户与用量）
// @Summary 主机账户详情
// @Tags 主机
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户 ID"
// @Success 200 {object} service.AccountInfo "账户详情"
// @Failure 404 {object} Response "账户不存在"
// @Router /v1/hosting/accounts/{id} [get]
func (h *HostingHandler) GetAccount(c *gin.Context) {
	info, err := h.hosting.GetAccountInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, info)
}

// Suspend 暂停主机账户
// @Summary 暂停账户
// @Tags 主机
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户 ID"
// @Param request body suspendRequest false "暂停原因"
// @Success 200 {object} Response "暂停成功"
// @Router /v1/hosting/accounts/{id}/suspend [post]
func (h *HostingHandler) Suspend(c *gin.Context) {
	var req suspendRequest
	// 原因可省略
	_ = c.ShouldBindJSON(&req)

	if err := h.hosting.Suspend(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		RespondError(c, err)
		return
	}
	SuccessWithMsg(c, "账户已暂停", nil)
}

// Unsuspend 恢复主机账户
// @Summary 恢复账户
// @Tags 主机
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户 ID"
// @Success 200 {object} Response "恢复成功"
// @Router /v1/hosting/accounts/{id}/unsuspend [post]
func (h *HostingHandler) Unsuspend(c *gin.Context) {
	if err := h.hosting.Unsuspend(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	SuccessWithMsg(c, "账户已恢复", nil)
}

// ChangePlan 更换主机套餐
// @Summary 更换套餐
// @Tags 主机
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户 ID"
// @Param request body changePlanRequest true "目标套餐"
// @Success 200 {object} Response "更换成功"
// @Failure 404 {object} Response "账户或套餐不存在"
// @Router /v1/hosting/accounts/{id}/plan [put]
func (h *HostingHandler) ChangePlan(c *gin.Context) {
	var req changePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if err := h.hosting.ChangePlan(c.Request.Context(), c.Param("id"), req.PackageID); err != nil {
		RespondError(c, err)
		return
	}
	SuccessWithMsg(c, "套餐更换成功", nil)
}

// GetUsage 查询账户资源用量
// @Summary 查询资源用量
// @Tags 主机
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户 ID"
// @Success 200 {object} domain.UsageReport "用量报告"
// @Router /v1/hosting/accounts/{id}/usage [get]
func (h *HostingHandler) GetUsage(c *gin.Context) {
	usage, err := h.hosting.GetUsage(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, usage)
}

// Renew 主机账户续费
// @Summary 主机续费
// @Tags 主机
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户 ID"
// @Param request body renewAccountRequest true "续费年限"
// @Success 200 {object} Response "续费成功"
// @Router /v1/hosting/accounts/{id}/renew [post]
func (h *HostingHandler) Renew(c *gin.Context) {
	var req renewAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if err := h.hosting.RenewAccount(c.Request.Context(), c.Param("id"), req.Years); err != nil {
		RespondError(c, err)
		return
	}
	SuccessWithMsg(c, "主机续费成功", nil)
}

// Delete 删除主机账户
// @Summary 删除账户
// @Tags 主机
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户 ID"
// @Success 200 {object} object{deleted=bool} "删除结果"
// @Router /v1/hosting/accounts/{id} [delete]
func (h *HostingHandler) Delete(c *gin.Context) {
	deleted, err := h.hosting.DeleteAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessWithMsg(c, "账户已删除", gin.H{"deleted": deleted})
}

// CreateEmail 在账户域名下创建邮箱
// @Summary 创建邮箱账户
// @Tags 主机
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户 ID"
// @Param request body createEmailRequest true "邮箱信息"
// @Success 201 {object} Response "创建成功"
// @Router /v1/hosting/accounts/{id}/emails [post]
func (h *HostingHandler) CreateEmail(c *gin.Context) {
	var req createEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	err := h.hosting.CreateEmailAccount(c.Request.Context(),
		c.Param("id"), req.Email, req.Password, req.Quota)
	if err != nil {
		RespondError(c, err)
		return
	}
	CreatedWithMsg(c, "邮箱账户创建成功", nil)
}

// CreateDatabase 为账户创建数据库
// @Summary 创建数据库
// @Tags 主机
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户 ID"
// @Param request body createDatabaseRequest true "数据库信息"
// @Success 201 {object} Response "创建成功"
// @Router /v1/hosting/accounts/{id}/databases [post]
func (h *HostingHandler) CreateDatabase(c *gin.Context) {
	var req createDatabaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	err := h.hosting.CreateDatabase(c.Request.Context(),
		c.Param("id"), req.Name, req.User, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	CreatedWithMsg(c, "数据库创建成功", nil)
}

// ChangePassword 修改主机账户密码
// @Summary 修改账户密码
// @Tags 主机
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户 ID"
// @Param request body accountPasswordRequest true "新密码"
// @Success 200 {object} Response "修改成功"
// @Router /v1/hosting/accounts/{id}/password [put]
func (h *HostingHandler) ChangePassword(c *gin.Context) {
	var req accountPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if err := h.hosting.ChangeAccountPassword(c.Request.Context(), c.Param("id"), req.Password); err != nil {
		RespondError(c, err)
		return
	}
	SuccessWithMsg(c, "密码修改成功", nil)
}
