package httptransport

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/storage"
)

// CustomerHandler 处理客户管理相关的 HTTP 请求
type CustomerHandler struct {
	store storage.Store
	log   *zap.Logger
}

// NewCustomerHandler 创建客户处理器
func NewCustomerHandler(store storage.Store, log *zap.Logger) *CustomerHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CustomerHandler{store: store, log: log}
}

type createCustomerRequest struct {
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
}

type updateCustomerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Status    string `json:"status"`
}

// Create 创建客户
// @Summary 创建客户
// @Tags 客户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createCustomerRequest true "客户信息"
// @Success 201 {object} domain.Customer "创建成功"
// @Failure 409 {object} Response "邮箱已存在"
// @Router /v1/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if !domain.ValidateEmail(req.Email) {
		BadRequest(c, "邮箱格式无效")
		return
	}

	customer := &domain.Customer{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Company:   req.Company,
		Status:    "active",
	}
	if err := h.store.SaveCustomer(customer); err != nil {
		RespondError(c, err)
		return
	}

	h.log.Info("customer created",
		zap.String("customer_id", customer.ID),
		zap.String("email", customer.Email),
	)
	CreatedWithMsg(c, "客户创建成功", customer)
}

// Get 获取客户详情
// @Summary 客户详情
// @Tags 客户
// @Produce json
// @Security BearerAuth
// @Param id path string true "客户 ID"
// @Success 200 {object} domain.Customer "客户详情"
// @Failure 404 {object} Response "客户不存在"
// @Router /v1/customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.store.GetCustomer(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, customer)
}

// List 分页列出客户
// @Summary 客户列表
// @Tags 客户
// @Produce json
// @Security BearerAuth
// @Param offset query int false "偏移量"
// @Param limit query int false "每页数量，默认 50"
// @Success 200 {object} object{customers=[]domain.Customer,count=int} "客户列表"
// @Router /v1/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	customers, err := h.store.ListCustomers(offset, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"customers": customers,
		"count":     len(customers),
	})
}

// Update 更新客户信息
// @Summary 更新客户
// @Tags 客户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "客户 ID"
// @Param request body updateCustomerRequest true "待更新字段"
// @Success 200 {object} domain.Customer "更新成功"
// @Failure 404 {object} Response "客户不存在"
// @Router /v1/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	customer, err := h.store.GetCustomer(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	if req.FirstName != "" {
		customer.FirstName = req.FirstName
	}
	if req.LastName != "" {
		customer.LastName = req.LastName
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.Company != "" {
		customer.Company = req.Company
	}
	if req.Status != "" {
		customer.Status = req.Status
	}

	if err := h.store.SaveCustomer(customer); err != nil {
		RespondError(c, err)
		return
	}
	SuccessWithMsg(c, "客户更新成功", customer)
}

// Delete 删除客户（级联删除其域名与主机账户）
// @Summary 删除客户
// @Tags 客户
// @Produce json
// @Security BearerAuth
// @Param id path string true "客户 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "客户不存在"
// @Router /v1/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteCustomer(c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	SuccessWithMsg(c, "客户已删除", nil)
}

// ListDomains 列出客户名下的域名
// @Summary 客户域名列表
// @Tags 客户
// @Produce json
// @Security BearerAuth
// @Param id path string true "客户 ID"
// @Success 200 {object} object{domains=[]domain.RegisteredDomain} "域名列表"
// @Router /v1/customers/{id}/domains [get]
func (h *CustomerHandler) ListDomains(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.GetCustomer(id); err != nil {
		RespondError(c, err)
		return
	}

	domains, err := h.store.ListDomainsByCustomer(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"domains": domains})
}

// ListAccounts 列出客户名下的主机账户
// @Summary 客户主机账户列表
// @Tags 客户
// @Produce json
// @Security BearerAuth
// @Param id path string true "客户 ID"
// @Success 200 {object} object{accounts=[]domain.HostingAccount} "账户列表"
// @Router /v1/customers/{id}/hosting-accounts [get]
func (h *CustomerHandler) ListAccounts(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.GetCustomer(id); err != nil {
		RespondError(c, err)
		return
	}

	accounts, err := h.store.ListAccountsByCustomer(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"accounts": accounts})
}
