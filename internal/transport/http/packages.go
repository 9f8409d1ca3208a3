package httptransport

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/storage"
)

// PackageHandler 处理主机套餐管理相关的 HTTP 请求
type PackageHandler struct {
	store storage.Store
	log   *zap.Logger
}

// NewPackageHandler 创建套餐处理器
func NewPackageHandler(store storage.Store, log *zap.Logger) *PackageHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PackageHandler{store: store, log: log}
}

type createPackageRequest struct {
	Name             string  `json:"name" binding:"required"`
	DiskSpace        int     `json:"diskSpace" binding:"required"`
	Bandwidth        int     `json:"bandwidth" binding:"required"`
	Price            float64 `json:"price" binding:"required"`
	PlanType         string  `json:"planType"`
	MaxDomains       int     `json:"maxDomains"`
	MaxDatabases     int     `json:"maxDatabases"`
	MaxEmailAccounts int     `json:"maxEmailAccounts"`
}

type togglePackageRequest struct {
	Active bool `json:"active"`
}

// Create 创建主机套餐
// @Summary 创建套餐
// @Tags 套餐
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPackageRequest true "套餐信息"
// @Success 201 {object} domain.HostingPackage "创建成功"
// @Router /v1/packages [post]
func (h *PackageHandler) Create(c *gin.Context) {
	var req createPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if req.DiskSpace <= 0 || req.Bandwidth <= 0 || req.Price < 0 {
		BadRequest(c, "套餐配额或价格无效")
		return
	}

	pkg := &domain.HostingPackage{
		Name:             req.Name,
		DiskSpace:        req.DiskSpace,
		Bandwidth:        req.Bandwidth,
		Price:            req.Price,
		PlanType:         req.PlanType,
		MaxDomains:       req.MaxDomains,
		MaxDatabases:     req.MaxDatabases,
		MaxEmailAccounts: req.MaxEmailAccounts,
		Active:           true,
	}
	if err := h.store.SavePackage(pkg); err != nil {
		RespondError(c, err)
		return
	}

	h.log.Info("hosting package created",
		zap.String("package_id", pkg.ID),
		zap.String("name", pkg.Name),
	)
	CreatedWithMsg(c, "套餐创建成功", pkg)
}

// Get 获取套餐详情
// @Summary 套餐详情
// @Tags 套餐
// @Produce json
// @Param id path string true "套餐 ID"
// @Success 200 {object} domain.HostingPackage "套餐详情"
// @Failure 404 {object} Response "套餐不存在"
// @Router /v1/packages/{id} [get]
func (h *PackageHandler) Get(c *gin.Context) {
	pkg, err := h.store.GetPackage(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, pkg)
}

// List 列出套餐
// @Summary 套餐列表
// @Tags 套餐
// @Produce json
// @Param active query bool false "仅返回启用套餐"
// @Success 200 {object} object{packages=[]domain.HostingPackage} "套餐列表"
// @Router /v1/packages [get]
func (h *PackageHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	packages, err := h.store.ListPackages(activeOnly)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"packages": packages})
}

// Toggle 启用或停用套餐
//
// 停用后不可用于新开户，已有账户不受影响。
// @Summary 启停套餐
// @Tags 套餐
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "套餐 ID"
// @Param request body togglePackageRequest true "目标状态"
// @Success 200 {object} domain.HostingPackage "更新后的套餐"
// @Router /v1/packages/{id}/active [put]
func (h *PackageHandler) Toggle(c *gin.Context) {
	var req togglePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	pkg, err := h.store.GetPackage(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	pkg.Active = req.Active
	if err := h.store.SavePackage(pkg); err != nil {
		RespondError(c, err)
		return
	}
	SuccessWithMsg(c, "套餐状态已更新", pkg)
}

// Delete 删除套餐
// @Summary 删除套餐
// @Tags 套餐
// @Produce json
// @Security BearerAuth
// @Param id path string true "套餐 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "套餐不存在"
// @Router /v1/packages/{id} [delete]
func (h *PackageHandler) Delete(c *gin.Context) {
	if err := h.store.DeletePackage(c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	SuccessWithMsg(c, "套餐已删除", nil)
}
