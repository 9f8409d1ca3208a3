package httptransport

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hostpanel/backend/internal/auth"
	jwtpkg "hostpanel/backend/internal/auth/jwt"
	"hostpanel/backend/internal/domain"
)

// AuthHandler 处理操作员认证相关的 HTTP 请求
type AuthHandler struct {
	authService *auth.Service
	jwtManager  *jwtpkg.Manager
	log         *zap.Logger
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService *auth.Service, jwtManager *jwtpkg.Manager, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		authService: authService,
		jwtManager:  jwtManager,
		log:         log,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type createOperatorRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
	Role     string `json:"role"`
}

type authResponse struct {
	Operator     operatorResponse `json:"operator"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	ExpiresIn    int64            `json:"expiresIn"`
}

type operatorResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

func toOperatorResponse(op *domain.Operator) operatorResponse {
	return operatorResponse{
		ID:       op.ID,
		Email:    op.Email,
		Username: op.Username,
		Role:     string(op.Role),
		IsActive: op.IsActive,
	}
}

// Login 操作员登录
// @Summary 操作员登录
// @Description 使用邮箱或用户名加密码进行身份验证，成功后返回认证令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录凭证"
// @Success 200 {object} authResponse "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "用户名或密码错误"
// @Failure 403 {object} Response "账户已被停用"
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	operator, err := h.authService.Login(auth.LoginInput{
		Identifier: strings.TrimSpace(req.Username),
		Password:   req.Password,
	})
	if err != nil {
		switch err {
		case auth.ErrInvalidCredentials:
			Unauthorized(c, MsgInvalidCredentials)
		case auth.ErrOperatorInactive:
			Forbidden(c, "账户已被停用")
		default:
			h.log.Error("failed to login", zap.Error(err))
			InternalError(c, "登录失败，请稍后重试")
		}
		return
	}

	tokens, err := h.jwtManager.GenerateTokenPair(operator.ID, operator.Email, string(operator.Role))
	if err != nil {
		h.log.Error("failed to generate tokens", zap.Error(err))
		InternalError(c, "生成令牌失败")
		return
	}

	h.log.Info("operator logged in",
		zap.String("operator_id", operator.ID),
		zap.String("email", operator.Email),
	)

	Success(c, authResponse{
		Operator:     toOperatorResponse(operator),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	})
}

// Refresh 刷新访问令牌
// @Summary 刷新访问令牌
// @Description 使用刷新令牌获取新的访问令牌，避免重新登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body refreshRequest true "包含刷新令牌的请求"
// @Success 200 {object} object{accessToken=string,expiresIn=int} "新的访问令牌"
// @Failure 401 {object} Response "刷新令牌无效或已过期"
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	accessToken, err := h.jwtManager.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		switch err {
		case jwtpkg.ErrInvalidToken:
			Unauthorized(c, "刷新令牌无效")
		case jwtpkg.ErrExpiredToken:
			Unauthorized(c, MsgTokenExpired)
		default:
			h.log.Error("failed to refresh token", zap.Error(err))
			InternalError(c, "刷新令牌失败")
		}
		return
	}

	Success(c, gin.H{
		"accessToken": accessToken,
		"expiresIn":   h.jwtManager.AccessExpirySeconds(),
	})
}

// Me 获取当前操作员信息
// @Summary 获取当前操作员信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} operatorResponse "操作员信息"
// @Failure 401 {object} Response "未认证或令牌无效"
// @Router /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	operatorID, exists := c.Get("operatorID")
	if !exists {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	operator, err := h.authService.GetOperatorByID(operatorID.(string))
	if err != nil {
		if err == auth.ErrOperatorNotFound {
			NotFound(c, "操作员不存在")
			return
		}
		h.log.Error("failed to get operator", zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}

	Success(c, toOperatorResponse(operator))
}

// ChangePassword 修改当前操作员密码
// @Summary 修改密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body changePasswordRequest true "新旧密码"
// @Success 200 {object} Response "修改成功"
// @Failure 401 {object} Response "旧密码错误"
// @Router /v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	operatorID, exists := c.Get("operatorID")
	if !exists {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	err := h.authService.ChangePassword(operatorID.(string), req.OldPassword, req.NewPassword)
	if err != nil {
		switch err {
		case auth.ErrInvalidCredentials:
			Unauthorized(c, "旧密码错误")
		case auth.ErrInvalidPassword:
			BadRequest(c, err.Error())
		default:
			h.log.Error("failed to change password", zap.Error(err))
			InternalError(c, MsgInternalError)
		}
		return
	}

	SuccessWithMsg(c, "密码修改成功", nil)
}

// CreateOperator 创建新操作员（仅超级管理员）
// @Summary 创建操作员
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createOperatorRequest true "操作员信息"
// @Success 201 {object} operatorResponse "创建成功"
// @Failure 403 {object} Response "权限不足"
// @Failure 409 {object} Response "操作员已存在"
// @Router /v1/auth/operators [post]
func (h *AuthHandler) CreateOperator(c *gin.Context) {
	var req createOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	operator, err := h.authService.CreateOperator(auth.CreateOperatorInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Role:     domain.OperatorRole(req.Role),
	})
	if err != nil {
		switch err {
		case auth.ErrInvalidEmail:
			BadRequest(c, "邮箱格式无效")
		case auth.ErrInvalidPassword:
			BadRequest(c, err.Error())
		case auth.ErrOperatorExists:
			Conflict(c, "操作员已存在")
		default:
			h.log.Error("failed to create operator", zap.Error(err))
			InternalError(c, MsgInternalError)
		}
		return
	}

	h.log.Info("operator created",
		zap.String("operator_id", operator.ID),
		zap.String("email", operator.Email),
		zap.String("role", string(operator.Role)),
	)

	Created(c, toOperatorResponse(operator))
}
