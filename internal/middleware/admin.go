package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostpanel/backend/internal/auth"
	"hostpanel/backend/internal/domain"
)

// AdminAuth 管理员权限中间件
type AdminAuth struct {
	authService *auth.Service
}

// NewAdminAuth 创建管理员权限中间件
func NewAdminAuth(authService *auth.Service) *AdminAuth {
	return &AdminAuth{
		authService: authService,
	}
}

// operatorFromContext 取出 JWT 中间件设置的操作员并加载完整信息
func (a *AdminAuth) operatorFromContext(c *gin.Context) (*domain.Operator, bool) {
	idVal, exists := c.Get("operatorID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		c.Abort()
		return nil, false
	}

	id, ok := idVal.(string)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid operator context"})
		c.Abort()
		return nil, false
	}

	op, err := a.authService.GetOperatorByID(id)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "operator not found"})
		c.Abort()
		return nil, false
	}
	if !op.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "operator is inactive"})
		c.Abort()
		return nil, false
	}
	return op, true
}

// RequireAdmin 要求管理员权限（admin 或 super）
func (a *AdminAuth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		op, ok := a.operatorFromContext(c)
		if !ok {
			return
		}

		if op.Role != domain.RoleAdmin && op.Role != domain.RoleSuper {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		c.Set("operator", op)
		c.Set("role", op.Role)
		c.Next()
	}
}

// RequireSuper 要求超级管理员权限
func (a *AdminAuth) RequireSuper() gin.HandlerFunc {
	return func(c *gin.Context) {
		op, ok := a.operatorFromContext(c)
		if !ok {
			return
		}

		if !op.IsSuper() {
			c.JSON(http.StatusForbidden, gin.H{"error": "super admin access required"})
			c.Abort()
			return
		}

		c.Set("operator", op)
		c.Set("role", op.Role)
		c.Next()
	}
}
