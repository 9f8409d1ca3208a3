package httptransport

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hostpanel/backend/internal/auth"
	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/registrar"
	"hostpanel/backend/internal/storage"
)

// 错误消息映射表（业务错误 -> 中文消息）
var errorMessages = map[error]string{
	// 存储层错误
	storage.ErrCustomerNotFound:  "客户不存在",
	storage.ErrDomainNotFound:    "域名不存在",
	storage.ErrAccountNotFound:   "主机账户不存在",
	storage.ErrPackageNotFound:   "主机套餐不存在",
	storage.ErrOrderNotFound:     "订单不存在",
	storage.ErrDuplicateEmail:    "客户邮箱已存在",
	storage.ErrDuplicateDomain:   "域名已存在",
	storage.ErrOperatorNotFound:  "操作员不存在",
	storage.ErrDuplicateOperator: "操作员已存在",

	// 注册局错误
	registrar.ErrDomainNotRegistered: "域名未注册",

	// 认证错误
	auth.ErrInvalidCredentials: "用户名或密码错误",
	auth.ErrOperatorExists:     "操作员已存在",
	auth.ErrOperatorInactive:   "操作员账户已停用",
}

// GetErrorMessage 获取错误的中文消息
func GetErrorMessage(err error) string {
	for target, msg := range errorMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return err.Error()
}

// RespondError 按错误类型写出统一错误响应
//
// 映射规则：资源不存在 -> 404，重复冲突 -> 409，
// 输入校验 / 域名 / 主机 / DNS 业务错误 -> 400，其余 -> 500。
func RespondError(c *gin.Context, err error) {
	switch {
	case isNotFound(err):
		NotFound(c, GetErrorMessage(err))
	case isConflict(err):
		Conflict(c, GetErrorMessage(err))
	case domain.IsValidationError(err):
		BadRequest(c, err.Error())
	case isBusinessError(err):
		BadRequest(c, err.Error())
	default:
		InternalError(c, MsgInternalError)
	}
}

func isNotFound(err error) bool {
	for _, target := range []error{
		storage.ErrCustomerNotFound,
		storage.ErrDomainNotFound,
		storage.ErrAccountNotFound,
		storage.ErrPackageNotFound,
		storage.ErrOrderNotFound,
		storage.ErrOperatorNotFound,
		registrar.ErrDomainNotRegistered,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isConflict(err error) bool {
	return errors.Is(err, storage.ErrDuplicateEmail) ||
		errors.Is(err, storage.ErrDuplicateDomain) ||
		errors.Is(err, storage.ErrDuplicateOperator) ||
		errors.Is(err, auth.ErrOperatorExists)
}

func isBusinessError(err error) bool {
	var domainErr *domain.DomainError
	var hostingErr *domain.HostingError
	var dnsErr *domain.DNSError
	return errors.As(err, &domainErr) ||
		errors.As(err, &hostingErr) ||
		errors.As(err, &dnsErr)
}
