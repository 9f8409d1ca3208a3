package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code int         `json:"code"`           // 业务状态码
	Msg  string      `json:"msg"`            // 中文提示信息
	Data interface{} `json:"data,omitempty"` // 数据载荷
}

// 业务状态码定义
const (
	// 成功状态码 2xx
	CodeSuccess   = 200 // 成功
	CodeCreated   = 201 // 创建成功
	CodeNoContent = 204 // 无内容（删除成功）

	// 客户端错误 4xx
	CodeBadRequest          = 400 // 请求参数错误
	CodeUnauthorized        = 401 // 未认证
	CodeForbidden           = 403 // 无权限
	CodeNotFound            = 404 // 资源不存在
	CodeConflict            = 409 // 资源冲突
	CodeUnprocessableEntity = 422 // 无法处理的实体

	// 服务器错误 5xx
	CodeInternalError = 500 // 服务器内部错误
)

// 成功响应默认消息
const (
	MsgSuccess     = "成功"
	MsgCreated     = "创建成功"
	MsgOperationOK = "操作成功"
)

// 通用错误消息
const (
	// 请求相关
	MsgInvalidRequest   = "请求参数格式错误"
	MsgInvalidJSON      = "JSON格式错误"
	MsgRequestBodyEmpty = "请求体不能为空"

	// 认证相关
	MsgAuthRequired       = "需要登录认证"
	MsgInvalidCredentials = "用户名或密码错误"
	MsgTokenExpired       = "登录已过期，请重新登录"
	MsgTokenInvalid       = "无效的访问令牌"
	MsgPermissionDenied   = "权限不足"

	// 域名相关
	MsgDomainNotFound       = "域名不存在"
	MsgDomainRegisterFailed = "域名注册失败"
	MsgDomainRenewFailed    = "域名续费失败"
	MsgDomainTransferFailed = "域名转入失败"
	MsgAvailabilityFailed   = "查询域名可用性失败"
	MsgPricingFailed        = "获取价格信息失败"

	// DNS 相关
	MsgDNSGetFailed    = "获取DNS记录失败"
	MsgDNSUpdateFailed = "更新DNS记录失败"

	// 联系人与隐私相关
	MsgContactGetFailed    = "获取联系人信息失败"
	MsgContactUpdateFailed = "更新联系人信息失败"
	MsgPrivacyFailed       = "隐私保护操作失败"

	// 主机相关
	MsgAccountNotFound     = "主机账户不存在"
	MsgAccountCreateFailed = "创建主机账户失败"
	MsgAccountDeleteFailed = "删除主机账户失败"
	MsgPackageNotFound     = "主机套餐不存在"

	// 客户相关
	MsgCustomerNotFound     = "客户不存在"
	MsgCustomerCreateFailed = "创建客户失败"

	// 服务器错误
	MsgInternalError = "服务器内部错误，请稍后重试"
)

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	SuccessWithMsg(c, MsgSuccess, data)
}

// SuccessWithMsg 成功响应（自定义消息）
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: CodeSuccess,
		Msg:  msg,
		Data: data,
	})
}

// Created 创建成功响应（201）
func Created(c *gin.Context, data interface{}) {
	CreatedWithMsg(c, MsgCreated, data)
}

// CreatedWithMsg 创建成功响应（自定义消息）
func CreatedWithMsg(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: CodeCreated,
		Msg:  msg,
		Data: data,
	})
}

// NoContent 无内容响应（204）- 通常用于删除成功
func NoContent(c *gin.Context) {
	c.JSON(http.StatusNoContent, Response{
		Code: CodeNoContent,
		Msg:  MsgOperationOK,
	})
}

// BadRequest 请求参数错误（400）
func BadRequest(c *gin.Context, msg string) {
	fail(c, http.StatusBadRequest, CodeBadRequest, msg)
}

// Unauthorized 未认证错误（401）
func Unauthorized(c *gin.Context, msg string) {
	fail(c, http.StatusUnauthorized, CodeUnauthorized, msg)
}

// Forbidden 无权限错误（403）
func Forbidden(c *gin.Context, msg string) {
	fail(c, http.StatusForbidden, CodeForbidden, msg)
}

// NotFound 资源不存在错误（404）
func NotFound(c *gin.Context, msg string) {
	fail(c, http.StatusNotFound, CodeNotFound, msg)
}

// Conflict 资源冲突错误（409）
func Conflict(c *gin.Context, msg string) {
	fail(c, http.StatusConflict, CodeConflict, msg)
}

// UnprocessableEntity 无法处理的实体错误（422）
func UnprocessableEntity(c *gin.Context, msg string) {
	fail(c, http.StatusUnprocessableEntity, CodeUnprocessableEntity, msg)
}

// InternalError 服务器内部错误（500）
func InternalError(c *gin.Context, msg string) {
	fail(c, http.StatusInternalServerError, CodeInternalError, msg)
}

// fail 写出不带数据载荷的错误响应
func fail(c *gin.Context, httpCode, bizCode int, msg string) {
	c.JSON(httpCode, Response{
		Code: bizCode,
		Msg:  msg,
	})
}
