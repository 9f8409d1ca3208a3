package domain

import (
	"errors"
	"fmt"
)

// ValidationError 输入校验错误
//
// 在任何远程调用或数据库写入之前产生，调用方不应重试。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError 创建输入校验错误
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DomainError 注册商侧操作失败
//
// 包含包装的校验错误与远程调用失败，携带原始错误信息。
type DomainError struct {
	Op     string // 操作名称，如 "register"、"renew"
	Domain string // 相关域名，可为空
	Err    error  // 原始错误
}

func (e *DomainError) Error() string {
	if e.Domain != "" {
		return fmt.Sprintf("domain %s: %s: %v", e.Op, e.Domain, e.Err)
	}
	return fmt.Sprintf("domain %s: %v", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError 创建注册商侧操作错误
func NewDomainError(op, domainName string, err error) *DomainError {
	return &DomainError{Op: op, Domain: domainName, Err: err}
}

// DNSError DNS 同步操作失败
//
// Critical=true 表示非事务路径的补偿（恢复备份）也失败了，
// 远端记录集可能处于不一致且无备份的状态，必须显式上报。
type DNSError struct {
	Op       string
	Domain   string
	Critical bool
	Err      error
}

func (e *DNSError) Error() string {
	if e.Critical {
		return fmt.Sprintf("dns %s: %s: critical: %v", e.Op, e.Domain, e.Err)
	}
	return fmt.Sprintf("dns %s: %s: %v", e.Op, e.Domain, e.Err)
}

func (e *DNSError) Unwrap() error {
	return e.Err
}

// NewDNSError 创建 DNS 操作错误
func NewDNSError(op, domainName string, err error) *DNSError {
	return &DNSError{Op: op, Domain: domainName, Err: err}
}

// NewCriticalDNSError 创建不可恢复的 DNS 错误（恢复备份失败）
func NewCriticalDNSError(op, domainName string, err error) *DNSError {
	return &DNSError{Op: op, Domain: domainName, Critical: true, Err: err}
}

// HostingError 主机服务侧操作失败
type HostingError struct {
	Op     string
	Reason string // 服务商返回的失败原因，可为空
	Err    error
}

func (e *HostingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("hosting %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("hosting %s: %v", e.Op, e.Err)
}

func (e *HostingError) Unwrap() error {
	return e.Err
}

// NewHostingError 创建主机服务操作错误
func NewHostingError(op string, err error) *HostingError {
	return &HostingError{Op: op, Err: err}
}

// NewHostingReasonError 创建携带服务商原因的主机服务错误
func NewHostingReasonError(op, reason string) *HostingError {
	return &HostingError{Op: op, Reason: reason, Err: errors.New(reason)}
}

// IsValidationError 判断错误链中是否包含校验错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsCriticalDNSError 判断错误是否为不可恢复的 DNS 恢复失败
func IsCriticalDNSError(err error) bool {
	var de *DNSError
	return errors.As(err, &de) && de.Critical
}
