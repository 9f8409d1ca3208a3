package whm

import "context"

// AccountRequest cPanel 开户请求
type AccountRequest struct {
	Domain   string
	Username string
	Password string
	Plan     string
	Email    string
}

// AccountResult 开户结果
type AccountResult struct {
	Username  string
	Domain    string
	IPAddress string
}

// Usage 主机资源用量（字节）
type Usage struct {
	DiskUsage      int64
	DiskLimit      int64
	BandwidthUsage int64
	BandwidthLimit int64
}

// Client WHM/cPanel 管理 API 能力契约
//
// 所有操作失败时返回 *domain.HostingError，携带服务商原因或传输错误。
type Client interface {
	// CreateAccount 创建 cPanel 账号，返回分配的 IP
	CreateAccount(ctx context.Context, req AccountRequest) (*AccountResult, error)
	// SuspendAccount 按用户名暂停账号
	SuspendAccount(ctx context.Context, username, reason string) error
	// UnsuspendAccount 解除账号暂停
	UnsuspendAccount(ctx context.Context, username string) error
	// ChangePlan 变更账号套餐
	ChangePlan(ctx context.Context, username, newPlan string) error
	// GetAccountUsage 查询账号磁盘用量
	GetAccountUsage(ctx context.Context, username string) (*Usage, error)
	// CreateEmailAccount 创建邮箱账号，quota 单位 MB
	CreateEmailAccount(ctx context.Context, domainName, email, password string, quota int) error
	// CreateDatabase 创建 MySQL 数据库、用户并授权
	CreateDatabase(ctx context.Context, username, dbName, dbUser, dbPassword string) error
	// ChangePassword 修改 cPanel 登录密码
	ChangePassword(ctx context.Context, username, newPassword string) error
	// DeleteAccount 删除 cPanel 账号
	DeleteAccount(ctx context.Context, username string) error
}
