package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/monitoring"
	"hostpanel/backend/internal/storage"
	"hostpanel/backend/internal/whm"
)

// simulatedIPAddress 未配置 WHM 客户端时开户使用的占位 IP（本地开发）
const simulatedIPAddress = "192.168.1.100"

// AccountInfo 主机账户完整信息（关联套餐、客户与用量）
type AccountInfo struct {
	ID          string              `json:"id"`
	Domain      string              `json:"domain"`
	Username    string              `json:"username"`
	Status      domain.HostingStatus `json:"status"`
	IPAddress   string              `json:"ipAddress,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	ExpiresDate *time.Time          `json:"expiresDate,omitempty"`

	Package  *domain.HostingPackage `json:"package,omitempty"`
	Customer *CustomerSummary       `json:"customer,omitempty"`
	Usage    *domain.UsageReport    `json:"usage,omitempty"`
}

// CustomerSummary 账户详情中嵌入的客户摘要
type CustomerSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HostingManager 主机账户生命周期管理
//
// 状态机：pending → active → suspended（suspend）→ active（unsuspend）；
// 删除是终态移除而非状态。whm 客户端可为 nil，此时开户使用模拟 IP，
// 远程操作全部跳过（本地开发模式）。
type HostingManager struct {
	whm     whm.Client
	store   storage.Store
	metrics *monitoring.Metrics
	log     *zap.Logger

	now func() time.Time
}

// NewHostingManager 创建主机管理服务
func NewHostingManager(whmClient whm.Client, store storage.Store, metrics *monitoring.Metrics, log *zap.Logger) *HostingManager {
	return &HostingManager{
		whm:     whmClient,
		store:   store,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// CreateAccount 创建主机账户
//
// 输入校验 → 套餐存在且启用 → 客户存在 → 域名唯一性 → 远程开通 →
// 持久化（usage=0，expiry=now+365d）。域名已有账户时不发起远程调用。
func (m *HostingManager) CreateAccount(ctx context.Context, domainName, packageID, customerID, username, password string) (*domain.HostingAccount, error) {
	if err := validateHostingInput(domainName, username, password); err != nil {
		return nil, domain.NewHostingError("create_account", err)
	}

	pkg, err := m.store.GetPackage(packageID)
	if err != nil || !pkg.Active {
		return nil, domain.NewHostingError("create_account",
			domain.NewValidationError("hosting package not found or inactive"))
	}

	customer, err := m.store.GetCustomer(customerID)
	if err != nil {
		return nil, domain.NewHostingError("create_account",
			domain.NewValidationError("customer not found"))
	}

	if existing, err := m.store.GetAccountByDomain(domainName); err == nil && existing != nil {
		return nil, domain.NewHostingError("create_account",
			domain.NewValidationError("hosting account already exists for domain: %s", domainName))
	} else if err != nil && !errors.Is(err, storage.ErrAccountNotFound) {
		return nil, domain.NewHostingError("create_account", err)
	}

	m.log.Info("creating hosting account",
		zap.String("domain", domainName),
		zap.String("package", pkg.Name),
	)

	ipAddress := simulatedIPAddress
	if m.whm != nil {
		result, err := m.whm.CreateAccount(ctx, whm.AccountRequest{
			Domain:   domainName,
			Username: username,
			Password: password,
			Plan:     pkg.Name,
			Email:    customer.Email,
		})
		m.metrics.RecordWHMCall("createacct", err)
		if err != nil {
			m.log.Error("remote provisioning failed", zap.String("domain", domainName), zap.Error(err))
			var hostingErr *domain.HostingError
			if errors.As(err, &hostingErr) {
				return nil, err
			}
			return nil, domain.NewHostingError("create_account", err)
		}
		if result.IPAddress != "" {
			ipAddress = result.IPAddress
		}
	} else {
		m.log.Warn("using simulated hosting account creation", zap.String("domain", domainName))
	}

	now := m.now().UTC()
	expires := now.AddDate(0, 0, 365)
	account := &domain.HostingAccount{
		ID:          uuid.NewString(),
		Domain:      domainName,
		Username:    username,
		Status:      domain.HostingStatusActive,
		IPAddress:   ipAddress,
		CustomerID:  customerID,
		PackageID:   packageID,
		CreatedAt:   now,
		ExpiresDate: &expires,
	}

	if err := m.store.SaveAccount(account); err != nil {
		return nil, domain.NewHostingError("create_account", err)
	}

	m.metrics.RecordAccountCreated()
	m.log.Info("created hosting account",
		zap.String("account_id", account.ID),
		zap.String("domain", domainName),
	)
	return account, nil
}

// Suspend 暂停主机账户并记录原因
func (m *HostingManager) Suspend(ctx context.Context, accountID, reason string) error {
	account, err := m.store.GetAccount(accountID)
	if err != nil {
		return domain.NewHostingError("suspend",
			domain.NewValidationError("hosting account not found"))
	}

	if m.whm != nil {
		err := m.whm.SuspendAccount(ctx, account.Username, reason)
		m.metrics.RecordWHMCall("suspendacct", err)
		if err != nil {
			return err
		}
	}

	account.Status = domain.HostingStatusSuspended
	account.SuspendedReason = reason
	if err := m.store.SaveAccount(account); err != nil {
		return domain.NewHostingError("suspend", err)
	}

	m.metrics.RecordAccountSuspended()
	m.log.Info("suspended hosting account",
		zap.String("account_id", accountID),
		zap.String("reason", reason),
	)
	return nil
}

// Unsuspend 解除主机账户暂停并清除原因
func (m *HostingManager) Unsuspend(ctx context.Context, accountID string) error {
	account, err := m.store.GetAccount(accountID)
	if err != nil {
		return domain.NewHostingError("unsuspend",
			domain.NewValidationError("hosting account not found"))
	}

	if m.whm != nil {
		err := m.whm.UnsuspendAccount(ctx, account.Username)
		m.metrics.RecordWHMCall("unsuspendacct", err)
		if err != nil {
			return err
		}
	}

	account.Status = domain.HostingStatusActive
	account.SuspendedReason = ""
	if err := m.store.SaveAccount(account); err != nil {
		return domain.NewHostingError("unsuspend", err)
	}

	m.log.Info("unsuspended hosting account", zap.String("account_id", accountID))
	return nil
}

// ChangePlan 变更账户套餐
func (m *HostingManager) ChangePlan(ctx context.Context, accountID, newPackageID string) error {
	account, err := m.store.GetAccount(accountID)
	if err != nil {
		return domain.NewHostingError("change_plan",
			domain.NewValidationError("hosting account not found"))
	}

	newPkg, err := m.store.GetPackage(newPackageID)
	if err != nil || !newPkg.Active {
		return domain.NewHostingError("change_plan",
			domain.NewValidationError("new hosting package not found or inactive"))
	}

	if m.whm != nil {
		err := m.whm.ChangePlan(ctx, account.Username, newPkg.Name)
		m.metrics.RecordWHMCall("changepackage", err)
		if err != nil {
			return err
		}
	}

	account.PackageID = newPackageID
	if err := m.store.SaveAccount(account); err != nil {
		return domain.NewHostingError("change_plan", err)
	}

	m.log.Info("changed hosting plan",
		zap.String("account_id", accountID),
		zap.String("package", newPkg.Name),
	)
	return nil
}

// GetUsage 获取账户资源用量
//
// 配置了 WHM 客户端时实时拉取并回写仓储（用量是缓存值，非纯实时）；
// 否则使用上次持久化的用量加套餐限额。百分比 = usage/limit*100 保留
// 两位小数，limit 为 0 时百分比为 0。
func (m *HostingManager) GetUsage(ctx context.Context, accountID string) (*domain.UsageReport, error) {
	account, err := m.store.GetAccount(accountID)
	if err != nil {
		return nil, domain.NewHostingError("get_usage",
			domain.NewValidationError("hosting account not found"))
	}

	report := &domain.UsageReport{}

	if m.whm != nil {
		usage, err := m.whm.GetAccountUsage(ctx, account.Username)
		m.metrics.RecordWHMCall("get_disk_usage", err)
		if err != nil {
			return nil, err
		}
		report.DiskUsage = int(usage.DiskUsage)
		report.DiskLimit = int(usage.DiskLimit)
		report.BandwidthUsage = int(usage.BandwidthUsage)
		report.BandwidthLimit = int(usage.BandwidthLimit)

		account.DiskUsage = report.DiskUsage
		account.BandwidthUsage = report.BandwidthUsage
		if err := m.store.SaveAccount(account); err != nil {
			m.log.Warn("failed to persist fetched usage",
				zap.String("account_id", accountID),
				zap.Error(err),
			)
		}
	} else {
		report.DiskUsage = account.DiskUsage
		report.BandwidthUsage = account.BandwidthUsage
		if pkg, err := m.store.GetPackage(account.PackageID); err == nil {
			report.DiskLimit = pkg.DiskSpace
			report.BandwidthLimit = pkg.Bandwidth
		}
	}

	report.DiskUsagePercent = usagePercent(report.DiskUsage, report.DiskLimit)
	report.BandwidthUsagePercent = usagePercent(report.BandwidthUsage, report.BandwidthLimit)
	return report, nil
}

// RenewAccount 续费主机账户
//
// 到期日从当前到期日（未设置时从现在）延长 365*years 天，状态强制回
// active。
func (m *HostingManager) RenewAccount(ctx context.Context, accountID string, years int) error {
	if years <= 0 {
		years = 1
	}

	account, err := m.store.GetAccount(accountID)
	if err != nil {
		return domain.NewHostingError("renew",
			domain.NewValidationError("hosting account not found"))
	}

	base := m.now().UTC()
	if account.ExpiresDate != nil {
		base = *account.ExpiresDate
	}
	newExpiry := base.AddDate(0, 0, 365*years)

	account.ExpiresDate = &newExpiry
	account.Status = domain.HostingStatusActive
	if err := m.store.SaveAccount(account); err != nil {
		return domain.NewHostingError("renew", err)
	}

	m.log.Info("renewed hosting account",
		zap.String("account_id", accountID),
		zap.Time("expires", newExpiry),
	)
	return nil
}

// DeleteAccount 删除主机账户
//
// 先按用户名远程注销（如配置了 WHM 客户端），再删除仓储记录；
// 返回仓储删除是否实际命中。
func (m *HostingManager) DeleteAccount(ctx context.Context, accountID string) (bool, error) {
	account, err := m.store.GetAccount(accountID)
	if err != nil {
		return false, domain.NewHostingError("delete",
			domain.NewValidationError("hosting account not found"))
	}

	if m.whm != nil {
		err := m.whm.DeleteAccount(ctx, account.Username)
		m.metrics.RecordWHMCall("removeacct", err)
		if err != nil {
			return false, err
		}
	}

	deleted, err := m.store.DeleteAccount(accountID)
	if err != nil {
		return false, domain.NewHostingError("delete", err)
	}
	if !deleted {
		m.log.Warn("hosting account repository delete missed", zap.String("account_id", accountID))
	} else {
		m.log.Info("deleted hosting account", zap.String("account_id", accountID))
	}
	return deleted, nil
}

// CreateEmailAccount 在账户域名下创建邮箱账户
//
// quota 单位 MB，<=0 时由网关使用默认配额。
func (m *HostingManager) CreateEmailAccount(ctx context.Context, accountID, email, password string, quota int) error {
	account, err := m.store.GetAccount(accountID)
	if err != nil {
		return domain.NewHostingError("create_email",
			domain.NewValidationError("hosting account not found"))
	}
	if !strings.Contains(email, "@") {
		return domain.NewHostingError("create_email",
			domain.NewValidationError("invalid email address"))
	}
	if len(password) < domain.MinHostingPasswordLength {
		return domain.NewHostingError("create_email",
			domain.NewValidationError("password must be at least %d characters", domain.MinHostingPasswordLength))
	}

	if m.whm != nil {
		err := m.whm.CreateEmailAccount(ctx, account.Domain, email, password, quota)
		m.metrics.RecordWHMCall("add_pop", err)
		if err != nil {
			return err
		}
	} else {
		m.log.Warn("using simulated email account creation",
			zap.String("domain", account.Domain),
			zap.String("email", email),
		)
	}

	m.log.Info("created email account",
		zap.String("account_id", accountID),
		zap.String("email", email),
	)
	return nil
}

// CreateDatabase 为账户创建数据库及专属用户
func (m *HostingManager) CreateDatabase(ctx context.Context, accountID, dbName, dbUser, dbPassword string) error {
	account, err := m.store.GetAccount(accountID)
	if err != nil {
		return domain.NewHostingError("create_database",
			domain.NewValidationError("hosting account not found"))
	}
	if dbName == "" || dbUser == "" {
		return domain.NewHostingError("create_database",
			domain.NewValidationError("database name and user are required"))
	}
	if len(dbPassword) < domain.MinHostingPasswordLength {
		return domain.NewHostingError("create_database",
			domain.NewValidationError("password must be at least %d characters", domain.MinHostingPasswordLength))
	}

	if m.whm != nil {
		err := m.whm.CreateDatabase(ctx, account.Username, dbName, dbUser, dbPassword)
		m.metrics.RecordWHMCall("create_database", err)
		if err != nil {
			return err
		}
	} else {
		m.log.Warn("using simulated database creation",
			zap.String("account_id", accountID),
			zap.String("database", dbName),
		)
	}

	m.log.Info("created database",
		zap.String("account_id", accountID),
		zap.String("database", dbName),
	)
	return nil
}

// ChangeAccountPassword 修改主机账户密码
func (m *HostingManager) ChangeAccountPassword(ctx context.Context, accountID, newPassword string) error {
	account, err := m.store.GetAccount(accountID)
	if err != nil {
		return domain.NewHostingError("change_password",
			domain.NewValidationError("hosting account not found"))
	}
	if len(newPassword) < domain.MinHostingPasswordLength {
		return domain.NewHostingError("change_password",
			domain.NewValidationError("password must be at least %d characters", domain.MinHostingPasswordLength))
	}

	if m.whm != nil {
		err := m.whm.ChangePassword(ctx, account.Username, newPassword)
		m.metrics.RecordWHMCall("passwd", err)
		if err != nil {
			return err
		}
	} else {
		m.log.Warn("using simulated password change", zap.String("account_id", accountID))
	}

	m.log.Info("changed hosting account password", zap.String("account_id", accountID))
	return nil
}

// GetAccountInfo 获取账户完整信息（关联套餐、客户与用量）
func (m *HostingManager) GetAccountInfo(ctx context.Context, accountID string) (*AccountInfo, error) {
	account, err := m.store.GetAccount(accountID)
	if err != nil {
		return nil, domain.NewHostingError("get_info",
			domain.NewValidationError("hosting account not found"))
	}

	usage, err := m.GetUsage(ctx, accountID)
	if err != nil {
		return nil, err
	}

	info := &AccountInfo{
		ID:          account.ID,
		Domain:      account.Domain,
		Username:    account.Username,
		Status:      account.Status,
		IPAddress:   account.IPAddress,
		CreatedAt:   account.CreatedAt,
		ExpiresDate: account.ExpiresDate,
		Usage:       usage,
	}

	if pkg, err := m.store.GetPackage(account.PackageID); err == nil {
		info.Package = pkg
	}
	if customer, err := m.store.GetCustomer(account.CustomerID); err == nil {
		info.Customer = &CustomerSummary{
			Name:  customer.FullName(),
			Email: customer.Email,
		}
	}
	return info, nil
}

// usagePercent 用量百分比，保留两位小数；limit 为 0 时返回 0
func usagePercent(usage, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	return math.Round(float64(usage)/float64(limit)*100*100) / 100
}

// validateHostingInput 开户前的输入校验
func validateHostingInput(domainName, username, password string) error {
	if domainName == "" || !strings.Contains(domainName, ".") {
		return domain.NewValidationError("invalid domain name")
	}
	if len(username) < domain.MinHostingUsernameLength {
		return domain.NewValidationError("username must be at least %d characters", domain.MinHostingUsernameLength)
	}
	if !domain.ValidateHostingUsername(username) {
		return domain.NewValidationError("username can only contain lowercase letters, numbers, and underscores")
	}
	if len(password) < domain.MinHostingPasswordLength {
		return domain.NewValidationError("password must be at least %d characters", domain.MinHostingPasswordLength)
	}
	return nil
}
