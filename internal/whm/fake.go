package whm

import (
	"context"
	"sync"

	"hostpanel/backend/internal/domain"
)

// FakeAccount 假 WHM 中的账号状态
type FakeAccount struct {
	Domain    string
	Plan      string
	Suspended bool
	Reason    string
	Password  string
	IPAddress string
}

// Fake 确定性内存 WHM 实现
//
// 用于测试与本地开发模式。CreateCalls 记录开户调用次数，
// 供"重复域名不触发第二次远程调用"这类断言使用。
type Fake struct {
	mu sync.Mutex

	// Accounts 按用户名索引的账号状态
	Accounts map[string]*FakeAccount
	// Usages 按用户名预置的用量
	Usages map[string]Usage
	// Emails 按域名记录已创建的邮箱地址
	Emails map[string][]string
	// Databases 按用户名记录已创建的数据库名
	Databases map[string][]string
	// CreateCalls CreateAccount 被调用的次数
	CreateCalls int

	// 故障注入：按用户名（开户时按域名）返回指定错误
	CreateErr  map[string]error
	SuspendErr map[string]error
	PlanErr    map[string]error
	UsageErr   map[string]error
	DeleteErr  map[string]error
}

// NewFake 创建空的假 WHM 客户端
func NewFake() *Fake {
	return &Fake{
		Accounts:   make(map[string]*FakeAccount),
		Usages:     make(map[string]Usage),
		Emails:     make(map[string][]string),
		Databases:  make(map[string][]string),
		CreateErr:  make(map[string]error),
		SuspendErr: make(map[string]error),
		PlanErr:    make(map[string]error),
		UsageErr:   make(map[string]error),
		DeleteErr:  make(map[string]error),
	}
}

var _ Client = (*Fake)(nil)

func (f *Fake) CreateAccount(_ context.Context, req AccountRequest) (*AccountResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CreateCalls++
	if err := f.CreateErr[req.Domain]; err != nil {
		return nil, err
	}
	if _, exists := f.Accounts[req.Username]; exists {
		return nil, domain.NewHostingReasonError("create_account", "account already exists")
	}
	ip := "192.168.1.100"
	f.Accounts[req.Username] = &FakeAccount{
		Domain:    req.Domain,
		Plan:      req.Plan,
		Password:  req.Password,
		IPAddress: ip,
	}
	return &AccountResult{Username: req.Username, Domain: req.Domain, IPAddress: ip}, nil
}

func (f *Fake) SuspendAccount(_ context.Context, username, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.SuspendErr[username]; err != nil {
		return err
	}
	account, ok := f.Accounts[username]
	if !ok {
		return domain.NewHostingReasonError("suspend_account", "account does not exist")
	}
	account.Suspended = true
	account.Reason = reason
	return nil
}

func (f *Fake) UnsuspendAccount(_ context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.SuspendErr[username]; err != nil {
		return err
	}
	account, ok := f.Accounts[username]
	if !ok {
		return domain.NewHostingReasonError("unsuspend_account", "account does not exist")
	}
	account.Suspended = false
	account.Reason = ""
	return nil
}

func (f *Fake) ChangePlan(_ context.Context, username, newPlan string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.PlanErr[username]; err != nil {
		return err
	}
	account, ok := f.Accounts[username]
	if !ok {
		return domain.NewHostingReasonError("change_plan", "account does not exist")
	}
	account.Plan = newPlan
	return nil
}

func (f *Fake) GetAccountUsage(_ context.Context, username string) (*Usage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.UsageErr[username]; err != nil {
		return nil, err
	}
	usage := f.Usages[username]
	return &usage, nil
}

func (f *Fake) CreateEmailAccount(_ context.Context, domainName, email, _ string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Emails[domainName] = append(f.Emails[domainName], email)
	return nil
}

func (f *Fake) CreateDatabase(_ context.Context, username, dbName, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Databases[username] = append(f.Databases[username], dbName)
	return nil
}

func (f *Fake) ChangePassword(_ context.Context, username, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.Accounts[username]
	if !ok {
		return domain.NewHostingReasonError("change_password", "account does not exist")
	}
	account.Password = newPassword
	return nil
}

func (f *Fake) DeleteAccount(_ context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.DeleteErr[username]; err != nil {
		return err
	}
	if _, ok := f.Accounts[username]; !ok {
		return domain.NewHostingReasonError("delete_account", "account does not exist")
	}
	delete(f.Accounts, username)
	return nil
}
