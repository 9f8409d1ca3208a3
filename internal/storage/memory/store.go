package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/storage"
)

// Store 内存存储实现
//
// 用于开发环境与单元测试，进程重启后数据丢失。
type Store struct {
	mu sync.RWMutex

	customers map[string]*domain.Customer
	domains   map[string]*domain.RegisteredDomain
	packages  map[string]*domain.HostingPackage
	accounts  map[string]*domain.HostingAccount
	orders    map[string]*domain.Order
	operators map[string]*domain.Operator
}

// NewStore 创建内存存储
func NewStore() *Store {
	return &Store{
		customers: make(map[string]*domain.Customer),
		domains:   make(map[string]*domain.RegisteredDomain),
		packages:  make(map[string]*domain.HostingPackage),
		accounts:  make(map[string]*domain.HostingAccount),
		orders:    make(map[string]*domain.Order),
		operators: make(map[string]*domain.Operator),
	}
}

var _ storage.Store = (*Store)(nil)

// ---- CustomerRepository ----

// SaveCustomer 保存客户（ID 为空时生成）
func (s *Store) SaveCustomer(customer *domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	for id, existing := range s.customers {
		if id != customer.ID && strings.EqualFold(existing.Email, customer.Email) {
			return storage.ErrDuplicateEmail
		}
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}
	customer.UpdatedAt = time.Now().UTC()

	cp := *customer
	s.customers[customer.ID] = &cp
	return nil
}

// GetCustomer 根据 ID 获取客户
func (s *Store) GetCustomer(id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, ok := s.customers[id]
	if !ok {
		return nil, storage.ErrCustomerNotFound
	}
	cp := *customer
	return &cp, nil
}

// GetCustomerByEmail 根据邮箱获取客户
func (s *Store) GetCustomerByEmail(email string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, customer := range s.customers {
		if strings.EqualFold(customer.Email, email) {
			cp := *customer
			return &cp, nil
		}
	}
	return nil, storage.ErrCustomerNotFound
}

// ListCustomers 分页列出客户
func (s *Store) ListCustomers(offset, limit int) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.Customer, 0, len(s.customers))
	for _, customer := range s.customers {
		all = append(all, *customer)
	}
	if offset >= len(all) {
		return []domain.Customer{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// DeleteCustomer 删除客户并级联删除其域名、账户与订单
func (s *Store) DeleteCustomer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		return storage.ErrCustomerNotFound
	}
	delete(s.customers, id)

	for domainID, d := range s.domains {
		if d.CustomerID == id {
			delete(s.domains, domainID)
		}
	}
	for accountID, a := range s.accounts {
		if a.CustomerID == id {
			delete(s.accounts, accountID)
		}
	}
	for orderID, o := range s.orders {
		if o.CustomerID == id {
			delete(s.orders, orderID)
		}
	}
	return nil
}

// ---- DomainRepository ----

// SaveDomain 保存域名（名称唯一）
func (s *Store) SaveDomain(d *domain.RegisteredDomain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	for id, existing := range s.domains {
		if id != d.ID && strings.EqualFold(existing.Name, d.Name) {
			return storage.ErrDuplicateDomain
		}
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	d.UpdatedAt = time.Now().UTC()

	cp := *d
	s.domains[d.ID] = &cp
	return nil
}

// GetDomain 根据 ID 获取域名
func (s *Store) GetDomain(id string) (*domain.RegisteredDomain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.domains[id]
	if !ok {
		return nil, storage.ErrDomainNotFound
	}
	cp := *d
	return &cp, nil
}

// GetDomainByName 根据名称获取域名
func (s *Store) GetDomainByName(name string) (*domain.RegisteredDomain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.domains {
		if strings.EqualFold(d.Name, name) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, storage.ErrDomainNotFound
}

// ListDomainsByCustomer 列出客户的全部域名
func (s *Store) ListDomainsByCustomer(customerID string) ([]domain.RegisteredDomain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.RegisteredDomain{}
	for _, d := range s.domains {
		if d.CustomerID == customerID {
			result = append(result, *d)
		}
	}
	return result, nil
}

// ListDomainsByStatus 按状态列出域名
func (s *Store) ListDomainsByStatus(status domain.DomainStatus) ([]domain.RegisteredDomain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.RegisteredDomain{}
	for _, d := range s.domains {
		if d.Status == status {
			result = append(result, *d)
		}
	}
	return result, nil
}

// ListExpiringDomains 列出 days 天内到期且尚未过期的域名
func (s *Store) ListExpiringDomains(days int) ([]domain.RegisteredDomain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now().UTC()
	threshold := now.AddDate(0, 0, days)

	result := []domain.RegisteredDomain{}
	for _, d := range s.domains {
		if d.ExpiryDate.After(now) && !d.ExpiryDate.After(threshold) {
			result = append(result, *d)
		}
	}
	return result, nil
}

// DeleteDomain 删除域名
func (s *Store) DeleteDomain(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.domains[id]; !ok {
		return storage.ErrDomainNotFound
	}
	delete(s.domains, id)
	return nil
}

// ---- HostingPackageRepository ----

// SavePackage 保存主机套餐
func (s *Store) SavePackage(pkg *domain.HostingPackage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pkg.ID == "" {
		pkg.ID = uuid.NewString()
	}
	if pkg.CreatedAt.IsZero() {
		pkg.CreatedAt = time.Now().UTC()
	}
	pkg.UpdatedAt = time.Now().UTC()

	cp := *pkg
	s.packages[pkg.ID] = &cp
	return nil
}

// GetPackage 根据 ID 获取套餐
func (s *Store) GetPackage(id string) (*domain.HostingPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pkg, ok := s.packages[id]
	if !ok {
		return nil, storage.ErrPackageNotFound
	}
	cp := *pkg
	return &cp, nil
}

// ListPackages 列出套餐，activeOnly 时仅返回启用的
func (s *Store) ListPackages(activeOnly bool) ([]domain.HostingPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.HostingPackage{}
	for _, pkg := range s.packages {
		if activeOnly && !pkg.Active {
			continue
		}
		result = append(result, *pkg)
	}
	return result, nil
}

// DeletePackage 删除套餐
func (s *Store) DeletePackage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.packages[id]; !ok {
		return storage.ErrPackageNotFound
	}
	delete(s.packages, id)
	return nil
}

// ---- HostingAccountRepository ----

// SaveAccount 保存主机账户
func (s *Store) SaveAccount(account *domain.HostingAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	account.UpdatedAt = time.Now().UTC()

	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

// GetAccount 根据 ID 获取主机账户
func (s *Store) GetAccount(id string) (*domain.HostingAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, storage.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

// GetAccountByDomain 根据域名获取主机账户
func (s *Store) GetAccountByDomain(domainName string) (*domain.HostingAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, account := range s.accounts {
		if strings.EqualFold(account.Domain, domainName) {
			cp := *account
			return &cp, nil
		}
	}
	return nil, storage.ErrAccountNotFound
}

// ListAccountsByCustomer 列出客户的全部主机账户
func (s *Store) ListAccountsByCustomer(customerID string) ([]domain.HostingAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.HostingAccount{}
	for _, account := range s.accounts {
		if account.CustomerID == customerID {
			result = append(result, *account)
		}
	}
	return result, nil
}

// ListAccountsByStatus 按状态列出主机账户
func (s *Store) ListAccountsByStatus(status domain.HostingStatus) ([]domain.HostingAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.HostingAccount{}
	for _, account := range s.accounts {
		if account.Status == status {
			result = append(result, *account)
		}
	}
	return result, nil
}

// DeleteAccount 删除主机账户，返回是否实际删除
func (s *Store) DeleteAccount(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return false, nil
	}
	delete(s.accounts, id)
	return true, nil
}

// ---- OrderRepository ----

// SaveOrder 保存订单
func (s *Store) SaveOrder(order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	cp := *order
	s.orders[order.ID] = &cp
	return nil
}

// GetOrder 根据 ID 获取订单
func (s *Store) GetOrder(id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, storage.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

// ListOrdersByCustomer 列出客户的全部订单
func (s *Store) ListOrdersByCustomer(customerID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.Order{}
	for _, order := range s.orders {
		if order.CustomerID == customerID {
			result = append(result, *order)
		}
	}
	return result, nil
}

// ---- OperatorRepository ----

// SaveOperator 保存操作员（ID 为空时生成）
func (s *Store) SaveOperator(op *domain.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	for id, existing := range s.operators {
		if id == op.ID {
			continue
		}
		if strings.EqualFold(existing.Email, op.Email) || strings.EqualFold(existing.Username, op.Username) {
			return storage.ErrDuplicateOperator
		}
	}
	if op.CreatedAt.IsZero() {
		op.CreatedAt = time.Now().UTC()
	}
	op.UpdatedAt = time.Now().UTC()

	cp := *op
	s.operators[op.ID] = &cp
	return nil
}

// GetOperator 根据 ID 获取操作员
func (s *Store) GetOperator(id string) (*domain.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, ok := s.operators[id]
	if !ok {
		return nil, storage.ErrOperatorNotFound
	}
	cp := *op
	return &cp, nil
}

// GetOperatorByEmail 根据邮箱获取操作员
func (s *Store) GetOperatorByEmail(email string) (*domain.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, op := range s.operators {
		if strings.EqualFold(op.Email, email) {
			cp := *op
			return &cp, nil
		}
	}
	return nil, storage.ErrOperatorNotFound
}

// GetOperatorByUsername 根据用户名获取操作员
func (s *Store) GetOperatorByUsername(username string) (*domain.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, op := range s.operators {
		if strings.EqualFold(op.Username, username) {
			cp := *op
			return &cp, nil
		}
	}
	return nil, storage.ErrOperatorNotFound
}

// UpdateOperatorLastLogin 更新最后登录时间
func (s *Store) UpdateOperatorLastLogin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op, ok := s.operators[id]
	if !ok {
		return storage.ErrOperatorNotFound
	}
	now := time.Now().UTC()
	op.LastLoginAt = &now
	return nil
}

// Health 内存存储始终可用
func (s *Store) Health() error {
	return nil
}

// Close 内存存储无需释放资源
func (s *Store) Close() error {
	return nil
}
