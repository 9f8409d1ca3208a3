package storage

import (
	"errors"

	"hostpanel/backend/internal/domain"
)

var (
	// ErrCustomerNotFound 客户不存在
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrDomainNotFound 域名不存在
	ErrDomainNotFound = errors.New("domain not found")
	// ErrAccountNotFound 主机账户不存在
	ErrAccountNotFound = errors.New("hosting account not found")
	// ErrPackageNotFound 主机套餐不存在
	ErrPackageNotFound = errors.New("hosting package not found")
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateEmail 客户邮箱已存在
	ErrDuplicateEmail = errors.New("customer email already exists")
	// ErrDuplicateDomain 域名已存在
	ErrDuplicateDomain = errors.New("domain already exists")
	// ErrOperatorNotFound 操作员不存在
	ErrOperatorNotFound = errors.New("operator not found")
	// ErrDuplicateOperator 操作员邮箱或用户名已存在
	ErrDuplicateOperator = errors.New("operator already exists")
)

// CustomerRepository 定义客户数据存取操作。
type CustomerRepository interface {
	SaveCustomer(customer *domain.Customer) error
	GetCustomer(id string) (*domain.Customer, error)
	GetCustomerByEmail(email string) (*domain.Customer, error)
	ListCustomers(offset, limit int) ([]domain.Customer, error)
	DeleteCustomer(id string) error
}

// DomainRepository 定义已注册域名数据存取操作。
type DomainRepository interface {
	SaveDomain(d *domain.RegisteredDomain) error
	GetDomain(id string) (*domain.RegisteredDomain, error)
	GetDomainByName(name string) (*domain.RegisteredDomain, error)
	ListDomainsByCustomer(customerID string) ([]domain.RegisteredDomain, error)
	ListDomainsByStatus(status domain.DomainStatus) ([]domain.RegisteredDomain, error)
	// ListExpiringDomains 返回在 days 天内到期且尚未过期的域名
	ListExpiringDomains(days int) ([]domain.RegisteredDomain, error)
	DeleteDomain(id string) error
}

// HostingPackageRepository 定义主机套餐数据存取操作。
type HostingPackageRepository interface {
	SavePackage(pkg *domain.HostingPackage) error
	GetPackage(id string) (*domain.HostingPackage, error)
	ListPackages(activeOnly bool) ([]domain.HostingPackage, error)
	DeletePackage(id string) error
}

// HostingAccountRepository 定义主机账户数据存取操作。
type HostingAccountRepository interface {
	SaveAccount(account *domain.HostingAccount) error
	GetAccount(id string) (*domain.HostingAccount, error)
	GetAccountByDomain(domainName string) (*domain.HostingAccount, error)
	ListAccountsByCustomer(customerID string) ([]domain.HostingAccount, error)
	ListAccountsByStatus(status domain.HostingStatus) ([]domain.HostingAccount, error)
	// DeleteAccount 返回是否实际删除了记录
	DeleteAccount(id string) (bool, error)
}

// OrderRepository 定义订单数据存取操作。
type OrderRepository interface {
	SaveOrder(order *domain.Order) error
	GetOrder(id string) (*domain.Order, error)
	ListOrdersByCustomer(customerID string) ([]domain.Order, error)
}

// OperatorRepository 定义面板操作员数据存取操作。
type OperatorRepository interface {
	SaveOperator(op *domain.Operator) error
	GetOperator(id string) (*domain.Operator, error)
	GetOperatorByEmail(email string) (*domain.Operator, error)
	GetOperatorByUsername(username string) (*domain.Operator, error)
	UpdateOperatorLastLogin(id string) error
}

// Store 聚合所有仓储接口。
type Store interface {
	CustomerRepository
	DomainRepository
	HostingPackageRepository
	HostingAccountRepository
	OrderRepository
	OperatorRepository

	// Health 检查底层存储连接状态
	Health() error
	// Close 释放底层连接
	Close() error
}
