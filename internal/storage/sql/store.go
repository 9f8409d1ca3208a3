package sql

import (
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/storage"
)

// Store SQL 数据库存储实现（支持 MySQL 5.7+ 和 PostgreSQL）
type Store struct {
	db         *gorm.DB
	driverName string // "mysql" or "postgres"
}

// NewStore 创建 SQL 数据库存储并执行自动迁移
func NewStore(
	driverName string,
	dsn string,
	maxOpenConns int,
	maxIdleConns int,
	connMaxLifetime time.Duration,
) (*Store, error) {
	if driverName != "mysql" && driverName != "postgres" {
		return nil, fmt.Errorf("unsupported database driver: %s (supported: mysql, postgres)", driverName)
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driverName {
	case "mysql":
		db, err = gorm.Open(mysql.Open(dsn), gormConfig)
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{db: db, driverName: driverName}

	if err := store.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

var _ storage.Store = (*Store)(nil)

// migrate 自动迁移全部业务表
func (s *Store) migrate() error {
	return s.db.AutoMigrate(
		&domain.Customer{},
		&domain.RegisteredDomain{},
		&domain.Nameserver{},
		&domain.DNSRecord{},
		&domain.HostingPackage{},
		&domain.HostingAccount{},
		&domain.Order{},
		&domain.Operator{},
	)
}

// ---- CustomerRepository ----

func (s *Store) SaveCustomer(customer *domain.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	err := s.db.Save(customer).Error
	if err != nil && isDuplicateError(err) {
		return storage.ErrDuplicateEmail
	}
	return err
}

func (s *Store) GetCustomer(id string) (*domain.Customer, error) {
	var customer domain.Customer
	if err := s.db.First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (s *Store) GetCustomerByEmail(email string) (*domain.Customer, error) {
	var customer domain.Customer
	if err := s.db.First(&customer, "lower(email) = lower(?)", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (s *Store) ListCustomers(offset, limit int) ([]domain.Customer, error) {
	var customers []domain.Customer
	query := s.db.Order("created_at DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) DeleteCustomer(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.Customer{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return storage.ErrCustomerNotFound
		}
		// 级联删除客户名下的域名、主机账户与订单
		if err := tx.Delete(&domain.RegisteredDomain{}, "customer_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.HostingAccount{}, "customer_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Order{}, "customer_id = ?", id).Error
	})
}

// ---- DomainRepository ----

func (s *Store) SaveDomain(d *domain.RegisteredDomain) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	err := s.db.Save(d).Error
	if err != nil && isDuplicateError(err) {
		return storage.ErrDuplicateDomain
	}
	return err
}

func (s *Store) GetDomain(id string) (*domain.RegisteredDomain, error) {
	var d domain.RegisteredDomain
	if err := s.db.Preload("Nameservers").Preload("DNSRecords").First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrDomainNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *Store) GetDomainByName(name string) (*domain.RegisteredDomain, error) {
	var d domain.RegisteredDomain
	if err := s.db.Preload("Nameservers").First(&d, "lower(name) = lower(?)", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrDomainNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *Store) ListDomainsByCustomer(customerID string) ([]domain.RegisteredDomain, error) {
	var domains []domain.RegisteredDomain
	if err := s.db.Where("customer_id = ?", customerID).Order("name").Find(&domains).Error; err != nil {
		return nil, err
	}
	return domains, nil
}

func (s *Store) ListDomainsByStatus(status domain.DomainStatus) ([]domain.RegisteredDomain, error) {
	var domains []domain.RegisteredDomain
	if err := s.db.Where("status = ?", status).Order("name").Find(&domains).Error; err != nil {
		return nil, err
	}
	return domains, nil
}

func (s *Store) ListExpiringDomains(days int) ([]domain.RegisteredDomain, error) {
	now := time.Now().UTC()
	threshold := now.AddDate(0, 0, days)

	var domains []domain.RegisteredDomain
	err := s.db.
		Where("expiry_date > ? AND expiry_date <= ?", now, threshold).
		Order("expiry_date").
		Find(&domains).Error
	if err != nil {
		return nil, err
	}
	return domains, nil
}

func (s *Store) DeleteDomain(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.RegisteredDomain{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return storage.ErrDomainNotFound
		}
		// 域名删除时级联删除 DNS 记录与域名服务器
		if err := tx.Delete(&domain.DNSRecord{}, "domain_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Nameserver{}, "domain_id = ?", id).Error
	})
}

// ---- HostingPackageRepository ----

func (s *Store) SavePackage(pkg *domain.HostingPackage) error {
	if pkg.ID == "" {
		pkg.ID = uuid.NewString()
	}
	return s.db.Save(pkg).Error
}

func (s *Store) GetPackage(id string) (*domain.HostingPackage, error) {
	var pkg domain.HostingPackage
	if err := s.db.First(&pkg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (s *Store) ListPackages(activeOnly bool) ([]domain.HostingPackage, error) {
	query := s.db.Order("price")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var packages []domain.HostingPackage
	if err := query.Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (s *Store) DeletePackage(id string) error {
	result := s.db.Delete(&domain.HostingPackage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrPackageNotFound
	}
	return nil
}

// ---- HostingAccountRepository ----

func (s *Store) SaveAccount(account *domain.HostingAccount) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	return s.db.Save(account).Error
}

func (s *Store) GetAccount(id string) (*domain.HostingAccount, error) {
	var account domain.HostingAccount
	if err := s.db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *Store) GetAccountByDomain(domainName string) (*domain.HostingAccount, error) {
	var account domain.HostingAccount
	if err := s.db.First(&account, "lower(domain) = lower(?)", domainName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *Store) ListAccountsByCustomer(customerID string) ([]domain.HostingAccount, error) {
	var accounts []domain.HostingAccount
	if err := s.db.Where("customer_id = ?", customerID).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Store) ListAccountsByStatus(status domain.HostingStatus) ([]domain.HostingAccount, error) {
	var accounts []domain.HostingAccount
	if err := s.db.Where("status = ?", status).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Store) DeleteAccount(id string) (bool, error) {
	result := s.db.Delete(&domain.HostingAccount{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ---- OrderRepository ----

func (s *Store) SaveOrder(order *domain.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	return s.db.Save(order).Error
}

func (s *Store) GetOrder(id string) (*domain.Order, error) {
	var order domain.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *Store) ListOrdersByCustomer(customerID string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := s.db.Where("customer_id = ?", customerID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ---- OperatorRepository ----

func (s *Store) SaveOperator(op *domain.Operator) error {
	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	err := s.db.Save(op).Error
	if err != nil && isDuplicateError(err) {
		return storage.ErrDuplicateOperator
	}
	return err
}

func (s *Store) GetOperator(id string) (*domain.Operator, error) {
	var op domain.Operator
	if err := s.db.First(&op, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrOperatorNotFound
		}
		return nil, err
	}
	return &op, nil
}

func (s *Store) GetOperatorByEmail(email string) (*domain.Operator, error) {
	var op domain.Operator
	if err := s.db.First(&op, "lower(email) = lower(?)", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrOperatorNotFound
		}
		return nil, err
	}
	return &op, nil
}

func (s *Store) GetOperatorByUsername(username string) (*domain.Operator, error) {
	var op domain.Operator
	if err := s.db.First(&op, "lower(username) = lower(?)", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrOperatorNotFound
		}
		return nil, err
	}
	return &op, nil
}

func (s *Store) UpdateOperatorLastLogin(id string) error {
	result := s.db.Model(&domain.Operator{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrOperatorNotFound
	}
	return nil
}

// Health 检查数据库连接状态
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isDuplicateError 判断是否为唯一约束冲突
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint")
}
