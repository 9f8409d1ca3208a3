package domain

import "time"

// ServiceType 订单服务类型
type ServiceType string

const (
	ServiceTypeDomain  ServiceType = "domain"
	ServiceTypeHosting ServiceType = "hosting"
	ServiceTypeSSL     ServiceType = "ssl"
)

// OrderStatus 订单支付状态
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// Order 订单
type Order struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ServiceType ServiceType `json:"serviceType" gorm:"type:varchar(20);not null"`
	DomainName  string      `json:"domainName,omitempty" gorm:"type:varchar(255)"`
	Years       int         `json:"years" gorm:"default:1"`
	TotalAmount float64     `json:"totalAmount" gorm:"not null"`
	Currency    string      `json:"currency" gorm:"type:varchar(3);default:'USD'"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	InvoiceID   string      `json:"invoiceId,omitempty" gorm:"type:varchar(100)"`
	CustomerID  string      `json:"customerId" gorm:"type:varchar(36);index;not null"`
	CreatedAt   time.Time   `json:"createdAt"`
	PaidAt      *time.Time  `json:"paidAt,omitempty"`
}
