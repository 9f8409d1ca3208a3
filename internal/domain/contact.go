package domain

// ContactType 域名联系人类型
type ContactType string

const (
	ContactTypeRegistrant ContactType = "registrant"
	ContactTypeAdmin      ContactType = "admin"
	ContactTypeTech       ContactType = "tech"
	ContactTypeBilling    ContactType = "billing"
)

// ContactInfo 联系人信息（值对象，不持久化）
//
// 用于注册商联系人提交与输入校验。
type ContactInfo struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
	ZipCode      string `json:"zipCode"`
	Organization string `json:"organization,omitempty"`
}

// PriceInfo 价格信息（值对象）
//
// 由 TLD 价格配置在调用时派生，不持久化。
type PriceInfo struct {
	Registration float64 `json:"registration"`
	Renewal      float64 `json:"renewal"`
	Transfer     float64 `json:"transfer"`
	Currency     string  `json:"currency"`
}
