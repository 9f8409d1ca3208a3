package registrar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hostpanel/backend/internal/domain"
)

// ErrDomainNotRegistered 域名未在假注册商中登记
var ErrDomainNotRegistered = errors.New("domain not registered")

// Fake 确定性内存注册商实现
//
// 用于测试与本地开发模式：相同输入序列总是产生相同状态。
// 通过 *Err 映射与 Hook 函数注入指定操作的失败。
type Fake struct {
	mu sync.Mutex

	// Taken 视为已被他人注册（不可用）的域名
	Taken map[string]bool
	// Domains 已通过 Register 登记的域名详情
	Domains map[string]*DomainInfo
	// AuthCodes 每个域名的转移授权码
	AuthCodes map[string]string
	// Contacts 每个域名按类型存储的联系人
	Contacts map[string]map[domain.ContactType]domain.ContactInfo

	records      map[string][]domain.DNSRecord
	nextRecordID int

	// 故障注入：按域名返回指定错误
	AvailabilityErr map[string]error
	RegisterErr     map[string]error
	RenewErr        map[string]error
	TransferErr     map[string]error
	LockErr         map[string]error
	InfoErr         map[string]error
	PrivacyErr      map[string]error
	ContactsErr     map[string]error

	// AddRecordHook 非空时在每次 AddDNSRecord 前调用，可返回错误中断
	AddRecordHook func(name string, record domain.DNSRecord) error
	// DeleteRecordHook 非空时在每次 DeleteDNSRecord 前调用
	DeleteRecordHook func(name, recordID string) error
}

// NewFake 创建空的假注册商
func NewFake() *Fake {
	return &Fake{
		Taken:           make(map[string]bool),
		Domains:         make(map[string]*DomainInfo),
		AuthCodes:       make(map[string]string),
		Contacts:        make(map[string]map[domain.ContactType]domain.ContactInfo),
		records:         make(map[string][]domain.DNSRecord),
		AvailabilityErr: make(map[string]error),
		RegisterErr:     make(map[string]error),
		RenewErr:        make(map[string]error),
		TransferErr:     make(map[string]error),
		LockErr:         make(map[string]error),
		InfoErr:         make(map[string]error),
		PrivacyErr:      make(map[string]error),
		ContactsErr:     make(map[string]error),
	}
}

var _ Client = (*Fake)(nil)

func (f *Fake) CheckAvailability(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.AvailabilityErr[name]; err != nil {
		return false, err
	}
	if _, registered := f.Domains[name]; registered {
		return false, nil
	}
	return !f.Taken[name], nil
}

func (f *Fake) Register(_ context.Context, req RegistrationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.RegisterErr[req.Domain]; err != nil {
		return err
	}
	if f.Taken[req.Domain] {
		return fmt.Errorf("domain %s is taken", req.Domain)
	}
	now := time.Now().UTC()
	f.Domains[req.Domain] = &DomainInfo{
		Status:            string(domain.DomainStatusActive),
		ExpiryDate:        now.AddDate(0, 0, 365*req.Years),
		RegistrationDate:  now,
		Nameservers:       domain.DefaultNameservers(),
		PrivacyProtection: req.Privacy,
		AutoRenew:         req.AutoRenew,
	}
	return nil
}

func (f *Fake) Renew(_ context.Context, name string, years int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.RenewErr[name]; err != nil {
		return err
	}
	info, ok := f.Domains[name]
	if !ok {
		return ErrDomainNotRegistered
	}
	info.ExpiryDate = info.ExpiryDate.AddDate(0, 0, 365*years)
	return nil
}

func (f *Fake) Transfer(_ context.Context, req TransferRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.TransferErr[req.Domain]; err != nil {
		return err
	}
	if code, ok := f.AuthCodes[req.Domain]; ok && code != req.AuthCode {
		return errors.New("invalid auth code")
	}
	now := time.Now().UTC()
	f.Domains[req.Domain] = &DomainInfo{
		Status:           string(domain.DomainStatusPendingTransfer),
		ExpiryDate:       now.AddDate(1, 0, 0),
		RegistrationDate: now,
		Nameservers:      domain.DefaultNameservers(),
		AutoRenew:        true,
	}
	return nil
}

func (f *Fake) GetStatus(_ context.Context, name string) (*Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.LockErr[name]; err != nil {
		return nil, err
	}
	info, ok := f.Domains[name]
	if !ok {
		return nil, ErrDomainNotRegistered
	}
	return &Status{Locked: info.Locked}, nil
}

func (f *Fake) Lock(_ context.Context, name string) error {
	return f.setLocked(name, true)
}

func (f *Fake) Unlock(_ context.Context, name string) error {
	return f.setLocked(name, false)
}

func (f *Fake) setLocked(name string, locked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.LockErr[name]; err != nil {
		return err
	}
	info, ok := f.Domains[name]
	if !ok {
		return ErrDomainNotRegistered
	}
	info.Locked = locked
	return nil
}

func (f *Fake) GetAuthCode(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if code, ok := f.AuthCodes[name]; ok {
		return code, nil
	}
	if _, ok := f.Domains[name]; !ok {
		return "", ErrDomainNotRegistered
	}
	return "", errors.New("no authorization code available")
}

func (f *Fake) GetDomainInfo(_ context.Context, name string) (*DomainInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.InfoErr[name]; err != nil {
		return nil, err
	}
	info, ok := f.Domains[name]
	if !ok {
		return nil, ErrDomainNotRegistered
	}
	cp := *info
	return &cp, nil
}

func (f *Fake) EnableWhoisPrivacy(_ context.Context, name string) (bool, error) {
	return f.setPrivacy(name, true)
}

func (f *Fake) DisableWhoisPrivacy(_ context.Context, name string) (bool, error) {
	return f.setPrivacy(name, false)
}

func (f *Fake) setPrivacy(name string, enabled bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.PrivacyErr[name]; err != nil {
		return false, err
	}
	info, ok := f.Domains[name]
	if !ok {
		return false, ErrDomainNotRegistered
	}
	info.PrivacyProtection = enabled
	return true, nil
}

func (f *Fake) GetWhoisPrivacyStatus(_ context.Context, name string) (*PrivacyStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.PrivacyErr[name]; err != nil {
		return nil, err
	}
	info, ok := f.Domains[name]
	if !ok {
		return nil, ErrDomainNotRegistered
	}
	return &PrivacyStatus{Enabled: info.PrivacyProtection, ServiceType: "whois-guard"}, nil
}

func (f *Fake) GetContacts(_ context.Context, name string, contactType domain.ContactType) (*domain.ContactInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ContactsErr[name]; err != nil {
		return nil, err
	}
	byType, ok := f.Contacts[name]
	if !ok {
		return nil, ErrDomainNotRegistered
	}
	contact, ok := byType[contactType]
	if !ok {
		return nil, fmt.Errorf("no %s contact for %s", contactType, name)
	}
	cp := contact
	return &cp, nil
}

func (f *Fake) UpdateContacts(_ context.Context, name string, contactType domain.ContactType, contact domain.ContactInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ContactsErr[name]; err != nil {
		return err
	}
	if f.Contacts[name] == nil {
		f.Contacts[name] = make(map[domain.ContactType]domain.ContactInfo)
	}
	f.Contacts[name][contactType] = contact
	return nil
}

func (f *Fake) GetDNSRecords(_ context.Context, name string) ([]domain.DNSRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records := make([]domain.DNSRecord, len(f.records[name]))
	copy(records, f.records[name])
	return records, nil
}

func (f *Fake) AddDNSRecord(_ context.Context, name string, record domain.DNSRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.AddRecordHook != nil {
		if err := f.AddRecordHook(name, record); err != nil {
			return "", err
		}
	}
	f.nextRecordID++
	record.ID = fmt.Sprintf("rec-%d", f.nextRecordID)
	if record.TTL == 0 {
		record.TTL = domain.DefaultDNSTTL
	}
	f.records[name] = append(f.records[name], record)
	return record.ID, nil
}

func (f *Fake) DeleteDNSRecord(_ context.Context, name, recordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.DeleteRecordHook != nil {
		if err := f.DeleteRecordHook(name, recordID); err != nil {
			return err
		}
	}
	records := f.records[name]
	for i, record := range records {
		if record.ID == recordID {
			f.records[name] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("dns record %s not found", recordID)
}

// SeedRecords 预置域名的 DNS 记录（测试辅助）
func (f *Fake) SeedRecords(name string, records []domain.DNSRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seeded := make([]domain.DNSRecord, 0, len(records))
	for _, record := range records {
		f.nextRecordID++
		record.ID = fmt.Sprintf("rec-%d", f.nextRecordID)
		seeded = append(seeded, record)
	}
	f.records[name] = seeded
}

// SeedDomain 预置一个已注册域名（测试辅助）
func (f *Fake) SeedDomain(name string, info DomainInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Domains[name] = &info
}
