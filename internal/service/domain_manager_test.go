package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/registrar"
	"hostpanel/backend/internal/storage/memory"
)

var testPricing = TLDPriceTable{
	"com": {Registration: 10, Renewal: 12, Transfer: 9},
	"net": {Registration: 11, Renewal: 13, Transfer: 10},
}

func testContact() *domain.ContactInfo {
	return &domain.ContactInfo{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
		Phone:     "+1 555 123 4567",
	}
}

func newTestDomainManager(fake *registrar.Fake) (*DomainManager, *memory.Store) {
	store := memory.NewStore()
	m := NewDomainManager(fake, store, nil, testPricing, zap.NewNop())
	return m, store
}

func TestCheckAvailability_InvalidName(t *testing.T) {
	tests := []struct {
		name   string
		domain string
	}{
		{"empty", ""},
		{"no dot", "example"},
		{"leading hyphen", "-example.com"},
		{"trailing hyphen", "example-.com"},
		{"consecutive dots", "example..com"},
		{"underscore", "exam_ple.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := registrar.NewFake()
			// a remote lookup would surface this instead of the validation error
			fake.AvailabilityErr[tt.domain] = errors.New("remote reached")

			m, _ := newTestDomainManager(fake)
			_, err := m.CheckAvailability(context.Background(), tt.domain)
			require.Error(t, err)

			var domainErr *domain.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.True(t, domain.IsValidationError(err))
		})
	}
}

func TestCheckAvailability(t *testing.T) {
	fake := registrar.NewFake()
	fake.Taken["taken.com"] = true
	m, _ := newTestDomainManager(fake)

	available, err := m.CheckAvailability(context.Background(), "free.com")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = m.CheckAvailability(context.Background(), "taken.com")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestCheckBulkAvailability_DegradesToFalse(t *testing.T) {
	fake := registrar.NewFake()
	fake.Taken["c.com"] = true
	fake.AvailabilityErr["b.com"] = errors.New("registrar timeout")
	m, _ := newTestDomainManager(fake)

	results := m.CheckBulkAvailability(context.Background(), []string{"a.com", "b.com", "c.com"})

	assert.Equal(t, map[string]bool{
		"a.com": true,
		"b.com": false,
		"c.com": false,
	}, results)
}

func TestSuggestNames_Deterministic(t *testing.T) {
	m, _ := newTestDomainManager(registrar.NewFake())

	first := m.SuggestNames("shop", []string{".com"}, 10)
	second := m.SuggestNames("shop", []string{".com"}, 10)

	assert.Equal(t, first, second)
	assert.LessOrEqual(t, len(first), 10)
	assert.Equal(t, "shop.com", first[0])
}

func TestSuggestNames_BaseBeforeCombined(t *testing.T) {
	m, _ := newTestDomainManager(registrar.NewFake())

	got := m.SuggestNames("shop", []string{".com", ".net"}, 4)

	assert.Equal(t, []string{"shop.com", "shop.net", "myshop.com", "getshop.com"}, got)
}

func TestRegister(t *testing.T) {
	fake := registrar.NewFake()
	m, store := newTestDomainManager(fake)
	m.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	registered, err := m.Register(context.Background(), "example.com", 2, testContact())
	require.NoError(t, err)

	assert.Equal(t, "example.com", registered.Name)
	assert.Equal(t, domain.DomainStatusActive, registered.Status)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 730), registered.ExpiryDate)
	assert.True(t, registered.AutoRenew)
	assert.False(t, registered.PrivacyProtection)
	require.Len(t, registered.Nameservers, 2)
	assert.Equal(t, "ns1.default.com", registered.Nameservers[0].Hostname)
	assert.Equal(t, "ns2.default.com", registered.Nameservers[1].Hostname)

	persisted, err := store.GetDomainByName("example.com")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, persisted.ID)
}

func TestRegister_NotAvailable(t *testing.T) {
	fake := registrar.NewFake()
	fake.Taken["taken.com"] = true
	m, _ := newTestDomainManager(fake)

	_, err := m.Register(context.Background(), "taken.com", 1, testContact())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")

	// no registration attempt reached the registrar
	assert.NotContains(t, fake.Domains, "taken.com")
}

func TestRegister_InvalidInput(t *testing.T) {
	m, _ := newTestDomainManager(registrar.NewFake())
	ctx := context.Background()

	_, err := m.Register(ctx, "example.com", 0, testContact())
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	_, err = m.Register(ctx, "example.com", 1, &domain.ContactInfo{Email: "x@y.com"})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	_, err = m.Register(ctx, "bad..name", 1, testContact())
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestRegisterWithPrivacy_FailureKeepsRegistration(t *testing.T) {
	fake := registrar.NewFake()
	fake.PrivacyErr["example.com"] = errors.New("privacy service down")
	m, _ := newTestDomainManager(fake)

	registered, err := m.RegisterWithPrivacy(context.Background(), "example.com", 1, testContact())
	require.NoError(t, err)

	assert.False(t, registered.PrivacyProtection)
	assert.Contains(t, fake.Domains, "example.com")
}

func TestRegisterWithPrivacy(t *testing.T) {
	fake := registrar.NewFake()
	m, _ := newTestDomainManager(fake)

	registered, err := m.RegisterWithPrivacy(context.Background(), "example.com", 1, testContact())
	require.NoError(t, err)

	assert.True(t, registered.PrivacyProtection)
}

func TestRenew(t *testing.T) {
	fake := registrar.NewFake()
	expiry := time.Now().UTC().AddDate(0, 0, 100)
	fake.SeedDomain("example.com", registrar.DomainInfo{
		Status:     string(domain.DomainStatusActive),
		ExpiryDate: expiry,
	})
	m, _ := newTestDomainManager(fake)

	require.NoError(t, m.Renew(context.Background(), "example.com", 1))
	assert.Equal(t, expiry.AddDate(0, 0, 365), fake.Domains["example.com"].ExpiryDate)

	err := m.Renew(context.Background(), "example.com", 0)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestTransferEligibility(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		locked   bool
		expiry   time.Time
		eligible bool
	}{
		{"unlocked far from expiry", false, now.AddDate(0, 0, 90), true},
		{"locked far from expiry", true, now.AddDate(0, 0, 90), false},
		{"unlocked near expiry", false, now.AddDate(0, 0, 30), false},
		{"locked near expiry", true, now.AddDate(0, 0, 30), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := registrar.NewFake()
			fake.SeedDomain("example.com", registrar.DomainInfo{
				Status:     string(domain.DomainStatusActive),
				ExpiryDate: tt.expiry,
				Locked:     tt.locked,
			})
			m, _ := newTestDomainManager(fake)
			m.now = func() time.Time { return now }

			assert.Equal(t, tt.eligible, m.CheckTransferEligibility(context.Background(), "example.com"))
		})
	}
}

func TestTransferEligibility_SwallowsErrors(t *testing.T) {
	fake := registrar.NewFake()
	fake.LockErr["example.com"] = errors.New("registrar down")
	m, _ := newTestDomainManager(fake)

	assert.False(t, m.CheckTransferEligibility(context.Background(), "example.com"))
}

func TestTransfer_NoEligibilityCheck(t *testing.T) {
	fake := registrar.NewFake()
	// locked and seeded; transfer must still be submitted
	fake.SeedDomain("example.com", registrar.DomainInfo{
		Status:     string(domain.DomainStatusActive),
		ExpiryDate: time.Now().AddDate(0, 0, 10),
		Locked:     true,
	})
	m, _ := newTestDomainManager(fake)

	err := m.Transfer(context.Background(), "example.com", "auth-123", testContact())
	require.NoError(t, err)
	assert.Equal(t, string(domain.DomainStatusPendingTransfer), fake.Domains["example.com"].Status)
}

func TestLockUnlockAuthCode(t *testing.T) {
	fake := registrar.NewFake()
	fake.SeedDomain("example.com", registrar.DomainInfo{Status: string(domain.DomainStatusActive)})
	fake.AuthCodes["example.com"] = "secret-code"
	m, _ := newTestDomainManager(fake)
	ctx := context.Background()

	require.NoError(t, m.Lock(ctx, "example.com"))
	locked, err := m.GetLockStatus(ctx, "example.com")
	require.NoError(t, err)
	assert.True(t, locked)

	require.NoError(t, m.Unlock(ctx, "example.com"))
	locked, err = m.GetLockStatus(ctx, "example.com")
	require.NoError(t, err)
	assert.False(t, locked)

	code, err := m.GetAuthCode(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, "secret-code", code)

	_, err = m.GetAuthCode(ctx, "unknown.com")
	require.Error(t, err)
}

func TestPricing(t *testing.T) {
	m, _ := newTestDomainManager(registrar.NewFake())
	ctx := context.Background()

	price, err := m.RenewalPrice(ctx, "example.com", 2)
	require.NoError(t, err)
	assert.Equal(t, 24.0, price.Renewal)
	assert.Equal(t, "USD", price.Currency)

	price, err = m.RegistrationPrice(ctx, ".com", 3)
	require.NoError(t, err)
	assert.Equal(t, 30.0, price.Registration)

	_, err = m.RegistrationPrice(ctx, "xyz", 1)
	require.Error(t, err)
}

func TestTLDPricing_NilEntryOnFailure(t *testing.T) {
	m, _ := newTestDomainManager(registrar.NewFake())

	pricing := m.TLDPricing(context.Background(), []string{".com", ".xyz", "net"})

	require.Contains(t, pricing, ".com")
	require.NotNil(t, pricing[".com"])
	assert.Equal(t, 10.0, pricing[".com"].Registration)

	require.Contains(t, pricing, ".xyz")
	assert.Nil(t, pricing[".xyz"])

	require.NotNil(t, pricing["net"])
	assert.Equal(t, 11.0, pricing["net"].Registration)
}

func TestGetDomainDetails(t *testing.T) {
	fake := registrar.NewFake()
	expiry := time.Now().UTC().AddDate(1, 0, 0)
	fake.SeedDomain("example.com", registrar.DomainInfo{
		Status:            string(domain.DomainStatusActive),
		ExpiryDate:        expiry,
		Nameservers:       []string{"ns1.example.net", "ns2.example.net"},
		Locked:            true,
		PrivacyProtection: true,
	})
	m, _ := newTestDomainManager(fake)

	details, err := m.GetDomainDetails(context.Background(), "example.com")
	require.NoError(t, err)

	assert.Equal(t, domain.DomainStatusActive, details.Status)
	assert.Equal(t, expiry, details.ExpiryDate)
	assert.True(t, details.Locked)
	assert.True(t, details.PrivacyProtection)
	require.Len(t, details.Nameservers, 2)
	assert.Equal(t, 0, details.Nameservers[0].Position)
	assert.Equal(t, "ns2.example.net", details.Nameservers[1].Hostname)
}
