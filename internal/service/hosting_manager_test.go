package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/storage/memory"
	"hostpanel/backend/internal/whm"
)

type hostingFixture struct {
	manager  *HostingManager
	store    *memory.Store
	whm      *whm.Fake
	customer *domain.Customer
	pkg      *domain.HostingPackage
}

func newHostingFixture(t *testing.T, withWHM bool) *hostingFixture {
	t.Helper()
	store := memory.NewStore()

	customer := &domain.Customer{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	}
	require.NoError(t, store.SaveCustomer(customer))

	pkg := &domain.HostingPackage{
		Name:      "basic",
		DiskSpace: 2048,
		Bandwidth: 10240,
		Price:     9.99,
		Active:    true,
	}
	require.NoError(t, store.SavePackage(pkg))

	var fake *whm.Fake
	var client whm.Client
	if withWHM {
		fake = whm.NewFake()
		client = fake
	}

	return &hostingFixture{
		manager:  NewHostingManager(client, store, nil, zap.NewNop()),
		store:    store,
		whm:      fake,
		customer: customer,
		pkg:      pkg,
	}
}

func (f *hostingFixture) createAccount(t *testing.T) *domain.HostingAccount {
	t.Helper()
	account, err := f.manager.CreateAccount(context.Background(),
		"example.com", f.pkg.ID, f.customer.ID, "example1", "password123")
	require.NoError(t, err)
	return account
}

func TestCreateAccount(t *testing.T) {
	f := newHostingFixture(t, true)

	account := f.createAccount(t)

	assert.Equal(t, "example.com", account.Domain)
	assert.Equal(t, domain.HostingStatusActive, account.Status)
	assert.Equal(t, "192.168.1.100", account.IPAddress)
	assert.Equal(t, 0, account.DiskUsage)
	require.NotNil(t, account.ExpiresDate)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 365), *account.ExpiresDate, time.Minute)

	persisted, err := f.store.GetAccountByDomain("example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, persisted.ID)
}

func TestCreateAccount_SimulatedWithoutWHM(t *testing.T) {
	f := newHostingFixture(t, false)

	account := f.createAccount(t)
	assert.Equal(t, "192.168.1.100", account.IPAddress)
}

func TestCreateAccount_DuplicateDomainSkipsRemote(t *testing.T) {
	f := newHostingFixture(t, true)
	f.createAccount(t)
	require.Equal(t, 1, f.whm.CreateCalls)

	_, err := f.manager.CreateAccount(context.Background(),
		"example.com", f.pkg.ID, f.customer.ID, "example2", "password123")
	require.Error(t, err)

	var hostingErr *domain.HostingError
	require.ErrorAs(t, err, &hostingErr)
	assert.Contains(t, err.Error(), "already exists")

	// no second provisioning call reached the remote API
	assert.Equal(t, 1, f.whm.CreateCalls)
}

func TestCreateAccount_Validation(t *testing.T) {
	f := newHostingFixture(t, true)
	ctx := context.Background()

	tests := []struct {
		name             string
		domain, username string
		password         string
	}{
		{"domain without dot", "example", "example1", "password123"},
		{"short username", "example.com", "ab", "password123"},
		{"invalid username chars", "example.com", "Example!", "password123"},
		{"short password", "example.com", "example1", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.manager.CreateAccount(ctx, tt.domain, f.pkg.ID, f.customer.ID, tt.username, tt.password)
			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
		})
	}
	assert.Equal(t, 0, f.whm.CreateCalls)
}

func TestCreateAccount_InactivePackage(t *testing.T) {
	f := newHostingFixture(t, true)
	f.pkg.Active = false
	require.NoError(t, f.store.SavePackage(f.pkg))

	_, err := f.manager.CreateAccount(context.Background(),
		"example.com", f.pkg.ID, f.customer.ID, "example1", "password123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found or inactive")
	assert.Equal(t, 0, f.whm.CreateCalls)
}

func TestSuspendUnsuspend(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Suspend(ctx, account.ID, "non-payment"))

	suspended, err := f.store.GetAccount(account.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HostingStatusSuspended, suspended.Status)
	assert.Equal(t, "non-payment", suspended.SuspendedReason)
	assert.True(t, f.whm.Accounts["example1"].Suspended)

	require.NoError(t, f.manager.Unsuspend(ctx, account.ID))

	active, err := f.store.GetAccount(account.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HostingStatusActive, active.Status)
	assert.Empty(t, active.SuspendedReason)
	assert.False(t, f.whm.Accounts["example1"].Suspended)
}

func TestChangePlan(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)

	pro := &domain.HostingPackage{Name: "pro", DiskSpace: 8192, Bandwidth: 40960, Price: 19.99, Active: true}
	require.NoError(t, f.store.SavePackage(pro))

	require.NoError(t, f.manager.ChangePlan(context.Background(), account.ID, pro.ID))

	updated, err := f.store.GetAccount(account.ID)
	require.NoError(t, err)
	assert.Equal(t, pro.ID, updated.PackageID)
	assert.Equal(t, "pro", f.whm.Accounts["example1"].Plan)
}

func TestChangePlan_InactiveTarget(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)

	inactive := &domain.HostingPackage{Name: "legacy", DiskSpace: 512, Active: false}
	require.NoError(t, f.store.SavePackage(inactive))

	err := f.manager.ChangePlan(context.Background(), account.ID, inactive.ID)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestGetUsage_LiveFetchPersistsBack(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)
	f.whm.Usages["example1"] = whm.Usage{DiskUsage: 1024, DiskLimit: 2048}

	report, err := f.manager.GetUsage(context.Background(), account.ID)
	require.NoError(t, err)

	assert.Equal(t, 1024, report.DiskUsage)
	assert.Equal(t, 50.0, report.DiskUsagePercent)
	assert.Equal(t, 0.0, report.BandwidthUsagePercent)

	// fetched usage is written back to the repository
	persisted, err := f.store.GetAccount(account.ID)
	require.NoError(t, err)
	assert.Equal(t, 1024, persisted.DiskUsage)
}

func TestGetUsage_FallbackToPersisted(t *testing.T) {
	f := newHostingFixture(t, false)
	account := f.createAccount(t)

	account.DiskUsage = 512
	account.BandwidthUsage = 2560
	require.NoError(t, f.store.SaveAccount(account))

	report, err := f.manager.GetUsage(context.Background(), account.ID)
	require.NoError(t, err)

	assert.Equal(t, 512, report.DiskUsage)
	assert.Equal(t, 2048, report.DiskLimit)
	assert.Equal(t, 25.0, report.DiskUsagePercent)
	assert.Equal(t, 25.0, report.BandwidthUsagePercent)
}

func TestGetUsage_ZeroLimit(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)
	f.whm.Usages["example1"] = whm.Usage{DiskUsage: 1024, DiskLimit: 0}

	report, err := f.manager.GetUsage(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.DiskUsagePercent)
}

func TestRenewAccount(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)

	require.NoError(t, f.manager.Suspend(context.Background(), account.ID, "expired"))

	expiry := *account.ExpiresDate
	require.NoError(t, f.manager.RenewAccount(context.Background(), account.ID, 2))

	renewed, err := f.store.GetAccount(account.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HostingStatusActive, renewed.Status)
	assert.Equal(t, expiry.AddDate(0, 0, 730), *renewed.ExpiresDate)
}

func TestRenewAccount_NoExpirySet(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)
	account.ExpiresDate = nil
	require.NoError(t, f.store.SaveAccount(account))

	f.manager.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, f.manager.RenewAccount(context.Background(), account.ID, 1))

	renewed, err := f.store.GetAccount(account.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), renewed.ExpiresDate.UTC())
}

func TestDeleteAccount(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)

	deleted, err := f.manager.DeleteAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.store.GetAccount(account.ID)
	require.Error(t, err)
	assert.NotContains(t, f.whm.Accounts, "example1")
}

func TestDeleteAccount_NotFound(t *testing.T) {
	f := newHostingFixture(t, true)

	_, err := f.manager.DeleteAccount(context.Background(), "missing-id")
	require.Error(t, err)

	var hostingErr *domain.HostingError
	assert.ErrorAs(t, err, &hostingErr)
}

func TestGetAccountInfo(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)
	f.whm.Usages["example1"] = whm.Usage{DiskUsage: 1024, DiskLimit: 2048}

	info, err := f.manager.GetAccountInfo(context.Background(), account.ID)
	require.NoError(t, err)

	assert.Equal(t, account.ID, info.ID)
	assert.Equal(t, "example.com", info.Domain)
	require.NotNil(t, info.Package)
	assert.Equal(t, "basic", info.Package.Name)
	require.NotNil(t, info.Customer)
	assert.Equal(t, "Jane Doe", info.Customer.Name)
	assert.Equal(t, "jane@example.com", info.Customer.Email)
	require.NotNil(t, info.Usage)
	assert.Equal(t, 50.0, info.Usage.DiskUsagePercent)
}

func TestCreateEmailAccount(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)

	err := f.manager.CreateEmailAccount(context.Background(),
		account.ID, "info@example.com", "mailpass123", 512)
	require.NoError(t, err)

	assert.Equal(t, []string{"info@example.com"}, f.whm.Emails["example.com"])
}

func TestCreateEmailAccount_Validation(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)

	testCases := []struct {
		name     string
		account  string
		email    string
		password string
	}{
		{"unknown account", "no-such-id", "info@example.com", "mailpass123"},
		{"invalid email", account.ID, "not-an-address", "mailpass123"},
		{"short password", account.ID, "info@example.com", "short"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.manager.CreateEmailAccount(context.Background(),
				tc.account, tc.email, tc.password, 0)
			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
		})
	}
	assert.Empty(t, f.whm.Emails)
}

func TestCreateDatabase(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)

	err := f.manager.CreateDatabase(context.Background(),
		account.ID, "shop", "shop_user", "dbpass12345")
	require.NoError(t, err)

	assert.Equal(t, []string{"shop"}, f.whm.Databases[account.Username])
}

func TestCreateDatabase_Validation(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)

	err := f.manager.CreateDatabase(context.Background(),
		account.ID, "", "shop_user", "dbpass12345")
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	err = f.manager.CreateDatabase(context.Background(),
		account.ID, "shop", "shop_user", "short")
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestChangeAccountPassword(t *testing.T) {
	f := newHostingFixture(t, true)
	account := f.createAccount(t)

	err := f.manager.ChangeAccountPassword(context.Background(), account.ID, "newpass12345")
	require.NoError(t, err)
	assert.Equal(t, "newpass12345", f.whm.Accounts[account.Username].Password)

	err = f.manager.ChangeAccountPassword(context.Background(), account.ID, "short")
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestEmailAndDatabase_SimulatedWithoutWHM(t *testing.T) {
	f := newHostingFixture(t, false)
	account := f.createAccount(t)

	require.NoError(t, f.manager.CreateEmailAccount(context.Background(),
		account.ID, "info@example.com", "mailpass123", 0))
	require.NoError(t, f.manager.CreateDatabase(context.Background(),
		account.ID, "shop", "shop_user", "dbpass12345"))
	require.NoError(t, f.manager.ChangeAccountPassword(context.Background(),
		account.ID, "newpass12345"))
}
