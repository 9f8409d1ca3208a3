package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/storage"
)

func newCustomer(email string) *domain.Customer {
	return &domain.Customer{
		Email:     email,
		FirstName: "Jane",
		LastName:  "Doe",
		Status:    "active",
	}
}

func TestCustomerCRUD(t *testing.T) {
	store := NewStore()

	customer := newCustomer("jane@example.com")
	require.NoError(t, store.SaveCustomer(customer))
	assert.NotEmpty(t, customer.ID)

	got, err := store.GetCustomer(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", got.Email)

	byEmail, err := store.GetCustomerByEmail("JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, byEmail.ID)

	// 重复邮箱
	dup := newCustomer("jane@example.com")
	assert.ErrorIs(t, store.SaveCustomer(dup), storage.ErrDuplicateEmail)

	require.NoError(t, store.DeleteCustomer(customer.ID))
	_, err = store.GetCustomer(customer.ID)
	assert.ErrorIs(t, err, storage.ErrCustomerNotFound)
}

func TestDeleteCustomerCascades(t *testing.T) {
	store := NewStore()

	customer := newCustomer("owner@example.com")
	require.NoError(t, store.SaveCustomer(customer))

	d := &domain.RegisteredDomain{
		Name:       "cascade.com",
		Status:     domain.DomainStatusActive,
		ExpiryDate: time.Now().UTC().AddDate(1, 0, 0),
		CustomerID: customer.ID,
	}
	require.NoError(t, store.SaveDomain(d))

	account := &domain.HostingAccount{
		Domain:     "cascade.com",
		Username:   "cascade",
		CustomerID: customer.ID,
	}
	require.NoError(t, store.SaveAccount(account))

	require.NoError(t, store.DeleteCustomer(customer.ID))

	_, err := store.GetDomainByName("cascade.com")
	assert.ErrorIs(t, err, storage.ErrDomainNotFound)
	_, err = store.GetAccountByDomain("cascade.com")
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
}

func TestDomainUniqueness(t *testing.T) {
	store := NewStore()

	first := &domain.RegisteredDomain{
		Name:       "unique.com",
		Status:     domain.DomainStatusActive,
		ExpiryDate: time.Now().UTC().AddDate(1, 0, 0),
	}
	require.NoError(t, store.SaveDomain(first))

	second := &domain.RegisteredDomain{
		Name:       "UNIQUE.com",
		Status:     domain.DomainStatusActive,
		ExpiryDate: time.Now().UTC().AddDate(1, 0, 0),
	}
	assert.ErrorIs(t, store.SaveDomain(second), storage.ErrDuplicateDomain)

	// 同一 ID 更新不应触发唯一性冲突
	first.Status = domain.DomainStatusSuspended
	require.NoError(t, store.SaveDomain(first))
}

func TestListExpiringDomains(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()

	save := func(name string, expiry time.Time) {
		require.NoError(t, store.SaveDomain(&domain.RegisteredDomain{
			Name:       name,
			Status:     domain.DomainStatusActive,
			ExpiryDate: expiry,
		}))
	}

	save("soon.com", now.AddDate(0, 0, 10))
	save("later.com", now.AddDate(0, 0, 90))
	save("expired.com", now.AddDate(0, 0, -5))

	expiring, err := store.ListExpiringDomains(30)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "soon.com", expiring[0].Name)
}

func TestHostingAccountByDomain(t *testing.T) {
	store := NewStore()

	account := &domain.HostingAccount{
		Domain:   "site.com",
		Username: "siteuser",
		Status:   domain.HostingStatusActive,
	}
	require.NoError(t, store.SaveAccount(account))

	got, err := store.GetAccountByDomain("SITE.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	deleted, err := store.DeleteAccount(account.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.DeleteAccount(account.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListPackagesActiveOnly(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.SavePackage(&domain.HostingPackage{Name: "basic", Active: true, DiskSpace: 1024, Bandwidth: 10240, Price: 5}))
	require.NoError(t, store.SavePackage(&domain.HostingPackage{Name: "legacy", Active: false, DiskSpace: 512, Bandwidth: 5120, Price: 3}))

	all, err := store.ListPackages(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := store.ListPackages(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "basic", active[0].Name)
}
