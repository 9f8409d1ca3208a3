package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/registrar"
	"hostpanel/backend/internal/storage/memory"
)

func newMonitoringFixture(t *testing.T, fake *registrar.Fake) (*DomainMonitoringService, *memory.Store) {
	t.Helper()
	log := zap.NewNop()
	store := memory.NewStore()
	domains := NewDomainManager(fake, store, nil, testPricing, log)
	return NewDomainMonitoringService(domains, store, log), store
}

func seedRegisteredDomain(t *testing.T, store *memory.Store, name string, expiry time.Time, autoRenew bool) {
	t.Helper()
	require.NoError(t, store.SaveDomain(&domain.RegisteredDomain{
		Name:       name,
		Status:     domain.DomainStatusActive,
		ExpiryDate: expiry,
		AutoRenew:  autoRenew,
	}))
}

func TestCheckExpiringDomains(t *testing.T) {
	s, store := newMonitoringFixture(t, registrar.NewFake())
	now := time.Now().UTC()

	seedRegisteredDomain(t, store, "soon.com", now.AddDate(0, 0, 10), true)
	seedRegisteredDomain(t, store, "later.com", now.AddDate(0, 0, 25), false)
	seedRegisteredDomain(t, store, "distant.com", now.AddDate(0, 0, 200), true)
	seedRegisteredDomain(t, store, "expired.com", now.AddDate(0, 0, -5), true)

	expiring, err := s.CheckExpiringDomains(30)
	require.NoError(t, err)
	require.Len(t, expiring, 2)

	byName := make(map[string]ExpiringDomain, len(expiring))
	for _, e := range expiring {
		byName[e.DomainName] = e
	}
	require.Contains(t, byName, "soon.com")
	require.Contains(t, byName, "later.com")
	assert.True(t, byName["soon.com"].AutoRenew)
	assert.InDelta(t, 9, byName["soon.com"].DaysUntilExpiry, 1)
	assert.False(t, byName["later.com"].AutoRenew)
}

func TestCheckExpiringDomains_DefaultThreshold(t *testing.T) {
	s, store := newMonitoringFixture(t, registrar.NewFake())
	now := time.Now().UTC()

	seedRegisteredDomain(t, store, "soon.com", now.AddDate(0, 0, 15), true)
	seedRegisteredDomain(t, store, "distant.com", now.AddDate(0, 0, 90), true)

	expiring, err := s.CheckExpiringDomains(0)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "soon.com", expiring[0].DomainName)
}

func TestMonitorDomain(t *testing.T) {
	fake := registrar.NewFake()
	fake.SeedDomain("example.com", registrar.DomainInfo{
		Status:            "active",
		ExpiryDate:        time.Now().UTC().AddDate(1, 0, 0),
		Nameservers:       []string{"ns1.example.net", "ns2.example.net"},
		Locked:            true,
		PrivacyProtection: true,
	})
	s, _ := newMonitoringFixture(t, fake)

	snapshot := s.MonitorDomain(context.Background(), "example.com")

	assert.Empty(t, snapshot.Error)
	assert.Equal(t, "example.com", snapshot.Domain)
	assert.Equal(t, domain.DomainStatusActive, snapshot.Status)
	assert.True(t, snapshot.Locked)
	assert.True(t, snapshot.PrivacyProtection)
	assert.Equal(t, []string{"ns1.example.net", "ns2.example.net"}, snapshot.Nameservers)
	assert.False(t, snapshot.CheckedAt.IsZero())
}

func TestMonitorDomain_ErrorRecordedInSnapshot(t *testing.T) {
	fake := registrar.NewFake()
	s, _ := newMonitoringFixture(t, fake)

	snapshot := s.MonitorDomain(context.Background(), "unknown.com")

	assert.NotEmpty(t, snapshot.Error)
	assert.Equal(t, "unknown.com", snapshot.Domain)
	assert.Empty(t, snapshot.Nameservers)
}
