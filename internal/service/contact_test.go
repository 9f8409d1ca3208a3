package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/registrar"
)

func validContact() domain.ContactInfo {
	return domain.ContactInfo{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "+49 30 1234567",
		Country:   "DE",
	}
}

func TestContactService_UpdateAndGet(t *testing.T) {
	fake := registrar.NewFake()
	s := NewContactService(fake, zap.NewNop())
	ctx := context.Background()

	contact := validContact()
	require.NoError(t, s.UpdateContactInfo(ctx, "example.com", domain.ContactTypeRegistrant, contact))

	got, err := s.GetContactInfo(ctx, "example.com", domain.ContactTypeRegistrant)
	require.NoError(t, err)
	assert.Equal(t, contact, *got)
}

func TestContactService_UpdateValidation(t *testing.T) {
	s := NewContactService(registrar.NewFake(), zap.NewNop())

	err := s.UpdateContactInfo(context.Background(), "example.com",
		domain.ContactTypeRegistrant, domain.ContactInfo{Email: "jane@example.com"})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestContactService_GetWrapsRemoteError(t *testing.T) {
	fake := registrar.NewFake()
	fake.ContactsErr["example.com"] = errors.New("registrar unavailable")
	s := NewContactService(fake, zap.NewNop())

	_, err := s.GetContactInfo(context.Background(), "example.com", domain.ContactTypeTech)
	require.Error(t, err)

	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
}

func TestValidateContactInfo_TLDRules(t *testing.T) {
	s := NewContactService(registrar.NewFake(), zap.NewNop())

	tests := []struct {
		name    string
		mutate  func(*domain.ContactInfo)
		tld     string
		valid   bool
		message string
	}{
		{"valid generic", func(c *domain.ContactInfo) {}, ".com", true, ""},
		{"eu contact in eu", func(c *domain.ContactInfo) { c.Country = "FR" }, ".eu", true, ""},
		{"eu contact outside eu", func(c *domain.ContactInfo) { c.Country = "US" }, ".eu", false, "EU domains require EU-based contact"},
		{"ca without presence", func(c *domain.ContactInfo) { c.Country = "DE" }, ".ca", false, ".ca domains require Canadian presence"},
		{"ca with presence", func(c *domain.ContactInfo) { c.Country = "CA" }, ".ca", true, ""},
		{"missing names", func(c *domain.ContactInfo) { c.FirstName = ""; c.LastName = "" }, ".com", false, "First and last name are required"},
		{"bad email", func(c *domain.ContactInfo) { c.Email = "not-an-email" }, ".com", false, "Invalid email format"},
		{"bad phone", func(c *domain.ContactInfo) { c.Phone = "12345" }, ".com", false, "Invalid phone number format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contact := validContact()
			tt.mutate(&contact)

			result := s.ValidateContactInfo(contact, tt.tld)
			assert.Equal(t, tt.valid, result.Valid)
			if tt.message != "" {
				assert.Contains(t, result.Errors, tt.message)
			}
		})
	}
}

func TestPrivacyService(t *testing.T) {
	fake := registrar.NewFake()
	fake.SeedDomain("example.com", registrar.DomainInfo{})
	s := NewPrivacyService(fake, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.EnablePrivacy(ctx, "example.com"))
	status, err := s.GetPrivacyStatus(ctx, "example.com")
	require.NoError(t, err)
	assert.True(t, status.Enabled)

	require.NoError(t, s.DisablePrivacy(ctx, "example.com"))
	status, err = s.GetPrivacyStatus(ctx, "example.com")
	require.NoError(t, err)
	assert.False(t, status.Enabled)
}

func TestPrivacyService_WrapsErrors(t *testing.T) {
	fake := registrar.NewFake()
	fake.PrivacyErr["example.com"] = errors.New("privacy provider down")
	s := NewPrivacyService(fake, zap.NewNop())

	err := s.EnablePrivacy(context.Background(), "example.com")
	require.Error(t, err)

	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
}
