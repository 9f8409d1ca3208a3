package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDomainSyntax(t *testing.T) {
	s := NewDomainValidationService()

	tests := []struct {
		name    string
		input   string
		valid   bool
		message string
	}{
		{"valid", "example.com", true, ""},
		{"valid with subdomain", "shop.example.com", true, ""},
		{"too short", "a.b", false, "Domain name too short (minimum 4 characters)"},
		{"too long", strings.Repeat("a", 250) + ".com", false, "Domain name too long (maximum 253 characters)"},
		{"invalid characters", "exam ple.com", false, "Domain name contains invalid characters"},
		{"underscore", "my_site.com", false, "Domain name contains invalid characters"},
		{"leading hyphen", "-example.com", false, "Domain name cannot start or end with hyphen"},
		{"trailing hyphen", "example.com-", false, "Domain name cannot start or end with hyphen"},
		{"consecutive dots", "example..com", false, "Domain name cannot contain consecutive dots"},
		{"no dot", "example", false, "Domain name must have at least one dot"},
		{"label too long", strings.Repeat("a", 64) + ".com", false, "Domain name part too long (maximum 63 characters)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.ValidateDomainSyntax(tt.input)
			assert.Equal(t, tt.valid, result.Valid)
			if tt.message != "" {
				assert.Contains(t, result.Errors, tt.message)
			}
		})
	}
}

func TestValidateDomainSyntax_ShortNameWarning(t *testing.T) {
	s := NewDomainValidationService()

	result := s.ValidateDomainSyntax("ab.io")
	assert.True(t, result.Valid)
	assert.Contains(t, result.Warnings, "Short domain names may be premium-priced")

	result = s.ValidateDomainSyntax("longname.com")
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func TestValidateDomainSyntax_CollectsAllErrors(t *testing.T) {
	s := NewDomainValidationService()

	result := s.ValidateDomainSyntax("-a..b_")
	assert.False(t, result.Valid)
	assert.GreaterOrEqual(t, len(result.Errors), 3)
}

func TestValidateTLDAllowList(t *testing.T) {
	s := NewDomainValidationService()

	assert.True(t, s.ValidateTLD(".com"))
	assert.True(t, s.ValidateTLD("org"))
	assert.False(t, s.ValidateTLD(".invalid"))
	assert.False(t, s.ValidateTLD(""))
}
