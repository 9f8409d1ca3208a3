package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDomainName(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		expected bool
	}{
		{"Valid domain", "example.com", true},
		{"Valid subdomain", "mail.example.com", true},
		{"Valid with hyphen", "my-site.example.com", true},
		{"Valid with digits", "shop123.com", true},
		{"Invalid - empty", "", false},
		{"Invalid - no dot", "example", false},
		{"Invalid - leading hyphen", "-example.com", false},
		{"Invalid - trailing hyphen", "example-.com", false},
		{"Invalid - consecutive dots", "example..com", false},
		{"Invalid - underscore", "my_site.com", false},
		{"Invalid - label too long", strings.Repeat("a", 64) + ".com", false},
		{"Invalid - total too long", strings.Repeat("abcdefghij.", 25) + "com", false},
		{"Valid - label at limit", strings.Repeat("a", 63) + ".com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateDomainName(tt.domain))
		})
	}
}

func TestValidateDNSName(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"Plain name", "www.example.com", true},
		{"Wildcard", "*.example.com", true},
		{"Trailing dot", "example.com.", true},
		{"Wildcard with trailing dot", "*.example.com.", true},
		{"Single label", "localhost", true},
		{"Empty", "", false},
		{"Double wildcard", "*.*.example.com", false},
		{"Leading hyphen", "-bad.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateDNSName(tt.value))
		})
	}
}

func TestValidateIPv4(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"Valid", "192.168.1.1", true},
		{"Valid zeros", "0.0.0.0", true},
		{"Valid max", "255.255.255.255", true},
		{"Invalid - octet overflow", "256.1.1.1", false},
		{"Invalid - too few octets", "192.168.1", false},
		{"Invalid - letters", "a.b.c.d", false},
		{"Invalid - IPv6", "::1", false},
		{"Invalid - empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateIPv4(tt.value))
		})
	}
}

func TestValidateIPv6(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"Full form", "2001:0db8:85a3:0000:0000:8a2e:0370:7334", true},
		{"Compressed", "2001:db8::8a2e:370:7334", true},
		{"Loopback", "::1", true},
		{"All zeros", "::", true},
		{"Invalid - IPv4", "192.168.1.1", false},
		{"Invalid - too many groups", "1:2:3:4:5:6:7:8:9", false},
		{"Invalid - empty", "", false},
		{"Invalid - garbage", "not-an-ip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateIPv6(tt.value))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected bool
	}{
		{"Valid", "user@example.com", true},
		{"Valid with plus", "user+tag@example.com", true},
		{"Valid subdomain", "user@mail.example.com", true},
		{"Invalid - no at", "userexample.com", false},
		{"Invalid - no TLD", "user@example", false},
		{"Invalid - empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateEmail(tt.email))
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		expected bool
	}{
		{"Valid international", "+1 555 123 4567", true},
		{"Valid with dashes", "+98-21-1234-5678", true},
		{"Valid compact", "+442071234567", true},
		{"Invalid - no plus", "5551234567", false},
		{"Invalid - empty", "", false},
		{"Invalid - letters", "+1 555 CALL", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidatePhone(tt.phone))
		})
	}
}

func TestValidateTLD(t *testing.T) {
	assert.True(t, ValidateTLD("com"))
	assert.True(t, ValidateTLD(".com"))
	assert.True(t, ValidateTLD("IO"))
	assert.False(t, ValidateTLD("xyz"))
	assert.False(t, ValidateTLD(""))
}

func TestValidateHostingUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		expected bool
	}{
		{"Valid", "webuser", true},
		{"Valid with underscore", "web_user1", true},
		{"Invalid - too short", "ab", false},
		{"Invalid - starts with digit", "1user", false},
		{"Invalid - dash", "web-user", false},
		{"Invalid - empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateHostingUsername(tt.username))
		})
	}
}

func TestValidateDNSRecord(t *testing.T) {
	priority := func(p int) *int { return &p }

	tests := []struct {
		name    string
		record  DNSRecord
		wantErr bool
	}{
		{"Valid A record", DNSRecord{Type: DNSRecordTypeA, Name: "www.example.com", Value: "1.2.3.4", TTL: 3600}, false},
		{"Valid AAAA record", DNSRecord{Type: DNSRecordTypeAAAA, Name: "www.example.com", Value: "2001:db8::1", TTL: 3600}, false},
		{"Valid MX record", DNSRecord{Type: DNSRecordTypeMX, Name: "example.com", Value: "mail.example.com", TTL: 3600, Priority: priority(10)}, false},
		{"Valid TXT record", DNSRecord{Type: DNSRecordTypeTXT, Name: "example.com", Value: "v=spf1 -all", TTL: 3600}, false},
		{"Valid wildcard CNAME", DNSRecord{Type: DNSRecordTypeCNAME, Name: "*.example.com", Value: "example.com.", TTL: 300}, false},
		{"Missing name", DNSRecord{Type: DNSRecordTypeA, Value: "1.2.3.4", TTL: 3600}, true},
		{"Missing value", DNSRecord{Type: DNSRecordTypeA, Name: "www.example.com", TTL: 3600}, true},
		{"TTL too low", DNSRecord{Type: DNSRecordTypeA, Name: "www.example.com", Value: "1.2.3.4", TTL: 30}, true},
		{"TTL too high", DNSRecord{Type: DNSRecordTypeA, Name: "www.example.com", Value: "1.2.3.4", TTL: 90000}, true},
		{"MX without priority", DNSRecord{Type: DNSRecordTypeMX, Name: "example.com", Value: "mail.example.com", TTL: 3600}, true},
		{"MX priority overflow", DNSRecord{Type: DNSRecordTypeMX, Name: "example.com", Value: "mail.example.com", TTL: 3600, Priority: priority(70000)}, true},
		{"A with bad address", DNSRecord{Type: DNSRecordTypeA, Name: "www.example.com", Value: "999.1.1.1", TTL: 3600}, true},
		{"TXT too long", DNSRecord{Type: DNSRecordTypeTXT, Name: "example.com", Value: strings.Repeat("x", 256), TTL: 3600}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDNSRecord(&tt.record)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
