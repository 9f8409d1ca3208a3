package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hostpanel/backend/internal/auth"
	jwtpkg "hostpanel/backend/internal/auth/jwt"
	"hostpanel/backend/internal/config"
	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/health"
	"hostpanel/backend/internal/registrar"
	"hostpanel/backend/internal/service"
	"hostpanel/backend/internal/storage/memory"
)

type apiFixture struct {
	router    *gin.Engine
	store     *memory.Store
	registrar *registrar.Fake
	token     string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	reg := registrar.NewFake()
	log := zap.NewNop()

	pricing := service.TLDPriceTable{
		"com": {Registration: 10.99, Renewal: 11.99, Transfer: 9.99, Currency: "USD"},
		"net": {Registration: 12.99, Renewal: 13.99, Transfer: 11.99, Currency: "USD"},
	}

	domains := service.NewDomainManager(reg, store, nil, pricing, log)
	contacts := service.NewContactService(reg, log)
	privacy := service.NewPrivacyService(reg, log)

	authService := auth.NewService(store)
	jwtManager := jwtpkg.NewManager("router-test-secret", "hostpanel", 15*time.Minute, 24*time.Hour)

	operator, err := authService.CreateOperator(auth.CreateOperatorInput{
		Email:    "admin@example.com",
		Password: "Password123!",
		Username: "admin",
		Role:     domain.RoleSuper,
	})
	require.NoError(t, err)

	tokens, err := jwtManager.GenerateTokenPair(operator.ID, operator.Email, string(operator.Role))
	require.NoError(t, err)

	router := NewRouter(RouterDependencies{
		Config: &config.Config{
			CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
		},
		DomainManager:     domains,
		DNSManager:        service.NewDNSManager(reg, nil, nil, log),
		HostingManager:    service.NewHostingManager(nil, store, nil, log),
		ContactService:    contacts,
		PrivacyService:    privacy,
		BulkService:       service.NewBulkOperationsService(domains, contacts, log),
		MonitoringService: service.NewDomainMonitoringService(domains, store, log),
		ValidationService: service.NewDomainValidationService(),
		AuthService:       authService,
		JWTManager:        jwtManager,
		Store:             store,
		Metrics:           nil,
		HealthChecker:     health.NewHealthChecker(store, nil, log),
		Logger:            log,
	})

	return &apiFixture{
		router:    router,
		store:     store,
		registrar: reg,
		token:     tokens.AccessToken,
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func validAPIContact() domain.ContactInfo {
	return domain.ContactInfo{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "+49 30 1234567",
		Address:   "Main St 1",
		City:      "Berlin",
		Country:   "DE",
		ZipCode:   "10115",
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, CodeSuccess, resp.Code)
}

func TestAvailability_Public(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/v1/availability?name=example.com", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "example.com", data["domain"])
	assert.Equal(t, true, data["available"])
}

func TestAvailability_InvalidSyntax(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/v1/availability?name=-bad-.com", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/v1/auth/login", gin.H{
		"username": "admin@example.com",
		"password": "Password123!",
	}, false)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])

	operator := data["operator"].(map[string]interface{})
	assert.Equal(t, "admin@example.com", operator["email"])
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/v1/auth/login", gin.H{
		"username": "admin@example.com",
		"password": "wrong-password",
	}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDomain_RequiresAuth(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/v1/domains", gin.H{
		"name":    "example.com",
		"years":   1,
		"contact": validAPIContact(),
	}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDomain(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/v1/domains", gin.H{
		"name":    "example.com",
		"years":   2,
		"contact": validAPIContact(),
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	persisted, err := f.store.GetDomainByName("example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.DomainStatusActive, persisted.Status)
}

func TestGetDomainDetails_NotRegistered(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/v1/domains/unknown.com", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDNSRoundTrip(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/v1/domains", gin.H{
		"name":    "example.com",
		"years":   1,
		"contact": validAPIContact(),
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodPut, "/v1/domains/example.com/dns", gin.H{
		"records": []domain.DNSRecord{
			{Type: domain.DNSRecordTypeA, Name: "www.example.com", Value: "203.0.113.10", TTL: 3600},
		},
	}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/v1/domains/example.com/dns", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	records := data["records"].([]interface{})
	require.Len(t, records, 1)
}

func TestDNSUpdate_InvalidRecord(t *testing.T) {
	tests := []struct {
		name   string
		record domain.DNSRecord
	}{
		{
			name:   "invalid A record value",
			record: domain.DNSRecord{Type: domain.DNSRecordTypeA, Name: "www.example.com", Value: "not-an-ip", TTL: 3600},
		},
		{
			// 区域顶点必须写完整域名，不支持 @ 简写
			name:   "apex shorthand rejected",
			record: domain.DNSRecord{Type: domain.DNSRecordTypeA, Name: "@", Value: "203.0.113.10", TTL: 3600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)

			w := f.do(t, http.MethodPut, "/v1/domains/example.com/dns", gin.H{
				"records": []domain.DNSRecord{tt.record},
			}, true)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestHostingAccountLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	customer := &domain.Customer{Email: "c@example.com", FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, f.store.SaveCustomer(customer))
	pkg := &domain.HostingPackage{Name: "basic", DiskSpace: 2048, Bandwidth: 10240, Price: 9.99, Active: true}
	require.NoError(t, f.store.SavePackage(pkg))

	w := f.do(t, http.MethodPost, "/v1/hosting/accounts", gin.H{
		"domain":     "example.com",
		"packageId":  pkg.ID,
		"customerId": customer.ID,
		"username":   "example1",
		"password":   "password123",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	account := resp.Data.(map[string]interface{})
	accountID := account["id"].(string)

	w = f.do(t, http.MethodPost, fmt.Sprintf("/v1/hosting/accounts/%s/suspend", accountID), gin.H{
		"reason": "unpaid invoice",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	persisted, err := f.store.GetAccount(accountID)
	require.NoError(t, err)
	assert.Equal(t, domain.HostingStatusSuspended, persisted.Status)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/v1/hosting/accounts/%s", accountID), nil, true)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCustomerCRUD(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/v1/customers", gin.H{
		"email":     "jane@example.com",
		"firstName": "Jane",
		"lastName":  "Doe",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	customer := resp.Data.(map[string]interface{})
	id := customer["id"].(string)

	// duplicate email
	w = f.do(t, http.MethodPost, "/v1/customers", gin.H{
		"email":     "jane@example.com",
		"firstName": "Jane",
		"lastName":  "Doe",
	}, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPut, "/v1/customers/"+id, gin.H{"company": "Acme"}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodDelete, "/v1/customers/"+id, nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/v1/customers/"+id, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPackages_PublicList(t *testing.T) {
	f := newAPIFixture(t)

	pkg := &domain.HostingPackage{Name: "basic", DiskSpace: 2048, Bandwidth: 10240, Price: 9.99, Active: true}
	require.NoError(t, f.store.SavePackage(pkg))

	w := f.do(t, http.MethodGet, "/v1/packages?active=true", nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	packages := data["packages"].([]interface{})
	assert.Len(t, packages, 1)
}

func TestValidateDomainSyntax(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/v1/validation/domains", gin.H{"name": "no-dot"}, false)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, false, data["valid"])
}

func TestBulkLock(t *testing.T) {
	f := newAPIFixture(t)

	for _, name := range []string{"one.com", "two.com"} {
		w := f.do(t, http.MethodPost, "/v1/domains", gin.H{
			"name":    name,
			"years":   1,
			"contact": validAPIContact(),
		}, true)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := f.do(t, http.MethodPost, "/v1/bulk/lock", gin.H{
		"names":  []string{"one.com", "two.com", "missing.com"},
		"locked": true,
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Len(t, data["successful"], 2)
	assert.Len(t, data["failed"], 1)
}

func TestPricing_Public(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/v1/pricing?tlds=com", nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	pricing := data["pricing"].(map[string]interface{})
	com := pricing["com"].(map[string]interface{})
	assert.InDelta(t, 10.99, com["registration"], 0.001)
}
