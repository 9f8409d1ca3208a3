package whm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewHTTPClient(server.URL, "root", "test-token", 0, zap.NewNop())
	return client, server
}

func whmResponse(result int, reason string, data interface{}) map[string]interface{} {
	resp := map[string]interface{}{
		"metadata": map[string]interface{}{"result": result, "reason": reason},
	}
	if data != nil {
		resp["data"] = data
	}
	return resp
}

func TestHTTPClient_CreateAccount(t *testing.T) {
	var gotAuth string
	var gotForm map[string]string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotAuth = r.Header.Get("Authorization")
		gotForm = map[string]string{
			"domain": r.PostFormValue("domain"),
			"user":   r.PostFormValue("user"),
			"plan":   r.PostFormValue("plan"),
		}
		assert.Equal(t, "/createacct", r.URL.Path)
		json.NewEncoder(w).Encode(whmResponse(1, "", map[string]interface{}{"ip": "10.0.0.5"}))
	})

	result, err := client.CreateAccount(context.Background(), AccountRequest{
		Domain:   "example.com",
		Username: "example1",
		Password: "secret",
		Plan:     "basic",
		Email:    "admin@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "whm root:test-token", gotAuth)
	assert.Equal(t, "example.com", gotForm["domain"])
	assert.Equal(t, "example1", gotForm["user"])
	assert.Equal(t, "basic", gotForm["plan"])
	assert.Equal(t, "10.0.0.5", result.IPAddress)
	assert.Equal(t, "example1", result.Username)
}

func TestHTTPClient_CreateAccount_ProviderFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(whmResponse(0, "account already exists", nil))
	})

	_, err := client.CreateAccount(context.Background(), AccountRequest{
		Domain:   "example.com",
		Username: "example1",
		Password: "secret",
		Plan:     "basic",
		Email:    "admin@example.com",
	})
	require.Error(t, err)

	var hostingErr *domain.HostingError
	require.True(t, errors.As(err, &hostingErr))
	assert.Equal(t, "account already exists", hostingErr.Reason)
}

func TestHTTPClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewHTTPClient(server.URL, "root", "test-token", 0, zap.NewNop())
	server.Close()

	err := client.SuspendAccount(context.Background(), "example1", "abuse")
	require.Error(t, err)

	var hostingErr *domain.HostingError
	assert.True(t, errors.As(err, &hostingErr))
}

func TestHTTPClient_SuspendAccount_DefaultReason(t *testing.T) {
	var gotReason string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotReason = r.PostFormValue("reason")
		assert.Equal(t, "/suspendacct", r.URL.Path)
		json.NewEncoder(w).Encode(whmResponse(1, "", nil))
	})

	require.NoError(t, client.SuspendAccount(context.Background(), "example1", ""))
	assert.Equal(t, "Administrative", gotReason)
}

func TestHTTPClient_GetAccountUsage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_disk_usage", r.URL.Path)
		json.NewEncoder(w).Encode(whmResponse(1, "", map[string]interface{}{
			"totalbytes": 1024,
			"softlimit":  2048,
		}))
	})

	usage, err := client.GetAccountUsage(context.Background(), "example1")
	require.NoError(t, err)

	assert.Equal(t, int64(1024), usage.DiskUsage)
	assert.Equal(t, int64(2048), usage.DiskLimit)
	assert.Equal(t, int64(0), usage.BandwidthUsage)
}

func TestHTTPClient_CreateDatabase_ThreeSteps(t *testing.T) {
	var endpoints []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		endpoints = append(endpoints, r.URL.Path)
		json.NewEncoder(w).Encode(whmResponse(1, "", nil))
	})

	err := client.CreateDatabase(context.Background(), "example1", "shop_db", "shop_user", "secret")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/create_database",
		"/create_database_user",
		"/set_database_privileges",
	}, endpoints)
}

func TestHTTPClient_CreateDatabase_StopsOnFailure(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path == "/create_database_user" {
			json.NewEncoder(w).Encode(whmResponse(0, "user quota exceeded", nil))
			return
		}
		json.NewEncoder(w).Encode(whmResponse(1, "", nil))
	})

	err := client.CreateDatabase(context.Background(), "example1", "shop_db", "shop_user", "secret")
	require.Error(t, err)

	var hostingErr *domain.HostingError
	require.True(t, errors.As(err, &hostingErr))
	assert.Equal(t, "user quota exceeded", hostingErr.Reason)
	assert.Equal(t, 2, calls)
}

func TestFake_AccountLifecycle(t *testing.T) {
	fake := NewFake()
	ctx := context.Background()

	result, err := fake.CreateAccount(ctx, AccountRequest{
		Domain: "example.com", Username: "example1", Password: "pw", Plan: "basic",
	})
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.100", result.IPAddress)
	assert.Equal(t, 1, fake.CreateCalls)

	require.NoError(t, fake.SuspendAccount(ctx, "example1", "non-payment"))
	assert.True(t, fake.Accounts["example1"].Suspended)
	assert.Equal(t, "non-payment", fake.Accounts["example1"].Reason)

	require.NoError(t, fake.UnsuspendAccount(ctx, "example1"))
	assert.False(t, fake.Accounts["example1"].Suspended)
	assert.Empty(t, fake.Accounts["example1"].Reason)

	require.NoError(t, fake.ChangePlan(ctx, "example1", "pro"))
	assert.Equal(t, "pro", fake.Accounts["example1"].Plan)

	require.NoError(t, fake.DeleteAccount(ctx, "example1"))
	assert.NotContains(t, fake.Accounts, "example1")

	err = fake.SuspendAccount(ctx, "example1", "gone")
	require.Error(t, err)
}
