package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hostpanel/backend/internal/domain"
)

// defaultTimeout 单次远程调用超时上限
const defaultTimeout = 30 * time.Second

// HTTPClient 注册商 HTTP API 客户端
//
// 所有请求带 30 秒超时与客户端限流，避免打爆注册商接口。
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

// NewHTTPClient 创建注册商 HTTP 客户端
//
// ratePerSecond <= 0 时不限流。
func NewHTTPClient(baseURL, apiKey string, ratePerSecond float64, log *zap.Logger) *HTTPClient {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    limiter,
		log:        log,
	}
}

var _ Client = (*HTTPClient)(nil)

// envelope 注册商 API 响应信封
type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// do 发送请求并解码响应数据到 out（可为 nil）
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("registrar request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("registrar request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode registrar response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return fmt.Errorf("registrar error: %s", msg)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode registrar data: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) CheckAvailability(ctx context.Context, name string) (bool, error) {
	var result struct {
		Available bool `json:"available"`
	}
	if err := c.do(ctx, http.MethodGet, "/domains/"+name+"/availability", nil, &result); err != nil {
		return false, err
	}
	return result.Available, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegistrationRequest) error {
	return c.do(ctx, http.MethodPost, "/domains", req, nil)
}

func (c *HTTPClient) Renew(ctx context.Context, name string, years int) error {
	body := map[string]interface{}{"domain": name, "years": years}
	return c.do(ctx, http.MethodPost, "/domains/"+name+"/renew", body, nil)
}

func (c *HTTPClient) Transfer(ctx context.Context, req TransferRequest) error {
	return c.do(ctx, http.MethodPost, "/transfers", req, nil)
}

func (c *HTTPClient) GetStatus(ctx context.Context, name string) (*Status, error) {
	var status Status
	if err := c.do(ctx, http.MethodGet, "/domains/"+name+"/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *HTTPClient) Lock(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/domains/"+name+"/lock", nil, nil)
}

func (c *HTTPClient) Unlock(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/domains/"+name+"/unlock", nil, nil)
}

func (c *HTTPClient) GetAuthCode(ctx context.Context, name string) (string, error) {
	var result struct {
		AuthCode string `json:"auth_code"`
	}
	if err := c.do(ctx, http.MethodGet, "/domains/"+name+"/auth-code", nil, &result); err != nil {
		return "", err
	}
	return result.AuthCode, nil
}

func (c *HTTPClient) GetDomainInfo(ctx context.Context, name string) (*DomainInfo, error) {
	var info DomainInfo
	if err := c.do(ctx, http.MethodGet, "/domains/"+name, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *HTTPClient) EnableWhoisPrivacy(ctx context.Context, name string) (bool, error) {
	var result struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodPost, "/domains/"+name+"/privacy/enable", nil, &result); err != nil {
		return false, err
	}
	return result.Success, nil
}

func (c *HTTPClient) DisableWhoisPrivacy(ctx context.Context, name string) (bool, error) {
	var result struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodPost, "/domains/"+name+"/privacy/disable", nil, &result); err != nil {
		return false, err
	}
	return result.Success, nil
}

func (c *HTTPClient) GetWhoisPrivacyStatus(ctx context.Context, name string) (*PrivacyStatus, error) {
	var status PrivacyStatus
	if err := c.do(ctx, http.MethodGet, "/domains/"+name+"/privacy", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *HTTPClient) GetContacts(ctx context.Context, name string, contactType domain.ContactType) (*domain.ContactInfo, error) {
	var contact domain.ContactInfo
	path := fmt.Sprintf("/domains/%s/contacts/%s", name, contactType)
	if err := c.do(ctx, http.MethodGet, path, nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (c *HTTPClient) UpdateContacts(ctx context.Context, name string, contactType domain.ContactType, contact domain.ContactInfo) error {
	path := fmt.Sprintf("/domains/%s/contacts/%s", name, contactType)
	return c.do(ctx, http.MethodPut, path, contact, nil)
}

func (c *HTTPClient) GetDNSRecords(ctx context.Context, name string) ([]domain.DNSRecord, error) {
	var result struct {
		Records []domain.DNSRecord `json:"records"`
	}
	if err := c.do(ctx, http.MethodGet, "/domains/"+name+"/dns", nil, &result); err != nil {
		return nil, err
	}
	return result.Records, nil
}

func (c *HTTPClient) AddDNSRecord(ctx context.Context, name string, record domain.DNSRecord) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/domains/"+name+"/dns", record, &result); err != nil {
		return "", err
	}
	return result.ID, nil
}

func (c *HTTPClient) DeleteDNSRecord(ctx context.Context, name, recordID string) error {
	return c.do(ctx, http.MethodDelete, "/domains/"+name+"/dns/"+recordID, nil, nil)
}
