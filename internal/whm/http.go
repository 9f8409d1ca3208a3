package whm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hostpanel/backend/internal/domain"
)

// defaultTimeout 单次 WHM API 调用超时上限
const defaultTimeout = 30 * time.Second

// HTTPClient WHM JSON API 客户端
//
// 认证使用 `Authorization: whm user:token` 头；所有响应按
// {metadata:{result,reason},data} 信封解析，result==1 视为成功，
// 其余情况返回携带服务商 reason 的 HostingError。
type HTTPClient struct {
	baseURL    string
	username   string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

// NewHTTPClient 创建 WHM 客户端
//
// host 形如 "whm.example.com"，实际请求地址为 https://host:2087/json-api。
// ratePerSecond <= 0 时不限流。
func NewHTTPClient(host, username, token string, ratePerSecond float64, log *zap.Logger) *HTTPClient {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	base := strings.TrimRight(host, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base + ":2087/json-api"
	}
	return &HTTPClient{
		baseURL:    base,
		username:   username,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    limiter,
		log:        log,
	}
}

var _ Client = (*HTTPClient)(nil)

// envelope WHM API 响应信封
type envelope struct {
	Metadata struct {
		Result int    `json:"result"`
		Reason string `json:"reason,omitempty"`
	} `json:"metadata"`
	Data json.RawMessage `json:"data,omitempty"`
}

// call 发起一次 WHM API 调用并校验 result 标志
func (c *HTTPClient) call(ctx context.Context, op, endpoint string, params url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, domain.NewHostingError(op, err)
	}

	params.Set("api.version", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/"+endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, domain.NewHostingError(op, err)
	}
	req.Header.Set("Authorization", "whm "+c.username+":"+c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("WHM API request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, domain.NewHostingError(op, fmt.Errorf("WHM API request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, domain.NewHostingError(op, fmt.Errorf("WHM API returned status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, domain.NewHostingError(op, fmt.Errorf("failed to decode WHM response: %w", err))
	}

	if env.Metadata.Result != 1 {
		reason := env.Metadata.Reason
		if reason == "" {
			reason = "unknown error"
		}
		return nil, domain.NewHostingReasonError(op, reason)
	}
	return env.Data, nil
}

func (c *HTTPClient) CreateAccount(ctx context.Context, req AccountRequest) (*AccountResult, error) {
	params := url.Values{}
	params.Set("domain", req.Domain)
	params.Set("user", req.Username)
	params.Set("password", req.Password)
	params.Set("plan", req.Plan)
	params.Set("contactemail", req.Email)

	data, err := c.call(ctx, "create_account", "createacct", params)
	if err != nil {
		return nil, err
	}

	var result struct {
		IP string `json:"ip"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, domain.NewHostingError("create_account", fmt.Errorf("failed to decode createacct data: %w", err))
		}
	}

	c.log.Info("created cPanel account",
		zap.String("username", req.Username),
		zap.String("domain", req.Domain),
	)
	return &AccountResult{
		Username:  req.Username,
		Domain:    req.Domain,
		IPAddress: result.IP,
	}, nil
}

func (c *HTTPClient) SuspendAccount(ctx context.Context, username, reason string) error {
	if reason == "" {
		reason = "Administrative"
	}
	params := url.Values{}
	params.Set("user", username)
	params.Set("reason", reason)

	if _, err := c.call(ctx, "suspend_account", "suspendacct", params); err != nil {
		return err
	}
	c.log.Info("suspended cPanel account", zap.String("username", username))
	return nil
}

func (c *HTTPClient) UnsuspendAccount(ctx context.Context, username string) error {
	params := url.Values{}
	params.Set("user", username)

	if _, err := c.call(ctx, "unsuspend_account", "unsuspendacct", params); err != nil {
		return err
	}
	c.log.Info("unsuspended cPanel account", zap.String("username", username))
	return nil
}

func (c *HTTPClient) ChangePlan(ctx context.Context, username, newPlan string) error {
	params := url.Values{}
	params.Set("user", username)
	params.Set("pkg", newPlan)

	if _, err := c.call(ctx, "change_plan", "changepackage", params); err != nil {
		return err
	}
	c.log.Info("changed cPanel plan",
		zap.String("username", username),
		zap.String("plan", newPlan),
	)
	return nil
}

func (c *HTTPClient) GetAccountUsage(ctx context.Context, username string) (*Usage, error) {
	params := url.Values{}
	params.Set("user", username)

	data, err := c.call(ctx, "get_usage", "get_disk_usage", params)
	if err != nil {
		return nil, err
	}

	// 带宽用量需要单独的 API，此处固定为 0
	var raw struct {
		TotalBytes int64 `json:"totalbytes"`
		SoftLimit  int64 `json:"softlimit"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, domain.NewHostingError("get_usage", fmt.Errorf("failed to decode disk usage: %w", err))
		}
	}
	return &Usage{
		DiskUsage: raw.TotalBytes,
		DiskLimit: raw.SoftLimit,
	}, nil
}

func (c *HTTPClient) CreateEmailAccount(ctx context.Context, domainName, email, password string, quota int) error {
	if quota <= 0 {
		quota = 250
	}
	params := url.Values{}
	params.Set("domain", domainName)
	params.Set("email", email)
	params.Set("password", password)
	params.Set("quota", strconv.Itoa(quota))

	if _, err := c.call(ctx, "create_email", "create_email_account", params); err != nil {
		return err
	}
	c.log.Info("created email account", zap.String("email", email))
	return nil
}

func (c *HTTPClient) CreateDatabase(ctx context.Context, username, dbName, dbUser, dbPassword string) error {
	// 三步：建库、建用户、授权，任一步失败即返回
	dbParams := url.Values{}
	dbParams.Set("name", dbName)
	if _, err := c.call(ctx, "create_database", "create_database", dbParams); err != nil {
		return err
	}

	userParams := url.Values{}
	userParams.Set("name", dbUser)
	userParams.Set("password", dbPassword)
	if _, err := c.call(ctx, "create_database", "create_database_user", userParams); err != nil {
		return err
	}

	privParams := url.Values{}
	privParams.Set("user", dbUser)
	privParams.Set("database", dbName)
	privParams.Set("privileges", "ALL PRIVILEGES")
	if _, err := c.call(ctx, "create_database", "set_database_privileges", privParams); err != nil {
		return err
	}

	c.log.Info("created database",
		zap.String("database", dbName),
		zap.String("owner", username),
	)
	return nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, username, newPassword string) error {
	params := url.Values{}
	params.Set("user", username)
	params.Set("password", newPassword)

	if _, err := c.call(ctx, "change_password", "passwd", params); err != nil {
		return err
	}
	c.log.Info("changed cPanel password", zap.String("username", username))
	return nil
}

func (c *HTTPClient) DeleteAccount(ctx context.Context, username string) error {
	params := url.Values{}
	params.Set("user", username)

	if _, err := c.call(ctx, "delete_account", "removeacct", params); err != nil {
		return err
	}
	c.log.Info("deleted cPanel account", zap.String("username", username))
	return nil
}
