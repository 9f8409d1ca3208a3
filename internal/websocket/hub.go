package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	jwtpkg "hostpanel/backend/internal/auth/jwt"
)

// EventType 定义监控事件类型
type EventType string

const (
	EventTypeAlert         EventType = "alert"
	EventTypeDomainExpiry  EventType = "domain_expiry"
	EventTypeHostingStatus EventType = "hosting_status"
	EventTypePing          EventType = "ping"
	EventTypePong          EventType = "pong"
)

// Event 推送给客户端的监控事件
type Event struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// upgraderFactory 创建带有 Origin 验证的 WebSocket 升级器
func upgraderFactory(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			for _, origin := range allowedOrigins {
				if origin == "*" {
					return true
				}
			}

			requestOrigin := r.Header.Get("Origin")
			if requestOrigin == "" {
				// 没有 Origin 视为同源请求
				return true
			}

			for _, origin := range allowedOrigins {
				if requestOrigin == origin {
					return true
				}
			}
			return false
		},
	}
}

// Client 代表一个已认证的操作员连接
type Client struct {
	ID         string
	OperatorID string
	Role       string

	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	log  *zap.Logger
}

// Hub 管理所有监控事件流连接
//
// 所有已认证的操作员连接都会收到全部监控事件；
// 事件由告警管理器和到期监控任务通过 Publish 推入。
type Hub struct {
	clients        map[string]*Client
	register       chan *Client
	unregister     chan *Client
	broadcast      chan []byte
	mu             sync.RWMutex
	log            *zap.Logger
	allowedOrigins []string
	jwtManager     *jwtpkg.Manager
}

// NewHub 创建监控事件流 Hub
func NewHub(allowedOrigins []string, jwtManager *jwtpkg.Manager, log *zap.Logger) *Hub {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return &Hub{
		clients:        make(map[string]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan []byte, 256),
		log:            log,
		allowedOrigins: allowedOrigins,
		jwtManager:     jwtManager,
	}
}

// Run 启动 Hub，ctx 取消时关闭所有连接
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("monitoring event hub stopped")
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.log.Info("event stream client connected",
				zap.String("client_id", client.ID),
				zap.String("operator_id", client.OperatorID),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				h.log.Info("event stream client disconnected", zap.String("client_id", client.ID))
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.broadcastToAll(data)

		case <-ticker.C:
			h.pingAllClients()
		}
	}
}

// Publish 向所有连接的操作员广播一条监控事件
//
// payload 会被序列化为 JSON；序列化失败时事件被丢弃并记录错误。
func (h *Hub) Publish(eventType EventType, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal event payload",
			zap.String("event_type", string(eventType)),
			zap.Error(err),
		)
		return
	}

	event := &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}

	encoded, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- encoded:
	default:
		// 广播队列满时丢弃事件，监控流允许丢失
		h.log.Warn("event broadcast queue full, dropping event",
			zap.String("event_type", string(eventType)),
		)
	}
}

// broadcastToAll 向所有客户端发送已编码的事件
func (h *Hub) broadcastToAll(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.log.Warn("client send channel blocked, skipping", zap.String("client_id", client.ID))
		}
	}
}

// pingAllClients 定期向所有客户端发送应用层 ping
func (h *Hub) pingAllClients() {
	event := &Event{Type: EventTypePing, Timestamp: time.Now()}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
		}
	}
}

// closeAllClients 关闭所有客户端连接
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[string]*Client)
}

// authenticateClient 认证连接请求
//
// 浏览器的 WebSocket API 无法自定义请求头，因此除 Authorization
// 头外也接受 token 查询参数。
func (h *Hub) authenticateClient(c *gin.Context) (*Client, error) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
	}

	if token == "" {
		return nil, errors.New("missing authentication token")
	}

	claims, err := h.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	return &Client{
		ID:         uuid.New().String(),
		OperatorID: claims.OperatorID,
		Role:       claims.Role,
		log:        h.log,
	}, nil
}

// HandleWebSocket 处理监控事件流连接
func HandleWebSocket(hub *Hub) gin.HandlerFunc {
	upgrader := upgraderFactory(hub.allowedOrigins)

	return func(c *gin.Context) {
		client, err := hub.authenticateClient(c)
		if err != nil {
			hub.log.Warn("websocket authentication failed",
				zap.Error(err),
				zap.String("remote_addr", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.log.Error("failed to upgrade connection",
				zap.Error(err),
				zap.String("origin", c.Request.Header.Get("Origin")),
				zap.String("remote_addr", c.ClientIP()),
			)
			return
		}

		client.conn = conn
		client.hub = hub
		client.send = make(chan []byte, 256)

		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// readPump 消费客户端消息并维护读超时
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var event Event
		if err := c.conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Error("websocket read error", zap.Error(err))
			}
			break
		}

		// 事件流是单向的，客户端只允许发送应用层 pong
		if event.Type == EventTypePong {
			c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		}
	}
}

// writePump 向客户端发送事件并维护协议层心跳
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.WriteMessage(websocket.TextMessage, data)

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
