package websocket

import (
	"hostpanel/backend/internal/monitoring"
)

// AlertReceiver 将告警转发到监控事件流
//
// 实现 monitoring.AlertReceiver，作为告警管理器的接收器之一注册。
type AlertReceiver struct {
	hub *Hub
}

// NewAlertReceiver 创建事件流告警接收器
func NewAlertReceiver(hub *Hub) *AlertReceiver {
	return &AlertReceiver{hub: hub}
}

// SendAlert 将告警作为事件广播给所有连接的操作员
func (r *AlertReceiver) SendAlert(alert *monitoring.Alert) error {
	r.hub.Publish(EventTypeAlert, alert)
	return nil
}
