package monitoring

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingReceiver struct {
	mu     sync.Mutex
	alerts []*Alert
}

func (r *recordingReceiver) SendAlert(alert *Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
	return nil
}

func (r *recordingReceiver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

func TestTriggerAlert_DeduplicatesActive(t *testing.T) {
	am := NewAlertManager(zap.NewNop())
	receiver := &recordingReceiver{}
	am.AddReceiver(receiver)

	alert := NewDomainExpiryAlert("example.com", 10, true)
	am.TriggerAlert(alert)
	am.TriggerAlert(NewDomainExpiryAlert("example.com", 9, true))

	assert.Equal(t, 1, receiver.count())
	assert.Len(t, am.GetActiveAlerts(), 1)
}

func TestTriggerAlert_RefiresAfterResolve(t *testing.T) {
	am := NewAlertManager(zap.NewNop())
	receiver := &recordingReceiver{}
	am.AddReceiver(receiver)

	alert := NewDomainExpiryAlert("example.com", 10, false)
	am.TriggerAlert(alert)
	am.ResolveAlert(alert.ID)

	assert.Empty(t, am.GetActiveAlerts())

	am.TriggerAlert(NewDomainExpiryAlert("example.com", 5, false))
	assert.Equal(t, 2, receiver.count())
	assert.Len(t, am.GetActiveAlerts(), 1)
}

func TestNewDomainExpiryAlert_Level(t *testing.T) {
	assert.Equal(t, AlertLevelWarning, NewDomainExpiryAlert("a.com", 20, true).Level)
	assert.Equal(t, AlertLevelCritical, NewDomainExpiryAlert("b.com", 3, true).Level)
}

func TestCheckRules_TriggersAndHonorsCooldown(t *testing.T) {
	am := NewAlertManager(zap.NewNop())
	receiver := &recordingReceiver{}
	am.AddReceiver(receiver)

	am.AddRule(AlertRule{
		ID:        "always",
		Name:      "Always Fires",
		Condition: func() bool { return true },
		Level:     AlertLevelWarning,
		Component: "test",
		Message:   "condition met",
		Cooldown:  time.Hour,
	})

	am.CheckRules()
	am.CheckRules()

	// 冷却期内不重复触发
	require.Equal(t, 1, receiver.count())
	assert.Equal(t, "Always Fires", receiver.alerts[0].Title)
}
