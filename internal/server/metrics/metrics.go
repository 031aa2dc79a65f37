package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rps"

// Metrics 服务端监控指标
//
// 每个实例使用独立的 Registerer，测试中可以并存多个实例。
// nil *Metrics 的所有方法都是空操作。
type Metrics struct {
	connections    prometheus.Gauge
	lobbies        prometheus.Gauge
	activeGames    prometheus.Gauge
	eventsTotal    *prometheus.CounterVec
	droppedEvents  *prometheus.CounterVec
	roundsResolved *prometheus.CounterVec
	matchesTotal   *prometheus.CounterVec
	turnTimeouts   prometheus.Counter
}

// New 在 reg 上注册所有指标
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Number of open websocket connections",
		}),
		lobbies: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lobbies",
			Help:      "Number of lobbies in the registry",
		}),
		activeGames: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_games",
			Help:      "Number of lobbies with a match in progress",
		}),
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Inbound events handled, by type",
		}, []string{"type"}),
		droppedEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_events_total",
			Help:      "Inbound events discarded without state change, by type and reason",
		}, []string{"type", "reason"}),
		roundsResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_resolved_total",
			Help:      "Rounds resolved, by outcome",
		}, []string{"outcome"}),
		matchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Matches ended, by how they ended",
		}, []string{"end"}),
		turnTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turn_timeouts_total",
			Help:      "Turns auto-played after the turn timeout elapsed",
		}),
	}
}

// NewUnregistered 创建不注册到任何 Registry 的指标（测试或禁用监控时使用）
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) ConnectionOpened() {
	if m != nil {
		m.connections.Inc()
	}
}

func (m *Metrics) ConnectionClosed() {
	if m != nil {
		m.connections.Dec()
	}
}

// SetLobbies 更新房间数量
func (m *Metrics) SetLobbies(total, playing int) {
	if m == nil {
		return
	}
	m.lobbies.Set(float64(total))
	m.activeGames.Set(float64(playing))
}

func (m *Metrics) EventHandled(msgType string) {
	if m != nil {
		m.eventsTotal.WithLabelValues(msgType).Inc()
	}
}

func (m *Metrics) EventDropped(msgType, reason string) {
	if m != nil {
		m.droppedEvents.WithLabelValues(msgType, reason).Inc()
	}
}

func (m *Metrics) RoundResolved(outcome string) {
	if m != nil {
		m.roundsResolved.WithLabelValues(outcome).Inc()
	}
}

// MatchEnded end 取值 completed / disconnected
func (m *Metrics) MatchEnded(end string) {
	if m != nil {
		m.matchesTotal.WithLabelValues(end).Inc()
	}
}

func (m *Metrics) TurnTimedOut() {
	if m != nil {
		m.turnTimeouts.Inc()
	}
}
