package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
)

type Prometheus struct {
	transitions *prometheus.CounterVec
	expired     *prometheus.CounterVec
	warnings    prometheus.Counter
}

func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "saudapakka",
			Subsystem: "mandate",
			Name:      "transitions_total",
			Help:      "Mandate transitions by event and outcome.",
		}, []string{"event", "outcome"}),
		expired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "saudapakka",
			Subsystem: "mandate",
			Name:      "sweep_expired_total",
			Help:      "Mandates expired by the sweep, by prior status.",
		}, []string{"from"}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "saudapakka",
			Subsystem: "mandate",
			Name:      "sweep_warnings_total",
			Help:      "Near-expiry warnings sent by the sweep.",
		}),
	}
	reg.MustRegister(p.transitions, p.expired, p.warnings)
	return p
}

func (p *Prometheus) Transition(event string, err error) {
	p.transitions.WithLabelValues(event, outcome(err)).Inc()
}

func (p *Prometheus) Sweep(res domain.SweepResult) {
	p.expired.WithLabelValues("pending").Add(float64(res.PendingExpired))
	p.expired.WithLabelValues("active").Add(float64(res.ActiveExpired))
	p.warnings.Add(float64(res.Warnings))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "refused"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
