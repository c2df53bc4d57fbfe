package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "restrictions"

// Recorder counts policy decisions.
//
// Metrics:
//   - <ns>_membership_decisions_total: membership verdicts by action and reason
//   - <ns>_deactivation_decisions_total: deactivation verdicts by outcome
//
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	membershipDecisions   *prometheus.CounterVec
	deactivationDecisions *prometheus.CounterVec
}

// NewRecorder creates the decision counters and registers them with reg.
func NewRecorder(namespace string, reg prometheus.Registerer) *Recorder {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	r := &Recorder{
		membershipDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "membership_decisions_total",
				Help:      "Total number of membership change decisions",
			},
			[]string{"action", "reason"},
		),
		deactivationDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deactivation_decisions_total",
				Help:      "Total number of account deactivation decisions",
			},
			[]string{"allowed"},
		),
	}

	reg.MustRegister(r.membershipDecisions, r.deactivationDecisions)
	return r
}

// RecordMembership counts one membership verdict.
func (r *Recorder) RecordMembership(action, reason string) {
	if r == nil {
		return
	}
	r.membershipDecisions.WithLabelValues(action, reason).Inc()
}

// RecordDeactivation counts one deactivation verdict.
func (r *Recorder) RecordDeactivation(allowed bool) {
	if r == nil {
		return
	}
	r.deactivationDecisions.WithLabelValues(strconv.FormatBool(allowed)).Inc()
}
