package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_RecordMembership(t *testing.T) {
	registry := prometheus.NewRegistry()
	r := NewRecorder("test", registry)

	r.RecordMembership("deny", "restricted_self_leave")
	r.RecordMembership("deny", "restricted_self_leave")
	r.RecordMembership("allow", "not_leave")

	if got := testutil.ToFloat64(r.membershipDecisions.WithLabelValues("deny", "restricted_self_leave")); got != 2 {
		t.Fatalf("expected 2 denials, got %v", got)
	}
	if got := testutil.ToFloat64(r.membershipDecisions.WithLabelValues("allow", "not_leave")); got != 1 {
		t.Fatalf("expected 1 allow, got %v", got)
	}
	if n := testutil.CollectAndCount(r.membershipDecisions, "test_membership_decisions_total"); n != 2 {
		t.Fatalf("expected 2 label sets, got %d", n)
	}
}

func TestRecorder_RecordDeactivation(t *testing.T) {
	registry := prometheus.NewRegistry()
	r := NewRecorder("", registry)

	r.RecordDeactivation(true)
	r.RecordDeactivation(false)
	r.RecordDeactivation(false)

	if got := testutil.ToFloat64(r.deactivationDecisions.WithLabelValues("false")); got != 2 {
		t.Fatalf("expected 2 refusals, got %v", got)
	}
	if n := testutil.CollectAndCount(r.deactivationDecisions, "restrictions_deactivation_decisions_total"); n != 2 {
		t.Fatalf("expected 2 label sets, got %d", n)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.RecordMembership("allow", "not_leave")
	r.RecordDeactivation(true)
}

func TestNewRecorder_DuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewRecorder("dup", registry)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	NewRecorder("dup", registry)
}
