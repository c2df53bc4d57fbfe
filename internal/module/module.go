// Package module adapts the restriction policy to a homeserver's module API.
//
// The host loads a Config, calls New with its registration API, and from then
// on invokes the registered callbacks for every candidate event and every
// deactivation request. Logging, metrics and auditing happen here so the
// policy package stays a pure decision function.
package module

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/composite9239/additional-user-restrictions/internal/audit"
	"github.com/composite9239/additional-user-restrictions/internal/config"
	"github.com/composite9239/additional-user-restrictions/internal/matrix"
	"github.com/composite9239/additional-user-restrictions/internal/metrics"
	"github.com/composite9239/additional-user-restrictions/internal/policy"
)

// CheckEventAllowedFunc decides whether a candidate event may be admitted.
// A false result carries the error returned to the client.
type CheckEventAllowedFunc func(ctx context.Context, action policy.MembershipAction, state policy.StateView) (bool, *matrix.Error, error)

// CheckCanDeactivateUserFunc decides whether an account may be deactivated.
type CheckCanDeactivateUserFunc func(ctx context.Context, userID string, byAdmin bool) (bool, error)

// ThirdPartyRulesCallbacks is the set of callbacks handed to the host.
type ThirdPartyRulesCallbacks struct {
	CheckEventAllowed      CheckEventAllowedFunc
	CheckCanDeactivateUser CheckCanDeactivateUserFunc
}

// Registrar is the host's registration API.
type Registrar interface {
	RegisterThirdPartyRulesCallbacks(callbacks ThirdPartyRulesCallbacks)
}

// Decider is the capability the module needs from the policy layer.
type Decider interface {
	EvaluateMembershipChange(action policy.MembershipAction, state policy.StateView) policy.Verdict
	EvaluateDeactivation(userID string, byAdmin bool) bool
}

// Options configures the diagnostic side channel. Zero values disable
// metrics and auditing and log to slog.Default().
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Recorder
	Audit   *audit.Writer
	// Decider overrides the evaluator built from the config.
	Decider Decider
	Now     func() time.Time
}

// Module is a loaded restriction module.
type Module struct {
	decider Decider
	logger  *slog.Logger
	metrics *metrics.Recorder
	audit   *audit.Writer
	now     func() time.Time
}

// New builds the module and registers its callbacks with api. api may be nil
// when the caller invokes the callbacks directly.
func New(cfg *config.Config, api Registrar, opts Options) (*Module, error) {
	if cfg == nil {
		return nil, fmt.Errorf("restriction module: config is required")
	}

	m := &Module{
		decider: opts.Decider,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		audit:   opts.Audit,
		now:     opts.Now,
	}
	if m.decider == nil {
		m.decider = policy.NewEvaluator(cfg)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}

	m.logger.Info("restriction module initialized",
		"restricted_rooms", cfg.RestrictedRooms(),
		"local_domain", cfg.LocalDomain(),
	)

	if api != nil {
		api.RegisterThirdPartyRulesCallbacks(m.Callbacks())
		m.logger.Debug("third-party rules callbacks registered")
	}
	return m, nil
}

// Callbacks returns the module's callbacks in the host's calling convention.
func (m *Module) Callbacks() ThirdPartyRulesCallbacks {
	return ThirdPartyRulesCallbacks{
		CheckEventAllowed:      m.CheckEventAllowed,
		CheckCanDeactivateUser: m.CheckCanDeactivateUser,
	}
}

// CheckEventAllowed blocks local users from leaving restricted rooms.
func (m *Module) CheckEventAllowed(ctx context.Context, action policy.MembershipAction, state policy.StateView) (bool, *matrix.Error, error) {
	verdict, err := m.Decide(ctx, action, state)
	if err != nil {
		return false, nil, err
	}
	return verdict.Allowed(), verdict.Error, nil
}

// CheckEventJSON decodes a client-format event and decides on it. Malformed
// events are returned as a *policy.DecisionFault.
func (m *Module) CheckEventJSON(ctx context.Context, data []byte, state policy.StateView) (policy.Verdict, error) {
	action, err := policy.DecodeAction(data)
	if err != nil {
		m.logger.Error("cannot decide on malformed event", "error", err)
		return policy.Verdict{}, err
	}
	return m.Decide(ctx, action, state)
}

// Decide evaluates one membership action and records the outcome.
func (m *Module) Decide(ctx context.Context, action policy.MembershipAction, state policy.StateView) (policy.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return policy.Verdict{}, err
	}

	verdict := m.decider.EvaluateMembershipChange(action, state)
	m.metrics.RecordMembership(string(verdict.Action), string(verdict.Reason))

	if verdict.Allowed() {
		m.logger.Debug("membership change allowed",
			"reason", verdict.Reason,
			"type", action.Type,
			"room_id", action.RoomID,
			"sender", action.Sender,
			"state_key", action.Subject(),
			"membership", action.Membership,
		)
		return verdict, nil
	}

	m.logger.Info("blocked leave attempt in restricted room",
		"reason", verdict.Reason,
		"room_id", action.RoomID,
		"sender", action.Sender,
	)
	m.appendAudit(audit.Event{
		Type:   audit.TypeLeaveDenied,
		RoomID: action.RoomID,
		UserID: action.Sender,
		Result: string(verdict.Action),
		Reason: string(verdict.Reason),
	})
	return verdict, nil
}

// CheckCanDeactivateUser lets only administrators deactivate accounts.
func (m *Module) CheckCanDeactivateUser(ctx context.Context, userID string, byAdmin bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	allowed := m.decider.EvaluateDeactivation(userID, byAdmin)
	m.metrics.RecordDeactivation(allowed)

	result := string(policy.ActionAllow)
	if !allowed {
		result = string(policy.ActionDeny)
		m.logger.Info("blocked self-deactivation", "user_id", userID)
	} else {
		m.logger.Debug("deactivation allowed", "user_id", userID, "by_admin", byAdmin)
	}
	m.appendAudit(audit.Event{
		Type:   audit.TypeDeactivation,
		UserID: userID,
		Result: result,
		Reason: fmt.Sprintf("by_admin=%t", byAdmin),
	})
	return allowed, nil
}

func (m *Module) appendAudit(event audit.Event) {
	if m.audit == nil {
		return
	}
	event.Time = m.now().UTC()
	if err := m.audit.Append(event); err != nil {
		m.logger.Warn("failed to append audit event", "type", event.Type, "user_id", event.UserID, "error", err)
	}
}
