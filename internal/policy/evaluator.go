package policy

import (
	"github.com/composite9239/additional-user-restrictions/internal/config"
	"github.com/composite9239/additional-user-restrictions/internal/matrix"
)

// Evaluator performs pure policy decisions.
type Evaluator struct {
	cfg *config.Config
}

// NewEvaluator builds a deterministic, side-effect free evaluator.
func NewEvaluator(cfg *config.Config) Evaluator {
	return Evaluator{cfg: cfg}
}

// EvaluateMembershipChange blocks local users from leaving restricted rooms on
// their own. Kicks and remote users are always allowed. state is accepted for
// the host's calling convention and not consulted.
func (e Evaluator) EvaluateMembershipChange(action MembershipAction, _ StateView) Verdict {
	if action.Type != matrix.EventTypeRoomMember {
		return allow(ReasonNotMembershipEvent)
	}
	if action.Membership != matrix.MembershipLeave {
		return allow(ReasonNotLeave)
	}
	if !e.cfg.IsRestricted(action.RoomID) {
		return allow(ReasonRoomNotRestricted)
	}
	if action.Sender != action.Subject() {
		return allow(ReasonNotSelfLeave)
	}
	if !matrix.IsLocalUser(action.Sender, e.cfg.LocalDomain()) {
		return allow(ReasonRemoteUser)
	}

	return Verdict{
		Action: ActionDeny,
		Reason: ReasonRestrictedSelfLeave,
		Error: &matrix.Error{
			Code:    matrix.ErrCodeForbidden,
			Message: e.cfg.LeaveErrorMessage(),
		},
	}
}

// EvaluateDeactivation allows a deactivation only when an admin requests it.
func (e Evaluator) EvaluateDeactivation(_ string, byAdmin bool) bool {
	return byAdmin
}

func allow(reason Reason) Verdict {
	return Verdict{Action: ActionAllow, Reason: reason}
}
