package policy

import "github.com/composite9239/additional-user-restrictions/internal/matrix"

// Action is the policy decision for a membership change.
type Action string

const (
	ActionAllow Action = "allow"
	ActionDeny  Action = "deny"
)

// Reason names the rule that decided a verdict.
type Reason string

const (
	ReasonNotMembershipEvent  Reason = "not_membership_event"
	ReasonNotLeave            Reason = "not_leave"
	ReasonRoomNotRestricted   Reason = "room_not_restricted"
	ReasonNotSelfLeave        Reason = "not_self_leave"
	ReasonRemoteUser          Reason = "remote_user"
	ReasonRestrictedSelfLeave Reason = "restricted_self_leave"
)

// MembershipAction is a read-only view of a candidate event supplied by the host.
type MembershipAction struct {
	Type       string
	RoomID     string
	Membership string
	Sender     string
	// StateKey is the subject user. Nil for non-state events.
	StateKey *string
}

// Subject returns the state key, or "" when the event has none.
func (a MembershipAction) Subject() string {
	if a.StateKey == nil {
		return ""
	}
	return *a.StateKey
}

// StateTuple identifies one piece of room state.
type StateTuple struct {
	EventType string
	StateKey  string
}

// StateView is the host's snapshot of current room state.
type StateView map[StateTuple]matrix.ClientEvent

// Verdict is the deterministic policy result.
type Verdict struct {
	Action Action
	Reason Reason
	// Error is set on denials and is returned to the client verbatim.
	Error *matrix.Error
}

// Allowed reports whether the verdict permits the action.
func (v Verdict) Allowed() bool {
	return v.Action == ActionAllow
}
