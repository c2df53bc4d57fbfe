package policy

import (
	"fmt"

	"github.com/composite9239/additional-user-restrictions/internal/matrix"
)

// DecisionFault reports an action descriptor the evaluator cannot decide on.
// It is never converted into an allow or deny.
type DecisionFault struct {
	Msg string
	Err error
}

func (e *DecisionFault) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("policy decision fault: %s: %v", e.Msg, e.Err)
	}
	return "policy decision fault: " + e.Msg
}

func (e *DecisionFault) Unwrap() error { return e.Err }

// ActionFromEvent builds a MembershipAction from a client event, rejecting
// events that lack the fields the membership rules read.
func ActionFromEvent(ev matrix.ClientEvent) (MembershipAction, error) {
	switch {
	case ev.Type == "":
		return MembershipAction{}, &DecisionFault{Msg: "event has no type"}
	case ev.RoomID == "":
		return MembershipAction{}, &DecisionFault{Msg: "event has no room_id"}
	case ev.Sender == "":
		return MembershipAction{}, &DecisionFault{Msg: "event has no sender"}
	case ev.Type == matrix.EventTypeRoomMember && ev.StateKey == nil:
		return MembershipAction{}, &DecisionFault{Msg: "m.room.member event has no state_key"}
	}

	return MembershipAction{
		Type:       ev.Type,
		RoomID:     ev.RoomID,
		Membership: ev.Membership(),
		Sender:     ev.Sender,
		StateKey:   ev.StateKey,
	}, nil
}

// DecodeAction parses a client-format event and builds its MembershipAction.
func DecodeAction(data []byte) (MembershipAction, error) {
	ev, err := matrix.ParseClientEvent(data)
	if err != nil {
		return MembershipAction{}, &DecisionFault{Msg: "malformed event", Err: err}
	}
	return ActionFromEvent(ev)
}
