package policy

import (
	"testing"

	"github.com/composite9239/additional-user-restrictions/internal/config"
	"github.com/composite9239/additional-user-restrictions/internal/matrix"
)

func newTestEvaluator(t *testing.T, raw map[string]any) Evaluator {
	t.Helper()
	if raw == nil {
		raw = map[string]any{
			"restricted_rooms": []any{"!r:x"},
			"local_domain":     "x",
		}
	}
	cfg, err := config.Parse(raw)
	if err != nil {
		t.Fatalf("config.Parse error: %v", err)
	}
	return NewEvaluator(cfg)
}

func stateKey(s string) *string { return &s }

func leave(room, sender, subject string) MembershipAction {
	return MembershipAction{
		Type:       matrix.EventTypeRoomMember,
		RoomID:     room,
		Membership: matrix.MembershipLeave,
		Sender:     sender,
		StateKey:   stateKey(subject),
	}
}

func TestEvaluateMembershipChange_DeniesLocalSelfLeave(t *testing.T) {
	ev := newTestEvaluator(t, nil)
	v := ev.EvaluateMembershipChange(leave("!r:x", "@u:x", "@u:x"), nil)

	if v.Action != ActionDeny {
		t.Fatalf("expected %q, got %q", ActionDeny, v.Action)
	}
	if v.Reason != ReasonRestrictedSelfLeave {
		t.Fatalf("expected reason %q, got %q", ReasonRestrictedSelfLeave, v.Reason)
	}
	if v.Error == nil || v.Error.Code != matrix.ErrCodeForbidden {
		t.Fatalf("expected M_FORBIDDEN payload, got %+v", v.Error)
	}
	if v.Error.Message != config.DefaultLeaveErrorMessage {
		t.Fatalf("expected default message, got %q", v.Error.Message)
	}
}

func TestEvaluateMembershipChange_UsesConfiguredMessage(t *testing.T) {
	ev := newTestEvaluator(t, map[string]any{
		"restricted_rooms":    []any{"!r:x"},
		"local_domain":        "x",
		"leave_error_message": "This room is mandatory.",
	})
	v := ev.EvaluateMembershipChange(leave("!r:x", "@u:x", "@u:x"), nil)

	if v.Error == nil || v.Error.Message != "This room is mandatory." {
		t.Fatalf("expected configured message verbatim, got %+v", v.Error)
	}
}

func TestEvaluateMembershipChange_Allows(t *testing.T) {
	ev := newTestEvaluator(t, nil)

	cases := []struct {
		name   string
		action MembershipAction
		reason Reason
	}{
		{
			name:   "kick by admin",
			action: leave("!r:x", "@admin:x", "@u:x"),
			reason: ReasonNotSelfLeave,
		},
		{
			name:   "remote user self-leave",
			action: leave("!r:x", "@u:y", "@u:y"),
			reason: ReasonRemoteUser,
		},
		{
			name:   "room not restricted",
			action: leave("!other:x", "@u:x", "@u:x"),
			reason: ReasonRoomNotRestricted,
		},
		{
			name: "join",
			action: MembershipAction{
				Type:       matrix.EventTypeRoomMember,
				RoomID:     "!r:x",
				Membership: matrix.MembershipJoin,
				Sender:     "@u:x",
				StateKey:   stateKey("@u:x"),
			},
			reason: ReasonNotLeave,
		},
		{
			name: "ban",
			action: MembershipAction{
				Type:       matrix.EventTypeRoomMember,
				RoomID:     "!r:x",
				Membership: matrix.MembershipBan,
				Sender:     "@admin:x",
				StateKey:   stateKey("@u:x"),
			},
			reason: ReasonNotLeave,
		},
		{
			name: "message event",
			action: MembershipAction{
				Type:   "m.room.message",
				RoomID: "!r:x",
				Sender: "@u:x",
			},
			reason: ReasonNotMembershipEvent,
		},
		{
			name:   "domain suffix without separator",
			action: leave("!r:x", "@u:xx", "@u:xx"),
			reason: ReasonRemoteUser,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := ev.EvaluateMembershipChange(tc.action, nil)
			if v.Action != ActionAllow {
				t.Fatalf("expected %q, got %q", ActionAllow, v.Action)
			}
			if !v.Allowed() {
				t.Fatal("expected Allowed() to be true")
			}
			if v.Reason != tc.reason {
				t.Fatalf("expected reason %q, got %q", tc.reason, v.Reason)
			}
			if v.Error != nil {
				t.Fatalf("expected no error payload, got %+v", v.Error)
			}
		})
	}
}

func TestEvaluateMembershipChange_IgnoresStateView(t *testing.T) {
	ev := newTestEvaluator(t, nil)
	state := StateView{
		{EventType: matrix.EventTypeRoomMember, StateKey: "@u:x"}: {
			Type:    matrix.EventTypeRoomMember,
			Content: map[string]any{"membership": matrix.MembershipJoin},
		},
	}

	withState := ev.EvaluateMembershipChange(leave("!r:x", "@u:x", "@u:x"), state)
	withoutState := ev.EvaluateMembershipChange(leave("!r:x", "@u:x", "@u:x"), nil)
	if withState.Action != withoutState.Action || withState.Reason != withoutState.Reason {
		t.Fatalf("expected identical verdicts, got %+v and %+v", withState, withoutState)
	}
}

func TestEvaluateMembershipChange_Idempotent(t *testing.T) {
	ev := newTestEvaluator(t, nil)
	action := leave("!r:x", "@u:x", "@u:x")

	first := ev.EvaluateMembershipChange(action, nil)
	second := ev.EvaluateMembershipChange(action, nil)
	if first.Action != second.Action || first.Reason != second.Reason || *first.Error != *second.Error {
		t.Fatalf("expected identical verdicts, got %+v and %+v", first, second)
	}
}

func TestEvaluateDeactivation(t *testing.T) {
	ev := newTestEvaluator(t, nil)

	if !ev.EvaluateDeactivation("@u:x", true) {
		t.Fatal("expected admin deactivation to be allowed")
	}
	if ev.EvaluateDeactivation("@u:x", false) {
		t.Fatal("expected self deactivation to be denied")
	}
	if ev.EvaluateDeactivation("@u:y", false) {
		t.Fatal("expected remote self deactivation to be denied")
	}
}
