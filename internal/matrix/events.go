package matrix

import (
	"encoding/json"
	"fmt"
)

// EventTypeRoomMember is the state event type carrying room membership.
const EventTypeRoomMember = "m.room.member"

// Membership states of an m.room.member event.
const (
	MembershipJoin   = "join"
	MembershipLeave  = "leave"
	MembershipInvite = "invite"
	MembershipBan    = "ban"
	MembershipKnock  = "knock"
)

// ClientEvent is the subset of a client-format event the module inspects.
type ClientEvent struct {
	Type     string         `json:"type"`
	RoomID   string         `json:"room_id"`
	Sender   string         `json:"sender"`
	StateKey *string        `json:"state_key,omitempty"`
	Content  map[string]any `json:"content"`
}

// Membership returns content.membership, or "" when it is absent or not a string.
func (e ClientEvent) Membership() string {
	membership, _ := e.Content["membership"].(string)
	return membership
}

// ParseClientEvent decodes one client-format event.
func ParseClientEvent(data []byte) (ClientEvent, error) {
	var ev ClientEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ClientEvent{}, fmt.Errorf("decode client event: %w", err)
	}
	return ev, nil
}
