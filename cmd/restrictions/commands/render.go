package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/composite9239/additional-user-restrictions/internal/policy"
)

var (
	allowColor = lipgloss.Color("#2E8B57") // SeaGreen
	denyColor  = lipgloss.Color("#C0392B")

	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(22)
	reasonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

func badge(allowed bool) string {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if allowed {
		return style.Foreground(lipgloss.Color("#FAFAFA")).Background(allowColor).Render("ALLOW")
	}
	return style.Foreground(lipgloss.Color("#FAFAFA")).Background(denyColor).Render("DENY")
}

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func renderVerdict(action policy.MembershipAction, verdict policy.Verdict) string {
	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top,
			badge(verdict.Allowed()), " ", reasonStyle.Render(string(verdict.Reason))),
		field("room_id", action.RoomID),
		field("sender", action.Sender),
		field("state_key", action.Subject()),
		field("membership", action.Membership),
	}
	if verdict.Error != nil {
		lines = append(lines,
			field("errcode", verdict.Error.Code),
			field("error", verdict.Error.Message),
		)
	}
	return strings.Join(lines, "\n")
}

func renderDeactivation(userID string, byAdmin, allowed bool) string {
	return strings.Join([]string{
		badge(allowed),
		field("user_id", userID),
		field("requested_by_admin", fmt.Sprintf("%t", byAdmin)),
	}, "\n")
}
