package notification

import (
	"fmt"
	"time"
)

// Type distinguishes notification templates on the client.
type Type string

const (
	TypeContestInvite  Type = "contest_invite"
	TypeContestStarted Type = "contest_started"
	TypeRankChange     Type = "rank_change"
)

func (t Type) Valid() bool {
	switch t {
	case TypeContestInvite, TypeContestStarted, TypeRankChange:
		return true
	default:
		return false
	}
}

// Notification is an in-app message delivered to one player.
type Notification struct {
	ID        string
	PlayerID  string
	ContestID *string
	Type      Type
	Message   string
	Read      bool
	CreatedAt time.Time
}

func (n Notification) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("notification id is required")
	}
	if n.PlayerID == "" {
		return fmt.Errorf("notification player id is required")
	}
	switch n.Type {
	case TypeContestInvite, TypeContestStarted, TypeRankChange:
	default:
		return fmt.Errorf("invalid notification type %q", n.Type)
	}

	return nil
}
