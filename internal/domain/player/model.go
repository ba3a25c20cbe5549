package player

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const maxNameLength = 25

// HereFor captures why the player signed up.
type HereFor string

const (
	HereForInvesting  HereFor = "investing"
	HereForNetworking HereFor = "networking"
	HereForLearning   HereFor = "learning"
)

// AlertPreferences controls which summary emails a player receives.
type AlertPreferences struct {
	WeeklySummary     bool
	DailySummary      bool
	ContestRankChange bool
}

// DefaultAlertPreferences matches the signup defaults.
func DefaultAlertPreferences() AlertPreferences {
	return AlertPreferences{WeeklySummary: true}
}

// Player is a registered account on the platform.
type Player struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	ProfilePicture string
	Birthday       *time.Time
	Education      string
	Gender         string
	Location       string
	HereFor        HereFor
	Alerts         AlertPreferences
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	PlayerID string
	Username string
	Email    string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("invalid email %q", p.Email)
	}
	if strings.TrimSpace(p.FirstName) == "" {
		return fmt.Errorf("first name is required")
	}
	if len(p.FirstName) > maxNameLength {
		return fmt.Errorf("first name exceeds %d characters", maxNameLength)
	}
	if strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("last name is required")
	}
	if len(p.LastName) > maxNameLength {
		return fmt.Errorf("last name exceeds %d characters", maxNameLength)
	}
	if p.Birthday != nil && !p.Birthday.Before(time.Now()) {
		return fmt.Errorf("birthday must be in the past")
	}
	if p.HereFor != "" {
		switch p.HereFor {
		case HereForInvesting, HereForNetworking, HereForLearning:
		default:
			return fmt.Errorf("invalid here_for value %q", p.HereFor)
		}
	}

	return nil
}
