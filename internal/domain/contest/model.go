package contest

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Duration is the contest length selected at creation.
type Duration string

const (
	DurationDay   Duration = "day"
	DurationWeek  Duration = "week"
	DurationMonth Duration = "month"
)

// LeagueType controls contest visibility.
type LeagueType string

const (
	LeagueTypePublic  LeagueType = "public"
	LeagueTypePrivate LeagueType = "private"
	LeagueTypeSelf    LeagueType = "self"
)

// State is derived from the clock, never stored.
type State string

const (
	StateUpcoming  State = "upcoming"
	StateActive    State = "active"
	StateCompleted State = "completed"
)

// Contest is a timed competition between player portfolios.
type Contest struct {
	ID               string
	Name             string
	OwnerID          *string
	Picture          string
	IsTournament     bool
	LeagueType       LeagueType
	CashInterestRate decimal.Decimal
	Duration         Duration
	StartDate        time.Time
	EndDate          time.Time
	PlayerLimit      int
	NYSE             bool
	NASDAQ           bool
	Crypto           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EndDateFor derives the read-only end date from start date and duration.
func EndDateFor(start time.Time, d Duration) (time.Time, error) {
	switch d {
	case DurationDay:
		return start.AddDate(0, 0, 1), nil
	case DurationWeek:
		return start.AddDate(0, 0, 7), nil
	case DurationMonth:
		return start.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, fmt.Errorf("invalid contest duration %q", d)
	}
}

// StateAt derives the lifecycle state at the given instant.
func (c Contest) StateAt(now time.Time) State {
	if now.Before(c.StartDate) {
		return StateUpcoming
	}
	if now.Before(c.EndDate) {
		return StateActive
	}

	return StateCompleted
}

func (c Contest) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("contest id is required")
	}
	if nameLen := len([]rune(strings.TrimSpace(c.Name))); nameLen < 3 || nameLen > 50 {
		return fmt.Errorf("contest name must be between 3 and 50 characters")
	}
	switch c.Duration {
	case DurationDay, DurationWeek, DurationMonth:
	default:
		return fmt.Errorf("invalid contest duration %q", c.Duration)
	}
	switch c.LeagueType {
	case LeagueTypePublic, LeagueTypePrivate, LeagueTypeSelf:
	default:
		return fmt.Errorf("invalid contest league type %q", c.LeagueType)
	}
	if c.PlayerLimit < 1 {
		return fmt.Errorf("contest player limit must be at least 1")
	}
	if c.StartDate.IsZero() {
		return fmt.Errorf("contest start date is required")
	}
	if !c.EndDate.After(c.StartDate) {
		return fmt.Errorf("contest end date must be after start date")
	}
	if c.CashInterestRate.IsNegative() {
		return fmt.Errorf("contest cash interest rate cannot be negative")
	}
	if !c.NYSE && !c.NASDAQ && !c.Crypto {
		return fmt.Errorf("contest must allow at least one market")
	}

	return nil
}
