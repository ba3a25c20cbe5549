package contest

import (
	"context"
	"time"

	"github.com/shreddi/WallStreetRivals/internal/domain/notification"
	"github.com/shreddi/WallStreetRivals/internal/domain/portfolio"
)

// Repository describes contest persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Contest, error)
	GetByID(ctx context.Context, contestID string) (Contest, bool, error)
	// GetByName matches contest names case-insensitively, backing the
	// global name uniqueness rule.
	GetByName(ctx context.Context, name string) (Contest, bool, error)
	// ListOpen returns public contests that have not started at the given
	// instant. Seat availability is filtered by the caller.
	ListOpen(ctx context.Context, now time.Time) ([]Contest, error)
	// CreateWithSeats persists the contest together with its seat
	// portfolios and invite notifications. Either every row lands or none
	// does.
	CreateWithSeats(ctx context.Context, c Contest, seats []portfolio.Portfolio, invites []notification.Notification) error
}
