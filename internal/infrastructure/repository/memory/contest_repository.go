package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shreddi/WallStreetRivals/internal/domain/contest"
	"github.com/shreddi/WallStreetRivals/internal/domain/notification"
	"github.com/shreddi/WallStreetRivals/internal/domain/portfolio"
)

type ContestRepository struct {
	mu    sync.RWMutex
	items map[string]contest.Contest

	// Seat stores receive the portfolios and notifications written by
	// CreateWithSeats, standing in for the cross-table transaction.
	portfolios    *PortfolioRepository
	notifications *NotificationRepository
}

func NewContestRepository(seed ...contest.Contest) *ContestRepository {
	items := make(map[string]contest.Contest, len(seed))
	for _, c := range seed {
		items[c.ID] = cloneContest(c)
	}
	return &ContestRepository{items: items}
}

// BindSeatStores wires the portfolio and notification stores that
// CreateWithSeats writes into.
func (r *ContestRepository) BindSeatStores(portfolios *PortfolioRepository, notifications *NotificationRepository) *ContestRepository {
	r.portfolios = portfolios
	r.notifications = notifications
	return r
}

func (r *ContestRepository) List(_ context.Context) ([]contest.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contest.Contest, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, cloneContest(c))
	}
	sortContests(out)

	return out, nil
}

func (r *ContestRepository) GetByID(_ context.Context, contestID string) (contest.Contest, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[contestID]
	if !ok {
		return contest.Contest{}, false, nil
	}

	return cloneContest(c), true, nil
}

func (r *ContestRepository) ListOpen(_ context.Context, now time.Time) ([]contest.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contest.Contest, 0, len(r.items))
	for _, c := range r.items {
		if c.LeagueType != contest.LeagueTypePublic {
			continue
		}
		if !c.StartDate.After(now) {
			continue
		}
		out = append(out, cloneContest(c))
	}
	sortContests(out)

	return out, nil
}

func (r *ContestRepository) GetByName(_ context.Context, name string) (contest.Contest, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items {
		if strings.EqualFold(c.Name, name) {
			return cloneContest(c), true, nil
		}
	}

	return contest.Contest{}, false, nil
}

// CreateWithSeats checks every row before writing any, so a conflict leaves
// all three stores untouched. Lock order is contest, portfolio, notification.
func (r *ContestRepository) CreateWithSeats(_ context.Context, c contest.Contest, seats []portfolio.Portfolio, invites []notification.Notification) error {
	if r.portfolios == nil || r.notifications == nil {
		return fmt.Errorf("contest repository has no seat stores bound")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.portfolios.mu.Lock()
	defer r.portfolios.mu.Unlock()
	r.notifications.mu.Lock()
	defer r.notifications.mu.Unlock()

	if _, ok := r.items[c.ID]; ok {
		return fmt.Errorf("contest %s already exists", c.ID)
	}
	for _, existing := range r.items {
		if strings.EqualFold(existing.Name, c.Name) {
			return fmt.Errorf("contest name %q already taken", c.Name)
		}
	}
	for _, seat := range seats {
		if _, ok := r.portfolios.portfolios[seat.ID]; ok {
			return fmt.Errorf("portfolio %s already exists", seat.ID)
		}
		for _, existing := range r.portfolios.portfolios {
			if existing.PlayerID == seat.PlayerID && existing.ContestID == seat.ContestID {
				return fmt.Errorf("player %s already seated in contest %s", seat.PlayerID, seat.ContestID)
			}
		}
	}
	for _, invite := range invites {
		if _, ok := r.notifications.items[invite.ID]; ok {
			return fmt.Errorf("notification %s already exists", invite.ID)
		}
	}

	r.items[c.ID] = cloneContest(c)
	for _, seat := range seats {
		r.portfolios.portfolios[seat.ID] = seat
	}
	for _, invite := range invites {
		r.notifications.items[invite.ID] = cloneNotification(invite)
	}

	return nil
}

func sortContests(items []contest.Contest) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].StartDate.Equal(items[j].StartDate) {
			return items[i].StartDate.Before(items[j].StartDate)
		}
		return items[i].ID < items[j].ID
	})
}

func cloneContest(c contest.Contest) contest.Contest {
	copied := c
	if c.OwnerID != nil {
		ownerID := *c.OwnerID
		copied.OwnerID = &ownerID
	}
	return copied
}
