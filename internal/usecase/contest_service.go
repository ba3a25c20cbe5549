package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/contest"
	"github.com/shreddi/WallStreetRivals/internal/domain/notification"
	"github.com/shreddi/WallStreetRivals/internal/domain/player"
	"github.com/shreddi/WallStreetRivals/internal/domain/portfolio"
	"github.com/shreddi/WallStreetRivals/internal/domain/stock"
	idgen "github.com/shreddi/WallStreetRivals/internal/platform/id"
	"github.com/sourcegraph/conc/pool"
)

const leaderboardValuationWorkers = 8

// CreateContestInput is the incoming payload for contest creation.
type CreateContestInput struct {
	Name             string
	OwnerID          string
	Picture          string
	IsTournament     bool
	LeagueType       string
	CashInterestRate decimal.Decimal
	Duration         string
	StartDate        time.Time
	PlayerLimit      int
	NYSE             bool
	NASDAQ           bool
	Crypto           bool
	InvitedPlayerIDs []string
}

// RankEntry is one leaderboard row. Ranks start at 1 for the highest value.
type RankEntry struct {
	Rank        int
	PortfolioID string
	PlayerID    string
	Value       decimal.Decimal
}

type ContestService struct {
	contestRepo   contest.Repository
	portfolioRepo portfolio.Repository
	playerRepo    player.Repository
	prices        stock.PriceLookup
	idGen         idgen.Generator
	logger        *slog.Logger
	now           func() time.Time
}

func NewContestService(
	contestRepo contest.Repository,
	portfolioRepo portfolio.Repository,
	playerRepo player.Repository,
	prices stock.PriceLookup,
	idGen idgen.Generator,
	logger *slog.Logger,
) *ContestService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ContestService{
		contestRepo:   contestRepo,
		portfolioRepo: portfolioRepo,
		playerRepo:    playerRepo,
		prices:        prices,
		idGen:         idGen,
		logger:        logger,
		now:           time.Now,
	}
}

// CreateContest validates and persists a contest, then seeds one portfolio
// per invited player and an invite notification for everyone but the owner.
func (s *ContestService) CreateContest(ctx context.Context, input CreateContestInput) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.CreateContest")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.OwnerID = strings.TrimSpace(input.OwnerID)
	if nameLen := len([]rune(input.Name)); nameLen < 3 || nameLen > 50 {
		return contest.Contest{}, fmt.Errorf("%w: contest name must be between 3 and 50 characters", ErrInvalidInput)
	}

	now := s.now().UTC()
	if !input.StartDate.After(now) {
		return contest.Contest{}, fmt.Errorf("%w: start date must be in the future", ErrInvalidInput)
	}
	if input.StartDate.After(now.AddDate(1, 0, 0)) {
		return contest.Contest{}, fmt.Errorf("%w: start date cannot be more than one year away", ErrInvalidInput)
	}

	if _, taken, err := s.contestRepo.GetByName(ctx, input.Name); err != nil {
		return contest.Contest{}, fmt.Errorf("check contest name: %w", err)
	} else if taken {
		return contest.Contest{}, fmt.Errorf("%w: contest name %q is already taken", ErrInvalidInput, input.Name)
	}

	endDate, err := contest.EndDateFor(input.StartDate, contest.Duration(input.Duration))
	if err != nil {
		return contest.Contest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	invited, err := s.resolveInvitedPlayers(ctx, input)
	if err != nil {
		return contest.Contest{}, err
	}
	if input.PlayerLimit >= 1 && len(invited) > input.PlayerLimit {
		return contest.Contest{}, fmt.Errorf("%w: %d invited players exceed the limit of %d", ErrInvalidInput, len(invited), input.PlayerLimit)
	}

	contestID, err := s.idGen.NewID()
	if err != nil {
		return contest.Contest{}, fmt.Errorf("generate contest id: %w", err)
	}

	created := contest.Contest{
		ID:               contestID,
		Name:             input.Name,
		Picture:          strings.TrimSpace(input.Picture),
		IsTournament:     input.IsTournament,
		LeagueType:       contest.LeagueType(input.LeagueType),
		CashInterestRate: input.CashInterestRate,
		Duration:         contest.Duration(input.Duration),
		StartDate:        input.StartDate,
		EndDate:          endDate,
		PlayerLimit:      input.PlayerLimit,
		NYSE:             input.NYSE,
		NASDAQ:           input.NASDAQ,
		Crypto:           input.Crypto,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if input.OwnerID != "" {
		ownerID := input.OwnerID
		created.OwnerID = &ownerID
	}
	if err := created.Validate(); err != nil {
		return contest.Contest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	seats := make([]portfolio.Portfolio, 0, len(invited))
	invites := make([]notification.Notification, 0, len(invited))
	for _, playerID := range invited {
		portfolioID, err := s.idGen.NewID()
		if err != nil {
			return contest.Contest{}, fmt.Errorf("generate portfolio id: %w", err)
		}
		seats = append(seats, portfolio.Portfolio{
			ID:        portfolioID,
			PlayerID:  playerID,
			ContestID: created.ID,
			Cash:      portfolio.DefaultStartingCash,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})

		if playerID == input.OwnerID {
			continue
		}
		noteID, err := s.idGen.NewID()
		if err != nil {
			return contest.Contest{}, fmt.Errorf("generate notification id: %w", err)
		}
		contestRef := created.ID
		invites = append(invites, notification.Notification{
			ID:        noteID,
			PlayerID:  playerID,
			ContestID: &contestRef,
			Type:      notification.TypeContestInvite,
			Message:   fmt.Sprintf("You have been invited to %s", created.Name),
			CreatedAt: now,
		})
	}

	if err := s.contestRepo.CreateWithSeats(ctx, created, seats, invites); err != nil {
		return contest.Contest{}, fmt.Errorf("create contest: %w", err)
	}

	s.logger.InfoContext(ctx, "contest created",
		"contest_id", created.ID,
		"name", created.Name,
		"invited_count", len(invited),
	)

	return created, nil
}

func (s *ContestService) ListContests(ctx context.Context) ([]contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.ListContests")
	defer span.End()

	items, err := s.contestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}

	return items, nil
}

func (s *ContestService) GetContest(ctx context.Context, contestID string) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.GetContest")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return contest.Contest{}, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	item, exists, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get contest: %w", err)
	}
	if !exists {
		return contest.Contest{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}

	return item, nil
}

// ListOpenContests returns public contests that have not started and still
// have free seats.
func (s *ContestService) ListOpenContests(ctx context.Context) ([]contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.ListOpenContests")
	defer span.End()

	items, err := s.contestRepo.ListOpen(ctx, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("list open contests: %w", err)
	}

	open := make([]contest.Contest, 0, len(items))
	for _, c := range items {
		seats, err := s.portfolioRepo.CountByContest(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("count portfolios contest=%s: %w", c.ID, err)
		}
		if seats < c.PlayerLimit {
			open = append(open, c)
		}
	}

	return open, nil
}

// Leaderboard ranks every active portfolio in a contest by current value,
// highest first. Ties break by portfolio id so ordering is stable.
func (s *ContestService) Leaderboard(ctx context.Context, contestID string) ([]RankEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.Leaderboard")
	defer span.End()

	if _, err := s.GetContest(ctx, contestID); err != nil {
		return nil, err
	}

	portfolios, err := s.portfolioRepo.ListByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("list contest portfolios: %w", err)
	}

	active := make([]portfolio.Portfolio, 0, len(portfolios))
	for _, p := range portfolios {
		if p.Active {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return []RankEntry{}, nil
	}

	valuations := pool.NewWithResults[RankEntry]().
		WithContext(ctx).
		WithMaxGoroutines(leaderboardValuationWorkers)
	for _, p := range active {
		p := p
		valuations.Go(func(ctx context.Context) (RankEntry, error) {
			holdings, err := s.portfolioRepo.ListHoldings(ctx, p.ID)
			if err != nil {
				return RankEntry{}, fmt.Errorf("list holdings portfolio=%s: %w", p.ID, err)
			}
			value, err := valueOf(ctx, s.prices, p, holdings)
			if err != nil {
				return RankEntry{}, fmt.Errorf("value portfolio=%s: %w", p.ID, err)
			}
			return RankEntry{
				PortfolioID: p.ID,
				PlayerID:    p.PlayerID,
				Value:       value,
			}, nil
		})
	}

	entries, err := valuations.Wait()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		cmp := entries[i].Value.Cmp(entries[j].Value)
		if cmp != 0 {
			return cmp > 0
		}
		return entries[i].PortfolioID < entries[j].PortfolioID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}

// PortfolioRank resolves one portfolio's position in its contest. Inactive
// or unranked portfolios report -1.
func (s *ContestService) PortfolioRank(ctx context.Context, portfolioID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.PortfolioRank")
	defer span.End()

	portfolioID = strings.TrimSpace(portfolioID)
	if portfolioID == "" {
		return 0, fmt.Errorf("%w: portfolio id is required", ErrInvalidInput)
	}

	p, exists, err := s.portfolioRepo.GetByID(ctx, portfolioID)
	if err != nil {
		return 0, fmt.Errorf("get portfolio: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: portfolio=%s", ErrNotFound, portfolioID)
	}
	if !p.Active {
		return -1, nil
	}

	entries, err := s.Leaderboard(ctx, p.ContestID)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if entry.PortfolioID == portfolioID {
			return entry.Rank, nil
		}
	}

	return -1, nil
}

func (s *ContestService) resolveInvitedPlayers(ctx context.Context, input CreateContestInput) ([]string, error) {
	seen := make(map[string]struct{}, len(input.InvitedPlayerIDs)+1)
	invited := make([]string, 0, len(input.InvitedPlayerIDs)+1)

	appendPlayer := func(playerID string) error {
		playerID = strings.TrimSpace(playerID)
		if playerID == "" {
			return fmt.Errorf("%w: player id cannot be empty", ErrInvalidInput)
		}
		if _, ok := seen[playerID]; ok {
			return nil
		}
		if _, exists, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
			return fmt.Errorf("get player %s: %w", playerID, err)
		} else if !exists {
			return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
		}
		seen[playerID] = struct{}{}
		invited = append(invited, playerID)
		return nil
	}

	if input.OwnerID != "" {
		if err := appendPlayer(input.OwnerID); err != nil {
			return nil, err
		}
	}
	for _, playerID := range input.InvitedPlayerIDs {
		if err := appendPlayer(playerID); err != nil {
			return nil, err
		}
	}

	return invited, nil
}
