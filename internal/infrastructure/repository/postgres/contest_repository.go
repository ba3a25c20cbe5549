package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shreddi/WallStreetRivals/internal/domain/contest"
	"github.com/shreddi/WallStreetRivals/internal/domain/notification"
	"github.com/shreddi/WallStreetRivals/internal/domain/portfolio"
	qb "github.com/shreddi/WallStreetRivals/internal/platform/querybuilder"
)

type ContestRepository struct {
	db *sqlx.DB
}

func NewContestRepository(db *sqlx.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

func (r *ContestRepository) List(ctx context.Context) ([]contest.Contest, error) {
	query, args, err := qb.Select("*").From("contests").
		Where(qb.IsNull("deleted_at")).
		OrderBy("start_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select contests query: %w", err)
	}

	var rows []contestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select contests: %w", err)
	}

	out := make([]contest.Contest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *ContestRepository) GetByID(ctx context.Context, contestID string) (contest.Contest, bool, error) {
	query, args, err := qb.Select("*").From("contests").
		Where(
			qb.Eq("public_id", contestID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return contest.Contest{}, false, fmt.Errorf("build get contest by id query: %w", err)
	}

	var row contestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contest.Contest{}, false, nil
		}
		return contest.Contest{}, false, fmt.Errorf("get contest by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ContestRepository) ListOpen(ctx context.Context, now time.Time) ([]contest.Contest, error) {
	const query = `
SELECT *
FROM contests
WHERE league_type = $1
  AND start_date > $2
  AND deleted_at IS NULL
ORDER BY start_date, id`

	var rows []contestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, string(contest.LeagueTypePublic), now); err != nil {
		return nil, fmt.Errorf("select open contests: %w", err)
	}

	out := make([]contest.Contest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *ContestRepository) GetByName(ctx context.Context, name string) (contest.Contest, bool, error) {
	const query = `
SELECT *
FROM contests
WHERE LOWER(name) = LOWER($1)
  AND deleted_at IS NULL`

	var row contestTableModel
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		if isNotFound(err) {
			return contest.Contest{}, false, nil
		}
		return contest.Contest{}, false, fmt.Errorf("get contest by name: %w", err)
	}

	return row.toDomain(), true, nil
}

// CreateWithSeats inserts the contest, its seat portfolios and the invite
// notifications in one transaction.
func (r *ContestRepository) CreateWithSeats(ctx context.Context, c contest.Contest, seats []portfolio.Portfolio, invites []notification.Notification) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for create contest: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("contests", contestToInsertModel(c), "")
	if err != nil {
		return fmt.Errorf("build insert contest query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert contest: %w", err)
	}

	for _, seat := range seats {
		model := portfolioInsertModel{
			PublicID:        seat.ID,
			PlayerPublicID:  seat.PlayerID,
			ContestPublicID: seat.ContestID,
			Cash:            seat.Cash,
			Active:          seat.Active,
		}
		query, args, err := qb.InsertModel("portfolios", model, "")
		if err != nil {
			return fmt.Errorf("build insert portfolio query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert portfolio for player=%s: %w", seat.PlayerID, err)
		}
	}

	for _, invite := range invites {
		model := notificationInsertModel{
			PublicID:       invite.ID,
			PlayerPublicID: invite.PlayerID,
			Type:           string(invite.Type),
			Message:        invite.Message,
			Read:           invite.Read,
		}
		if invite.ContestID != nil {
			model.ContestPublicID = sql.NullString{String: *invite.ContestID, Valid: true}
		}
		query, args, err := qb.InsertModel("notifications", model, "")
		if err != nil {
			return fmt.Errorf("build insert notification query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert invite notification for player=%s: %w", invite.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create contest: %w", err)
	}

	return nil
}
