package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shreddi/WallStreetRivals/internal/domain/player"
	qb "github.com/shreddi/WallStreetRivals/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.IsNull("deleted_at")).
		OrderBy("username").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.getByColumn(ctx, "public_id", playerID)
}

func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (player.Player, bool, error) {
	return r.getByColumn(ctx, "username", username)
}

func (r *PlayerRepository) GetByEmail(ctx context.Context, email string) (player.Player, bool, error) {
	return r.getByColumn(ctx, "email", email)
}

func (r *PlayerRepository) getByColumn(ctx context.Context, column, value string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq(column, value),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by %s query: %w", column, err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by %s: %w", column, err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	query, args, err := qb.InsertModel("players", playerToInsertModel(p), "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, p player.Player) error {
	const query = `
UPDATE players
SET username = :username,
    email = :email,
    password_hash = :password_hash,
    first_name = :first_name,
    last_name = :last_name,
    profile_picture = :profile_picture,
    birthday = :birthday,
    education = :education,
    gender = :gender,
    location = :location,
    here_for = :here_for,
    alert_weekly_summary = :alert_weekly_summary,
    alert_daily_summary = :alert_daily_summary,
    alert_rank_change = :alert_rank_change,
    updated_at = NOW()
WHERE public_id = :public_id
  AND deleted_at IS NULL`

	model := playerToInsertModel(p)
	boundSQL, boundArgs, err := sqlx.Named(query, model)
	if err != nil {
		return fmt.Errorf("bind update player query: %w", err)
	}
	boundSQL = r.db.Rebind(boundSQL)

	result, err := r.db.ExecContext(ctx, boundSQL, boundArgs...)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update player rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update player: no row matched public_id=%s", p.ID)
	}

	return nil
}
