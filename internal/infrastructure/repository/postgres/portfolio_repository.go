package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/portfolio"
	qb "github.com/shreddi/WallStreetRivals/internal/platform/querybuilder"
)

type PortfolioRepository struct {
	db *sqlx.DB
}

func NewPortfolioRepository(db *sqlx.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) GetByID(ctx context.Context, portfolioID string) (portfolio.Portfolio, bool, error) {
	query, args, err := qb.Select("*").From("portfolios").
		Where(
			qb.Eq("public_id", portfolioID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return portfolio.Portfolio{}, false, fmt.Errorf("build get portfolio by id query: %w", err)
	}

	var row portfolioTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return portfolio.Portfolio{}, false, nil
		}
		return portfolio.Portfolio{}, false, fmt.Errorf("get portfolio by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PortfolioRepository) GetByPlayerAndContest(ctx context.Context, playerID, contestID string) (portfolio.Portfolio, bool, error) {
	query, args, err := qb.Select("*").From("portfolios").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("contest_public_id", contestID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return portfolio.Portfolio{}, false, fmt.Errorf("build get portfolio by player and contest query: %w", err)
	}

	var row portfolioTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return portfolio.Portfolio{}, false, nil
		}
		return portfolio.Portfolio{}, false, fmt.Errorf("get portfolio by player and contest: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PortfolioRepository) ListByPlayer(ctx context.Context, playerID string) ([]portfolio.Portfolio, error) {
	return r.list(ctx, "player_public_id", playerID)
}

func (r *PortfolioRepository) ListByContest(ctx context.Context, contestID string) ([]portfolio.Portfolio, error) {
	return r.list(ctx, "contest_public_id", contestID)
}

func (r *PortfolioRepository) list(ctx context.Context, column, value string) ([]portfolio.Portfolio, error) {
	query, args, err := qb.Select("*").From("portfolios").
		Where(
			qb.Eq(column, value),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select portfolios by %s query: %w", column, err)
	}

	var rows []portfolioTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select portfolios by %s: %w", column, err)
	}

	out := make([]portfolio.Portfolio, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PortfolioRepository) Create(ctx context.Context, p portfolio.Portfolio) error {
	model := portfolioInsertModel{
		PublicID:        p.ID,
		PlayerPublicID:  p.PlayerID,
		ContestPublicID: p.ContestID,
		Cash:            p.Cash,
		Active:          p.Active,
	}
	query, args, err := qb.InsertModel("portfolios", model, "")
	if err != nil {
		return fmt.Errorf("build insert portfolio query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert portfolio: %w", err)
	}

	return nil
}

func (r *PortfolioRepository) CountByContest(ctx context.Context, contestID string) (int, error) {
	const query = `
SELECT COUNT(*)
FROM portfolios
WHERE contest_public_id = $1
  AND deleted_at IS NULL`

	var count int
	if err := r.db.GetContext(ctx, &count, query, contestID); err != nil {
		return 0, fmt.Errorf("count portfolios: %w", err)
	}

	return count, nil
}

func (r *PortfolioRepository) ListHoldings(ctx context.Context, portfolioID string) ([]portfolio.Holding, error) {
	query, args, err := qb.Select("*").From("holdings").
		Where(
			qb.Eq("portfolio_public_id", portfolioID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("ticker").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select holdings query: %w", err)
	}

	var rows []holdingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select holdings: %w", err)
	}

	out := make([]portfolio.Holding, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PortfolioRepository) GetHolding(ctx context.Context, holdingID string) (portfolio.Holding, bool, error) {
	query, args, err := qb.Select("*").From("holdings").
		Where(
			qb.Eq("public_id", holdingID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return portfolio.Holding{}, false, fmt.Errorf("build get holding by id query: %w", err)
	}

	var row holdingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return portfolio.Holding{}, false, nil
		}
		return portfolio.Holding{}, false, fmt.Errorf("get holding by id: %w", err)
	}

	return row.toDomain(), true, nil
}

// Buy re-reads cash under a row lock so the funds check and the debit see the
// same balance even under concurrent orders on one portfolio.
func (r *PortfolioRepository) Buy(ctx context.Context, trade portfolio.BuyTrade) (portfolio.TradeResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return portfolio.TradeResult{}, fmt.Errorf("begin tx for buy: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const lockQuery = `
SELECT cash
FROM portfolios
WHERE public_id = $1
  AND deleted_at IS NULL
FOR UPDATE`

	var cash decimal.Decimal
	if err := tx.GetContext(ctx, &cash, lockQuery, trade.PortfolioID); err != nil {
		if isNotFound(err) {
			return portfolio.TradeResult{}, fmt.Errorf("buy: portfolio %s not found", trade.PortfolioID)
		}
		return portfolio.TradeResult{}, fmt.Errorf("lock portfolio for buy: %w", err)
	}

	cost := trade.Price.Mul(decimal.NewFromInt(trade.Quantity))
	if cash.LessThan(cost) {
		return portfolio.TradeResult{}, fmt.Errorf("%w: cash %s cannot cover %s", portfolio.ErrInsufficientFunds, cash, cost)
	}
	newCash := cash.Sub(cost)

	const debitQuery = `
UPDATE portfolios
SET cash = $1,
    updated_at = NOW()
WHERE public_id = $2
  AND deleted_at IS NULL`

	if _, err := tx.ExecContext(ctx, debitQuery, newCash, trade.PortfolioID); err != nil {
		return portfolio.TradeResult{}, fmt.Errorf("debit portfolio cash: %w", err)
	}

	const upsertHoldingQuery = `
INSERT INTO holdings (public_id, portfolio_public_id, ticker, shares)
VALUES ($1, $2, $3, $4)
ON CONFLICT (portfolio_public_id, ticker) WHERE deleted_at IS NULL
DO UPDATE SET
    shares = holdings.shares + EXCLUDED.shares,
    updated_at = NOW()
RETURNING public_id, shares, created_at, updated_at`

	var (
		holdingID string
		shares    int64
		createdAt time.Time
		updatedAt time.Time
	)
	row := tx.QueryRowxContext(ctx, upsertHoldingQuery, trade.HoldingID, trade.PortfolioID, trade.Ticker, trade.Quantity)
	if err := row.Scan(&holdingID, &shares, &createdAt, &updatedAt); err != nil {
		return portfolio.TradeResult{}, fmt.Errorf("upsert holding: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return portfolio.TradeResult{}, fmt.Errorf("commit buy: %w", err)
	}

	return portfolio.TradeResult{
		Holding: portfolio.Holding{
			ID:          holdingID,
			PortfolioID: trade.PortfolioID,
			Ticker:      trade.Ticker,
			Shares:      shares,
			CreatedAt:   createdAt,
			UpdatedAt:   updatedAt,
		},
		Amount: cost,
		Cash:   newCash,
	}, nil
}

// Sell removes the holding and credits the proceeds in one transaction.
func (r *PortfolioRepository) Sell(ctx context.Context, holdingID string, price decimal.Decimal) (portfolio.TradeResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return portfolio.TradeResult{}, fmt.Errorf("begin tx for sell: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const holdingQuery = `
SELECT *
FROM holdings
WHERE public_id = $1
  AND deleted_at IS NULL
FOR UPDATE`

	var holdingRow holdingTableModel
	if err := tx.GetContext(ctx, &holdingRow, holdingQuery, holdingID); err != nil {
		if isNotFound(err) {
			return portfolio.TradeResult{}, fmt.Errorf("sell: holding %s not found", holdingID)
		}
		return portfolio.TradeResult{}, fmt.Errorf("lock holding for sell: %w", err)
	}

	const lockPortfolioQuery = `
SELECT cash
FROM portfolios
WHERE public_id = $1
  AND deleted_at IS NULL
FOR UPDATE`

	var cash decimal.Decimal
	if err := tx.GetContext(ctx, &cash, lockPortfolioQuery, holdingRow.PortfolioPublicID); err != nil {
		return portfolio.TradeResult{}, fmt.Errorf("lock portfolio for sell: %w", err)
	}

	proceeds := price.Mul(decimal.NewFromInt(holdingRow.Shares))
	newCash := cash.Add(proceeds)

	const creditQuery = `
UPDATE portfolios
SET cash = $1,
    updated_at = NOW()
WHERE public_id = $2
  AND deleted_at IS NULL`

	if _, err := tx.ExecContext(ctx, creditQuery, newCash, holdingRow.PortfolioPublicID); err != nil {
		return portfolio.TradeResult{}, fmt.Errorf("credit portfolio cash: %w", err)
	}

	const removeHoldingQuery = `
UPDATE holdings
SET deleted_at = NOW()
WHERE public_id = $1
  AND deleted_at IS NULL`

	if _, err := tx.ExecContext(ctx, removeHoldingQuery, holdingID); err != nil {
		return portfolio.TradeResult{}, fmt.Errorf("remove holding: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return portfolio.TradeResult{}, fmt.Errorf("commit sell: %w", err)
	}

	return portfolio.TradeResult{
		Holding: holdingRow.toDomain(),
		Amount:  proceeds,
		Cash:    newCash,
	}, nil
}
