package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/stock"
	qb "github.com/shreddi/WallStreetRivals/internal/platform/querybuilder"
)

type StockRepository struct {
	db *sqlx.DB
}

func NewStockRepository(db *sqlx.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) List(ctx context.Context, tickerFilter string) ([]stock.Stock, error) {
	builder := qb.Select("*").From("stocks").
		Where(qb.IsNull("deleted_at")).
		OrderBy("ticker")
	if tickerFilter = strings.TrimSpace(tickerFilter); tickerFilter != "" {
		builder = builder.Where(qb.Eq("ticker", stock.NormalizeTicker(tickerFilter)))
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stocks query: %w", err)
	}

	var rows []stockTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stocks: %w", err)
	}

	out := make([]stock.Stock, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *StockRepository) GetByID(ctx context.Context, stockID string) (stock.Stock, bool, error) {
	return r.getByColumn(ctx, "public_id", stockID)
}

func (r *StockRepository) GetByTicker(ctx context.Context, ticker string) (stock.Stock, bool, error) {
	return r.getByColumn(ctx, "ticker", stock.NormalizeTicker(ticker))
}

func (r *StockRepository) getByColumn(ctx context.Context, column, value string) (stock.Stock, bool, error) {
	query, args, err := qb.Select("*").From("stocks").
		Where(
			qb.Eq(column, value),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return stock.Stock{}, false, fmt.Errorf("build get stock by %s query: %w", column, err)
	}

	var row stockTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return stock.Stock{}, false, nil
		}
		return stock.Stock{}, false, fmt.Errorf("get stock by %s: %w", column, err)
	}

	return row.toDomain(), true, nil
}

func (r *StockRepository) ListTickers(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("ticker").From("stocks").
		Where(qb.IsNull("deleted_at")).
		OrderBy("ticker").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tickers query: %w", err)
	}

	var tickers []string
	if err := r.db.SelectContext(ctx, &tickers, query, args...); err != nil {
		return nil, fmt.Errorf("select tickers: %w", err)
	}

	return tickers, nil
}

func (r *StockRepository) Create(ctx context.Context, s stock.Stock) error {
	model := stockInsertModel{
		PublicID:    s.ID,
		Ticker:      s.Ticker,
		CompanyName: s.CompanyName,
		TradePrice:  s.TradePrice,
	}
	query, args, err := qb.InsertModel("stocks", model, "")
	if err != nil {
		return fmt.Errorf("build insert stock query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert stock: %w", err)
	}

	return nil
}

func (r *StockRepository) UpsertPrice(ctx context.Context, ticker string, price decimal.Decimal) error {
	const query = `
UPDATE stocks
SET trade_price = :trade_price,
    updated_at = NOW()
WHERE ticker = :ticker
  AND deleted_at IS NULL`

	args := map[string]any{
		"ticker":      stock.NormalizeTicker(ticker),
		"trade_price": price,
	}
	boundSQL, boundArgs, err := sqlx.Named(query, args)
	if err != nil {
		return fmt.Errorf("bind update stock price query: %w", err)
	}
	boundSQL = r.db.Rebind(boundSQL)

	if _, err := r.db.ExecContext(ctx, boundSQL, boundArgs...); err != nil {
		return fmt.Errorf("update stock price: %w", err)
	}

	return nil
}
