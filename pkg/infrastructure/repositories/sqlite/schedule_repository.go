package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/repositories"
)

const schema = `CREATE TABLE IF NOT EXISTS production_orders (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	date TEXT NOT NULL,
	model TEXT NOT NULL,
	quantity TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT 'manual',
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// ScheduleRepository persists the production plan in a SQLite database
type ScheduleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// Verify interface compliance
var _ repositories.ScheduleRepository = (*ScheduleRepository)(nil)

// Open opens (and migrates) the plan database at path. Use ":memory:" for a
// throwaway store.
func Open(path string, logger *zap.Logger) (*ScheduleRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := path
	if path != ":memory:" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		dsn = path + sep + "_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan store %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate plan store: %w", err)
	}

	logger.Debug("opened plan store", zap.String("path", path))
	return &ScheduleRepository{db: db, logger: logger}, nil
}

// Close releases the database
func (r *ScheduleRepository) Close() error {
	return r.db.Close()
}

// AddOrder stores the order, assigning an ID when it has none
func (r *ScheduleRepository) AddOrder(ctx context.Context, order *entities.ProductionOrder) error {
	if order == nil {
		return fmt.Errorf("order cannot be nil")
	}
	if !order.Quantity.IsPositive() {
		return fmt.Errorf("quantity must be positive, got %s", order.Quantity.String())
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	source := order.Source
	if source == "" {
		source = entities.SourceManual
		order.Source = source
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO production_orders (id, date, model, quantity, source) VALUES (?, ?, ?, ?, ?)`,
		order.ID, order.Date, order.Model, order.Quantity.String(), source)
	if err != nil {
		return fmt.Errorf("failed to add order %s: %w", order.ID, err)
	}

	r.logger.Info("added production order",
		zap.String("id", order.ID),
		zap.String("date", order.Date),
		zap.String("model", order.Model),
		zap.String("quantity", order.Quantity.String()))
	return nil
}

// ListOrders returns the orders sorted by date, then insertion
func (r *ScheduleRepository) ListOrders(ctx context.Context) ([]entities.ProductionOrder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, model, quantity, source FROM production_orders ORDER BY date, seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.ProductionOrder, 0)
	for rows.Next() {
		var o entities.ProductionOrder
		var qty string
		if err := rows.Scan(&o.ID, &o.Date, &o.Model, &qty, &o.Source); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Quantity, err = decimal.NewFromString(qty)
		if err != nil {
			return nil, fmt.Errorf("order %s has invalid quantity %q: %w", o.ID, qty, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// RemoveOrder deletes one order by ID
func (r *ScheduleRepository) RemoveOrder(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM production_orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove order %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to remove order %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("order %s: %w", id, repositories.ErrOrderNotFound)
	}
	r.logger.Info("removed production order", zap.String("id", id))
	return nil
}

// Clear removes every order
func (r *ScheduleRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM production_orders`); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	r.logger.Info("cleared production plan")
	return nil
}
