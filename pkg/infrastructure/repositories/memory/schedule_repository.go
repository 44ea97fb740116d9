package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/repositories"
)

// ScheduleRepository keeps the production plan in memory
type ScheduleRepository struct {
	mu     sync.RWMutex
	orders []entities.ProductionOrder
}

// NewScheduleRepository creates an empty in-memory plan
func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{orders: make([]entities.ProductionOrder, 0)}
}

// Verify interface compliance
var _ repositories.ScheduleRepository = (*ScheduleRepository)(nil)

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

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == order.ID {
			return fmt.Errorf("order %s already exists", order.ID)
		}
	}
	r.orders = append(r.orders, *order)
	return nil
}

// ListOrders returns the orders sorted by date, then insertion
func (r *ScheduleRepository) ListOrders(ctx context.Context) ([]entities.ProductionOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.ProductionOrder, len(r.orders))
	copy(out, r.orders)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out, nil
}

// RemoveOrder deletes one order by ID
func (r *ScheduleRepository) RemoveOrder(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, o := range r.orders {
		if o.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("order %s: %w", id, repositories.ErrOrderNotFound)
}

// Clear removes every order
func (r *ScheduleRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = r.orders[:0]
	return nil
}
