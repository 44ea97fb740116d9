package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

// ErrOrderNotFound is returned when a plan entry does not exist
var ErrOrderNotFound = errors.New("production order not found")

// ScheduleRepository persists the user-entered production plan
type ScheduleRepository interface {
	// AddOrder stores the order, assigning an ID when it has none
	AddOrder(ctx context.Context, order *entities.ProductionOrder) error
	// ListOrders returns every order sorted by date, then insertion
	ListOrders(ctx context.Context) ([]entities.ProductionOrder, error)
	RemoveOrder(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
