package events

import (
	"github.com/vsinha/shortage/pkg/domain/entities"
)

const (
	PlanOrderAddedEvent   = "plan.order.added"
	PlanOrderRemovedEvent = "plan.order.removed"
	PlanClearedEvent      = "plan.cleared"

	ShortageIdentifiedEvent = "shortage.identified"
	ShortageResolvedEvent   = "shortage.resolved"
)

// PlanStream is the stream holding production plan changes
const PlanStream = "plan"

type PlanOrderAdded struct {
	Order entities.ProductionOrder `json:"order"`
}

type PlanOrderRemoved struct {
	ID string `json:"id"`
}

type PlanCleared struct{}

type ShortageIdentified struct {
	Model         string                   `json:"model"`
	Key           string                   `json:"key"`
	FinalBalance  entities.Quantity        `json:"final_balance"`
	FirstShortage *entities.ShortageMarker `json:"first_shortage,omitempty"`
}

type ShortageResolved struct {
	Model        string            `json:"model"`
	Key          string            `json:"key"`
	FinalBalance entities.Quantity `json:"final_balance"`
}

// GroupStream names the stream of one component group
func GroupStream(model, key string) string {
	return model + "/" + key
}

func NewPlanOrderAddedEvent(order entities.ProductionOrder) Event {
	return NewEvent(PlanOrderAddedEvent, PlanStream, PlanOrderAdded{Order: order})
}

func NewPlanOrderRemovedEvent(id string) Event {
	return NewEvent(PlanOrderRemovedEvent, PlanStream, PlanOrderRemoved{ID: id})
}

func NewPlanClearedEvent() Event {
	return NewEvent(PlanClearedEvent, PlanStream, PlanCleared{})
}

func NewShortageIdentifiedEvent(data ShortageIdentified) Event {
	return NewEvent(ShortageIdentifiedEvent, GroupStream(data.Model, data.Key), data)
}

func NewShortageResolvedEvent(data ShortageResolved) Event {
	return NewEvent(ShortageResolvedEvent, GroupStream(data.Model, data.Key), data)
}
