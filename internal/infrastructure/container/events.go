package container

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/domain/shared"
)

// EventDispatcher delivers domain events synchronously to registered
// handlers. Registration happens during startup; dispatch happens from
// request goroutines.
type EventDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	log      *zap.Logger
}

// NewEventDispatcher creates a new event dispatcher
func NewEventDispatcher(log *zap.Logger) *EventDispatcher {
	return &EventDispatcher{
		handlers: make(map[string][]shared.EventHandler),
		log:      log.Named("events"),
	}
}

// Dispatch delivers the event to every handler registered for its name.
// Handler failures are logged and do not stop delivery to the rest.
func (d *EventDispatcher) Dispatch(event shared.DomainEvent) error {
	d.mu.RLock()
	handlers := d.handlers[event.EventName()]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		d.log.Debug("No handlers registered for event", zap.String("event", event.EventName()))
		return nil
	}

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			d.log.Error("Failed to handle event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Register registers an event handler
func (d *EventDispatcher) Register(eventName string, handler shared.EventHandler) {
	d.mu.Lock()
	d.handlers[eventName] = append(d.handlers[eventName], handler)
	d.mu.Unlock()

	d.log.Debug("Registered event handler", zap.String("event", eventName))
}

// EventHandlers holds all domain event handlers
type EventHandlers struct {
	PlanGeneratedHandler  shared.EventHandler
	MealRepairedHandler   shared.EventHandler
	ItemCompletionHandler shared.EventHandler
}

// NewEventHandlers creates the event handlers. They currently feed the
// audit log; a message broker could subscribe here later without
// touching the planner.
func NewEventHandlers(log *zap.Logger) *EventHandlers {
	eventLog := log.Named("event-handlers")
	return &EventHandlers{
		PlanGeneratedHandler: func(event shared.DomainEvent) error {
			if e, ok := event.(mealplan.MealPlanGeneratedEvent); ok {
				eventLog.Info("Meal plan generated",
					zap.String("plan_id", e.PlanID.String()),
					zap.String("user_id", e.UserID.String()),
					zap.Int("meals", e.MealCount),
					zap.Int("items", e.ItemCount),
				)
			}
			return nil
		},
		MealRepairedHandler: func(event shared.DomainEvent) error {
			if e, ok := event.(mealplan.MealRepairedEvent); ok {
				eventLog.Info("Meal diversity repaired",
					zap.String("plan_id", e.PlanID.String()),
					zap.String("slot", string(e.Slot)),
					zap.Strings("categories", e.Categories),
				)
			}
			return nil
		},
		ItemCompletionHandler: func(event shared.DomainEvent) error {
			if e, ok := event.(mealplan.ItemCompletionChangedEvent); ok {
				eventLog.Info("Plan item completion changed",
					zap.String("plan_id", e.PlanID.String()),
					zap.String("item_id", e.ItemID.String()),
					zap.Bool("completed", e.Completed),
				)
			}
			return nil
		},
	}
}

// RegisterEventHandlers binds the handlers to their event names.
func RegisterEventHandlers(dispatcher shared.EventDispatcher, handlers *EventHandlers) {
	dispatcher.Register(mealplan.MealPlanGeneratedEvent{}.EventName(), handlers.PlanGeneratedHandler)
	dispatcher.Register(mealplan.MealRepairedEvent{}.EventName(), handlers.MealRepairedHandler)
	dispatcher.Register(mealplan.ItemCompletionChangedEvent{}.EventName(), handlers.ItemCompletionHandler)
}
