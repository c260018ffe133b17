package catalog

import (
	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCategory = "Category"

// Event type constants
const (
	EventTypeCategoryCreated = "CategoryCreated"
	EventTypeCategoryUpdated = "CategoryUpdated"
)

// CategoryCreatedEvent is raised when a new category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID  `json:"category_id"`
	Slug       string     `json:"slug"`
	Name       string     `json:"name"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(c *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, AggregateTypeCategory, c.ID, c.SellerID),
		CategoryID:      c.ID,
		Slug:            c.Slug,
		Name:            c.Name,
		ParentID:        c.ParentID,
	}
}

// EventType returns the event type name
func (e *CategoryCreatedEvent) EventType() string {
	return EventTypeCategoryCreated
}

// CategoryUpdatedEvent is raised when category information changes
type CategoryUpdatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
}

// NewCategoryUpdatedEvent creates a new CategoryUpdatedEvent
func NewCategoryUpdatedEvent(c *Category) *CategoryUpdatedEvent {
	return &CategoryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryUpdated, AggregateTypeCategory, c.ID, c.SellerID),
		CategoryID:      c.ID,
		Slug:            c.Slug,
		Name:            c.Name,
	}
}

// EventType returns the event type name
func (e *CategoryUpdatedEvent) EventType() string {
	return EventTypeCategoryUpdated
}
