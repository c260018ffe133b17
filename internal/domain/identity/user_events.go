package identity

import (
	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeUserCreated         = "UserCreated"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
	EventTypeUserStatusChanged   = "UserStatusChanged"
)

// UserCreatedEvent is raised when a new account is registered
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, u.SellerID),
		UserID:          u.ID,
		Email:           u.Email,
		Role:            u.Role,
	}
}

// EventType returns the event type
func (e *UserCreatedEvent) EventType() string {
	return EventTypeUserCreated
}

// UserPasswordChangedEvent is raised when the password changes.
// Handlers revoke the user's outstanding sessions.
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	UserID       uuid.UUID `json:"user_id"`
	TokenVersion int       `json:"token_version"`
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(u *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, u.ID, u.SellerID),
		UserID:          u.ID,
		TokenVersion:    u.TokenVersion,
	}
}

// EventType returns the event type
func (e *UserPasswordChangedEvent) EventType() string {
	return EventTypeUserPasswordChanged
}

// UserStatusChangedEvent is raised on activate, deactivate, lock, and unlock
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID  `json:"user_id"`
	OldStatus UserStatus `json:"old_status"`
	NewStatus UserStatus `json:"new_status"`
}

// NewUserStatusChangedEvent creates a new UserStatusChangedEvent
func NewUserStatusChangedEvent(u *User, oldStatus, newStatus UserStatus) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserStatusChanged, AggregateTypeUser, u.ID, u.SellerID),
		UserID:          u.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// EventType returns the event type
func (e *UserStatusChangedEvent) EventType() string {
	return EventTypeUserStatusChanged
}
