package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is owned by the account system; the engine only reads the
// inactive flag and flips it through the status cascade.
type User struct {
	ID         uuid.UUID `json:"id" db:"id"`
	IsInactive bool      `json:"is_inactive" db:"is_inactive"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// UserStatusAction selects the SetUserStatus branch.
type UserStatusAction string

const (
	ActionDeactivate UserStatusAction = "deactivate"
	ActionReactivate UserStatusAction = "reactivate"
)

type SetUserStatusRequest struct {
	Action UserStatusAction `json:"action" validate:"required,oneof=deactivate reactivate"`
}

type SetUserStatusResponse struct {
	UserID     uuid.UUID `json:"user_id"`
	IsInactive bool      `json:"is_inactive"`
}

// Actor is the authenticated identity forwarded by the API layer.
type Actor struct {
	ID   uuid.UUID
	Role ActorRole
}

type ActorRole string

const (
	RoleBorrower ActorRole = "borrower"
	RoleStaff    ActorRole = "staff"
	RoleAdmin    ActorRole = "admin"
)

func (r ActorRole) Valid() bool {
	return r == RoleBorrower || r == RoleStaff || r == RoleAdmin
}

// Staff reports whether the role may decide loans and verify payments.
func (r ActorRole) Staff() bool {
	return r == RoleStaff || r == RoleAdmin
}
