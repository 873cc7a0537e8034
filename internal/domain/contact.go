package domain

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ContactStatus tracks how far the admin got with a submission.
// Any status may follow any other.
type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied:
		return true
	}
	return false
}

// ErrContactNotFound is returned by the repository when no document matches.
var ErrContactNotFound = errors.New("contact not found")

// Contact is a stored contact form submission.
type Contact struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Email     string        `bson:"email" json:"email"`
	Subject   *string       `bson:"subject" json:"subject"`
	Message   string        `bson:"message" json:"message"`
	Status    ContactStatus `bson:"status" json:"status"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

// ContactRequest represents a contact form submission. Values are stored
// exactly as submitted.
type ContactRequest struct {
	Name    string  `json:"name" validate:"required,not_blank,max=100"`
	Email   string  `json:"email" validate:"required,email"`
	Subject *string `json:"subject" validate:"omitempty,max=200"`
	Message string  `json:"message" validate:"required,not_blank,max=2000"`
}

// ContactUpdateRequest is a partial update; only fields that are set are applied.
type ContactUpdateRequest struct {
	Status *ContactStatus `json:"status" validate:"omitempty,oneof=new read replied"`
}

// ContactPage is one page of the admin listing.
type ContactPage struct {
	Contacts []Contact `json:"contacts"`
	Total    int64     `json:"total"`
	Skip     int64     `json:"skip"`
	Limit    int64     `json:"limit"`
}

// ContactCreated is returned to the submitter.
type ContactCreated struct {
	ContactID string `json:"contact_id"`
}

// ContactRepository persists contacts in the document store.
type ContactRepository interface {
	// Create inserts the contact and sets its ID.
	Create(ctx context.Context, contact *Contact) error
	// List returns contacts newest first.
	List(ctx context.Context, skip, limit int64) ([]Contact, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*Contact, error)
	// UpdateStatus applies the set fields and returns the modified count.
	UpdateStatus(ctx context.Context, id bson.ObjectID, update ContactUpdateRequest) (int64, error)
	// Delete returns the deleted count.
	Delete(ctx context.Context, id bson.ObjectID) (int64, error)
}

// ContactNotifier sends the two best-effort emails that follow a submission.
// Both report success only; failures are logged by the implementation.
type ContactNotifier interface {
	SendContactNotification(ctx context.Context, contact *Contact) bool
	SendAutoReply(ctx context.Context, contact *Contact) bool
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Submit validates, stores and announces a new submission
	Submit(ctx context.Context, req *ContactRequest) (*ContactCreated, error)
	List(ctx context.Context, skip, limit int64) (*ContactPage, error)
	Get(ctx context.Context, id string) (*Contact, error)
	UpdateStatus(ctx context.Context, id string, req *ContactUpdateRequest) error
	Delete(ctx context.Context, id string) error
}
