package usecase

import (
	"context"
	"errors"
	"portfolio-contact-api/internal/domain"
	"portfolio-contact-api/pkg/apperror"
	"portfolio-contact-api/pkg/logger"
	"portfolio-contact-api/pkg/validation"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type contactUsecase struct {
	contactRepo domain.ContactRepository
	notifier    domain.ContactNotifier
	validate    *validator.Validate
	now         func() time.Time
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(contactRepo domain.ContactRepository, notifier domain.ContactNotifier, validate *validator.Validate) domain.ContactUsecase {
	return &contactUsecase{
		contactRepo: contactRepo,
		notifier:    notifier,
		validate:    validate,
		now:         time.Now,
	}
}

// Submit validates and stores the submission, then sends both notifications.
// Once the insert succeeded the result is success, whatever the mail outcome.
func (uc *contactUsecase) Submit(ctx context.Context, req *domain.ContactRequest) (*domain.ContactCreated, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, apperror.Validation("Invalid contact form", validation.FormatValidationErrors(err))
	}

	contact := &domain.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		Status:  domain.ContactStatusNew,
		// The store keeps milliseconds; truncate so reads match what was written.
		CreatedAt: uc.now().UTC().Truncate(time.Millisecond),
	}

	if err := uc.contactRepo.Create(ctx, contact); err != nil {
		return nil, apperror.Internal("Internal server error", err)
	}

	log := logger.FromContext(ctx).With(zap.String("contact_id", contact.ID.Hex()))
	log.Info("Contact submission stored")

	// The record is committed; a client hang-up must not cut the mails short.
	mailCtx := context.WithoutCancel(ctx)
	if !uc.notifier.SendContactNotification(mailCtx, contact) {
		log.Warn("Admin notification not delivered")
	}
	if !uc.notifier.SendAutoReply(mailCtx, contact) {
		log.Warn("Auto-reply not delivered")
	}

	return &domain.ContactCreated{ContactID: contact.ID.Hex()}, nil
}

// List returns a page of submissions, newest first, with the overall total
func (uc *contactUsecase) List(ctx context.Context, skip, limit int64) (*domain.ContactPage, error) {
	if skip < 0 {
		return nil, apperror.BadRequest("skip must not be negative")
	}
	if limit < 1 {
		return nil, apperror.BadRequest("limit must be at least 1")
	}

	total, err := uc.contactRepo.Count(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch contacts", err)
	}

	contacts, err := uc.contactRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch contacts", err)
	}

	return &domain.ContactPage{
		Contacts: contacts,
		Total:    total,
		Skip:     skip,
		Limit:    limit,
	}, nil
}

func (uc *contactUsecase) Get(ctx context.Context, id string) (*domain.Contact, error) {
	oid, err := parseContactID(id)
	if err != nil {
		return nil, err
	}

	contact, err := uc.contactRepo.GetByID(ctx, oid)
	if errors.Is(err, domain.ErrContactNotFound) {
		return nil, apperror.NotFound("Contact not found")
	}
	if err != nil {
		return nil, apperror.Internal("Failed to fetch contact", err)
	}
	return contact, nil
}

// UpdateStatus applies a partial update. Zero modified documents is reported
// as not found, whether the id is unknown or the value was already set.
func (uc *contactUsecase) UpdateStatus(ctx context.Context, id string, req *domain.ContactUpdateRequest) error {
	oid, err := parseContactID(id)
	if err != nil {
		return err
	}

	if err := uc.validate.Struct(req); err != nil {
		return apperror.Validation("Invalid contact update", validation.FormatValidationErrors(err))
	}

	if req.Status == nil {
		return apperror.NotFound("Contact not found or no changes made")
	}

	modified, err := uc.contactRepo.UpdateStatus(ctx, oid, *req)
	if err != nil {
		return apperror.Internal("Failed to update contact", err)
	}
	if modified == 0 {
		return apperror.NotFound("Contact not found or no changes made")
	}

	logger.FromContext(ctx).Info("Contact status updated",
		zap.String("contact_id", id),
		zap.String("status", string(*req.Status)),
	)
	return nil
}

func (uc *contactUsecase) Delete(ctx context.Context, id string) error {
	oid, err := parseContactID(id)
	if err != nil {
		return err
	}

	deleted, err := uc.contactRepo.Delete(ctx, oid)
	if err != nil {
		return apperror.Internal("Failed to delete contact", err)
	}
	if deleted == 0 {
		return apperror.NotFound("Contact not found")
	}

	logger.FromContext(ctx).Info("Contact deleted", zap.String("contact_id", id))
	return nil
}

// parseContactID rejects anything that is not a 24 character hex ObjectID.
func parseContactID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, apperror.BadRequest("Invalid contact ID")
	}
	return oid, nil
}
