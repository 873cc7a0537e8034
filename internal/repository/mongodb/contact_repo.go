package mongodb

import (
	"context"
	"portfolio-contact-api/internal/domain"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const contactsCollection = "contacts"

// CollectionProvider resolves a collection by name; *database.Mongo satisfies it.
type CollectionProvider interface {
	Collection(name string) (*mongo.Collection, error)
}

type contactRepo struct {
	db CollectionProvider
}

func NewContactRepository(db CollectionProvider) domain.ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) collection() (*mongo.Collection, error) {
	coll, err := r.db.Collection(contactsCollection)
	if err != nil {
		return nil, errors.Wrap(err, "resolve contacts collection")
	}
	return coll, nil
}

func (r *contactRepo) Create(ctx context.Context, contact *domain.Contact) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}

	res, err := coll.InsertOne(ctx, contact)
	if err != nil {
		return errors.Wrap(err, "insert contact")
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return errors.Errorf("insert contact: unexpected id type %T", res.InsertedID)
	}
	contact.ID = id
	return nil
}

// List returns contacts newest first. _id breaks ties between equal timestamps.
func (r *contactRepo) List(ctx context.Context, skip, limit int64) ([]domain.Contact, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find contacts")
	}

	contacts := make([]domain.Contact, 0)
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, errors.Wrap(err, "decode contacts")
	}
	return contacts, nil
}

func (r *contactRepo) Count(ctx context.Context) (int64, error) {
	coll, err := r.collection()
	if err != nil {
		return 0, err
	}

	total, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, "count contacts")
	}
	return total, nil
}

func (r *contactRepo) GetByID(ctx context.Context, id bson.ObjectID) (*domain.Contact, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	var contact domain.Contact
	err = coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrContactNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find contact")
	}
	return &contact, nil
}

// UpdateStatus sets only the fields present in update. An unchanged value
// counts as not modified.
func (r *contactRepo) UpdateStatus(ctx context.Context, id bson.ObjectID, update domain.ContactUpdateRequest) (int64, error) {
	set := bson.D{}
	if update.Status != nil {
		set = append(set, bson.E{Key: "status", Value: *update.Status})
	}
	if len(set) == 0 {
		return 0, nil
	}

	coll, err := r.collection()
	if err != nil {
		return 0, err
	}

	res, err := coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return 0, errors.Wrap(err, "update contact")
	}
	return res.ModifiedCount, nil
}

func (r *contactRepo) Delete(ctx context.Context, id bson.ObjectID) (int64, error) {
	coll, err := r.collection()
	if err != nil {
		return 0, err
	}

	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return 0, errors.Wrap(err, "delete contact")
	}
	return res.DeletedCount, nil
}
