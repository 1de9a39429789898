package repository

import (
	"context"
	"errors"

	"github.com/hoocms/customers/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUniqueViolation is returned when write is rejected by unique index on email.
// It closes the race window advisory uniqueness check leaves open
var ErrUniqueViolation = errors.New("unique index violation")

// CustomerRepository represents customer storage behavior
type CustomerRepository interface {
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	FindPage(ctx context.Context, limit int64) ([]*model.Customer, error)
	Create(ctx context.Context, c *model.Customer) error
	Replace(ctx context.Context, c *model.Customer) error
	DeleteByID(ctx context.Context, id string) error
}

type mongoCustomerRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

// NewMongoCustomerRepository builds mongo-backed CustomerRepository over
// provided collection
func NewMongoCustomerRepository(client *mongo.Client, database string, collection string) CustomerRepository {
	return &mongoCustomerRepository{
		client:     client,
		database:   database,
		collection: collection,
	}
}

func (rps *mongoCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	if err := rps.customers().FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (rps *mongoCustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var c model.Customer
	if err := rps.customers().FindOne(ctx, bson.M{"email": email}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (rps *mongoCustomerRepository) FindPage(ctx context.Context, limit int64) ([]*model.Customer, error) {
	cursor, err := rps.customers().Find(ctx, bson.D{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}

	customers := make([]*model.Customer, 0)
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (rps *mongoCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	if _, err := rps.customers().InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUniqueViolation
		}
		return err
	}
	return nil
}

func (rps *mongoCustomerRepository) Replace(ctx context.Context, c *model.Customer) error {
	if _, err := rps.customers().ReplaceOne(ctx, bson.M{"_id": c.ID}, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUniqueViolation
		}
		return err
	}
	return nil
}

func (rps *mongoCustomerRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := rps.customers().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	return nil
}

func (rps *mongoCustomerRepository) customers() *mongo.Collection {
	return rps.client.Database(rps.database).Collection(rps.collection)
}
