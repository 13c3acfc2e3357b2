package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"civiclens-be/models"
)

// Users persists account profiles.
type Users struct {
	c *mongo.Collection
}

// NewUsers builds the user store over the given database.
func NewUsers(db *mongo.Database) *Users {
	return &Users{c: db.Collection("users")}
}

// Insert stores a new user and fills in the generated ID.
func (s *Users) Insert(ctx context.Context, user *models.User) error {
	res, err := s.c.InsertOne(ctx, user)
	if err != nil {
		return errors.WithStack(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

// FindByID returns the user or ErrNotFound.
func (s *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &user, nil
}

// FindByEmail returns the user or ErrNotFound.
func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &user, nil
}

// EmailTaken reports whether a user with the email already exists.
func (s *Users) EmailTaken(ctx context.Context, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, errors.WithStack(err)
	}
	return n > 0, nil
}
