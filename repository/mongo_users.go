package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"focusflow/models"
)

// MongoUserRepository stores credentials in the "users" collection.
type MongoUserRepository struct {
	store *MongoStore
}

func (r *MongoUserRepository) coll(ctx context.Context) (*mongo.Collection, error) {
	return r.store.collection(ctx, usersCollection)
}

// Create hashes the password and stores a new user. The returned user has no password.
func (r *MongoUserRepository) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	username = normalizeUsername(username)
	email = normalizeEmail(email)

	n, err := coll.CountDocuments(ctx, bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "email", Value: email}},
	}}})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if n > 0 {
		return nil, ErrDuplicateUser
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:  username,
		Email:     email,
		Password:  hashed,
		CreatedAt: now(),
	}
	res, err := coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		// lost a race against a concurrent registration
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	user.Password = ""
	return &user, nil
}

// FindByUsername looks a user up by username.
func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: normalizeUsername(username)}})
}

// FindByEmail looks a user up by email, ignoring case.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: normalizeEmail(email)}})
}

// VerifyPassword compares password with the stored hash.
func (r *MongoUserRepository) VerifyPassword(user *models.User, password string) (bool, error) {
	return verifyPassword(user, password)
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	var user models.User
	err = coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
