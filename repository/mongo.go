package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultDatabase is used when the connection string names no database.
	DefaultDatabase = "focusflow"

	habitsCollection = "habits"
	usersCollection  = "users"

	connectTimeout = 10 * time.Second
)

// MongoStore is the process-wide handle to the document database. The client
// is connected on first use; concurrent first calls share one connect.
// After Close the next call connects again.
type MongoStore struct {
	uri    string
	dbName string
	logger *slog.Logger

	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
	group  singleflight.Group

	habits *MongoHabitRepository
	users  *MongoUserRepository
}

// NewMongoStore validates the URI without connecting. The database name is
// taken from the URI path, falling back to DefaultDatabase.
func NewMongoStore(uri string, logger *slog.Logger) (*MongoStore, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid mongo uri: %w", err)
	}
	dbName := cs.Database
	if dbName == "" {
		dbName = DefaultDatabase
	}
	s := &MongoStore{uri: uri, dbName: dbName, logger: logger}
	s.habits = &MongoHabitRepository{store: s}
	s.users = &MongoUserRepository{store: s}
	return s, nil
}

// DatabaseName returns the database the store writes to.
func (s *MongoStore) DatabaseName() string { return s.dbName }

func (s *MongoStore) Habits() HabitStore { return s.habits }
func (s *MongoStore) Users() UserStore   { return s.users }

// Ping connects if needed and pings the primary.
func (s *MongoStore) Ping(ctx context.Context) error {
	db, err := s.database(ctx)
	if err != nil {
		return err
	}
	return db.Client().Ping(ctx, readpref.Primary())
}

// Close disconnects the client once. It is safe to call on a store that
// never connected.
func (s *MongoStore) Close(ctx context.Context) error {
	s.mu.Lock()
	client := s.client
	s.client, s.db = nil, nil
	s.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongo: %w", err)
	}
	s.logger.Info("mongo connection closed", "database", s.dbName)
	return nil
}

func (s *MongoStore) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := s.database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (s *MongoStore) database(ctx context.Context) (*mongo.Database, error) {
	s.mu.RLock()
	db := s.db
	s.mu.RUnlock()
	if db != nil {
		return db, nil
	}

	v, err, _ := s.group.Do("connect", func() (any, error) {
		s.mu.RLock()
		db := s.db
		s.mu.RUnlock()
		if db != nil {
			return db, nil
		}
		// The connect outlives the request that triggered it.
		connectCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), connectTimeout)
		defer cancel()
		return s.connect(connectCtx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongo.Database), nil
}

func (s *MongoStore) connect(ctx context.Context) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(s.dbName)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	s.mu.Lock()
	s.client, s.db = client, db
	s.mu.Unlock()

	s.logger.Info("connected to mongo", "database", s.dbName)
	return db, nil
}

// ensureIndexes creates the unique indexes the stores rely on. Creating an
// index that already exists with the same options is a no-op.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(habitsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create habits index: %w", err)
	}
	_, err = db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}
	return nil
}
