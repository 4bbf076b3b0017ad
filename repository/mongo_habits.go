package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"focusflow/models"
)

// MongoHabitRepository stores habits in the "habits" collection, keyed by
// the integer id field rather than the document _id.
type MongoHabitRepository struct {
	store *MongoStore
}

func (r *MongoHabitRepository) coll(ctx context.Context) (*mongo.Collection, error) {
	return r.store.collection(ctx, habitsCollection)
}

// List returns the habits matching q. The result is never nil.
func (r *MongoHabitRepository) List(ctx context.Context, q models.HabitQuery) ([]models.Habit, error) {
	sortField := q.SortField
	if sortField == "" {
		sortField = "id"
	}
	if !models.IsHabitField(sortField) {
		return nil, fmt.Errorf("unknown sort field %q", sortField)
	}

	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	filter := bson.D{}
	for _, p := range q.Filter.Pairs() {
		filter = append(filter, bson.E{Key: p[0], Value: p[1]})
	}

	dir := 1
	if q.SortDesc {
		dir = -1
	}
	sort := bson.D{{Key: sortField, Value: dir}}
	if sortField != "id" {
		sort = append(sort, bson.E{Key: "id", Value: 1})
	}

	opts := options.Find().SetSort(sort)
	if len(q.Fields) > 0 {
		proj := bson.D{{Key: "_id", Value: 0}, {Key: "id", Value: 1}}
		for _, f := range q.Fields {
			if f != "id" {
				proj = append(proj, bson.E{Key: f, Value: 1})
			}
		}
		opts.SetProjection(proj)
	}

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	habits := []models.Habit{}
	if err := cur.All(ctx, &habits); err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}
	return habits, nil
}

// GetByID returns the habit with the given id.
func (r *MongoHabitRepository) GetByID(ctx context.Context, id int) (*models.Habit, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	var h models.Habit
	err = coll.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(&h)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit %d: %w", id, err)
	}
	return &h, nil
}

// Create validates req and inserts it under the next free id.
func (r *MongoHabitRepository) Create(ctx context.Context, req models.HabitRequest) (*models.Habit, error) {
	ts, err := prepareCreate(req)
	if err != nil {
		return nil, err
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	var habit models.Habit
	_, err = insertWithNextID(ctx, r.nextID, func(ctx context.Context, id int) error {
		habit = models.NewHabit(req, id, ts)
		_, err := coll.InsertOne(ctx, habit)
		return err
	}, mongo.IsDuplicateKeyError)
	if err != nil {
		return nil, fmt.Errorf("failed to insert habit: %w", err)
	}
	return &habit, nil
}

// Update sets the fields present in req. It reports false when nothing changed.
func (r *MongoHabitRepository) Update(ctx context.Context, id int, req models.HabitRequest) (bool, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	changes, changed, err := prepareUpdate(*existing, req)
	if err != nil || !changed {
		return false, err
	}

	coll, err := r.coll(ctx)
	if err != nil {
		return false, err
	}
	set := make(bson.D, 0, len(changes))
	for _, c := range changes {
		set = append(set, bson.E{Key: c.Field, Value: c.Value})
	}
	res, err := coll.UpdateOne(ctx, bson.D{{Key: "id", Value: id}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return false, fmt.Errorf("failed to update habit %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return true, nil
}

// Delete removes a habit and reports whether it existed.
func (r *MongoHabitRepository) Delete(ctx context.Context, id int) (bool, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return false, err
	}
	res, err := coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	if err != nil {
		return false, fmt.Errorf("failed to delete habit %d: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

// Reset removes every habit.
func (r *MongoHabitRepository) Reset(ctx context.Context) error {
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	_, err = coll.DeleteMany(ctx, bson.D{})
	return err
}

// nextID reads the highest id in the collection. An empty collection starts at 1.
func (r *MongoHabitRepository) nextID(ctx context.Context) (int, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return 0, err
	}
	var last struct {
		ID int `bson:"id"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "id", Value: -1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}, {Key: "id", Value: 1}})
	err = coll.FindOne(ctx, bson.D{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return last.ID + 1, nil
}
