package repository

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ahmednasr/help-wanted/internal/models"
)

// RefreshRunRepository keeps the history of refresh runs in Mongo.
type RefreshRunRepository struct {
	col *mongo.Collection
}

// NewRefreshRunRepository returns a repository on the "refresh_runs" collection.
func NewRefreshRunRepository(db *mongo.Database) *RefreshRunRepository {
	return &RefreshRunRepository{
		col: db.Collection("refresh_runs"),
	}
}

// Record inserts run.
func (r *RefreshRunRepository) Record(ctx context.Context, run models.RefreshRun) error {
	if _, err := r.col.InsertOne(ctx, run); err != nil {
		log.Printf("[Refresh Repository] Error recording run %s: %v", run.ID, err)
		return err
	}
	return nil
}

// Latest returns the most recently started run. When there is none it
// returns a zero RefreshRun and a nil error.
func (r *RefreshRunRepository) Latest(ctx context.Context) (models.RefreshRun, error) {
	var run models.RefreshRun
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})
	err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.RefreshRun{}, nil
	}
	if err != nil {
		log.Printf("[Refresh Repository] Error finding latest run: %v", err)
		return models.RefreshRun{}, err
	}
	return run, nil
}

// Recent returns up to limit runs, newest first.
func (r *RefreshRunRepository) Recent(ctx context.Context, limit int64) ([]models.RefreshRun, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	runs := []models.RefreshRun{}
	if err := cur.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
