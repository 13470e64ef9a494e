package mongodb

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const historyCollection = "employee_history"

type historyRepositoryImpl struct {
	history *mongo.Collection
}

// NewHistoryRepository ensures indexes on the append-only history collection.
func NewHistoryRepository(ctx context.Context, db *database.MongoDB) (user.HistoryRepository, error) {
	history := db.Collection(historyCollection)

	if _, err := history.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "changed_at", Value: -1}}},
		{Keys: bson.D{{Key: "changed_at", Value: -1}}},
	}); err != nil {
		return nil, fmt.Errorf("create employee_history indexes: %w", err)
	}

	return &historyRepositoryImpl{history: history}, nil
}

// Append implements user.HistoryRepository.
func (r *historyRepositoryImpl) Append(ctx context.Context, entries []user.History) error {
	if len(entries) == 0 {
		return nil
	}
	if _, err := r.history.InsertMany(ctx, entries); err != nil {
		return fmt.Errorf("insert employee history: %w", err)
	}
	return nil
}

// ListByUser implements user.HistoryRepository. Newest first.
func (r *historyRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]user.History, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// ListAll implements user.HistoryRepository.
func (r *historyRepositoryImpl) ListAll(ctx context.Context) ([]user.History, error) {
	return r.find(ctx, bson.M{})
}

func (r *historyRepositoryImpl) find(ctx context.Context, filter bson.M) ([]user.History, error) {
	opts := options.Find().SetSort(bson.D{{Key: "changed_at", Value: -1}})
	cursor, err := r.history.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find employee history: %w", err)
	}
	results := make([]user.History, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode employee history: %w", err)
	}
	return results, nil
}
