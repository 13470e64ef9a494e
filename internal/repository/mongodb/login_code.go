package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/otp"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const loginCodeCollection = "login_codes"

type loginCodeDocument struct {
	SessionID string    `bson:"_id"`
	Secret    string    `bson:"secret"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// LoginCodeStore is an otp.Store shared by every API instance. Mongo's TTL
// monitor removes expired documents; Take also rejects them in case the
// monitor has not run yet.
type LoginCodeStore struct {
	codes *mongo.Collection
	now   func() time.Time
}

func NewLoginCodeStore(ctx context.Context, db *database.MongoDB) (*LoginCodeStore, error) {
	codes := db.Collection(loginCodeCollection)

	if _, err := codes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}); err != nil {
		return nil, fmt.Errorf("create login_codes ttl index: %w", err)
	}

	return &LoginCodeStore{codes: codes, now: time.Now}, nil
}

// Save implements otp.Store.
func (s *LoginCodeStore) Save(ctx context.Context, sessionID string, entry otp.Entry) error {
	doc := loginCodeDocument{SessionID: sessionID, Secret: entry.Secret, ExpiresAt: entry.ExpiresAt}
	_, err := s.codes.ReplaceOne(ctx, bson.M{"_id": sessionID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save login code: %w", err)
	}
	return nil
}

// Take implements otp.Store.
func (s *LoginCodeStore) Take(ctx context.Context, sessionID string) (otp.Entry, error) {
	var doc loginCodeDocument
	err := s.codes.FindOneAndDelete(ctx, bson.M{"_id": sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return otp.Entry{}, otp.ErrCodeNotFound
	}
	if err != nil {
		return otp.Entry{}, fmt.Errorf("take login code: %w", err)
	}
	if !s.now().Before(doc.ExpiresAt) {
		return otp.Entry{}, otp.ErrCodeNotFound
	}
	return otp.Entry{Secret: doc.Secret, ExpiresAt: doc.ExpiresAt}, nil
}
