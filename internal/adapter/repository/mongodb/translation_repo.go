package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
)

const translationCollectionName = "listing_translations"

// TranslationRepository implements domain.TranslationRepository on MongoDB.
// A unique index on (listing_id, language) enforces at most one row per
// locale.
type TranslationRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewTranslationRepository(db *mongo.Database, logger *zap.Logger) (*TranslationRepository, error) {
	collection := db.Collection(translationCollectionName)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "language", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Error("failed to create indexes for translations collection", zap.Error(err))
	}

	return &TranslationRepository{
		collection: collection,
		logger:     logger.Named("TranslationRepository"),
	}, nil
}

func (r *TranslationRepository) Insert(ctx context.Context, t *domain.Translation) error {
	doc := toTranslationDocument(t)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	t.ID = doc.ID.Hex()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("failed to insert translation", zap.Error(err),
			zap.Int64("listing_id", t.ListingID), zap.String("language", t.Language))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

func (r *TranslationRepository) Upsert(ctx context.Context, t *domain.Translation) error {
	filter := bson.M{"listing_id": t.ListingID, "language": t.Language}
	update := bson.M{
		"$set": bson.M{
			"title":       t.Title,
			"description": t.Description,
			"slug":        t.Slug,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		r.logger.Error("failed to upsert translation", zap.Error(err),
			zap.Int64("listing_id", t.ListingID), zap.String("language", t.Language))
		return fmt.Errorf("db upsert failed: %w", err)
	}
	return nil
}

func (r *TranslationRepository) FindByListingID(ctx context.Context, listingID int64) ([]*domain.Translation, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		r.logger.Error("failed to find translations", zap.Error(err), zap.Int64("listing_id", listingID))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*translationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	translations := make([]*domain.Translation, 0, len(docs))
	for _, doc := range docs {
		translations = append(translations, toDomainTranslation(doc))
	}
	return translations, nil
}

func (r *TranslationRepository) FindByListingIDs(ctx context.Context, listingIDs []int64) (map[int64][]*domain.Translation, error) {
	if len(listingIDs) == 0 {
		return map[int64][]*domain.Translation{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": bson.M{"$in": listingIDs}})
	if err != nil {
		r.logger.Error("failed to find translations by listing ids", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*translationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	byListing := make(map[int64][]*domain.Translation, len(listingIDs))
	for _, doc := range docs {
		byListing[doc.ListingID] = append(byListing[doc.ListingID], toDomainTranslation(doc))
	}
	return byListing, nil
}

func (r *TranslationRepository) DeleteByListingID(ctx context.Context, listingID int64) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"listing_id": listingID}); err != nil {
		r.logger.Error("failed to delete translations", zap.Error(err), zap.Int64("listing_id", listingID))
		return fmt.Errorf("db deletemany failed: %w", err)
	}
	return nil
}
