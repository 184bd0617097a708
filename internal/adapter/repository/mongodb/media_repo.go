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

const mediaCollectionName = "listing_media"

// MediaRepository implements domain.MediaRepository on MongoDB.
type MediaRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewMediaRepository(db *mongo.Database, logger *zap.Logger) (*MediaRepository, error) {
	collection := db.Collection(mediaCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "order", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Error("failed to create indexes for media collection", zap.Error(err))
	}

	return &MediaRepository{
		collection: collection,
		logger:     logger.Named("MediaRepository"),
	}, nil
}

func (r *MediaRepository) InsertMany(ctx context.Context, items []*domain.Media) error {
	if len(items) == 0 {
		return nil
	}

	docs := make([]interface{}, len(items))
	for i, item := range items {
		doc := toMediaDocument(item)
		if doc.ID.IsZero() {
			doc.ID = primitive.NewObjectID()
		}
		item.ID = doc.ID.Hex()
		docs[i] = doc
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		r.logger.Error("failed to insert media", zap.Error(err), zap.Int("count", len(items)))
		return fmt.Errorf("db insertmany failed: %w", err)
	}
	return nil
}

func (r *MediaRepository) FindByListingID(ctx context.Context, listingID int64) ([]*domain.Media, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID}, findOptions)
	if err != nil {
		r.logger.Error("failed to find media", zap.Error(err), zap.Int64("listing_id", listingID))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*mediaDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	media := make([]*domain.Media, 0, len(docs))
	for _, doc := range docs {
		media = append(media, toDomainMedia(doc))
	}
	return media, nil
}

func (r *MediaRepository) FindByListingIDs(ctx context.Context, listingIDs []int64) (map[int64][]*domain.Media, error) {
	if len(listingIDs) == 0 {
		return map[int64][]*domain.Media{}, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "listing_id", Value: 1}, {Key: "order", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": bson.M{"$in": listingIDs}}, findOptions)
	if err != nil {
		r.logger.Error("failed to find media by listing ids", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*mediaDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	byListing := make(map[int64][]*domain.Media, len(listingIDs))
	for _, doc := range docs {
		byListing[doc.ListingID] = append(byListing[doc.ListingID], toDomainMedia(doc))
	}
	return byListing, nil
}

func (r *MediaRepository) DeleteByListingID(ctx context.Context, listingID int64) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"listing_id": listingID}); err != nil {
		r.logger.Error("failed to delete media", zap.Error(err), zap.Int64("listing_id", listingID))
		return fmt.Errorf("db deletemany failed: %w", err)
	}
	return nil
}
