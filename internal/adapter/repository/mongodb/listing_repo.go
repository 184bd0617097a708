package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
)

const (
	listingCollectionName = "listings"
	listingCounterName    = "listing_id"
)

// ListingRepository implements domain.ListingRepository on MongoDB. Numeric
// ids come from the counters collection so serial codes stay derivable.
type ListingRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewListingRepository(db *mongo.Database, logger *zap.Logger) (*ListingRepository, error) {
	collection := db.Collection(listingCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "kind", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "serial_code", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Error("failed to create indexes for listings collection", zap.Error(err))
	}

	return &ListingRepository{
		db:         db,
		collection: collection,
		logger:     logger.Named("ListingRepository"),
	}, nil
}

func (r *ListingRepository) Insert(ctx context.Context, listing *domain.Listing) (int64, error) {
	id, err := nextSequence(ctx, r.db, listingCounterName)
	if err != nil {
		return 0, err
	}
	listing.ID = id

	doc, err := toListingDocument(listing)
	if err != nil {
		return 0, err
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("failed to insert listing", zap.Error(err), zap.Int64("listing_id", id))
		return 0, fmt.Errorf("db insert failed: %w", err)
	}
	return id, nil
}

func (r *ListingRepository) SetSerialCode(ctx context.Context, id int64, code string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"serial_code": code}},
	)
	if err != nil {
		r.logger.Error("failed to set serial code", zap.Error(err), zap.Int64("listing_id", id))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	attrs, err := marshalAttributes(listing.Attributes)
	if err != nil {
		return err
	}

	// Kind, serial code, status, view count and created_at are deliberately
	// not part of the update payload.
	update := bson.M{
		"$set": bson.M{
			"price":    listing.Price,
			"currency": string(listing.Currency),
			"location": locationDocument{
				City:         listing.Location.City,
				District:     listing.Location.District,
				Neighborhood: listing.Location.Neighborhood,
				Address:      listing.Location.Address,
				Country:      listing.Location.Country,
				Lat:          listing.Location.Lat,
				Lng:          listing.Location.Lng,
			},
			"attributes":  attrs,
			"is_featured": listing.IsFeatured,
			"updated_at":  listing.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": listing.ID}, update)
	if err != nil {
		r.logger.Error("failed to update listing", zap.Error(err), zap.Int64("listing_id", listing.ID))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id int64) (*domain.Listing, error) {
	var doc listingDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("failed to find listing by id", zap.Error(err), zap.Int64("listing_id", id))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return toDomainListing(&doc)
}

func (r *ListingRepository) FindPublished(ctx context.Context, q domain.ListingQuery) ([]*domain.Listing, error) {
	filter := bson.M{"status": string(domain.StatusPublished)}
	if q.Kind != nil {
		filter["kind"] = string(*q.Kind)
	}
	if q.IsFeatured != nil {
		filter["is_featured"] = *q.IsFeatured
	}
	if q.Currency != nil {
		filter["currency"] = string(*q.Currency)
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		r.logger.Error("failed to find published listings", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("failed to decode published listings", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	return toDomainListings(docs)
}

func (r *ListingRepository) IncrementViewCount(ctx context.Context, id int64) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"view_count": int64(1)}},
	)
	if err != nil {
		r.logger.Error("failed to increment view count", zap.Error(err), zap.Int64("listing_id", id))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) ArchiveExpired(ctx context.Context, ownerID string, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"owner_id":   ownerID,
		"status":     string(domain.StatusPublished),
		"created_at": bson.M{"$lt": cutoff},
	}
	update := bson.M{
		"$set": bson.M{
			"status":     string(domain.StatusArchived),
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		r.logger.Error("failed to archive expired listings", zap.Error(err), zap.String("owner_id", ownerID))
		return 0, fmt.Errorf("db updatemany failed: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *ListingRepository) Republish(ctx context.Context, id int64, now time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"status":     string(domain.StatusPublished),
			"created_at": now,
			"updated_at": now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.logger.Error("failed to republish listing", zap.Error(err), zap.Int64("listing_id", id))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("failed to delete listing", zap.Error(err), zap.Int64("listing_id", id))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
