package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
)

// listingDocument is the stored shape of a listing. The numeric id doubles as
// the mongo _id so serial codes stay derivable from the key. Attributes are
// stored as raw bson and decoded by kind on the way out.
type listingDocument struct {
	ID         int64            `bson:"_id"`
	OwnerID    string           `bson:"owner_id"`
	Kind       string           `bson:"kind"`
	SerialCode string           `bson:"serial_code,omitempty"`
	Price      float64          `bson:"price"`
	Currency   string           `bson:"currency"`
	Location   locationDocument `bson:"location"`
	Attributes bson.Raw         `bson:"attributes"`
	Status     string           `bson:"status"`
	IsFeatured bool             `bson:"is_featured"`
	ViewCount  int64            `bson:"view_count"`
	CreatedAt  time.Time        `bson:"created_at"`
	UpdatedAt  time.Time        `bson:"updated_at"`
}

type locationDocument struct {
	City         string  `bson:"city"`
	District     string  `bson:"district,omitempty"`
	Neighborhood string  `bson:"neighborhood,omitempty"`
	Address      string  `bson:"address,omitempty"`
	Country      string  `bson:"country"`
	Lat          float64 `bson:"lat"`
	Lng          float64 `bson:"lng"`
}

type translationDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ListingID   int64              `bson:"listing_id"`
	Language    string             `bson:"language"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Slug        string             `bson:"slug"`
}

type mediaDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID int64              `bson:"listing_id"`
	URL       string             `bson:"url"`
	Kind      string             `bson:"kind"`
	Order     int                `bson:"order"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	attrs, err := marshalAttributes(l.Attributes)
	if err != nil {
		return nil, err
	}

	return &listingDocument{
		ID:         l.ID,
		OwnerID:    l.OwnerID,
		Kind:       string(l.Kind),
		SerialCode: l.SerialCode,
		Price:      l.Price,
		Currency:   string(l.Currency),
		Location: locationDocument{
			City:         l.Location.City,
			District:     l.Location.District,
			Neighborhood: l.Location.Neighborhood,
			Address:      l.Location.Address,
			Country:      l.Location.Country,
			Lat:          l.Location.Lat,
			Lng:          l.Location.Lng,
		},
		Attributes: attrs,
		Status:     string(l.Status),
		IsFeatured: l.IsFeatured,
		ViewCount:  l.ViewCount,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}, nil
}

func toDomainListing(d *listingDocument) (*domain.Listing, error) {
	if d == nil {
		return nil, nil
	}

	kind := domain.ListingKind(d.Kind)
	attrs, err := unmarshalAttributes(kind, d.Attributes)
	if err != nil {
		return nil, fmt.Errorf("listing %d: %w", d.ID, err)
	}

	return &domain.Listing{
		ID:         d.ID,
		OwnerID:    d.OwnerID,
		Kind:       kind,
		SerialCode: d.SerialCode,
		Price:      d.Price,
		Currency:   domain.Currency(d.Currency),
		Location: domain.Location{
			City:         d.Location.City,
			District:     d.Location.District,
			Neighborhood: d.Location.Neighborhood,
			Address:      d.Location.Address,
			Country:      d.Location.Country,
			Lat:          d.Location.Lat,
			Lng:          d.Location.Lng,
		},
		Attributes: attrs,
		Status:     domain.ListingStatus(d.Status),
		IsFeatured: d.IsFeatured,
		ViewCount:  d.ViewCount,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

func toDomainListings(docs []*listingDocument) ([]*domain.Listing, error) {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		l, err := toDomainListing(doc)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func marshalAttributes(attrs domain.Attributes) (bson.Raw, error) {
	if attrs == nil {
		return nil, nil
	}
	data, err := bson.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("marshal %s attributes: %w", attrs.Kind(), err)
	}
	return bson.Raw(data), nil
}

// unmarshalAttributes decodes the raw attribute payload into the concrete
// shape selected by kind.
func unmarshalAttributes(kind domain.ListingKind, raw bson.Raw) (domain.Attributes, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	switch kind {
	case domain.KindRealEstate:
		var a domain.RealEstateAttributes
		if err := bson.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("unmarshal real estate attributes: %w", err)
		}
		return a, nil
	case domain.KindVehicle:
		var a domain.VehicleAttributes
		if err := bson.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("unmarshal vehicle attributes: %w", err)
		}
		return a, nil
	case domain.KindPart:
		var a domain.PartAttributes
		if err := bson.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("unmarshal part attributes: %w", err)
		}
		return a, nil
	}
	return nil, fmt.Errorf("unknown listing kind %q", kind)
}

func toTranslationDocument(t *domain.Translation) *translationDocument {
	if t == nil {
		return nil
	}
	doc := &translationDocument{
		ListingID:   t.ListingID,
		Language:    t.Language,
		Title:       t.Title,
		Description: t.Description,
		Slug:        t.Slug,
	}
	if t.ID != "" {
		if id, err := primitive.ObjectIDFromHex(t.ID); err == nil {
			doc.ID = id
		}
	}
	return doc
}

func toDomainTranslation(d *translationDocument) *domain.Translation {
	if d == nil {
		return nil
	}
	return &domain.Translation{
		ID:          d.ID.Hex(),
		ListingID:   d.ListingID,
		Language:    d.Language,
		Title:       d.Title,
		Description: d.Description,
		Slug:        d.Slug,
	}
}

func toMediaDocument(m *domain.Media) *mediaDocument {
	if m == nil {
		return nil
	}
	doc := &mediaDocument{
		ListingID: m.ListingID,
		URL:       m.URL,
		Kind:      m.Kind,
		Order:     m.Order,
	}
	if m.ID != "" {
		if id, err := primitive.ObjectIDFromHex(m.ID); err == nil {
			doc.ID = id
		}
	}
	return doc
}

func toDomainMedia(d *mediaDocument) *domain.Media {
	if d == nil {
		return nil
	}
	return &domain.Media{
		ID:        d.ID.Hex(),
		ListingID: d.ListingID,
		URL:       d.URL,
		Kind:      d.Kind,
		Order:     d.Order,
	}
}
