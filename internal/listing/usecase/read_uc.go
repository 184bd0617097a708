package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
	"github.com/ilanmarket/listing-service/internal/listing/facet"
)

// PlaceholderImage is exposed by the list projection when a listing has no
// media. The rendering layer always receives at least one image.
const PlaceholderImage = "/images/placeholder.webp"

const listingCacheTTL = 5 * time.Minute

func listingCacheKey(id int64, locale string) string {
	return fmt.Sprintf("listing:%d:%s", id, locale)
}

// ProjectedListing is the view-ready shape of a listing: the stored record
// merged with its resolved translation and its ordered media URLs.
type ProjectedListing struct {
	ID          int64                `json:"id"`
	SerialCode  string               `json:"serialCode"`
	OwnerID     string               `json:"ownerId"`
	Kind        domain.ListingKind   `json:"kind"`
	Price       float64              `json:"price"`
	Currency    domain.Currency      `json:"currency"`
	Location    domain.Location      `json:"location"`
	Attributes  domain.Attributes    `json:"attributes"`
	Status      domain.ListingStatus `json:"status"`
	IsFeatured  bool                 `json:"isFeatured"`
	ViewCount   int64                `json:"viewCount"`
	Language    string               `json:"language"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Slug        string               `json:"slug"`
	Images      []string             `json:"images"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// UnmarshalJSON restores the kind-discriminated attributes into their
// concrete shape; the default decoder cannot fill an interface field.
func (p *ProjectedListing) UnmarshalJSON(data []byte) error {
	type alias ProjectedListing
	aux := struct {
		*alias
		Attributes json.RawMessage `json:"attributes"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Attributes) == 0 {
		return nil
	}
	switch p.Kind {
	case domain.KindRealEstate:
		var a domain.RealEstateAttributes
		if err := json.Unmarshal(aux.Attributes, &a); err != nil {
			return err
		}
		p.Attributes = a
	case domain.KindVehicle:
		var a domain.VehicleAttributes
		if err := json.Unmarshal(aux.Attributes, &a); err != nil {
			return err
		}
		p.Attributes = a
	case domain.KindPart:
		var a domain.PartAttributes
		if err := json.Unmarshal(aux.Attributes, &a); err != nil {
			return err
		}
		p.Attributes = a
	}
	return nil
}

// ListFilters is everything GetListings accepts: the storage-level predicates
// plus the in-memory facet filters.
type ListFilters struct {
	Query      facet.Filters
	Kind       *domain.ListingKind
	IsFeatured *bool
	MinPrice   *float64
	MaxPrice   *float64
	Currency   *domain.Currency
}

// ReadUsecase resolves stored listings into view-ready projections.
type ReadUsecase struct {
	listings     domain.ListingRepository
	translations domain.TranslationRepository
	media        domain.MediaRepository
	cache        domain.ListingCache
	logger       *zap.Logger
}

func NewReadUsecase(
	listings domain.ListingRepository,
	translations domain.TranslationRepository,
	media domain.MediaRepository,
	cache domain.ListingCache,
	logger *zap.Logger,
) *ReadUsecase {
	return &ReadUsecase{
		listings:     listings,
		translations: translations,
		media:        media,
		cache:        cache,
		logger:       logger,
	}
}

// GetListing loads one listing with its resolved translation and ordered
// media. A missing listing yields (nil, nil): not found is a result, not an
// error.
func (uc *ReadUsecase) GetListing(ctx context.Context, id int64, locale string) (*ProjectedListing, error) {
	locale = domain.ResolveLocale(locale)

	if uc.cache != nil {
		key := listingCacheKey(id, locale)
		if cached, err := uc.cache.Get(ctx, key); err == nil {
			var projected ProjectedListing
			if jsonErr := json.Unmarshal(cached, &projected); jsonErr == nil {
				return &projected, nil
			}
			// Corrupted entry; drop it and fall through to storage.
			_ = uc.cache.Delete(ctx, key)
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			uc.logger.Warn("listing cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, nil
		}
		return nil, err
	}

	translations, err := uc.translations.FindByListingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	media, err := uc.media.FindByListingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load media: %w", err)
	}

	projected := project(listing, translations, media, locale, false)

	if uc.cache != nil {
		if data, err := json.Marshal(projected); err == nil {
			key := listingCacheKey(id, locale)
			if setErr := uc.cache.Set(ctx, key, data, listingCacheTTL); setErr != nil {
				uc.logger.Warn("listing cache write failed", zap.String("key", key), zap.Error(setErr))
			}
		}
	}

	return projected, nil
}

// GetListings returns published listings matching the filters. Storage
// evaluates what it can (kind, featured, price range, currency); the facet
// predicates run in memory afterwards. Listings without media are projected
// with a singular placeholder image.
func (uc *ReadUsecase) GetListings(ctx context.Context, locale string, filters ListFilters) ([]*ProjectedListing, error) {
	locale = domain.ResolveLocale(locale)

	listings, err := uc.listings.FindPublished(ctx, domain.ListingQuery{
		Kind:       filters.Kind,
		IsFeatured: filters.IsFeatured,
		MinPrice:   filters.MinPrice,
		MaxPrice:   filters.MaxPrice,
		Currency:   filters.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("load published listings: %w", err)
	}

	listings = facet.Apply(listings, filters.Query)
	if len(listings) == 0 {
		return []*ProjectedListing{}, nil
	}

	ids := make([]int64, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	translationsByID, err := uc.translations.FindByListingIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	mediaByID, err := uc.media.FindByListingIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load media: %w", err)
	}

	projected := make([]*ProjectedListing, len(listings))
	for i, l := range listings {
		projected[i] = project(l, translationsByID[l.ID], mediaByID[l.ID], locale, true)
	}
	return projected, nil
}

// GetListingCounts rebuilds the facet aggregate from the published set in a
// single pass.
func (uc *ReadUsecase) GetListingCounts(ctx context.Context) (*facet.CategoryCounts, error) {
	listings, err := uc.listings.FindPublished(ctx, domain.ListingQuery{})
	if err != nil {
		return nil, fmt.Errorf("load published listings: %w", err)
	}
	return facet.Count(listings), nil
}

// project merges a listing with its resolved translation and sorted media.
// Resolution order: exact locale, then the English baseline, then whatever
// translation exists.
func project(l *domain.Listing, translations []*domain.Translation, media []*domain.Media, locale string, placeholder bool) *ProjectedListing {
	p := &ProjectedListing{
		ID:         l.ID,
		SerialCode: l.SerialCode,
		OwnerID:    l.OwnerID,
		Kind:       l.Kind,
		Price:      l.Price,
		Currency:   l.Currency,
		Location:   l.Location,
		Attributes: l.Attributes,
		Status:     l.Status,
		IsFeatured: l.IsFeatured,
		ViewCount:  l.ViewCount,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}

	if t := resolveTranslation(translations, locale); t != nil {
		p.Language = t.Language
		p.Title = t.Title
		p.Description = t.Description
		p.Slug = t.Slug
	}

	p.Images = projectImages(media, placeholder)
	return p
}

func resolveTranslation(translations []*domain.Translation, locale string) *domain.Translation {
	var fallback *domain.Translation
	for _, t := range translations {
		if t.Language == locale {
			return t
		}
		if t.Language == domain.FallbackLanguage {
			fallback = t
		}
	}
	if fallback != nil {
		return fallback
	}
	if len(translations) > 0 {
		return translations[0]
	}
	return nil
}

// projectImages flattens media to URLs ordered ascending, treating a missing
// order as 0. With placeholder set, an empty list becomes the singular
// placeholder image.
func projectImages(media []*domain.Media, placeholder bool) []string {
	if len(media) == 0 {
		if placeholder {
			return []string{PlaceholderImage}
		}
		return []string{}
	}

	sorted := make([]*domain.Media, len(media))
	copy(sorted, media)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].Order > sorted[j].Order; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	urls := make([]string, len(sorted))
	for i, m := range sorted {
		urls[i] = m.URL
	}
	return urls
}
