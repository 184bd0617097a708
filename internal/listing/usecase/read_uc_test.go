package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
	"github.com/ilanmarket/listing-service/internal/listing/facet"
)

func newReadFixture(cache domain.ListingCache) (*ReadUsecase, *MockListingRepository, *MockTranslationRepository, *MockMediaRepository) {
	listings := new(MockListingRepository)
	translations := new(MockTranslationRepository)
	media := new(MockMediaRepository)
	uc := NewReadUsecase(listings, translations, media, cache, zap.NewNop())
	return uc, listings, translations, media
}

func storedVehicle(id int64) *domain.Listing {
	return &domain.Listing{
		ID:         id,
		OwnerID:    "owner-1",
		Kind:       domain.KindVehicle,
		SerialCode: domain.SerialCode(domain.KindVehicle, id),
		Price:      18500,
		Currency:   domain.CurrencyUSD,
		Location:   domain.Location{City: "Antalya", Country: "Türkiye"},
		Attributes: domain.VehicleAttributes{PropertyType: "Toyota", Model: "Corolla", Year: 2019, Km: 64000},
		Status:     domain.StatusPublished,
		CreatedAt:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGetListing_NotFoundIsNilNil(t *testing.T) {
	uc, listings, _, _ := newReadFixture(nil)

	listings.On("FindByID", mock.Anything, int64(99)).Return(nil, domain.ErrListingNotFound)

	projected, err := uc.GetListing(context.Background(), 99, "en")
	require.NoError(t, err)
	assert.Nil(t, projected)
}

func TestGetListing_LocaleFallback(t *testing.T) {
	uc, listings, translations, media := newReadFixture(nil)

	listings.On("FindByID", mock.Anything, int64(7)).Return(storedVehicle(7), nil)
	translations.On("FindByListingID", mock.Anything, int64(7)).Return([]*domain.Translation{
		{ListingID: 7, Language: "tr", Title: "Temiz Corolla", Slug: "temiz-corolla"},
		{ListingID: 7, Language: "en", Title: "Clean Corolla", Slug: "clean-corolla"},
	}, nil)
	media.On("FindByListingID", mock.Anything, int64(7)).Return([]*domain.Media{}, nil)

	// zh is unsupported, so the resolved locale is already en.
	projected, err := uc.GetListing(context.Background(), 7, "zh")
	require.NoError(t, err)
	assert.Equal(t, "en", projected.Language)
	assert.Equal(t, "Clean Corolla", projected.Title)
}

func TestGetListing_FirstAvailableWhenNoEnglishRow(t *testing.T) {
	uc, listings, translations, media := newReadFixture(nil)

	listings.On("FindByID", mock.Anything, int64(7)).Return(storedVehicle(7), nil)
	translations.On("FindByListingID", mock.Anything, int64(7)).Return([]*domain.Translation{
		{ListingID: 7, Language: "ru", Title: "Чистая Corolla"},
	}, nil)
	media.On("FindByListingID", mock.Anything, int64(7)).Return([]*domain.Media{}, nil)

	projected, err := uc.GetListing(context.Background(), 7, "ar")
	require.NoError(t, err)
	assert.Equal(t, "ru", projected.Language)
}

func TestGetListing_CacheHitSkipsStorage(t *testing.T) {
	cache := new(MockCache)
	uc, listings, _, _ := newReadFixture(cache)

	stored := project(storedVehicle(7), []*domain.Translation{
		{ListingID: 7, Language: "en", Title: "Clean Corolla"},
	}, nil, "en", false)
	data, err := json.Marshal(stored)
	require.NoError(t, err)

	cache.On("Get", mock.Anything, "listing:7:en").Return(data, nil)

	projected, err := uc.GetListing(context.Background(), 7, "en")
	require.NoError(t, err)
	assert.Equal(t, "Clean Corolla", projected.Title)

	attrs, ok := projected.Attributes.(domain.VehicleAttributes)
	require.True(t, ok, "cached attributes must round-trip to their concrete type")
	assert.Equal(t, "Toyota", attrs.PropertyType)

	listings.AssertNotCalled(t, "FindByID")
}

func TestGetListing_CacheMissFallsThroughAndWritesBack(t *testing.T) {
	cache := new(MockCache)
	uc, listings, translations, media := newReadFixture(cache)

	cache.On("Get", mock.Anything, "listing:7:en").Return(nil, domain.ErrCacheMiss)
	cache.On("Set", mock.Anything, "listing:7:en", mock.AnythingOfType("[]uint8"), listingCacheTTL).Return(nil)
	listings.On("FindByID", mock.Anything, int64(7)).Return(storedVehicle(7), nil)
	translations.On("FindByListingID", mock.Anything, int64(7)).Return([]*domain.Translation{
		{ListingID: 7, Language: "en", Title: "Clean Corolla"},
	}, nil)
	media.On("FindByListingID", mock.Anything, int64(7)).Return([]*domain.Media{}, nil)

	projected, err := uc.GetListing(context.Background(), 7, "en")
	require.NoError(t, err)
	assert.Equal(t, "Clean Corolla", projected.Title)
	cache.AssertExpectations(t)
}

func TestGetListing_CorruptedCacheEntryDropped(t *testing.T) {
	cache := new(MockCache)
	uc, listings, translations, media := newReadFixture(cache)

	cache.On("Get", mock.Anything, "listing:7:en").Return([]byte("{not json"), nil)
	cache.On("Delete", mock.Anything, "listing:7:en").Return(nil)
	cache.On("Set", mock.Anything, "listing:7:en", mock.Anything, listingCacheTTL).Return(nil)
	listings.On("FindByID", mock.Anything, int64(7)).Return(storedVehicle(7), nil)
	translations.On("FindByListingID", mock.Anything, int64(7)).Return([]*domain.Translation{}, nil)
	media.On("FindByListingID", mock.Anything, int64(7)).Return([]*domain.Media{}, nil)

	_, err := uc.GetListing(context.Background(), 7, "en")
	require.NoError(t, err)
	cache.AssertCalled(t, "Delete", mock.Anything, "listing:7:en")
}

func TestGetListing_MediaSortedByOrder(t *testing.T) {
	uc, listings, translations, media := newReadFixture(nil)

	listings.On("FindByID", mock.Anything, int64(7)).Return(storedVehicle(7), nil)
	translations.On("FindByListingID", mock.Anything, int64(7)).Return([]*domain.Translation{}, nil)
	media.On("FindByListingID", mock.Anything, int64(7)).Return([]*domain.Media{
		{ListingID: 7, URL: "https://cdn.example.com/c.jpg", Order: 2},
		{ListingID: 7, URL: "https://cdn.example.com/a.jpg", Order: 0},
		{ListingID: 7, URL: "https://cdn.example.com/b.jpg", Order: 1},
	}, nil)

	projected, err := uc.GetListing(context.Background(), 7, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
		"https://cdn.example.com/c.jpg",
	}, projected.Images)
}

func TestGetListing_NoPlaceholderOnDetail(t *testing.T) {
	uc, listings, translations, media := newReadFixture(nil)

	listings.On("FindByID", mock.Anything, int64(7)).Return(storedVehicle(7), nil)
	translations.On("FindByListingID", mock.Anything, int64(7)).Return([]*domain.Translation{}, nil)
	media.On("FindByListingID", mock.Anything, int64(7)).Return([]*domain.Media{}, nil)

	projected, err := uc.GetListing(context.Background(), 7, "en")
	require.NoError(t, err)
	assert.Empty(t, projected.Images)
}

func TestGetListings_PlaceholderForMissingMedia(t *testing.T) {
	uc, listings, translations, media := newReadFixture(nil)

	listings.On("FindPublished", mock.Anything, mock.AnythingOfType("domain.ListingQuery")).
		Return([]*domain.Listing{storedVehicle(7)}, nil)
	translations.On("FindByListingIDs", mock.Anything, []int64{7}).
		Return(map[int64][]*domain.Translation{}, nil)
	media.On("FindByListingIDs", mock.Anything, []int64{7}).
		Return(map[int64][]*domain.Media{}, nil)

	projected, err := uc.GetListings(context.Background(), "en", ListFilters{})
	require.NoError(t, err)
	require.Len(t, projected, 1)
	assert.Equal(t, []string{PlaceholderImage}, projected[0].Images)
}

func TestGetListings_FacetFilterRunsInMemory(t *testing.T) {
	uc, listings, translations, media := newReadFixture(nil)

	old := storedVehicle(1)
	old.Attributes = domain.VehicleAttributes{PropertyType: "Toyota", Year: 2012, Km: 180000}
	recent := storedVehicle(2)
	recent.Attributes = domain.VehicleAttributes{PropertyType: "Toyota", Year: 2021, Km: 30000}

	listings.On("FindPublished", mock.Anything, mock.Anything).
		Return([]*domain.Listing{old, recent}, nil)
	translations.On("FindByListingIDs", mock.Anything, []int64{2}).
		Return(map[int64][]*domain.Translation{}, nil)
	media.On("FindByListingIDs", mock.Anything, []int64{2}).
		Return(map[int64][]*domain.Media{}, nil)

	minYear := 2018
	projected, err := uc.GetListings(context.Background(), "en", ListFilters{
		Query: facet.Filters{MinYear: &minYear},
	})
	require.NoError(t, err)
	require.Len(t, projected, 1)
	assert.Equal(t, int64(2), projected[0].ID)
}

func TestGetListings_EmptyResultIsEmptySlice(t *testing.T) {
	uc, listings, _, _ := newReadFixture(nil)

	listings.On("FindPublished", mock.Anything, mock.Anything).Return([]*domain.Listing{}, nil)

	projected, err := uc.GetListings(context.Background(), "en", ListFilters{})
	require.NoError(t, err)
	assert.NotNil(t, projected)
	assert.Empty(t, projected)
}

func TestGetListingCounts_AggregatesPublishedSet(t *testing.T) {
	uc, listings, _, _ := newReadFixture(nil)

	house := storedVehicle(1)
	house.Kind = domain.KindRealEstate
	house.Attributes = domain.RealEstateAttributes{Category: "Konut", PropertyType: "Daire", ListingType: domain.ListingTypeSale}
	car := storedVehicle(2)

	listings.On("FindPublished", mock.Anything, domain.ListingQuery{}).
		Return([]*domain.Listing{house, car}, nil)

	counts, err := uc.GetListingCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts.RealEstate["Konut"].Total)
	assert.Equal(t, 1, counts.Vehicle.Total)
}
