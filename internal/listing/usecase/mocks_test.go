package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
)

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Insert(ctx context.Context, listing *domain.Listing) (int64, error) {
	args := m.Called(ctx, listing)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockListingRepository) SetSerialCode(ctx context.Context, id int64, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}
func (m *MockListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepository) FindByID(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepository) FindPublished(ctx context.Context, q domain.ListingQuery) ([]*domain.Listing, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}
func (m *MockListingRepository) IncrementViewCount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockListingRepository) ArchiveExpired(ctx context.Context, ownerID string, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockListingRepository) Republish(ctx context.Context, id int64, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}
func (m *MockListingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTranslationRepository struct{ mock.Mock }

func (m *MockTranslationRepository) Insert(ctx context.Context, t *domain.Translation) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTranslationRepository) Upsert(ctx context.Context, t *domain.Translation) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTranslationRepository) FindByListingID(ctx context.Context, listingID int64) ([]*domain.Translation, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Translation), args.Error(1)
}
func (m *MockTranslationRepository) FindByListingIDs(ctx context.Context, listingIDs []int64) (map[int64][]*domain.Translation, error) {
	args := m.Called(ctx, listingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]*domain.Translation), args.Error(1)
}
func (m *MockTranslationRepository) DeleteByListingID(ctx context.Context, listingID int64) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type MockMediaRepository struct{ mock.Mock }

func (m *MockMediaRepository) InsertMany(ctx context.Context, items []*domain.Media) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}
func (m *MockMediaRepository) FindByListingID(ctx context.Context, listingID int64) ([]*domain.Media, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Media), args.Error(1)
}
func (m *MockMediaRepository) FindByListingIDs(ctx context.Context, listingIDs []int64) (map[int64][]*domain.Media, error) {
	args := m.Called(ctx, listingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]*domain.Media), args.Error(1)
}
func (m *MockMediaRepository) DeleteByListingID(ctx context.Context, listingID int64) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

// fakeTransactor runs fn inline with the same context, matching how a real
// session would behave from the usecase's point of view.
type fakeTransactor struct {
	calls int
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	t.calls++
	return fn(ctx)
}

// fakeTranslator returns "<lang>:<text>" so tests can assert per-language
// outputs deterministically.
type fakeTranslator struct {
	failLanguage string
	err          error
}

func (f *fakeTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if f.failLanguage != "" && targetLanguage == f.failLanguage {
		return "", f.err
	}
	return targetLanguage + ":" + text, nil
}

// passthroughSanitizer leaves text alone; sanitization itself is covered by
// the bluemonday adapter tests.
type passthroughSanitizer struct{}

func (passthroughSanitizer) SanitizeTitle(text string) string       { return text }
func (passthroughSanitizer) SanitizeDescription(text string) string { return text }

type MockCache struct{ mock.Mock }

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishListingCreated(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockEventPublisher) PublishListingUpdated(ctx context.Context, listingID int64) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}
func (m *MockEventPublisher) PublishListingRepublished(ctx context.Context, listingID int64) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}
func (m *MockEventPublisher) PublishListingsArchived(ctx context.Context, ownerID string, count int64) error {
	args := m.Called(ctx, ownerID, count)
	return args.Error(0)
}
