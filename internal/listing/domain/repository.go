package domain

import (
	"context"
	"time"
)

// ListingQuery carries the predicates that can be pushed down to storage when
// listing published records. Attribute-level filters are applied in memory
// afterwards because the attributes payload is kind-discriminated.
type ListingQuery struct {
	Kind       *ListingKind
	IsFeatured *bool
	MinPrice   *float64
	MaxPrice   *float64
	Currency   *Currency
}

type ListingRepository interface {
	// Insert persists a new listing and returns its generated numeric id.
	// The serial code is not set here; see SetSerialCode.
	Insert(ctx context.Context, listing *Listing) (int64, error)
	// SetSerialCode writes the derived serial code onto an inserted row.
	SetSerialCode(ctx context.Context, id int64, code string) error
	// Update overwrites the mutable fields (price, currency, location,
	// attributes, is_featured, updated_at). Kind and serial code are never
	// touched.
	Update(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id int64) (*Listing, error)
	// FindPublished returns published listings matching the storage-level
	// predicates of q.
	FindPublished(ctx context.Context, q ListingQuery) ([]*Listing, error)
	// IncrementViewCount atomically bumps view_count by one.
	IncrementViewCount(ctx context.Context, id int64) error
	// ArchiveExpired flips an owner's published listings created before
	// cutoff to archived in one bulk update, returning how many changed.
	ArchiveExpired(ctx context.Context, ownerID string, cutoff time.Time) (int64, error)
	// Republish sets status to published and resets created_at/updated_at,
	// deliberately making the listing look newly posted.
	Republish(ctx context.Context, id int64, now time.Time) error
	Delete(ctx context.Context, id int64) error
}

type TranslationRepository interface {
	Insert(ctx context.Context, t *Translation) error
	// Upsert overwrites the (listing, language) row or inserts it when
	// missing.
	Upsert(ctx context.Context, t *Translation) error
	FindByListingID(ctx context.Context, listingID int64) ([]*Translation, error)
	FindByListingIDs(ctx context.Context, listingIDs []int64) (map[int64][]*Translation, error)
	DeleteByListingID(ctx context.Context, listingID int64) error
}

type MediaRepository interface {
	InsertMany(ctx context.Context, items []*Media) error
	// FindByListingID returns media sorted by order ascending.
	FindByListingID(ctx context.Context, listingID int64) ([]*Media, error)
	FindByListingIDs(ctx context.Context, listingIDs []int64) (map[int64][]*Media, error)
	DeleteByListingID(ctx context.Context, listingID int64) error
}

// Transactor runs fn atomically: every repository call made with the context
// passed to fn commits or rolls back as one unit.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
