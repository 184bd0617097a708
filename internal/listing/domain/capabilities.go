package domain

import (
	"context"
	"errors"
	"time"
)

// Translator is the external translation capability. It is invoked once per
// (field, language) pair during the create fan-out; failures are not retried
// by the core.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// Sanitizer strips user-submitted markup before anything is persisted.
// Titles lose all markup; descriptions keep a safe subset.
type Sanitizer interface {
	SanitizeTitle(text string) string
	SanitizeDescription(text string) string
}

// AssetStore persists a binary asset and returns its public URL. The core
// only ever stores URLs.
type AssetStore interface {
	Store(ctx context.Context, filename string, data []byte) (string, error)
}

// ListingCache is a byte-level cache for projected listings.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ErrCacheMiss is returned by ListingCache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")
