package domain

import (
	"fmt"
	"time"
)

type ListingKind string

const (
	KindRealEstate ListingKind = "real_estate"
	KindVehicle    ListingKind = "vehicle"
	KindPart       ListingKind = "part"
)

// IsValid reports whether k is one of the three supported kinds.
func (k ListingKind) IsValid() bool {
	switch k {
	case KindRealEstate, KindVehicle, KindPart:
		return true
	}
	return false
}

type ListingStatus string

const (
	StatusDraft     ListingStatus = "draft"
	StatusPublished ListingStatus = "published"
	StatusSold      ListingStatus = "sold"
	StatusArchived  ListingStatus = "archived"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyTRY Currency = "TRY"
)

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyTRY:
		return true
	}
	return false
}

// SupportedLanguages is the fixed set of translation languages. "en" is the
// universal fallback and is always written on create.
var SupportedLanguages = []string{"en", "tr", "ru", "ar"}

const FallbackLanguage = "en"

// ResolveLocale maps a requested locale onto the supported set, falling back
// to English for anything unknown.
func ResolveLocale(locale string) string {
	for _, lang := range SupportedLanguages {
		if lang == locale {
			return locale
		}
	}
	return FallbackLanguage
}

type Location struct {
	City         string  `json:"city"`
	District     string  `json:"district,omitempty"`
	Neighborhood string  `json:"neighborhood,omitempty"`
	Address      string  `json:"address,omitempty"`
	Country      string  `json:"country"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

// Listing is the aggregate root. Translations and media rows are owned by the
// listing and live in their own collections keyed by ListingID.
type Listing struct {
	ID         int64
	OwnerID    string
	Kind       ListingKind
	SerialCode string
	Price      float64
	Currency   Currency
	Location   Location
	Attributes Attributes
	Status     ListingStatus
	IsFeatured bool
	ViewCount  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Translation holds the localized title/description of a listing. At most one
// row exists per (listing, language).
type Translation struct {
	ID          string
	ListingID   int64
	Language    string
	Title       string
	Description string
	Slug        string
}

const MediaKindImage = "image"

// Media is one ordered media row. Order values are contiguous and zero-based;
// order 0 is the showcase image.
type Media struct {
	ID        string
	ListingID int64
	URL       string
	Kind      string
	Order     int
}

const serialCodeBase = 10000

// SerialPrefix returns the serial-code prefix for a listing kind.
func SerialPrefix(kind ListingKind) string {
	switch kind {
	case KindRealEstate:
		return "E"
	case KindVehicle:
		return "V"
	case KindPart:
		return "YP"
	}
	return ""
}

// SerialCode derives the public serial code from the kind and the generated
// numeric id, e.g. real_estate id 42 -> "E-10042".
func SerialCode(kind ListingKind, id int64) string {
	return fmt.Sprintf("%s-%d", SerialPrefix(kind), serialCodeBase+id)
}

// ExpirationWindow is how long a published listing stays live before
// CheckExpirations archives it, measured from CreatedAt. Republishing resets
// CreatedAt so the listing re-enters the window.
const ExpirationWindow = 90 * 24 * time.Hour
