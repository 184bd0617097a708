// Package facet reconstructs category/brand facets and applies the compound
// attribute filters that cannot be pushed into the storage query because the
// attributes payload is kind-discriminated.
package facet

import (
	"regexp"
	"strings"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
)

// Canonical real-estate categories rebuilt by the counting pass.
const (
	CategoryHousing    = "Konut"
	CategoryWorkplace  = "İş Yeri"
	CategoryLand       = "Arsa"
	legacyCategoryName = "Emlak" // legacy synonym for Konut in stored data
)

// CityAll is the "unselected" sentinel for the city filter.
const CityAll = "all"

// Filters is the compound filter set applied in memory over published
// listings, in a fixed order with short-circuit rejection.
type Filters struct {
	City         string
	ListingType  string // Sale/Rent, canonical or legacy token
	Category     string
	PropertyType string
	Bedrooms     []string // option labels embedding "N+M" tokens
	MinYear      *int
	MaxYear      *int
	MinKm        *int
	MaxKm        *int
	Brand        string   // parts: case-insensitive substring
	Condition    []string // parts: set membership; empty is a no-op
}

// NormalizedCategory returns the category a listing is counted and filtered
// under, applying the legacy-data rules: real-estate listings stored under
// the legacy synonym map to Konut, and a missing category with a bedrooms
// attribute present is inferred as Konut.
func NormalizedCategory(l *domain.Listing) string {
	switch a := l.Attributes.(type) {
	case domain.RealEstateAttributes:
		if a.Category == legacyCategoryName {
			return CategoryHousing
		}
		if a.Category == "" && a.Bedrooms != "" {
			return CategoryHousing
		}
		return a.Category
	case domain.VehicleAttributes:
		return a.Category
	case domain.PartAttributes:
		return a.Category
	}
	return ""
}

// NormalizedListingType resolves a listing to "Sale" or "Rent". The legacy
// type field wins over listingType; both legacy localized tokens and the
// canonical ones are understood. Anything unresolved defaults to Sale.
func NormalizedListingType(l *domain.Listing) string {
	var legacy, canonical string
	switch a := l.Attributes.(type) {
	case domain.RealEstateAttributes:
		legacy, canonical = a.Type, a.ListingType
	case domain.VehicleAttributes:
		legacy, canonical = a.Type, a.ListingType
	case domain.PartAttributes:
		canonical = string(a.ListingType)
	}
	if t, ok := saleRentToken(legacy); ok {
		return t
	}
	if t, ok := saleRentToken(canonical); ok {
		return t
	}
	return domain.ListingTypeSale
}

func saleRentToken(s string) (string, bool) {
	switch s {
	case domain.ListingTypeSale, domain.ListingTypeSaleLegacy:
		return domain.ListingTypeSale, true
	case domain.ListingTypeRent, domain.ListingTypeRentLegacy:
		return domain.ListingTypeRent, true
	}
	return "", false
}

// bedroomsToken extracts the canonical "N+M" (or "N.5+M") token embedded in a
// filter option label like "3+1 Apartment".
var bedroomsToken = regexp.MustCompile(`\d+(?:\.5)?\+\d+`)

// Match evaluates the filter predicates in their fixed order and rejects the
// listing as soon as one fails.
func Match(l *domain.Listing, f Filters) bool {
	if f.City != "" && f.City != CityAll && l.Location.City != f.City {
		return false
	}

	if f.ListingType != "" {
		want, ok := saleRentToken(f.ListingType)
		if !ok || NormalizedListingType(l) != want {
			return false
		}
	}

	if f.Category != "" && NormalizedCategory(l) != normalizeCategoryFilter(f.Category) {
		return false
	}

	if f.PropertyType != "" && propertyType(l) != f.PropertyType {
		return false
	}

	if len(f.Bedrooms) > 0 && !matchBedrooms(l, f.Bedrooms) {
		return false
	}

	if !matchVehicleRanges(l, f) {
		return false
	}

	if f.Brand != "" && !matchPartBrand(l, f.Brand) {
		return false
	}

	if len(f.Condition) > 0 && !matchPartCondition(l, f.Condition) {
		return false
	}

	return true
}

func normalizeCategoryFilter(category string) string {
	if category == legacyCategoryName {
		return CategoryHousing
	}
	return category
}

func propertyType(l *domain.Listing) string {
	switch a := l.Attributes.(type) {
	case domain.RealEstateAttributes:
		return a.PropertyType
	case domain.VehicleAttributes:
		return a.PropertyType
	}
	return ""
}

func matchBedrooms(l *domain.Listing, options []string) bool {
	a, ok := l.Attributes.(domain.RealEstateAttributes)
	if !ok {
		return false
	}
	for _, opt := range options {
		if token := bedroomsToken.FindString(opt); token != "" && token == a.Bedrooms {
			return true
		}
	}
	return false
}

func matchVehicleRanges(l *domain.Listing, f Filters) bool {
	if f.MinYear == nil && f.MaxYear == nil && f.MinKm == nil && f.MaxKm == nil {
		return true
	}
	a, ok := l.Attributes.(domain.VehicleAttributes)
	if !ok {
		return false
	}
	if f.MinYear != nil && a.Year < *f.MinYear {
		return false
	}
	if f.MaxYear != nil && a.Year > *f.MaxYear {
		return false
	}
	if f.MinKm != nil && a.Km < *f.MinKm {
		return false
	}
	if f.MaxKm != nil && a.Km > *f.MaxKm {
		return false
	}
	return true
}

func matchPartBrand(l *domain.Listing, brand string) bool {
	a, ok := l.Attributes.(domain.PartAttributes)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(a.Brand), strings.ToLower(brand))
}

func matchPartCondition(l *domain.Listing, conditions []string) bool {
	a, ok := l.Attributes.(domain.PartAttributes)
	if !ok {
		return false
	}
	for _, c := range conditions {
		if a.Condition == c {
			return true
		}
	}
	return false
}

// Apply filters listings in memory, preserving input order.
func Apply(listings []*domain.Listing, f Filters) []*domain.Listing {
	out := make([]*domain.Listing, 0, len(listings))
	for _, l := range listings {
		if Match(l, f) {
			out = append(out, l)
		}
	}
	return out
}
