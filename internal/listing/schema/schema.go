// Package schema is the attribute schema registry: it validates an incoming
// listing submission against exactly one of the three attribute shapes,
// selected by the kind discriminator, and narrows the raw payload into the
// matching typed attributes.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
)

// Submission is a raw create/update payload. Attributes stays undecoded until
// the kind discriminator has been resolved.
type Submission struct {
	Kind        string          `json:"kind"`
	Price       float64         `json:"price"`
	Currency    string          `json:"currency"`
	Location    domain.Location `json:"location"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	IsFeatured  bool            `json:"isFeatured"`
	Attributes  json.RawMessage `json:"attributes"`
}

// ValidationError maps offending field paths to their messages. A submission
// is never partially accepted: any entry rejects the whole payload.
type ValidationError struct {
	Fields map[string][]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) add(path, msg string) {
	e.Fields[path] = append(e.Fields[path], msg)
}

func (e *ValidationError) empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed:")
	for path, msgs := range e.Fields {
		fmt.Fprintf(&b, " %s: %s;", path, strings.Join(msgs, ", "))
	}
	return strings.TrimSuffix(b.String(), ";")
}

const (
	minTitleLen       = 10
	minDescriptionLen = 20
	minVehicleYear    = 1900
)

// Validate checks the shared envelope and the kind-selected attribute shape.
// On success it returns the narrowed attributes; on failure it returns a
// field-scoped ValidationError and nil attributes. Storage is never touched
// here.
func Validate(sub Submission) (domain.Attributes, *ValidationError) {
	verr := newValidationError()

	kind := domain.ListingKind(sub.Kind)
	if !kind.IsValid() {
		verr.add("kind", fmt.Sprintf("unknown listing kind %q", sub.Kind))
		return nil, verr
	}

	validateEnvelope(sub, verr)

	var attrs domain.Attributes
	switch kind {
	case domain.KindRealEstate:
		attrs = validateRealEstate(sub.Attributes, verr)
	case domain.KindVehicle:
		attrs = validateVehicle(sub.Attributes, verr)
	case domain.KindPart:
		attrs = validatePart(sub.Attributes, verr)
	}

	if !verr.empty() {
		return nil, verr
	}
	return attrs, nil
}

func validateEnvelope(sub Submission, verr *ValidationError) {
	if sub.Price <= 0 {
		verr.add("price", "must be greater than zero")
	}
	if !domain.Currency(sub.Currency).IsValid() {
		verr.add("currency", "must be one of USD, EUR, TRY")
	}
	if strings.TrimSpace(sub.Location.City) == "" {
		verr.add("location.city", "is required")
	}
	if strings.TrimSpace(sub.Location.Country) == "" {
		verr.add("location.country", "is required")
	}
	if sub.Location.Lat < -90 || sub.Location.Lat > 90 {
		verr.add("location.lat", "must be between -90 and 90")
	}
	if sub.Location.Lng < -180 || sub.Location.Lng > 180 {
		verr.add("location.lng", "must be between -180 and 180")
	}
	// Minimum lengths count characters, not bytes; Turkish and Cyrillic
	// titles are multibyte in UTF-8.
	if utf8.RuneCountInString(strings.TrimSpace(sub.Title)) < minTitleLen {
		verr.add("title", fmt.Sprintf("must be at least %d characters", minTitleLen))
	}
	if utf8.RuneCountInString(strings.TrimSpace(sub.Description)) < minDescriptionLen {
		verr.add("description", fmt.Sprintf("must be at least %d characters", minDescriptionLen))
	}
	for i, img := range sub.Images {
		if strings.TrimSpace(img) == "" {
			verr.add(fmt.Sprintf("images.%d", i), "must not be empty")
		}
	}
}

// decodeAttributes decodes raw into dst, rejecting fields that do not belong
// to the selected shape. Cross-kind field leakage is a validation error, not
// something to silently drop.
func decodeAttributes(raw json.RawMessage, dst any, verr *ValidationError) bool {
	if len(raw) == 0 {
		verr.add("attributes", "is required")
		return false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		verr.add("attributes", err.Error())
		return false
	}
	return true
}

func validateRealEstate(raw json.RawMessage, verr *ValidationError) domain.Attributes {
	var a domain.RealEstateAttributes
	if !decodeAttributes(raw, &a, verr) {
		return nil
	}

	if a.Bathrooms < 0 {
		verr.add("attributes.bathrooms", "must not be negative")
	}
	if a.WC < 0 {
		verr.add("attributes.wc", "must not be negative")
	}
	if a.Area <= 0 {
		verr.add("attributes.area", "must be greater than zero")
	}
	if a.NetArea <= 0 {
		verr.add("attributes.netArea", "must be greater than zero")
	}
	if a.ListingType == "" {
		a.ListingType = domain.ListingTypeSale
	}
	if a.ListingType != domain.ListingTypeSale && a.ListingType != domain.ListingTypeRent {
		verr.add("attributes.listingType", "must be Sale or Rent")
	}
	if a.TotalFloors != 0 && a.TotalFloors < 1 {
		verr.add("attributes.totalFloors", "must be at least 1")
	}
	if a.Kitchen != "" && a.Kitchen != domain.KitchenOpen && a.Kitchen != domain.KitchenClosed {
		verr.add("attributes.kitchen", "must be Open or Closed")
	}
	a.Dues = normalizeOptionalAmount(a.Dues, "attributes.dues", verr)
	a.Deposit = normalizeOptionalAmount(a.Deposit, "attributes.deposit", verr)

	return a
}

// normalizeOptionalAmount coerces NaN to absent and rejects negatives.
func normalizeOptionalAmount(v *float64, path string, verr *ValidationError) *float64 {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) {
		return nil
	}
	if *v < 0 {
		verr.add(path, "must not be negative")
	}
	return v
}

func validateVehicle(raw json.RawMessage, verr *ValidationError) domain.Attributes {
	var a domain.VehicleAttributes
	if !decodeAttributes(raw, &a, verr) {
		return nil
	}

	if strings.TrimSpace(a.PropertyType) == "" {
		verr.add("attributes.propertyType", "brand is required")
	}
	if strings.TrimSpace(a.Model) == "" {
		verr.add("attributes.model", "is required")
	}
	maxYear := time.Now().Year() + 1
	if a.Year < minVehicleYear || a.Year > maxYear {
		verr.add("attributes.year", fmt.Sprintf("must be between %d and %d", minVehicleYear, maxYear))
	}
	if a.Km < 0 {
		verr.add("attributes.km", "must not be negative")
	}
	if strings.TrimSpace(a.CaseType) == "" {
		verr.add("attributes.caseType", "is required")
	}
	if a.Fuel != "" {
		switch a.Fuel {
		case domain.FuelGasoline, domain.FuelDiesel, domain.FuelLPG, domain.FuelElectric, domain.FuelHybrid:
		default:
			verr.add("attributes.fuel", "must be one of Gasoline, Diesel, LPG, Electric, Hybrid")
		}
	}
	if a.Gear != "" {
		switch a.Gear {
		case domain.GearManual, domain.GearAutomatic, domain.GearSemiAutomatic:
		default:
			verr.add("attributes.gear", "must be one of Manual, Automatic, Semi-Automatic")
		}
	}
	if strings.TrimSpace(a.Color) == "" {
		verr.add("attributes.color", "is required")
	}
	if a.ListingType == "" {
		a.ListingType = domain.ListingTypeSale
	}
	if a.ListingType != domain.ListingTypeSale && a.ListingType != domain.ListingTypeRent {
		verr.add("attributes.listingType", "must be Sale or Rent")
	}

	return a
}

func validatePart(raw json.RawMessage, verr *ValidationError) domain.Attributes {
	var a domain.PartAttributes
	if !decodeAttributes(raw, &a, verr) {
		return nil
	}

	if a.Condition == "" {
		a.Condition = domain.ConditionNew
	}
	if a.Condition != domain.ConditionNew && a.Condition != domain.ConditionUsed {
		verr.add("attributes.condition", "must be New or Used")
	}
	// Parts are sale-only; the type is a closed enum with a single member.
	if a.ListingType == "" {
		a.ListingType = domain.PartListingTypeSale
	}
	if a.ListingType != domain.PartListingTypeSale {
		verr.add("attributes.listingType", "parts can only be listed for sale")
	}

	return a
}
