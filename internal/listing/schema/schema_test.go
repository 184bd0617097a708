package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
)

func validEnvelope(kind string, attrs string) Submission {
	return Submission{
		Kind:     kind,
		Price:    500000,
		Currency: "TRY",
		Location: domain.Location{
			City:    "Istanbul",
			Country: "TR",
			Lat:     41.0,
			Lng:     29.0,
		},
		Title:       "A perfectly fine listing title",
		Description: "A description that is long enough to pass validation.",
		Images:      []string{"/u/1.webp"},
		Attributes:  json.RawMessage(attrs),
	}
}

func TestValidateVehicle(t *testing.T) {
	sub := validEnvelope("vehicle", `{
		"propertyType": "BMW",
		"model": "320i",
		"year": 2020,
		"km": 50000,
		"fuel": "Gasoline",
		"gear": "Automatic",
		"caseType": "Sedan",
		"color": "White"
	}`)

	attrs, verr := Validate(sub)
	require.Nil(t, verr)

	v, ok := attrs.(domain.VehicleAttributes)
	require.True(t, ok)
	assert.Equal(t, domain.KindVehicle, v.Kind())
	assert.Equal(t, "BMW", v.PropertyType)
	assert.Equal(t, domain.ListingTypeSale, v.ListingType, "listingType defaults to Sale")
}

func TestValidateUnknownKind(t *testing.T) {
	sub := validEnvelope("boat", `{}`)

	attrs, verr := Validate(sub)
	require.NotNil(t, verr)
	assert.Nil(t, attrs)
	assert.Contains(t, verr.Fields, "kind")
}

func TestValidateCrossKindLeakage(t *testing.T) {
	// km belongs to vehicles; a real-estate submission carrying it must be
	// rejected, not silently accepted.
	sub := validEnvelope("real_estate", `{
		"bedrooms": "3+1",
		"area": 120,
		"netArea": 100,
		"km": 50000
	}`)

	attrs, verr := Validate(sub)
	require.NotNil(t, verr)
	assert.Nil(t, attrs)
	assert.Contains(t, verr.Fields, "attributes")
}

func TestValidateEnvelopeErrors(t *testing.T) {
	sub := validEnvelope("vehicle", `{
		"propertyType": "BMW",
		"model": "320i",
		"year": 2020,
		"caseType": "Sedan",
		"color": "White"
	}`)
	sub.Price = 0
	sub.Currency = "GBP"
	sub.Title = "short"
	sub.Location.City = ""
	sub.Location.Lat = 123

	_, verr := Validate(sub)
	require.NotNil(t, verr)
	for _, path := range []string{"price", "currency", "title", "location.city", "location.lat"} {
		assert.Contains(t, verr.Fields, path)
	}
}

func TestValidateLengthsCountRunes(t *testing.T) {
	sub := validEnvelope("vehicle", `{
		"propertyType": "BMW",
		"model": "320i",
		"year": 2020,
		"km": 50000,
		"caseType": "Sedan",
		"color": "White"
	}`)

	// 9 runes but 16 UTF-8 bytes; a byte-based check would let it through.
	sub.Title = "Şişlüöçğı"

	_, verr := Validate(sub)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields, "title")

	// 10 multibyte runes satisfy the minimum.
	sub.Title = "Şişlüöçğıİ"
	_, verr = Validate(sub)
	require.Nil(t, verr)
}

func TestValidateRealEstate(t *testing.T) {
	t.Run("valid with defaults", func(t *testing.T) {
		sub := validEnvelope("real_estate", `{
			"bedrooms": "3+1",
			"bathrooms": 2,
			"area": 140,
			"netArea": 120,
			"category": "Konut",
			"propertyType": "Apartment",
			"totalFloors": 5,
			"kitchen": "Open"
		}`)

		attrs, verr := Validate(sub)
		require.Nil(t, verr)

		re, ok := attrs.(domain.RealEstateAttributes)
		require.True(t, ok)
		assert.Equal(t, domain.ListingTypeSale, re.ListingType)
		assert.Equal(t, 0, re.WC, "wc defaults to zero")
	})

	t.Run("rejects bad numbers", func(t *testing.T) {
		sub := validEnvelope("real_estate", `{
			"bedrooms": "2+1",
			"bathrooms": -1,
			"area": 0,
			"netArea": -5,
			"dues": -100
		}`)

		_, verr := Validate(sub)
		require.NotNil(t, verr)
		for _, path := range []string{"attributes.bathrooms", "attributes.area", "attributes.netArea", "attributes.dues"} {
			assert.Contains(t, verr.Fields, path)
		}
	})

	t.Run("rejects bad kitchen and listing type", func(t *testing.T) {
		sub := validEnvelope("real_estate", `{
			"area": 100,
			"netArea": 90,
			"kitchen": "Huge",
			"listingType": "Lease"
		}`)

		_, verr := Validate(sub)
		require.NotNil(t, verr)
		assert.Contains(t, verr.Fields, "attributes.kitchen")
		assert.Contains(t, verr.Fields, "attributes.listingType")
	})
}

func TestValidateVehicleErrors(t *testing.T) {
	sub := validEnvelope("vehicle", `{
		"model": "",
		"year": 1850,
		"km": -1,
		"fuel": "Coal",
		"gear": "Tiptronic",
		"color": ""
	}`)

	_, verr := Validate(sub)
	require.NotNil(t, verr)
	for _, path := range []string{
		"attributes.propertyType",
		"attributes.model",
		"attributes.year",
		"attributes.km",
		"attributes.fuel",
		"attributes.gear",
		"attributes.caseType",
		"attributes.color",
	} {
		assert.Contains(t, verr.Fields, path)
	}
}

func TestValidatePart(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		sub := validEnvelope("part", `{"category": "Brakes", "brand": "Bosch"}`)

		attrs, verr := Validate(sub)
		require.Nil(t, verr)

		p, ok := attrs.(domain.PartAttributes)
		require.True(t, ok)
		assert.Equal(t, domain.ConditionNew, p.Condition)
		assert.Equal(t, domain.PartListingTypeSale, p.ListingType)
	})

	t.Run("parts cannot be rented", func(t *testing.T) {
		sub := validEnvelope("part", `{"condition": "Used", "listingType": "Rent"}`)

		_, verr := Validate(sub)
		require.NotNil(t, verr)
		assert.Contains(t, verr.Fields, "attributes.listingType")
	})

	t.Run("bad condition", func(t *testing.T) {
		sub := validEnvelope("part", `{"condition": "Refurbished"}`)

		_, verr := Validate(sub)
		require.NotNil(t, verr)
		assert.Contains(t, verr.Fields, "attributes.condition")
	})
}

func TestValidateMissingAttributes(t *testing.T) {
	sub := validEnvelope("vehicle", ``)
	sub.Attributes = nil

	_, verr := Validate(sub)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields, "attributes")
}
