package facet

import (
	"strings"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
)

// Vehicle sub-category buckets used by the counting pass.
const (
	VehicleAutomobile = "automobile"
	VehicleSUV        = "suv"
	VehicleMotorcycle = "motorcycle"
	VehicleElectric   = "electric"
	VehicleMinivan    = "minivan"
	VehicleCommercial = "commercial"
	VehicleDamaged    = "damaged"
)

// SaleRentCount is a total/sale/rent triple.
type SaleRentCount struct {
	Total int `json:"total"`
	Sale  int `json:"sale"`
	Rent  int `json:"rent"`
}

func (c *SaleRentCount) bump(listingType string) {
	c.Total++
	if listingType == domain.ListingTypeRent {
		c.Rent++
	} else {
		c.Sale++
	}
}

// RealEstateCategoryCounts carries per-category totals plus a breakdown per
// property type within the category.
type RealEstateCategoryCounts struct {
	SaleRentCount
	PropertyTypes map[string]*SaleRentCount `json:"propertyTypes"`
}

// VehicleSubCategoryCounts carries per-sub-category totals plus a brand
// breakdown for the sub-categories that have one.
type VehicleSubCategoryCounts struct {
	SaleRentCount
	Brands map[string]int `json:"brands,omitempty"`
}

type VehicleCounts struct {
	SaleRentCount
	SubCategories map[string]*VehicleSubCategoryCounts `json:"subCategories"`
}

type PartCounts struct {
	Total         int            `json:"total"`
	Sale          int            `json:"sale"`
	SubCategories map[string]int `json:"subCategories"`
}

// CategoryCounts is the nested facet aggregate shown in filter sidebars. It
// is rebuilt from scratch on every call and always reflects the published set
// at call time.
type CategoryCounts struct {
	RealEstate map[string]*RealEstateCategoryCounts `json:"realEstate"`
	Vehicle    VehicleCounts                        `json:"vehicle"`
	Part       PartCounts                           `json:"part"`
}

// brandBreakdown reports whether a vehicle sub-category gets a per-brand
// count.
func brandBreakdown(subCategory string) bool {
	switch subCategory {
	case VehicleAutomobile, VehicleSUV, VehicleMotorcycle:
		return true
	}
	return false
}

func vehicleSubCategory(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "automobile", "otomobil", "car":
		return VehicleAutomobile
	case "suv", "suv & pickup", "arazi":
		return VehicleSUV
	case "motorcycle", "motosiklet":
		return VehicleMotorcycle
	case "electric", "elektrikli":
		return VehicleElectric
	case "minivan", "minivan & panelvan":
		return VehicleMinivan
	case "commercial", "ticari":
		return VehicleCommercial
	case "damaged", "hasarlı":
		return VehicleDamaged
	}
	return ""
}

// Count builds the full facet aggregate in a single O(n) pass over the
// published listings.
func Count(listings []*domain.Listing) *CategoryCounts {
	counts := &CategoryCounts{
		RealEstate: map[string]*RealEstateCategoryCounts{
			CategoryHousing:   newRealEstateCategoryCounts(),
			CategoryWorkplace: newRealEstateCategoryCounts(),
			CategoryLand:      newRealEstateCategoryCounts(),
		},
		Vehicle: VehicleCounts{
			SubCategories: map[string]*VehicleSubCategoryCounts{},
		},
		Part: PartCounts{SubCategories: map[string]int{}},
	}

	for _, l := range listings {
		listingType := NormalizedListingType(l)
		switch a := l.Attributes.(type) {
		case domain.RealEstateAttributes:
			countRealEstate(counts, l, a, listingType)
		case domain.VehicleAttributes:
			countVehicle(counts, a, listingType)
		case domain.PartAttributes:
			countPart(counts, a, listingType)
		}
	}
	return counts
}

func newRealEstateCategoryCounts() *RealEstateCategoryCounts {
	return &RealEstateCategoryCounts{PropertyTypes: map[string]*SaleRentCount{}}
}

func countRealEstate(counts *CategoryCounts, l *domain.Listing, a domain.RealEstateAttributes, listingType string) {
	category := NormalizedCategory(l)
	if category == "" {
		return
	}
	// Only the pre-seeded canonical categories appear in the aggregate;
	// stored data with any other category is not counted.
	cat, ok := counts.RealEstate[category]
	if !ok {
		return
	}
	cat.bump(listingType)

	if a.PropertyType != "" {
		pt, ok := cat.PropertyTypes[a.PropertyType]
		if !ok {
			pt = &SaleRentCount{}
			cat.PropertyTypes[a.PropertyType] = pt
		}
		pt.bump(listingType)
	}
}

func countVehicle(counts *CategoryCounts, a domain.VehicleAttributes, listingType string) {
	counts.Vehicle.bump(listingType)

	sub := vehicleSubCategory(a.Category)
	if sub == "" {
		return
	}
	sc, ok := counts.Vehicle.SubCategories[sub]
	if !ok {
		sc = &VehicleSubCategoryCounts{}
		if brandBreakdown(sub) {
			sc.Brands = map[string]int{}
		}
		counts.Vehicle.SubCategories[sub] = sc
	}
	sc.bump(listingType)

	if sc.Brands != nil && a.PropertyType != "" {
		sc.Brands[a.PropertyType]++
	}
}

func countPart(counts *CategoryCounts, a domain.PartAttributes, listingType string) {
	counts.Part.Total++
	if listingType == domain.ListingTypeSale {
		counts.Part.Sale++
	}
	if a.Category != "" {
		counts.Part.SubCategories[a.Category]++
	}
}
