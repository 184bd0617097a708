package domain

// Attributes is the kind-discriminated payload of a listing. Exactly one of
// the three concrete shapes is valid for a given listing, selected by
// Listing.Kind. Consumers dispatch on Kind() rather than probing fields.
type Attributes interface {
	Kind() ListingKind
}

const (
	ListingTypeSale = "Sale"
	ListingTypeRent = "Rent"

	// Legacy localized sale/rent tokens still present in stored data. They
	// are accepted as equivalent to the canonical tokens when filtering.
	ListingTypeSaleLegacy = "Satılık"
	ListingTypeRentLegacy = "Kiralık"
)

const (
	KitchenOpen   = "Open"
	KitchenClosed = "Closed"
)

// RealEstateAttributes describes a real-estate listing. Bedrooms is a
// free-form bucket like "3+1" rather than a number.
type RealEstateAttributes struct {
	Bedrooms     string   `json:"bedrooms,omitempty" bson:"bedrooms,omitempty"`
	Bathrooms    int      `json:"bathrooms" bson:"bathrooms"`
	WC           int      `json:"wc" bson:"wc"`
	Area         float64  `json:"area" bson:"area"`
	NetArea      float64  `json:"netArea" bson:"net_area"`
	Category     string   `json:"category,omitempty" bson:"category,omitempty"`
	PropertyType string   `json:"propertyType,omitempty" bson:"property_type,omitempty"`
	ListingType  string   `json:"listingType,omitempty" bson:"listing_type,omitempty"`
	Type         string   `json:"type,omitempty" bson:"type,omitempty"` // legacy sale/rent token, read before ListingType
	BuildingAge  string   `json:"buildingAge,omitempty" bson:"building_age,omitempty"`
	FloorNumber  int      `json:"floorNumber" bson:"floor_number"`
	TotalFloors  int      `json:"totalFloors" bson:"total_floors"`
	Heating      string   `json:"heating,omitempty" bson:"heating,omitempty"`
	Kitchen      string   `json:"kitchen,omitempty" bson:"kitchen,omitempty"`
	Balcony      bool     `json:"balcony" bson:"balcony"`
	Elevator     bool     `json:"elevator" bson:"elevator"`
	Furnished    bool     `json:"furnished" bson:"furnished"`
	InComplex    bool     `json:"inComplex" bson:"in_complex"`
	HasPool      bool     `json:"hasPool" bson:"has_pool"`
	HasGarden    bool     `json:"hasGarden" bson:"has_garden"`
	HasGarage    bool     `json:"hasGarage" bson:"has_garage"`
	Parking      string   `json:"parking,omitempty" bson:"parking,omitempty"`
	ComplexName  string   `json:"complexName,omitempty" bson:"complex_name,omitempty"`
	Dues         *float64 `json:"dues,omitempty" bson:"dues,omitempty"`
	Deposit      *float64 `json:"deposit,omitempty" bson:"deposit,omitempty"`
	TitleStatus  string   `json:"titleStatus,omitempty" bson:"title_status,omitempty"`
	FromWhom     string   `json:"fromWhom,omitempty" bson:"from_whom,omitempty"`
}

func (RealEstateAttributes) Kind() ListingKind { return KindRealEstate }

const (
	FuelGasoline = "Gasoline"
	FuelDiesel   = "Diesel"
	FuelLPG      = "LPG"
	FuelElectric = "Electric"
	FuelHybrid   = "Hybrid"

	GearManual        = "Manual"
	GearAutomatic     = "Automatic"
	GearSemiAutomatic = "Semi-Automatic"
)

// VehicleAttributes describes a vehicle listing. PropertyType carries the
// brand, matching how the stored payload names it.
type VehicleAttributes struct {
	PropertyType       string `json:"propertyType" bson:"property_type"` // brand
	Model              string `json:"model" bson:"model"`
	Year               int    `json:"year" bson:"year"`
	Km                 int    `json:"km" bson:"km"`
	Category           string `json:"category,omitempty" bson:"category,omitempty"`
	CaseType           string `json:"caseType" bson:"case_type"`
	Fuel               string `json:"fuel,omitempty" bson:"fuel,omitempty"`
	Gear               string `json:"gear,omitempty" bson:"gear,omitempty"`
	Color              string `json:"color" bson:"color"`
	EnginePower        string `json:"enginePower,omitempty" bson:"engine_power,omitempty"`
	EngineDisplacement string `json:"engineDisplacement,omitempty" bson:"engine_displacement,omitempty"`
	Drivetrain         string `json:"drivetrain,omitempty" bson:"drivetrain,omitempty"`
	DamageStatus       string `json:"damageStatus,omitempty" bson:"damage_status,omitempty"`
	FromWhom           string `json:"fromWhom,omitempty" bson:"from_whom,omitempty"`
	Warranty           bool   `json:"warranty" bson:"warranty"`
	Swap               bool   `json:"swap" bson:"swap"`
	ListingType        string `json:"listingType,omitempty" bson:"listing_type,omitempty"`
	Type               string `json:"type,omitempty" bson:"type,omitempty"` // legacy sale/rent token
}

func (VehicleAttributes) Kind() ListingKind { return KindVehicle }

const (
	ConditionNew  = "New"
	ConditionUsed = "Used"
)

// PartListingType is the listing type of a spare part. Parts are sale-only,
// so the type admits a single value.
type PartListingType string

const PartListingTypeSale PartListingType = PartListingType(ListingTypeSale)

// PartAttributes describes a spare-part listing.
type PartAttributes struct {
	Condition     string          `json:"condition,omitempty" bson:"condition,omitempty"`
	Category      string          `json:"category,omitempty" bson:"category,omitempty"`
	Brand         string          `json:"brand,omitempty" bson:"brand,omitempty"`
	Compatibility string          `json:"compatibility,omitempty" bson:"compatibility,omitempty"`
	OemNo         string          `json:"oemNo,omitempty" bson:"oem_no,omitempty"`
	ListingType   PartListingType `json:"listingType,omitempty" bson:"listing_type,omitempty"`
}

func (PartAttributes) Kind() ListingKind { return KindPart }
