package trip

// Known category literals used by the telematics exports. Unrecognized
// categories are passed through unchanged.
const (
	CategoryPrivate       = "Privat"
	CategoryWork          = "Arbete"
	CategoryUncategorized = "Okategoriserat"
)

// KnownCategories lists the category keywords in export order. The legacy
// single-line layout is split on these, so the list must match the source
// system exactly.
var KnownCategories = []string{CategoryPrivate, CategoryWork, CategoryUncategorized}

// Trip represents one logged vehicle journey.
type Trip struct {
	// ID is the database row identifier (0 before insert)
	ID int64 `json:"id"`

	// Category is one of the known category literals, or an
	// unrecognized pass-through string
	Category string `json:"category"`

	// StartDate is the journey start timestamp as exported (not normalized)
	StartDate string `json:"start_date"`

	// OdometerStart is the odometer reading at departure, in km
	OdometerStart int `json:"odometer_start"`

	// StartPosition is the free-text departure location
	StartPosition string `json:"start_position"`

	// EndDate is the journey end timestamp as exported
	EndDate string `json:"end_date"`

	// OdometerEnd is the odometer reading at arrival, in km
	OdometerEnd int `json:"odometer_end"`

	// EndDestination is the free-text arrival location
	EndDestination string `json:"end_destination"`

	// Duration is the free-text elapsed time, e.g. "1h 20m"
	Duration string `json:"duration"`

	// Distance is the trip length in kilometers
	Distance float64 `json:"distance"`

	// FuelConsumption is a unit-suffixed magnitude string, e.g. "3,2 l".
	// The unit lives inside the string; ParseAmount extracts the number.
	FuelConsumption string `json:"fuel_consumption"`

	// Title is the free-text trip title
	Title string `json:"title"`

	// BatteryConsumption is a unit-suffixed magnitude string, e.g. "5,1 kWh"
	BatteryConsumption string `json:"battery_consumption"`

	// BatteryRegeneration is a unit-suffixed magnitude string
	BatteryRegeneration string `json:"battery_regeneration"`

	// Notes is user-editable free text (mutable after import)
	Notes string `json:"notes"`

	// CreatedAt is the Unix timestamp when the row was inserted
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp when the row was last changed
	UpdatedAt int64 `json:"updated_at"`
}
