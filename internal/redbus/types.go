package redbus

// Placeholder selections shown before the user picks a value.
const (
	StatePlaceholder = "--- Select State ---"
	RoutePlaceholder = "--- Select Route ---"
)

// AllBusTypes is the wildcard bus type; it disables the type filter.
const AllBusTypes = "All"

// Slider bounds for the search form.
const (
	PriceMin  = 0
	PriceMax  = 3000
	PriceStep = 100

	RatingMin  = 0
	RatingMax  = 5
	RatingStep = 1
)

// Filter is the set of user selections driving the filtered search.
type Filter struct {
	State     string
	Route     string
	BusType   string
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
	MaxRating float64
}

// DefaultFilter returns a filter with nothing selected and full ranges.
func DefaultFilter() Filter {
	return Filter{
		State:     StatePlaceholder,
		Route:     RoutePlaceholder,
		BusType:   AllBusTypes,
		MinPrice:  PriceMin,
		MaxPrice:  PriceMax,
		MinRating: RatingMin,
		MaxRating: RatingMax,
	}
}

// StateSelected reports whether a real state was chosen.
func (f Filter) StateSelected() bool { return !isPlaceholder(f.State, StatePlaceholder) }

// RouteSelected reports whether a real route was chosen.
func (f Filter) RouteSelected() bool { return !isPlaceholder(f.Route, RoutePlaceholder) }

// AnyBusType reports whether the bus type filter is the wildcard.
func (f Filter) AnyBusType() bool { return f.BusType == "" || f.BusType == AllBusTypes }

// Validate checks the required selections. Both state and route must be chosen.
func (f Filter) Validate() error {
	if !f.StateSelected() || !f.RouteSelected() {
		return ErrNotSelected
	}
	return nil
}

func isPlaceholder(v, placeholder string) bool {
	return v == "" || v == placeholder
}
