package web

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"redbus-search/internal/redbus"
	"redbus-search/internal/search"
)

// parseSearchForm reads the search page parameters. Missing or invalid
// values fall back to the defaults, ranges are clamped to the slider bounds
// and snapped to the slider step.
func parseSearchForm(q url.Values) search.Form {
	f := redbus.DefaultFilter()

	if v := strings.TrimSpace(q.Get("state")); v != "" {
		f.State = v
	}
	// a route only makes sense once a state is chosen
	if v := strings.TrimSpace(q.Get("route")); v != "" && f.StateSelected() {
		f.Route = v
	}
	if v := strings.TrimSpace(q.Get("bus_type")); v != "" {
		f.BusType = v
	}

	f.MinPrice, f.MaxPrice = parseRange(q, "min_price", "max_price", redbus.PriceMin, redbus.PriceMax, redbus.PriceStep)
	f.MinRating, f.MaxRating = parseRange(q, "min_rating", "max_rating", redbus.RatingMin, redbus.RatingMax, redbus.RatingStep)

	return search.Form{
		Filter:    f,
		Submitted: q.Get("search") != "",
	}
}

func parseRange(q url.Values, loKey, hiKey string, lower, upper, step float64) (float64, float64) {
	lo := parseBound(q.Get(loKey), lower, lower, upper, step)
	hi := parseBound(q.Get(hiKey), upper, lower, upper, step)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

func parseBound(s string, def, lower, upper, step float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	v = lower + math.Round((v-lower)/step)*step
	return math.Max(lower, math.Min(upper, v))
}
