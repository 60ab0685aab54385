package web

import (
	"net/url"
	"testing"

	"redbus-search/internal/redbus"
)

func TestParseSearchForm_Defaults(t *testing.T) {
	form := parseSearchForm(url.Values{})
	f := form.Filter
	if f != redbus.DefaultFilter() {
		t.Errorf("filter = %+v, want defaults", f)
	}
	if form.Submitted {
		t.Error("empty form must not be submitted")
	}
}

func TestParseSearchForm_Values(t *testing.T) {
	q := url.Values{
		"state":      {"Karnataka"},
		"route":      {"Route-12"},
		"bus_type":   {"A/C Sleeper"},
		"min_price":  {"540"},
		"max_price":  {"9999"},
		"min_rating": {"2.4"},
		"max_rating": {"4"},
		"search":     {"1"},
	}
	form := parseSearchForm(q)
	f := form.Filter
	if f.State != "Karnataka" || f.Route != "Route-12" || f.BusType != "A/C Sleeper" {
		t.Errorf("selection = %+v", f)
	}
	if f.MinPrice != 500 || f.MaxPrice != 3000 {
		t.Errorf("price = [%v, %v], want [500, 3000]", f.MinPrice, f.MaxPrice)
	}
	if f.MinRating != 2 || f.MaxRating != 4 {
		t.Errorf("rating = [%v, %v], want [2, 4]", f.MinRating, f.MaxRating)
	}
	if !form.Submitted {
		t.Error("form should be submitted")
	}
}

func TestParseSearchForm_RouteIgnoredWithoutState(t *testing.T) {
	form := parseSearchForm(url.Values{"route": {"Route-12"}})
	if form.Filter.Route != redbus.RoutePlaceholder {
		t.Errorf("route = %q, want placeholder", form.Filter.Route)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi string
		want   [2]float64
	}{
		{"missing", "", "", [2]float64{0, 3000}},
		{"garbage", "abc", "NaN", [2]float64{0, 3000}},
		{"negative clamps", "-500", "1000", [2]float64{0, 1000}},
		{"reversed swaps", "2000", "1000", [2]float64{1000, 2000}},
		{"snaps to step", "149", "151", [2]float64{100, 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{"lo": {tt.lo}, "hi": {tt.hi}}
			lo, hi := parseRange(q, "lo", "hi", redbus.PriceMin, redbus.PriceMax, redbus.PriceStep)
			if lo != tt.want[0] || hi != tt.want[1] {
				t.Errorf("parseRange = [%v, %v], want %v", lo, hi, tt.want)
			}
		})
	}
}
