package redbus

import (
	"errors"
	"testing"
)

func TestFilterValidate(t *testing.T) {
	tests := []struct {
		name    string
		state   string
		route   string
		wantErr bool
	}{
		{"both selected", "Karnataka", "Route-12", false},
		{"state placeholder", StatePlaceholder, "Route-12", true},
		{"route placeholder", "Karnataka", RoutePlaceholder, true},
		{"empty state", "", "Route-12", true},
		{"empty route", "Karnataka", "", true},
		{"nothing selected", StatePlaceholder, RoutePlaceholder, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilter()
			f.State = tt.state
			f.Route = tt.route
			err := f.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("Validate() = %v, want validation failure", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestFilterAnyBusType(t *testing.T) {
	for _, bt := range []string{"", AllBusTypes} {
		if !(Filter{BusType: bt}).AnyBusType() {
			t.Errorf("AnyBusType(%q) = false, want true", bt)
		}
	}
	if (Filter{BusType: "A/C Sleeper"}).AnyBusType() {
		t.Error("AnyBusType(\"A/C Sleeper\") = true, want false")
	}
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	err := ConnectionError(cause)
	if !errors.Is(err, ErrConnection) {
		t.Errorf("ConnectionError not matched by ErrConnection: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("ConnectionError lost its cause: %v", err)
	}
	if errors.Is(err, ErrQuery) {
		t.Error("ConnectionError must not match ErrQuery")
	}

	qerr := QueryError("fetch states", cause)
	if !errors.Is(qerr, ErrQuery) || !errors.Is(qerr, cause) {
		t.Errorf("QueryError = %v, want ErrQuery wrapping cause", qerr)
	}

	if ConnectionError(nil) != nil || QueryError("x", nil) != nil {
		t.Error("wrapping nil must return nil")
	}
}
