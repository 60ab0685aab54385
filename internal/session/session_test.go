package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPageFrom_DefaultsToHome(t *testing.T) {
	if got := PageFrom(context.Background()); got != Home {
		t.Errorf("PageFrom(empty) = %q, want %q", got, Home)
	}
	ctx := WithPage(context.Background(), Search)
	if got := PageFrom(ctx); got != Search {
		t.Errorf("PageFrom = %q, want %q", got, Search)
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		in   string
		want Page
		ok   bool
	}{
		{"home", Home, true},
		{"search", Search, true},
		{"", Home, false},
		{"admin", Home, false},
	}
	for _, tt := range tests {
		got, ok := ParsePage(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePage(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMiddleware(t *testing.T) {
	var seen Page
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PageFrom(r.Context())
	}))

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   Page
	}{
		{"no cookie", nil, Home},
		{"search cookie", &http.Cookie{Name: CookieName, Value: "search"}, Search},
		{"garbage cookie", &http.Cookie{Name: CookieName, Value: "x"}, Home},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if seen != tt.want {
				t.Errorf("page = %q, want %q", seen, tt.want)
			}
		})
	}
}

func TestSetPage(t *testing.T) {
	rec := httptest.NewRecorder()
	SetPage(rec, Search)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	if cookies[0].Name != CookieName || cookies[0].Value != "search" {
		t.Errorf("cookie = %s=%s", cookies[0].Name, cookies[0].Value)
	}
}
