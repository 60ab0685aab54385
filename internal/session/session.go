// Package session carries the per-user page selector. The selector lives in
// a cookie and is injected into the request context, so handlers never read
// ambient state.
package session

import (
	"context"
	"net/http"
)

type Page string

const (
	Home   Page = "home"
	Search Page = "search"
)

const CookieName = "redbus_page"

// ParsePage maps a raw value to a known page; unknown values fall back to Home.
func ParsePage(s string) (Page, bool) {
	switch Page(s) {
	case Home:
		return Home, true
	case Search:
		return Search, true
	}
	return Home, false
}

type ctxKey struct{}

func WithPage(ctx context.Context, p Page) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PageFrom returns the page stored in ctx, Home if none.
func PageFrom(ctx context.Context) Page {
	if p, ok := ctx.Value(ctxKey{}).(Page); ok {
		return p
	}
	return Home
}

// Middleware reads the selector cookie into the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := Home
		if c, err := r.Cookie(CookieName); err == nil {
			page, _ = ParsePage(c.Value)
		}
		next.ServeHTTP(w, r.WithContext(WithPage(r.Context(), page)))
	})
}

// SetPage persists the selector for the rest of the browser session.
func SetPage(w http.ResponseWriter, p Page) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(p),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
