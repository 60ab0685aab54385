package search

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"redbus-search/internal/db"
	mmetrics "redbus-search/internal/metrics"
	"redbus-search/internal/publisher"
	"redbus-search/internal/redbus"
	"redbus-search/internal/table"
	"redbus-search/internal/tracing"
)

// EventPublisher receives one message per completed filtered search.
type EventPublisher interface {
	PublishSearch(msg publisher.SearchMessage) error
}

type Options struct {
	SearchDelay  time.Duration // applied before results are shown
	QueryTimeout time.Duration // per query
	Metrics      *mmetrics.Collector
	Publisher    EventPublisher // optional
}

type Service struct {
	pool         *sql.DB
	searchDelay  time.Duration
	queryTimeout time.Duration
	metrics      *mmetrics.Collector
	pub          EventPublisher
	tracer       trace.Tracer
}

func NewService(pool *sql.DB, opts Options) *Service {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 10 * time.Second
	}
	return &Service{
		pool:         pool,
		searchDelay:  opts.SearchDelay,
		queryTimeout: opts.QueryTimeout,
		metrics:      opts.Metrics,
		pub:          opts.Publisher,
		tracer:       tracing.Tracer("search"),
	}
}

// Form is what the user submitted on the search page.
type Form struct {
	Filter    redbus.Filter
	Submitted bool
}

// View is everything the search page needs for one render.
type View struct {
	Form     Form
	States   []string
	Routes   []string
	BusTypes []string
	Warning  string
	Err      error
	Results  *table.Table
}

// Searched reports whether a filtered search ran and returned a table.
func (v *View) Searched() bool { return v.Results != nil }

// ErrorMessage is the user-facing text for v.Err.
func (v *View) ErrorMessage() string {
	switch {
	case v.Err == nil:
		return ""
	case errors.Is(v.Err, redbus.ErrConnection):
		return "Database connection failed"
	case errors.Is(v.Err, redbus.ErrQuery):
		return "Something went wrong while searching. Please try again."
	}
	return "Unexpected error"
}

// Render runs one search page render on a single connection: lookups for
// the dropdowns, validation, and the filtered search when submitted.
// Failures end the render and are reported in the returned View.
func (s *Service) Render(ctx context.Context, form Form) *View {
	ctx, span := s.tracer.Start(ctx, "search.render", trace.WithAttributes(
		attribute.Bool("search.submitted", form.Submitted),
	))
	defer span.End()

	v := &View{Form: form}

	conn, err := s.connect(ctx)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeConnection)
		if form.Submitted {
			s.metrics.ObserveSearch(mmetrics.OutcomeFailed)
		}
		v.Err = err
		return v
	}
	defer conn.Close()

	if v.States, err = s.states(ctx, conn); err != nil {
		return s.fail(span, v, err)
	}
	if form.Filter.StateSelected() {
		if v.Routes, err = s.routeNames(ctx, conn, form.Filter.State); err != nil {
			return s.fail(span, v, err)
		}
	}
	if v.BusTypes, err = s.busTypes(ctx, conn); err != nil {
		return s.fail(span, v, err)
	}

	if err := form.Filter.Validate(); err != nil {
		v.Warning = "Please select State and Route"
		if form.Submitted {
			s.metrics.ObserveSearch(mmetrics.OutcomeInvalid)
			tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		}
		return v
	}
	if !form.Submitted {
		return v
	}

	if err := wait(ctx, s.searchDelay); err != nil {
		return s.fail(span, v, err)
	}
	tbl, err := s.filtered(ctx, conn, form.Filter)
	if err != nil {
		return s.fail(span, v, err)
	}
	v.Results = &tbl
	span.SetAttributes(attribute.Int("search.results", tbl.Len()))
	return v
}

func (s *Service) fail(span trace.Span, v *View, err error) *View {
	tracing.RecordError(span, err, tracing.ErrorTypeQuery)
	if v.Form.Submitted {
		s.metrics.ObserveSearch(mmetrics.OutcomeFailed)
	}
	v.Err = err
	return v
}

// States returns the distinct state names.
func (s *Service) States(ctx context.Context) ([]string, error) {
	var out []string
	err := s.withConn(ctx, func(conn *db.Conn) (err error) {
		out, err = s.states(ctx, conn)
		return err
	})
	return out, err
}

// BusTypes returns the distinct bus types, without the wildcard.
func (s *Service) BusTypes(ctx context.Context) ([]string, error) {
	var out []string
	err := s.withConn(ctx, func(conn *db.Conn) (err error) {
		out, err = s.busTypes(ctx, conn)
		return err
	})
	return out, err
}

// RouteNames returns the routes of state.
func (s *Service) RouteNames(ctx context.Context, state string) ([]string, error) {
	if !(redbus.Filter{State: state}).StateSelected() {
		return nil, redbus.ErrNotSelected
	}
	var out []string
	err := s.withConn(ctx, func(conn *db.Conn) (err error) {
		out, err = s.routeNames(ctx, conn, state)
		return err
	})
	return out, err
}

// Search validates f and runs the filtered search without the UI delay.
func (s *Service) Search(ctx context.Context, f redbus.Filter) (table.Table, error) {
	if err := f.Validate(); err != nil {
		s.metrics.ObserveSearch(mmetrics.OutcomeInvalid)
		return table.Table{}, err
	}
	var tbl table.Table
	err := s.withConn(ctx, func(conn *db.Conn) (err error) {
		tbl, err = s.filtered(ctx, conn, f)
		return err
	})
	if err != nil {
		s.metrics.ObserveSearch(mmetrics.OutcomeFailed)
	}
	return tbl, err
}

// Ping checks that a connection can be obtained.
func (s *Service) Ping(ctx context.Context) error {
	return s.withConn(ctx, func(*db.Conn) error { return nil })
}

func (s *Service) withConn(ctx context.Context, fn func(conn *db.Conn) error) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func (s *Service) connect(ctx context.Context) (*db.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	conn, err := db.Connect(ctx, s.pool)
	if err != nil {
		s.metrics.ObserveConnectionFailure()
		slog.Error("database connection failed", "error", err)
		return nil, err
	}
	return conn, nil
}

func (s *Service) states(ctx context.Context, conn *db.Conn) ([]string, error) {
	var out []string
	err := s.run(ctx, "states", func(ctx context.Context) (err error) {
		out, err = db.FetchStates(ctx, conn)
		return err
	})
	return out, err
}

func (s *Service) busTypes(ctx context.Context, conn *db.Conn) ([]string, error) {
	var out []string
	err := s.run(ctx, "bus_types", func(ctx context.Context) (err error) {
		out, err = db.FetchBusTypes(ctx, conn)
		return err
	})
	return out, err
}

func (s *Service) routeNames(ctx context.Context, conn *db.Conn, state string) ([]string, error) {
	var out []string
	err := s.run(ctx, "routes", func(ctx context.Context) (err error) {
		out, err = db.FetchRouteNames(ctx, conn, state)
		return err
	})
	return out, err
}

func (s *Service) filtered(ctx context.Context, conn *db.Conn, f redbus.Filter) (table.Table, error) {
	var tbl table.Table
	err := s.run(ctx, "search", func(ctx context.Context) (err error) {
		tbl, err = db.FetchFiltered(ctx, conn, f)
		return err
	})
	if err != nil {
		return table.Table{}, err
	}
	if tbl.Empty() {
		s.metrics.ObserveSearch(mmetrics.OutcomeEmpty)
	} else {
		s.metrics.ObserveSearch(mmetrics.OutcomeOK)
	}
	s.publish(f, tbl.Len())
	return tbl, nil
}

// run executes one query under its own deadline, with a span and metrics.
func (s *Service) run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "db."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	s.metrics.ObserveQuery(name, time.Since(start), err)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeQuery)
		slog.Error("query failed", "query", name, "error", err)
	}
	return err
}

func (s *Service) publish(f redbus.Filter, results int) {
	if s.pub == nil {
		return
	}
	msg := publisher.SearchMessage{
		State:     f.State,
		Route:     f.Route,
		BusType:   f.BusType,
		MinPrice:  f.MinPrice,
		MaxPrice:  f.MaxPrice,
		MinRating: f.MinRating,
		MaxRating: f.MaxRating,
		Results:   results,
		Timestamp: time.Now().UTC(),
	}
	if err := s.pub.PublishSearch(msg); err != nil {
		slog.Warn("publish search event failed", "error", err)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
