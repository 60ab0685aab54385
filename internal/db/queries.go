package db

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"redbus-search/internal/redbus"
)

// Query is SQL text plus its bind arguments. User-chosen values only ever
// travel in Args.
type Query struct {
	SQL  string
	Args []any
}

// Column identifies a categorical column usable for distinct lookups.
type Column struct {
	Table string
	Name  string
}

var (
	StateNames = Column{Table: "route_data", Name: "state_name"}
	BusTypes   = Column{Table: "bus_data", Name: "bus_type"}
)

var distinctColumns = map[Column]bool{
	StateNames: true,
	BusTypes:   true,
}

// DistinctValues builds the lookup used to populate a dropdown. Only known
// columns are accepted; identifiers are quoted.
func DistinctValues(c Column) (Query, error) {
	if !distinctColumns[c] {
		return Query{}, fmt.Errorf("distinct lookup not allowed on %s.%s", c.Table, c.Name)
	}
	col := pgx.Identifier{c.Name}.Sanitize()
	tbl := pgx.Identifier{c.Table}.Sanitize()
	return Query{
		SQL: fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s", col, tbl, col, col),
	}, nil
}

// RouteNamesForState lists the routes of one state.
func RouteNamesForState(state string) Query {
	return Query{
		SQL:  `SELECT route_name FROM route_data WHERE state_name = $1 AND route_name IS NOT NULL ORDER BY route_name`,
		Args: []any{state},
	}
}

const filteredSearchSQL = `
SELECT r.route_name,
       r.route_link,
       b.bus_name,
       b.bus_type,
       FLOOR(EXTRACT(EPOCH FROM b.departing_time))::bigint AS departing_time,
       b.duration,
       FLOOR(EXTRACT(EPOCH FROM b.reaching_time))::bigint AS reaching_time,
       b.star_rating::float8 AS star_rating,
       b.price::float8 AS price,
       b.seat_available
FROM route_data r
JOIN bus_data b ON r.route_no = b.bus_no
WHERE r.state_name = $1
  AND r.route_name = $2
  AND (b.bus_type = $3 OR $3 = 'All')
  AND b.star_rating BETWEEN $4 AND $5
  AND b.price BETWEEN $6 AND $7
ORDER BY b.departing_time, b.bus_name`

// FilteredSearch joins routes and buses under the filter. The wildcard bus
// type is resolved inside the query, so the search stays one round trip.
func FilteredSearch(f redbus.Filter) Query {
	busType := f.BusType
	if f.AnyBusType() {
		busType = redbus.AllBusTypes
	}
	return Query{
		SQL: filteredSearchSQL,
		Args: []any{
			f.State,
			f.Route,
			busType,
			f.MinRating,
			f.MaxRating,
			f.MinPrice,
			f.MaxPrice,
		},
	}
}
