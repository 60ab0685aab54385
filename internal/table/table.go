// Package table turns raw query rows into a display-ready table.
package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Missing is rendered in place of unknown values such as an unrated bus.
const Missing = "N/A"

// Columns that receive special formatting when present.
const (
	ColDepartingTime = "departing_time"
	ColReachingTime  = "reaching_time"
	ColStarRating    = "star_rating"
)

type Cell struct {
	Text    string
	Missing bool
}

func (c Cell) String() string {
	if c.Missing {
		return Missing
	}
	return c.Text
}

// MarshalJSON encodes missing cells as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Missing {
		return []byte("null"), nil
	}
	return json.Marshal(c.Text)
}

type Row struct {
	Number int    `json:"number"`
	Cells  []Cell `json:"cells"`
}

type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func (t Table) Empty() bool { return len(t.Rows) == 0 }

func (t Table) Len() int { return len(t.Rows) }

// Build formats raw rows. Rows are numbered from 1 in input order.
func Build(columns []string, raw [][]any) (Table, error) {
	t := Table{Columns: append([]string(nil), columns...), Rows: make([]Row, 0, len(raw))}
	for i, values := range raw {
		if len(values) != len(columns) {
			return Table{}, fmt.Errorf("row %d: got %d values for %d columns", i+1, len(values), len(columns))
		}
		row := Row{Number: i + 1, Cells: make([]Cell, len(values))}
		for j, v := range values {
			cell, err := formatCell(columns[j], v)
			if err != nil {
				return Table{}, fmt.Errorf("row %d column %s: %w", i+1, columns[j], err)
			}
			row.Cells[j] = cell
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func formatCell(column string, v any) (Cell, error) {
	if v == nil {
		return Cell{Missing: true}, nil
	}
	switch column {
	case ColDepartingTime, ColReachingTime:
		sec, err := toSeconds(v)
		if err != nil {
			return Cell{}, err
		}
		return Cell{Text: FormatSeconds(sec)}, nil
	case ColStarRating:
		r, err := toFloat(v)
		if err != nil {
			return Cell{}, err
		}
		if r == 0 {
			return Cell{Missing: true}, nil
		}
		return Cell{Text: formatRating(r)}, nil
	}
	return Cell{Text: toText(v)}, nil
}

// FormatSeconds renders elapsed seconds since midnight as zero-padded HH:MM.
// Hours are not wrapped at 24, so 90000 renders as "25:00".
func FormatSeconds(sec int64) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/3600, (sec%3600)/60)
}

func formatRating(r float64) string {
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func toSeconds(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int32:
		return int64(x), nil
	case int:
		return int64(x), nil
	case float64:
		return int64(math.Floor(x)), nil
	case time.Duration:
		return int64(x / time.Second), nil
	case []byte:
		return parseSeconds(string(x))
	case string:
		return parseSeconds(x)
	}
	return 0, fmt.Errorf("unsupported time value %T", v)
}

func parseSeconds(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(math.Floor(f)), nil
	}
	// HH:MM[:SS], hours may exceed 23
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time value %q", s)
	}
	var total int64
	mult := []int64{3600, 60, 1}
	for i, p := range parts {
		n, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time value %q", s)
		}
		total += int64(math.Floor(n * float64(mult[i])))
	}
	return total, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	}
	return 0, fmt.Errorf("unsupported numeric value %T", v)
}

func toText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
