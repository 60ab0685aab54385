package web

import (
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"redbus-search/internal/table"
)

var titleCase = cases.Title(language.English)

var funcMap = template.FuncMap{
	// "route_link" -> "Route Link"
	"label": func(col string) string {
		return titleCase.String(strings.ReplaceAll(col, "_", " "))
	},
	"isLink": func(col string) bool { return col == "route_link" },
	"cell": func(row table.Row, i int) table.Cell {
		if i < 0 || i >= len(row.Cells) {
			return table.Cell{Missing: true}
		}
		return row.Cells[i]
	},
}

var pages = template.Must(template.New("").Funcs(funcMap).Parse(tmplBase + tmplHome + tmplSearch))

const tmplBase = `
{{define "top"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Redbus - Search and Book Your Bus</title>
<style>
  body { margin: 0; font-family: system-ui, sans-serif; display: flex; min-height: 100vh; color: #1f2937; }
  nav { width: 14rem; background: #f3f4f6; padding: 1.5rem 1rem; }
  nav h2 { margin: 0 0 .25rem; }
  nav p { margin: 0 0 1rem; color: #6b7280; }
  nav button { display: block; width: 100%; margin-bottom: .5rem; padding: .5rem; cursor: pointer; }
  main { flex: 1; padding: 1.5rem 2rem; }
  h1 span { color: #d32f2f; }
  .warning { background: #fff7e6; border: 1px solid #f5c26b; padding: .75rem; border-radius: 4px; }
  .error { background: #fdecea; border: 1px solid #f28b82; padding: .75rem; border-radius: 4px; }
  .filters { display: flex; gap: 2rem; flex-wrap: wrap; }
  .filters label { display: block; margin: .5rem 0 .25rem; font-weight: 600; }
  table { border-collapse: collapse; margin-top: 1rem; width: 100%; }
  th, td { border: 1px solid #e5e7eb; padding: .35rem .6rem; text-align: left; }
  td.missing { color: #9ca3af; }
</style>
</head>
<body>
<nav>
  <h2>Redbus</h2>
  <p>Book Your Ride</p>
  <form method="post" action="/nav"><button name="page" value="home">Home</button></form>
  <form method="post" action="/nav"><button name="page" value="search">Search Buses</button></form>
</nav>
<main>
{{end}}

{{define "bottom"}}
</main>
</body>
</html>
{{end}}
`

const tmplHome = `
{{define "home"}}{{template "top" .}}
<h1><span>REDBUS</span> - Your ticket to less stress</h1>
<p>Redbus is an online bus ticketing platform founded in 2006 in India.
It allows users to book bus tickets through its website and mobile app,
providing access to a wide network of bus operators across various routes.</p>
<figure>
  <img src="https://akm-img-a-in.tosshub.com/indiatoday/images/story/202204/redbus_1200x768.png" alt="Redbus Booking" style="max-width:100%">
  <figcaption>Redbus Booking</figcaption>
</figure>
{{template "bottom" .}}{{end}}
`

const tmplSearch = `
{{define "search"}}{{template "top" .}}
<h1><span>REDBUS</span> - Search Bus</h1>
{{with .View}}
{{if .Err}}<p class="error">{{.ErrorMessage}}</p>{{else}}
<form method="get" action="/">
<div class="filters">
  <div>
    <label for="state">State</label>
    <select id="state" name="state" onchange="this.form.submit()">
      <option value="">{{$.StatePlaceholder}}</option>
      {{range .States}}<option{{if eq . $.View.Form.Filter.State}} selected{{end}}>{{.}}</option>{{end}}
    </select>
    {{if .Form.Filter.StateSelected}}
    <label for="route">Route</label>
    <select id="route" name="route">
      <option value="">{{$.RoutePlaceholder}}</option>
      {{range .Routes}}<option{{if eq . $.View.Form.Filter.Route}} selected{{end}}>{{.}}</option>{{end}}
    </select>
    {{end}}
  </div>
  <div>
    <label for="bus_type">Bus Type</label>
    <select id="bus_type" name="bus_type">
      <option{{if .Form.Filter.AnyBusType}} selected{{end}}>{{$.AllBusTypes}}</option>
      {{range .BusTypes}}<option{{if eq . $.View.Form.Filter.BusType}} selected{{end}}>{{.}}</option>{{end}}
    </select>
    <label>Price Range</label>
    <input type="number" name="min_price" min="{{$.PriceMin}}" max="{{$.PriceMax}}" step="{{$.PriceStep}}" value="{{.Form.Filter.MinPrice}}">
    &ndash;
    <input type="number" name="max_price" min="{{$.PriceMin}}" max="{{$.PriceMax}}" step="{{$.PriceStep}}" value="{{.Form.Filter.MaxPrice}}">
    <label>Star Rating</label>
    <input type="number" name="min_rating" min="{{$.RatingMin}}" max="{{$.RatingMax}}" step="{{$.RatingStep}}" value="{{.Form.Filter.MinRating}}">
    &ndash;
    <input type="number" name="max_rating" min="{{$.RatingMin}}" max="{{$.RatingMax}}" step="{{$.RatingStep}}" value="{{.Form.Filter.MaxRating}}">
  </div>
</div>
{{if .Warning}}<p class="warning">{{.Warning}}</p>{{else}}
<p><button name="search" value="1">Search</button></p>{{end}}
</form>
{{end}}
{{if .Searched}}
  {{if .Results.Empty}}
  <h4>Sorry, no buses found for the selected filters</h4>
  {{else}}
  {{$cols := .Results.Columns}}
  <table>
    <thead><tr><th>#</th>{{range $cols}}<th>{{label .}}</th>{{end}}</tr></thead>
    <tbody>
    {{range $row := .Results.Rows}}
      <tr><td>{{$row.Number}}</td>
      {{range $i, $col := $cols}}{{$c := cell $row $i}}
        {{if $c.Missing}}<td class="missing">{{$c}}</td>
        {{else if isLink $col}}<td><a href="{{$c.Text}}" target="_blank" rel="noopener">link</a></td>
        {{else}}<td>{{$c.Text}}</td>{{end}}
      {{end}}
      </tr>
    {{end}}
    </tbody>
  </table>
  {{end}}
{{end}}
{{end}}
{{template "bottom" .}}{{end}}
`
