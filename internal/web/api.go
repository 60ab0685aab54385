package web

import (
	"errors"
	"net/http"

	"redbus-search/internal/redbus"
	"redbus-search/internal/table"
)

type errorResponse struct {
	Error string `json:"error"`
}

type listResponse struct {
	Values []string `json:"values"`
}

type searchResponse struct {
	Count int         `json:"count"`
	Table table.Table `json:"table"`
}

func (s *Server) apiStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.searcher.States(r.Context())
	s.writeList(w, states, err)
}

func (s *Server) apiBusTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.searcher.BusTypes(r.Context())
	s.writeList(w, types, err)
}

func (s *Server) apiRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := s.searcher.RouteNames(r.Context(), r.URL.Query().Get("state"))
	s.writeList(w, routes, err)
}

func (s *Server) apiSearch(w http.ResponseWriter, r *http.Request) {
	form := parseSearchForm(r.URL.Query())
	tbl, err := s.searcher.Search(r.Context(), form.Filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Count: tbl.Len(), Table: tbl})
}

func (s *Server) writeList(w http.ResponseWriter, values []string, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	writeJSON(w, http.StatusOK, listResponse{Values: values})
}

// writeError reports the error kind only; driver details stay in the logs.
func writeError(w http.ResponseWriter, err error) {
	msg := "internal error"
	switch {
	case errors.Is(err, redbus.ErrValidation):
		msg = "please select State and Route"
	case errors.Is(err, redbus.ErrConnection):
		msg = redbus.ErrConnection.Error()
	case errors.Is(err, redbus.ErrQuery):
		msg = redbus.ErrQuery.Error()
	}
	writeJSON(w, statusFor(err), errorResponse{Error: msg})
}
