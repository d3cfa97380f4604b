package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/graphrapids/graphsettings/internal/provider"
	"github.com/graphrapids/graphsettings/internal/scoped"
)

// resourceParam parses the {resource} URL segment, rejecting names outside
// the supported set before anything touches the adapter.
func resourceParam(r *http.Request) (scoped.Resource, *scoped.Error) {
	return scoped.ParseResource(chi.URLParam(r, "resource"))
}

// parseListParams reads the generic list query: q, filter_<field>, sort,
// order, page, perPage, and the repeated id param for getMany-style reads.
func parseListParams(r *http.Request) provider.ListParams {
	query := r.URL.Query()
	filter := map[string]any{}
	if q := query.Get("q"); q != "" {
		filter[provider.FilterQ] = q
	}
	for key, values := range query {
		if field, ok := strings.CutPrefix(key, "filter_"); ok && len(values) > 0 {
			filter[field] = values[0]
		}
	}

	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("perPage"))

	return provider.ListParams{
		Filter: filter,
		Sort: provider.SortParams{
			Field: query.Get("sort"),
			Order: query.Get("order"),
		},
		Page:    page,
		PerPage: perPage,
	}
}

func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	res, nerr := resourceParam(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}

	// Repeated id params select specific records instead of a page.
	if ids := r.URL.Query()["id"]; len(ids) > 0 {
		records, nerr := s.Provider.GetMany(res, ids)
		if nerr != nil {
			writeNormalized(w, nerr)
			return
		}
		writeJSON(w, http.StatusOK, provider.ListResult{Data: records, Total: len(records)})
		return
	}

	params := parseListParams(r)
	var result *provider.ListResult
	if target := r.URL.Query().Get("target"); target != "" {
		result, nerr = s.Provider.GetManyReference(res, target, r.URL.Query().Get("targetId"), params)
	} else {
		result, nerr = s.Provider.List(res, params)
	}
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	res, nerr := resourceParam(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	record, nerr := s.Provider.Get(res, chi.URLParam(r, "id"))
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) CreateRecord(w http.ResponseWriter, r *http.Request) {
	res, nerr := resourceParam(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	input, nerr := decodeBody(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	record, nerr := s.Provider.Create(res, input)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	s.Events.RecordChanged(res, record.ID(), ActionCreate)
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	res, nerr := resourceParam(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	input, nerr := decodeBody(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	id := chi.URLParam(r, "id")
	record, nerr := s.Provider.Update(res, id, input)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	s.Events.RecordChanged(res, id, ActionUpdate)
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	res, nerr := resourceParam(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	id := chi.URLParam(r, "id")
	if nerr := s.Provider.Delete(res, id); nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	s.Events.RecordChanged(res, id, ActionDelete)
	w.WriteHeader(http.StatusNoContent)
}
