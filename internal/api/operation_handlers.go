package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/graphrapids/graphsettings/internal/scoped"
)

// versionQuery reads the optional stage and version query parameters.
// Validation happens in the adapter before any request is issued.
func versionQuery(r *http.Request) scoped.VersionQuery {
	q := scoped.VersionQuery{Stage: r.URL.Query().Get("stage")}
	if v := r.URL.Query().Get("version"); v != "" {
		// Keep the raw value; non-numeric strings fail the version guard.
		q.Version = json.Number(v)
	}
	return q
}

func (s *Server) GetBundle(w http.ResponseWriter, r *http.Request) {
	res, nerr := resourceParam(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	bundle, nerr := s.Provider.Adapter().GetBundle(res, chi.URLParam(r, "id"), versionQuery(r))
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) PublishRecord(w http.ResponseWriter, r *http.Request) {
	res, nerr := resourceParam(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	id := chi.URLParam(r, "id")
	record, nerr := s.Provider.Adapter().Publish(res, id)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	s.Events.RecordChanged(res, id, ActionPublish)
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) GetEntries(w http.ResponseWriter, r *http.Request) {
	res, nerr := resourceParam(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	entries, nerr := s.Provider.Adapter().Entries(res, chi.URLParam(r, "id"), versionQuery(r))
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) PutEntry(w http.ResponseWriter, r *http.Request) {
	res, nerr := resourceParam(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	var value any
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		writeNormalized(w, scoped.NormalizeErr(err, http.StatusBadRequest))
		return
	}
	id := chi.URLParam(r, "id")
	record, nerr := s.Provider.Adapter().PutEntry(res, id, chi.URLParam(r, "key"), value)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	s.Events.RecordChanged(res, id, ActionEntryUpsert)
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	res, nerr := resourceParam(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	id := chi.URLParam(r, "id")
	record, nerr := s.Provider.Adapter().DeleteEntry(res, id, chi.URLParam(r, "key"))
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	s.Events.RecordChanged(res, id, ActionEntryDelete)
	if record == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) GetRuntime(w http.ResponseWriter, r *http.Request) {
	runtime, nerr := s.Provider.Adapter().Runtime(chi.URLParam(r, "id"), versionQuery(r))
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	writeJSON(w, http.StatusOK, runtime)
}

func (s *Server) ResolveIconSets(w http.ResponseWriter, r *http.Request) {
	input, nerr := decodeBody(r)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	resolved, nerr := s.Provider.Adapter().ResolveIconSets(input)
	if nerr != nil {
		writeNormalized(w, nerr)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}
