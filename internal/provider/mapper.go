package provider

import (
	"fmt"
	"net/http"

	"github.com/graphrapids/graphsettings/internal/models"
	"github.com/graphrapids/graphsettings/internal/scoped"
)

// SummaryRecord converts a backend summary row into the flat record shape
// the console consumes, lifting the family's identifier field to "id".
// The identifier must be present and a string or number.
func SummaryRecord(res scoped.Resource, raw map[string]any) (models.Record, *scoped.Error) {
	id, nerr := recordID(res, raw)
	if nerr != nil {
		return nil, nerr
	}
	rec := make(models.Record, len(raw)+1)
	for k, v := range raw {
		rec[k] = v
	}
	rec["id"] = id
	return rec, nil
}

// DetailRecord converts a backend versioned record into a flat record:
// identifier lifted to "id", then the nested draft object shallow-merged
// over the top level, draft winning on key collisions. Applying it to an
// already-flat record (no draft field) changes nothing beyond "id".
func DetailRecord(res scoped.Resource, raw map[string]any) (models.Record, *scoped.Error) {
	rec, nerr := SummaryRecord(res, raw)
	if nerr != nil {
		return nil, nerr
	}
	if draft := models.ObjectField(raw, "draft"); draft != nil {
		for k, v := range draft {
			rec[k] = v
		}
	}
	return rec, nil
}

// recordID extracts the family's identifier field as a string.
func recordID(res scoped.Resource, raw map[string]any) (string, *scoped.Error) {
	field := res.IDField()
	switch v := raw[field].(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case float64, int, int64:
		return fmt.Sprint(v), nil
	}
	msg := fmt.Sprintf("backend record is missing identifier field %q", field)
	return "", &scoped.Error{
		Message: msg,
		Status:  http.StatusBadGateway,
		Fields:  map[string]string{scoped.RootErrorField: msg},
	}
}
