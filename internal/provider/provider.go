package provider

import (
	"github.com/samber/lo"

	"github.com/graphrapids/graphsettings/internal/models"
	"github.com/graphrapids/graphsettings/internal/scoped"
)

// Provider composes the scoped adapter, the record mapper, and the list
// query engine into the operations the console UI consumes. It holds no
// state of its own; every call is an independent unit of work.
type Provider struct {
	adapter *scoped.Adapter
}

// New creates a Provider over the given adapter.
func New(adapter *scoped.Adapter) *Provider {
	return &Provider{adapter: adapter}
}

// Adapter exposes the underlying adapter for the resource-specific
// operations (bundle, publish, entries, runtime, resolve) that bypass the
// generic record pipeline.
func (p *Provider) Adapter() *scoped.Adapter {
	return p.adapter
}

// ListResult is one page of records plus the post-filter total.
type ListResult struct {
	Data  []models.Record `json:"data"`
	Total int             `json:"total"`
}

// List fetches all summaries of a family and applies filter, sort, and
// pagination client-side.
func (p *Provider) List(res scoped.Resource, params ListParams) (*ListResult, *scoped.Error) {
	records, nerr := p.listRecords(res)
	if nerr != nil {
		return nil, nerr
	}
	page, total := ApplyListParams(records, params)
	return &ListResult{Data: page, Total: total}, nil
}

// Get fetches and flattens one record.
func (p *Provider) Get(res scoped.Resource, id string) (models.Record, *scoped.Error) {
	raw, nerr := p.adapter.Get(res, id)
	if nerr != nil {
		return nil, nerr
	}
	return DetailRecord(res, raw)
}

// GetMany fetches the summaries whose ids are in the given set, reusing
// the list path rather than issuing one request per id.
func (p *Provider) GetMany(res scoped.Resource, ids []string) ([]models.Record, *scoped.Error) {
	records, nerr := p.listRecords(res)
	if nerr != nil {
		return nil, nerr
	}
	return lo.Filter(records, func(rec models.Record, _ int) bool {
		return lo.Contains(ids, rec.ID())
	}), nil
}

// GetManyReference lists the records referencing a target record: the
// list path plus an exact-match filter on the reference field.
func (p *Provider) GetManyReference(res scoped.Resource, target string, id any, params ListParams) (*ListResult, *scoped.Error) {
	filter := make(map[string]any, len(params.Filter)+1)
	for k, v := range params.Filter {
		filter[k] = v
	}
	filter[target] = id
	params.Filter = filter
	return p.List(res, params)
}

// Create validates the input, creates the resource, and returns the
// flattened new record.
func (p *Provider) Create(res scoped.Resource, input map[string]any) (models.Record, *scoped.Error) {
	raw, nerr := p.adapter.Create(res, input)
	if nerr != nil {
		return nil, nerr
	}
	return DetailRecord(res, raw)
}

// Update validates the input, replaces the draft, and returns the
// flattened updated record.
func (p *Provider) Update(res scoped.Resource, id string, input map[string]any) (models.Record, *scoped.Error) {
	raw, nerr := p.adapter.Update(res, id, input)
	if nerr != nil {
		return nil, nerr
	}
	return DetailRecord(res, raw)
}

// Delete removes one record. Families the adapter has no delete capability
// for fail fast with a 405 before any network activity.
func (p *Provider) Delete(res scoped.Resource, id string) *scoped.Error {
	return p.adapter.Delete(res, id)
}

// DeleteMany removes records one by one, stopping at the first failure and
// returning the ids removed so far.
func (p *Provider) DeleteMany(res scoped.Resource, ids []string) ([]string, *scoped.Error) {
	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		if nerr := p.adapter.Delete(res, id); nerr != nil {
			return deleted, nerr
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}

// listRecords fetches and maps all summaries of a family.
func (p *Provider) listRecords(res scoped.Resource) ([]models.Record, *scoped.Error) {
	summaries, nerr := p.adapter.List(res)
	if nerr != nil {
		return nil, nerr
	}
	records := make([]models.Record, 0, len(summaries))
	for _, summary := range summaries {
		rec, nerr := SummaryRecord(res, summary)
		if nerr != nil {
			return nil, nerr
		}
		records = append(records, rec)
	}
	return records, nil
}
