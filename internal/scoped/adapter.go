package scoped

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/graphrapids/graphsettings/internal/models"
)

// Stage names accepted on bundle/entries/runtime reads.
const (
	StageDraft     = "draft"
	StagePublished = "published"
)

// VersionQuery selects the stage and/or pinned version of a versioned read.
// Version holds raw form input and is validated before use; nil means
// "latest for the stage".
type VersionQuery struct {
	Stage   string
	Version any
}

// Capabilities describes which optional backend operations are wired for
// this deployment. Families absent from Delete fail removal fast with a
// 405 instead of attempting the network call.
type Capabilities struct {
	Delete []Resource
}

// FullCapabilities allows deletion for every family.
func FullCapabilities() Capabilities {
	return Capabilities{Delete: Resources}
}

// Adapter is the uniform typed surface over the five scoped settings
// families. It owns no state beyond its client and issues exactly one HTTP
// request per operation after local validation passes.
type Adapter struct {
	client *Client
	caps   Capabilities
}

// NewAdapter creates an Adapter over the given client.
func NewAdapter(client *Client, caps Capabilities) *Adapter {
	return &Adapter{client: client, caps: caps}
}

// CanDelete reports whether removal is wired for the family.
func (a *Adapter) CanDelete(res Resource) bool {
	for _, r := range a.caps.Delete {
		if r == res {
			return true
		}
	}
	return false
}

// List fetches all summaries of a family.
func (a *Adapter) List(res Resource) ([]models.Record, *Error) {
	body, nerr := a.client.Get(res.basePath(), nil)
	if nerr != nil {
		return nil, nerr
	}
	return decodeList(body)
}

// Get fetches one versioned record by identifier.
func (a *Adapter) Get(res Resource, id string) (models.Record, *Error) {
	body, nerr := a.client.Get(res.basePath()+"/"+url.PathEscape(id), nil)
	if nerr != nil {
		return nil, nerr
	}
	return decodeObject(body)
}

// Create validates the input and creates a new resource.
func (a *Adapter) Create(res Resource, input map[string]any) (models.Record, *Error) {
	payload, nerr := BuildWrite(res, input)
	if nerr != nil {
		return nil, nerr
	}
	body, nerr := a.client.Post(res.basePath(), payload)
	if nerr != nil {
		return nil, nerr
	}
	return decodeObject(body)
}

// Update validates the input and replaces the resource's draft.
func (a *Adapter) Update(res Resource, id string, input map[string]any) (models.Record, *Error) {
	payload, nerr := BuildWrite(res, input)
	if nerr != nil {
		return nil, nerr
	}
	body, nerr := a.client.Put(res.basePath()+"/"+url.PathEscape(id), payload)
	if nerr != nil {
		return nil, nerr
	}
	return decodeObject(body)
}

// Delete removes a resource. Families outside the delete capability set
// fail fast without touching the network. A 2xx empty body is success.
func (a *Adapter) Delete(res Resource, id string) *Error {
	if !a.CanDelete(res) {
		return notSupported(res, "deletion")
	}
	_, nerr := a.client.Delete(res.basePath() + "/" + url.PathEscape(id))
	return nerr
}

// GetBundle fetches the resolved content of a resource at a stage/version.
func (a *Adapter) GetBundle(res Resource, id string, q VersionQuery) (models.Record, *Error) {
	params, nerr := q.params(res)
	if nerr != nil {
		return nil, nerr
	}
	body, nerr := a.client.Get(res.basePath()+"/"+url.PathEscape(id)+"/bundle", params)
	if nerr != nil {
		return nil, nerr
	}
	return decodeObject(body)
}

// Publish appends the current draft as a new immutable published version.
func (a *Adapter) Publish(res Resource, id string) (models.Record, *Error) {
	body, nerr := a.client.Post(res.basePath()+"/"+url.PathEscape(id)+"/publish", nil)
	if nerr != nil {
		return nil, nerr
	}
	return decodeObject(body)
}

// Entries fetches the keyed entries (or theme variables) of a resource.
func (a *Adapter) Entries(res Resource, id string, q VersionQuery) (models.Record, *Error) {
	if !res.HasEntries() {
		return nil, notSupported(res, "keyed entries")
	}
	params, nerr := q.params(res)
	if nerr != nil {
		return nil, nerr
	}
	body, nerr := a.client.Get(a.entriesPath(res, id), params)
	if nerr != nil {
		return nil, nerr
	}
	return decodeObject(body)
}

// PutEntry upserts one keyed entry in the resource's draft.
func (a *Adapter) PutEntry(res Resource, id, key string, value any) (models.Record, *Error) {
	if !res.HasEntries() {
		return nil, notSupported(res, "keyed entries")
	}
	if key == "" {
		return nil, fieldError("key", "entry key must be a non-empty string")
	}
	body, nerr := a.client.Put(a.entriesPath(res, id)+"/"+url.PathEscape(key), value)
	if nerr != nil {
		return nil, nerr
	}
	return decodeObject(body)
}

// DeleteEntry removes one keyed entry from the resource's draft. The
// backend answers with the updated draft when it returns a body.
func (a *Adapter) DeleteEntry(res Resource, id, key string) (models.Record, *Error) {
	if !res.HasEntries() {
		return nil, notSupported(res, "keyed entries")
	}
	if key == "" {
		return nil, fieldError("key", "entry key must be a non-empty string")
	}
	body, nerr := a.client.Delete(a.entriesPath(res, id) + "/" + url.PathEscape(key))
	if nerr != nil {
		return nil, nerr
	}
	if len(body) == 0 {
		return nil, nil
	}
	return decodeObject(body)
}

// Runtime fetches the runtime resolution of a graph type.
func (a *Adapter) Runtime(id string, q VersionQuery) (models.Record, *Error) {
	params, nerr := q.params(GraphTypes)
	if nerr != nil {
		return nil, nerr
	}
	body, nerr := a.client.Get(GraphTypes.basePath()+"/"+url.PathEscape(id)+"/runtime", params)
	if nerr != nil {
		return nil, nerr
	}
	return decodeObject(body)
}

// ResolveIconSets merges multiple icon sets under a conflict policy.
func (a *Adapter) ResolveIconSets(input map[string]any) (models.Record, *Error) {
	payload, nerr := BuildResolve(input)
	if nerr != nil {
		return nil, nerr
	}
	body, nerr := a.client.Post(IconSets.basePath()+"/resolve", payload)
	if nerr != nil {
		return nil, nerr
	}
	return decodeObject(body)
}

func (a *Adapter) entriesPath(res Resource, id string) string {
	return res.basePath() + "/" + url.PathEscape(id) + "/" + res.EntriesSegment()
}

// params validates the query and builds the stage/version parameters,
// using the family's version parameter name.
func (q VersionQuery) params(res Resource) (url.Values, *Error) {
	switch q.Stage {
	case "", StageDraft, StagePublished:
	default:
		return nil, fieldError("stage", `stage must be "draft" or "published"`)
	}
	version, nerr := OptionalVersion(q.Version)
	if nerr != nil {
		return nil, nerr
	}

	params := url.Values{}
	if q.Stage != "" {
		params.Set("stage", q.Stage)
	}
	if version != nil {
		params.Set(res.VersionParam(), strconv.Itoa(*version))
	}
	if len(params) == 0 {
		return nil, nil
	}
	return params, nil
}

// decodeObject parses a 2xx body guaranteed to carry data. Empty bodies
// and bodies carrying a top-level error envelope are failures.
func decodeObject(body []byte) (models.Record, *Error) {
	if len(body) == 0 {
		return nil, &Error{
			Message: "empty response from backend",
			Status:  http.StatusBadGateway,
			Fields:  map[string]string{RootErrorField: "empty response from backend"},
		}
	}
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, NormalizeErr(err, http.StatusBadGateway)
	}
	if _, failed := obj["error"].(map[string]any); failed {
		return nil, NormalizeBody(http.StatusBadGateway, body)
	}
	return models.Record(obj), nil
}

// decodeList parses a list body: either a bare array of summaries or an
// {items: [...]} envelope.
func decodeList(body []byte) ([]models.Record, *Error) {
	if len(body) == 0 {
		return nil, &Error{
			Message: "empty response from backend",
			Status:  http.StatusBadGateway,
			Fields:  map[string]string{RootErrorField: "empty response from backend"},
		}
	}
	var items []models.Record
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var envelope struct {
		Items []models.Record `json:"items"`
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, NormalizeErr(err, http.StatusBadGateway)
	}
	if len(envelope.Error) > 0 && string(envelope.Error) != "null" {
		return nil, NormalizeBody(http.StatusBadGateway, body)
	}
	if envelope.Items == nil {
		return []models.Record{}, nil
	}
	return envelope.Items, nil
}
