package scoped

import (
	"fmt"
	"math"

	"github.com/graphrapids/graphsettings/internal/models"
)

// Conflict policies accepted by the icon-set resolve operation. Anything
// else silently falls back to PolicyReject.
const (
	PolicyReject    = "reject"
	PolicyFirstWins = "first-wins"
	PolicyLastWins  = "last-wins"
)

// SetRef points at an icon set, optionally pinned to a published version.
type SetRef struct {
	IconSetID string `json:"iconSetId"`
	Version   *int   `json:"version,omitempty"`
}

// IconSetWrite is the create/update body for icon sets.
type IconSetWrite struct {
	Name    string         `json:"name"`
	Entries map[string]any `json:"entries,omitempty"`
}

// LayoutSetWrite is the create/update body for layout sets.
type LayoutSetWrite struct {
	Name    string         `json:"name"`
	Entries map[string]any `json:"entries,omitempty"`
}

// LinkSetWrite is the create/update body for link sets.
type LinkSetWrite struct {
	Name    string         `json:"name"`
	Entries map[string]any `json:"entries,omitempty"`
}

// GraphTypeWrite is the create/update body for graph types.
type GraphTypeWrite struct {
	Name        string         `json:"name"`
	ElkSettings map[string]any `json:"elkSettings"`
	IconSetRefs []SetRef       `json:"iconSetRefs,omitempty"`
}

// ThemeWrite is the create/update body for themes.
type ThemeWrite struct {
	Name      string         `json:"name"`
	Variables map[string]any `json:"variables,omitempty"`
}

// ResolveRequest is the body of POST /v1/icon-sets/resolve.
type ResolveRequest struct {
	IconSetRefs    []SetRef `json:"iconSetRefs"`
	ConflictPolicy string   `json:"conflictPolicy"`
}

// BuildWrite validates raw form input and reshapes it into the typed
// request body for the given family. All failures are 400 field errors
// raised before any network activity.
func BuildWrite(res Resource, input map[string]any) (any, *Error) {
	if input == nil {
		return nil, fieldError(RootErrorField, "request body is required")
	}
	name, nerr := requiredString(input, "name")
	if nerr != nil {
		return nil, nerr
	}

	switch res {
	case IconSets:
		entries, nerr := optionalObject(input, "entries")
		if nerr != nil {
			return nil, nerr
		}
		return IconSetWrite{Name: name, Entries: entries}, nil
	case LayoutSets:
		entries, nerr := optionalObject(input, "entries")
		if nerr != nil {
			return nil, nerr
		}
		return LayoutSetWrite{Name: name, Entries: entries}, nil
	case LinkSets:
		entries, nerr := optionalObject(input, "entries")
		if nerr != nil {
			return nil, nerr
		}
		return LinkSetWrite{Name: name, Entries: entries}, nil
	case GraphTypes:
		elk := models.ObjectField(input, "elkSettings")
		if elk == nil {
			return nil, fieldError("elkSettings", "elkSettings must be an object")
		}
		refs, nerr := optionalSetRefs(input, "iconSetRefs")
		if nerr != nil {
			return nil, nerr
		}
		return GraphTypeWrite{Name: name, ElkSettings: elk, IconSetRefs: refs}, nil
	case Themes:
		vars, nerr := optionalObject(input, "variables")
		if nerr != nil {
			return nil, nerr
		}
		return ThemeWrite{Name: name, Variables: vars}, nil
	}
	panic(fmt.Sprintf("scoped: invalid resource %d", int(res)))
}

// BuildResolve validates raw input into a ResolveRequest. iconSetRefs must
// be a non-empty array; an unrecognized conflictPolicy falls back to reject.
func BuildResolve(input map[string]any) (*ResolveRequest, *Error) {
	if input == nil {
		return nil, fieldError(RootErrorField, "request body is required")
	}
	raw, ok := input["iconSetRefs"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fieldError("iconSetRefs", "iconSetRefs must be a non-empty array")
	}
	refs := make([]SetRef, 0, len(raw))
	for i, item := range raw {
		ref, nerr := buildSetRef(item, fmt.Sprintf("iconSetRefs.%d", i))
		if nerr != nil {
			return nil, nerr
		}
		refs = append(refs, ref)
	}

	policy := models.StringField(input, "conflictPolicy")
	switch policy {
	case PolicyReject, PolicyFirstWins, PolicyLastWins:
	default:
		policy = PolicyReject
	}
	return &ResolveRequest{IconSetRefs: refs, ConflictPolicy: policy}, nil
}

func buildSetRef(item any, path string) (SetRef, *Error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return SetRef{}, fieldError(path, "icon set reference must be an object")
	}
	id := models.StringField(obj, "iconSetId")
	if id == "" {
		return SetRef{}, fieldError(path+".iconSetId", "iconSetId must be a non-empty string")
	}
	version, nerr := versionAt(obj["version"], path+".version")
	if nerr != nil {
		return SetRef{}, nerr
	}
	return SetRef{IconSetID: id, Version: version}, nil
}

// OptionalVersion validates an optional version value. nil stays nil;
// anything that is not a positive integer fails with a field error on
// "version".
func OptionalVersion(v any) (*int, *Error) {
	return versionAt(v, "version")
}

func versionAt(v any, field string) (*int, *Error) {
	if v == nil {
		return nil, nil
	}
	f, ok := models.ToNumber(v)
	if !ok || f != math.Trunc(f) {
		return nil, fieldError(field, "version must be a positive integer")
	}
	n := int(f)
	if n < 1 {
		return nil, fieldError(field, "version must be a positive integer")
	}
	return &n, nil
}

func requiredString(input map[string]any, field string) (string, *Error) {
	s := models.StringField(input, field)
	if s == "" {
		return "", fieldError(field, field+" must be a non-empty string")
	}
	return s, nil
}

func optionalSetRefs(input map[string]any, field string) ([]SetRef, *Error) {
	v, present := input[field]
	if !present || v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fieldError(field, field+" must be an array")
	}
	refs := make([]SetRef, 0, len(raw))
	for i, item := range raw {
		ref, nerr := buildSetRef(item, fmt.Sprintf("%s.%d", field, i))
		if nerr != nil {
			return nil, nerr
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func optionalObject(input map[string]any, field string) (map[string]any, *Error) {
	v, present := input[field]
	if !present || v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fieldError(field, field+" must be an object")
	}
	return obj, nil
}
