package scoped

import (
	"fmt"
	"net/http"
)

// Resource identifies one of the five scoped settings families the backend
// exposes. The set is closed: every switch over Resource in this package
// covers all five values, so adding a family means touching each of them.
type Resource int

const (
	IconSets Resource = iota
	LayoutSets
	LinkSets
	GraphTypes
	Themes
)

// Resources lists all supported families in a fixed order.
var Resources = []Resource{IconSets, LayoutSets, LinkSets, GraphTypes, Themes}

// ParseResource maps a wire name ("icon-sets", ...) to its Resource.
// Anything outside the supported set is rejected with a 400 before a
// request is ever constructed.
func ParseResource(name string) (Resource, *Error) {
	switch name {
	case "icon-sets":
		return IconSets, nil
	case "layout-sets":
		return LayoutSets, nil
	case "link-sets":
		return LinkSets, nil
	case "graph-types":
		return GraphTypes, nil
	case "themes":
		return Themes, nil
	default:
		return 0, &Error{
			Message: fmt.Sprintf("unknown resource %q", name),
			Status:  http.StatusBadRequest,
			Fields:  map[string]string{"resource": fmt.Sprintf("unknown resource %q", name)},
		}
	}
}

// Name returns the wire name used in backend paths and console routes.
func (r Resource) Name() string {
	switch r {
	case IconSets:
		return "icon-sets"
	case LayoutSets:
		return "layout-sets"
	case LinkSets:
		return "link-sets"
	case GraphTypes:
		return "graph-types"
	case Themes:
		return "themes"
	}
	panic(fmt.Sprintf("scoped: invalid resource %d", int(r)))
}

// IDField returns the identifier field carried by this family's summaries
// and records.
func (r Resource) IDField() string {
	switch r {
	case IconSets:
		return "iconSetId"
	case LayoutSets:
		return "layoutSetId"
	case LinkSets:
		return "linkSetId"
	case GraphTypes:
		return "graphTypeId"
	case Themes:
		return "themeId"
	}
	panic(fmt.Sprintf("scoped: invalid resource %d", int(r)))
}

// VersionParam returns the query-parameter name the backend expects for a
// pinned version on bundle/entries/runtime reads.
func (r Resource) VersionParam() string {
	switch r {
	case IconSets:
		return "icon_set_version"
	case LayoutSets:
		return "layout_set_version"
	case LinkSets:
		return "link_set_version"
	case GraphTypes:
		return "graph_type_version"
	case Themes:
		return "theme_version"
	}
	panic(fmt.Sprintf("scoped: invalid resource %d", int(r)))
}

// EntriesSegment returns the path segment for the family's keyed
// sub-resource ("entries" or "variables"), or "" when the family has none.
func (r Resource) EntriesSegment() string {
	switch r {
	case IconSets, LayoutSets, LinkSets:
		return "entries"
	case Themes:
		return "variables"
	case GraphTypes:
		return ""
	}
	panic(fmt.Sprintf("scoped: invalid resource %d", int(r)))
}

// HasEntries reports whether the family supports keyed entry upsert/delete.
func (r Resource) HasEntries() bool {
	return r.EntriesSegment() != ""
}

// HasRuntime reports whether the family exposes a runtime-resolution read.
// Only graph types do.
func (r Resource) HasRuntime() bool {
	return r == GraphTypes
}

// basePath returns the backend path prefix for this family.
func (r Resource) basePath() string {
	return "/v1/" + r.Name()
}
