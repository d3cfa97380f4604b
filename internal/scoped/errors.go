package scoped

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// RootErrorField is the sentinel field key used for failures that cannot be
// attributed to a specific input field.
const RootErrorField = "root.serverError"

// Error is the single failure shape every adapter-facing call produces:
// a human-readable message, an HTTP status, and per-field messages suitable
// for inline form display. Code and Details carry through the backend's
// structured-error metadata when present.
type Error struct {
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Code    string            `json:"code,omitempty"`
	Details any               `json:"details,omitempty"`
	Fields  map[string]string `json:"fieldErrors,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// fieldError builds a 400 validation error attributed to a single field.
func fieldError(field, msg string) *Error {
	return &Error{
		Message: msg,
		Status:  http.StatusBadRequest,
		Fields:  map[string]string{field: msg},
	}
}

// notSupported builds the fixed fast-fail error for operations a family
// does not offer. It carries a 405 and never reaches the network.
func notSupported(res Resource, what string) *Error {
	msg := fmt.Sprintf("%s is not supported for %s", what, res.Name())
	return &Error{
		Message: msg,
		Status:  http.StatusMethodNotAllowed,
		Fields:  map[string]string{RootErrorField: msg},
	}
}

// structuredError is the backend's primary error envelope.
type structuredError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

// validationError is the backend's 422-style field-validation shape.
type validationError struct {
	Detail []validationIssue `json:"detail"`
}

type validationIssue struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// NormalizeBody converts a backend error body into an *Error at the given
// status. Shape detection is structural and ordered: the structured
// {error:{code,message}} envelope is checked before the {detail:[...]}
// validation shape, so an overlapping payload is always classified as a
// structured error. Unrecognizable bodies collapse to a generic message.
// Never returns nil.
func NormalizeBody(status int, body []byte) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}

	var se structuredError
	if err := json.Unmarshal(body, &se); err == nil && se.Error != nil && se.Error.Message != "" {
		return &Error{
			Message: se.Error.Message,
			Status:  status,
			Code:    se.Error.Code,
			Details: se.Error.Details,
			Fields:  map[string]string{RootErrorField: se.Error.Message},
		}
	}

	var ve validationError
	if err := json.Unmarshal(body, &ve); err == nil && ve.Detail != nil {
		return normalizeIssues(status, ve.Detail)
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = "unexpected error"
	}
	return &Error{
		Message: msg,
		Status:  status,
		Fields:  map[string]string{RootErrorField: msg},
	}
}

// normalizeIssues folds a validation-issue list into a field-indexed error.
// The top-level message is the first issue's message, in list order.
func normalizeIssues(status int, issues []validationIssue) *Error {
	fields := make(map[string]string, len(issues))
	message := ""
	for _, issue := range issues {
		path := issueFieldPath(issue.Loc)
		if _, seen := fields[path]; !seen {
			fields[path] = issue.Msg
		}
		if message == "" {
			message = issue.Msg
		}
	}
	if message == "" {
		message = "validation failed"
		fields[RootErrorField] = message
	}
	return &Error{Message: message, Status: status, Fields: fields}
}

// issueFieldPath joins loc segments with dots, dropping a leading "body"
// segment. An empty result maps to the root sentinel.
func issueFieldPath(loc []any) string {
	parts := make([]string, 0, len(loc))
	for i, seg := range loc {
		s := fmt.Sprint(seg)
		if i == 0 && s == "body" {
			continue
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return RootErrorField
	}
	return strings.Join(parts, ".")
}

// NormalizeErr converts an arbitrary error into an *Error at the given
// status. Already-normalized errors pass through unchanged. Never returns
// nil and never panics.
func NormalizeErr(err error, status int) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if ne, ok := err.(*Error); ok && ne != nil {
		return ne
	}
	if err != nil && err.Error() != "" {
		return &Error{
			Message: err.Error(),
			Status:  status,
			Fields:  map[string]string{RootErrorField: err.Error()},
		}
	}
	return &Error{
		Message: "unexpected error",
		Status:  status,
		Fields:  map[string]string{RootErrorField: "unexpected error"},
	}
}
