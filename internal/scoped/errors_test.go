package scoped

import (
	"errors"
	"net/http"
	"testing"
)

func TestNormalizeBody_StructuredError(t *testing.T) {
	body := []byte(`{"error":{"code":"conflict","message":"icon set already exists","details":{"iconSetId":"icons-alpha"}}}`)
	nerr := NormalizeBody(http.StatusConflict, body)

	if nerr.Message != "icon set already exists" {
		t.Errorf("Message = %q, want backend message", nerr.Message)
	}
	if nerr.Status != http.StatusConflict {
		t.Errorf("Status = %d, want 409", nerr.Status)
	}
	if nerr.Code != "conflict" {
		t.Errorf("Code = %q, want conflict", nerr.Code)
	}
	if nerr.Fields[RootErrorField] != "icon set already exists" {
		t.Errorf("Fields[%s] = %q, want backend message", RootErrorField, nerr.Fields[RootErrorField])
	}
	if nerr.Details == nil {
		t.Error("Details should be preserved")
	}
}

func TestNormalizeBody_ValidationIssues(t *testing.T) {
	body := []byte(`{"detail":[
		{"loc":["body","name"],"msg":"Field required","type":"missing"},
		{"loc":["body","a","b"],"msg":"X","type":"string_type"}
	]}`)
	nerr := NormalizeBody(http.StatusUnprocessableEntity, body)

	if nerr.Message != "Field required" {
		t.Errorf("Message = %q, want first issue's message", nerr.Message)
	}
	if got := nerr.Fields["name"]; got != "Field required" {
		t.Errorf(`Fields["name"] = %q, want "Field required"`, got)
	}
	if got := nerr.Fields["a.b"]; got != "X" {
		t.Errorf(`Fields["a.b"] = %q, want "X"`, got)
	}
	if nerr.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", nerr.Status)
	}
}

func TestNormalizeBody_ValidationIssueWithoutPath(t *testing.T) {
	body := []byte(`{"detail":[{"loc":[],"msg":"broken","type":"value_error"}]}`)
	nerr := NormalizeBody(422, body)
	if got := nerr.Fields[RootErrorField]; got != "broken" {
		t.Errorf("pathless issue should map to %s, got fields %v", RootErrorField, nerr.Fields)
	}
}

func TestNormalizeBody_EmptyIssueList(t *testing.T) {
	nerr := NormalizeBody(422, []byte(`{"detail":[]}`))
	if nerr.Message != "validation failed" {
		t.Errorf("Message = %q, want validation failed", nerr.Message)
	}
}

func TestNormalizeBody_NumericLocSegments(t *testing.T) {
	body := []byte(`{"detail":[{"loc":["body","iconSetRefs",0,"version"],"msg":"bad version","type":"int_parsing"}]}`)
	nerr := NormalizeBody(422, body)
	if got := nerr.Fields["iconSetRefs.0.version"]; got != "bad version" {
		t.Errorf("Fields = %v, want iconSetRefs.0.version entry", nerr.Fields)
	}
}

func TestNormalizeBody_StructuredCheckedBeforeValidation(t *testing.T) {
	// A body carrying both shapes must classify as a structured error.
	body := []byte(`{"error":{"code":"oops","message":"structured wins"},"detail":[{"loc":["body","name"],"msg":"ignored","type":"missing"}]}`)
	nerr := NormalizeBody(500, body)
	if nerr.Message != "structured wins" || nerr.Code != "oops" {
		t.Errorf("got %+v, want structured-error classification", nerr)
	}
}

func TestNormalizeBody_Garbage(t *testing.T) {
	nerr := NormalizeBody(502, []byte("upstream exploded"))
	if nerr.Message != "upstream exploded" || nerr.Status != 502 {
		t.Errorf("got %+v", nerr)
	}
	nerr = NormalizeBody(0, nil)
	if nerr.Message != "unexpected error" || nerr.Status != http.StatusInternalServerError {
		t.Errorf("empty body at status 0 should produce a generic 500, got %+v", nerr)
	}
}

func TestNormalizeErr_Passthrough(t *testing.T) {
	orig := &Error{Message: "already normalized", Status: 404}
	if got := NormalizeErr(orig, 500); got != orig {
		t.Error("already-normalized errors must pass through unchanged")
	}
}

func TestNormalizeErr_GenericError(t *testing.T) {
	nerr := NormalizeErr(errors.New("connection refused"), 502)
	if nerr.Message != "connection refused" {
		t.Errorf("Message = %q", nerr.Message)
	}
	if nerr.Fields[RootErrorField] != "connection refused" {
		t.Errorf("Fields = %v", nerr.Fields)
	}
}

func TestNormalizeErr_NeverNil(t *testing.T) {
	if nerr := NormalizeErr(nil, 0); nerr == nil || nerr.Message == "" {
		t.Fatalf("NormalizeErr(nil) = %+v, want generic error", nerr)
	}
}
