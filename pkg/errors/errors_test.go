package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	if meta := MetadataFor(CodeNotFound); meta.HTTPStatus != http.StatusNotFound {
		t.Fatalf("unexpected status for not found: %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(CodeStateConflict); meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status for state conflict: %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(CodeDependency); !meta.Retryable {
		t.Fatalf("dependency errors must be retryable")
	}
	if meta := MetadataFor(Code("bogus")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes must fall back to internal")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("row locked")
	err := Wrap(CodeDependency, cause, "conversion busy")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to survive errors.Is")
	}
	if typed := As(fmt.Errorf("outer: %w", err)); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected As to find typed error through wrapping")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad line").WithDetails(map[string]string{"line": "???"})
	if err.Details() == nil {
		t.Fatalf("expected details to be attached")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeStateConflict, stdErrors.New("inner"), "nothing to send")
	dump := Dump(err)
	if dump.Code != CodeStateConflict {
		t.Fatalf("unexpected code: %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", dump.Chain)
	}
}
