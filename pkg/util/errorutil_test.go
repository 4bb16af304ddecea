package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewConflict("already exists", map[string]any{"name": "x"})
	mapped := ToDomainError(original)
	if mapped.Code != "CONFLICT" || mapped.HTTPStatus != http.StatusConflict {
		t.Fatalf("mapped = %+v", mapped)
	}
	if mapped.Details["name"] != "x" {
		t.Fatalf("details lost: %v", mapped.Details)
	}
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	if mapped.Code != "NOT_FOUND" || mapped.HTTPStatus != http.StatusNotFound {
		t.Fatalf("mapped = %+v", mapped)
	}

	wrapped := ToDomainError(errors.Join(errors.New("query failed"), pgx.ErrNoRows))
	if wrapped.Code != "NOT_FOUND" {
		t.Fatalf("wrapped mapped = %+v", wrapped)
	}
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	mapped := ToDomainError(errors.New("disk on fire"))
	if mapped.Code != "INTERNAL_ERROR" || mapped.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("mapped = %+v", mapped)
	}
	if mapped.Message == "disk on fire" {
		t.Fatal("internal detail leaked into message")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(pgx.ErrNoRows) {
		t.Fatal("pgx.ErrNoRows not recognized")
	}
	if !IsNotFound(NewNotFound("ticket", nil)) {
		t.Fatal("NewNotFound not recognized")
	}
	if IsNotFound(errors.New("other")) {
		t.Fatal("generic error recognized as not found")
	}
	if IsNotFound(nil) {
		t.Fatal("nil recognized as not found")
	}
}
