package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/handlescout/handlescout/internal/core/naming"
)

func TestGenerateHandlerReturnsValidNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/generate?count=10&length_min=5&length_max=7&seed=42", nil)
	rec := httptest.NewRecorder()

	GenerateHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp GenerateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Count == 0 || len(resp.Names) != resp.Count {
		t.Fatalf("expected a non-empty name list matching count, got count=%d names=%d", resp.Count, len(resp.Names))
	}

	for _, name := range resp.Names {
		if !naming.IsValid(name) {
			t.Fatalf("generated name %q fails the grammar", name)
		}
		if len(name) < 5 || len(name) > 7 {
			t.Fatalf("generated name %q outside requested length bounds", name)
		}
	}
}

func TestGenerateHandlerIsDeterministicForSeed(t *testing.T) {
	run := func() []string {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/generate?count=8&seed=7", nil)
		rec := httptest.NewRecorder()
		GenerateHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var resp GenerateResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return resp.Names
	}

	first := run()
	second := run()

	if len(first) != len(second) {
		t.Fatalf("expected identical result sizes, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected identical names at %d, got %q and %q", i, first[i], second[i])
		}
	}
}

func TestGenerateHandlerRejectsBadParams(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"count not a number", "count=many"},
		{"count too large", "count=10000"},
		{"length below minimum", "length_min=2&length_max=4"},
		{"digits exceed length", "length_min=5&length_max=5&digits_max=5"},
		{"unsatisfiable require", "length_min=5&length_max=5&require=abcdefgh"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/generate?"+tc.query, nil)
			rec := httptest.NewRecorder()

			GenerateHandler(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
		})
	}
}
