package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cargohub/cargohub-api/internal/storage"
)

func TestRespondErrMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"exists", storage.ErrExists, http.StatusBadRequest},
		{"validation", Invalid("code is required"), http.StatusBadRequest},
		{"wrapped not found", errors.Join(errors.New("outer"), storage.ErrNotFound), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondErr(rr, tt.err)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
			var body map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not an error object: %v", err)
			}
			if body["error"] == "" {
				t.Error("error message missing from body")
			}
		})
	}
}

func TestRespondNoBody(t *testing.T) {
	rr := httptest.NewRecorder()
	Respond(rr, http.StatusNoContent, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rr.Body.String())
	}
}

func TestDecodeMalformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	var v struct{}
	err := Decode(r, &v)
	if !IsValidation(err) {
		t.Fatalf("got %v, want a validation error", err)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"no params", "", []int{1, 2, 3, 4, 5}},
		{"first page", "?page=1&page_size=2", []int{1, 2}},
		{"middle page", "?page=2&page_size=2", []int{3, 4}},
		{"short last page", "?page=3&page_size=2", []int{5}},
		{"past the end", "?page=4&page_size=2", []int{}},
		{"invalid page", "?page=zero&page_size=2", []int{1, 2, 3, 4, 5}},
		{"zero size", "?page=1&page_size=0", []int{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			got := Paginate(r, items)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
