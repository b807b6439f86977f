package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConsolidate_InvalidBodyReturns400(t *testing.T) {
	d := &Deps{}

	req := httptest.NewRequest(http.MethodPost, "/consolidate", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	d.Consolidate()(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
