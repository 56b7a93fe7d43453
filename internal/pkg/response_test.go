package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/minimarket/internal/domain"
)

// newResponseTestContext creates a gin context backed by an httptest.ResponseRecorder.
func newResponseTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return body
}

func TestSuccess(t *testing.T) {
	c, w := newResponseTestContext()

	Success(c, map[string]string{"name": "Lamp"})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", body["data"])
	}
	if data["name"] != "Lamp" {
		t.Errorf("expected data.name=Lamp, got %v", data["name"])
	}
	if len(body) != 1 {
		t.Errorf("expected only the data key, got %v", body)
	}
}

func TestList(t *testing.T) {
	c, w := newResponseTestContext()

	List(c, &domain.PageResult[string]{
		Data:       []string{"a", "b"},
		Pagination: NewPaginationInfo(domain.PageParams{Page: 1, Limit: 2}, 5),
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	want := `{"data":["a","b"],"pagination":{"currentPage":1,"totalPages":3,"totalItems":5,"itemsPerPage":2,"hasNext":true,"hasPrev":false}}`
	if got := strings.TrimSpace(w.Body.String()); got != want {
		t.Errorf("body = %s\nwant   %s", got, want)
	}
}

func TestList_NilDataBecomesEmptyArray(t *testing.T) {
	c, w := newResponseTestContext()

	List(c, &domain.PageResult[string]{Pagination: NewPaginationInfo(domain.PageParams{Page: 1, Limit: 10}, 0)})

	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Errorf("expected empty data array, got %s", w.Body.String())
	}
}

func TestError_NotFound(t *testing.T) {
	c, w := newResponseTestContext()

	Error(c, domain.ErrProductNotFound)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != false {
		t.Errorf("expected success=false, got %v", body["success"])
	}
	if body["message"] != "Producto no encontrado" {
		t.Errorf("expected not-found message, got %v", body["message"])
	}
	if _, ok := body["error"]; ok {
		t.Errorf("4xx responses should not carry an error field, got %v", body["error"])
	}
}

func TestError_Validation(t *testing.T) {
	c, w := newResponseTestContext()

	Error(c, domain.ErrInvalidIdentifier)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "invalid identifier" {
		t.Errorf("expected message %q, got %v", "invalid identifier", body["message"])
	}
}

func TestError_Internal(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantError string
	}{
		{"plain error", errors.New("connection refused"), "connection refused"},
		{"app error", domain.NewAppError(domain.CodeInternal, "database error", errors.New("i/o timeout")), "i/o timeout"},
		{"wrapped app error", fmt.Errorf("list products: %w", domain.NewAppError(domain.CodeInternal, "database error", errors.New("disk full"))), "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext()

			Error(c, tt.err)

			if w.Code != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d", w.Code)
			}
			body := decodeBody(t, w)
			if body["success"] != false {
				t.Errorf("expected success=false, got %v", body["success"])
			}
			if body["message"] != InternalErrorMessage {
				t.Errorf("expected message %q, got %v", InternalErrorMessage, body["message"])
			}
			if body["error"] != tt.wantError {
				t.Errorf("expected error %q, got %v", tt.wantError, body["error"])
			}
		})
	}
}
