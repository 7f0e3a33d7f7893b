package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/services"
	"bookmarkd/internal/httputil"
)

type mockDeletionService struct {
	mu       sync.Mutex
	requests []services.RemoveOrDeleteRequest
	result   *models.DeletionResult
	err      error
}

func (m *mockDeletionService) RemoveOrDeleteCollection(ctx context.Context, req *services.RemoveOrDeleteRequest) (*models.DeletionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, *req)
	return m.result, m.err
}

func newTestMux(svc services.CollectionDeletionService) *http.ServeMux {
	h := NewCollectionHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/collections/{id}", h.DeleteCollection)
	mux.HandleFunc("GET /health", HealthCheck)
	return mux
}

func doDelete(mux http.Handler, path string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	if userID != 0 {
		req = httputil.WithUserID(req, userID)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestDeleteCollection(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		result       *models.DeletionResult
		err          error
		wantStatus   int
		wantResponse interface{}
		wantID       int64
	}{
		{
			name:       "owner deletes",
			path:       "/api/v1/collections/5",
			result:     &models.DeletionResult{Kind: models.DeletionDeleted, Collection: &models.Collection{ID: 5, Name: "Reading"}},
			wantStatus: http.StatusOK,
			wantID:     5,
		},
		{
			name:       "member leaves",
			path:       "/api/v1/collections/6",
			result:     &models.DeletionResult{Kind: models.DeletionLeft, Membership: &models.Membership{UserID: 9, CollectionID: 6}},
			wantStatus: http.StatusOK,
			wantID:     6,
		},
		{
			name:         "invalid id",
			path:         "/api/v1/collections/abc",
			err:          domain.NewInvalidCollectionError(),
			wantStatus:   http.StatusUnauthorized,
			wantResponse: "Please choose a valid collection.",
			wantID:       0,
		},
		{
			name:         "not accessible",
			path:         "/api/v1/collections/7",
			err:          domain.NewNotAccessibleError(),
			wantStatus:   http.StatusUnauthorized,
			wantResponse: "Collection is not accessible.",
			wantID:       7,
		},
		{
			name:       "relation gone",
			path:       "/api/v1/collections/8",
			err:        errors.Join(errors.New("membership of user 9 in collection 8"), domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantID:     8,
		},
		{
			name:       "rolled back",
			path:       "/api/v1/collections/9",
			err:        errors.New("commit transaction: disk full"),
			wantStatus: http.StatusInternalServerError,
			wantID:     9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockDeletionService{result: tt.result, err: tt.err}
			rr := doDelete(newTestMux(svc), tt.path, 9)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if len(svc.requests) != 1 {
				t.Fatalf("service called %d times", len(svc.requests))
			}
			if got := svc.requests[0]; got.UserID != 9 || got.CollectionID != tt.wantID {
				t.Errorf("request = %+v", got)
			}

			if tt.wantStatus == http.StatusInternalServerError {
				return
			}
			body := decodeResponse(t, rr)
			if _, ok := body["response"]; !ok {
				t.Fatalf("body has no response field: %v", body)
			}
			if tt.wantResponse != nil && body["response"] != tt.wantResponse {
				t.Errorf("response = %v, want %v", body["response"], tt.wantResponse)
			}
		})
	}
}

func TestDeleteCollectionResponseBody(t *testing.T) {
	svc := &mockDeletionService{result: &models.DeletionResult{
		Kind:       models.DeletionDeleted,
		Collection: &models.Collection{ID: 5, Name: "Reading", OwnerID: 9},
	}}

	rr := doDelete(newTestMux(svc), "/api/v1/collections/5", 9)
	body := decodeResponse(t, rr)

	record, ok := body["response"].(map[string]interface{})
	if !ok {
		t.Fatalf("response = %T, want object", body["response"])
	}
	if record["name"] != "Reading" || record["id"] != float64(5) {
		t.Errorf("record = %v", record)
	}
}

func TestDeleteCollectionRequiresUser(t *testing.T) {
	svc := &mockDeletionService{}
	rr := doDelete(newTestMux(svc), "/api/v1/collections/5", 0)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if len(svc.requests) != 0 {
		t.Error("service must not be called without a user")
	}
}

func TestHealthCheck(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestMux(&mockDeletionService{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKey    string
	}{
		{name: "access", err: domain.NewNotAccessibleError(), wantStatus: http.StatusUnauthorized, wantKey: "response"},
		{name: "not found", err: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantKey: "response"},
		{name: "unauthorized", err: domain.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantKey: "detail"},
		{
			name:       "conflict",
			err:        &domain.ConflictError{Message: "already a member", ResourceType: "membership", ResourceID: "9:5"},
			wantStatus: http.StatusConflict,
			wantKey:    "resource_id",
		},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantKey: "detail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handleError(rr, tt.err)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			body := decodeResponse(t, rr)
			if _, ok := body[tt.wantKey]; !ok {
				t.Errorf("body %v has no %q field", body, tt.wantKey)
			}
		})
	}
}
