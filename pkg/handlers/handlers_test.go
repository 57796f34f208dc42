package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/lifeline/pkg/handlers"
)

type payload struct {
	Phone string `json:"phone"`
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]bool{"ok": true})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %s, want application/json", ct)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"ok":true}` {
		t.Errorf("body = %s", body)
	}
}

func TestRespondError(t *testing.T) {
	t.Run("client error keeps message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handlers.RespondError(rec, discardLogger(), http.StatusBadRequest, errors.New("phone is required"))

		var resp handlers.ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.OK || resp.Error != "phone is required" {
			t.Errorf("response = %+v", resp)
		}
	})

	t.Run("server error hides detail", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handlers.RespondError(rec, discardLogger(), http.StatusServiceUnavailable, errors.New("dial tcp 10.0.0.1:5432: refused"))

		var resp handlers.ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Error != "Service Unavailable" {
			t.Errorf("error = %q, want generic status text", resp.Error)
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr error
		status  int
	}{
		{"valid", `{"phone":"0901"}`, 0, nil, 0},
		{"empty", ``, 0, handlers.ErrInvalidBody, http.StatusBadRequest},
		{"malformed", `{"phone":`, 0, handlers.ErrInvalidBody, http.StatusBadRequest},
		{"too large", `{"phone":"0901234567890"}`, 8, handlers.ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			if tt.limit > 0 {
				req.Body = http.MaxBytesReader(rec, req.Body, tt.limit)
			}

			got, err := handlers.DecodeJSON[payload](req)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("DecodeJSON error: %v", err)
				}
				if got.Phone != "0901" {
					t.Errorf("Phone = %s, want 0901", got.Phone)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if status := handlers.MapHTTPStatus(err); status != tt.status {
				t.Errorf("MapHTTPStatus = %d, want %d", status, tt.status)
			}
		})
	}
}
