package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/domain"
	"github.com/iho/paywal/internal/usecase"
)

type reconciliationServiceStub struct {
	consistencyFn func(ctx context.Context) (*usecase.ConsistencyReport, error)
	reconcileFn   func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	reportFn      func(ctx context.Context) (*usecase.ReconciliationReport, error)
}

func (s *reconciliationServiceStub) CheckLedgerConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s.consistencyFn(ctx)
}

func (s *reconciliationServiceStub) ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
	return s.reconcileFn(ctx, accountID)
}

func (s *reconciliationServiceStub) GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.reportFn(ctx)
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name       string
		report     *usecase.ConsistencyReport
		err        error
		wantStatus int
	}{
		{"consistent", &usecase.ConsistencyReport{Consistent: true}, nil, http.StatusOK},
		{"inconsistent", &usecase.ConsistencyReport{Consistent: false, NegativeAccounts: 1}, errors.New("ledger inconsistency"), http.StatusConflict},
		{"store down", nil, domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(&reconciliationServiceStub{
				consistencyFn: func(ctx context.Context) (*usecase.ConsistencyReport, error) {
					return tt.report, tt.err
				},
			})

			rec := httptest.NewRecorder()
			handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestLedgerHandler_ReconcileAccount(t *testing.T) {
	handler := NewLedgerHandler(&reconciliationServiceStub{
		reconcileFn: func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
			switch accountID {
			case "acc-ok":
				return &usecase.ReconciliationResult{AccountID: accountID, RecordedBalance: decimal.NewFromInt(5), CalculatedBalance: decimal.NewFromInt(5), IsReconciled: true}, nil
			case "acc-bad":
				return &usecase.ReconciliationResult{AccountID: accountID, Difference: decimal.NewFromInt(1)}, nil
			default:
				return nil, domain.ErrAccountNotFound
			}
		},
	})

	r := chi.NewRouter()
	r.Get("/accounts/{id}/reconciliation", handler.ReconcileAccount)

	tests := map[string]int{
		"acc-ok":  http.StatusOK,
		"acc-bad": http.StatusConflict,
		"ghost":   http.StatusNotFound,
	}
	for id, want := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/"+id+"/reconciliation", nil))
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", id, want, rec.Code)
		}
	}
}

func TestLedgerHandler_Report(t *testing.T) {
	tests := []struct {
		name       string
		report     *usecase.ReconciliationReport
		err        error
		wantStatus int
	}{
		{"clean", &usecase.ReconciliationReport{TotalAccounts: 2, ReconciledAccounts: 2, LedgerConsistent: true}, nil, http.StatusOK},
		{"discrepancy", &usecase.ReconciliationReport{
			TotalAccounts:    2,
			LedgerConsistent: true,
			Discrepancies:    []*usecase.ReconciliationResult{{AccountID: "acc-bad", Difference: decimal.NewFromInt(3)}},
		}, nil, http.StatusConflict},
		{"ledger inconsistent", &usecase.ReconciliationReport{LedgerConsistent: false}, nil, http.StatusConflict},
		{"store down", nil, domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(&reconciliationServiceStub{
				reportFn: func(ctx context.Context) (*usecase.ReconciliationReport, error) {
					return tt.report, tt.err
				},
			})

			rec := httptest.NewRecorder()
			handler.Report(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/reconciliation", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	healthy := NewHealthHandler(HealthCheck{Name: "postgres", Ping: func(ctx context.Context) error { return nil }})
	rec := httptest.NewRecorder()
	healthy.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	unhealthy := NewHealthHandler(
		HealthCheck{Name: "postgres", Ping: func(ctx context.Context) error { return nil }},
		HealthCheck{Name: "redis", Ping: func(ctx context.Context) error { return errors.New("down") }},
	)
	rec = httptest.NewRecorder()
	unhealthy.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
