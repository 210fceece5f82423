package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/paywal/internal/infrastructure/auth"
)

type capturedRequest struct {
	method  string
	path    string
	query   string
	auth    string
	idemKey string
	body    map[string]string
}

func newTestAPI(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.query = r.URL.RawQuery
		captured.auth = r.Header.Get("Authorization")
		captured.idemKey = r.Header.Get("Idempotency-Key")
		if r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, &captured.body)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv, captured
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestTransferCommand(t *testing.T) {
	srv, captured := newTestAPI(t, http.StatusCreated, `{"outcome":"completed"}`)

	out, err := execute(t, "--url", srv.URL, "--token", "tok", "transfer", "--to", "acc-2", "--amount", "12.5", "--idempotency-key", "k-1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if captured.method != http.MethodPost || captured.path != "/api/v1/transfers" {
		t.Fatalf("unexpected request: %+v", captured)
	}
	if captured.auth != "Bearer tok" || captured.idemKey != "k-1" {
		t.Fatalf("expected auth and idempotency headers, got %+v", captured)
	}
	if captured.body["recipient_id"] != "acc-2" || captured.body["amount"] != "12.5" {
		t.Fatalf("unexpected body: %+v", captured.body)
	}
	if !strings.Contains(out, `"outcome": "completed"`) {
		t.Fatalf("expected pretty printed response, got %q", out)
	}
}

func TestTransferCommandRejectsBadAmount(t *testing.T) {
	if _, err := execute(t, "transfer", "--to", "acc-2", "--amount", "lots"); err == nil {
		t.Fatalf("expected invalid amount error")
	}
}

func TestTransferCommandReportsRejection(t *testing.T) {
	srv, _ := newTestAPI(t, http.StatusUnprocessableEntity, `{"outcome":"rejected","reason":"InsufficientFunds"}`)

	out, err := execute(t, "--url", srv.URL, "transfer", "--to", "acc-2", "--amount", "1")
	if err == nil || !strings.Contains(err.Error(), "422") {
		t.Fatalf("expected status error, got %v", err)
	}
	if !strings.Contains(out, "InsufficientFunds") {
		t.Fatalf("expected rejection body to be printed, got %q", out)
	}
}

func TestHistoryCommandPassesLimit(t *testing.T) {
	srv, captured := newTestAPI(t, http.StatusOK, `[]`)

	if _, err := execute(t, "--url", srv.URL, "history", "--limit", "3"); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if captured.path != "/api/v1/accounts/me/transfers" || captured.query != "limit=3" {
		t.Fatalf("unexpected request: %+v", captured)
	}
}

func TestConsistencyCommand(t *testing.T) {
	srv, _ := newTestAPI(t, http.StatusOK, `{"consistent":true}`)

	out, err := execute(t, "--url", srv.URL, "ledger", "consistency")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "PASSED") {
		t.Fatalf("expected PASSED, got %q", out)
	}

	failing, _ := newTestAPI(t, http.StatusConflict, `{"consistent":false}`)
	if _, err := execute(t, "--url", failing.URL, "ledger", "consistency"); err == nil {
		t.Fatalf("expected inconsistent ledger to fail")
	}
}

func TestReportCommand(t *testing.T) {
	srv, captured := newTestAPI(t, http.StatusOK, `{"total_accounts":2,"reconciled_accounts":2,"ledger_consistent":true,"discrepancies":[]}`)

	out, err := execute(t, "--url", srv.URL, "--token", "tok", "ledger", "report")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if captured.method != http.MethodGet || captured.path != "/api/v1/ledger/reconciliation" || captured.auth != "Bearer tok" {
		t.Fatalf("unexpected request: %+v", captured)
	}
	if !strings.Contains(out, `"total_accounts": 2`) {
		t.Fatalf("expected report output, got %q", out)
	}

	failing, _ := newTestAPI(t, http.StatusConflict, `{"ledger_consistent":true,"discrepancies":[{"account_id":"acc-1"}]}`)
	if _, err := execute(t, "--url", failing.URL, "ledger", "report"); err == nil {
		t.Fatalf("expected discrepancies to fail the command")
	}
}

func TestAccountShowRequiresID(t *testing.T) {
	if _, err := execute(t, "account", "show"); err == nil {
		t.Fatalf("expected missing account id to be rejected")
	}
}

func TestTokenIssueCommand(t *testing.T) {
	out, err := execute(t, "token", "issue", "--account", "acc-9", "--secret", "s3cret", "--ttl", "1m")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	claims, err := auth.NewJWTManager("s3cret", time.Minute).Verify(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.AccountID != "acc-9" {
		t.Fatalf("expected account acc-9, got %s", claims.AccountID)
	}
}

func TestTokenIssueRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := execute(t, "token", "issue", "--account", "acc-9", "--secret", ""); err == nil {
		t.Fatalf("expected missing secret error")
	}
}

func TestMigrateRejectsUnknownDirection(t *testing.T) {
	if _, err := execute(t, "migrate", "sideways"); err == nil {
		t.Fatalf("expected invalid argument error")
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}
