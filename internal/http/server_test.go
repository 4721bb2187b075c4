package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/kv/memkv"
	"fintrack/internal/ledger"
	"fintrack/internal/report"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := ledger.New(memkv.New(), "finance-tracker-transactions")
	srv := NewServer(":0", store, report.DefaultPolicy())
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestTransactionCRUDFlow(t *testing.T) {
	srv := newTestServer(t)

	// Create
	rr := do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"income","category":"Salary","amount":5000,"date":"2026-08-01","description":"August salary"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body)
	}
	created := decode[mutationResponse](t, rr)
	if created.Transaction == nil || created.Transaction.ID == "" {
		t.Fatalf("create must return the record with its id: %s", rr.Body)
	}
	if created.Warning != "" {
		t.Fatalf("unexpected warning: %s", created.Warning)
	}
	id := created.Transaction.ID

	rr = do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","category":"Rent","amount":"1500,50","date":"2026-08-02"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create with comma amount status=%d body=%s", rr.Code, rr.Body)
	}

	// List: newest first (prepend order)
	rr = do(t, srv, http.MethodGet, "/api/transactions", "")
	if rr.Code != 200 {
		t.Fatalf("list status=%d", rr.Code)
	}
	list := decode[[]core.Transaction](t, rr)
	if len(list) != 2 || list[0].Category != "Rent" || list[1].ID != id {
		t.Fatalf("list wrong: %s", rr.Body)
	}
	if list[0].Amount.String() != "1500.5" {
		t.Fatalf("comma amount parsed wrong: %s", list[0].Amount)
	}

	// Update
	rr = do(t, srv, http.MethodPut, "/api/transactions/"+id,
		`{"type":"income","category":"Freelance","amount":4800,"date":"2026-08-01"}`)
	if rr.Code != 200 {
		t.Fatalf("update status=%d body=%s", rr.Code, rr.Body)
	}
	rr = do(t, srv, http.MethodGet, "/api/transactions?type=income", "")
	filtered := decode[[]core.Transaction](t, rr)
	if len(filtered) != 1 || filtered[0].Category != "Freelance" {
		t.Fatalf("update not applied: %s", rr.Body)
	}

	// Delete
	rr = do(t, srv, http.MethodDelete, "/api/transactions/"+id, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}
	rr = do(t, srv, http.MethodGet, "/api/transactions", "")
	if got := decode[[]core.Transaction](t, rr); len(got) != 1 {
		t.Fatalf("expected 1 record after delete, got %d", len(got))
	}
	// Deleting again is still a success.
	rr = do(t, srv, http.MethodDelete, "/api/transactions/"+id, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("repeat delete status=%d", rr.Code)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t)
	cases := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"type":`, http.StatusBadRequest},
		{"unknown field", `{"type":"income","category":"Salary","amount":1,"date":"2026-08-01","extra":true}`, http.StatusBadRequest},
		{"unknown type", `{"type":"transfer","category":"X","amount":1,"date":"2026-08-01"}`, http.StatusUnprocessableEntity},
		{"empty category", `{"type":"expense","category":"  ","amount":1,"date":"2026-08-01"}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"type":"expense","category":"Food","amount":0,"date":"2026-08-01"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"type":"expense","category":"Food","amount":-5,"date":"2026-08-01"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"type":"expense","category":"Food","amount":1,"date":"01/08/2026"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPost, "/api/transactions", tc.body)
			if rr.Code != tc.code {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tc.code, rr.Body)
			}
			var apiErr apiError
			if err := json.Unmarshal(rr.Body.Bytes(), &apiErr); err != nil || apiErr.Error == "" {
				t.Fatalf("error body missing: %s", rr.Body)
			}
		})
	}

	rr := do(t, srv, http.MethodGet, "/api/transactions", "")
	if got := decode[[]core.Transaction](t, rr); len(got) != 0 {
		t.Fatalf("rejected requests must not create records: %d", len(got))
	}
}

func TestUpdateUnknownIDSucceedsWithoutCreating(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodPut, "/api/transactions/no-such-id",
		`{"type":"expense","category":"Food","amount":10,"date":"2026-08-01"}`)
	if rr.Code != 200 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body)
	}
	rr = do(t, srv, http.MethodGet, "/api/transactions", "")
	if got := decode[[]core.Transaction](t, rr); len(got) != 0 {
		t.Fatalf("unknown-id update must not create a record")
	}
}

func TestListSortAndFilter(t *testing.T) {
	srv := newTestServer(t)
	// Insert out of date order: oldest date last inserted.
	do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","category":"Food","amount":10,"date":"2026-08-20"}`)
	do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","category":"Rent","amount":20,"date":"2026-08-25"}`)
	do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"income","category":"Salary","amount":100,"date":"2026-08-01"}`)

	rr := do(t, srv, http.MethodGet, "/api/transactions?sort=date_desc", "")
	sorted := decode[[]core.Transaction](t, rr)
	if len(sorted) != 3 || sorted[0].Category != "Rent" || sorted[2].Category != "Salary" {
		t.Fatalf("date_desc sort wrong: %s", rr.Body)
	}

	rr = do(t, srv, http.MethodGet, "/api/transactions?type=bogus", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown type filter status=%d", rr.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"income","category":"Salary","amount":5000,"date":"2026-08-01"}`)
	do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","category":"Rent","amount":1500,"date":"2026-08-02"}`)

	rr := do(t, srv, http.MethodGet, "/api/summary", "")
	if rr.Code != 200 {
		t.Fatalf("summary status=%d", rr.Code)
	}
	sum := decode[report.Summary](t, rr)
	if sum.Income.String() != "5000" || sum.Expense.String() != "1500" || sum.Balance.String() != "3500" {
		t.Fatalf("summary wrong: %s", rr.Body)
	}

	// A mutation invalidates the cached summary.
	do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","category":"Food","amount":500,"date":"2026-08-03"}`)
	rr = do(t, srv, http.MethodGet, "/api/summary", "")
	sum = decode[report.Summary](t, rr)
	if sum.Balance.String() != "3000" {
		t.Fatalf("stale summary after mutation: %s", rr.Body)
	}
}

func TestBreakdownEndpoint(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","category":"Food","amount":10,"date":"2026-08-01"}`)
	do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","category":"Food","amount":5,"date":"2026-08-02"}`)
	do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"income","category":"Salary","amount":100,"date":"2026-08-01"}`)

	// Default type is expense.
	rr := do(t, srv, http.MethodGet, "/api/breakdown", "")
	out := decode[[]report.CategoryTotal](t, rr)
	if len(out) != 1 || out[0].Category != "Food" || out[0].Total.String() != "15" {
		t.Fatalf("breakdown wrong: %s", rr.Body)
	}

	rr = do(t, srv, http.MethodGet, "/api/breakdown?type=income", "")
	out = decode[[]report.CategoryTotal](t, rr)
	if len(out) != 1 || out[0].Category != "Salary" {
		t.Fatalf("income breakdown wrong: %s", rr.Body)
	}

	if rr := do(t, srv, http.MethodGet, "/api/breakdown?type=bogus", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown type status=%d", rr.Code)
	}
}

func TestTrendEndpoint(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","category":"Food","amount":25,"date":"2026-08-10"}`)

	rr := do(t, srv, http.MethodGet, "/api/trend?start=2026-08-08&end=2026-08-12", "")
	if rr.Code != 200 {
		t.Fatalf("trend status=%d body=%s", rr.Code, rr.Body)
	}
	series := decode[[]report.DayTotals](t, rr)
	if len(series) != 5 {
		t.Fatalf("expected 5 days, got %d", len(series))
	}
	if series[2].Expense.String() != "25" {
		t.Fatalf("trend bucket wrong: %s", rr.Body)
	}

	// Default window length.
	rr = do(t, srv, http.MethodGet, "/api/trend", "")
	series = decode[[]report.DayTotals](t, rr)
	if len(series) != defaultTrendDays+1 {
		t.Fatalf("default window length = %d", len(series))
	}

	for _, path := range []string{
		"/api/trend?start=2026-08-10",
		"/api/trend?start=2026-08-10&end=2026-08-01",
		"/api/trend?days=0",
		"/api/trend?days=9999",
	} {
		if rr := do(t, srv, http.MethodGet, path, ""); rr.Code != http.StatusBadRequest {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestAlertsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/alerts", "")
	alerts := decode[[]report.Alert](t, rr)
	if len(alerts) != 1 || alerts[0].Rule != report.RuleEmptyLedger {
		t.Fatalf("empty ledger alerts wrong: %s", rr.Body)
	}

	do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","category":"Rent","amount":6000,"date":"2026-01-02"}`)
	rr = do(t, srv, http.MethodGet, "/api/alerts", "")
	alerts = decode[[]report.Alert](t, rr)
	if len(alerts) != 1 || alerts[0].Rule != report.RuleNegativeBalance {
		t.Fatalf("negative balance alert missing: %s", rr.Body)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/categories?type=income", "")
	single := decode[[]string](t, rr)
	if len(single) == 0 {
		t.Fatalf("income categories empty")
	}

	rr = do(t, srv, http.MethodGet, "/api/categories", "")
	both := decode[map[string][]string](t, rr)
	if len(both["income"]) == 0 || len(both["expense"]) == 0 {
		t.Fatalf("combined categories wrong: %s", rr.Body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	cases := []struct {
		method, path string
	}{
		{http.MethodDelete, "/api/transactions"},
		{http.MethodPost, "/api/transactions/some-id"},
		{http.MethodPost, "/api/summary"},
		{http.MethodPut, "/api/alerts"},
		{http.MethodDelete, "/api/categories"},
	}
	for _, tc := range cases {
		rr := do(t, srv, tc.method, tc.path, "")
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s status=%d", tc.method, tc.path, rr.Code)
		}
		if rr.Header().Get("Allow") == "" {
			t.Fatalf("%s %s missing Allow header", tc.method, tc.path)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/api/summary", "")
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing frame options header")
	}
}

func TestMutationRateLimit(t *testing.T) {
	srv := newTestServer(t)

	var last int
	for i := 0; i < requestsPerMinute+1; i++ {
		rr := do(t, srv, http.MethodPost, "/api/transactions",
			fmt.Sprintf(`{"type":"expense","category":"Food","amount":%d,"date":"2026-08-01"}`, i+1))
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("request %d status=%d, want 429", requestsPerMinute+1, last)
	}

	// Reads are not rate limited.
	if rr := do(t, srv, http.MethodGet, "/api/transactions", ""); rr.Code != 200 {
		t.Fatalf("read blocked by rate limit: %d", rr.Code)
	}
}
