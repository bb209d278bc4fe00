package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/payarrear/arrear-calculator/internal/store/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps everything in memory.
type fakeStore struct {
	rates      *domain.RateTables
	statements map[string]sqlite.StatementRecord
	order      []string
	loadErr    error
	pingErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rates: &domain.RateTables{
			DA: []domain.RateEntry{{FromDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Rate: decimal.NewFromInt(50)}},
		},
		statements: map[string]sqlite.StatementRecord{},
	}
}

func (f *fakeStore) LoadRateTables(ctx context.Context) (*domain.RateTables, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.rates, nil
}

func (f *fakeStore) ReplaceRateTable(ctx context.Context, c domain.RateCategory, entries []domain.RateEntry) error {
	f.rates.SetTable(c, entries)
	return nil
}

func (f *fakeStore) SaveStatement(ctx context.Context, st *domain.Statement) (sqlite.StatementRecord, error) {
	rec := sqlite.StatementRecord{
		ID:              fmt.Sprintf("st-%d", len(f.order)+1),
		EmployeeID:      st.Employee.ID,
		EmployeeName:    st.Employee.Name,
		FromDate:        st.FromDate,
		ToDate:          st.ToDate,
		DifferenceTotal: st.Totals.DifferenceTotal,
		CreatedAt:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Statement:       st,
	}
	f.statements[rec.ID] = rec
	f.order = append(f.order, rec.ID)
	return rec, nil
}

func (f *fakeStore) GetStatement(ctx context.Context, id string) (*sqlite.StatementRecord, error) {
	rec, ok := f.statements[id]
	if !ok {
		return nil, sqlite.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeStore) ListStatements(ctx context.Context, employeeID string) ([]sqlite.StatementRecord, error) {
	out := []sqlite.StatementRecord{}
	for _, id := range f.order {
		rec := f.statements[id]
		if employeeID == "" || rec.EmployeeID == employeeID {
			rec.Statement = nil
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

// aprilRequest is one April 2023 month with DA on both sides.
const aprilRequest = `{
  "employee": {"employee_id": "E-55", "name": "P. Rao"},
  "from_date": "2023-04-01T00:00:00Z",
  "to_date": "2023-04-30T00:00:00Z",
  "paid": {"cpc": 7, "basic_pay": 50000, "pay_level": "Level 9", "increment_month": 7, "da": {"applicable": true}},
  "to_be_paid": {"cpc": 7, "basic_pay": 56100, "pay_level": "Level 10", "increment_month": 7, "da": {"applicable": true}}
}`

func newTestServer(t *testing.T) (*httptest.Server, *fakeStore, *Handler) {
	t.Helper()
	store := newFakeStore()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewHandler(store, nil, logger)
	srv := httptest.NewServer(NewRouter(h, nil))
	t.Cleanup(srv.Close)
	return srv, store, h
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealth_StoreUnavailable(t *testing.T) {
	srv, store, _ := newTestServer(t)
	store.pingErr = errors.New("database is locked")

	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "unavailable", body["status"])
}

func TestCreateStatement_ComputeOnly(t *testing.T) {
	srv, store, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/statements", aprilRequest)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body StatementResponse
	decode(t, resp, &body)
	assert.Empty(t, body.ID)
	require.NotNil(t, body.Statement)
	require.Len(t, body.Statement.Rows, 1)
	// drawn 50000 + 25000, due 56100 + 28050
	assert.True(t, body.Statement.Totals.DrawnTotal.Equal(decimal.NewFromInt(75000)))
	assert.True(t, body.Statement.Totals.DueTotal.Equal(decimal.NewFromInt(84150)))
	assert.True(t, body.Statement.Totals.DifferenceTotal.Equal(decimal.NewFromInt(9150)))
	assert.Empty(t, store.order)
}

func TestCreateStatement_Archive(t *testing.T) {
	srv, store, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/statements?archive=true", aprilRequest)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body StatementResponse
	decode(t, resp, &body)
	assert.Equal(t, "st-1", body.ID)
	require.Contains(t, store.statements, "st-1")
	assert.Equal(t, "E-55", store.statements["st-1"].EmployeeID)
}

func TestCreateStatement_CalendarDates(t *testing.T) {
	srv, _, _ := newTestServer(t)

	doc := strings.NewReplacer(
		"2023-04-01T00:00:00Z", "2023-04-01",
		"2023-04-30T00:00:00Z", "2023-04-30",
	).Replace(aprilRequest)
	require.Contains(t, doc, `"from_date": "2023-04-01"`)

	resp := do(t, http.MethodPost, srv.URL+"/api/statements", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body StatementResponse
	decode(t, resp, &body)
	require.Len(t, body.Statement.Rows, 1)
	assert.Equal(t, 30, body.Statement.Rows[0].Days)
	assert.True(t, body.Statement.Totals.DifferenceTotal.Equal(decimal.NewFromInt(9150)))
}

func TestCreateStatement_YAMLBody(t *testing.T) {
	srv, _, _ := newTestServer(t)

	doc := `
employee:
  employee_id: E-56
from_date: 2023-04-01
to_date: 2023-04-30
paid:
  cpc: 7
  basic_pay: 50000
  pay_level: Level 9
  increment_month: 7
to_be_paid:
  cpc: 7
  basic_pay: 56100
  pay_level: Level 10
  increment_month: 7
`
	resp := do(t, http.MethodPost, srv.URL+"/api/statements", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body StatementResponse
	decode(t, resp, &body)
	assert.True(t, body.Statement.Totals.DifferenceTotal.Equal(decimal.NewFromInt(6100)))
}

func TestCreateStatement_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"malformed body", `{"from_date": [`, http.StatusBadRequest, ""},
		{"to before from", strings.Replace(aprilRequest, `"to_date": "2023-04-30T00:00:00Z"`, `"to_date": "2023-03-01T00:00:00Z"`, 1), http.StatusBadRequest, "to_date"},
		{"unknown commission", strings.Replace(aprilRequest, `"cpc": 7, "basic_pay": 50000`, `"cpc": 5, "basic_pay": 50000`, 1), http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := newTestServer(t)

			resp := do(t, http.MethodPost, srv.URL+"/api/statements", tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			var body ErrorResponse
			decode(t, resp, &body)
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.field, body.Field)
		})
	}
}

func TestCreateStatement_StoreFailure(t *testing.T) {
	srv, store, _ := newTestServer(t)
	store.loadErr = errors.New("disk gone")

	resp := do(t, http.MethodPost, srv.URL+"/api/statements", aprilRequest)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

type panicRule struct{}

func (panicRule) Next(decimal.Decimal, string) (decimal.Decimal, bool) { panic("matrix corrupted") }

func TestCreateStatement_CalculationFailure(t *testing.T) {
	srv, _, h := newTestServer(t)
	h.Engine.Rules[domain.CPC7] = panicRule{}

	july := strings.Replace(aprilRequest, "2023-04-30", "2023-07-31", 1)
	resp := do(t, http.MethodPost, srv.URL+"/api/statements", july)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body ErrorResponse
	decode(t, resp, &body)
	assert.Contains(t, body.Details, "matrix corrupted")
}

func TestGetAndListStatements(t *testing.T) {
	srv, _, _ := newTestServer(t)
	for i := 0; i < 2; i++ {
		resp := do(t, http.MethodPost, srv.URL+"/api/statements?archive=1", aprilRequest)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := do(t, http.MethodGet, srv.URL+"/api/statements/st-2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec sqlite.StatementRecord
	decode(t, resp, &rec)
	assert.Equal(t, "st-2", rec.ID)
	require.NotNil(t, rec.Statement)
	assert.Equal(t, "P. Rao", rec.Statement.Employee.Name)

	resp = do(t, http.MethodGet, srv.URL+"/api/statements?employee_id=E-55", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list StatementListResponse
	decode(t, resp, &list)
	assert.Len(t, list.Statements, 2)

	resp = do(t, http.MethodGet, srv.URL+"/api/statements?employee_id=nobody", "")
	decode(t, resp, &list)
	assert.Empty(t, list.Statements)

	resp = do(t, http.MethodGet, srv.URL+"/api/statements/st-9", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportStatement(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/api/statements?archive=true", aprilRequest)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/statements/st-1/export/csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="arrear_statement_st-1.csv"`, resp.Header.Get("Content-Disposition"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Month,Days,DaysInMonth"))

	resp = do(t, http.MethodGet, srv.URL+"/api/statements/st-1/export/excel", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="arrear_statement_st-1.xlsx"`, resp.Header.Get("Content-Disposition"))

	resp = do(t, http.MethodGet, srv.URL+"/api/statements/st-1/export/docx", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/statements/st-7/export/json", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRates(t *testing.T) {
	srv, store, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/rates", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got RatesResponse
	decode(t, resp, &got)
	assert.Len(t, got.Rates.DA, 1)

	hra := `[
  {"from_date": "2017-07-01T00:00:00Z", "rate": 27, "da_rate_from": 25, "da_rate_to": 49, "min_amount": 5400}
]`
	resp = do(t, http.MethodPut, srv.URL+"/api/rates/HRA", hra)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &got)
	require.Len(t, got.Rates.HRA, 1)
	assert.True(t, got.Rates.HRA[0].MinAmount.Equal(decimal.NewFromInt(5400)))
	assert.Len(t, store.rates.HRA, 1)

	resp = do(t, http.MethodPut, srv.URL+"/api/rates/bonus", "[]")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/api/rates/da", `[{"rate": 42}]`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, "da[0].from_date", e.Field)
}

func TestGetPayLevels(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/pay-levels", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body PayLevelsResponse
	decode(t, resp, &body)
	assert.Contains(t, body.Levels, "PB-2/5400")
	assert.Contains(t, body.Levels, "Level 10")
	assert.Contains(t, body.Progression[7], "Level 10")
}

func TestCORSPreflight(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/statements", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
