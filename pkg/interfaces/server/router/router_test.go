package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/shortage/pkg/application/services/ledger"
	"github.com/vsinha/shortage/pkg/application/services/orchestration"
	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/repositories"
	"github.com/vsinha/shortage/pkg/infrastructure/events"
	"github.com/vsinha/shortage/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/shortage/pkg/infrastructure/testing"
	"github.com/vsinha/shortage/pkg/interfaces/server/handlers"
	"github.com/vsinha/shortage/pkg/interfaces/server/router"
)

func newTestServer(t *testing.T, snapshot *repositories.Snapshot) http.Handler {
	t.Helper()
	engine := ledger.NewEngineWithConfig(ledger.EngineConfig{Workers: 2, Normalizer: entities.DefaultNormalizer}, nil)
	po := orchestration.NewPlanningOrchestrator(
		&testhelpers.StaticSource{Snapshot: snapshot},
		memory.NewScheduleRepository(),
		engine,
		nil,
		events.NewInMemoryEventStore(nil),
		nil,
	)
	return router.New(handlers.NewShortageHandler(po, nil), nil)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type reportBody struct {
	Sites  []string `json:"sites"`
	Groups []struct {
		Key          string `json:"key"`
		Status       string `json:"status"`
		FinalBalance string `json:"final_balance"`
	} `json:"groups"`
	Summary struct {
		Items     int `json:"items"`
		Shortages int `json:"shortages"`
		Orders    int `json:"orders"`
	} `json:"summary"`
}

func decodeReport(t *testing.T, rec *httptest.ResponseRecorder) reportBody {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body reportBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, testhelpers.BuildControllerSnapshot())
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReportAndPlanLifecycle(t *testing.T) {
	h := newTestServer(t, testhelpers.BuildControllerSnapshot())

	body := decodeReport(t, do(t, h, http.MethodGet, "/api/v1/report", ""))
	assert.Equal(t, []string{"main"}, body.Sites)
	assert.Equal(t, 2, body.Summary.Items)
	assert.Equal(t, 0, body.Summary.Shortages)

	rec := do(t, h, http.MethodPost, "/api/v1/plan", `{"date":"2024-03-05","model":"CTRL-100","quantity":10}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order entities.ProductionOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, entities.SourceManual, order.Source)

	body = decodeReport(t, do(t, h, http.MethodGet, "/api/v1/report?shortage_only=true", ""))
	require.Len(t, body.Groups, 1)
	assert.Equal(t, "R1", body.Groups[0].Key)
	assert.Equal(t, "shortage", body.Groups[0].Status)
	assert.Equal(t, "-10", body.Groups[0].FinalBalance)
	assert.Equal(t, 2, body.Summary.Orders)

	body = decodeReport(t, do(t, h, http.MethodGet, "/api/v1/report?part=1001", ""))
	require.Len(t, body.Groups, 1)
	assert.Equal(t, "C1", body.Groups[0].Key)

	body = decodeReport(t, do(t, h, http.MethodGet, "/api/v1/report?name=resist", ""))
	require.Len(t, body.Groups, 1)
	assert.Equal(t, "R1", body.Groups[0].Key)

	rec = do(t, h, http.MethodGet, "/api/v1/plan", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var plan struct {
		Orders          []entities.ProductionOrder `json:"orders"`
		PlannedQuantity string                     `json:"planned_quantity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Len(t, plan.Orders, 1)
	assert.Equal(t, "10", plan.PlannedQuantity)

	rec = do(t, h, http.MethodGet, "/api/v1/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var evts struct {
		Events []struct {
			Type   string `json:"type"`
			Stream string `json:"stream"`
		} `json:"events"`
		Next int `json:"next"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &evts))
	require.Len(t, evts.Events, 2)
	assert.Equal(t, events.PlanOrderAddedEvent, evts.Events[0].Type)
	assert.Equal(t, events.ShortageIdentifiedEvent, evts.Events[1].Type)
	assert.Equal(t, "CTRL-100/R1", evts.Events[1].Stream)
	assert.Equal(t, 2, evts.Next)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/v1/plan/missing", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/v1/plan/"+order.ID, "").Code)

	body = decodeReport(t, do(t, h, http.MethodGet, "/api/v1/report", ""))
	assert.Equal(t, 0, body.Summary.Shortages)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/v1/plan", "").Code)
}

func TestAddOrderValidation(t *testing.T) {
	h := newTestServer(t, testhelpers.BuildControllerSnapshot())

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"date":`},
		{"zero quantity", `{"date":"2024-03-05","model":"CTRL-100","quantity":0}`},
		{"bad date", `{"date":"someday","model":"CTRL-100","quantity":5}`},
		{"missing model", `{"date":"2024-03-05","quantity":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/plan", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestReportFormats(t *testing.T) {
	h := newTestServer(t, testhelpers.BuildControllerSnapshot())

	rec := do(t, h, http.MethodGet, "/api/v1/report?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "model,key,part_numbers"), rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/report?format=xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Shortage")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rec = do(t, h, http.MethodGet, "/api/v1/report?format=html", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Shortage Report")

	rec = do(t, h, http.MethodGet, "/api/v1/report?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportRejectsInvalidBOM(t *testing.T) {
	snapshot := testhelpers.BuildControllerSnapshot()
	snapshot.BOM = append(snapshot.BOM, &entities.BOMLine{Model: "CTRL-100"})
	h := newTestServer(t, snapshot)

	rec := do(t, h, http.MethodGet, "/api/v1/report", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEventsRejectsBadPosition(t *testing.T) {
	h := newTestServer(t, testhelpers.BuildControllerSnapshot())
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/events?from=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/events?from=-1", "").Code)

	rec := do(t, h, http.MethodGet, "/api/v1/events?from=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"events":[],"next":5}`, rec.Body.String())
}
