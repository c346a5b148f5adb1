package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"

	appservices "github.com/vsinha/slitter/pkg/application/services"
	domain "github.com/vsinha/slitter/pkg/domain/services"
	"github.com/vsinha/slitter/pkg/infrastructure/events"
	"github.com/vsinha/slitter/pkg/infrastructure/repositories/memory"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, _ := logtest.NewNullLogger()
	constants := domain.DefaultConstants()
	plans := memory.NewPlanRepository(4)
	jobs := memory.NewJobCardRepository()
	dispatch := memory.NewDispatchRepository()
	store := events.NewInMemoryEventStore(logger)

	return NewRouter(Services{
		Plans:    appservices.NewPlanService(plans, dispatch, domain.NewUnitConverter(constants), store, logger),
		Merges:   appservices.NewMergeService(plans, jobs, dispatch, domain.NewCoilAllocator(constants), store, logger),
		Ledger:   appservices.NewLedgerService(jobs, dispatch, store, logger),
		Dispatch: appservices.NewDispatchService(plans, dispatch, store, logger),
	}, RouterConfig{}, logger)
}

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Fields  map[string]string `json:"fields"`
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid response body %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, env
}

func createTubePlan(t *testing.T, r *gin.Engine, id string, width, micron, weight float64) {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{
		"id":            id,
		"micron":        micron,
		"outputWidthMm": width,
		"processKind":   "Tube",
		"driver":        "Weight",
		"driverValue":   weight,
	})
	if code, env := do(t, r, http.MethodPost, "/api/v1/plans", string(body)); code != http.StatusCreated {
		t.Fatalf("create plan %s: %d %s", id, code, env.Message)
	}
}

func TestRouter_PlanLifecycle(t *testing.T) {
	r := newTestRouter(t)

	code, env := do(t, r, http.MethodPost, "/api/v1/plans/derive",
		`{"micron":20,"outputWidthMm":600,"cuttingLengthMm":300,"processKind":"Plain","driver":"Weight","driverValue":50}`)
	if code != http.StatusOK {
		t.Fatalf("derive: expected 200, got %d %s", code, env.Message)
	}
	var derived struct {
		Plan struct {
			TargetPieces *float64 `json:"targetPieces"`
		} `json:"plan"`
	}
	if err := json.Unmarshal(env.Data, &derived); err != nil {
		t.Fatalf("decode derive: %v", err)
	}
	if derived.Plan.TargetPieces == nil || *derived.Plan.TargetPieces != 4960 {
		t.Errorf("Expected 4960 pieces, got %v", derived.Plan.TargetPieces)
	}

	createTubePlan(t, r, "A", 400, 25, 120)
	if code, _ := do(t, r, http.MethodGet, "/api/v1/plans/A", ""); code != http.StatusOK {
		t.Errorf("get plan: expected 200, got %d", code)
	}
	if code, _ := do(t, r, http.MethodGet, "/api/v1/plans/ZZZ", ""); code != http.StatusNotFound {
		t.Errorf("get missing plan: expected 404, got %d", code)
	}
	if code, _ := do(t, r, http.MethodPatch, "/api/v1/plans/A", `{"driverValue":130}`); code != http.StatusOK {
		t.Errorf("edit plan: expected 200, got %d", code)
	}
	if code, _ := do(t, r, http.MethodGet, "/api/v1/plans?status=bogus", ""); code != http.StatusBadRequest {
		t.Errorf("list with bad status: expected 400, got %d", code)
	}
}

func TestRouter_ValidationFields(t *testing.T) {
	r := newTestRouter(t)

	code, env := do(t, r, http.MethodPost, "/api/v1/plans", `{"micron":-1,"outputWidthMm":600,"processKind":"Plain","driver":"Weight"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", code)
	}
	if env.Fields["PlanInput.Micron"] != "gte" {
		t.Errorf("Expected Micron=gte in fields, got %v", env.Fields)
	}

	if code, _ := do(t, r, http.MethodPost, "/api/v1/plans/derive",
		`{"micron":20,"outputWidthMm":600,"cuttingLengthMm":300,"processKind":"SealedEdge","driver":"Pieces","driverValue":4960.9}`); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for fractional pieces, got %d", code)
	}

	if code, _ := do(t, r, http.MethodPost, "/api/v1/plans", `{"processKind":"Laminate"}`); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unknown process kind, got %d", code)
	}
}

func TestRouter_MergeAndLedger(t *testing.T) {
	r := newTestRouter(t)
	createTubePlan(t, r, "A", 400, 25, 120)
	createTubePlan(t, r, "B", 300, 25, 90)

	merge := `{"planIds":["A","B"],"rollLengthM":2000,"jobCardId":"JOB-1"}`
	if code, env := do(t, r, http.MethodPost, "/api/v1/merges/preview", merge); code != http.StatusOK {
		t.Fatalf("preview: expected 200, got %d %s", code, env.Message)
	}
	if code, env := do(t, r, http.MethodPost, "/api/v1/merges", merge); code != http.StatusCreated {
		t.Fatalf("commit: expected 201, got %d %s", code, env.Message)
	}
	if code, _ := do(t, r, http.MethodPost, "/api/v1/merges", merge); code != http.StatusConflict {
		t.Errorf("re-merging completed plans: expected 409, got %d", code)
	}

	for _, row := range []string{
		`{"coilId":"JOB-1-C1","grossWeightKg":"12.55","coreWeightKg":"0.5","lengthM":500}`,
		`{"coilId":"JOB-1-C1","grossWeightKg":11.90,"coreWeightKg":0.5,"lengthM":480}`,
	} {
		if code, env := do(t, r, http.MethodPost, "/api/v1/jobs/JOB-1/ledger", row); code != http.StatusCreated {
			t.Fatalf("record row: expected 201, got %d %s", code, env.Message)
		}
	}

	code, env := do(t, r, http.MethodGet, "/api/v1/dispatch/DSP-JOB-1", "")
	if code != http.StatusOK {
		t.Fatalf("get dispatch: expected 200, got %d", code)
	}
	var entry struct {
		TotalWeightKg string `json:"totalWeightKg"`
		TotalPieces   int64  `json:"totalPieces"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &entry); err != nil {
		t.Fatalf("decode dispatch: %v", err)
	}
	if entry.TotalWeightKg != "23.45" || entry.TotalPieces != 2 || entry.Status != "InSlitting" {
		t.Errorf("Unexpected dispatch entry %+v", entry)
	}

	if code, _ := do(t, r, http.MethodPost, "/api/v1/jobs/JOB-1/ledger", `{"coilId":"JOB-1-C9","grossWeightKg":1,"coreWeightKg":0}`); code != http.StatusNotFound {
		t.Errorf("unknown coil: expected 404, got %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/api/v1/jobs/JOB-1/complete", ""); code != http.StatusOK {
		t.Errorf("complete: expected 200, got %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/api/v1/jobs/JOB-1/ledger", `{"coilId":"JOB-1-C1","grossWeightKg":1,"coreWeightKg":0}`); code != http.StatusConflict {
		t.Errorf("record on completed job: expected 409, got %d", code)
	}
	if code, _ := do(t, r, http.MethodDelete, "/api/v1/jobs/JOB-1/ledger/ROW-x", ""); code != http.StatusConflict {
		t.Errorf("delete on completed job: expected 409, got %d", code)
	}

	code, env = do(t, r, http.MethodGet, "/api/v1/dispatch?status=ready", "")
	if code != http.StatusOK {
		t.Fatalf("list dispatch: expected 200, got %d", code)
	}
	var ready []json.RawMessage
	if err := json.Unmarshal(env.Data, &ready); err != nil || len(ready) != 1 {
		t.Errorf("Expected one ready entry, got %s (%v)", env.Data, err)
	}
}

func TestRouter_MicronMismatch(t *testing.T) {
	r := newTestRouter(t)
	createTubePlan(t, r, "A", 400, 25, 120)
	createTubePlan(t, r, "B", 300, 30, 90)

	code, _ := do(t, r, http.MethodPost, "/api/v1/merges/preview", `{"planIds":["A","B"],"rollLengthM":2000}`)
	if code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", code)
	}
}

func TestRouter_DispatchFromPlan(t *testing.T) {
	r := newTestRouter(t)
	createTubePlan(t, r, "A", 400, 25, 120)

	code, env := do(t, r, http.MethodPost, "/api/v1/plans/A/dispatch", `{"weightKg":"118.5","pieceCount":0,"bundleCount":6}`)
	if code != http.StatusCreated {
		t.Fatalf("dispatch from plan: expected 201, got %d %s", code, env.Message)
	}
	var entry struct {
		ID        string `json:"id"`
		LineItems []struct {
			ID          string  `json:"id"`
			ProcessCode string  `json:"processCode"`
			WastageKg   *string `json:"wastageKg"`
		} `json:"lineItems"`
	}
	if err := json.Unmarshal(env.Data, &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	item := entry.LineItems[0]
	if item.ProcessCode != "TB" || item.WastageKg == nil || *item.WastageKg != "1.5" {
		t.Errorf("Unexpected line item %+v", item)
	}

	patch := `{"lineItemId":"` + item.ID + `","bundleCount":7}`
	if code, env := do(t, r, http.MethodPatch, "/api/v1/dispatch/"+entry.ID+"/items", patch); code != http.StatusOK {
		t.Errorf("update counts: expected 200, got %d %s", code, env.Message)
	}
	if code, _ := do(t, r, http.MethodPost, "/api/v1/plans/A/dispatch", `{}`); code != http.StatusConflict {
		t.Errorf("dispatching a completed plan: expected 409, got %d", code)
	}
}

func TestStatusFor_DefaultsToInternalError(t *testing.T) {
	if got := StatusFor(http.ErrServerClosed); got != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", got)
	}
}
