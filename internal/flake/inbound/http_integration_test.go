package inbound_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/shandysiswandi/flaken/internal/flake/inbound"
	"github.com/shandysiswandi/flaken/internal/flake/store"
	"github.com/shandysiswandi/flaken/internal/flake/usecase"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/flaken/internal/pkg/pkguid"
)

type envelope[T any] struct {
	Message string         `json:"message"`
	Data    T              `json:"data"`
	Meta    map[string]any `json:"meta"`
}

func newServer(t *testing.T, settings usecase.Settings) http.Handler {
	t.Helper()

	uc, err := usecase.New(usecase.Dependency{
		Store:    store.NewInMemoryStore(),
		Settings: settings,
	})
	if err != nil {
		t.Fatalf("usecase.New: %v", err)
	}

	router := pkgrouter.NewRouter(nil)
	inbound.RegisterHTTPEndpoint(router, uc)
	return router
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var env envelope[T]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestRegisterAndListNodes(t *testing.T) {
	h := newServer(t, usecase.DefaultSettings())

	rec := do(t, h, http.MethodPost, "/nodes", `{"identifier": 12}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[inbound.Node](t, rec)
	if created.Message != "node registered" || created.Data.Identifier != 12 {
		t.Fatalf("unexpected response: %+v", created)
	}

	if rec := do(t, h, http.MethodPost, "/nodes", `{"identifier": 12}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/nodes", `{"identifier": 4096}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/nodes", `{"name": "x"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/nodes", ""); rec.Code != http.StatusCreated {
		t.Fatalf("expected random registration to succeed, got %d", rec.Code)
	}

	list := decode[inbound.NodesResponse](t, do(t, h, http.MethodGet, "/nodes", ""))
	if len(list.Data.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %+v", list.Data)
	}
	if total, _ := list.Meta["total"].(float64); total != 2 {
		t.Fatalf("unexpected meta: %v", list.Meta)
	}
}

func TestGenerateAndDecode(t *testing.T) {
	h := newServer(t, usecase.DefaultSettings())
	do(t, h, http.MethodPost, "/nodes", `{"identifier": 5}`)

	rec := do(t, h, http.MethodPost, "/nodes/5/ids?count=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	ids := decode[inbound.IDsResponse](t, rec)
	if len(ids.Data.IDs) != 3 {
		t.Fatalf("expected 3 ids, got %+v", ids.Data)
	}

	rec = do(t, h, http.MethodGet, "/ids/"+ids.Data.IDs[2], "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	decoded := decode[inbound.DecodeResponse](t, rec)
	if decoded.Data.Identifier != 5 {
		t.Fatalf("expected identifier 5, got %+v", decoded.Data)
	}
	if strconv.FormatUint(decoded.Data.ID, 10) != ids.Data.IDs[2] {
		t.Fatalf("decoded id mismatch: %d vs %s", decoded.Data.ID, ids.Data.IDs[2])
	}

	if rec := do(t, h, http.MethodPost, "/nodes/6/ids", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/nodes/5/ids?count=x", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/nodes/5/ids?count=0", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/ids/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGenerateFromSeveralNodes(t *testing.T) {
	h := newServer(t, usecase.DefaultSettings())
	do(t, h, http.MethodPost, "/nodes", `{"identifier": 1}`)
	do(t, h, http.MethodPost, "/nodes", `{"identifier": 2}`)

	rec := do(t, h, http.MethodPost, "/ids?nodes=2,1&count=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	batch := decode[inbound.BatchResponse](t, rec)
	if len(batch.Data.Nodes) != 2 || batch.Data.Nodes[0].Identifier != 2 || batch.Data.Nodes[1].Identifier != 1 {
		t.Fatalf("unexpected batch: %+v", batch.Data)
	}
	if count, _ := batch.Meta["count"].(float64); count != 4 {
		t.Fatalf("unexpected meta: %v", batch.Meta)
	}

	if rec := do(t, h, http.MethodPost, "/ids?count=2", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without nodes, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/ids?nodes=1,9", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown node, got %d", rec.Code)
	}
}

func TestEncode(t *testing.T) {
	h := newServer(t, usecase.DefaultSettings())

	body := `{"timestamp": ` + strconv.FormatUint(pkguid.DefaultEpoch+1, 10) + `, "identifier": 1, "sequence": 1}`
	rec := do(t, h, http.MethodPost, "/ids/encode", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	encoded := decode[inbound.EncodeResponse](t, rec)
	if want := uint64(1<<22 | 1<<12 | 1); encoded.Data.ID != want {
		t.Fatalf("expected %d, got %d", want, encoded.Data.ID)
	}

	if rec := do(t, h, http.MethodPost, "/ids/encode", `{"timestamp": 1}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 before epoch, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/ids/encode", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without body, got %d", rec.Code)
	}
}

func TestLayout(t *testing.T) {
	h := newServer(t, usecase.DefaultSettings())

	rec := do(t, h, http.MethodGet, "/layout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	layout := decode[inbound.LayoutResponse](t, rec)
	if layout.Data.SequenceBits != 12 || layout.Data.MaxIdentifier != 1023 {
		t.Fatalf("unexpected layout: %+v", layout.Data)
	}
	if layout.Data.TimestampMask != "0xffffffffffc00000" || layout.Data.SequenceMask != "0x0000000000000fff" {
		t.Fatalf("unexpected masks: %+v", layout.Data)
	}
}
