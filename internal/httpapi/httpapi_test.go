package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/flowlens/flowlens/pkg/pipeline"
	"github.com/flowlens/flowlens/pkg/store"
	"github.com/flowlens/flowlens/pkg/xerrors"
)

// loopDoc is a CFG with one natural loop (c→a closes it).
const loopDoc = `{
  "entry": "a",
  "nodes": [{"id": "a"}, {"id": "b"}, {"id": "c"}, {"id": "d"}],
  "edges": [
    {"from": "a", "to": "b"},
    {"from": "b", "to": "c"},
    {"from": "c", "to": "a"},
    {"from": "b", "to": "d"}
  ]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := charmlog.NewWithOptions(io.Discard, charmlog.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := NewServer(runner, store.NewMemoryStore(), logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func createAnalysis(t *testing.T, ts *httptest.Server, body string) store.Record {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/analyses", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/analyses: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST /v1/analyses = %d, want 201 (body: %s)", resp.StatusCode, data)
	}
	var rec store.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return rec
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var payload errorPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload.Error
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", resp.StatusCode)
	}
}

func TestCreateAnalysis(t *testing.T) {
	ts := newTestServer(t)
	rec := createAnalysis(t, ts, loopDoc)

	if rec.ID == "" {
		t.Errorf("record has no ID")
	}
	if rec.GraphHash == "" {
		t.Errorf("record has no graph hash")
	}
	if rec.Stats.VertexCount != 4 {
		t.Errorf("Stats.VertexCount = %d, want 4", rec.Stats.VertexCount)
	}
	if rec.Stats.BackJoins != 1 {
		t.Errorf("Stats.BackJoins = %d, want 1", rec.Stats.BackJoins)
	}
	if rec.Result.Entry != "a" {
		t.Errorf("Result.Entry = %s, want a", rec.Result.Entry)
	}
}

func TestCreateAnalysis_BadJSON(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/analyses", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("POST /v1/analyses: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST bad JSON = %d, want 400", resp.StatusCode)
	}
	if e := decodeError(t, resp); e.Code != xerrors.CodeInvalidFormat {
		t.Errorf("error code = %s, want %s", e.Code, xerrors.CodeInvalidFormat)
	}
}

func TestCreateAnalysis_InvalidGraph(t *testing.T) {
	ts := newTestServer(t)

	// Edge references a node that doesn't exist
	body := `{"entry": "a", "nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "ghost"}]}`
	resp, err := http.Post(ts.URL+"/v1/analyses", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/analyses: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST invalid graph = %d, want 400", resp.StatusCode)
	}
	if e := decodeError(t, resp); e.Code != xerrors.CodeInvalidGraph {
		t.Errorf("error code = %s, want %s", e.Code, xerrors.CodeInvalidGraph)
	}
}

func TestCreateAnalysis_UnreachableEdge(t *testing.T) {
	ts := newTestServer(t)

	// x→y is disconnected from the entry, so classification must refuse
	body := `{
	  "entry": "a",
	  "nodes": [{"id": "a"}, {"id": "x"}, {"id": "y"}],
	  "edges": [{"from": "x", "to": "y"}]
	}`
	resp, err := http.Post(ts.URL+"/v1/analyses", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/analyses: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("POST unreachable edge = %d, want 422", resp.StatusCode)
	}
	if e := decodeError(t, resp); e.Code != xerrors.CodeUnreachableVertex {
		t.Errorf("error code = %s, want %s", e.Code, xerrors.CodeUnreachableVertex)
	}
}

func TestGetAnalysis(t *testing.T) {
	ts := newTestServer(t)
	rec := createAnalysis(t, ts, loopDoc)

	resp, err := http.Get(ts.URL + "/v1/analyses/" + rec.ID)
	if err != nil {
		t.Fatalf("GET /v1/analyses/{id}: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /v1/analyses/{id} = %d, want 200", resp.StatusCode)
	}
	var got store.Record
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("got.ID = %s, want %s", got.ID, rec.ID)
	}
}

func TestGetAnalysis_NotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/analyses/no-such-id")
	if err != nil {
		t.Fatalf("GET /v1/analyses/{id}: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET missing analysis = %d, want 404", resp.StatusCode)
	}
	if e := decodeError(t, resp); e.Code != xerrors.CodeAnalysisNotFound {
		t.Errorf("error code = %s, want %s", e.Code, xerrors.CodeAnalysisNotFound)
	}
}

func TestListAnalyses(t *testing.T) {
	ts := newTestServer(t)
	createAnalysis(t, ts, loopDoc)

	resp, err := http.Get(ts.URL + "/v1/analyses")
	if err != nil {
		t.Fatalf("GET /v1/analyses: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /v1/analyses = %d, want 200", resp.StatusCode)
	}
	var out []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("listing = %d entries, want 1", len(out))
	}
	if _, hasResult := out[0]["result"]; hasResult {
		t.Errorf("listing includes full result document, want summary only")
	}
}

func TestDeleteAnalysis(t *testing.T) {
	ts := newTestServer(t)
	rec := createAnalysis(t, ts, loopDoc)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/v1/analyses/"+rec.ID, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE /v1/analyses/{id}: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE = %d, want 204", resp.StatusCode)
	}

	check, err := http.Get(ts.URL + "/v1/analyses/" + rec.ID)
	if err != nil {
		t.Fatalf("GET after delete: %v", err)
	}
	defer check.Body.Close()
	if check.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", check.StatusCode)
	}
}

func TestGetAnalysisDOT(t *testing.T) {
	ts := newTestServer(t)
	rec := createAnalysis(t, ts, loopDoc)

	resp, err := http.Get(ts.URL + "/v1/analyses/" + rec.ID + "/dot?edge_labels=true")
	if err != nil {
		t.Fatalf("GET /v1/analyses/{id}/dot: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET dot = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %s, want text/vnd.graphviz", ct)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read dot body: %v", err)
	}
	if !strings.Contains(string(data), "digraph") {
		t.Errorf("dot body missing digraph header")
	}
	if !strings.Contains(string(data), "BJ") {
		t.Errorf("dot body missing back-join label")
	}
}
