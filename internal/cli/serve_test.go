package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/marcusm117/mctk/pkg/cache"
)

const testModelJSON = `{
  "Atoms": ["a", "b", "c", "d"],
  "States": {"s1": 8, "s2": 12, "s3": 6, "s4": 7, "s5": 4, "s6": 2, "s7": 1},
  "Starts": ["s1"],
  "Trans": {
    "s1": ["s2"], "s2": ["s3", "s4"], "s3": ["s4"], "s4": ["s7"],
    "s5": ["s6"], "s6": ["s7", "s5"], "s7": ["s5"]
  }
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(newRouter(log.New(io.Discard), store, 0))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestServe_Healthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestServe_Check(t *testing.T) {
	srv := newTestServer(t)

	body := `{"model": ` + testModelJSON + `, "formula": {"op":"EF","args":[{"op":"atom","atom":"a"}]}}`
	resp, data := postJSON(t, srv.URL+"/api/check", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}

	var result checkResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Formula != "EF a" {
		t.Errorf("formula: %s", result.Formula)
	}
	if !slices.Equal(result.States, []string{"s1", "s2"}) {
		t.Errorf("states: %v", result.States)
	}
	if !result.Holds {
		t.Error("EF a holds in the start state s1")
	}

	// Identical request again: answered from the cache, same payload.
	resp2, data2 := postJSON(t, srv.URL+"/api/check", body)
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("cached status %d", resp2.StatusCode)
	}
	if !bytes.Equal(bytes.TrimSpace(data), bytes.TrimSpace(data2)) {
		t.Errorf("cached response differs: %s vs %s", data, data2)
	}
}

func TestServe_CheckErrors(t *testing.T) {
	srv := newTestServer(t)

	// Missing formula.
	resp, data := postJSON(t, srv.URL+"/api/check", `{"model": `+testModelJSON+`}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing formula: status %d: %s", resp.StatusCode, data)
	}

	// Malformed formula record.
	body := `{"model": ` + testModelJSON + `, "formula": {"op":"EZ"}}`
	resp, data = postJSON(t, srv.URL+"/api/check", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed formula: status %d: %s", resp.StatusCode, data)
	}
	var apiErr apiError
	if err := json.Unmarshal(data, &apiErr); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if apiErr.Code != "INVALID_FORMULA" {
		t.Errorf("code: %s", apiErr.Code)
	}

	// Undefined atom.
	body = `{"model": ` + testModelJSON + `, "formula": {"op":"atom","atom":"zz"}}`
	resp, data = postJSON(t, srv.URL+"/api/check", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("undefined atom: status %d: %s", resp.StatusCode, data)
	}

	// Invalid model: duplicate labels.
	badModel := `{"Atoms":["a"],"States":{"s1":1,"s2":1},"Starts":[],"Trans":{}}`
	body = `{"model": ` + badModel + `, "formula": {"op":"atom","atom":"a"}}`
	resp, data = postJSON(t, srv.URL+"/api/check", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad model: status %d: %s", resp.StatusCode, data)
	}
}

func TestServe_SCC(t *testing.T) {
	srv := newTestServer(t)

	resp, data := postJSON(t, srv.URL+"/api/scc", `{"model": `+testModelJSON+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}

	var result struct {
		Components [][]string `json:"components"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Components) != 5 {
		t.Fatalf("expected 5 components, got %d", len(result.Components))
	}
	found := false
	for _, comp := range result.Components {
		if slices.Equal(comp, []string{"s5", "s6", "s7"}) {
			found = true
		}
	}
	if !found {
		t.Errorf("cycle component missing: %v", result.Components)
	}
}

func TestServe_RequestIDEcho(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("X-Request-ID", "my-id-123")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "my-id-123" {
		t.Errorf("request ID not echoed: %s", got)
	}
}
