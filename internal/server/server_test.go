package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ChicagoDave/trailworld/pkg/scene"
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/world"
)

// testProject copies the meadow recipe into a scratch project directory.
func testProject(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../examples/meadow/world.yaml")
	if err != nil {
		t.Fatalf("reading meadow recipe: %v", err)
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, spec.ProjectFile), data, 0o644); err != nil {
		t.Fatalf("writing recipe: %v", err)
	}
	return dir
}

// reseed rewrites the project recipe with a different seed.
func reseed(t *testing.T, dir string) {
	t.Helper()
	p := filepath.Join(dir, spec.ProjectFile)
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("reading recipe: %v", err)
	}
	changed := strings.Replace(string(data), "seed: 1337", "seed: 7", 1)
	if changed == string(data) {
		t.Fatal("recipe seed not found")
	}
	if err := os.WriteFile(p, []byte(changed), 0o644); err != nil {
		t.Fatalf("writing recipe: %v", err)
	}
}

func startServer(t *testing.T) (*Server, *httptest.Server, string) {
	t.Helper()
	dir := testProject(t)
	s := New(dir, 0)
	if _, _, err := s.Regenerate(); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts, dir
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestNoWorldBeforeRegenerate(t *testing.T) {
	s := New(testProject(t), 0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	for _, p := range []string{"/api/world", "/api/overview", "/api/preview.png"} {
		if code := getJSON(t, ts.URL+p, nil); code != http.StatusServiceUnavailable {
			t.Errorf("%s: status %d, want 503", p, code)
		}
	}
}

func TestWorldSummary(t *testing.T) {
	s, ts, _ := startServer(t)

	var sum world.Summary
	if code := getJSON(t, ts.URL+"/api/world", &sum); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if sum.Key != s.Current().Key {
		t.Errorf("key = %s, want %s", sum.Key, s.Current().Key)
	}
	if sum.Name != "meadow" {
		t.Errorf("name = %q, want meadow", sum.Name)
	}
}

func TestOverview(t *testing.T) {
	_, ts, _ := startServer(t)

	var ov struct {
		Lakes     []json.RawMessage `json:"lakes"`
		Instances []struct {
			Name string `json:"name"`
		} `json:"instances"`
	}
	if code := getJSON(t, ts.URL+"/api/overview", &ov); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if len(ov.Lakes) != 1 {
		t.Errorf("lakes = %d, want 1", len(ov.Lakes))
	}
	if len(ov.Instances) == 0 || ov.Instances[0].Name != "tree" {
		t.Errorf("instances should start with tree, got %+v", ov.Instances)
	}
}

func TestBufferEndpoint(t *testing.T) {
	_, ts, _ := startServer(t)

	var batch scene.Batch
	if code := getJSON(t, ts.URL+"/api/buffers/tree", &batch); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if batch.Generation != 1 {
		t.Errorf("generation = %d, want 1", batch.Generation)
	}
	if batch.Count == 0 || len(batch.Transforms) != batch.Count*scene.TransformStride {
		t.Errorf("count %d with %d transform floats", batch.Count, len(batch.Transforms))
	}

	if code := getJSON(t, ts.URL+"/api/buffers/nope", nil); code != http.StatusNotFound {
		t.Errorf("unknown category: status %d, want 404", code)
	}
	if code := getJSON(t, ts.URL+"/api/buffers/tree?after=x", nil); code != http.StatusBadRequest {
		t.Errorf("bad after: status %d, want 400", code)
	}
}

func TestRegenerateUnchangedKeepsGeneration(t *testing.T) {
	s, ts, _ := startServer(t)

	resp, err := http.Post(ts.URL+"/api/regenerate", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	var out struct {
		Key    string `json:"key"`
		Cached bool   `json:"cached"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !out.Cached {
		t.Error("unchanged recipe should come from the cache")
	}
	buf, _ := s.Buffers().Lookup("tree")
	if g := buf.Generation(); g != 1 {
		t.Errorf("generation = %d after unchanged regenerate, want 1", g)
	}
}

func TestRegenerateChangedRecipe(t *testing.T) {
	s, ts, dir := startServer(t)
	before := s.Current().Key

	done := make(chan scene.Batch, 1)
	go func() {
		var b scene.Batch
		resp, err := http.Get(ts.URL + "/api/buffers/rock?after=1")
		if err != nil {
			close(done)
			return
		}
		defer resp.Body.Close()
		json.NewDecoder(resp.Body).Decode(&b)
		done <- b
	}()

	reseed(t, dir)
	resp, err := http.Post(ts.URL+"/api/regenerate", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("regenerate status %d", resp.StatusCode)
	}
	if s.Current().Key == before {
		t.Error("key should change with the seed")
	}

	select {
	case b := <-done:
		if b.Generation != 2 {
			t.Errorf("waited batch generation = %d, want 2", b.Generation)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("long poll did not return")
	}
}

func TestRegenerateBadRecipe(t *testing.T) {
	s, ts, dir := startServer(t)
	before := s.Current()

	if err := os.WriteFile(filepath.Join(dir, spec.ProjectFile), []byte("path: {control_points: []}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(ts.URL+"/api/regenerate", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status %d, want 422", resp.StatusCode)
	}
	if !strings.Contains(string(body), "invalid recipe") {
		t.Errorf("body %s should explain the failure", body)
	}
	if s.Current() != before {
		t.Error("a failed regenerate must keep the previous world")
	}
}

func TestPreviewPNG(t *testing.T) {
	_, ts, _ := startServer(t)

	resp, err := http.Get(ts.URL + "/api/preview.png?size=64")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("width %d, want 64", img.Bounds().Dx())
	}

	if code := getJSON(t, ts.URL+"/api/preview.png?size=3", nil); code != http.StatusBadRequest {
		t.Errorf("tiny size: status %d, want 400", code)
	}
}

func TestWebsocketStreamsUpdates(t *testing.T) {
	s, ts, dir := startServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status %d", resp.StatusCode)
	}
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	cats := s.Buffers().Categories()
	for range cats {
		var u scene.Update
		if err := conn.ReadJSON(&u); err != nil {
			t.Fatalf("reading initial update: %v", err)
		}
		if u.Generation != 1 {
			t.Errorf("initial %s generation = %d, want 1", u.Category, u.Generation)
		}
	}

	reseed(t, dir)
	if _, _, err := s.Regenerate(); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	seen := map[string]uint64{}
	for range cats {
		var u scene.Update
		if err := conn.ReadJSON(&u); err != nil {
			t.Fatalf("reading update: %v", err)
		}
		seen[u.Category] = u.Generation
	}
	for _, name := range cats {
		if seen[name] != 2 {
			t.Errorf("%s: generation %d, want 2", name, seen[name])
		}
	}
}
