package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skill-bridge/internal/config"
	"skill-bridge/internal/pkg/logger"
	"skill-bridge/internal/ws"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{AppName: "skill-bridge-test", Environment: "test", HTTPPort: "0"},
		Catalog: config.CatalogConfig{
			Source:            config.CatalogSourceFile,
			SkillOntologyPath: "../../data/skill_ontology.json",
			RoleCatalogPath:   "../../data/role_catalog.json",
			CourseCatalogPath: "../../data/course_catalog.json",
			Strict:            true,
		},
		Embedding: config.EmbeddingConfig{Provider: "hash", Dimensions: 64},
		Matching:  config.MatchingConfig{MatchLimit: 5, BridgeLimit: 5},
		Redis:     config.RedisConfig{SessionTTL: time.Hour},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	log := logger.NewNop()
	c, err := NewContainer(context.Background(), testConfig(), log)
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return New(c.Config, c, ws.NewHub(log))
}

func do(t *testing.T, a *App, method, path, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return send(t, a, req)
}

func send(t *testing.T, a *App, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := a.Fiber.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", req.Method, req.URL.Path, err)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("%s %s: missing request id", req.Method, req.URL.Path)
	}
	return resp.StatusCode, env
}

func TestHealthAndCatalog(t *testing.T) {
	a := newTestApp(t)

	status, env := do(t, a, http.MethodGet, "/health", "")
	if status != http.StatusOK || env.Message != "ok" {
		t.Fatalf("health: %d %s", status, env.Message)
	}
	var health struct {
		Roles   int `json:"roles"`
		Courses int `json:"courses"`
	}
	_ = json.Unmarshal(env.Data, &health)
	if health.Roles != 10 || health.Courses != 20 {
		t.Fatalf("unexpected health data %s", env.Data)
	}

	for _, path := range []string{"/api/v1/skills", "/api/v1/roles", "/api/v1/courses"} {
		status, env := do(t, a, http.MethodGet, path, "")
		var items []map[string]any
		if err := json.Unmarshal(env.Data, &items); err != nil || status != http.StatusOK || len(items) == 0 {
			t.Fatalf("%s: status %d, %d items, err %v", path, status, len(items), err)
		}
	}
}

func TestExtractMatchAndBridges(t *testing.T) {
	a := newTestApp(t)

	status, env := do(t, a, http.MethodPost, "/api/v1/skills/extract", `{"text":"Python and SQL, great communication"}`)
	if status != http.StatusOK {
		t.Fatalf("extract: %d", status)
	}
	var set struct {
		HardSkills []string `json:"hard_skills"`
		SoftSkills []string `json:"soft_skills"`
	}
	_ = json.Unmarshal(env.Data, &set)
	if len(set.HardSkills) < 2 || len(set.SoftSkills) < 1 {
		t.Fatalf("unexpected extraction %s", env.Data)
	}

	status, env = do(t, a, http.MethodPost, "/api/v1/roles/match", `{"skill_ids":["python","sql"]}`)
	var matches []struct {
		RoleID string   `json:"role_id"`
		Gaps   []string `json:"gaps"`
	}
	_ = json.Unmarshal(env.Data, &matches)
	if status != http.StatusOK || len(matches) != 5 {
		t.Fatalf("match: %d with %d results", status, len(matches))
	}

	status, env = do(t, a, http.MethodPost, "/api/v1/roles/match", `{"skill_ids":["python"],"limit":51}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized limit, got %d", status)
	}
	if !strings.Contains(env.Message, "limit") {
		t.Fatalf("expected limit message, got %q", env.Message)
	}

	status, env = do(t, a, http.MethodPost, "/api/v1/bridges/recommend", `{"gap_ids":[],"user_skill_ids":["python"]}`)
	if status != http.StatusOK || string(env.Data) != "[]" {
		t.Fatalf("expected empty recommendations, got %d %s", status, env.Data)
	}

	status, _ = do(t, a, http.MethodPost, "/api/v1/roles/match", `{not json`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", status)
	}
}

func TestAnalyzeAndResume(t *testing.T) {
	a := newTestApp(t)

	status, env := do(t, a, http.MethodPost, "/api/v1/analyze", `{"text":"pytorch deep learning with python and docker","limit":3}`)
	var res struct {
		Matches    []json.RawMessage `json:"matches"`
		TargetRole string            `json:"target_role"`
	}
	_ = json.Unmarshal(env.Data, &res)
	if status != http.StatusOK || len(res.Matches) != 3 || res.TargetRole == "" {
		t.Fatalf("analyze: %d %s", status, env.Data)
	}

	status, _ = do(t, a, http.MethodPost, "/api/v1/analyze", `{"text":""}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty text, got %d", status)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "cv.txt")
	_, _ = fw.Write([]byte("Data engineer with Spark, SQL and Python. Teamwork."))
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	status, env = send(t, a, req)
	if status != http.StatusOK {
		t.Fatalf("resume upload: %d %s", status, env.Message)
	}

	status, _ = do(t, a, http.MethodPost, "/api/v1/resumes/analyze", `{"object_key":"cv.pdf"}`)
	if status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without storage, got %d", status)
	}
}

func TestSessions(t *testing.T) {
	a := newTestApp(t)

	status, env := do(t, a, http.MethodPost, "/api/v1/sessions", "")
	if status != http.StatusCreated {
		t.Fatalf("create session: %d", status)
	}
	var s struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	_ = json.Unmarshal(env.Data, &s)
	if s.ID == "" || s.Status != "pending" {
		t.Fatalf("unexpected session %s", env.Data)
	}

	status, env = do(t, a, http.MethodPost, "/api/v1/sessions/"+s.ID+"/analyze", `{"text":"python, sql and statistics"}`)
	_ = json.Unmarshal(env.Data, &s)
	if status != http.StatusOK || s.Status != "completed" {
		t.Fatalf("analyze session: %d %s", status, env.Data)
	}

	status, env = do(t, a, http.MethodGet, "/api/v1/sessions/"+s.ID, "")
	_ = json.Unmarshal(env.Data, &s)
	if status != http.StatusOK || s.Status != "completed" {
		t.Fatalf("get session: %d %s", status, env.Data)
	}

	status, _ = do(t, a, http.MethodPost, "/api/v1/sessions/"+s.ID+"/analyze", `{"text":"python","async":true}`)
	if status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for async without queue, got %d", status)
	}

	status, _ = do(t, a, http.MethodGet, "/api/v1/sessions/00000000-0000-0000-0000-000000000000", "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestUnknownRoute(t *testing.T) {
	a := newTestApp(t)
	status, env := do(t, a, http.MethodGet, "/api/v1/nope", "")
	if status != http.StatusNotFound || env.Message == "" {
		t.Fatalf("expected enveloped 404, got %d %q", status, env.Message)
	}
}

func TestListenAddr(t *testing.T) {
	if got, _ := ListenAddr("8080"); got != ":8080" {
		t.Fatalf("expected :8080, got %s", got)
	}
	if got, _ := ListenAddr(":9090"); got != ":9090" {
		t.Fatalf("expected :9090, got %s", got)
	}
	if _, err := ListenAddr(" "); err == nil {
		t.Fatalf("expected error for empty port")
	}
}
