package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"agent-kb/internal/api/handlers"
	"agent-kb/internal/dto"
	"agent-kb/internal/models"
	"agent-kb/internal/repository"
	"agent-kb/internal/service"
	"agent-kb/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	mu   sync.Mutex
	rows map[string]models.KnowledgeBaseRow
	err  error
}

func (m *memStore) FindByBusinessID(_ context.Context, businessID string) (*models.KnowledgeBaseRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	row, ok := m.rows[businessID]
	if !ok {
		return nil, repository.ErrKnowledgeBaseNotFound
	}
	return &row, nil
}

func (m *memStore) Upsert(_ context.Context, row *models.KnowledgeBaseRow) (*models.KnowledgeBaseRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stored := *row
	if existing, ok := m.rows[row.BusinessID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	m.rows[row.BusinessID] = stored
	return &stored, nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	app   *fiber.App
	store *memStore
	jwt   *auth.JWTManager
}

func newTestServer(t *testing.T, checks map[string]handlers.Pinger) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := &memStore{rows: make(map[string]models.KnowledgeBaseRow)}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	knowledgeService := service.NewKnowledgeService(store, nil, logger)

	app := SetupRouter(RouterConfig{
		Knowledge:  handlers.NewKnowledgeHandler(knowledgeService, logger),
		Health:     handlers.NewHealthHandler(checks, logger),
		JWTManager: jwtManager,
	}, logger)

	return &testServer{app: app, store: store, jwt: jwtManager}
}

func (s *testServer) token(t *testing.T, businessID string) string {
	t.Helper()
	token, err := s.jwt.GenerateToken("user-1", businessID)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestKnowledgeBaseRequiresToken(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := srv.do(t, http.MethodGet, "/api/v1/knowledge-base", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = srv.do(t, http.MethodGet, "/api/v1/knowledge-base", "not-a-jwt", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestKnowledgeBaseForbiddenWithoutBusiness(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := srv.do(t, http.MethodGet, "/api/v1/knowledge-base", srv.token(t, ""), "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = srv.do(t, http.MethodPut, "/api/v1/knowledge-base", srv.token(t, "  "), `{"title":"KB"}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Empty(t, srv.store.rows)
}

func TestGetKnowledgeBaseDefault(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := srv.do(t, http.MethodGet, "/api/v1/knowledge-base", srv.token(t, "biz-1"), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	kb := decode[dto.KnowledgeBaseResponse](t, resp)
	assert.Equal(t, "biz-1", kb.BusinessID)
	assert.Equal(t, "Main Knowledge Base", kb.Title)
	assert.Len(t, kb.Sections.Builtins, 7)
	assert.NotNil(t, kb.Sections.Customs)
	assert.Empty(t, kb.RawText)
	assert.Empty(t, srv.store.rows)
}

func TestSaveKnowledgeBaseNormalizesInput(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.token(t, "biz-1")

	body := `{
		"title": "  Joe's Barbers ",
		"sections": {
			"builtins": {"services": "Haircuts $30", "pricing": 30, "hours": {"mon": "9-5"}},
			"customs": [
				{"title": "Parking", "content": "Free lot in rear"},
				{"title": " ", "content": ""},
				"junk"
			]
		}
	}`
	resp := srv.do(t, http.MethodPut, "/api/v1/knowledge-base", token, body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	kb := decode[dto.KnowledgeBaseResponse](t, resp)
	assert.Equal(t, "Joe's Barbers", kb.Title)
	assert.Equal(t, "Haircuts $30", kb.Sections.Builtins["services"])
	assert.Equal(t, "30", kb.Sections.Builtins["pricing"])
	assert.Equal(t, "", kb.Sections.Builtins["hours"])
	require.Len(t, kb.Sections.Customs, 1)
	assert.NotEmpty(t, kb.Sections.Customs[0].ID)
	assert.Contains(t, kb.RawText, "## Parking\nFree lot in rear")
	assert.Equal(t, srv.store.rows["biz-1"].RawText, kb.RawText)

	resp = srv.do(t, http.MethodGet, "/api/v1/knowledge-base/compiled", token, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	text, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(text), "# Joe's Barbers\n"))
	assert.Contains(t, string(text), "## Services\nHaircuts $30")
}

func TestSaveKnowledgeBaseAcceptsEmptyBody(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := srv.do(t, http.MethodPost, "/api/v1/knowledge-base", srv.token(t, "biz-1"), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	kb := decode[dto.KnowledgeBaseResponse](t, resp)
	assert.Equal(t, "Main Knowledge Base", kb.Title)
	assert.Len(t, srv.store.rows, 1)
}

func TestSaveKnowledgeBaseRejectsInvalidJSON(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := srv.do(t, http.MethodPut, "/api/v1/knowledge-base", srv.token(t, "biz-1"), `{"title":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, srv.store.rows)
}

func TestKnowledgeBaseStoreFailure(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.store.err = errors.New("connection reset")

	resp := srv.do(t, http.MethodPut, "/api/v1/knowledge-base", srv.token(t, "biz-1"), `{"title":"KB"}`)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "Failed to save knowledge base", body["error"])
}

func TestHealth(t *testing.T) {
	healthy := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("down") })

	srv := newTestServer(t, map[string]handlers.Pinger{"database": healthy})
	resp := srv.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	srv = newTestServer(t, map[string]handlers.Pinger{"database": healthy, "cache": down})
	resp = srv.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unavailable", body["cache"])
	assert.Equal(t, "ok", body["database"])
}
