package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/pulsecheck/internal/cryptox"
	"github.com/dmitrijs2005/pulsecheck/internal/logging"
	"github.com/dmitrijs2005/pulsecheck/internal/server/config"
	"github.com/dmitrijs2005/pulsecheck/internal/server/models"
	"github.com/dmitrijs2005/pulsecheck/internal/server/observability"
	"github.com/dmitrijs2005/pulsecheck/internal/server/records/badgerstore"
	"github.com/dmitrijs2005/pulsecheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pulsecheck/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
}

func newTestAPI(t *testing.T, opts RouterOptions) *testAPI {
	t.Helper()

	store, err := badgerstore.Open(badgerstore.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults("")

	rm := repomanager.NewRecordRepositoryManager(store)
	hasher := cryptox.NewPasswordHasher(cfg.HashingSecret, cryptox.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32})
	ts := services.NewTokenService(rm, hasher, cfg, logging.Nop())
	us := services.NewUserService(rm, ts, hasher, logging.Nop())
	cs := services.NewCheckService(rm, ts, cfg, logging.Nop())

	engine := NewRouter(NewHandlers(us, ts, cs, logging.Nop()), logging.Nop(), opts)
	return &testAPI{t: t, handler: Handler(engine)}
}

func (a *testAPI) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const phone = "5551234567"

func (a *testAPI) signup() string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/users", map[string]any{
		"phone": phone, "firstName": "Ada", "lastName": "Lovelace", "password": "pw", "tosAgreement": true,
	}, "")
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/tokens", map[string]any{"phone": phone, "password": "pw"}, "")
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.Token](a.t, rec).ID
}

func TestPing(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	rec := api.do(http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestDispatch_UnknownPathAndMethod(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	rec := api.do(http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, decode[ErrorResponse](t, rec).Code)

	rec = api.do(http.MethodPatch, "/users", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, CodeMethodNotAllowed, decode[ErrorResponse](t, rec).Code)
}

func TestDispatch_TrimsSlashes(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	rec := api.do(http.MethodGet, "/ping/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsersFlow(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	token := api.signup()

	rec := api.do(http.MethodGet, "/users?phone="+phone, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hashedPassword")
	profile := decode[models.UserProfile](t, rec)
	assert.Equal(t, "Ada", profile.FirstName)

	rec = api.do(http.MethodGet, "/users?phone="+phone, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPost, "/users", map[string]any{"phone": phone, "firstName": "A", "lastName": "B", "password": "x", "tosAgreement": true}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeAlreadyExists, decode[ErrorResponse](t, rec).Code)

	rec = api.do(http.MethodPut, "/users", map[string]any{"phone": phone, "lastName": "Byron"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPut, "/users", map[string]any{"phone": phone}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodDelete, "/users?phone="+phone, nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/users?phone="+phone, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsers_BadBody(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeValidation, decode[ErrorResponse](t, rec).Code)
}

func TestTokensFlow(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	token := api.signup()

	rec := api.do(http.MethodGet, "/tokens?id="+token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, phone, decode[models.Token](t, rec).Phone)

	rec = api.do(http.MethodPut, "/tokens", map[string]any{"id": token, "extend": false}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPut, "/tokens", map[string]any{"id": token, "extend": true}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPost, "/tokens", map[string]any{"phone": phone, "password": "wrong"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidCredentials, decode[ErrorResponse](t, rec).Code)

	rec = api.do(http.MethodPost, "/tokens", map[string]any{"phone": "5550000000", "password": "pw"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodDelete, "/tokens?id="+token, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodDelete, "/tokens?id="+token, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/tokens?id="+token, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChecksFlow(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	token := api.signup()

	newCheck := map[string]any{
		"protocol": "http", "url": "example.com", "method": "get",
		"successCodes": []int{200}, "timeoutSeconds": 2,
	}

	rec := api.do(http.MethodPost, "/checks", newCheck, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPost, "/checks", newCheck, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	check := decode[models.Check](t, rec)

	req := httptest.NewRequest(http.MethodGet, "/checks?id="+check.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPut, "/checks", map[string]any{"id": check.ID, "method": "post"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "post", decode[models.Check](t, rec).Method)

	rec = api.do(http.MethodPut, "/checks", map[string]any{"id": check.ID}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodDelete, "/checks?id="+check.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodDelete, "/checks?id="+check.ID, nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/checks?id="+check.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChecks_Quota(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	token := api.signup()

	newCheck := map[string]any{
		"protocol": "https", "url": "example.com", "method": "get",
		"successCodes": []int{200}, "timeoutSeconds": 1,
	}
	for i := 0; i < 5; i++ {
		rec := api.do(http.MethodPost, "/checks", newCheck, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := api.do(http.MethodPost, "/checks", newCheck, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeQuotaExceeded, decode[ErrorResponse](t, rec).Code)

	rec = api.do(http.MethodDelete, "/users?phone="+phone, nil, token)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t, RouterOptions{Metrics: observability.NewMetrics()})
	api.do(http.MethodGet, "/ping", nil, "")

	rec := api.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pulsecheck_http_requests_total{method="GET",path="/ping",status="200"} 1`)
}

func TestRateLimit(t *testing.T) {
	api := newTestAPI(t, RouterOptions{RateLimitRPS: 0.001, RateLimitBurst: 2})

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/ping", nil, "").Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/ping", nil, "").Code)

	rec := api.do(http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, CodeRateLimited, decode[ErrorResponse](t, rec).Code)
}
