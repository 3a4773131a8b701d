package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-manager-api/infrastructure/integrator/asset"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository"
	"github.com/vfg2006/campaign-manager-api/internal/api/handler"
	"github.com/vfg2006/campaign-manager-api/internal/config"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-manager-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const testSecret = "segredo-de-teste"

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		SecretKey: testSecret,
		Server:    config.Server{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	city := "Cairo"
	profiles := []domain.RecipientProfile{
		{ID: "p1", City: &city},
		{ID: "p2"},
	}

	service := campaigning.NewService(
		repository.NewMemoryCampaignRepository(),
		repository.NewMemoryMetricsHistoryRepository(),
		repository.NewMemoryDeliveryEventDeduplicator(time.Hour),
		asset.NoopResolver{},
		repository.NewMemoryRecipientProfileRepository(profiles),
	)

	return &testServer{
		t:       t,
		handler: NewHandler(cfg, service, authenticating.NewService(cfg), handler.CronJobServices{}),
	}
}

func (s *testServer) token(userID string, roleID int) string {
	s.t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.Claims{
		UserID:     userID,
		UserRoleID: roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(token, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr.Code
}

func TestCampaignLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	operator := srv.token("user-1", domain.RoleIDOperator)
	otherOperator := srv.token("user-2", domain.RoleIDOperator)
	admin := srv.token("admin-1", domain.RoleIDAdmin)
	pipeline := srv.token("pipeline", domain.RoleIDDeliveryPipeline)

	rec := srv.do(operator, http.MethodPost, "/v1/campaigns", `{"name":"Promo","message":"Olá","target_filters":{"city":"Cairo"}}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Version int64  `json:"version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "draft", created.Status)

	base := "/v1/campaigns/" + created.ID

	rec = srv.do(otherOperator, http.MethodPost, base+"/submit", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apiErrors.ErrCampaignForbidden, errorCode(t, rec))

	rec = srv.do(operator, http.MethodPost, base+"/submit", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(pipeline, http.MethodPost, base+"/events", `{"kind":"sent"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidTransition, errorCode(t, rec))

	rec = srv.do(admin, http.MethodPost, base+"/approve", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(operator, http.MethodPost, base+"/complete", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidCampaign, errorCode(t, rec))

	idempotent := map[string]string{handler.IdempotencyKeyHeader: "evt-1"}
	rec = srv.do(pipeline, http.MethodPost, base+"/events", `{"kind":"sent"}`, idempotent)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(pipeline, http.MethodPost, base+"/events", `{"kind":"sent"}`, idempotent)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, apiErrors.ErrDuplicateDeliveryEvent, errorCode(t, rec))

	rec = srv.do(pipeline, http.MethodPost, base+"/events", `{"kind":"delivered"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(operator, http.MethodPost, base+"/complete", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(operator, http.MethodGet, base+"/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report campaigning.MetricsReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, domain.CampaignStatusCompleted, report.Status)
	assert.Equal(t, int64(1), report.Current.MessagesSent)
	assert.Equal(t, int64(1), report.Current.MessagesDelivered)
	assert.Equal(t, 100.0, report.DeliveryRate)

	rec = srv.do(admin, http.MethodDelete, base, "", nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = srv.do(admin, http.MethodGet, base, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrCampaignNotFound, errorCode(t, rec))
}

func TestAudiencePreviewOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	operator := srv.token("user-1", domain.RoleIDOperator)

	rec := srv.do(operator, http.MethodPost, "/v1/audience/preview", `{"city":"Cairo"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handler.AudiencePreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.AudienceSize)

	rec = srv.do(operator, http.MethodPost, "/v1/audience/preview", `{}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.AudienceSize)
}

func TestNewHandler_AuthenticationAndPublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do("", http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.CorrelationIDHeader))

	rec = srv.do("", http.MethodGet, "/v1/campaigns/qualquer", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidToken, errorCode(t, rec))

	rec = srv.do("nao-e-um-jwt", http.MethodGet, "/v1/campaigns/qualquer", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns/qualquer", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: srv.token("user-1", domain.RoleIDOperator)})
	cookieRec := httptest.NewRecorder()
	srv.handler.ServeHTTP(cookieRec, req)
	assert.Equal(t, http.StatusNotFound, cookieRec.Code)
}
