package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/membersearch"
	"github.com/tomoncle/membersearch/api"
	"github.com/tomoncle/membersearch/database"
	"github.com/tomoncle/membersearch/model"
	"github.com/tomoncle/membersearch/types"
	"github.com/tomoncle/membersearch/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLogger(buf *bytes.Buffer) *utils.Logger {
	l := utils.NewLogger("HTTP_TEST")
	l.SetOutput(buf)
	l.SetFormatter(&utils.JSONLogFormatter{LoggerName: "HTTP_TEST"})
	return l
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	model.Register()
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.DBName = database.MemoryDBName
	cfg.ConnectionConfig.SlowQueryTime = 0

	ctx := context.Background()
	manager := database.NewDatabaseManager(cfg)
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { _ = manager.Disconnect() })
	require.NoError(t, manager.RunMigrations(ctx))
	require.NoError(t, membersearch.SeedDemo(ctx, manager.GetDB()))

	h := api.NewHandler(membersearch.NewMemberServiceWithDB(manager.GetDB()), manager.HealthCheck)
	return api.NewRouter(h, newTestLogger(&bytes.Buffer{}))
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestSearchMembersV1(t *testing.T) {
	r := newRouter(t)

	w := get(r, "/v1/members?ageGoe=20&ageLoe=30")
	require.Equal(t, http.StatusOK, w.Code)
	var dtos []model.MemberTeamDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
	require.Len(t, dtos, 2)
	assert.Equal(t, "member2", dtos[0].Username)
	assert.Equal(t, "teamA", *dtos[0].TeamName)
	assert.Equal(t, "member3", dtos[1].Username)
	assert.Contains(t, w.Body.String(), `"memberId"`)
	assert.Contains(t, w.Body.String(), `"teamName":"teamB"`)

	w = get(r, "/v1/members?teamName=teamB&username=member4")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
	require.Len(t, dtos, 1)
	assert.Equal(t, 40, dtos[0].Age)

	w = get(r, "/v1/members?ageGoe=&username=nobody")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = get(r, "/v1/members")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
	assert.Len(t, dtos, 4)
}

func TestSearchMembersRejectsMalformedAge(t *testing.T) {
	r := newRouter(t)
	for _, target := range []string{"/v1/members?ageGoe=abc", "/v2/members?ageLoe=x", "/v3/members?page=one"} {
		w := get(r, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), `"error"`, target)
	}
}

func TestSearchMembersPaged(t *testing.T) {
	r := newRouter(t)
	for _, target := range []string{"/v2/members?page=2&size=3", "/v3/members?page=2&size=3"} {
		w := get(r, target)
		require.Equal(t, http.StatusOK, w.Code, target)

		var page types.Pagination[model.MemberTeamDto]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page), target)
		assert.Equal(t, 2, page.Page, target)
		assert.Equal(t, 3, page.PageSize, target)
		assert.Equal(t, 4, page.Total, target)
		require.Len(t, page.Items, 1, target)
		assert.Equal(t, "member4", page.Items[0].Username, target)
	}

	w := get(r, "/v3/members")
	var page types.Pagination[model.MemberTeamDto]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, types.DefaultPage, page.Page)
	assert.Equal(t, types.DefaultPageSize, page.PageSize)
	assert.Equal(t, 4, page.Total)
}

func TestSearchMembersPageBounds(t *testing.T) {
	r := newRouter(t)
	for _, target := range []string{"/v2/members?size=100000", "/v3/members?size=100000"} {
		w := get(r, target)
		require.Equal(t, http.StatusOK, w.Code, target)

		var page types.Pagination[model.MemberTeamDto]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page), target)
		assert.Equal(t, types.MaxPageSize, page.PageSize, target)
		assert.Len(t, page.Items, 4, target)
	}

	for _, target := range []string{"/v2/members?page=9223372036854775807", "/v3/members?page=9223372036854775807&size=100"} {
		w := get(r, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), types.ErrPageOutOfRange.Error(), target)
	}
}

type failingSearcher struct{}

var errStore = errors.New("store unavailable")

func (failingSearcher) Search(context.Context, *model.MemberSearchCondition) ([]*model.MemberTeamDto, error) {
	return nil, errStore
}

func (failingSearcher) SearchPageSimple(context.Context, *model.MemberSearchCondition, *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error) {
	return nil, errStore
}

func (failingSearcher) SearchPageComplex(context.Context, *model.MemberSearchCondition, *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error) {
	return nil, errStore
}

func TestStoreErrorsAndHealth(t *testing.T) {
	var logs bytes.Buffer
	unhealthy := func(context.Context) *database.HealthStatus {
		return &database.HealthStatus{LastError: "down"}
	}
	r := api.NewRouter(api.NewHandler(failingSearcher{}, unhealthy), newTestLogger(&logs))

	for _, target := range []string{"/v1/members", "/v2/members", "/v3/members"} {
		w := get(r, target)
		assert.Equal(t, http.StatusInternalServerError, w.Code, target)
		assert.JSONEq(t, `{"error":"store unavailable"}`, w.Body.String(), target)
	}

	w := get(r, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"last_error":"down"`)

	var entry map[string]interface{}
	lines := bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/v1/members", entry["path"])
	assert.EqualValues(t, http.StatusInternalServerError, entry["status_code"])
	assert.NotEmpty(t, entry["latency_time"])
	assert.Equal(t, "error", entry["level"])
}

func TestHealthy(t *testing.T) {
	r := newRouter(t)
	w := get(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy":true`)
}
