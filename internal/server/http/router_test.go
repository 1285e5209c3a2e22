package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"go-benchadmin/internal/config"
	"go-benchadmin/internal/domain/model"
	"go-benchadmin/internal/logging"
	"go-benchadmin/internal/repository/dao"
	"go-benchadmin/internal/security/jwt"
	"go-benchadmin/internal/server/http/handler"
	sec "go-benchadmin/internal/server/http/middleware/security"
	"go-benchadmin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db      *gorm.DB
	jwtm    *jwt.Manager
	engine  *gin.Engine
	permSvc *service.PermissionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.UserGroup{}, &model.PermissionLevel{},
		&model.Platform{}, &model.PlatformAccess{},
		&model.Bench{}, &model.BenchPlatformLink{}, &model.Host{}, &model.VM{},
		&model.Software{}, &model.SoftwareAssignment{},
		&model.License{}, &model.LicenseAssignment{}, &model.AuditEvent{},
	))

	logger, err := logging.New("error", "json")
	require.NoError(t, err)
	jwtm := jwt.NewManager("unit-test-secret-0123456789", 3600, "benchadmin-test")

	permSvc := service.NewPermissionService(dao.NewUserDAO(db), dao.NewUserGroupDAO(db), dao.NewPermissionLevelDAO(db), dao.NewPlatformAccessDAO(db))
	platformSvc := service.NewPlatformService(dao.NewPlatformDAO(db))
	serverSvc := service.NewServerService(dao.NewHostDAO(db), dao.NewBenchDAO(db), dao.NewBenchPlatformLinkDAO(db), platformSvc, db)
	softwareSvc := service.NewSoftwareService(dao.NewSoftwareDAO(db), dao.NewSoftwareAssignmentDAO(db), dao.NewHostDAO(db))
	licenseSvc := service.NewLicenseService(dao.NewLicenseDAO(db), dao.NewLicenseAssignmentDAO(db), dao.NewHostDAO(db), dao.NewVMDAO(db), db)
	vmSvc := service.NewVMService(dao.NewVMDAO(db))

	// 与生产装配一致的链路，唯独不挂 kafka 审计（测试环境无 broker）。
	h := handler.NewHandlerSet(handler.Dependencies{
		Perm: permSvc, Server: serverSvc, Platform: platformSvc,
		Software: softwareSvc, License: licenseSvc, VM: vmSvc,
		JWT: jwtm, Config: &config.Config{}, Logger: logger,
	})
	r := gin.New()
	api := r.Group("/", sec.Auth(jwtm, logger), sec.Permission(permSvc))
	{
		api.GET("/servers", h.Server.List)
		api.POST("/servers", h.Server.Create)
		api.PUT("/servers/:hostId", h.Server.Update)
		api.DELETE("/servers/:hostId", h.Server.Delete)
		api.GET("/permission", h.Perm.Get)
		api.GET("/platforms", h.Platform.List)
		api.GET("/software", h.Software.List)
		api.POST("/software/assign", h.Software.Assign)
		api.POST("/software/unassign", h.Software.Unassign)
		api.GET("/licenses", h.License.List)
		api.POST("/licenses/:id/assign", h.License.Assign)
		api.POST("/licenses/:id/unassign", h.License.Unassign)
		api.GET("/vms", h.VM.List)
	}

	return &testEnv{db: db, jwtm: jwtm, engine: r, permSvc: permSvc}
}

func (e *testEnv) seedUser(t *testing.T, level model.Level, platformNames ...string) int64 {
	t.Helper()
	lvl := model.PermissionLevel{Name: string(level)}
	require.NoError(t, e.db.Where("name = ?", string(level)).FirstOrCreate(&lvl).Error)
	grp := model.UserGroup{Name: "grp-" + string(level), PermissionLevelID: lvl.ID}
	require.NoError(t, e.db.Create(&grp).Error)
	u := model.User{Name: "u-" + string(level), GroupID: &grp.ID}
	require.NoError(t, e.db.Create(&u).Error)
	for _, name := range platformNames {
		p := model.Platform{Name: name}
		require.NoError(t, e.db.Where("name = ?", name).FirstOrCreate(&p).Error)
		require.NoError(t, e.db.Create(&model.PlatformAccess{GroupID: grp.ID, PlatformID: p.ID}).Error)
	}
	return u.ID
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, uid int64) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if uid != 0 {
		token, err := e.jwtm.Generate(uid)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(t, http.MethodGet, "/servers", nil, 0)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGarbageTokenIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/servers", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMalformedIdentityIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	// valid signature, unusable subject
	token, err := env.jwtm.Generate(0)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/servers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// 无组用户拿到合法 token：列表是 200 + 空数组，不是 403。
func TestGrouplessUserGetsEmptyList(t *testing.T) {
	env := newTestEnv(t)
	u := model.User{Name: "loner"}
	require.NoError(t, env.db.Create(&u).Error)

	w := env.request(t, http.MethodGet, "/servers", nil, u.ID)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, data)
}

func TestPermissionEndpoint(t *testing.T) {
	env := newTestEnv(t)
	uid := env.seedUser(t, model.LevelEdit, "EP4")

	w := env.request(t, http.MethodGet, "/permission", nil, uid)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Edit", data["permissionName"])

	// groupless caller resolves to Default, still 200
	u := model.User{Name: "nobody"}
	require.NoError(t, env.db.Create(&u).Error)
	w = env.request(t, http.MethodGet, "/permission", nil, u.ID)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, "Default", data["permissionName"])
}

func serverBody(platform string) map[string]interface{} {
	return map[string]interface{}{
		"bench_name":    "HIL-01",
		"host_name":     "pc-hil-01",
		"platform_name": platform,
		"bench_type":    "hil",
		"info":          "rack 1",
	}
}

func TestCreateServerStatusCodes(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, model.LevelAdmin)
	reader := env.seedUser(t, model.LevelRead)

	w := env.request(t, http.MethodPost, "/servers", serverBody("EP4"), admin)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "pc-hil-01", data["host_name"])
	assert.Equal(t, "EP4", data["platform_name"])

	// Read level hits the mutation floor
	w = env.request(t, http.MethodPost, "/servers", serverBody("EP4"), reader)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// missing required field
	bad := serverBody("EP4")
	bad["info"] = ""
	w = env.request(t, http.MethodPost, "/servers", bad, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditorScopedToPlatformSet(t *testing.T) {
	env := newTestEnv(t)
	editor := env.seedUser(t, model.LevelEdit, "EP4")

	w := env.request(t, http.MethodPost, "/servers", serverBody("EP4"), editor)
	require.Equal(t, http.StatusCreated, w.Code)

	out := serverBody("MEB")
	out["host_name"] = "pc-hil-02"
	w = env.request(t, http.MethodPost, "/servers", out, editor)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateAndDeleteStatusCodes(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, model.LevelAdmin)
	editor := env.seedUser(t, model.LevelEdit, "EP4")

	w := env.request(t, http.MethodPost, "/servers", serverBody("EP4"), admin)
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	hostID := int64(data["host_id"].(float64))

	upd := serverBody("EP4")
	upd["active_user"] = "m.mueller"
	w = env.request(t, http.MethodPut, "/servers/"+itoa(hostID), upd, admin)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "in_use", updated["status"])

	// unknown id
	w = env.request(t, http.MethodPut, "/servers/99999", upd, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// delete is Admin only
	w = env.request(t, http.MethodDelete, "/servers/"+itoa(hostID), nil, editor)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.request(t, http.MethodDelete, "/servers/"+itoa(hostID), nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.request(t, http.MethodDelete, "/servers/"+itoa(hostID), nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSoftwareAssignEndpoints(t *testing.T) {
	env := newTestEnv(t)
	editor := env.seedUser(t, model.LevelEdit)

	h := model.Host{Name: "pc-01", Status: model.StatusOnline}
	require.NoError(t, env.db.Create(&h).Error)
	sw := model.Software{Name: "CANoe", Version: "16.0"}
	require.NoError(t, env.db.Create(&sw).Error)

	body := map[string]interface{}{"host_id": h.ID, "software_id": sw.ID}
	w := env.request(t, http.MethodPost, "/software/assign", body, editor)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.request(t, http.MethodPost, "/software/assign", body, editor)
	assert.Equal(t, http.StatusOK, w.Code, "idempotent re-assign")

	w = env.request(t, http.MethodPost, "/software/unassign", body, editor)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.request(t, http.MethodPost, "/software/unassign", body, editor)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLicenseAssignEndpoints(t *testing.T) {
	env := newTestEnv(t)
	editor := env.seedUser(t, model.LevelEdit)

	lic := model.License{Name: "MATLAB", Vendor: "MathWorks"}
	require.NoError(t, env.db.Create(&lic).Error)
	h := model.Host{Name: "pc-01", Status: model.StatusOnline}
	require.NoError(t, env.db.Create(&h).Error)
	vm := model.VM{Name: "vm-01"}
	require.NoError(t, env.db.Create(&vm).Error)

	w := env.request(t, http.MethodPost, "/licenses/"+itoa(lic.ID)+"/assign", map[string]interface{}{"host_id": h.ID}, editor)
	assert.Equal(t, http.StatusOK, w.Code)

	// both targets set
	w = env.request(t, http.MethodPost, "/licenses/"+itoa(lic.ID)+"/assign", map[string]interface{}{"host_id": h.ID, "vm_id": vm.ID}, editor)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/licenses/"+itoa(lic.ID)+"/unassign", nil, editor)
	assert.Equal(t, http.StatusOK, w.Code)
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

// 完整 NewRouter 装配冒烟：健康检查、未知路由、无 token 的业务路由。
func TestRouterAssembly(t *testing.T) {
	env := newTestEnv(t)
	logger, err := logging.New("error", "json")
	require.NoError(t, err)
	platformSvc := service.NewPlatformService(dao.NewPlatformDAO(env.db))
	r := NewRouter(
		env.jwtm, logger, nil, env.db, nil,
		env.permSvc,
		service.NewServerService(dao.NewHostDAO(env.db), dao.NewBenchDAO(env.db), dao.NewBenchPlatformLinkDAO(env.db), platformSvc, env.db),
		platformSvc,
		service.NewSoftwareService(dao.NewSoftwareDAO(env.db), dao.NewSoftwareAssignmentDAO(env.db), dao.NewHostDAO(env.db)),
		service.NewLicenseService(dao.NewLicenseDAO(env.db), dao.NewLicenseAssignmentDAO(env.db), dao.NewHostDAO(env.db), dao.NewVMDAO(env.db), env.db),
		service.NewVMService(dao.NewVMDAO(env.db)),
		nil, &config.Config{},
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/route", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/servers", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
