package http

import (
	"context"
	"net/http"
	"time"

	"go-benchadmin/internal/config"
	"go-benchadmin/internal/discovery/etcd"
	"go-benchadmin/internal/logging"
	"go-benchadmin/internal/mq/kafka"
	redisrepo "go-benchadmin/internal/repository/redis"
	"go-benchadmin/internal/security/jwt"
	"go-benchadmin/internal/server/http/handler"
	"go-benchadmin/internal/server/http/middleware"
	obs "go-benchadmin/internal/server/http/middleware/observability"
	sec "go-benchadmin/internal/server/http/middleware/security"
	"go-benchadmin/internal/service"
	"go-benchadmin/internal/util/retcode"
	"go-benchadmin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// NewRouter 仅负责分组与中间件装配，具体业务放在 handler 层。
func NewRouter(
	jwtm *jwt.Manager,
	logger *logging.Logger,
	producer *kafka.Producer,
	db *gorm.DB,
	redis *redisrepo.Client,
	permSvc *service.PermissionService,
	serverSvc *service.ServerService,
	platformSvc *service.PlatformService,
	softwareSvc *service.SoftwareService,
	licenseSvc *service.LicenseService,
	vmSvc *service.VMService,
	etcdCli *etcd.Client,
	cfg *config.Config,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ConfigInjector(cfg), gin.Recovery(), middleware.CORS(), obs.TraceMiddleware(), obs.LoggerContextMiddleware(logger), obs.Metrics())

	// 健康检查
	hc := NewHealthChecker(db, redis, producer, etcdCli)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, hc.Liveness()) })
	r.GET("/readyz", func(c *gin.Context) {
		if c.Query("refresh") == "1" {
			hc.cacheMu.Lock()
			hc.cacheExpiry = time.Time{}
			hc.cacheMu.Unlock()
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()
		res, code := hc.Readiness(ctx)
		c.JSON(code, res)
	})
	// Prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handler.NewHandlerSet(handler.Dependencies{
		Perm:     permSvc,
		Server:   serverSvc,
		Platform: platformSvc,
		Software: softwareSvc,
		License:  licenseSvc,
		VM:       vmSvc,
		JWT:      jwtm,
		Config:   cfg,
		Logger:   logger,
		Producer: producer,
	})

	// 业务分组：认证 -> 审计 -> 权限快照。读写都先过认证；
	// 粒度授权在 service 层按 Grant 判定。
	api := r.Group("/", sec.Auth(jwtm, logger), obs.Audit(producer), sec.Permission(permSvc))
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

	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, retcode.NOT_EXISTS, "route not found")
	})
	return r
}
