package boot

import (
	"time"

	"go-benchadmin/internal/config"
	"go-benchadmin/internal/discovery/etcd"
	"go-benchadmin/internal/logging"
	"go-benchadmin/internal/mq/kafka"
	"go-benchadmin/internal/pkg/cache"
	"go-benchadmin/internal/repository/dao"
	redisrepo "go-benchadmin/internal/repository/redis"
	jwtsec "go-benchadmin/internal/security/jwt"
	httpSrv "go-benchadmin/internal/server/http"
	"go-benchadmin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"gorm.io/gorm"
)

// ProvideConfig wraps config.Load for wire with external path param
func ProvideConfig(path string) (*config.Config, error) { return config.Load(path) }

// ProvideRouter 装配路由；这里为注入后的 service 提供。
func ProvideRouter(j *jwtsec.Manager, l *logging.Logger, p *kafka.Producer, db *gorm.DB, r *redisrepo.Client, perm *service.PermissionService, srv *service.ServerService, plat *service.PlatformService, sw *service.SoftwareService, lic *service.LicenseService, vm *service.VMService, e *etcd.Client, c *config.Config) *gin.Engine {
	return httpSrv.NewRouter(j, l, p, db, r, perm, srv, plat, sw, lic, vm, e, c)
}

func ProvideApp(c *config.Config, l *logging.Logger, db *gorm.DB, r *redisrepo.Client, k *kafka.Producer, e *etcd.Client, j *jwtsec.Manager, engine *gin.Engine) *App {
	return NewApp(c, l, db, r, k, e, j, engine)
}

// ProvideLayeredCache 构建一个通用 LayeredCache（L1 本地 60s, L2 Redis）
func ProvideLayeredCache(r *redisrepo.Client) cache.Cache {
	l1 := cache.NewSimpleAdapter(cache.New(60 * time.Second))
	l2 := cache.NewRedisAdapter(r)
	return cache.NewLayered(l1, l2)
}

var ProviderSet = wire.NewSet(
	ProvideConfig,
	NewLogger,
	NewPostgres,
	NewRedis,
	NewKafkaProducer,
	NewEtcd,
	NewJWTManager,
	ProvideLayeredCache,
	// DAO
	dao.NewUserDAO,
	dao.NewUserGroupDAO,
	dao.NewPermissionLevelDAO,
	dao.NewPlatformAccessDAO,
	dao.NewPlatformDAO,
	dao.NewBenchDAO,
	dao.NewBenchPlatformLinkDAO,
	dao.NewHostDAO,
	dao.NewVMDAO,
	dao.NewSoftwareDAO,
	dao.NewSoftwareAssignmentDAO,
	dao.NewLicenseDAO,
	dao.NewLicenseAssignmentDAO,
	// Service
	service.NewPermissionService,
	NewPlatformServiceWithLayered,
	NewSoftwareServiceWithLayered,
	service.NewServerService,
	service.NewLicenseService,
	service.NewVMService,
	ProvideRouter,
	ProvideApp,
)

// ===== Custom providers to inject layered cache =====
func NewPlatformServiceWithLayered(d *dao.PlatformDAO, lc cache.Cache) *service.PlatformService {
	return service.NewPlatformServiceWithCache(d, lc)
}

func NewSoftwareServiceWithLayered(s *dao.SoftwareDAO, a *dao.SoftwareAssignmentDAO, h *dao.HostDAO, lc cache.Cache) *service.SoftwareService {
	return service.NewSoftwareServiceWithCache(s, a, h, lc)
}
