package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go-benchadmin/internal/domain/model"
	"go-benchadmin/internal/metrics"
	"go-benchadmin/internal/pkg/apperr"
	"go-benchadmin/internal/pkg/cache"
	"go-benchadmin/internal/repository/dao"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const platformListKey = "platform:list"

// PlatformService 平台注册表：把人工输入的平台名解析为稳定 id，首次出现时惰性建行。
// 行只增不删，name 唯一。
type PlatformService struct {
	Platforms *dao.PlatformDAO
	Cache     cache.Cache // 列表缓存；新建平台时 Del
	ttl       time.Duration
}

func NewPlatformService(d *dao.PlatformDAO) *PlatformService {
	return &PlatformService{Platforms: d, ttl: 5 * time.Minute}
}

func NewPlatformServiceWithCache(d *dao.PlatformDAO, c cache.Cache) *PlatformService {
	s := NewPlatformService(d)
	s.Cache = c
	return s
}

func (s *PlatformService) tracer() trace.Tracer { return otel.Tracer("service.platform") }

// ResolveOrCreate maps a platform name to its id, creating the row on first
// use. Blank name means "no platform" and resolves to nil, not an error.
// The insert is conflict-tolerant and followed by a read-back, so concurrent
// first resolutions of one new name converge on a single id (check-then-insert
// would race).
func (s *PlatformService) ResolveOrCreate(ctx context.Context, name string) (*int64, error) {
	ctx, span := s.tracer().Start(ctx, "PlatformService.ResolveOrCreate")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if p, err := s.Platforms.FindByName(ctx, name); err != nil {
		return nil, apperr.Internal(err)
	} else if p != nil {
		metrics.PlatformRegistryTotal.WithLabelValues("hit").Inc()
		return &p.ID, nil
	}
	if err := s.Platforms.InsertIgnore(ctx, &model.Platform{Name: name}); err != nil {
		return nil, apperr.Internal(err)
	}
	// Read back by name: on conflict the insert was a no-op and the winner's
	// id is the one everybody gets.
	p, err := s.Platforms.FindByName(ctx, name)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if p == nil {
		return nil, apperr.Internal(errNoReadBack)
	}
	metrics.PlatformRegistryTotal.WithLabelValues("created").Inc()
	if s.Cache != nil {
		_ = s.Cache.Del(ctx, platformListKey)
	}
	return &p.ID, nil
}

// List returns all platforms, cached (the table is append-only reference data).
func (s *PlatformService) List(ctx context.Context) ([]model.Platform, error) {
	if s.Cache != nil {
		if str, _ := s.Cache.Get(ctx, platformListKey); str != "" {
			var cached []model.Platform
			if err := json.Unmarshal([]byte(str), &cached); err == nil {
				return cached, nil
			}
		}
	}
	list, err := s.Platforms.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if s.Cache != nil {
		if b, err := json.Marshal(list); err == nil {
			_ = s.Cache.SetEX(ctx, platformListKey, string(b), s.ttl)
		}
	}
	return list, nil
}

var errNoReadBack = errReadBack{}

type errReadBack struct{}

func (errReadBack) Error() string { return "platform row missing after conflict-tolerant insert" }
