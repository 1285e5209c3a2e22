package service

import (
	"context"

	"go-benchadmin/internal/domain/model"
	"go-benchadmin/internal/metrics"
	"go-benchadmin/internal/repository/dao"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// PermissionService 负责把用户身份解析为权限级别 + 可访问平台集合。
// 只读；任何查找缺口都降级为 Default/空集合而不是报错（失败即最小权限），
// 因为这里挡在所有读写请求前面，崩溃或 500 的影响面太大。
// 结果不跨请求缓存：组/成员关系的编辑在下一次请求即生效。
type PermissionService struct {
	Users  *dao.UserDAO
	Groups *dao.UserGroupDAO
	Levels *dao.PermissionLevelDAO
	Access *dao.PlatformAccessDAO
}

func NewPermissionService(u *dao.UserDAO, g *dao.UserGroupDAO, l *dao.PermissionLevelDAO, a *dao.PlatformAccessDAO) *PermissionService {
	return &PermissionService{Users: u, Groups: g, Levels: l, Access: a}
}

// Grant is a caller's resolved authorization: the level plus the finite set of
// platform ids it may act on. Admin bypasses the set entirely.
type Grant struct {
	Level       model.Level `json:"level"`
	PlatformIDs []int64     `json:"platform_ids"`
}

// DefaultGrant is the fail-closed result: no group, no platforms.
func DefaultGrant() Grant { return Grant{Level: model.LevelDefault, PlatformIDs: []int64{}} }

// IsAdmin reports whether the grant bypasses platform filtering.
func (g Grant) IsAdmin() bool { return g.Level == model.LevelAdmin }

// CanMutate reports whether the grant clears the create/update floor.
func (g Grant) CanMutate() bool { return g.Level.CanMutate() }

// CanActOn reports whether the grant covers the given platform. A nil
// platform has no scope and is always covered; Admin covers everything.
func (g Grant) CanActOn(platformID *int64) bool {
	if platformID == nil || g.IsAdmin() {
		return true
	}
	for _, id := range g.PlatformIDs {
		if id == *platformID {
			return true
		}
	}
	return false
}

func (s *PermissionService) tracer() trace.Tracer { return otel.Tracer("service.permission") }

// Resolve derives the caller's grant. Missing user, missing group reference,
// or a dangling permission-level row all degrade to the Default grant — these
// are normal outcomes, not failures.
func (s *PermissionService) Resolve(ctx context.Context, uid int64) Grant {
	ctx, span := s.tracer().Start(ctx, "PermissionService.Resolve")
	defer span.End()

	grant := s.resolve(ctx, uid)
	metrics.PermissionResolveTotal.WithLabelValues(string(grant.Level)).Inc()
	return grant
}

func (s *PermissionService) resolve(ctx context.Context, uid int64) Grant {
	user, err := s.Users.FindByID(ctx, uid)
	if err != nil || user == nil || user.GroupID == nil {
		return DefaultGrant()
	}
	group, err := s.Groups.FindByID(ctx, *user.GroupID)
	if err != nil || group == nil {
		return DefaultGrant()
	}
	level, err := s.Levels.FindByID(ctx, group.PermissionLevelID)
	if err != nil || level == nil {
		// group exists but its level row is gone: data-integrity gap, fail closed
		return DefaultGrant()
	}
	pids, err := s.Access.ListPlatformIDsByGroup(ctx, group.ID)
	if err != nil {
		return DefaultGrant()
	}
	if pids == nil {
		pids = []int64{}
	}
	return Grant{Level: model.Level(level.Name), PlatformIDs: pids}
}
