package service

import (
	"context"
	"encoding/json"
	"time"

	"go-benchadmin/internal/domain/model"
	"go-benchadmin/internal/metrics"
	"go-benchadmin/internal/pkg/apperr"
	"go-benchadmin/internal/pkg/cache"
	"go-benchadmin/internal/repository/dao"
)

const softwareListKey = "software:list"

// SoftwareService 软件目录与 host↔software 多对多指派。
// assign 幂等（重复指派是正常情况），unassign 不存在的关系报 NotFound 以暴露调用方 bug。
type SoftwareService struct {
	Software    *dao.SoftwareDAO
	Assignments *dao.SoftwareAssignmentDAO
	Hosts       *dao.HostDAO
	Cache       cache.Cache
	ttl         time.Duration
}

func NewSoftwareService(s *dao.SoftwareDAO, a *dao.SoftwareAssignmentDAO, h *dao.HostDAO) *SoftwareService {
	return &SoftwareService{Software: s, Assignments: a, Hosts: h, ttl: 5 * time.Minute}
}

func NewSoftwareServiceWithCache(s *dao.SoftwareDAO, a *dao.SoftwareAssignmentDAO, h *dao.HostDAO, c cache.Cache) *SoftwareService {
	svc := NewSoftwareService(s, a, h)
	svc.Cache = c
	return svc
}

// List returns the software catalog, cached (reference data).
func (s *SoftwareService) List(ctx context.Context) ([]model.Software, error) {
	if s.Cache != nil {
		if str, _ := s.Cache.Get(ctx, softwareListKey); str != "" {
			var cached []model.Software
			if err := json.Unmarshal([]byte(str), &cached); err == nil {
				return cached, nil
			}
		}
	}
	list, err := s.Software.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if s.Cache != nil {
		if b, err := json.Marshal(list); err == nil {
			_ = s.Cache.SetEX(ctx, softwareListKey, string(b), s.ttl)
		}
	}
	return list, nil
}

// Assign links software to a host. Re-assigning an existing pair is a no-op
// success.
func (s *SoftwareService) Assign(ctx context.Context, grant Grant, hostID, softwareID int64) error {
	if !grant.CanMutate() {
		metrics.ForbiddenMutationTotal.WithLabelValues("software_assign").Inc()
		return apperr.Forbidden("permission level does not allow software assignment")
	}
	host, err := s.Hosts.FindByID(ctx, hostID)
	if err != nil {
		return apperr.Internal(err)
	}
	if host == nil {
		return apperr.NotFound("host not found")
	}
	sw, err := s.Software.FindByID(ctx, softwareID)
	if err != nil {
		return apperr.Internal(err)
	}
	if sw == nil {
		return apperr.NotFound("software not found")
	}
	if err := s.Assignments.InsertIgnore(ctx, hostID, softwareID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Unassign removes the pair. A missing pair is NotFound, not a silent no-op.
func (s *SoftwareService) Unassign(ctx context.Context, grant Grant, hostID, softwareID int64) error {
	if !grant.CanMutate() {
		metrics.ForbiddenMutationTotal.WithLabelValues("software_unassign").Inc()
		return apperr.Forbidden("permission level does not allow software assignment")
	}
	n, err := s.Assignments.Delete(ctx, hostID, softwareID)
	if err != nil {
		return apperr.Internal(err)
	}
	if n == 0 {
		return apperr.NotFound("software assignment not found")
	}
	return nil
}
