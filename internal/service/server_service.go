package service

import (
	"context"
	"strings"

	"go-benchadmin/internal/domain/model"
	"go-benchadmin/internal/metrics"
	"go-benchadmin/internal/pkg/apperr"
	"go-benchadmin/internal/repository/dao"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// ServerService 管理 "server" 聚合：Bench + Host + BenchPlatformLink 三条记录
// 只作为一个事务单元变更。授权在开事务之前完成；事务内任一步失败整体回滚，
// 不允许出现半个聚合。
type ServerService struct {
	Hosts     *dao.HostDAO
	Benches   *dao.BenchDAO
	Links     *dao.BenchPlatformLinkDAO
	Platforms *PlatformService
	DB        *gorm.DB
}

func NewServerService(h *dao.HostDAO, b *dao.BenchDAO, l *dao.BenchPlatformLinkDAO, p *PlatformService, db *gorm.DB) *ServerService {
	return &ServerService{Hosts: h, Benches: b, Links: l, Platforms: p, DB: db}
}

func (s *ServerService) tracer() trace.Tracer { return otel.Tracer("service.server") }

// ServerDTO is the flattened read shape shared by list/create/update.
type ServerDTO struct {
	HostID       int64  `json:"host_id"`
	BenchName    string `json:"bench_name"`
	HostName     string `json:"host_name"`
	BenchType    string `json:"bench_type"`
	Info         string `json:"info"`
	Status       string `json:"status"`
	ActiveUser   string `json:"active_user"`
	PlatformID   *int64 `json:"platform_id"`
	PlatformName string `json:"platform_name"`
}

func toDTO(r dao.ServerRow) ServerDTO {
	dto := ServerDTO{
		HostID:     r.HostID,
		BenchName:  r.BenchName,
		HostName:   r.HostName,
		BenchType:  r.BenchType,
		Info:       r.Info,
		Status:     r.Status,
		ActiveUser: r.ActiveUser,
		PlatformID: r.PlatformID,
	}
	if r.PlatformName != nil {
		dto.PlatformName = *r.PlatformName
	}
	return dto
}

// List returns the joined server view filtered by the caller's grant.
// Admin sees everything; an empty accessible set yields an empty list, not an
// error.
func (s *ServerService) List(ctx context.Context, grant Grant) ([]ServerDTO, error) {
	ctx, span := s.tracer().Start(ctx, "ServerService.List")
	defer span.End()
	rows, err := s.Hosts.ListJoined(ctx, grant.PlatformIDs, grant.IsAdmin())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperr.Internal(err)
	}
	res := make([]ServerDTO, 0, len(rows))
	for _, r := range rows {
		res = append(res, toDTO(r))
	}
	return res, nil
}

type CreateServerParams struct {
	BenchName    string
	HostName     string
	PlatformName string
	BenchType    string
	Info         string
	ActiveUser   string
}

// Create builds the aggregate in one transaction: bench, host (derived
// status), and the platform link. Authorization is settled before any write:
// the level floor first, then the target platform against the caller's set.
func (s *ServerService) Create(ctx context.Context, grant Grant, p CreateServerParams) (*ServerDTO, error) {
	ctx, span := s.tracer().Start(ctx, "ServerService.Create")
	defer span.End()

	if strings.TrimSpace(p.BenchName) == "" || strings.TrimSpace(p.HostName) == "" ||
		strings.TrimSpace(p.PlatformName) == "" || strings.TrimSpace(p.Info) == "" {
		return nil, apperr.Validation("bench name, host name, platform name and info are required")
	}
	if !grant.CanMutate() {
		metrics.ForbiddenMutationTotal.WithLabelValues("create").Inc()
		return nil, apperr.Forbidden("permission level does not allow creating servers")
	}
	platformID, err := s.Platforms.ResolveOrCreate(ctx, p.PlatformName)
	if err != nil {
		return nil, err
	}
	if !grant.CanActOn(platformID) {
		metrics.ForbiddenMutationTotal.WithLabelValues("create").Inc()
		return nil, apperr.Forbidden("target platform is outside your accessible platforms")
	}

	var hostID int64
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		bench := &model.Bench{Name: p.BenchName, BenchType: p.BenchType}
		if err := s.Benches.WithTx(tx).Create(ctx, bench); err != nil {
			return err
		}
		host := &model.Host{
			BenchID:    &bench.ID,
			Name:       p.HostName,
			Info:       p.Info,
			ActiveUser: p.ActiveUser,
			Status:     model.DeriveStatus(p.ActiveUser, false),
		}
		if err := s.Hosts.WithTx(tx).Create(ctx, host); err != nil {
			return err
		}
		hostID = host.ID
		if platformID != nil {
			if err := s.Links.WithTx(tx).Upsert(ctx, bench.ID, *platformID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperr.Wrap(apperr.KindInternal, "create server", err)
	}
	return s.readBack(ctx, hostID)
}

type UpdateServerParams struct {
	BenchName    string // optional; bench name kept when blank
	HostName     string
	PlatformName string // blank clears the classification
	BenchType    string
	Info         string
	ActiveUser   string
	Offline      bool // explicit status override
}

// Update mutates the aggregate. The caller must be allowed to act on BOTH the
// host's current platform and the target platform (null sides always pass,
// Admin bypasses). The two checks fail separately so the message names which
// side was out of scope.
func (s *ServerService) Update(ctx context.Context, grant Grant, hostID int64, p UpdateServerParams) (*ServerDTO, error) {
	ctx, span := s.tracer().Start(ctx, "ServerService.Update")
	defer span.End()

	if strings.TrimSpace(p.HostName) == "" {
		return nil, apperr.Validation("host name is required")
	}
	if !grant.CanMutate() {
		metrics.ForbiddenMutationTotal.WithLabelValues("update").Inc()
		return nil, apperr.Forbidden("permission level does not allow editing servers")
	}

	host, err := s.Hosts.FindByID(ctx, hostID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if host == nil {
		return nil, apperr.NotFound("server not found")
	}

	var currentPlatform *int64
	if host.BenchID != nil {
		link, err := s.Links.FindByBench(ctx, *host.BenchID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if link != nil {
			currentPlatform = &link.PlatformID
		}
	}
	targetPlatform, err := s.Platforms.ResolveOrCreate(ctx, p.PlatformName)
	if err != nil {
		return nil, err
	}
	if !grant.CanActOn(currentPlatform) {
		metrics.ForbiddenMutationTotal.WithLabelValues("update").Inc()
		return nil, apperr.Forbidden("current platform of this server is outside your accessible platforms")
	}
	if !grant.CanActOn(targetPlatform) {
		metrics.ForbiddenMutationTotal.WithLabelValues("update").Inc()
		return nil, apperr.Forbidden("target platform is outside your accessible platforms")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		host.Name = p.HostName
		host.Info = p.Info
		host.ActiveUser = p.ActiveUser
		host.Status = model.DeriveStatus(p.ActiveUser, p.Offline)
		if err := s.Hosts.WithTx(tx).Update(ctx, host); err != nil {
			return err
		}
		if host.BenchID != nil {
			bench, err := s.Benches.WithTx(tx).FindByID(ctx, *host.BenchID)
			if err != nil {
				return err
			}
			if bench != nil {
				if strings.TrimSpace(p.BenchName) != "" {
					bench.Name = p.BenchName
				}
				bench.BenchType = p.BenchType
				if err := s.Benches.WithTx(tx).Update(ctx, bench); err != nil {
					return err
				}
			}
			if targetPlatform != nil {
				if err := s.Links.WithTx(tx).Upsert(ctx, *host.BenchID, *targetPlatform); err != nil {
					return err
				}
			} else {
				if err := s.Links.WithTx(tx).DeleteByBench(ctx, *host.BenchID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperr.Wrap(apperr.KindInternal, "update server", err)
	}
	return s.readBack(ctx, hostID)
}

// Delete removes the host row. Admin only — deletion is irreversible and
// stricter than create/update. The owning bench and platform link are kept
// on purpose (other hosts may reference the bench; the link stays for audit).
func (s *ServerService) Delete(ctx context.Context, grant Grant, hostID int64) error {
	ctx, span := s.tracer().Start(ctx, "ServerService.Delete")
	defer span.End()

	if !grant.IsAdmin() {
		metrics.ForbiddenMutationTotal.WithLabelValues("delete").Inc()
		return apperr.Forbidden("only Admin may delete servers")
	}
	host, err := s.Hosts.FindByID(ctx, hostID)
	if err != nil {
		return apperr.Internal(err)
	}
	if host == nil {
		return apperr.NotFound("server not found")
	}
	if err := s.Hosts.Delete(ctx, hostID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperr.Wrap(apperr.KindInternal, "delete server", err)
	}
	return nil
}

func (s *ServerService) readBack(ctx context.Context, hostID int64) (*ServerDTO, error) {
	row, err := s.Hosts.FindJoinedByID(ctx, hostID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if row == nil {
		return nil, apperr.NotFound("server not found")
	}
	dto := toDTO(*row)
	return &dto, nil
}
