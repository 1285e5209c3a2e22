package dao

import (
	"context"
	"errors"
	"fmt"

	"go-benchadmin/internal/domain/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// HostDAO is a data access object for hosts and the joined server view.
type HostDAO struct{ DB *gorm.DB }

func NewHostDAO(db *gorm.DB) *HostDAO { return &HostDAO{DB: db} }

func (d *HostDAO) tracer() trace.Tracer { return otel.Tracer("dao.host") }

func (d *HostDAO) WithTx(tx *gorm.DB) *HostDAO {
	if tx == nil {
		return d
	}
	return &HostDAO{DB: tx}
}

// ServerRow is the flattened host+bench+platform row produced by the joined
// queries below. All read paths (list, create, update) share it.
type ServerRow struct {
	HostID       int64   `gorm:"column:host_id"`
	HostName     string  `gorm:"column:host_name"`
	BenchID      *int64  `gorm:"column:bench_id"`
	BenchName    string  `gorm:"column:bench_name"`
	BenchType    string  `gorm:"column:bench_type"`
	Info         string  `gorm:"column:info"`
	Status       string  `gorm:"column:status"`
	ActiveUser   string  `gorm:"column:active_user"`
	PlatformID   *int64  `gorm:"column:platform_id"`
	PlatformName *string `gorm:"column:platform_name"`
}

const serverSelect = `hosts.id AS host_id, hosts.name AS host_name, hosts.bench_id AS bench_id,
benches.name AS bench_name, benches.bench_type AS bench_type,
hosts.info AS info, hosts.status AS status, hosts.active_user AS active_user,
bench_platform_links.platform_id AS platform_id, platforms.name AS platform_name`

func (d *HostDAO) joined(ctx context.Context) *gorm.DB {
	return d.DB.WithContext(ctx).Table("hosts").
		Select(serverSelect).
		Joins("LEFT JOIN benches ON benches.id = hosts.bench_id").
		Joins("LEFT JOIN bench_platform_links ON bench_platform_links.bench_id = benches.id").
		Joins("LEFT JOIN platforms ON platforms.id = bench_platform_links.platform_id")
}

// ListJoined returns the server view. With all=false only rows whose platform
// id is in platformIDs are returned; an empty slice yields an empty result.
func (d *HostDAO) ListJoined(ctx context.Context, platformIDs []int64, all bool) ([]ServerRow, error) {
	ctx, span := d.tracer().Start(ctx, "HostDAO.ListJoined")
	defer span.End()
	if !all && len(platformIDs) == 0 {
		return []ServerRow{}, nil
	}
	q := d.joined(ctx)
	if !all {
		q = q.Where("bench_platform_links.platform_id IN ?", platformIDs)
	}
	var rows []ServerRow
	if err := q.Order("hosts.id ASC").Scan(&rows).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list joined servers: %w", err)
	}
	return rows, nil
}

// FindJoinedByID returns one server row, (nil, nil) if the host is absent.
func (d *HostDAO) FindJoinedByID(ctx context.Context, hostID int64) (*ServerRow, error) {
	var rows []ServerRow
	if err := d.joined(ctx).Where("hosts.id = ?", hostID).Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("find joined server id=%d: %w", hostID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (d *HostDAO) Create(ctx context.Context, h *model.Host) error {
	return d.DB.WithContext(ctx).Create(h).Error
}

func (d *HostDAO) FindByID(ctx context.Context, id int64) (*model.Host, error) {
	var h model.Host
	if err := d.DB.WithContext(ctx).First(&h, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

// Update overwrites the editable host fields including the derived status.
func (d *HostDAO) Update(ctx context.Context, h *model.Host) error {
	return d.DB.WithContext(ctx).Model(&model.Host{}).Where("id = ?", h.ID).Updates(map[string]interface{}{
		"name":        h.Name,
		"info":        h.Info,
		"status":      h.Status,
		"active_user": h.ActiveUser,
	}).Error
}

// Delete removes the host row only; the owning bench and its platform link
// stay behind (they may be referenced by other hosts or kept for audit).
func (d *HostDAO) Delete(ctx context.Context, id int64) error {
	return d.DB.WithContext(ctx).Delete(&model.Host{}, id).Error
}
