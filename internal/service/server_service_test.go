package service

import (
	"context"
	"errors"
	"testing"

	"go-benchadmin/internal/domain/model"
	"go-benchadmin/internal/pkg/apperr"
	"go-benchadmin/internal/repository/dao"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newServerService(db *gorm.DB) *ServerService {
	return NewServerService(
		dao.NewHostDAO(db),
		dao.NewBenchDAO(db),
		dao.NewBenchPlatformLinkDAO(db),
		NewPlatformService(dao.NewPlatformDAO(db)),
		db,
	)
}

func adminGrant() Grant { return Grant{Level: model.LevelAdmin} }

func editGrant(platformIDs ...int64) Grant {
	return Grant{Level: model.LevelEdit, PlatformIDs: platformIDs}
}

func validCreate() CreateServerParams {
	return CreateServerParams{
		BenchName:    "HIL-07",
		HostName:     "pc-hil-07",
		PlatformName: "EP4",
		BenchType:    "hil",
		Info:         "rack 3, row 2",
	}
}

func TestCreateServerAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	dto, err := svc.Create(context.Background(), adminGrant(), validCreate())
	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.Equal(t, "HIL-07", dto.BenchName)
	assert.Equal(t, "pc-hil-07", dto.HostName)
	assert.Equal(t, "EP4", dto.PlatformName)
	assert.Equal(t, model.StatusOnline, dto.Status)
	require.NotNil(t, dto.PlatformID)

	var benches, hosts, links int64
	require.NoError(t, db.Model(&model.Bench{}).Count(&benches).Error)
	require.NoError(t, db.Model(&model.Host{}).Count(&hosts).Error)
	require.NoError(t, db.Model(&model.BenchPlatformLink{}).Count(&links).Error)
	assert.EqualValues(t, 1, benches)
	assert.EqualValues(t, 1, hosts)
	assert.EqualValues(t, 1, links)
}

func TestCreateServerActiveUserDerivesInUse(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	p := validCreate()
	p.ActiveUser = "m.mueller"
	dto, err := svc.Create(context.Background(), adminGrant(), p)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInUse, dto.Status)
	assert.Equal(t, "m.mueller", dto.ActiveUser)
}

func TestCreateServerValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	p := validCreate()
	p.Info = ""
	_, err := svc.Create(context.Background(), adminGrant(), p)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateServerLevelFloor(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	_, err := svc.Create(context.Background(), Grant{Level: model.LevelRead}, validCreate())
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.Create(context.Background(), DefaultGrant(), validCreate())
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestCreateServerPlatformOutOfScope(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)
	allowed := seedPlatform(t, db, "MEB")

	p := validCreate() // targets EP4, not in the grant's set
	_, err := svc.Create(context.Background(), editGrant(allowed), p)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

// 事务性：link 写入失败时 bench/host 必须一并回滚，不留半个聚合。
func TestCreateServerRollsBackOnLinkFailure(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	failErr := errors.New("boom")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("fail_link_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == "bench_platform_links" {
			_ = tx.AddError(failErr)
		}
	}))
	defer func() {
		require.NoError(t, db.Callback().Create().Remove("fail_link_insert"))
	}()

	_, err := svc.Create(context.Background(), adminGrant(), validCreate())
	require.Error(t, err)

	var benches, hosts, links int64
	require.NoError(t, db.Model(&model.Bench{}).Count(&benches).Error)
	require.NoError(t, db.Model(&model.Host{}).Count(&hosts).Error)
	require.NoError(t, db.Model(&model.BenchPlatformLink{}).Count(&links).Error)
	assert.Zero(t, benches)
	assert.Zero(t, hosts)
	assert.Zero(t, links)
}

func validUpdate() UpdateServerParams {
	return UpdateServerParams{
		HostName:     "pc-hil-07",
		PlatformName: "EP4",
		BenchType:    "hil",
		Info:         "rack 3, row 2",
	}
}

func TestUpdateServerNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	_, err := svc.Update(context.Background(), adminGrant(), 999, validUpdate())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// 双向授权：当前平台和目标平台都必须在调用者集合内，错误信息区分两侧。
func TestUpdateServerDualScope(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	dto, err := svc.Create(context.Background(), adminGrant(), validCreate()) // on EP4
	require.NoError(t, err)
	meb := seedPlatform(t, db, "MEB")

	// caller may act on MEB only: current side (EP4) fails first
	p := validUpdate()
	p.PlatformName = "MEB"
	_, err = svc.Update(context.Background(), editGrant(meb), dto.HostID, p)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Contains(t, apperr.Message(err), "current platform")

	// caller may act on EP4 only: target side (MEB) fails
	_, err = svc.Update(context.Background(), editGrant(*dto.PlatformID), dto.HostID, p)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Contains(t, apperr.Message(err), "target platform")
}

func TestUpdateServerMovesPlatform(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	dto, err := svc.Create(context.Background(), adminGrant(), validCreate())
	require.NoError(t, err)

	p := validUpdate()
	p.PlatformName = "MEB"
	updated, err := svc.Update(context.Background(), adminGrant(), dto.HostID, p)
	require.NoError(t, err)
	assert.Equal(t, "MEB", updated.PlatformName)

	// one bench, still exactly one link row
	var links int64
	require.NoError(t, db.Model(&model.BenchPlatformLink{}).Count(&links).Error)
	assert.EqualValues(t, 1, links)
}

func TestUpdateServerClearsPlatform(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	dto, err := svc.Create(context.Background(), adminGrant(), validCreate())
	require.NoError(t, err)

	p := validUpdate()
	p.PlatformName = ""
	updated, err := svc.Update(context.Background(), adminGrant(), dto.HostID, p)
	require.NoError(t, err)
	assert.Nil(t, updated.PlatformID)
	assert.Empty(t, updated.PlatformName)

	var links int64
	require.NoError(t, db.Model(&model.BenchPlatformLink{}).Count(&links).Error)
	assert.Zero(t, links)
}

func TestUpdateServerOfflineOverride(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	dto, err := svc.Create(context.Background(), adminGrant(), validCreate())
	require.NoError(t, err)

	p := validUpdate()
	p.ActiveUser = "m.mueller"
	p.Offline = true
	updated, err := svc.Update(context.Background(), adminGrant(), dto.HostID, p)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOffline, updated.Status)
}

func TestUpdateServerKeepsBenchNameWhenBlank(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	dto, err := svc.Create(context.Background(), adminGrant(), validCreate())
	require.NoError(t, err)

	p := validUpdate()
	p.BenchName = ""
	updated, err := svc.Update(context.Background(), adminGrant(), dto.HostID, p)
	require.NoError(t, err)
	assert.Equal(t, "HIL-07", updated.BenchName)
}

func TestDeleteServerAdminOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	dto, err := svc.Create(context.Background(), adminGrant(), validCreate())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), editGrant(*dto.PlatformID), dto.HostID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, svc.Delete(context.Background(), adminGrant(), dto.HostID))

	// no cascade: bench and link survive
	var benches, hosts, links int64
	require.NoError(t, db.Model(&model.Bench{}).Count(&benches).Error)
	require.NoError(t, db.Model(&model.Host{}).Count(&hosts).Error)
	require.NoError(t, db.Model(&model.BenchPlatformLink{}).Count(&links).Error)
	assert.EqualValues(t, 1, benches)
	assert.Zero(t, hosts)
	assert.EqualValues(t, 1, links)
}

func TestDeleteServerNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)

	err := svc.Delete(context.Background(), adminGrant(), 12345)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListServersGrantFiltered(t *testing.T) {
	db := newTestDB(t)
	svc := newServerService(db)
	ctx := context.Background()

	a, err := svc.Create(ctx, adminGrant(), validCreate()) // EP4
	require.NoError(t, err)
	p2 := validCreate()
	p2.BenchName, p2.HostName, p2.PlatformName = "HIL-08", "pc-hil-08", "MEB"
	_, err = svc.Create(ctx, adminGrant(), p2)
	require.NoError(t, err)
	// a host with no platform link
	require.NoError(t, db.Create(&model.Host{Name: "stray", Info: "no bench", Status: model.StatusOnline}).Error)

	all, err := svc.List(ctx, adminGrant())
	require.NoError(t, err)
	assert.Len(t, all, 3, "admin sees everything, including unclassified hosts")

	scoped, err := svc.List(ctx, editGrant(*a.PlatformID))
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "pc-hil-07", scoped[0].HostName)

	none, err := svc.List(ctx, DefaultGrant())
	require.NoError(t, err)
	assert.Empty(t, none, "empty platform set yields an empty list, not an error")
}
