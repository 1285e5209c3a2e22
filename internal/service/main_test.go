package service

import (
	"testing"

	"go-benchadmin/internal/domain/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个内存库。单连接：内存 sqlite 的连接各自独立，
// 多连接会看到不同的库。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.UserGroup{},
		&model.PermissionLevel{},
		&model.Platform{},
		&model.PlatformAccess{},
		&model.Bench{},
		&model.BenchPlatformLink{},
		&model.Host{},
		&model.VM{},
		&model.Software{},
		&model.SoftwareAssignment{},
		&model.License{},
		&model.LicenseAssignment{},
		&model.AuditEvent{},
	))
	return db
}

// seedLevel 建一条权限级别行并返回 id。
func seedLevel(t *testing.T, db *gorm.DB, name model.Level) int64 {
	t.Helper()
	lvl := model.PermissionLevel{Name: string(name)}
	require.NoError(t, db.Create(&lvl).Error)
	return lvl.ID
}

// seedUserInGroup 建 user + group 指向给定级别，返回 user id 与 group id。
func seedUserInGroup(t *testing.T, db *gorm.DB, level model.Level) (int64, int64) {
	t.Helper()
	levelID := seedLevel(t, db, level)
	grp := model.UserGroup{Name: "grp-" + string(level), PermissionLevelID: levelID}
	require.NoError(t, db.Create(&grp).Error)
	u := model.User{Name: "user-" + string(level), GroupID: &grp.ID}
	require.NoError(t, db.Create(&u).Error)
	return u.ID, grp.ID
}

func seedPlatform(t *testing.T, db *gorm.DB, name string) int64 {
	t.Helper()
	p := model.Platform{Name: name}
	require.NoError(t, db.Create(&p).Error)
	return p.ID
}

func grantPlatform(t *testing.T, db *gorm.DB, groupID, platformID int64) {
	t.Helper()
	require.NoError(t, db.Create(&model.PlatformAccess{GroupID: groupID, PlatformID: platformID}).Error)
}
