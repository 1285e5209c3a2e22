package service

import (
	"context"
	"testing"

	"go-benchadmin/internal/domain/model"
	"go-benchadmin/internal/pkg/apperr"
	"go-benchadmin/internal/repository/dao"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLicenseService(db *gorm.DB) *LicenseService {
	return NewLicenseService(dao.NewLicenseDAO(db), dao.NewLicenseAssignmentDAO(db), dao.NewHostDAO(db), dao.NewVMDAO(db), db)
}

func seedLicenseTargets(t *testing.T, db *gorm.DB) (licID, hostID, vmID int64) {
	t.Helper()
	lic := model.License{Name: "MATLAB", Vendor: "MathWorks", LicenseType: "per_user", Seats: 5}
	require.NoError(t, db.Create(&lic).Error)
	h := model.Host{Name: "pc-01", Status: model.StatusOnline}
	require.NoError(t, db.Create(&h).Error)
	vm := model.VM{Name: "vm-01"}
	require.NoError(t, db.Create(&vm).Error)
	return lic.ID, h.ID, vm.ID
}

func TestLicenseAssignExactlyOneTarget(t *testing.T) {
	db := newTestDB(t)
	svc := newLicenseService(db)
	ctx := context.Background()
	licID, hostID, vmID := seedLicenseTargets(t, db)

	err := svc.Assign(ctx, editGrant(), licID, AssignTarget{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.Assign(ctx, editGrant(), licID, AssignTarget{HostID: &hostID, VMID: &vmID})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

// 独占性：换绑后任何时刻至多一条绑定记录。
func TestLicenseReassignIsExclusive(t *testing.T) {
	db := newTestDB(t)
	svc := newLicenseService(db)
	ctx := context.Background()
	licID, hostID, vmID := seedLicenseTargets(t, db)

	require.NoError(t, svc.Assign(ctx, editGrant(), licID, AssignTarget{HostID: &hostID}))
	require.NoError(t, svc.Assign(ctx, editGrant(), licID, AssignTarget{VMID: &vmID}))

	var rows []model.LicenseAssignment
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].HostID)
	require.NotNil(t, rows[0].VMID)
	assert.Equal(t, vmID, *rows[0].VMID)
}

func TestLicenseAssignMissingTargets(t *testing.T) {
	db := newTestDB(t)
	svc := newLicenseService(db)
	ctx := context.Background()
	licID, hostID, _ := seedLicenseTargets(t, db)
	missing := int64(999)

	err := svc.Assign(ctx, editGrant(), 999, AssignTarget{HostID: &hostID})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = svc.Assign(ctx, editGrant(), licID, AssignTarget{VMID: &missing})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestLicenseUnassign(t *testing.T) {
	db := newTestDB(t)
	svc := newLicenseService(db)
	ctx := context.Background()
	licID, hostID, _ := seedLicenseTargets(t, db)

	// unassigned license: desired state already, no error
	require.NoError(t, svc.Unassign(ctx, editGrant(), licID))

	require.NoError(t, svc.Assign(ctx, editGrant(), licID, AssignTarget{HostID: &hostID}))
	require.NoError(t, svc.Unassign(ctx, editGrant(), licID))

	var n int64
	require.NoError(t, db.Model(&model.LicenseAssignment{}).Count(&n).Error)
	assert.Zero(t, n)

	err := svc.Unassign(ctx, editGrant(), 999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestLicenseListIncludesBinding(t *testing.T) {
	db := newTestDB(t)
	svc := newLicenseService(db)
	ctx := context.Background()
	licID, hostID, _ := seedLicenseTargets(t, db)
	require.NoError(t, svc.Assign(ctx, editGrant(), licID, AssignTarget{HostID: &hostID}))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].HostID)
	assert.Equal(t, hostID, *list[0].HostID)
	assert.Nil(t, list[0].VMID)
}

func TestLicenseAssignLevelFloor(t *testing.T) {
	db := newTestDB(t)
	svc := newLicenseService(db)
	licID, hostID, _ := seedLicenseTargets(t, db)

	err := svc.Assign(context.Background(), DefaultGrant(), licID, AssignTarget{HostID: &hostID})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}
