package service

import (
	"context"

	"go-benchadmin/internal/domain/model"
	"go-benchadmin/internal/metrics"
	"go-benchadmin/internal/pkg/apperr"
	"go-benchadmin/internal/repository/dao"

	"gorm.io/gorm"
)

// LicenseService 许可证目录与独占绑定。一个许可证同一时刻至多绑定一个目标
// (Host 或 VM 之一)；换绑在一个事务里先清后写。
type LicenseService struct {
	Licenses    *dao.LicenseDAO
	Assignments *dao.LicenseAssignmentDAO
	Hosts       *dao.HostDAO
	VMs         *dao.VMDAO
	DB          *gorm.DB
}

func NewLicenseService(l *dao.LicenseDAO, a *dao.LicenseAssignmentDAO, h *dao.HostDAO, v *dao.VMDAO, db *gorm.DB) *LicenseService {
	return &LicenseService{Licenses: l, Assignments: a, Hosts: h, VMs: v, DB: db}
}

// LicenseDTO is a license with its current binding, if any.
type LicenseDTO struct {
	model.License
	HostID *int64 `json:"host_id,omitempty"`
	VMID   *int64 `json:"vm_id,omitempty"`
}

func (s *LicenseService) List(ctx context.Context) ([]LicenseDTO, error) {
	list, err := s.Licenses.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	res := make([]LicenseDTO, 0, len(list))
	for _, l := range list {
		dto := LicenseDTO{License: l}
		if a, err := s.Assignments.FindByLicense(ctx, l.ID); err == nil && a != nil {
			dto.HostID = a.HostID
			dto.VMID = a.VMID
		}
		res = append(res, dto)
	}
	return res, nil
}

// AssignTarget names exactly one of host or VM.
type AssignTarget struct {
	HostID *int64
	VMID   *int64
}

// Assign binds the license to the target, clearing any previous binding in
// the same transaction so the exclusivity invariant can never be observed
// broken.
func (s *LicenseService) Assign(ctx context.Context, grant Grant, licenseID int64, target AssignTarget) error {
	if !grant.CanMutate() {
		metrics.ForbiddenMutationTotal.WithLabelValues("license_assign").Inc()
		return apperr.Forbidden("permission level does not allow license assignment")
	}
	if (target.HostID == nil) == (target.VMID == nil) {
		return apperr.Validation("exactly one of host_id or vm_id must be set")
	}
	lic, err := s.Licenses.FindByID(ctx, licenseID)
	if err != nil {
		return apperr.Internal(err)
	}
	if lic == nil {
		return apperr.NotFound("license not found")
	}
	if target.HostID != nil {
		host, err := s.Hosts.FindByID(ctx, *target.HostID)
		if err != nil {
			return apperr.Internal(err)
		}
		if host == nil {
			return apperr.NotFound("host not found")
		}
	} else {
		vm, err := s.VMs.FindByID(ctx, *target.VMID)
		if err != nil {
			return apperr.Internal(err)
		}
		if vm == nil {
			return apperr.NotFound("vm not found")
		}
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Assignments.WithTx(tx).DeleteByLicense(ctx, licenseID); err != nil {
			return err
		}
		return s.Assignments.WithTx(tx).Create(ctx, &model.LicenseAssignment{
			LicenseID: licenseID,
			HostID:    target.HostID,
			VMID:      target.VMID,
		})
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "assign license", err)
	}
	return nil
}

// Unassign clears the current binding regardless of target type. An already
// unassigned license is the desired state and a no-op success.
func (s *LicenseService) Unassign(ctx context.Context, grant Grant, licenseID int64) error {
	if !grant.CanMutate() {
		metrics.ForbiddenMutationTotal.WithLabelValues("license_unassign").Inc()
		return apperr.Forbidden("permission level does not allow license assignment")
	}
	lic, err := s.Licenses.FindByID(ctx, licenseID)
	if err != nil {
		return apperr.Internal(err)
	}
	if lic == nil {
		return apperr.NotFound("license not found")
	}
	if err := s.Assignments.DeleteByLicense(ctx, licenseID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
