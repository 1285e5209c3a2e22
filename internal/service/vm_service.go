package service

import (
	"context"

	"go-benchadmin/internal/domain/model"
	"go-benchadmin/internal/pkg/apperr"
	"go-benchadmin/internal/repository/dao"
)

// VMService 只读的虚拟机列表（许可证绑定目标）。
type VMService struct {
	VMs *dao.VMDAO
}

func NewVMService(v *dao.VMDAO) *VMService { return &VMService{VMs: v} }

func (s *VMService) List(ctx context.Context) ([]model.VM, error) {
	list, err := s.VMs.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}
