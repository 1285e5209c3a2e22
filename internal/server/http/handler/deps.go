package handler

import (
	"go-benchadmin/internal/config"
	"go-benchadmin/internal/logging"
	"go-benchadmin/internal/mq/kafka"
	"go-benchadmin/internal/security/jwt"
	"go-benchadmin/internal/service"
)

// Dependencies handler 层依赖集合，由 router 装配注入。
type Dependencies struct {
	Perm     *service.PermissionService
	Server   *service.ServerService
	Platform *service.PlatformService
	Software *service.SoftwareService
	License  *service.LicenseService
	VM       *service.VMService
	JWT      *jwt.Manager
	Config   *config.Config
	Logger   *logging.Logger
	Producer *kafka.Producer
}

// HandlerSet 聚合全部业务 handler，供 router 使用。
type HandlerSet struct {
	Server   *ServerHandler
	Perm     *PermissionHandler
	Platform *PlatformHandler
	Software *SoftwareHandler
	License  *LicenseHandler
	VM       *VMHandler
}

func NewHandlerSet(d Dependencies) *HandlerSet {
	return &HandlerSet{
		Server:   NewServerHandler(d),
		Perm:     NewPermissionHandler(d),
		Platform: NewPlatformHandler(d),
		Software: NewSoftwareHandler(d),
		License:  NewLicenseHandler(d),
		VM:       NewVMHandler(d),
	}
}
