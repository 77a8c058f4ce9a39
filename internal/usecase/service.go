package usecase

import (
	"therapy-vouchers/internal/data/repository"
	"therapy-vouchers/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	User         UserService
	Organization OrganizationService
	VoucherType  VoucherTypeService
	Voucher      VoucherService
	Session      SessionService
	Reschedule   RescheduleService
	Maintenance  MaintenanceService
	Admin        AdminService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:         NewAuthService(repo, config, log),
		User:         NewUserService(repo, log),
		Organization: NewOrganizationService(repo, log),
		VoucherType:  NewVoucherTypeService(repo, log),
		Voucher:      NewVoucherService(repo, log),
		Session:      NewSessionService(repo, log),
		Reschedule:   NewRescheduleService(repo, log),
		Maintenance:  NewMaintenanceService(repo, log),
		Admin:        NewAdminService(repo, config, log),
	}
}
