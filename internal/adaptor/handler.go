package adaptor

import (
	"net/http"

	"therapy-vouchers/internal/usecase"
	"therapy-vouchers/pkg/apperr"
	"therapy-vouchers/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Organization *OrganizationHandler
	VoucherType  *VoucherTypeHandler
	Voucher      *VoucherHandler
	Session      *SessionHandler
	Reschedule   *RescheduleHandler
	Admin        *AdminHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		User:         NewUserHandler(service.User, log),
		Organization: NewOrganizationHandler(service.Organization, log),
		VoucherType:  NewVoucherTypeHandler(service.VoucherType, log),
		Voucher:      NewVoucherHandler(service.Voucher, log),
		Session:      NewSessionHandler(service.Session, log),
		Reschedule:   NewRescheduleHandler(service.Reschedule, log),
		Admin:        NewAdminHandler(service.Admin, log),
	}
}

// handleServiceError translates a service error into the HTTP response.
// Business-rule violations are 400, malformed input 422, ownership failures
// 403 and absent entities 404; anything without a kind is an internal error
// whose details never reach the client.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	kind := apperr.KindOf(err)
	message := apperr.MessageOf(err)

	switch kind {
	case apperr.KindNotFound:
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, message)
	case apperr.KindValidation:
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseUnprocessable(w, message, nil)
	case apperr.KindForbidden:
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, message)
	case apperr.KindConflict:
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, message)
	case apperr.KindExhausted, apperr.KindNoBackupAvailable,
		apperr.KindAlreadyActivated, apperr.KindInactiveType,
		apperr.KindInvalidState:
		log.Warn(operation+" failed - business rule", zap.Error(err), zap.String("kind", string(kind)))
		utils.ResponseBadRequest(w, message, map[string]string{"kind": string(kind)})
	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, message)
	}
}
