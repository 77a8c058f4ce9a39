package request

type PurchaseVoucherRequest struct {
	VoucherTypeID string  `json:"voucher_type_id" validate:"required,uuid4"`
	ClientID      *string `json:"client_id,omitempty" validate:"omitempty,uuid4"`
	TherapistID   *string `json:"therapist_id,omitempty" validate:"omitempty,uuid4"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=cash transfer card invoice"`
}

type ActivateVoucherRequest struct {
	Code string `json:"code" validate:"required,min=11,max=11"`
}

type ConsumeCodeRequest struct {
	Code string `json:"code" validate:"required,min=11,max=11"`
}

// CreateReservationRequest books the first session and triggers generation of
// the full recurring series from the voucher's plan.
type CreateReservationRequest struct {
	Code        string  `json:"code" validate:"required,min=11,max=11"`
	TherapistID string  `json:"therapist_id" validate:"required,uuid4"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	StartTime   string  `json:"start_time" validate:"required,hhmm"`
	SessionType string  `json:"session_type" validate:"required,oneof=individual group online"`
	Location    *string `json:"location,omitempty"`
}
