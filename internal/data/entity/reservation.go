package entity

import (
	"time"

	"github.com/google/uuid"
)

// Reservation binds one voucher code to a therapist booking and owns the
// session series generated for it (cascade-deleted with the reservation).
type Reservation struct {
	Base
	VoucherCodeID uuid.UUID `db:"voucher_code_id"`
	VoucherID     uuid.UUID `db:"voucher_id"`
	TherapistID   uuid.UUID `db:"therapist_id"`
	ClientID      uuid.UUID `db:"client_id"`
	StartDate     time.Time `db:"start_date"`
}
