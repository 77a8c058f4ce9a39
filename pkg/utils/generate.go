package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== VOUCHER CODE ====================

const (
	voucherCodePrefix  = "VK-"
	voucherCodeLength  = 8
	voucherCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateVoucherCode returns a candidate code like "VK-7F3K9Q2A". The code is
// drawn from crypto/rand so it cannot be guessed; uniqueness is enforced by
// the caller against the persisted code set.
func GenerateVoucherCode() string {
	buf := make([]byte, voucherCodeLength)
	max := big.NewInt(int64(len(voucherCodeCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(fmt.Sprintf("generate voucher code: %v", err))
		}
		buf[i] = voucherCodeCharset[n.Int64()]
	}
	return voucherCodePrefix + string(buf)
}

// ==================== INVOICE NUMBER ====================

// FormatInvoiceNumber builds "INV-<year>-<5-digit-seq>". The sequence is
// monotonic per year and computed by the caller inside the purchase
// transaction.
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%05d", year, seq)
}
