package utils

import (
	"strings"
	"testing"
)

func TestGenerateVoucherCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateVoucherCode()
		if !strings.HasPrefix(code, "VK-") {
			t.Fatalf("code %q missing VK- prefix", code)
		}
		if len(code) != 11 {
			t.Fatalf("code %q has length %d, want 11", code, len(code))
		}
		for _, c := range code[3:] {
			if !strings.ContainsRune(voucherCodeCharset, c) {
				t.Fatalf("code %q contains %q outside charset", code, c)
			}
		}
	}
}

func TestGenerateVoucherCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateVoucherCode()] = true
	}
	// 50 draws from a 36^8 space colliding down to a handful would mean the
	// generator is broken.
	if len(seen) < 45 {
		t.Errorf("only %d distinct codes out of 50", len(seen))
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	tests := []struct {
		year int
		seq  int64
		want string
	}{
		{2026, 1, "INV-2026-00001"},
		{2026, 42, "INV-2026-00042"},
		{2027, 99999, "INV-2027-99999"},
		{2027, 100000, "INV-2027-100000"},
	}
	for _, tt := range tests {
		if got := FormatInvoiceNumber(tt.year, tt.seq); got != tt.want {
			t.Errorf("FormatInvoiceNumber(%d, %d) = %q, want %q", tt.year, tt.seq, got, tt.want)
		}
	}
}
