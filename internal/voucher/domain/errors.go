package domain

import "errors"

var (
	ErrVoucherExhausted = errors.New("voucher_exhausted")
	ErrInvalidVoucher   = errors.New("invalid_voucher")
)
