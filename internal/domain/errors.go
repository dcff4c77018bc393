package domain

import "errors"

var (
	ErrClientNotFound         = errors.New("client not found")
	ErrProjectNotFound        = errors.New("project not found")
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrPaymentRequestNotFound = errors.New("payment request not found")
	ErrInvalidStatus          = errors.New("invalid status transition")
)
