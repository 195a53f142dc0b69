package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuantity indicates a cart mutation would produce a negative quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrEmptyCart indicates checkout was attempted with no in-cart lines.
	ErrEmptyCart = errors.New("empty cart")

	// ErrInvalidAddress indicates the address does not exist or belongs to another user.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrConflict indicates a concurrent writer won a conditional update.
	ErrConflict = errors.New("conflict")

	// ErrGateway indicates the payment provider was unreachable or rejected the request.
	ErrGateway = errors.New("payment gateway error")

	// ErrSignatureInvalid indicates a settlement event failed signature verification.
	ErrSignatureInvalid = errors.New("invalid signature")

	// ErrUnknownOrder indicates a settlement event referenced an order code we never issued.
	ErrUnknownOrder = errors.New("unknown order")
)
