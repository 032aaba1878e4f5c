package services

import "errors"

// Sentinel errors returned by the service layer. Controllers map these to
// HTTP status codes; everything else is a 500.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrInvalidQuantity   = errors.New("quantity must be a positive whole number")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidCategory   = errors.New("unknown product category")

	ErrInvalidStatus = errors.New("unknown order status")
	ErrInvalidState  = errors.New("order is not in a state that allows this change")
	ErrInvalidPeriod = errors.New("unknown report period")
)
