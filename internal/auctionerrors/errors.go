package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
)

// business logic errors
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrAuctionClosed  = errors.New("auction is closed")
	ErrNotOwner       = errors.New("auction belongs to another buyer")
)
