package domain

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTier         = errors.New("invalid tier")
	ErrTierUnchanged       = errors.New("already on that tier")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrGroupNotFound       = errors.New("group not found")
	ErrSponsorNotFound     = errors.New("sponsor not found")
	ErrTierNotFound        = errors.New("tier not found")
)
