package config

import "time"

const (
	// Delivery pipeline poll interval
	PollInterval = 1 * time.Second

	// Billing cycle
	DeductInterval = 24 * time.Hour

	// Message retention
	RetentionCleanup = 1 * time.Hour
	RetentionAge     = 24 * time.Hour

	// Job queue blocking-pop timeout in the worker loop
	JobPopTimeout = 5 * time.Second

	// Summarizer request timeout
	SummaryTimeout = 90 * time.Second

	// Star payment bounds (skipped in debug mode)
	MinPaymentStars = 50
	MaxPaymentStars = 5000

	// Telegram Stars to dollar display rate
	XTRToDollarRate = 0.013

	// Telegram limits
	MaxTelegramMessageLen = 4096
)
