package domain

import "time"

// Config carries the mandate rules the usecases need; loaded from internal/config.
type Config struct {
	SiteURL          string
	PlatformName     string
	Jurisdiction     string
	SignatureBaseURL string
	Validity         time.Duration
	AcceptanceWindow time.Duration
	WarningWindow    time.Duration
}

func DefaultConfig() Config {
	return Config{
		PlatformName:     PlatformSignerName,
		SignatureBaseURL: "/signatures/",
		Validity:         MandateValidity,
		AcceptanceWindow: AcceptanceWindow,
		WarningWindow:    7 * 24 * time.Hour,
	}
}
