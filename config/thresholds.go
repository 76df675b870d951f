package config

import (
	"time"

	"sysmon/apperrors"
)

// Thresholds are the watch-mode alert rules.
type Thresholds struct {
	CPU      float64
	Mem      float64
	Cooldown time.Duration
	Webhook  string
}

// Validate rejects percentages outside (0, 100] and negative cooldowns.
func (t Thresholds) Validate() error {
	if t.CPU <= 0 || t.CPU > 100 {
		return apperrors.NewConfigError("cpu threshold must be in (0, 100], got %g", t.CPU)
	}
	if t.Mem <= 0 || t.Mem > 100 {
		return apperrors.NewConfigError("mem threshold must be in (0, 100], got %g", t.Mem)
	}
	if t.Cooldown < 0 {
		return apperrors.NewConfigError("cooldown must not be negative, got %s", t.Cooldown)
	}
	return nil
}
