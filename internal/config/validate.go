package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Activity.validate(); err != nil {
		return fmt.Errorf("activity: %w", err)
	}

	return nil
}

func (a *ActivityConfig) validate() error {
	if a.EntryWindowSize <= 0 {
		return fmt.Errorf("entry_window_size must be > 0 (got %d)", a.EntryWindowSize)
	}
	if a.ReconcileSampleSize <= 0 {
		return fmt.Errorf("reconcile_sample_size must be > 0 (got %d)", a.ReconcileSampleSize)
	}
	if a.ReconcileSampleSize > a.EntryWindowSize {
		return fmt.Errorf("reconcile_sample_size must not exceed entry_window_size (%d > %d)",
			a.ReconcileSampleSize, a.EntryWindowSize)
	}
	if a.HeatmapWindowDays <= 0 {
		return fmt.Errorf("heatmap_window_days must be > 0 (got %d)", a.HeatmapWindowDays)
	}
	if a.MaxHeatmapWindowDays < a.HeatmapWindowDays {
		return fmt.Errorf("max_heatmap_window_days must be >= heatmap_window_days (%d < %d)",
			a.MaxHeatmapWindowDays, a.HeatmapWindowDays)
	}
	return nil
}
