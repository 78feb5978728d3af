package user

import (
	"regexp"
	"time"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// UpdateProfileInput holds parameters for profile update operation.
type UpdateProfileInput struct {
	Name string
}

// Validate validates the update profile input.
func (i UpdateProfileInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > 100 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateSettingsInput holds parameters for settings update operation.
// All fields are optional (nil = don't change).
type UpdateSettingsInput struct {
	Timezone       *string
	Language       *string
	AccentColor    *string
	DailyGoal      *int
	HapticsEnabled *bool
	ShowStreak     *bool
	ShowHeatmap    *bool
}

// Validate validates the update settings input.
func (i UpdateSettingsInput) Validate() error {
	var errs []domain.FieldError

	if i.Timezone != nil {
		if *i.Timezone == "" {
			errs = append(errs, domain.FieldError{Field: "timezone", Message: "cannot be empty"})
		} else if len(*i.Timezone) > 64 {
			errs = append(errs, domain.FieldError{Field: "timezone", Message: "too long"})
		} else if _, err := time.LoadLocation(*i.Timezone); err != nil {
			errs = append(errs, domain.FieldError{Field: "timezone", Message: "invalid IANA timezone"})
		}
	}

	if i.Language != nil {
		if *i.Language == "" {
			errs = append(errs, domain.FieldError{Field: "language", Message: "cannot be empty"})
		} else if len(*i.Language) > 8 {
			errs = append(errs, domain.FieldError{Field: "language", Message: "too long"})
		}
	}

	if i.AccentColor != nil && !hexColorPattern.MatchString(*i.AccentColor) {
		errs = append(errs, domain.FieldError{Field: "accent_color", Message: "must be a #RRGGBB hex color"})
	}

	if i.DailyGoal != nil {
		if *i.DailyGoal < 1 {
			errs = append(errs, domain.FieldError{Field: "daily_goal", Message: "must be at least 1"})
		} else if *i.DailyGoal > 99 {
			errs = append(errs, domain.FieldError{Field: "daily_goal", Message: "must be at most 99"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
