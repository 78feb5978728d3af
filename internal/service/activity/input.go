package activity

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

// AddEntryInput holds the parameters for recording an achievement.
type AddEntryInput struct {
	Text string
}

// Validate checks all fields and collects all errors.
func (i AddEntryInput) Validate() error {
	var errs []domain.FieldError

	text := strings.TrimSpace(i.Text)
	if text == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if utf8.RuneCountInString(text) > domain.MaxEntryTextLen {
		errs = append(errs, domain.FieldError{Field: "text", Message: "max 280 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateEntryTextInput holds the parameters for editing an entry's text.
type UpdateEntryTextInput struct {
	EntryID uuid.UUID
	Text    string
}

// Validate checks all fields and collects all errors.
func (i UpdateEntryTextInput) Validate() error {
	var errs []domain.FieldError

	if i.EntryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entry_id", Message: "required"})
	}

	text := strings.TrimSpace(i.Text)
	if text == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if utf8.RuneCountInString(text) > domain.MaxEntryTextLen {
		errs = append(errs, domain.FieldError{Field: "text", Message: "max 280 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DeleteEntryInput holds the parameters for deleting an entry.
type DeleteEntryInput struct {
	EntryID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DeleteEntryInput) Validate() error {
	if i.EntryID == uuid.Nil {
		return domain.NewValidationError("entry_id", "required")
	}
	return nil
}

// GetEntryInput holds the parameters for fetching a single entry.
type GetEntryInput struct {
	EntryID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i GetEntryInput) Validate() error {
	if i.EntryID == uuid.Nil {
		return domain.NewValidationError("entry_id", "required")
	}
	return nil
}

// MarkTopInput holds the parameters for marking an entry as the top of
// its day, week, or month.
type MarkTopInput struct {
	EntryID     uuid.UUID
	Granularity domain.Granularity
}

// Validate checks all fields and collects all errors.
func (i MarkTopInput) Validate() error {
	var errs []domain.FieldError

	if i.EntryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entry_id", Message: "required"})
	}
	if !i.Granularity.IsValid() {
		errs = append(errs, domain.FieldError{Field: "granularity", Message: "must be DAY, WEEK or MONTH"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListEntriesInput holds the parameters for listing entries.
type ListEntriesInput struct {
	Tag    string
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i ListEntriesInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "max 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}
	if i.Tag != "" && !strings.HasPrefix(i.Tag, "#") {
		errs = append(errs, domain.FieldError{Field: "tag", Message: "must start with #"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// HeatmapInput holds the parameters for building a heatmap window.
type HeatmapInput struct {
	WindowDays int
}

// Validate checks all fields and collects all errors.
func (i HeatmapInput) Validate() error {
	if i.WindowDays < 0 {
		return domain.NewValidationError("window_days", "must be non-negative")
	}
	return nil
}
