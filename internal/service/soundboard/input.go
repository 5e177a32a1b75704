package soundboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// UploadClipInput holds an uploaded audio file and its metadata.
type UploadClipInput struct {
	Name             string
	OriginalFilename string
	Format           string
	Duration         float64
	Data             []byte
}

// Validate checks all fields and collects all errors.
func (i UploadClipInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(name) > MaxClipNameLength {
		errs = append(errs, domain.FieldError{Field: "name", Message: fmt.Sprintf("max %d characters", MaxClipNameLength)})
	}
	if i.Duration < 0 || math.IsNaN(i.Duration) || math.IsInf(i.Duration, 0) {
		errs = append(errs, domain.FieldError{Field: "duration", Message: "must be a non-negative number"})
	}
	if len(i.Data) == 0 {
		errs = append(errs, domain.FieldError{Field: "audio", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateTriggerInput holds the parameters for creating a trigger word.
type CreateTriggerInput struct {
	Phrase        string
	SoundClipIDs  []int64
	CaseSensitive bool
	Enabled       *bool // nil = enabled
}

// Validate checks all fields and collects all errors. Clip existence is
// checked by the service against the store.
func (i CreateTriggerInput) Validate() error {
	var errs []domain.FieldError
	errs = validatePhrase(errs, i.Phrase)
	if len(i.SoundClipIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "soundClipIds", Message: "at least one required"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateTriggerInput holds a partial trigger word update.
type UpdateTriggerInput struct {
	ID            int64
	Phrase        *string
	SoundClipIDs  []int64 // nil = don't change
	CaseSensitive *bool
	Enabled       *bool
}

// Validate checks all fields and collects all errors.
func (i UpdateTriggerInput) Validate() error {
	var errs []domain.FieldError

	if i.ID <= 0 {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Phrase == nil && i.SoundClipIDs == nil && i.CaseSensitive == nil && i.Enabled == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Phrase != nil {
		errs = validatePhrase(errs, *i.Phrase)
	}
	if i.SoundClipIDs != nil && len(i.SoundClipIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "soundClipIds", Message: "at least one required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateSettingsInput holds a partial settings update.
type UpdateSettingsInput struct {
	DefaultResponseEnabled      *bool
	DefaultResponseSoundClipIDs []int64 // nil = don't change
	DefaultResponseDelay        *int
}

// Validate checks all fields and collects all errors.
func (i UpdateSettingsInput) Validate() error {
	if i.DefaultResponseDelay != nil && *i.DefaultResponseDelay < 0 {
		return domain.NewValidationError("defaultResponseDelay", "must be >= 0")
	}
	return nil
}

func validatePhrase(errs []domain.FieldError, phrase string) []domain.FieldError {
	p := strings.TrimSpace(phrase)
	if p == "" {
		return append(errs, domain.FieldError{Field: "phrase", Message: "required"})
	}
	if len(p) > MaxPhraseLength {
		return append(errs, domain.FieldError{Field: "phrase", Message: fmt.Sprintf("max %d characters", MaxPhraseLength)})
	}
	return errs
}
