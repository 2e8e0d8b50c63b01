package ai

import (
	"strings"

	"uploadai/internal/apperr"
)

// TranscriptionPlaceholder is replaced by the stored transcription.
const TranscriptionPlaceholder = "{transcription}"

// ValidateTemplate requires exactly one transcription placeholder, not
// wrapped in extra braces such as "{{transcription}}".
func ValidateTemplate(template string) error {
	switch n := strings.Count(template, TranscriptionPlaceholder); n {
	case 1:
		i := strings.Index(template, TranscriptionPlaceholder)
		end := i + len(TranscriptionPlaceholder)
		if (i > 0 && template[i-1] == '{') || (end < len(template) && template[end] == '}') {
			return apperr.NewValidationError("template placeholder must be written as %s", TranscriptionPlaceholder)
		}
		return nil
	case 0:
		return apperr.NewValidationError("template must contain the %s placeholder", TranscriptionPlaceholder)
	default:
		return apperr.NewValidationError("template must contain the %s placeholder exactly once, found %d", TranscriptionPlaceholder, n)
	}
}

// FillTemplate substitutes the transcription into the template.
func FillTemplate(template, transcription string) (string, error) {
	if err := ValidateTemplate(template); err != nil {
		return "", err
	}
	return strings.Replace(template, TranscriptionPlaceholder, transcription, 1), nil
}
