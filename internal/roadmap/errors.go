package roadmap

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Error kinds. Every build failure matches exactly one of them via errors.Is.
var (
	ErrGenerationFailure    = errors.New("generation failure")
	ErrExtractionFailure    = errors.New("extraction failure")
	ErrMalformedModelOutput = errors.New("malformed model output")
)

// GenerationError reports a failed summary completion for Subject.
type GenerationError struct {
	Subject string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate summary for %q: %v", truncate(e.Subject, 80), e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailure }

// ExtractionError reports a failed topic extraction completion.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract topics: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func (e *ExtractionError) Is(target error) bool { return target == ErrExtractionFailure }

// MalformedOutputError reports model text that does not hold a topic and a summary.
type MalformedOutputError struct {
	Raw    string
	Reason string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %s (raw: %q)", e.Reason, truncate(e.Raw, 120))
}

func (e *MalformedOutputError) Is(target error) bool { return target == ErrMalformedModelOutput }

// KindOf names the failure kind of err for API responses.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrGenerationFailure):
		return "generation_failure"
	case errors.Is(err, ErrExtractionFailure):
		return "extraction_failure"
	case errors.Is(err, ErrMalformedModelOutput):
		return "malformed_model_output"
	default:
		return "internal"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
