package entities

import "fmt"

// Pipeline error taxonomy. Each stage failure is typed so the orchestrator
// and callers can match with errors.As while the stored error message stays
// human-readable.

// ConfigurationError means no usable provider or tool is configured for a
// required stage. Fatal on first use.
type ConfigurationError struct {
	Stage  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured: %s", e.Stage, e.Reason)
}

// ConversionError means the external transcoding subprocess failed while
// re-encoding the video container.
type ConversionError struct {
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to convert video %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ExtractionError means the external transcoding subprocess failed while
// extracting the audio track.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract audio from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// PayloadTooLargeError means an extracted audio file exceeds a capped
// backend's request ceiling. Raised before any network call is made.
type PayloadTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("audio file %s is %d bytes, exceeds provider limit of %d bytes", e.Path, e.Size, e.Limit)
}

// TranscriptionError means every configured transcription provider was
// exhausted. Provider names the last backend tried.
type TranscriptionError struct {
	Provider string
	Err      error
}

func (e *TranscriptionError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("transcription failed: %v", e.Err)
	}
	return fmt.Sprintf("transcription failed (last provider %s): %v", e.Provider, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// SummarizationError means the summarization provider was unreachable or
// returned an error status. A malformed-but-delivered response is not an
// error; the adapter degrades instead.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarization failed: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }
