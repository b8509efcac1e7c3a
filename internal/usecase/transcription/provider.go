package transcription

import "context"

// Result is the output of one transcription attempt
type Result struct {
	Text     string
	Language string
}

// Provider transcribes a local video recording. Implementations own any
// intermediate artifacts they create (uploads, extracted audio).
type Provider interface {
	// Name identifies the provider in logs and errors
	Name() string
	// IsConfigured reports whether the provider has credentials and can
	// be attempted. Unconfigured providers are skipped by the chain.
	IsConfigured() bool
	// Transcribe produces a transcript for the recording at videoPath
	Transcribe(ctx context.Context, videoPath string) (*Result, error)
}
