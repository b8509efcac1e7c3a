package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
	"github.com/meetscribe-team/meetscribe/pkg/config"
)

type fakeExecutor struct {
	calls [][]string
	err   error
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return "", f.err
}

func fakeBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

func newTestNormalizer(t *testing.T, exec *fakeExecutor) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(&config.FFmpegConfig{BinaryPath: fakeBinary(t)}, exec, zap.NewNop())
	require.NoError(t, err)
	return n
}

func TestNewNormalizerMissingConfiguredBinary(t *testing.T) {
	_, err := NewNormalizer(&config.FFmpegConfig{BinaryPath: "/nonexistent/ffmpeg"}, &fakeExecutor{}, zap.NewNop())
	require.Error(t, err)

	var cfgErr *entities.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestEnsureMP4NoOpForMP4(t *testing.T) {
	exec := &fakeExecutor{}
	n := newTestNormalizer(t, exec)

	out, err := n.EnsureMP4(context.Background(), "/videos/standup.MP4")
	require.NoError(t, err)
	assert.Equal(t, "/videos/standup.MP4", out)
	assert.Empty(t, exec.calls, "no-op path must not invoke ffmpeg")
}

func TestEnsureMP4Converts(t *testing.T) {
	exec := &fakeExecutor{}
	n := newTestNormalizer(t, exec)

	out, err := n.EnsureMP4(context.Background(), "/videos/standup.webm")
	require.NoError(t, err)
	assert.Equal(t, "/videos/standup.mp4", out)

	require.Len(t, exec.calls, 1)
	assert.Contains(t, exec.calls[0], "/videos/standup.webm")
	assert.Contains(t, exec.calls[0], "/videos/standup.mp4")
	assert.Contains(t, exec.calls[0], "libx264")
}

func TestEnsureMP4ConversionFailure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("codec error")}
	n := newTestNormalizer(t, exec)

	_, err := n.EnsureMP4(context.Background(), "/videos/standup.mov")
	require.Error(t, err)

	var convErr *entities.ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "/videos/standup.mov", convErr.Path)
}

func TestExtractAudio(t *testing.T) {
	exec := &fakeExecutor{}
	n := newTestNormalizer(t, exec)

	out, err := n.ExtractAudio(context.Background(), "/videos/standup.mp4")
	require.NoError(t, err)
	assert.Equal(t, "/videos/standup.audio.mp3", out)

	require.Len(t, exec.calls, 1)
	assert.Contains(t, exec.calls[0], "-vn")
	assert.Contains(t, exec.calls[0], "16000")
}

func TestExtractAudioFailure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("no audio stream")}
	n := newTestNormalizer(t, exec)

	_, err := n.ExtractAudio(context.Background(), "/videos/silent.mp4")
	require.Error(t, err)

	var extErr *entities.ExtractionError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, "/videos/silent.mp4", extErr.Path)
}
