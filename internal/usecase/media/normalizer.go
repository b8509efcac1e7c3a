package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
	"github.com/meetscribe-team/meetscribe/pkg/config"
	"github.com/meetscribe-team/meetscribe/pkg/executor"
)

// Normalizer prepares uploaded recordings for transcription: container
// normalization to MP4 and audio extraction for providers that need raw audio.
type Normalizer struct {
	exec   executor.Executor
	binary string
	logger *zap.Logger
}

// NewNormalizer resolves the ffmpeg binary and returns a Normalizer.
// Resolution order: explicit configured path, then PATH lookup, then the
// vendored fallback location. A missing binary is a configuration error.
func NewNormalizer(cfg *config.FFmpegConfig, exec executor.Executor, logger *zap.Logger) (*Normalizer, error) {
	binary, err := resolveBinary(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("resolved ffmpeg binary", zap.String("path", binary))

	return &Normalizer{
		exec:   exec,
		binary: binary,
		logger: logger,
	}, nil
}

func resolveBinary(cfg *config.FFmpegConfig) (string, error) {
	if cfg != nil && cfg.BinaryPath != "" {
		if _, err := os.Stat(cfg.BinaryPath); err == nil {
			return cfg.BinaryPath, nil
		}
		return "", &entities.ConfigurationError{
			Stage:  "media",
			Reason: fmt.Sprintf("configured ffmpeg path %q does not exist", cfg.BinaryPath),
		}
	}

	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path, nil
	}

	if cfg != nil && cfg.FallbackPath != "" {
		if _, err := os.Stat(cfg.FallbackPath); err == nil {
			return cfg.FallbackPath, nil
		}
	}

	return "", &entities.ConfigurationError{
		Stage:  "media",
		Reason: "ffmpeg binary not found on PATH or fallback location",
	}
}

// EnsureMP4 returns the input path unchanged when it already has an .mp4
// extension. Otherwise it re-encodes the file into a sibling .mp4 and
// returns the new path.
func (n *Normalizer) EnsureMP4(ctx context.Context, videoPath string) (string, error) {
	if strings.EqualFold(filepath.Ext(videoPath), ".mp4") {
		return videoPath, nil
	}

	outPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mp4"

	n.logger.Info("converting recording to mp4",
		zap.String("input", videoPath),
		zap.String("output", outPath))

	_, err := n.exec.Execute(ctx, n.binary,
		"-y",
		"-i", videoPath,
		"-c:v", "libx264",
		"-preset", "fast",
		"-c:a", "aac",
		outPath,
	)
	if err != nil {
		return "", &entities.ConversionError{Path: videoPath, Err: err}
	}

	return outPath, nil
}

// ExtractAudio writes a mono 16 kHz low-bitrate mp3 next to the video and
// returns its path. Callers own the file and must remove it when done.
func (n *Normalizer) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".audio.mp3"

	n.logger.Info("extracting audio track",
		zap.String("input", videoPath),
		zap.String("output", audioPath))

	_, err := n.exec.Execute(ctx, n.binary,
		"-y",
		"-i", videoPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-b:a", "32k",
		audioPath,
	)
	if err != nil {
		return "", &entities.ExtractionError{Path: videoPath, Err: err}
	}

	return audioPath, nil
}
