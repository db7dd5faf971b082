package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Shruti1238/sentiment-frontend/internal/ports"
)

var (
	// ErrPermissionDenied means microphone access was refused.
	ErrPermissionDenied = errors.New("microphone access denied")
	// ErrDeviceUnavailable means no usable capture device could be opened.
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	// ErrAlreadyCapturing means a capture session is already in progress.
	ErrAlreadyCapturing = errors.New("already capturing")
)

// FFMPEGDevice opens microphone PCM streams through an ffmpeg child process.
type FFMPEGDevice struct {
	command string
}

func NewFFMPEGDevice(command string) *FFMPEGDevice {
	if command == "" {
		command = "ffmpeg"
	}
	return &FFMPEGDevice{command: command}
}

func (d *FFMPEGDevice) Open(ctx context.Context, cfg ports.AudioConfig) (ports.CaptureStream, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = "pulse"
	}
	if cfg.InputDevice == "" {
		cfg.InputDevice = "default"
	}

	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", cfg.InputFormat,
		"-i", cfg.InputDevice,
		"-ac", strconv.Itoa(cfg.Channels),
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-f", "s16le",
		"-",
	}

	cmd := exec.CommandContext(ctx, d.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: could not create pipe: %v", ErrDeviceUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	// An immediate exit means the device never opened; classify the reason
	// from the recorder's diagnostics.
	select {
	case <-waitErr:
		return nil, classifyOpenFailure(stderr.String())
	case <-time.After(250 * time.Millisecond):
	}

	return &micStream{
		stdout:  stdout,
		process: cmd.Process,
		waitErr: waitErr,
	}, nil
}

func classifyOpenFailure(diagnostics string) error {
	lowered := strings.ToLower(diagnostics)
	if strings.Contains(lowered, "permission denied") || strings.Contains(lowered, "access denied") {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, strings.TrimSpace(diagnostics))
	}
	if diagnostics = strings.TrimSpace(diagnostics); diagnostics != "" {
		return fmt.Errorf("%w: %s", ErrDeviceUnavailable, diagnostics)
	}
	return ErrDeviceUnavailable
}

type micStream struct {
	stdout  io.ReadCloser
	process *os.Process
	waitErr <-chan error

	closeOnce sync.Once
	closeErr  error
}

func (s *micStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

func (s *micStream) Close() error {
	s.closeOnce.Do(func() {
		if s.process != nil {
			_ = s.process.Signal(os.Interrupt)
		}

		select {
		case err := <-s.waitErr:
			s.closeErr = normalizeExit(err)
		case <-time.After(1200 * time.Millisecond):
			if s.process != nil {
				_ = s.process.Kill()
			}
			s.closeErr = normalizeExit(<-s.waitErr)
		}

		if err := s.stdout.Close(); err != nil && !errors.Is(err, os.ErrClosed) && s.closeErr == nil {
			s.closeErr = err
		}
	})
	return s.closeErr
}

func normalizeExit(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Interrupting the recorder is the normal shutdown path.
		return nil
	}
	return err
}
