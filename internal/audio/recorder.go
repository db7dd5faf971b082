package audio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/Shruti1238/sentiment-frontend/internal/domain"
	"github.com/Shruti1238/sentiment-frontend/internal/ports"
)

// ClipName is the file name given to finalized recordings.
const ClipName = "recording.wav"

// Recorder is the idle/capturing state machine over a capture device. Only
// one capture may be live at a time; Stop drains the buffered PCM and
// finalizes it into a single WAV clip.
type Recorder struct {
	device    ports.CaptureDevice
	cfg       ports.AudioConfig
	chunkSize int

	mu      sync.Mutex
	current *activeCapture
}

type activeCapture struct {
	stream ports.CaptureStream
	buf    bytes.Buffer
	done   chan struct{}
	err    error
}

func NewRecorder(device ports.CaptureDevice, cfg ports.AudioConfig, chunkSize int) *Recorder {
	if chunkSize < 256 {
		chunkSize = 4096
	}
	return &Recorder{device: device, cfg: cfg, chunkSize: chunkSize}
}

// Start opens the capture device and begins buffering encoded chunks.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.current != nil {
		r.mu.Unlock()
		return ErrAlreadyCapturing
	}
	r.mu.Unlock()

	stream, err := r.device.Open(ctx, r.cfg)
	if err != nil {
		return err
	}

	capture := &activeCapture{
		stream: stream,
		done:   make(chan struct{}),
	}

	r.mu.Lock()
	if r.current != nil {
		// Lost the race to a concurrent Start.
		r.mu.Unlock()
		_ = stream.Close()
		return ErrAlreadyCapturing
	}
	r.current = capture
	r.mu.Unlock()

	go r.buffer(capture)
	return nil
}

func (r *Recorder) buffer(capture *activeCapture) {
	defer close(capture.done)

	chunk := make([]byte, r.chunkSize)
	for {
		n, err := capture.stream.Read(chunk)
		if n > 0 {
			capture.buf.Write(chunk[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				capture.err = err
			}
			return
		}
	}
}

// Stop finalizes the buffered chunks into one WAV clip and returns to idle.
// Stopping while idle is a no-op yielding an empty clip.
func (r *Recorder) Stop() (domain.AudioClip, error) {
	r.mu.Lock()
	capture := r.current
	r.current = nil
	r.mu.Unlock()

	if capture == nil {
		return domain.AudioClip{}, nil
	}

	closeErr := capture.stream.Close()
	<-capture.done

	pcm := capture.buf.Bytes()
	if len(pcm) == 0 {
		if capture.err != nil {
			return domain.AudioClip{}, capture.err
		}
		return domain.AudioClip{}, closeErr
	}

	return domain.AudioClip{
		Name:     ClipName,
		MimeType: "audio/wav",
		Data:     encodeWAV(pcm, r.cfg.SampleRate, r.cfg.Channels),
	}, nil
}

// State reports whether a capture session is live.
func (r *Recorder) State() domain.CaptureState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		return domain.CaptureStateCapturing
	}
	return domain.CaptureStateIdle
}
