package ports

import (
	"context"
	"io"

	"github.com/Shruti1238/sentiment-frontend/internal/domain"
)

// KeyValueStore is the persistence boundary: opaque values under fixed keys.
type KeyValueStore interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// SentimentClient submits one payload to the classification collaborator and
// returns its verdict. Implementations own the wire format (§ endpoint per
// modality); callers pick the method from the staged input.
type SentimentClient interface {
	SubmitText(ctx context.Context, text string) (domain.Classification, error)
	SubmitImage(ctx context.Context, file domain.FileRef) (domain.Classification, error)
	SubmitAudio(ctx context.Context, file domain.FileRef) (domain.Classification, error)
}

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// CaptureStream is a live raw PCM stream from the platform microphone.
type CaptureStream interface {
	io.ReadCloser
}

// CaptureDevice opens microphone capture streams.
type CaptureDevice interface {
	Open(ctx context.Context, cfg AudioConfig) (CaptureStream, error)
}

// AudioRecorder is the idle/capturing state machine over a capture device.
// Stop while idle is a no-op yielding an empty clip.
type AudioRecorder interface {
	Start(ctx context.Context) error
	Stop() (domain.AudioClip, error)
	State() domain.CaptureState
}

// Previewer allocates and revokes transient local preview handles for
// not-yet-uploaded files. Releasing an unknown handle is a no-op.
type Previewer interface {
	Allocate(name string, data []byte) (string, error)
	Release(url string)
}

// EventSink emits backend state and events to the UI.
type EventSink interface {
	ChatsChanged()
	MessageAppended(chatID string, message domain.Message)
	LoadingChanged(loading bool)
	CaptureStateChanged(state domain.CaptureState)
	SessionError(code domain.ErrorCode, detail string)
}
