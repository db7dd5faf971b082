package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "ai"
)

// Kind identifies the input modality a message originated from.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

// Label is a sentiment classification label.
type Label string

const (
	LabelPositive Label = "POS"
	LabelNegative Label = "NEG"
	LabelNeutral  Label = "NEU"
)

// NormalizeLabel coerces unknown or missing labels to neutral.
func NormalizeLabel(raw string) Label {
	switch Label(strings.ToUpper(strings.TrimSpace(raw))) {
	case LabelPositive:
		return LabelPositive
	case LabelNegative:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Display returns the human-readable form of a label.
func (l Label) Display() string {
	switch l {
	case LabelPositive:
		return "Positive"
	case LabelNegative:
		return "Negative"
	default:
		return "Neutral"
	}
}

// Classification is the collaborator's sentiment verdict, or an error payload
// when the submission failed. Error is mutually exclusive with the rest.
type Classification struct {
	Label           Label   `json:"label,omitempty"`
	Score           float64 `json:"score,omitempty"`
	Text            string  `json:"text,omitempty"`
	ExtractedText   string  `json:"extracted_text,omitempty"`
	TranscribedText string  `json:"transcribed_text,omitempty"`
	Error           string  `json:"error,omitempty"`
}

// Failed reports whether the classification carries an error payload.
func (c Classification) Failed() bool {
	return c.Error != ""
}

// ScorePercent renders the confidence the way the UI shows it, e.g. "95.0%".
func (c Classification) ScorePercent() string {
	return fmt.Sprintf("%.1f%%", c.Score*100)
}

// FileRef describes a staged or submitted file: an upload or a finished
// recording. PreviewURL is a transient local handle and is only meaningful
// while its owner holds it.
type FileRef struct {
	Name       string `json:"name"`
	MimeType   string `json:"mimeType"`
	Data       []byte `json:"-"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// Kind maps the declared media type onto an input modality. Anything that is
// not an image is submitted as audio.
func (f FileRef) Kind() Kind {
	if strings.HasPrefix(f.MimeType, "image/") {
		return KindImage
	}
	return KindAudio
}

// Message is one turn in a conversation. User text messages carry Content;
// user file messages carry FileName and the preview handle that was live at
// submit time; assistant messages carry a Result.
type Message struct {
	Role       Role            `json:"role"`
	Kind       Kind            `json:"kind"`
	Content    string          `json:"content,omitempty"`
	FileName   string          `json:"fileName,omitempty"`
	PreviewURL string          `json:"previewUrl,omitempty"`
	Result     *Classification `json:"result,omitempty"`
}

// Conversation is a named, ordered, persisted message thread.
type Conversation struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	Messages []Message `json:"messages"`
}

const (
	// DefaultChatName is the name of a conversation before it has content.
	DefaultChatName = "New Chat"

	maxChatNameLen = 32
)

// ChatName derives a conversation's display name from its messages: the first
// user text message truncated to 32 runes with a trailing ellipsis, falling
// back to the file name of the first user image or audio message.
func ChatName(messages []Message) string {
	for _, msg := range messages {
		if msg.Role != RoleUser || msg.Kind != KindText || msg.Content == "" {
			continue
		}
		runes := []rune(msg.Content)
		if len(runes) > maxChatNameLen {
			return string(runes[:maxChatNameLen]) + "..."
		}
		return msg.Content
	}
	for _, msg := range messages {
		if msg.Role != RoleUser || (msg.Kind != KindImage && msg.Kind != KindAudio) {
			continue
		}
		if msg.FileName != "" {
			return msg.FileName
		}
	}
	return DefaultChatName
}

// AudioClip is a finalized recording ready to be staged for submission.
type AudioClip struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"-"`
}

// Empty reports whether the clip contains no audio.
func (c AudioClip) Empty() bool {
	return len(c.Data) == 0
}

// CaptureState models the microphone lifecycle.
type CaptureState string

const (
	CaptureStateIdle      CaptureState = "idle"
	CaptureStateCapturing CaptureState = "capturing"
)

// ErrorCode identifies non-fatal backend errors surfaced to the UI.
type ErrorCode string

const (
	ErrorCodeStartup    ErrorCode = "startup"
	ErrorCodeStorage    ErrorCode = "storage"
	ErrorCodeCapture    ErrorCode = "capture"
	ErrorCodeSubmission ErrorCode = "submission"
	ErrorCodeExport     ErrorCode = "export"
)

// Status summarizes the current session for the UI.
type Status struct {
	ActiveChatID string       `json:"activeChatId"`
	Loading      bool         `json:"loading"`
	Capture      CaptureState `json:"capture"`
}
