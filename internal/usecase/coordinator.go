package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Shruti1238/sentiment-frontend/internal/domain"
	"github.com/Shruti1238/sentiment-frontend/internal/ports"
	"github.com/Shruti1238/sentiment-frontend/internal/preview"
)

var (
	// ErrSubmissionInFlight rejects a submit while one is already running.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	// ErrNothingToSubmit rejects a submit with no staged text or file.
	ErrNothingToSubmit = errors.New("nothing staged for submission")
)

// SubmissionCoordinator stages exactly one pending input (text or file, never
// both), issues exactly one classification request per submit, and reconciles
// the result into the conversation that was active at submit time.
type SubmissionCoordinator struct {
	client ports.SentimentClient
	store  *ChatStore
	events ports.EventSink

	mu         sync.Mutex
	submitting bool
	text       string
	file       *domain.FileRef
	previews   *preview.Slot
}

func NewSubmissionCoordinator(
	client ports.SentimentClient,
	store *ChatStore,
	previews ports.Previewer,
	events ports.EventSink,
) *SubmissionCoordinator {
	return &SubmissionCoordinator{
		client:   client,
		store:    store,
		events:   events,
		previews: preview.NewSlot(previews),
	}
}

// SetText stages typed text, discarding any staged file and its preview.
func (c *SubmissionCoordinator) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.text = text
	c.file = nil
	c.previews.Clear()
}

// StageFile stages a file for submission, discarding any typed text. The
// previous preview handle, if any, is released before the new one is
// allocated into the slot.
func (c *SubmissionCoordinator) StageFile(file domain.FileRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	url, err := c.previews.Swap(file.Name, file.Data)
	if err != nil {
		return err
	}
	file.PreviewURL = url
	c.file = &file
	c.text = ""
	return nil
}

// ClearPending drops whatever is staged and releases the preview handle.
func (c *SubmissionCoordinator) ClearPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearPendingLocked()
}

func (c *SubmissionCoordinator) clearPendingLocked() {
	c.text = ""
	c.file = nil
	c.previews.Clear()
}

// Pending returns the staged input for display.
func (c *SubmissionCoordinator) Pending() (text string, file *domain.FileRef) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file != nil {
		copied := *c.file
		return "", &copied
	}
	return c.text, nil
}

// Submitting reports whether a request is in flight.
func (c *SubmissionCoordinator) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Submit runs one full submission cycle against the collaborator. The user
// message is appended before the request resolves, so input is visible
// immediately; a failed request appends an error result without retracting
// it. The staged input is cleared only on success, keeping failures
// re-attemptable. The target conversation is the one active now; a later
// switch does not redirect the result.
func (c *SubmissionCoordinator) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}
	text := strings.TrimSpace(c.text)
	file := c.file
	if text == "" && file == nil {
		c.mu.Unlock()
		return ErrNothingToSubmit
	}
	chatID := c.store.ActiveID()
	c.submitting = true
	c.mu.Unlock()

	c.events.LoadingChanged(true)
	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
		c.events.LoadingChanged(false)
	}()

	userMsg, kind := buildUserMessage(text, file)
	if err := c.store.Append(chatID, userMsg); err != nil {
		return err
	}
	c.events.MessageAppended(chatID, userMsg)

	result, err := c.classify(ctx, text, file)
	if err != nil {
		result = domain.Classification{Error: err.Error()}
	}

	assistantMsg := domain.Message{
		Role:   domain.RoleAssistant,
		Kind:   kind,
		Result: &result,
	}
	if appendErr := c.store.Append(chatID, assistantMsg); appendErr != nil {
		return appendErr
	}
	c.events.MessageAppended(chatID, assistantMsg)

	if err == nil {
		c.ClearPending()
	}
	return nil
}

func (c *SubmissionCoordinator) classify(ctx context.Context, text string, file *domain.FileRef) (domain.Classification, error) {
	if file == nil {
		return c.client.SubmitText(ctx, text)
	}
	if file.Kind() == domain.KindImage {
		return c.client.SubmitImage(ctx, *file)
	}
	return c.client.SubmitAudio(ctx, *file)
}

func buildUserMessage(text string, file *domain.FileRef) (domain.Message, domain.Kind) {
	if file == nil {
		return domain.Message{
			Role:    domain.RoleUser,
			Kind:    domain.KindText,
			Content: text,
		}, domain.KindText
	}

	kind := file.Kind()
	return domain.Message{
		Role:       domain.RoleUser,
		Kind:       kind,
		Content:    file.Name,
		FileName:   file.Name,
		PreviewURL: file.PreviewURL,
	}, kind
}
