package usecase

import (
	"context"

	"github.com/Shruti1238/sentiment-frontend/internal/domain"
	"github.com/Shruti1238/sentiment-frontend/internal/ports"
)

// SessionController is the top-level orchestration: it owns the active
// conversation, routes user actions into the store and coordinator, and wires
// recording into the pending input.
type SessionController struct {
	store       *ChatStore
	coordinator *SubmissionCoordinator
	recorder    ports.AudioRecorder
	events      ports.EventSink
}

func NewSessionController(
	store *ChatStore,
	coordinator *SubmissionCoordinator,
	recorder ports.AudioRecorder,
	events ports.EventSink,
) *SessionController {
	c := &SessionController{
		store:       store,
		coordinator: coordinator,
		recorder:    recorder,
		events:      events,
	}

	store.OnStorageError(func(err error) {
		events.SessionError(domain.ErrorCodeStorage, err.Error())
	})

	// A session always has at least one conversation to accept input.
	if len(store.List()) == 0 {
		store.Create()
	}
	return c
}

// NewChat provisions a fresh active conversation and resets staged input.
func (c *SessionController) NewChat() domain.Conversation {
	c.coordinator.ClearPending()
	c.discardRecording()

	chat := c.store.Create()
	c.events.ChatsChanged()
	return chat
}

// SwitchChat changes the active conversation. In-flight submissions are not
// redirected; their result lands in the conversation captured at submit time.
func (c *SessionController) SwitchChat(id string) error {
	if err := c.store.SetActive(id); err != nil {
		return err
	}
	c.events.ChatsChanged()
	return nil
}

// Chats lists every conversation in insertion order.
func (c *SessionController) Chats() []domain.Conversation {
	return c.store.List()
}

// ActiveChat returns the active conversation, if any.
func (c *SessionController) ActiveChat() (domain.Conversation, bool) {
	return c.store.Active()
}

// Messages returns the active conversation's message list.
func (c *SessionController) Messages() []domain.Message {
	chat, ok := c.store.Active()
	if !ok {
		return nil
	}
	return chat.Messages
}

// DeleteAll wipes history and provisions one fresh active conversation.
func (c *SessionController) DeleteAll() domain.Conversation {
	c.coordinator.ClearPending()
	c.discardRecording()

	chat := c.store.DeleteAll()
	c.events.ChatsChanged()
	return chat
}

// ExportAll returns the full conversation snapshot as pretty-printed JSON.
func (c *SessionController) ExportAll() ([]byte, error) {
	return c.store.ExportAll()
}

// SetInputText stages typed text as the pending input.
func (c *SessionController) SetInputText(text string) {
	c.coordinator.SetText(text)
}

// StageFile stages an uploaded file as the pending input.
func (c *SessionController) StageFile(file domain.FileRef) error {
	return c.coordinator.StageFile(file)
}

// PendingInput returns what is currently staged.
func (c *SessionController) PendingInput() (string, *domain.FileRef) {
	return c.coordinator.Pending()
}

// Send submits the staged input. A send while a submission is in flight, or
// with nothing staged, is rejected without touching conversation state.
func (c *SessionController) Send(ctx context.Context) error {
	return c.coordinator.Submit(ctx)
}

// StartRecording begins a microphone capture session. Capture failures do not
// produce a conversation message; no submission was attempted.
func (c *SessionController) StartRecording(ctx context.Context) error {
	if err := c.recorder.Start(ctx); err != nil {
		return err
	}
	c.events.CaptureStateChanged(domain.CaptureStateCapturing)
	return nil
}

// StopRecording finalizes the capture and stages the clip as the pending
// file input, ready to send. Stopping while idle is a no-op.
func (c *SessionController) StopRecording() error {
	clip, err := c.recorder.Stop()
	c.events.CaptureStateChanged(domain.CaptureStateIdle)
	if err != nil {
		return err
	}
	if clip.Empty() {
		return nil
	}
	return c.coordinator.StageFile(domain.FileRef{
		Name:     clip.Name,
		MimeType: clip.MimeType,
		Data:     clip.Data,
	})
}

// Status reports the session state for the UI.
func (c *SessionController) Status() domain.Status {
	loading := c.coordinator.Submitting()
	return domain.Status{
		ActiveChatID: c.store.ActiveID(),
		Loading:      loading,
		Capture:      c.recorder.State(),
	}
}

// Shutdown releases singly-owned resources: any staged preview handle and a
// still-running capture session.
func (c *SessionController) Shutdown() {
	c.coordinator.ClearPending()
	c.discardRecording()
}

func (c *SessionController) discardRecording() {
	if c.recorder.State() != domain.CaptureStateCapturing {
		return
	}
	if _, err := c.recorder.Stop(); err != nil {
		c.events.SessionError(domain.ErrorCodeCapture, err.Error())
	}
	c.events.CaptureStateChanged(domain.CaptureStateIdle)
}
