package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/Shruti1238/sentiment-frontend/internal/audio"
	"github.com/Shruti1238/sentiment-frontend/internal/bootstrap"
	"github.com/Shruti1238/sentiment-frontend/internal/config"
	"github.com/Shruti1238/sentiment-frontend/internal/domain"
	"github.com/Shruti1238/sentiment-frontend/internal/preview"
	"github.com/Shruti1238/sentiment-frontend/internal/suggest"
	"github.com/Shruti1238/sentiment-frontend/internal/usecase"
)

const (
	eventChats   = "sentiment:chats"
	eventMessage = "sentiment:message"
	eventLoading = "sentiment:loading"
	eventCapture = "sentiment:capture"
	eventError   = "sentiment:error"
)

const exportFileName = "sentiment-chats.json"

// App is the Wails application root.
type App struct {
	ctx context.Context

	controller  *usecase.SessionController
	suggestions *suggest.List
	previews    *preview.Registry
	cfg         config.Config
	bootErr     error
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a)
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.controller = services.Controller
	a.suggestions = services.Suggestions
	a.previews = services.Previews
	a.ChatsChanged()
}

func (a *App) shutdown(_ context.Context) {
	if a.controller != nil {
		a.controller.Shutdown()
	}
	if a.previews != nil {
		_ = a.previews.Close()
	}
}

// NewChat opens a fresh conversation and makes it active.
func (a *App) NewChat() (domain.Conversation, error) {
	if err := a.requireReady(); err != nil {
		return domain.Conversation{}, err
	}
	return a.controller.NewChat(), nil
}

// Chats lists every conversation for the sidebar.
func (a *App) Chats() ([]domain.Conversation, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	return a.controller.Chats(), nil
}

// SwitchChat activates the identified conversation.
func (a *App) SwitchChat(id string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.controller.SwitchChat(id)
}

// Messages returns the active conversation's message list.
func (a *App) Messages() ([]domain.Message, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	return a.controller.Messages(), nil
}

// SetInput stages typed text as the pending input.
func (a *App) SetInput(text string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.controller.SetInputText(text)
	return nil
}

// AttachFile stages an uploaded file as the pending input.
func (a *App) AttachFile(name string, mimeType string, data []byte) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.controller.StageFile(domain.FileRef{Name: name, MimeType: mimeType, Data: data})
}

// Send submits the staged input to the classifier. Duplicate sends while a
// submission is in flight are silently ignored.
func (a *App) Send() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	err := a.controller.Send(a.ctx)
	if errors.Is(err, usecase.ErrSubmissionInFlight) || errors.Is(err, usecase.ErrNothingToSubmit) {
		return nil
	}
	if err != nil {
		a.SessionError(domain.ErrorCodeSubmission, err.Error())
	}
	return err
}

// SendText stages and submits text in one action.
func (a *App) SendText(text string) error {
	if err := a.SetInput(text); err != nil {
		return err
	}
	return a.Send()
}

// StartRecording begins microphone capture.
func (a *App) StartRecording() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	err := a.controller.StartRecording(a.ctx)
	if err != nil && !errors.Is(err, audio.ErrAlreadyCapturing) {
		a.SessionError(domain.ErrorCodeCapture, captureErrorMessage(err))
	}
	return err
}

// StopRecording finalizes the capture and stages the clip for sending.
func (a *App) StopRecording() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if err := a.controller.StopRecording(); err != nil {
		a.SessionError(domain.ErrorCodeCapture, captureErrorMessage(err))
		return err
	}
	return nil
}

// ClearAll deletes every conversation and opens a fresh one.
func (a *App) ClearAll() (domain.Conversation, error) {
	if err := a.requireReady(); err != nil {
		return domain.Conversation{}, err
	}
	return a.controller.DeleteAll(), nil
}

// DownloadChats exports the full history to a user-chosen JSON file and
// returns the written path. An empty path means the user cancelled.
func (a *App) DownloadChats() (string, error) {
	if err := a.requireReady(); err != nil {
		return "", err
	}

	snapshot, err := a.controller.ExportAll()
	if err != nil {
		a.SessionError(domain.ErrorCodeExport, err.Error())
		return "", err
	}

	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Download Chats",
		DefaultFilename: exportFileName,
	})
	if err != nil {
		a.SessionError(domain.ErrorCodeExport, err.Error())
		return "", err
	}
	if path == "" {
		return "", nil
	}

	if err := os.WriteFile(path, snapshot, 0o600); err != nil {
		a.SessionError(domain.ErrorCodeExport, err.Error())
		return "", err
	}
	return path, nil
}

// Suggestions filters the prompt suggestions against typed input.
func (a *App) Suggestions(input string) ([]string, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	return a.suggestions.Filter(input), nil
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}
	return map[string]string{
		"apiBase":     a.cfg.API.BaseURL,
		"storageFile": a.cfg.Storage.Path,
		"audioInput":  a.cfg.Audio.InputDevice,
	}
}

// GetStatus returns the current session status.
func (a *App) GetStatus() domain.Status {
	if a.controller == nil {
		return domain.Status{Capture: domain.CaptureStateIdle}
	}
	return a.controller.Status()
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// ChatsChanged notifies the frontend that the conversation list or the
// active conversation changed.
func (a *App) ChatsChanged() {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventChats)
}

// MessageAppended emits a newly appended message with its conversation id.
func (a *App) MessageAppended(chatID string, message domain.Message) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventMessage, map[string]any{
		"chatId":  chatID,
		"message": message,
	})
}

// LoadingChanged emits the submission loading flag.
func (a *App) LoadingChanged(loading bool) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventLoading, loading)
}

// CaptureStateChanged emits microphone lifecycle updates.
func (a *App) CaptureStateChanged(state domain.CaptureState) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventCapture, string(state))
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func captureErrorMessage(err error) string {
	switch {
	case errors.Is(err, audio.ErrPermissionDenied):
		return "Microphone access denied"
	case errors.Is(err, audio.ErrDeviceUnavailable):
		return "No microphone available"
	default:
		return err.Error()
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeStorage:
		return "Chat history could not be saved"
	case domain.ErrorCodeCapture:
		return "Recording issue"
	case domain.ErrorCodeSubmission:
		return "Submission failed"
	case domain.ErrorCodeExport:
		return "Download failed"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}
