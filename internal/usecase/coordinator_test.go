package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Shruti1238/sentiment-frontend/internal/domain"
)

func newCoordinatorFixture(result domain.Classification) (*SubmissionCoordinator, *ChatStore, *fakeClient, *fakePreviewer, *fakeEventSink) {
	store := NewChatStore(newFakeKV())
	client := newFakeClient(result)
	previews := &fakePreviewer{}
	events := &fakeEventSink{}
	coordinator := NewSubmissionCoordinator(client, store, previews, events)
	return coordinator, store, client, previews, events
}

func TestSubmitTextSuccess(t *testing.T) {
	t.Parallel()

	coordinator, store, client, _, events := newCoordinatorFixture(domain.Classification{
		Label: domain.LabelPositive,
		Score: 0.95,
	})
	chat := store.Create()

	coordinator.SetText("I love this!")
	if err := coordinator.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if len(client.texts) != 1 || client.texts[0] != "I love this!" {
		t.Fatalf("unexpected text submissions: %v", client.texts)
	}

	messages, err := store.Messages(chat.ID)
	if err != nil {
		t.Fatalf("messages failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected user+assistant messages, got %d", len(messages))
	}
	if messages[0].Role != domain.RoleUser || messages[0].Content != "I love this!" {
		t.Fatalf("unexpected user message: %+v", messages[0])
	}
	if messages[1].Role != domain.RoleAssistant || messages[1].Result == nil {
		t.Fatalf("unexpected assistant message: %+v", messages[1])
	}
	if messages[1].Result.Label != domain.LabelPositive || messages[1].Result.ScorePercent() != "95.0%" {
		t.Fatalf("unexpected classification: %+v", messages[1].Result)
	}

	// Staged input is consumed on success.
	text, file := coordinator.Pending()
	if text != "" || file != nil {
		t.Fatalf("pending input should be cleared after success")
	}

	flips := events.loadingFlips()
	if len(flips) != 2 || !flips[0] || flips[1] {
		t.Fatalf("expected loading true,false, got %v", flips)
	}
}

func TestSubmitFailureAppendsErrorAndKeepsInput(t *testing.T) {
	t.Parallel()

	coordinator, store, client, _, events := newCoordinatorFixture(domain.Classification{})
	client.err = errors.New("HTTP error! status: 500")
	chat := store.Create()

	coordinator.SetText("doomed")
	if err := coordinator.Submit(context.Background()); err != nil {
		t.Fatalf("submit should not propagate the request failure: %v", err)
	}

	messages, _ := store.Messages(chat.ID)
	if len(messages) != 2 {
		t.Fatalf("expected user+error messages, got %d", len(messages))
	}
	if messages[0].Role != domain.RoleUser || messages[0].Content != "doomed" {
		t.Fatalf("user message must never be retracted: %+v", messages[0])
	}
	if messages[1].Result == nil || messages[1].Result.Error != "HTTP error! status: 500" {
		t.Fatalf("unexpected error payload: %+v", messages[1].Result)
	}

	// The failed input stays staged and re-attemptable.
	text, _ := coordinator.Pending()
	if text != "doomed" {
		t.Fatalf("failed input must remain staged, got %q", text)
	}

	flips := events.loadingFlips()
	if len(flips) != 2 || flips[1] {
		t.Fatalf("loading flag must clear after failure, got %v", flips)
	}
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	t.Parallel()

	coordinator, store, client, _, _ := newCoordinatorFixture(domain.Classification{Label: domain.LabelNeutral})
	chat := store.Create()
	started, unblock := client.blocking()

	coordinator.SetText("first")
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := coordinator.Submit(context.Background()); err != nil {
			t.Errorf("submit failed: %v", err)
		}
	}()

	<-started
	if !coordinator.Submitting() {
		t.Fatalf("expected submitting state")
	}
	messagesBefore, _ := store.Messages(chat.ID)

	if err := coordinator.Submit(context.Background()); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	messagesAfter, _ := store.Messages(chat.ID)
	if len(messagesAfter) != len(messagesBefore) {
		t.Fatalf("rejected submit must not touch the conversation")
	}

	unblock()
	wg.Wait()

	messages, _ := store.Messages(chat.ID)
	if len(messages) != 2 {
		t.Fatalf("expected exactly one request cycle, got %d messages", len(messages))
	}
}

func TestSubmitResultLandsInConversationActiveAtSubmitTime(t *testing.T) {
	t.Parallel()

	coordinator, store, client, _, _ := newCoordinatorFixture(domain.Classification{Label: domain.LabelPositive, Score: 0.9})
	chatA := store.Create()
	if err := store.Append(chatA.ID, domain.Message{Role: domain.RoleUser, Kind: domain.KindText, Content: "keep me"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	started, unblock := client.blocking()

	coordinator.SetText("slow question")
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := coordinator.Submit(context.Background()); err != nil {
			t.Errorf("submit failed: %v", err)
		}
	}()

	<-started

	// Switch to a different conversation while the request is in flight.
	chatB := store.Create()
	if store.ActiveID() != chatB.ID {
		t.Fatalf("switch failed")
	}

	unblock()
	wg.Wait()

	messagesA, _ := store.Messages(chatA.ID)
	if len(messagesA) != 3 {
		t.Fatalf("result must land in the submit-time conversation, got %d messages", len(messagesA))
	}
	if messagesA[2].Role != domain.RoleAssistant || messagesA[2].Result.Label != domain.LabelPositive {
		t.Fatalf("unexpected reconciled message: %+v", messagesA[2])
	}

	messagesB, _ := store.Messages(chatB.ID)
	if len(messagesB) != 0 {
		t.Fatalf("the newly active conversation must be unaffected, got %d messages", len(messagesB))
	}
}

func TestSubmitRejectsEmptyPending(t *testing.T) {
	t.Parallel()

	coordinator, store, _, _, _ := newCoordinatorFixture(domain.Classification{})
	chat := store.Create()

	if err := coordinator.Submit(context.Background()); !errors.Is(err, ErrNothingToSubmit) {
		t.Fatalf("expected ErrNothingToSubmit, got %v", err)
	}
	coordinator.SetText("   ")
	if err := coordinator.Submit(context.Background()); !errors.Is(err, ErrNothingToSubmit) {
		t.Fatalf("whitespace-only text must be rejected, got %v", err)
	}

	messages, _ := store.Messages(chat.ID)
	if len(messages) != 0 {
		t.Fatalf("rejected submits must not touch the conversation")
	}
}

func TestSubmitRoutesImageByMimePrefix(t *testing.T) {
	t.Parallel()

	coordinator, store, client, _, _ := newCoordinatorFixture(domain.Classification{
		Label:         domain.LabelNeutral,
		Score:         0.5,
		ExtractedText: "a cat",
	})
	chat := store.Create()

	if err := coordinator.StageFile(domain.FileRef{Name: "cat.png", MimeType: "image/png", Data: []byte("png")}); err != nil {
		t.Fatalf("stage failed: %v", err)
	}
	if err := coordinator.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if len(client.images) != 1 || client.images[0].Name != "cat.png" {
		t.Fatalf("expected image endpoint, got images=%v audios=%v texts=%v", client.images, client.audios, client.texts)
	}

	messages, _ := store.Messages(chat.ID)
	if messages[0].Kind != domain.KindImage || messages[0].FileName != "cat.png" {
		t.Fatalf("unexpected user message: %+v", messages[0])
	}
	if messages[0].PreviewURL == "" {
		t.Fatalf("user file message must carry the live preview handle")
	}
	if messages[1].Result.ExtractedText != "a cat" || messages[1].Result.ScorePercent() != "50.0%" {
		t.Fatalf("unexpected result: %+v", messages[1].Result)
	}

	// The derived chat name falls back to the file name.
	got, _ := store.Get(chat.ID)
	if got.Name != "cat.png" {
		t.Fatalf("unexpected chat name: %q", got.Name)
	}
}

func TestSubmitRoutesNonImageFilesToAudio(t *testing.T) {
	t.Parallel()

	coordinator, store, client, _, _ := newCoordinatorFixture(domain.Classification{Label: domain.LabelNegative, Score: 0.7})
	store.Create()

	if err := coordinator.StageFile(domain.FileRef{Name: "recording.wav", MimeType: "audio/wav", Data: []byte("wav")}); err != nil {
		t.Fatalf("stage failed: %v", err)
	}
	if err := coordinator.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if len(client.audios) != 1 || client.audios[0].Name != "recording.wav" {
		t.Fatalf("expected audio endpoint, got %v", client.audios)
	}
}

func TestStagingIsMutuallyExclusive(t *testing.T) {
	t.Parallel()

	coordinator, store, _, previews, _ := newCoordinatorFixture(domain.Classification{})
	store.Create()

	if err := coordinator.StageFile(domain.FileRef{Name: "a.png", MimeType: "image/png"}); err != nil {
		t.Fatalf("stage failed: %v", err)
	}
	text, file := coordinator.Pending()
	if text != "" || file == nil || file.Name != "a.png" {
		t.Fatalf("unexpected pending after file stage: %q %+v", text, file)
	}

	// Typing clears the staged file and releases its preview.
	coordinator.SetText("typed instead")
	text, file = coordinator.Pending()
	if text != "typed instead" || file != nil {
		t.Fatalf("unexpected pending after text stage: %q %+v", text, file)
	}
	if released := previews.releasedURLs(); len(released) != 1 || released[0] != "preview://a.png" {
		t.Fatalf("expected staged preview released, got %v", released)
	}

	// Staging a file clears the typed text.
	if err := coordinator.StageFile(domain.FileRef{Name: "b.wav", MimeType: "audio/wav"}); err != nil {
		t.Fatalf("stage failed: %v", err)
	}
	text, file = coordinator.Pending()
	if text != "" || file == nil || file.Name != "b.wav" {
		t.Fatalf("unexpected pending: %q %+v", text, file)
	}
}

func TestStageFileSwapsPreviewHandle(t *testing.T) {
	t.Parallel()

	coordinator, store, _, previews, _ := newCoordinatorFixture(domain.Classification{})
	store.Create()

	if err := coordinator.StageFile(domain.FileRef{Name: "first.png", MimeType: "image/png"}); err != nil {
		t.Fatalf("stage failed: %v", err)
	}
	if err := coordinator.StageFile(domain.FileRef{Name: "second.png", MimeType: "image/png"}); err != nil {
		t.Fatalf("stage failed: %v", err)
	}

	if previews.allocated != 2 {
		t.Fatalf("expected two allocations, got %d", previews.allocated)
	}
	released := previews.releasedURLs()
	if len(released) != 1 || released[0] != "preview://first.png" {
		t.Fatalf("staging over an occupied slot must release the old handle, got %v", released)
	}
}

func TestSubmitReleasesPreviewOnSuccess(t *testing.T) {
	t.Parallel()

	coordinator, store, _, previews, _ := newCoordinatorFixture(domain.Classification{Label: domain.LabelNeutral})
	store.Create()

	if err := coordinator.StageFile(domain.FileRef{Name: "cat.png", MimeType: "image/png"}); err != nil {
		t.Fatalf("stage failed: %v", err)
	}
	if err := coordinator.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	released := previews.releasedURLs()
	if len(released) != 1 || released[0] != "preview://cat.png" {
		t.Fatalf("expected preview released after success, got %v", released)
	}
}
