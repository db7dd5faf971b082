package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/Shruti1238/sentiment-frontend/internal/domain"
)

var errTestDiskFull = errors.New("disk full")

type fakeKV struct {
	mu      sync.Mutex
	values  map[string][]byte
	failSet error
	sets    int
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string][]byte{}}
}

func (kv *fakeKV) Get(key string) ([]byte, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	value, ok := kv.values[key]
	return value, ok, nil
}

func (kv *fakeKV) Set(key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.failSet != nil {
		return kv.failSet
	}
	kv.sets++
	kv.values[key] = append([]byte(nil), value...)
	return nil
}

func (kv *fakeKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.values, key)
	return nil
}

type appendedMessage struct {
	chatID  string
	message domain.Message
}

type fakeEventSink struct {
	mu           sync.Mutex
	chatsChanged int
	appended     []appendedMessage
	loading      []bool
	captures     []domain.CaptureState
	errors       []domain.ErrorCode
}

func (s *fakeEventSink) ChatsChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatsChanged++
}

func (s *fakeEventSink) MessageAppended(chatID string, message domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appended = append(s.appended, appendedMessage{chatID: chatID, message: message})
}

func (s *fakeEventSink) LoadingChanged(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = append(s.loading, loading)
}

func (s *fakeEventSink) CaptureStateChanged(state domain.CaptureState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captures = append(s.captures, state)
}

func (s *fakeEventSink) SessionError(code domain.ErrorCode, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, code)
}

func (s *fakeEventSink) loadingFlips() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bool(nil), s.loading...)
}

type fakePreviewer struct {
	mu        sync.Mutex
	allocated int
	released  []string
}

func (p *fakePreviewer) Allocate(name string, _ []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.allocated++
	return "preview://" + name, nil
}

func (p *fakePreviewer) Release(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released = append(p.released, url)
}

func (p *fakePreviewer) releasedURLs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.released...)
}

type fakeClient struct {
	mu        sync.Mutex
	result    domain.Classification
	err       error
	texts     []string
	images    []domain.FileRef
	audios    []domain.FileRef
	started   chan struct{}
	release   chan struct{}
	startOnce sync.Once
}

func newFakeClient(result domain.Classification) *fakeClient {
	return &fakeClient{result: result}
}

// blocking makes the next submission hang until unblock is called.
func (c *fakeClient) blocking() (started <-chan struct{}, unblock func()) {
	c.started = make(chan struct{})
	c.release = make(chan struct{})
	return c.started, func() { close(c.release) }
}

func (c *fakeClient) respond() (domain.Classification, error) {
	c.startOnce.Do(func() {
		if c.started != nil {
			close(c.started)
		}
	})
	if c.release != nil {
		<-c.release
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return domain.Classification{}, c.err
	}
	return c.result, nil
}

func (c *fakeClient) SubmitText(_ context.Context, text string) (domain.Classification, error) {
	c.mu.Lock()
	c.texts = append(c.texts, text)
	c.mu.Unlock()
	return c.respond()
}

func (c *fakeClient) SubmitImage(_ context.Context, file domain.FileRef) (domain.Classification, error) {
	c.mu.Lock()
	c.images = append(c.images, file)
	c.mu.Unlock()
	return c.respond()
}

func (c *fakeClient) SubmitAudio(_ context.Context, file domain.FileRef) (domain.Classification, error) {
	c.mu.Lock()
	c.audios = append(c.audios, file)
	c.mu.Unlock()
	return c.respond()
}

type fakeRecorder struct {
	mu    sync.Mutex
	state domain.CaptureState
	clip  domain.AudioClip
	err   error
	stops int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{state: domain.CaptureStateIdle}
}

func (r *fakeRecorder) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.state == domain.CaptureStateCapturing {
		return errors.New("already capturing")
	}
	r.state = domain.CaptureStateCapturing
	return nil
}

func (r *fakeRecorder) Stop() (domain.AudioClip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
	if r.state == domain.CaptureStateIdle {
		return domain.AudioClip{}, nil
	}
	r.state = domain.CaptureStateIdle
	return r.clip, nil
}

func (r *fakeRecorder) State() domain.CaptureState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
