package bootstrap

import (
	"github.com/Shruti1238/sentiment-frontend/internal/audio"
	"github.com/Shruti1238/sentiment-frontend/internal/config"
	"github.com/Shruti1238/sentiment-frontend/internal/ports"
	"github.com/Shruti1238/sentiment-frontend/internal/preview"
	"github.com/Shruti1238/sentiment-frontend/internal/providers/sentiment"
	"github.com/Shruti1238/sentiment-frontend/internal/storage"
	"github.com/Shruti1238/sentiment-frontend/internal/suggest"
	"github.com/Shruti1238/sentiment-frontend/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller  *usecase.SessionController
	Suggestions *suggest.List
	Previews    *preview.Registry
	Config      config.Config
}

// Build wires all backend dependencies for the current runtime.
func Build(eventSink ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	kv, err := storage.NewFileStore(cfg.Storage.Path)
	if err != nil {
		return Services{}, err
	}

	previews, err := preview.NewRegistry(cfg.Preview.Dir)
	if err != nil {
		return Services{}, err
	}

	store := usecase.NewChatStore(kv)
	coordinator := usecase.NewSubmissionCoordinator(
		sentiment.New(sentiment.Config{BaseURL: cfg.API.BaseURL}),
		store,
		previews,
		eventSink,
	)
	recorder := audio.NewRecorder(
		audio.NewFFMPEGDevice(cfg.Audio.RecorderCommand),
		ports.AudioConfig{
			SampleRate:  cfg.Audio.SampleRate,
			Channels:    cfg.Audio.Channels,
			InputFormat: cfg.Audio.InputFormat,
			InputDevice: cfg.Audio.InputDevice,
		},
		cfg.Audio.ChunkSize,
	)

	controller := usecase.NewSessionController(store, coordinator, recorder, eventSink)

	return Services{
		Controller:  controller,
		Suggestions: suggest.NewList(nil),
		Previews:    previews,
		Config:      cfg,
	}, nil
}
