package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/Shruti1238/sentiment-frontend/internal/domain"
)

// Config controls the classification service client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to the multimodal sentiment classification service: one POST
// per submission, URL-encoded for text and multipart for files.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = "http://localhost:8000"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// Submissions run to completion; no client-side timeout ceiling.
		httpClient = &http.Client{}
	}
	return &Client{baseURL: base, http: httpClient}
}

// SubmitText classifies a raw text snippet.
func (c *Client) SubmitText(ctx context.Context, text string) (domain.Classification, error) {
	form := url.Values{}
	form.Set("text", text)
	body := strings.NewReader(form.Encode())
	return c.post(ctx, "/submit-text/", "application/x-www-form-urlencoded", body)
}

// SubmitImage classifies an image file.
func (c *Client) SubmitImage(ctx context.Context, file domain.FileRef) (domain.Classification, error) {
	return c.postFile(ctx, "/submit-image/", file)
}

// SubmitAudio classifies an audio file or recording.
func (c *Client) SubmitAudio(ctx context.Context, file domain.FileRef) (domain.Classification, error) {
	return c.postFile(ctx, "/submit-audio/", file)
}

func (c *Client) postFile(ctx context.Context, path string, file domain.FileRef) (domain.Classification, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	if file.MimeType != "" {
		header.Set("Content-Type", file.MimeType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return domain.Classification{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return domain.Classification{}, fmt.Errorf("failed to build multipart body: %w", err)
	}

	return c.post(ctx, path, writer.FormDataContentType(), &body)
}

func (c *Client) post(ctx context.Context, path string, contentType string, body io.Reader) (domain.Classification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Classification{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Classification{}, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	var payload struct {
		Label           string  `json:"label"`
		Score           float64 `json:"score"`
		Text            string  `json:"text"`
		ExtractedText   string  `json:"extracted_text"`
		TranscribedText string  `json:"transcribed_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Classification{}, fmt.Errorf("malformed classification response: %w", err)
	}

	return domain.Classification{
		Label:           domain.NormalizeLabel(payload.Label),
		Score:           clampScore(payload.Score),
		Text:            payload.Text,
		ExtractedText:   payload.ExtractedText,
		TranscribedText: payload.TranscribedText,
	}, nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
