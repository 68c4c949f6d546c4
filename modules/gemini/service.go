// Package gemini wraps the external image and video generation endpoints.
// Everything here is network-boundary code: bytes in, bytes out, no local
// persistence.
package gemini

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/catalog"
	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/common/config"
	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/keys"
	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/prompt"
)

// imageCaller and videoCaller are the narrow genai surfaces the service
// needs; tests substitute fakes, production uses the SDK-backed caller.
type imageCaller interface {
	GenerateContent(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type videoCaller interface {
	GenerateVideos(ctx context.Context, apiKey, model, videoPrompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	GetVideosOperation(ctx context.Context, apiKey string, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

type Service struct {
	keys       keys.Provider
	imageModel string
	videoModel string

	images     imageCaller
	videos     videoCaller
	httpClient *http.Client

	pollInterval    time.Duration
	maxPollAttempts int
	sleep           func(ctx context.Context, d time.Duration) error
}

func NewService(cfg *config.Config, provider keys.Provider) *Service {
	caller := &genaiCaller{}
	return &Service{
		keys:            provider,
		imageModel:      cfg.ImageModel,
		videoModel:      cfg.VideoModel,
		images:          caller,
		videos:          caller,
		httpClient:      &http.Client{Timeout: 120 * time.Second},
		pollInterval:    cfg.VideoPollInterval,
		maxPollAttempts: cfg.VideoPollMaxAttempts,
		sleep:           sleepCtx,
	}
}

// GenerateImage sends the source garment photo plus the built prompt to the
// image model and returns the generated image bytes. The settings snapshot
// is not mutated; the seed travels as a numeric parameter, not prompt text.
func (s *Service) GenerateImage(ctx context.Context, source []byte, mimeType string, settings catalog.Settings) ([]byte, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	imagePrompt := prompt.ForImage(settings)
	log.Printf("🎨 Calling Gemini API (model: %s) with prompt length: %d, aspect-ratio: %s, seed: %d",
		s.imageModel, len(imagePrompt), settings.AspectRatio, settings.Seed)

	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromText(imagePrompt),
			{
				InlineData: &genai.Blob{
					MIMEType: mimeType,
					Data:     source,
				},
			},
		},
	}

	seed := settings.Seed
	genCfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
		Seed:               &seed,
		ImageConfig: &genai.ImageConfig{
			AspectRatio: string(settings.AspectRatio),
		},
	}

	result, err := generateWithRetry(ctx, s.keys.All(), func(ctx context.Context, apiKey string) (*genai.GenerateContentResponse, error) {
		return s.images.GenerateContent(ctx, apiKey, s.imageModel, []*genai.Content{content}, genCfg)
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if len(result.Candidates) == 0 {
		return nil, ErrNoCandidate
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("✅ Received image from Gemini: %d bytes", len(part.InlineData.Data))
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, ErrMalformedResponse
}

// GenerateVideo animates a generated still through the video model:
// acquire a credential, submit the job, poll on a fixed interval until
// done, resolve the video URI and download the bytes. A backend rejection
// of the credential invalidates it so the next attempt re-selects.
func (s *Service) GenerateVideo(ctx context.Context, image []byte, movement catalog.VideoMovement) ([]byte, error) {
	apiKey, err := s.ensureKey(ctx)
	if err != nil {
		return nil, err
	}

	videoPrompt := prompt.ForVideo(movement)
	log.Printf("🎬 Submitting video job (model: %s, movement: %s)", s.videoModel, movement)

	op, err := s.videos.GenerateVideos(ctx, apiKey, s.videoModel, videoPrompt,
		&genai.Image{
			ImageBytes: image,
			MIMEType:   "image/png",
		},
		&genai.GenerateVideosConfig{
			NumberOfVideos: 1,
			Resolution:     "720p",
			// vertical video for fashion/social media
			AspectRatio: "9:16",
		})
	if err != nil {
		return nil, s.videoCallError("submit", err)
	}

	attempts := 0
	for !op.Done {
		attempts++
		if attempts > s.maxPollAttempts {
			return nil, fmt.Errorf("%w: job still pending after %d polls", ErrJobFailed, s.maxPollAttempts)
		}

		if err := s.sleep(ctx, s.pollInterval); err != nil {
			return nil, err
		}

		op, err = s.videos.GetVideosOperation(ctx, apiKey, op)
		if err != nil {
			return nil, s.videoCallError("poll", err)
		}
		log.Printf("⏳ Video job poll %d/%d (done: %v)", attempts, s.maxPollAttempts, op.Done)
	}

	uri := videoURI(op)
	if uri == "" {
		return nil, ErrJobFailed
	}

	data, err := s.downloadVideo(ctx, uri, apiKey)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Video downloaded: %d bytes", len(data))
	return data, nil
}

// ensureKey returns the selected credential, prompting the provider for
// one when nothing is selected yet.
func (s *Service) ensureKey(ctx context.Context) (string, error) {
	if s.keys.HasSelected() {
		key, err := s.keys.Selected()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCredential, err)
		}
		return key, nil
	}

	key, err := s.keys.Select(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCredential, err)
	}
	return key, nil
}

// videoCallError classifies a failure from the video endpoints. A rejected
// credential resets the provider before surfacing.
func (s *Service) videoCallError(stage string, err error) error {
	if isEntityNotFound(err) {
		log.Printf("❌ Video %s rejected the API key, invalidating: %v", stage, err)
		s.keys.Reset()
		return fmt.Errorf("%w: %v", ErrCredential, err)
	}
	return fmt.Errorf("video %s failed: %w", stage, err)
}

func (s *Service) downloadVideo(ctx context.Context, uri, apiKey string) ([]byte, error) {
	sep := "&"
	if !strings.Contains(uri, "?") {
		sep = "?"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri+sep+"key="+apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDownload, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	return data, nil
}

func videoURI(op *genai.GenerateVideosOperation) string {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return ""
	}
	video := op.Response.GeneratedVideos[0].Video
	if video == nil {
		return ""
	}
	return video.URI
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// genaiCaller is the production caller. A fresh client per call keeps key
// rotation trivial, same as the retry helper's usage pattern.
type genaiCaller struct{}

func (genaiCaller) newClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func (c *genaiCaller) GenerateContent(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	client, err := c.newClient(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Genai client: %w", err)
	}
	return client.Models.GenerateContent(ctx, model, contents, cfg)
}

func (c *genaiCaller) GenerateVideos(ctx context.Context, apiKey, model, videoPrompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	client, err := c.newClient(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Genai client: %w", err)
	}
	return client.Models.GenerateVideos(ctx, model, videoPrompt, image, cfg)
}

func (c *genaiCaller) GetVideosOperation(ctx context.Context, apiKey string, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	client, err := c.newClient(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Genai client: %w", err)
	}
	return client.Operations.GetVideosOperation(ctx, op, nil)
}
