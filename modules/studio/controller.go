package studio

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/catalog"
	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/common/imaging"
)

// Generator produces the actual media. The production implementation is
// the gemini service; tests inject fakes.
type Generator interface {
	GenerateImage(ctx context.Context, source []byte, mimeType string, settings catalog.Settings) ([]byte, error)
	GenerateVideo(ctx context.Context, image []byte, movement catalog.VideoMovement) ([]byte, error)
}

// DispatchFunc hands a captured job to the execution path: the Redis
// queue when configured, otherwise a direct goroutine.
type DispatchFunc func(job *Job)

// Controller implements every studio operation on top of the session
// registry. State mutations happen under the session lock; generation
// itself runs outside it.
type Controller struct {
	manager   *SessionManager
	generator Generator
	dispatch  DispatchFunc

	newSeed func() int32
	now     func() time.Time
}

func NewController(manager *SessionManager, generator Generator) *Controller {
	return &Controller{
		manager:   manager,
		generator: generator,
		newSeed:   rand.Int31,
		now:       time.Now,
	}
}

// SetDispatch installs the job execution path. Must be called before any
// generation starts.
func (c *Controller) SetDispatch(dispatch DispatchFunc) {
	c.dispatch = dispatch
}

// Upload stores a new garment photo as the session's source image.
// History is untouched; earlier generations stay selectable.
func (c *Controller) Upload(sessionID string, data []byte, mimeType string) {
	session := c.manager.GetOrCreateSession(sessionID)

	session.mu.Lock()
	session.source = &ImageAsset{Data: data, MIMEType: mimeType}
	session.lastError = ""
	session.touch()
	session.mu.Unlock()

	log.Printf("📤 Session %s uploaded source image: %d bytes (%s)", sessionID, len(data), mimeType)
	session.broadcast(Event{Type: EventStateChanged})
}

// Settings returns the session's current styling settings.
func (c *Controller) Settings(sessionID string) catalog.Settings {
	session := c.manager.GetOrCreateSession(sessionID)
	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.settings
}

// UpdateSettings replaces the styling settings after validation.
func (c *Controller) UpdateSettings(sessionID string, settings catalog.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	session := c.manager.GetOrCreateSession(sessionID)
	session.mu.Lock()
	session.settings = settings
	session.touch()
	session.mu.Unlock()

	session.broadcast(Event{Type: EventStateChanged})
	return nil
}

// StartImage captures the current source and settings and dispatches an
// image generation job. The seed is resolved here: kept when the model is
// locked, replaced with a fresh random one otherwise, and in both cases
// the value used is persisted back into the session settings.
func (c *Controller) StartImage(sessionID string) (string, error) {
	session := c.manager.GetOrCreateSession(sessionID)

	session.mu.Lock()
	if session.source == nil {
		session.mu.Unlock()
		return "", ErrNoSource
	}
	if session.generatingImage {
		session.mu.Unlock()
		return "", ErrImageBusy
	}

	if !session.settings.PreserveModel {
		session.settings.Seed = c.newSeed()
	}

	job := &Job{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Kind:      JobImage,
		Source:    *session.source,
		Settings:  session.settings,
	}
	session.generatingImage = true
	session.lastError = ""
	session.jobs[job.ID] = job
	session.touch()
	session.mu.Unlock()

	log.Printf("🎯 Session %s queued image job %s (seed: %d)", sessionID, job.ID, job.Settings.Seed)
	session.broadcast(Event{Type: EventGenerationStarted, JobID: job.ID, Kind: string(JobImage)})
	c.dispatch(job)
	return job.ID, nil
}

// StartVideo dispatches a video job for the currently selected history
// item. The target is captured now: the result lands on that item even if
// the user selects a different one while the job runs.
func (c *Controller) StartVideo(sessionID string, movement catalog.VideoMovement) (string, error) {
	session := c.manager.GetOrCreateSession(sessionID)

	session.mu.Lock()
	if session.generatingVideo {
		session.mu.Unlock()
		return "", ErrVideoBusy
	}
	item := session.findItem(session.activeID)
	if item == nil || len(item.Image.Data) == 0 {
		session.mu.Unlock()
		return "", ErrNoActiveImage
	}

	job := &Job{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Kind:      JobVideo,
		TargetID:  item.ID,
		ImageData: item.Image.Data,
		Movement:  movement,
	}
	session.generatingVideo = true
	session.lastError = ""
	session.jobs[job.ID] = job
	session.touch()
	session.mu.Unlock()

	log.Printf("🎯 Session %s queued video job %s (target: %s, movement: %s)", sessionID, job.ID, job.TargetID, movement)
	session.broadcast(Event{Type: EventGenerationStarted, JobID: job.ID, Kind: string(JobVideo)})
	c.dispatch(job)
	return job.ID, nil
}

// ResolveJob looks a pending job up by session and job ID. Used by the
// queue worker, which only receives IDs over the wire.
func (c *Controller) ResolveJob(sessionID, jobID string) (*Job, error) {
	session, exists := c.manager.GetSession(sessionID)
	if !exists {
		return nil, ErrSessionNotFound
	}

	session.mu.RLock()
	defer session.mu.RUnlock()
	job, ok := session.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// ProcessJob runs a captured job to completion and applies the result to
// the session.
func (c *Controller) ProcessJob(ctx context.Context, job *Job) {
	switch job.Kind {
	case JobImage:
		c.processImageJob(ctx, job)
	case JobVideo:
		c.processVideoJob(ctx, job)
	default:
		log.Printf("⚠️ Unknown job kind %q for job %s", job.Kind, job.ID)
	}
}

func (c *Controller) processImageJob(ctx context.Context, job *Job) {
	data, err := c.generator.GenerateImage(ctx, job.Source.Data, job.Source.MIMEType, job.Settings)

	session, exists := c.manager.GetSession(job.SessionID)
	if !exists {
		log.Printf("⚠️ Session %s gone before image job %s finished", job.SessionID, job.ID)
		return
	}

	if err != nil {
		log.Printf("❌ Image job %s failed: %v", job.ID, err)
		session.mu.Lock()
		session.generatingImage = false
		session.lastError = MsgImageFailed
		delete(session.jobs, job.ID)
		session.mu.Unlock()
		session.broadcast(Event{Type: EventGenerationError, JobID: job.ID, Kind: string(JobImage), Error: MsgImageFailed})
		return
	}

	thumbnail, thumbErr := imaging.Thumbnail(data)
	if thumbErr != nil {
		log.Printf("⚠️ Thumbnail failed for job %s: %v", job.ID, thumbErr)
	}

	item := &HistoryItem{
		ID:        uuid.NewString(),
		CreatedAt: c.now(),
		Image:     ImageAsset{Data: data, MIMEType: "image/png"},
		Thumbnail: thumbnail,
		Source:    job.Source,
		Settings:  job.Settings,
	}

	session.mu.Lock()
	session.history = append([]*HistoryItem{item}, session.history...)
	session.activeID = item.ID
	session.generatingImage = false
	delete(session.jobs, job.ID)
	session.touch()
	session.mu.Unlock()

	c.manager.countImage()
	log.Printf("✅ Image job %s done for session %s (item: %s)", job.ID, job.SessionID, item.ID)
	session.broadcast(Event{Type: EventHistoryUpdated, JobID: job.ID, ItemID: item.ID})
}

func (c *Controller) processVideoJob(ctx context.Context, job *Job) {
	data, err := c.generator.GenerateVideo(ctx, job.ImageData, job.Movement)

	session, exists := c.manager.GetSession(job.SessionID)
	if !exists {
		log.Printf("⚠️ Session %s gone before video job %s finished", job.SessionID, job.ID)
		return
	}

	if err != nil {
		log.Printf("❌ Video job %s failed: %v", job.ID, err)
		session.mu.Lock()
		session.generatingVideo = false
		session.lastError = MsgVideoFailed
		delete(session.jobs, job.ID)
		session.mu.Unlock()
		session.broadcast(Event{Type: EventGenerationError, JobID: job.ID, Kind: string(JobVideo), Error: MsgVideoFailed})
		return
	}

	session.mu.Lock()
	target := session.findItem(job.TargetID)
	if target != nil {
		target.Video = data
	}
	session.generatingVideo = false
	delete(session.jobs, job.ID)
	session.touch()
	session.mu.Unlock()

	if target == nil {
		log.Printf("⚠️ History item %s gone before video job %s finished", job.TargetID, job.ID)
		return
	}

	c.manager.countVideo()
	log.Printf("✅ Video job %s done for session %s (item: %s, %d bytes)", job.ID, job.SessionID, job.TargetID, len(data))
	session.broadcast(Event{Type: EventVideoReady, JobID: job.ID, ItemID: job.TargetID})
}

// Select makes a history item active again and restores the settings and
// source image it was generated from. No generation is triggered.
func (c *Controller) Select(sessionID, itemID string) error {
	session, exists := c.manager.GetSession(sessionID)
	if !exists {
		return ErrSessionNotFound
	}

	session.mu.Lock()
	item := session.findItem(itemID)
	if item == nil {
		session.mu.Unlock()
		return ErrItemNotFound
	}

	session.activeID = item.ID
	session.settings = item.Settings
	source := item.Source
	session.source = &source
	session.touch()
	seed := item.Settings.Seed
	session.mu.Unlock()

	log.Printf("🔄 Session %s selected history item %s (seed: %d)", sessionID, itemID, seed)
	session.broadcast(Event{Type: EventStateChanged, ItemID: itemID})
	return nil
}

// DismissError clears the last failure message.
func (c *Controller) DismissError(sessionID string) {
	session, exists := c.manager.GetSession(sessionID)
	if !exists {
		return
	}

	session.mu.Lock()
	session.lastError = ""
	session.mu.Unlock()

	session.broadcast(Event{Type: EventStateChanged})
}

// State returns the full session snapshot, history most-recent-first.
func (c *Controller) State(sessionID string) StateView {
	session := c.manager.GetOrCreateSession(sessionID)

	session.mu.RLock()
	defer session.mu.RUnlock()

	views := make([]HistoryItemView, 0, len(session.history))
	for _, item := range session.history {
		views = append(views, item.view())
	}

	return StateView{
		Settings:        session.settings,
		HasSource:       session.source != nil,
		GeneratingImage: session.generatingImage,
		GeneratingVideo: session.generatingVideo,
		ActiveID:        session.activeID,
		LastError:       session.lastError,
		History:         views,
	}
}

// History returns the history views without the rest of the state.
func (c *Controller) History(sessionID string) []HistoryItemView {
	return c.State(sessionID).History
}

// Item returns a copy of a history item's assets for download endpoints.
func (c *Controller) Item(sessionID, itemID string) (*HistoryItem, error) {
	session, exists := c.manager.GetSession(sessionID)
	if !exists {
		return nil, ErrSessionNotFound
	}

	session.mu.RLock()
	defer session.mu.RUnlock()

	item := session.findItem(itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

// ActiveItem returns the currently selected history item.
func (c *Controller) ActiveItem(sessionID string) (*HistoryItem, error) {
	session, exists := c.manager.GetSession(sessionID)
	if !exists {
		return nil, ErrSessionNotFound
	}

	session.mu.RLock()
	activeID := session.activeID
	session.mu.RUnlock()

	if activeID == "" {
		return nil, ErrNoActiveImage
	}
	return c.Item(sessionID, activeID)
}

// findItem requires the session lock to be held.
func (s *Session) findItem(itemID string) *HistoryItem {
	if itemID == "" {
		return nil
	}
	for _, item := range s.history {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}
