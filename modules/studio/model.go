// Package studio implements the fashion photo studio: per-session state,
// generation jobs, history and the realtime event fan-out.
package studio

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/catalog"
)

// Guard errors returned by controller operations. Handlers map these to
// HTTP status codes; they never reach the end user verbatim.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoSource        = errors.New("no source image uploaded")
	ErrImageBusy       = errors.New("image generation already in progress")
	ErrVideoBusy       = errors.New("video generation already in progress")
	ErrNoActiveImage   = errors.New("no active generated image")
	ErrItemNotFound    = errors.New("history item not found")
	ErrJobNotFound     = errors.New("job not found")
)

// User-facing failure messages shown in the studio UI.
const (
	MsgImageFailed = "Falha ao gerar imagem. Verifique sua chave de API ou tente uma imagem diferente."
	MsgVideoFailed = "Falha ao gerar vídeo. Certifique-se de que selecionou uma Chave de API válida no diálogo pop-up."
)

// ImageAsset is a raw image payload plus its MIME type.
type ImageAsset struct {
	Data     []byte
	MIMEType string
}

// HistoryItem is one completed generation. Source and Settings are the
// snapshots the generation actually used, so selecting the item later
// restores the exact inputs.
type HistoryItem struct {
	ID        string
	CreatedAt time.Time
	Image     ImageAsset
	Thumbnail []byte
	Video     []byte
	Source    ImageAsset
	Settings  catalog.Settings
}

// JobKind discriminates queued generation work.
type JobKind string

const (
	JobImage JobKind = "image"
	JobVideo JobKind = "video"
)

// Job carries everything a generation needs, captured at request time.
// Later session mutations never affect an in-flight job.
type Job struct {
	ID        string
	SessionID string
	Kind      JobKind

	// image generation
	Source   ImageAsset
	Settings catalog.Settings

	// video generation
	TargetID  string
	ImageData []byte
	Movement  catalog.VideoMovement
}

// HistoryItemView is the JSON shape of a history entry. Full-size image
// and video bytes are fetched through dedicated endpoints; only the WebP
// thumbnail travels inline.
type HistoryItemView struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	HasVideo  bool             `json:"hasVideo"`
	Settings  catalog.Settings `json:"settings"`
	Thumbnail string           `json:"thumbnail,omitempty"`
}

// StateView is the full session snapshot returned by the state endpoint.
type StateView struct {
	Settings        catalog.Settings  `json:"settings"`
	HasSource       bool              `json:"hasSource"`
	GeneratingImage bool              `json:"generatingImage"`
	GeneratingVideo bool              `json:"generatingVideo"`
	ActiveID        string            `json:"activeId,omitempty"`
	LastError       string            `json:"lastError,omitempty"`
	History         []HistoryItemView `json:"history"`
}

func (h *HistoryItem) view() HistoryItemView {
	v := HistoryItemView{
		ID:        h.ID,
		CreatedAt: h.CreatedAt,
		HasVideo:  len(h.Video) > 0,
		Settings:  h.Settings,
	}
	if len(h.Thumbnail) > 0 {
		v.Thumbnail = "data:image/webp;base64," + base64.StdEncoding.EncodeToString(h.Thumbnail)
	}
	return v
}
