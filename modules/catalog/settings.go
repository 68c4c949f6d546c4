package catalog

import (
	"fmt"
	"math/rand"
)

// MaxSeed bounds generation seeds to [0, 2^31).
const MaxSeed = int64(1) << 31

// Settings captures every generation option of one request. Values are
// copied around as snapshots; a snapshot handed to a generation call is
// never mutated afterwards.
type Settings struct {
	Scenario      Scenario      `json:"scenario"`
	ModelType     ModelType     `json:"modelType"`
	Lighting      LightingStyle `json:"lighting"`
	AspectRatio   AspectRatio   `json:"aspectRatio"`
	ClothingView  ClothingView  `json:"clothingView"`
	CustomPrompt  string        `json:"customPrompt"`
	Seed          int32         `json:"seed"`
	PreserveModel bool          `json:"preserveModel"`
}

// DefaultSettings mirrors the studio's initial state.
func DefaultSettings() Settings {
	return Settings{
		Scenario:      ScenarioStudioMinimal,
		ModelType:     ModelFemaleYoung,
		Lighting:      LightingSoftBox,
		AspectRatio:   RatioPortrait,
		ClothingView:  ViewFront,
		CustomPrompt:  "",
		Seed:          rand.Int31n(1000000),
		PreserveModel: false,
	}
}

// Validate checks enum membership. Out-of-catalog values are caller bugs,
// not conditions the studio recovers from.
func (s Settings) Validate() error {
	if !s.Scenario.Valid() {
		return fmt.Errorf("unknown scenario: %q", s.Scenario)
	}
	if !s.ModelType.Valid() {
		return fmt.Errorf("unknown model type: %q", s.ModelType)
	}
	if !s.Lighting.Valid() {
		return fmt.Errorf("unknown lighting style: %q", s.Lighting)
	}
	if !s.AspectRatio.Valid() {
		return fmt.Errorf("unknown aspect ratio: %q", s.AspectRatio)
	}
	if !s.ClothingView.Valid() {
		return fmt.Errorf("unknown clothing view: %q", s.ClothingView)
	}
	if s.Seed < 0 {
		return fmt.Errorf("seed out of range: %d", s.Seed)
	}
	return nil
}
