package prompt

import (
	"strings"
	"testing"

	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/catalog"
)

func studioSettings() catalog.Settings {
	return catalog.Settings{
		Scenario:      catalog.ScenarioStudioMinimal,
		ModelType:     catalog.ModelFemaleYoung,
		Lighting:      catalog.LightingSoftBox,
		AspectRatio:   catalog.RatioPortrait,
		ClothingView:  catalog.ViewFront,
		CustomPrompt:  "",
		Seed:          42,
		PreserveModel: true,
	}
}

func TestForImage_Deterministic(t *testing.T) {
	s := studioSettings()

	first := ForImage(s)
	for i := 0; i < 10; i++ {
		if got := ForImage(s); got != first {
			t.Fatalf("ForImage() not byte-stable on iteration %d", i)
		}
	}
}

func TestForImage_SeedNotInText(t *testing.T) {
	s := studioSettings()
	s.Seed = 424242

	if strings.Contains(ForImage(s), "424242") {
		t.Error("seed leaked into prompt text")
	}
}

func TestForImage_FrontPose(t *testing.T) {
	got := ForImage(studioSettings())

	if !strings.Contains(got, PoseFront) {
		t.Error("front prompt missing front pose instruction")
	}
	if strings.Contains(got, PoseBack) {
		t.Error("front prompt contains back pose instruction")
	}
	if !strings.Contains(got, FramingPortrait) {
		t.Error("3:4 prompt missing portrait framing")
	}
	if !strings.Contains(got, string(catalog.ScenarioStudioMinimal)) {
		t.Error("prompt missing scenario")
	}
	if !strings.Contains(got, string(catalog.LightingSoftBox)) {
		t.Error("prompt missing lighting style")
	}
	if !strings.Contains(got, string(catalog.ModelFemaleYoung)) {
		t.Error("prompt missing model type")
	}
	if !strings.Contains(got, Fidelity) {
		t.Error("prompt missing fidelity boilerplate")
	}
}

func TestForImage_BackPose(t *testing.T) {
	s := studioSettings()
	s.ClothingView = catalog.ViewBack

	got := ForImage(s)
	if !strings.Contains(got, PoseBack) {
		t.Error("back prompt missing back pose instruction")
	}
	if strings.Contains(got, PoseFront) {
		t.Error("back prompt contains front pose instruction")
	}
}

func TestForImage_Framing(t *testing.T) {
	tests := []struct {
		ratio   catalog.AspectRatio
		want    string
		exclude []string
	}{
		{catalog.RatioSquare, FramingSquare, []string{FramingPortrait, FramingLandscape}},
		{catalog.RatioPortrait, FramingPortrait, []string{FramingSquare, FramingLandscape}},
		{catalog.RatioLandscape, FramingLandscape, []string{FramingSquare, FramingPortrait}},
	}

	for _, tt := range tests {
		t.Run(string(tt.ratio), func(t *testing.T) {
			s := studioSettings()
			s.AspectRatio = tt.ratio
			got := ForImage(s)

			if !strings.Contains(got, tt.want) {
				t.Errorf("prompt for ratio %s missing its framing sentence", tt.ratio)
			}
			for _, other := range tt.exclude {
				if strings.Contains(got, other) {
					t.Errorf("prompt for ratio %s contains another ratio's framing", tt.ratio)
				}
			}
		})
	}
}

func TestForImage_CustomPrompt(t *testing.T) {
	s := studioSettings()

	base := ForImage(s)
	if strings.Contains(base, "Instruções adicionais") {
		t.Error("empty custom prompt still produced the additional-instructions section")
	}

	s.CustomPrompt = "com óculos escuros"
	got := ForImage(s)
	if !strings.Contains(got, "com óculos escuros") {
		t.Error("custom prompt text missing")
	}
	if !strings.HasPrefix(got, base[:len("Geração")]) {
		t.Error("custom prompt changed the prompt head")
	}
}

func TestForVideo(t *testing.T) {
	for _, opt := range catalog.MovementOptions() {
		if got := ForVideo(opt.Value); got != opt.Prompt {
			t.Errorf("ForVideo(%q) = %q, want %q", opt.Value, got, opt.Prompt)
		}
	}

	if got := ForVideo(""); got != catalog.GenericVideoPrompt {
		t.Errorf("ForVideo(empty) = %q, want generic prompt", got)
	}
}
