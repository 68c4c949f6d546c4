// Package catalog defines the closed option sets of the fashion studio and
// their display labels. Every enum value doubles as the English phrase
// embedded into generation prompts.
package catalog

type Scenario string

const (
	ScenarioStudioMinimal       Scenario = "Minimalist Studio"
	ScenarioClassicRunway       Scenario = "Fashion Show Runway"
	ScenarioUrbanStreet         Scenario = "Urban Streetwear"
	ScenarioEuropeanStreet      Scenario = "Historic European Street"
	ScenarioLuxuryInterior      Scenario = "Luxury Penthouse"
	ScenarioModernGym           Scenario = "Modern High-End Gym"
	ScenarioCrossfitBox         Scenario = "Gritty Crossfit Box"
	ScenarioBoxingRing          Scenario = "Editorial Boxing Ring"
	ScenarioLockerRoom          Scenario = "Sports Locker Room"
	ScenarioIndustrialWarehouse Scenario = "Industrial Warehouse"
	ScenarioNatureBeach         Scenario = "Golden Hour Beach"
	ScenarioDesertDunes         Scenario = "Desert Dunes"
	ScenarioNatureForest        Scenario = "Misty Forest"
	ScenarioSnowMountain        Scenario = "Snowy Mountain"
	ScenarioRooftopCity         Scenario = "Urban Rooftop"
	ScenarioBasketballCourt     Scenario = "Urban Basketball Court"
	ScenarioSkatePark           Scenario = "Concrete Skate Park"
	ScenarioSubwayStation       Scenario = "Underground Subway Station"
	ScenarioNeonCyberpunk       Scenario = "Neon Cyberpunk"
	ScenarioAbstractArt         Scenario = "Abstract Art Installation"
)

type ModelType string

const (
	ModelFemaleYoung  ModelType = "Young Female Adult"
	ModelMaleYoung    ModelType = "Young Male Adult"
	ModelFemaleMature ModelType = "Mature Female"
	ModelMaleMature   ModelType = "Mature Male"
	ModelDiverseGroup ModelType = "Group of Diverse Models"
	ModelMannequin    ModelType = "Ghost Mannequin"
)

type LightingStyle string

const (
	LightingSoftBox         LightingStyle = "Soft Box Studio Lighting"
	LightingStudioHighKey   LightingStyle = "Bright High Key Studio"
	LightingStudioLowKey    LightingStyle = "Moody Low Key Studio"
	LightingNaturalSunlight LightingStyle = "Natural Sunlight"
	LightingGoldenHour      LightingStyle = "Golden Hour Sunset"
	LightingHardFlash       LightingStyle = "High Contrast Flash"
	LightingRembrandt       LightingStyle = "Classic Rembrandt Portrait"
	LightingDramaticRim     LightingStyle = "Dramatic Rim Lighting"
	LightingNeonGel         LightingStyle = "Colored Neon Gel"
	LightingCinematic       LightingStyle = "Cinematic Color Grading"
)

type AspectRatio string

const (
	RatioSquare    AspectRatio = "1:1"
	RatioPortrait  AspectRatio = "3:4"
	RatioLandscape AspectRatio = "16:9"
)

type ClothingView string

const (
	ViewFront ClothingView = "Front View"
	ViewBack  ClothingView = "Back View"
)

type VideoMovement string

const (
	MovementSlowTurn   VideoMovement = "Slow 360 Turn"
	MovementWalking    VideoMovement = "Catwalk Forward"
	MovementBreeze     VideoMovement = "Fabric in Wind"
	MovementPoseShift  VideoMovement = "Subtle Pose Shift"
	MovementDetailZoom VideoMovement = "Slow Zoom In"
)

// Option pairs an enum value with its display label.
type Option[T ~string] struct {
	Value T      `json:"value"`
	Label string `json:"label"`
}

// MovementOption additionally carries the motion prompt sent to the video
// model verbatim.
type MovementOption struct {
	Value  VideoMovement `json:"value"`
	Label  string        `json:"label"`
	Prompt string        `json:"-"`
}

var scenarioOptions = []Option[Scenario]{
	{ScenarioStudioMinimal, "Estúdio: Minimalista Branco"},
	{ScenarioClassicRunway, "Estúdio: Passarela de Desfile"},
	{ScenarioUrbanStreet, "Externo: Rua Urbana"},
	{ScenarioEuropeanStreet, "Externo: Rua Histórica Europeia"},
	{ScenarioLuxuryInterior, "Interno: Luxo"},
	{ScenarioModernGym, "Interno: Academia Moderna"},
	{ScenarioCrossfitBox, "Interno: Box de Crossfit (Gritty)"},
	{ScenarioBoxingRing, "Interno: Ringue de Boxe (Editorial)"},
	{ScenarioLockerRoom, "Interno: Vestiário Esportivo"},
	{ScenarioIndustrialWarehouse, "Interno: Galpão Industrial"},
	{ScenarioNatureBeach, "Externo: Praia (Golden Hour)"},
	{ScenarioDesertDunes, "Externo: Dunas do Deserto"},
	{ScenarioNatureForest, "Externo: Floresta"},
	{ScenarioSnowMountain, "Externo: Neve / Montanha"},
	{ScenarioRooftopCity, "Externo: Terraço Urbano (Rooftop)"},
	{ScenarioBasketballCourt, "Externo: Quadra de Basquete Urbana"},
	{ScenarioSkatePark, "Externo: Pista de Skate de Concreto"},
	{ScenarioSubwayStation, "Urbano: Estação de Metrô Subterrânea"},
	{ScenarioNeonCyberpunk, "Criativo: Noite Neon"},
	{ScenarioAbstractArt, "Criativo: Arte Abstrata"},
}

var modelOptions = []Option[ModelType]{
	{ModelFemaleYoung, "Modelo Feminina"},
	{ModelMaleYoung, "Modelo Masculino"},
	{ModelFemaleMature, "Modelo Feminina Madura"},
	{ModelMaleMature, "Modelo Masculino Maduro"},
	{ModelDiverseGroup, "Grupo de Modelos"},
	{ModelMannequin, "Manequim Invisível (Ghost)"},
}

var lightingOptions = []Option[LightingStyle]{
	{LightingSoftBox, "Estúdio Suave (Soft Box)"},
	{LightingStudioHighKey, "Estúdio High Key (Brilhante/Clean)"},
	{LightingStudioLowKey, "Estúdio Low Key (Sombrio/Moody)"},
	{LightingNaturalSunlight, "Luz Natural do Dia"},
	{LightingGoldenHour, "Golden Hour (Pôr do Sol)"},
	{LightingHardFlash, "Flash de Alto Contraste"},
	{LightingRembrandt, "Clássico Rembrandt (Retrato)"},
	{LightingDramaticRim, "Dramático (Luz de Borda)"},
	{LightingNeonGel, "Neon / Gel Colorido (Criativo)"},
	{LightingCinematic, "Cinematográfico"},
}

var ratioOptions = []Option[AspectRatio]{
	{RatioSquare, "Quadrado (1:1) - Instagram"},
	{RatioPortrait, "Retrato (3:4) - Lookbook"},
	{RatioLandscape, "Paisagem (16:9) - Banner Web"},
}

var viewOptions = []Option[ClothingView]{
	{ViewFront, "Frente da Peça"},
	{ViewBack, "Costas da Peça"},
}

var movementOptions = []MovementOption{
	{
		Value:  MovementSlowTurn,
		Label:  "Giro Lento (360°)",
		Prompt: "Cinematic fashion video. The model slowly turns 360 degrees to showcase the outfit from all angles. Smooth motion, professional studio lighting.",
	},
	{
		Value:  MovementWalking,
		Label:  "Caminhada (Catwalk)",
		Prompt: "Cinematic fashion video. The model walks confidently towards the camera like on a runway. Elegant stride, fabric moving naturally, high fashion attitude.",
	},
	{
		Value:  MovementBreeze,
		Label:  "Brisa no Tecido",
		Prompt: "Cinematic fashion video. The model stands still while a gentle wind blows the fabric of the clothing. Focus on the texture and movement of the material. Soft, ethereal vibe.",
	},
	{
		Value:  MovementPoseShift,
		Label:  "Mudança de Pose (Editorial)",
		Prompt: "Cinematic fashion video. The model subtly shifts between two elegant poses. Editorial style, slow and controlled movement, intense gaze.",
	},
	{
		Value:  MovementDetailZoom,
		Label:  "Zoom de Detalhe",
		Prompt: "Cinematic fashion video. The camera slowly zooms in on the details of the clothing. High fidelity, showcasing fabric texture and design elements.",
	},
}

// GenericVideoPrompt is used when a movement has no catalog entry.
const GenericVideoPrompt = "Fashion cinematic video"

func ScenarioOptions() []Option[Scenario]      { return scenarioOptions }
func ModelOptions() []Option[ModelType]        { return modelOptions }
func LightingOptions() []Option[LightingStyle] { return lightingOptions }
func RatioOptions() []Option[AspectRatio]      { return ratioOptions }
func ViewOptions() []Option[ClothingView]      { return viewOptions }
func MovementOptions() []MovementOption        { return movementOptions }

// MovementPrompt returns the fixed motion description for a movement, or
// the generic fallback for values outside the catalog.
func MovementPrompt(m VideoMovement) string {
	for _, opt := range movementOptions {
		if opt.Value == m {
			return opt.Prompt
		}
	}
	return GenericVideoPrompt
}

func (s Scenario) Valid() bool {
	for _, opt := range scenarioOptions {
		if opt.Value == s {
			return true
		}
	}
	return false
}

func (m ModelType) Valid() bool {
	for _, opt := range modelOptions {
		if opt.Value == m {
			return true
		}
	}
	return false
}

func (l LightingStyle) Valid() bool {
	for _, opt := range lightingOptions {
		if opt.Value == l {
			return true
		}
	}
	return false
}

func (r AspectRatio) Valid() bool {
	return r == RatioSquare || r == RatioPortrait || r == RatioLandscape
}

func (v ClothingView) Valid() bool {
	return v == ViewFront || v == ViewBack
}

func (m VideoMovement) Valid() bool {
	for _, opt := range movementOptions {
		if opt.Value == m {
			return true
		}
	}
	return false
}
