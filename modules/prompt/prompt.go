// Package prompt derives the instruction strings sent to the generation
// models. Building is pure: the same settings snapshot always yields a
// byte-identical prompt. The seed is NOT part of the text, it travels as a
// numeric generation parameter.
package prompt

import (
	"fmt"
	"strings"

	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/catalog"
)

// Pose instructions are mutually exclusive: the back text never appears in
// a front prompt and vice versa.
const (
	PoseFront = "O modelo deve estar de frente ou em uma pose de meio perfil que valorize a frente da roupa, com a estampa aparecendo no peito."

	PoseBack = "IMPORTANTE: A imagem de entrada mostra as COSTAS (parte traseira) da roupa. O modelo DEVE ser gerado virado DE COSTAS para a câmera para exibir corretamente o design da imagem de entrada nas costas. O rosto do modelo não deve estar visível ou deve estar de perfil virando para trás."
)

// One fixed framing sentence per aspect ratio.
const (
	FramingSquare    = "Composição quadrada centralizada, pronta para redes sociais, com o modelo no centro do quadro."
	FramingPortrait  = "Enquadramento editorial vertical de corpo inteiro ou três quartos, valorizando o caimento da peça."
	FramingLandscape = "Enquadramento cinematográfico amplo em paisagem, com espaço negativo ao redor do modelo."
)

// Fidelity boilerplate appended to every image prompt.
const Fidelity = "FIDELIDADE DA PEÇA: Preserve EXATAMENTE a estampa, o texto e as cores originais da roupa. " +
	"Apenas deformações consistentes com a pose do corpo e as dobras naturais do tecido são permitidas."

// ForImage composes the full instruction string for one image generation.
// Section order is fixed: subject, pose, scenario, lighting, framing,
// technical details, fidelity, critical rules, then the optional user text.
func ForImage(s catalog.Settings) string {
	pose := PoseFront
	if s.ClothingView == catalog.ViewBack {
		pose = PoseBack
	}

	var b strings.Builder
	b.WriteString("Geração de fotografia de moda profissional.\n")
	fmt.Fprintf(&b, "Assunto principal: Um(a) %s profissional vestindo EXATAMENTE a peça de roupa mostrada na imagem de entrada.\n\n", s.ModelType)

	fmt.Fprintf(&b, "INSTRUÇÃO DE POSE: %s\n\n", pose)

	fmt.Fprintf(&b, "Ambiente/Cenário: %s.\n", s.Scenario)
	fmt.Fprintf(&b, "Iluminação/Clima: %s.\n", s.Lighting)
	fmt.Fprintf(&b, "ENQUADRAMENTO: %s\n", framingFor(s.AspectRatio))
	b.WriteString("Detalhes técnicos: Estilo editorial de alta moda, fotorrealista, resolução 8k, textura do tecido incrivelmente detalhada.\n\n")

	b.WriteString(Fidelity)
	b.WriteString("\n\n")

	b.WriteString("REGRAS CRÍTICAS:\n")
	b.WriteString("1. Garanta que a roupa da imagem de entrada seja o ponto focal e se adapte naturalmente ao corpo do modelo.\n")
	b.WriteString("2. Mantenha as cores, estampas e texturas originais da roupa.\n")
	b.WriteString("3. Se a instrução de pose for DE COSTAS, não gere o modelo de frente.\n")

	if s.CustomPrompt != "" {
		fmt.Fprintf(&b, "\nInstruções adicionais do usuário: %s\n", s.CustomPrompt)
	}

	return b.String()
}

// ForVideo returns the fixed motion description of a movement, falling back
// to the generic fashion-video prompt for unknown values.
func ForVideo(m catalog.VideoMovement) string {
	return catalog.MovementPrompt(m)
}

func framingFor(r catalog.AspectRatio) string {
	switch r {
	case catalog.RatioSquare:
		return FramingSquare
	case catalog.RatioLandscape:
		return FramingLandscape
	default:
		return FramingPortrait
	}
}
