package gemini

import (
	"encoding/json"

	"google.golang.org/genai"

	"github.com/KirkDiggler/versus-api/internal/entities"
)

const (
	// roleUser is the conversation role of the single message we send
	roleUser = "user"

	responseMIMEType = "application/json"
)

// SystemInstruction tells the model which fields to produce and what they mean
const SystemInstruction = `Compare who would win in a fight,
winner : The winner of the fight
strength_a : The "amount" of strength of the first character in number
strength_b : The "amount" of strength of the second character in number
special_attack_a : Special attack of the first character (can be a single string or a comma-separated list)
special_attack_b : Special attack of the second character (can be a single string or a comma-separated list)
fight_description : A maximum of 100 word paragraph on how the fight is, make it intense and descriptive`

// ResponseSchema returns the strict output schema. Special attacks are declared
// as strings even though decoding also tolerates arrays.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type:             genai.TypeObject,
		Required:         append([]string(nil), entities.FightResultFields...),
		PropertyOrdering: append([]string(nil), entities.FightResultFields...),
		Properties: map[string]*genai.Schema{
			entities.FieldWinner:           {Type: genai.TypeString},
			entities.FieldStrengthA:        {Type: genai.TypeNumber},
			entities.FieldStrengthB:        {Type: genai.TypeNumber},
			entities.FieldSpecialAttackA:   {Type: genai.TypeString},
			entities.FieldSpecialAttackB:   {Type: genai.TypeString},
			entities.FieldFightDescription: {Type: genai.TypeString},
		},
	}
}

// UserMessage serializes the two names as a two-element JSON array
func UserMessage(characterA, characterB string) string {
	// nolint:errcheck // marshaling a []string cannot fail
	names, _ := json.Marshal([]string{characterA, characterB})
	return string(names)
}

// generateRequest is everything passed to GenerateContentStream besides the context
type generateRequest struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func buildRequest(model string, temperature *float32, characterA, characterB string) *generateRequest {
	return &generateRequest{
		model: model,
		contents: []*genai.Content{
			{
				Role:  roleUser,
				Parts: []*genai.Part{{Text: UserMessage(characterA, characterB)}},
			},
		},
		config: &genai.GenerateContentConfig{
			Temperature:      temperature,
			ResponseMIMEType: responseMIMEType,
			ResponseSchema:   ResponseSchema(),
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: SystemInstruction}},
			},
		},
	}
}
