package gemini_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/KirkDiggler/versus-api/internal/clients/gemini"
	"github.com/KirkDiggler/versus-api/internal/entities"
)

func TestResponseSchema(t *testing.T) {
	schema := gemini.ResponseSchema()

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, entities.FightResultFields, schema.Required)
	require.Len(t, schema.Properties, len(entities.FightResultFields))

	wantTypes := map[string]genai.Type{
		entities.FieldWinner:           genai.TypeString,
		entities.FieldStrengthA:        genai.TypeNumber,
		entities.FieldStrengthB:        genai.TypeNumber,
		entities.FieldSpecialAttackA:   genai.TypeString,
		entities.FieldSpecialAttackB:   genai.TypeString,
		entities.FieldFightDescription: genai.TypeString,
	}
	for field, want := range wantTypes {
		require.Contains(t, schema.Properties, field)
		assert.Equal(t, want, schema.Properties[field].Type, field)
	}
}

func TestResponseSchema_DoesNotShareRequiredSlice(t *testing.T) {
	schema := gemini.ResponseSchema()
	schema.Required[0] = "loser"

	assert.Equal(t, entities.FieldWinner, entities.FightResultFields[0])
}

func TestUserMessage(t *testing.T) {
	testCases := []struct {
		name string
		a    string
		b    string
		want string
	}{
		{name: "plain names", a: "Goku", b: "Superman", want: `["Goku","Superman"]`},
		{name: "quotes are escaped", a: `The "Rock"`, b: "Kane", want: `["The \"Rock\"","Kane"]`},
		{name: "backslash and newline", a: `C:\`, b: "line\nbreak", want: `["C:\\","line\nbreak"]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, gemini.UserMessage(tc.a, tc.b))
		})
	}
}
