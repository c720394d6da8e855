package gemini

import (
	"bytes"
	"encoding/json"
	"iter"
	"strings"

	"google.golang.org/genai"

	"github.com/KirkDiggler/versus-api/internal/entities"
	"github.com/KirkDiggler/versus-api/internal/errors"
)

// assemble concatenates chunk text in arrival order. It returns the number of
// chunks seen, including on error.
func assemble(stream iter.Seq2[*genai.GenerateContentResponse, error]) (string, int, error) {
	var buf strings.Builder
	chunks := 0
	for resp, err := range stream {
		if err != nil {
			return "", chunks, err
		}
		chunks++
		buf.WriteString(chunkText(resp))
	}
	return buf.String(), chunks, nil
}

// chunkText joins the answer text parts of the first candidate, skipping thoughts
func chunkText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// decodeFightResult parses the assembled text. Every field must be present and non-null.
func decodeFightResult(text string) (*entities.FightResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss,
			"the generation service returned a response that is not a valid JSON object").
			WithMeta("bytes", len(text))
	}

	var missing []string
	for _, name := range entities.FightResultFields {
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.DataLossf("the generation service response is missing %s", strings.Join(missing, ", ")).
			WithMeta("missing_fields", missing)
	}

	var result entities.FightResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss,
			"the generation service response has a field of the wrong type")
	}

	return &result, nil
}
