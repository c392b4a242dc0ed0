package plant

import (
	"encoding/json"
	"errors"
	"fmt"

	"herbula/api/internal/util"
)

var (
	ErrNoCandidates = errors.New("No candidates from Gemini")
	ErrNoText       = errors.New("gemini: candidate 0 has no text part")
)

// FirstText достаёт candidates[0].content.parts[0].text из сырого ответа.
func FirstText(body []byte) (string, error) {
	var out GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("gemini: bad response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	c := out.Candidates[0]
	if c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0].Text == nil {
		return "", ErrNoText
	}
	return *c.Content.Parts[0].Text, nil
}

// DecodeReply strips an optional code fence from the model text and parses
// the remainder as a JSON object.
func DecodeReply(text string) (Plant, json.RawMessage, error) {
	txt := util.StripCodeFences(text)

	var m map[string]any
	if err := json.Unmarshal([]byte(txt), &m); err != nil {
		return Plant{}, nil, fmt.Errorf("gemini: bad JSON: %w", err)
	}
	if m == nil {
		return Plant{}, nil, errors.New("gemini: bad JSON: expected an object, got null")
	}

	p := Plant{
		Name:           str(m["name"]),
		Description:    str(m["description"]),
		Uses:           str(m["uses"]),
		HealthBenefits: str(m["health_benefits"]),
		ProblemsSolved: str(m["problems_solved"]),
		Category:       ParseCategory(str(m["category"])),
	}
	return p, json.RawMessage(txt), nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
