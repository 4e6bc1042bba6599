package generator

import "google.golang.org/genai"

const (
	fieldHeadlines    = "headlines"
	fieldDescriptions = "descriptions"
	fieldCTAs         = "ctas"
)

var schemaFields = []struct {
	name        string
	description string
}{
	{fieldHeadlines, "An array of catchy headlines or subject lines optimized for the platform."},
	{fieldDescriptions, "An array of platform-appropriate body text or ad descriptions."},
	{fieldCTAs, "Direct or soft call to action phrases."},
}

// GeminiResponseSchema is the reply schema in genai's typed form.
func GeminiResponseSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(schemaFields))
	required := make([]string, 0, len(schemaFields))
	for _, f := range schemaFields {
		props[f.name] = &genai.Schema{
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: f.description,
		}
		required = append(required, f.name)
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   required,
	}
}

// JSONResponseSchema is the same schema as plain JSON Schema, for
// OpenAI-compatible structured outputs (strict mode needs
// additionalProperties=false).
func JSONResponseSchema() map[string]any {
	props := make(map[string]any, len(schemaFields))
	required := make([]string, 0, len(schemaFields))
	for _, f := range schemaFields {
		props[f.name] = map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": f.description,
		}
		required = append(required, f.name)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}
