package generator

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	appErrors "github.com/unclebandit/adcraft/internal/errors"
	"github.com/unclebandit/adcraft/internal/model"
)

// ParseCopy validates the raw model reply against the response schema and only
// then converts it. Nothing is coerced: a missing field, a non-string item or
// the wrong number of variations rejects the whole reply.
func ParseCopy(raw string) (model.GeneratedCopy, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return model.GeneratedCopy{}, appErrors.NewGenerationError(appErrors.ErrEmptyResponse, nil)
	}
	if !gjson.Valid(text) {
		return model.GeneratedCopy{}, malformed(fmt.Errorf("reply is not valid JSON"))
	}
	root := gjson.Parse(text)
	if !root.IsObject() {
		return model.GeneratedCopy{}, malformed(fmt.Errorf("reply is not a JSON object"))
	}

	headlines, err := stringArray(root, fieldHeadlines, model.HeadlineCount)
	if err != nil {
		return model.GeneratedCopy{}, malformed(err)
	}
	descriptions, err := stringArray(root, fieldDescriptions, model.DescriptionCount)
	if err != nil {
		return model.GeneratedCopy{}, malformed(err)
	}
	ctas, err := stringArray(root, fieldCTAs, model.CTACount)
	if err != nil {
		return model.GeneratedCopy{}, malformed(err)
	}

	return model.GeneratedCopy{
		Headlines:    headlines,
		Descriptions: descriptions,
		CTAs:         ctas,
	}, nil
}

func stringArray(root gjson.Result, field string, want int) ([]string, error) {
	value := root.Get(field)
	if !value.Exists() {
		return nil, fmt.Errorf("missing field %q", field)
	}
	if !value.IsArray() {
		return nil, fmt.Errorf("field %q is not an array", field)
	}
	items := value.Array()
	if len(items) != want {
		return nil, fmt.Errorf("field %q has %d items, want %d", field, len(items), want)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, fmt.Errorf("field %q item %d is not a string", field, i)
		}
		out = append(out, item.String())
	}
	return out, nil
}

func malformed(cause error) error {
	return appErrors.NewGenerationError(appErrors.ErrMalformedResponse, cause)
}
