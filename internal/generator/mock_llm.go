package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

var promptName = regexp.MustCompile(`(?m)^Name: (.*)$`)

// MockLLM returns canned copy built from the prompt, without calling any
// external model. Useful for local runs.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	name := "your product"
	if match := promptName.FindStringSubmatch(prompt.Text); len(match) == 2 && match[1] != "" {
		name = match[1]
	}
	body, err := json.Marshal(map[string][]string{
		fieldHeadlines: {
			fmt.Sprintf("Meet %s", name),
			fmt.Sprintf("%s, made for you", name),
			fmt.Sprintf("Why everyone talks about %s", name),
		},
		fieldDescriptions: {
			fmt.Sprintf("%s helps you get more done with less effort.", name),
			fmt.Sprintf("Join the people who already switched to %s.", name),
		},
		fieldCTAs: {"Try it free", "Learn more"},
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}
