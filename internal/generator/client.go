package generator

import (
	"context"
	"errors"

	appErrors "github.com/unclebandit/adcraft/internal/errors"
	"github.com/unclebandit/adcraft/internal/model"
)

// CopyGenerator is what the form store depends on.
type CopyGenerator interface {
	Generate(ctx context.Context, params model.CampaignParams) (model.GeneratedCopy, error)
}

// Client turns campaign parameters into generated copy with one model call.
// It does not validate params; callers check required fields first.
type Client struct {
	llm LLMClient
}

func NewClient(llm LLMClient) (*Client, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Client{llm: llm}, nil
}

// Generate makes a single attempt. Every failure comes back as a
// *appErrors.GenerationError and no partial copy is ever returned.
func (c *Client) Generate(ctx context.Context, params model.CampaignParams) (model.GeneratedCopy, error) {
	raw, err := c.llm.Complete(ctx, BuildPrompt(params))
	if err != nil {
		return model.GeneratedCopy{}, appErrors.NewGenerationError(appErrors.ErrServiceUnavailable, err)
	}
	return ParseCopy(raw)
}

var _ CopyGenerator = (*Client)(nil)
