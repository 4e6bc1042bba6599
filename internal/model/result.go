// internal/model/result.go
package model

import "time"

const (
	HeadlineCount    = 3
	DescriptionCount = 2
	CTACount         = 2
)

type GeneratedCopy struct {
	Headlines    []string `json:"headlines"`
	Descriptions []string `json:"descriptions"`
	CTAs         []string `json:"ctas"`
}

// CampaignResult is one finished generation. Treat it as read-only once built;
// the form store and the history may share the same value.
type CampaignResult struct {
	ID        string         `json:"id"`
	Timestamp int64          `json:"timestamp"`
	Params    CampaignParams `json:"params"`
	Copy      GeneratedCopy  `json:"copy"`
}

// CreatedAt converts the millisecond timestamp back to a time.
func (r *CampaignResult) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}
