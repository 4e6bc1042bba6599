// internal/model/campaign.go
package model

// HistoryLimit caps how many past generations are kept.
const HistoryLimit = 20

// HistoryKey is the storage key holding the serialized history.
const HistoryKey = "ad_history"

type Platform string

const (
	PlatformGoogleAds Platform = "Google Ads"
	PlatformFacebook  Platform = "Facebook"
	PlatformInstagram Platform = "Instagram"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformTikTok    Platform = "TikTok"
	PlatformEmail     Platform = "Email"
)

// Platforms in display order.
var Platforms = []Platform{
	PlatformGoogleAds,
	PlatformFacebook,
	PlatformInstagram,
	PlatformLinkedIn,
	PlatformTikTok,
	PlatformEmail,
}

func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if v == p {
			return true
		}
	}
	return false
}

type Tone string

const (
	ToneProfessional Tone = "Professional"
	ToneFriendly     Tone = "Friendly"
	ToneBold         Tone = "Bold"
	TonePlayful      Tone = "Playful"
	ToneLuxury       Tone = "Luxury"
	TonePersuasive   Tone = "Persuasive"
)

var Tones = []Tone{
	ToneProfessional,
	ToneFriendly,
	ToneBold,
	TonePlayful,
	ToneLuxury,
	TonePersuasive,
}

func (t Tone) Valid() bool {
	for _, v := range Tones {
		if v == t {
			return true
		}
	}
	return false
}

type CTAStyle string

const (
	CTASoft   CTAStyle = "Soft"
	CTADirect CTAStyle = "Direct"
	CTAUrgent CTAStyle = "Urgent"
)

var CTAStyles = []CTAStyle{CTASoft, CTADirect, CTAUrgent}

func (c CTAStyle) Valid() bool {
	for _, v := range CTAStyles {
		if v == c {
			return true
		}
	}
	return false
}

// CampaignParams are the user supplied inputs for one generation.
type CampaignParams struct {
	ProductName    string   `json:"productName"`
	Description    string   `json:"description"`
	TargetAudience string   `json:"targetAudience"`
	Platform       Platform `json:"platform"`
	Tone           Tone     `json:"tone"`
	CTAStyle       CTAStyle `json:"ctaStyle"`
	Creativity     float64  `json:"creativity"`
}

// DefaultParams is the state of a fresh form.
func DefaultParams() CampaignParams {
	return CampaignParams{
		Platform:   PlatformFacebook,
		Tone:       ToneProfessional,
		CTAStyle:   CTADirect,
		Creativity: 0.7,
	}
}
