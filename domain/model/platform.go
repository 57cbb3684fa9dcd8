package model

// PlatformInfo describes one supported platform in the static catalog served
// by GET /api/platforms.
type PlatformInfo struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	SupportsMedia      bool   `json:"supports_media"`
	SupportsVideo      bool   `json:"supports_video"`
	SupportsScheduling bool   `json:"supports_scheduling"`
}

// SupportedPlatforms lists the six platform ids in catalog order.
var SupportedPlatforms = []string{"facebook", "instagram", "tiktok", "x", "threads", "youtube"}

// PlatformCatalog is the fixed capability table for the six platforms.
var PlatformCatalog = []PlatformInfo{
	{
		ID:                 "facebook",
		Name:               "Facebook",
		Description:        "Post to a Facebook Page or Profile",
		SupportsMedia:      true,
		SupportsVideo:      true,
		SupportsScheduling: true,
	},
	{
		ID:                 "instagram",
		Name:               "Instagram",
		Description:        "Post to Instagram Feed, Stories, Reels",
		SupportsMedia:      true,
		SupportsVideo:      true,
		SupportsScheduling: true,
	},
	{
		ID:                 "tiktok",
		Name:               "TikTok",
		Description:        "Upload videos to TikTok",
		SupportsMedia:      false,
		SupportsVideo:      true,
		SupportsScheduling: true,
	},
	{
		ID:                 "x",
		Name:               "X (Twitter)",
		Description:        "Post tweets to X",
		SupportsMedia:      true,
		SupportsVideo:      true,
		SupportsScheduling: false,
	},
	{
		ID:                 "threads",
		Name:               "Threads",
		Description:        "Post to Threads",
		SupportsMedia:      true,
		SupportsVideo:      true,
		SupportsScheduling: false,
	},
	{
		ID:                 "youtube",
		Name:               "YouTube",
		Description:        "Upload videos to YouTube",
		SupportsMedia:      false,
		SupportsVideo:      true,
		SupportsScheduling: true,
	},
}
