package model

// Credentials is the per-platform bag of optional secrets. Which fields are
// required depends on the platform; AdditionalParams carries named extras such
// as page_id or instagram_account_id.
type Credentials struct {
	AccessToken      string            `json:"access_token,omitempty"`
	APIKey           string            `json:"api_key,omitempty"`
	APISecret        string            `json:"api_secret,omitempty"`
	AdditionalParams map[string]string `json:"additional_params,omitempty"`
}

// Param returns a named additional parameter, or "" when absent.
func (c Credentials) Param(name string) string {
	if c.AdditionalParams == nil {
		return ""
	}
	return c.AdditionalParams[name]
}

// AuthResult reports the outcome of a platform authentication attempt.
// Details holds platform-reported identity fields (user id, username, ...)
// and is intentionally not normalized across platforms.
type AuthResult struct {
	Authenticated bool                   `json:"authenticated"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// PostResult is the normalized per-platform outcome of a publish attempt.
// The aggregator guarantees exactly one PostResult per requested platform id,
// in request order.
type PostResult struct {
	Success  bool   `json:"success"`
	Platform string `json:"platform"`
	PostID   string `json:"post_id,omitempty"`
	Message  string `json:"message"`
	Error    string `json:"error,omitempty"`
}
