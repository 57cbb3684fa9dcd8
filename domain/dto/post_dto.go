package dto

// PostRequest is the JSON body of POST /api/post.
type PostRequest struct {
	Text         string   `json:"text" binding:"required"`
	Platforms    []string `json:"platforms" binding:"required,min=1"`
	MediaURLs    []string `json:"media_urls,omitempty"`
	ScheduleTime string   `json:"schedule_time,omitempty"`
}

// SinglePostForm is the form-encoded body of POST /api/post/:platform.
// MediaURLs is a comma-separated list of URLs.
type SinglePostForm struct {
	Text         string `form:"text" binding:"required"`
	MediaURLs    string `form:"media_urls"`
	ScheduleTime string `form:"schedule_time"`
}

// AuthRequest is the JSON body of POST /api/auth/:platform.
type AuthRequest struct {
	Platform         string            `json:"platform"`
	AccessToken      string            `json:"access_token,omitempty"`
	APIKey           string            `json:"api_key,omitempty"`
	APISecret        string            `json:"api_secret,omitempty"`
	AdditionalParams map[string]string `json:"additional_params,omitempty"`
}

// AuthResponse is the success body of POST /api/auth/:platform.
type AuthResponse struct {
	Success  bool                   `json:"success"`
	Platform string                 `json:"platform"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// UploadResponse is the body of POST /api/upload.
type UploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	FilePath string `json:"file_path"`
	FileSize int64  `json:"file_size"`
	Message  string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status             string   `json:"status"`
	Timestamp          string   `json:"timestamp"`
	PlatformsAvailable []string `json:"platforms_available"`
}

// ServiceInfo is the body of GET /.
type ServiceInfo struct {
	Message            string            `json:"message"`
	Version            string            `json:"version"`
	SupportedPlatforms []string          `json:"supported_platforms"`
	Endpoints          map[string]string `json:"endpoints"`
}
