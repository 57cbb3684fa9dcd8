package configuration

import (
	"fmt"
	"os"
	"strconv"

	"social-poster/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App       App       `json:"app"`
	Facebook  Facebook  `json:"facebook"`
	Instagram Instagram `json:"instagram"`
	TikTok    TikTok    `json:"tiktok"`
	X         X         `json:"x"`
	Threads   Threads   `json:"threads"`
	YouTube   YouTube   `json:"youtube"`
	Upload    Upload    `json:"upload"`
}

type App struct {
	Port    int    `json:"port"`
	Version string `json:"version"`
}

type Facebook struct {
	AccessToken string `json:"accessToken"`
	PageID      string `json:"pageId"`
	AppID       string `json:"appId"`
	AppSecret   string `json:"appSecret"`
}

type Instagram struct {
	AccessToken string `json:"accessToken"`
	AccountID   string `json:"accountId"`
}

type TikTok struct {
	AccessToken  string `json:"accessToken"`
	ClientKey    string `json:"clientKey"`
	ClientSecret string `json:"clientSecret"`
}

type X struct {
	APIKey            string `json:"apiKey"`
	APISecret         string `json:"apiSecret"`
	AccessToken       string `json:"accessToken"`
	AccessTokenSecret string `json:"accessTokenSecret"`
	BearerToken       string `json:"bearerToken"`
}

type Threads struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
}

type YouTube struct {
	AccessToken  string `json:"accessToken"`
	APIKey       string `json:"apiKey"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type Upload struct {
	Dir string `json:"dir"`
}

var C Config

func init() {
	LoadConfig()
	initApp(&C)
	initPlatforms(&C)
}

// Reload re-reads the config file and environment. main calls this after
// loading env files, since the package init runs before they exist in the
// process environment.
func Reload() {
	LoadConfig()
	initApp(&C)
	initPlatforms(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 8000
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 8000
	}
	if C.App.Version == "" {
		C.App.Version = "1.0.0"
	}
	if C.Upload.Dir == "" {
		if v := os.Getenv("UPLOAD_DIR"); v != "" {
			C.Upload.Dir = v
		} else {
			C.Upload.Dir = "uploads"
		}
	}
}

// initPlatforms fills credentials from environment variables. Env always wins
// over the config file so secrets can stay out of it.
func initPlatforms(C *Config) {
	setIfEnv(&C.Facebook.AccessToken, "FACEBOOK_ACCESS_TOKEN")
	setIfEnv(&C.Facebook.PageID, "FACEBOOK_PAGE_ID")
	setIfEnv(&C.Facebook.AppID, "FACEBOOK_APP_ID")
	setIfEnv(&C.Facebook.AppSecret, "FACEBOOK_APP_SECRET")

	setIfEnv(&C.Instagram.AccessToken, "INSTAGRAM_ACCESS_TOKEN")
	setIfEnv(&C.Instagram.AccountID, "INSTAGRAM_ACCOUNT_ID")

	setIfEnv(&C.TikTok.AccessToken, "TIKTOK_ACCESS_TOKEN")
	setIfEnv(&C.TikTok.ClientKey, "TIKTOK_CLIENT_KEY")
	setIfEnv(&C.TikTok.ClientSecret, "TIKTOK_CLIENT_SECRET")

	setIfEnv(&C.X.APIKey, "X_API_KEY")
	setIfEnv(&C.X.APISecret, "X_API_SECRET")
	setIfEnv(&C.X.AccessToken, "X_ACCESS_TOKEN")
	setIfEnv(&C.X.AccessTokenSecret, "X_ACCESS_TOKEN_SECRET")
	setIfEnv(&C.X.BearerToken, "X_BEARER_TOKEN")

	setIfEnv(&C.Threads.AccessToken, "THREADS_ACCESS_TOKEN")
	setIfEnv(&C.Threads.UserID, "THREADS_USER_ID")

	setIfEnv(&C.YouTube.AccessToken, "YOUTUBE_ACCESS_TOKEN")
	setIfEnv(&C.YouTube.APIKey, "YOUTUBE_API_KEY")
	setIfEnv(&C.YouTube.ClientID, "YOUTUBE_CLIENT_ID")
	setIfEnv(&C.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET")
}

func setIfEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// ValidateCredentials reports whether the minimum credential set for a
// platform is configured. The rules differ per platform: X accepts a bearer
// token or an access-token pair, Instagram and Threads need an account/user id
// alongside the token.
func ValidateCredentials(platform string) bool {
	switch platform {
	case "facebook":
		return C.Facebook.AccessToken != ""
	case "instagram":
		return C.Instagram.AccessToken != "" && C.Instagram.AccountID != ""
	case "tiktok":
		return C.TikTok.AccessToken != ""
	case "x":
		return C.X.BearerToken != "" || (C.X.AccessToken != "" && C.X.AccessTokenSecret != "")
	case "threads":
		return C.Threads.AccessToken != "" && C.Threads.UserID != ""
	case "youtube":
		return C.YouTube.AccessToken != ""
	}
	return false
}

// AvailablePlatforms lists the platforms whose credentials are configured.
func AvailablePlatforms() []string {
	all := []string{"facebook", "instagram", "tiktok", "x", "threads", "youtube"}
	available := make([]string, 0, len(all))
	for _, p := range all {
		if ValidateCredentials(p) {
			available = append(available, p)
		}
	}
	return available
}
