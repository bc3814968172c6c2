package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sanad-app/sanad-go-api/internal/engine"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	OverviewCacheTTL       time.Duration
	AlertDedupWindow       time.Duration
	PhotoMaxSizeMB         int
	SeedEnabled            bool
	SeedToken              string
	ScoreMaxima            engine.ScoreMaxima
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SANAD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Sanad API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "sanad/students")
	v.SetDefault("overview.cache_ttl", "5m")
	v.SetDefault("alerts.dedup_window", "168h")
	v.SetDefault("photo.max_size_mb", 5)
	v.SetDefault("seed.enabled", false)

	maxima := engine.DefaultScoreMaxima()
	v.SetDefault("scores.exam_max", maxima.Exam)
	v.SetDefault("scores.homework_max", maxima.Homework)
	v.SetDefault("scores.participation_max", maxima.Participation)
	v.SetDefault("scores.class_interaction_max", maxima.ClassInteraction)
	v.SetDefault("scores.project_max", maxima.Project)
	v.SetDefault("scores.practical_max", maxima.Practical)

	ttl, err := time.ParseDuration(v.GetString("overview.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid overview cache ttl: %w", err)
	}

	dedupWindow, err := time.ParseDuration(v.GetString("alerts.dedup_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid alert dedup window: %w", err)
	}
	if dedupWindow <= 0 {
		dedupWindow = 7 * 24 * time.Hour
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		OverviewCacheTTL:       ttl,
		AlertDedupWindow:       dedupWindow,
		PhotoMaxSizeMB:         v.GetInt("photo.max_size_mb"),
		SeedEnabled:            v.GetBool("seed.enabled"),
		SeedToken:              v.GetString("seed.token"),
		ScoreMaxima: engine.ScoreMaxima{
			Exam:             v.GetFloat64("scores.exam_max"),
			Homework:         v.GetFloat64("scores.homework_max"),
			Participation:    v.GetFloat64("scores.participation_max"),
			ClassInteraction: v.GetFloat64("scores.class_interaction_max"),
			Project:          v.GetFloat64("scores.project_max"),
			Practical:        v.GetFloat64("scores.practical_max"),
		},
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.PhotoMaxSizeMB <= 0 {
		cfg.PhotoMaxSizeMB = 5
	}

	return cfg, nil
}
