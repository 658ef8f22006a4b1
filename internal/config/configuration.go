package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type Config struct {
	// WebServer Configuration
	WebServerPort      int      `mapstructure:"WEBSERVER_PORT" validate:"gte=1,lte=65535"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS" validate:"dive,url"`
	RateLimitRPS       float64  `mapstructure:"RATE_LIMIT_RPS" validate:"gte=0"`
	RateLimitBurst     int      `mapstructure:"RATE_LIMIT_BURST" validate:"gte=0"`

	// Storage
	DownloadsDir string `mapstructure:"DOWNLOADS_DIR" validate:"required"`
	CookiesFile  string `mapstructure:"COOKIES_FILE"`

	// Tooling
	YtdlpPath       string `mapstructure:"YTDLP_PATH"`
	FFmpegLocation  string `mapstructure:"FFMPEG_LOCATION"`
	YtdlpAutoUpdate bool   `mapstructure:"YTDLP_AUTO_UPDATE"`

	// Conversion
	AudioQuality      string        `mapstructure:"AUDIO_QUALITY" validate:"required"`
	TitleMaxLength    int           `mapstructure:"TITLE_MAX_LENGTH" validate:"gte=1,lte=250"`
	ConvertTimeout    time.Duration `mapstructure:"CONVERT_TIMEOUT" validate:"gte=0"`
	CoverNormalize    bool          `mapstructure:"COVER_NORMALIZE"`
	CoverMaxDimension int           `mapstructure:"COVER_MAX_DIMENSION" validate:"gte=0"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag != "" {
			viper.BindEnv(tag)
		}

		// Handle nested structs
		if field.Type.Kind() == reflect.Struct && tag == "" {
			nestedTyp := fieldVal.Type()
			for j := 0; j < fieldVal.NumField(); j++ {
				nestedField := nestedTyp.Field(j)
				nestedTag := nestedField.Tag.Get("mapstructure")
				if nestedTag != "" {
					viper.BindEnv(nestedTag)
				}
			}
		}
	}
	slog.Debug("Environment variables bound")
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("WEBSERVER_PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "https://krishanator.com"})
	viper.SetDefault("RATE_LIMIT_RPS", 0)
	viper.SetDefault("RATE_LIMIT_BURST", 0)
	viper.SetDefault("DOWNLOADS_DIR", "~/Downloads")
	viper.SetDefault("COOKIES_FILE", "youtube_cookies.txt")
	viper.SetDefault("YTDLP_AUTO_UPDATE", false)
	viper.SetDefault("AUDIO_QUALITY", "192K")
	viper.SetDefault("TITLE_MAX_LENGTH", 200)
	viper.SetDefault("CONVERT_TIMEOUT", 0)
	viper.SetDefault("COVER_NORMALIZE", true)
	viper.SetDefault("COVER_MAX_DIMENSION", 1200)

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	dir, err := homedir.Expand(cfg.DownloadsDir)
	if err != nil {
		return nil, fmt.Errorf("expand DOWNLOADS_DIR: %w", err)
	}
	cfg.DownloadsDir = dir

	slog.Info("Loaded configuration", "config", cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
