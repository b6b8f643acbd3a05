package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"scroll-stitch/internal/domain/entity"
)

type Config struct {
	TelegramToken string
	LogLevel      string

	SampleRate          float64
	MinSampleSize       int
	MaxSampleSize       int
	CornerThreshold     int
	DescriptorPatchSize int
	MinSizeDelta        int
	TryRollback         bool

	ThumbnailSize int
	Dedupe        bool
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	defaults := entity.DefaultOptions(entity.Vertical)
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		SampleRate:          getEnvFloat("STITCH_SAMPLE_RATE", defaults.SampleRate),
		MinSampleSize:       getEnvInt("STITCH_MIN_SAMPLE_SIZE", defaults.MinSampleSize),
		MaxSampleSize:       getEnvInt("STITCH_MAX_SAMPLE_SIZE", defaults.MaxSampleSize),
		CornerThreshold:     getEnvInt("STITCH_CORNER_THRESHOLD", int(defaults.CornerThreshold)),
		DescriptorPatchSize: getEnvInt("STITCH_DESCRIPTOR_PATCH_SIZE", defaults.DescriptorPatchSize),
		MinSizeDelta:        getEnvInt("STITCH_MIN_SIZE_DELTA", defaults.MinSizeDelta),
		TryRollback:         getEnvBool("STITCH_TRY_ROLLBACK", defaults.TryRollback),

		ThumbnailSize: getEnvInt("STITCH_THUMBNAIL_SIZE", 240),
		Dedupe:        getEnvBool("STITCH_DEDUPE", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет диапазоны значений
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.SampleRate < 0.1 || c.SampleRate > 1 {
		return fmt.Errorf("STITCH_SAMPLE_RATE must be in [0.1, 1], got %v", c.SampleRate)
	}
	if c.CornerThreshold < 0 || c.CornerThreshold > 255 {
		return fmt.Errorf("STITCH_CORNER_THRESHOLD must be in [0, 255], got %d", c.CornerThreshold)
	}
	if c.ThumbnailSize < 0 {
		return errors.New("STITCH_THUMBNAIL_SIZE must not be negative")
	}
	if err := c.StitchOptions(entity.Vertical).Validate(); err != nil {
		return fmt.Errorf("stitch config: %w", err)
	}
	return nil
}

// StitchOptions параметры сессии склейки для направления
func (c *Config) StitchOptions(direction entity.ScrollDirection) entity.Options {
	return entity.Options{
		Direction:           direction,
		SampleRate:          c.SampleRate,
		MinSampleSize:       c.MinSampleSize,
		MaxSampleSize:       c.MaxSampleSize,
		CornerThreshold:     uint8(c.CornerThreshold),
		DescriptorPatchSize: c.DescriptorPatchSize,
		MinSizeDelta:        c.MinSizeDelta,
		TryRollback:         c.TryRollback,
	}
}

// SlogLevel уровень логирования; неизвестное значение отсекается в Validate
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return def
}
