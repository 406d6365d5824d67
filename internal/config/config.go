package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, the OCR engine, the moderation
// classifier and the per-run pipeline behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// OCR contains the fixed recognition settings applied to every image
	OCR struct {
		// Language is the Tesseract language model used for recognition
		Language string `env:"OCR_LANGUAGE" env-default:"eng" yaml:"language"`
		// PageSegMode is the Tesseract page segmentation mode
		PageSegMode int `env:"OCR_PAGE_SEG_MODE" env-default:"6" yaml:"pageSegMode"`
		// Whitelist restricts recognition to this character set; empty keeps the engine default
		Whitelist string `env:"OCR_WHITELIST" env-default:"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz " yaml:"whitelist"` //nolint: lll
	} `yaml:"ocr"`

	// Classifier contains all moderation classifier related configurations
	Classifier struct {
		// APIKey authenticates against the chat completion provider
		APIKey string `env:"CLASSIFIER_API_KEY" yaml:"apiKey"`
		// BaseURL overrides the provider endpoint; empty uses the official OpenAI API
		BaseURL string `env:"CLASSIFIER_BASE_URL" yaml:"baseURL"`
		// Model is the model name sent with every classification request
		Model string `env:"CLASSIFIER_MODEL" env-default:"gpt-4o-mini" yaml:"model"`
		// MaxTokens caps the completion length; the verdict is a single token
		MaxTokens int `env:"CLASSIFIER_MAX_TOKENS" env-default:"8" yaml:"maxTokens"`
		// BackoffDelay is the single wait applied after a failed classification call
		BackoffDelay time.Duration `env:"CLASSIFIER_BACKOFF_DELAY" env-default:"15s" yaml:"backoffDelay"`
		// FailClosed flips the degraded verdict on classifier failure from
		// "assume safe" to "assume flagged" (quarantine-on-uncertainty)
		FailClosed bool `env:"CLASSIFIER_FAIL_CLOSED" env-default:"false" yaml:"failClosed"`
	} `yaml:"classifier"`

	// Pipeline contains the per-run orchestration settings
	Pipeline struct {
		// QuarantineDir is the name of the quarantine subdirectory created under the scan root
		QuarantineDir string `env:"PIPELINE_QUARANTINE_DIR" env-default:"dacy" yaml:"quarantineDir"`
		// CropFraction is the kept height fraction for landscape/square images
		CropFraction float64 `env:"PIPELINE_CROP_FRACTION" env-default:"0.7" yaml:"cropFraction"`
		// MaxAspect is the width/height ratio beyond which an image is deleted
		// instead of cropped
		MaxAspect float64 `env:"PIPELINE_MAX_ASPECT" env-default:"4.0" yaml:"maxAspect"`
		// TextPreviewLen limits the extracted-text preview printed per file
		TextPreviewLen int `env:"PIPELINE_TEXT_PREVIEW_LEN" env-default:"80" yaml:"textPreviewLen"`
	} `yaml:"pipeline"`
}

// Load receives the path for yaml config file and returns a filled Config
// struct. A missing config file is not an error; values then come from the
// environment and the declared defaults.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from environment: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
