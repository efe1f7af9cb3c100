package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, record markers, text decoding,
// vCard output and the files produced next to the cleaned output.
type Config struct {
	// Environment specifies the current running environment (development, production, test)
	Environment string `env:"ENVIRONMENT" env-default:"development" validate:"oneof=development production test" yaml:"environment"` //nolint: lll

	// Markers delimit a record in the sanitized text
	Markers struct {
		// Begin opens a record, matched as a case-sensitive prefix of a trimmed line
		Begin string `env:"MARKERS_BEGIN" env-default:"BEGIN:VCARD" validate:"required" yaml:"begin"`
		// End closes a record
		End string `env:"MARKERS_END" env-default:"END:VCARD" validate:"required,nefield=Begin" yaml:"end"`
	} `yaml:"markers"`

	Encoding struct {
		// Fallback is used when the input encoding cannot be detected
		Fallback string `env:"ENCODING_FALLBACK" env-default:"UTF-8" validate:"required" yaml:"fallback"`
		// Charset skips detection and decodes the input with this encoding
		Charset string `env:"ENCODING_CHARSET" yaml:"charset"`
	} `yaml:"encoding"`

	VCard struct {
		// DefaultVersion is written for records without a VERSION property.
		// Empty makes such records fail serialization.
		DefaultVersion string `env:"VCARD_DEFAULT_VERSION" env-default:"3.0" yaml:"defaultVersion"`
	} `yaml:"vcard"`

	Report struct {
		// Path of the text explanation report
		Path string `env:"REPORT_PATH" env-default:"invalid_explanations.txt" validate:"required" yaml:"path"`
		// XLSXPath enables the spreadsheet report when set
		XLSXPath string `env:"REPORT_XLSX_PATH" yaml:"xlsxPath"`
	} `yaml:"report"`

	// Artifacts controls the intermediate normalized and sanitized copies of the input
	Artifacts struct {
		Persist bool `env:"ARTIFACTS_PERSIST" env-default:"false" yaml:"persist"`
		// Dir defaults to the OS temp dir
		Dir string `env:"ARTIFACTS_DIR" yaml:"dir"`
	} `yaml:"artifacts"`

	Metrics struct {
		// TextfilePath enables the Prometheus textfile dump when set
		TextfilePath string `env:"METRICS_TEXTFILE_PATH" yaml:"textfilePath"`
	} `yaml:"metrics"`
}

// Load receives the path for yaml config file and returns a filled Config struct.
// A missing file is not an error: the configuration then comes from the
// environment and the defaults only.
func Load(configPath string) (*Config, error) {
	var cfg Config

	_, err := os.Stat(configPath)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from env: %w", err)
		}
	default:
		return nil, fmt.Errorf("could not stat config file: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
