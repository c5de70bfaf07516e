package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	pipeerrors "github.com/tradeforge/etf-direction/internal/errors"
)

// Config drives one pipeline run
type Config struct {
	// Input
	DataFile    string `json:"data_file" validate:"required"`
	TargetAsset string `json:"target_asset" validate:"required"`
	StartDate   string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	// Indicator windows
	MAWindow       int `json:"ma_window" validate:"gte=1"`
	VolumeMAWindow int `json:"volume_ma_window" validate:"gte=1"`
	RSIWindow      int `json:"rsi_window" validate:"gte=1"`

	// Model selection
	TestFraction float64   `json:"test_fraction" validate:"gt=0,lt=1"`
	Folds        int       `json:"folds" validate:"gte=2"`
	KGrid        []float64 `json:"k_grid" validate:"min=1,dive,gte=1"`
	Scoring      string    `json:"scoring" validate:"oneof=accuracy f1"`
	Workers      int       `json:"workers"`

	// Outputs (all optional)
	ParquetFile string `json:"parquet_file,omitempty"`
	ExcelFile   string `json:"excel_file,omitempty"`
	JSONFile    string `json:"json_file,omitempty"`

	// Monitoring
	PrometheusPort int `json:"prometheus_port,omitempty"`
}

// Default returns the configuration used by the baseline study
func Default() *Config {
	return &Config{
		DataFile:       "data/etf_daily.csv",
		TargetAsset:    "SPY",
		MAWindow:       50,
		VolumeMAWindow: 50,
		RSIWindow:      14,
		TestFraction:   0.2,
		Folds:          5,
		KGrid:          []float64{3, 5, 9, 15, 25},
		Scoring:        "accuracy",
		Workers:        0, // one per CPU
	}
}

// LoadFromFile overlays a JSON config file onto the defaults
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pipeerrors.NewDataError("config", "read", err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, pipeerrors.WrapError(err, pipeerrors.ErrorCategoryConfiguration, "config", "parse")
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. Call after godotenv has
// populated the process env at the CLI edge.
func (c *Config) ApplyEnv() {
	c.DataFile = getEnv("PIPELINE_DATA_FILE", c.DataFile)
	c.TargetAsset = getEnv("PIPELINE_TARGET_ASSET", c.TargetAsset)
	c.StartDate = getEnv("PIPELINE_START_DATE", c.StartDate)
	c.EndDate = getEnv("PIPELINE_END_DATE", c.EndDate)
	c.MAWindow = getEnvInt("PIPELINE_MA_WINDOW", c.MAWindow)
	c.VolumeMAWindow = getEnvInt("PIPELINE_VOLUME_MA_WINDOW", c.VolumeMAWindow)
	c.RSIWindow = getEnvInt("PIPELINE_RSI_WINDOW", c.RSIWindow)
	c.TestFraction = getEnvFloat("PIPELINE_TEST_FRACTION", c.TestFraction)
	c.Folds = getEnvInt("PIPELINE_FOLDS", c.Folds)
	c.Scoring = getEnv("PIPELINE_SCORING", c.Scoring)
	c.Workers = getEnvInt("PIPELINE_WORKERS", c.Workers)
	c.PrometheusPort = getEnvInt("PIPELINE_PROMETHEUS_PORT", c.PrometheusPort)

	if grid := os.Getenv("PIPELINE_K_GRID"); grid != "" {
		var ks []float64
		for _, part := range strings.Split(grid, ",") {
			if v, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err == nil {
				ks = append(ks, v)
			}
		}
		if len(ks) > 0 {
			c.KGrid = ks
		}
	}
}

// Validate checks the declared constraints on every field
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return pipeerrors.WrapError(err, pipeerrors.ErrorCategoryConfiguration, "config", "validate")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}
