// internal/config/config.go
package config

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultYAML []byte

// Weights are the points each scoring criterion contributes when it fires.
type Weights struct {
	TitleKeyword       int `yaml:"title_keyword" json:"title_keyword"`
	DescriptionKeyword int `yaml:"description_keyword" json:"description_keyword"`
	Location           int `yaml:"location" json:"location"`
	Mode               int `yaml:"mode" json:"mode"`
	Experience         int `yaml:"experience" json:"experience"`
	Skills             int `yaml:"skills" json:"skills"`
	Recent             int `yaml:"recent" json:"recent"`
	Source             int `yaml:"source" json:"source"`
}

func (w Weights) Sum() int {
	return w.TitleKeyword + w.DescriptionKeyword + w.Location + w.Mode +
		w.Experience + w.Skills + w.Recent + w.Source
}

type Scoring struct {
	Weights       Weights `yaml:"weights" json:"weights"`
	RecentDays    int     `yaml:"recent_days" json:"recent_days"`
	BoostedSource string  `yaml:"boosted_source" json:"boosted_source"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Storage struct {
		Backend    string `yaml:"backend" json:"backend"` // sqlite/file/redis/memory
		SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
		FileDir    string `yaml:"file_dir" json:"file_dir"`
		RedisURL   string `yaml:"redis_url" json:"redis_url"`
		RedisKey   string `yaml:"redis_prefix" json:"redis_prefix"`
	} `yaml:"storage" json:"storage"`

	Catalog struct {
		Path string `yaml:"path" json:"path"` // empty = embedded dataset
	} `yaml:"catalog" json:"catalog"`

	Scoring Scoring `yaml:"scoring" json:"scoring"`

	Digest struct {
		Limit           int    `yaml:"limit" json:"limit"`
		RetentionDays   int    `yaml:"retention_days" json:"retention_days"`
		CleanupSchedule string `yaml:"cleanup_schedule" json:"cleanup_schedule"`
	} `yaml:"digest" json:"digest"`

	HTTP struct {
		RatePerSec  float64  `yaml:"rate_per_sec" json:"rate_per_sec"`
		Burst       int      `yaml:"burst" json:"burst"`
		CorsOrigins []string `yaml:"cors_origins" json:"cors_origins"`
	} `yaml:"http" json:"http"`
}

// Default returns the built-in configuration shipped with the binary.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic("config: embedded default.yml is invalid: " + err.Error())
	}
	return cfg
}

// DefaultScoring is the fixed point table: the weights sum to exactly 100.
func DefaultScoring() Scoring {
	return Default().Scoring
}

// Load reads path on top of the defaults, so a partial file only overrides
// the keys it names.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
