package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/gamenight-backend/internal/platform/envutil"
)

type Config struct {
	Mode     string         `yaml:"mode"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Import   ImportConfig   `yaml:"import"`
	Scoring  ScoringConfig  `yaml:"scoring"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	CORSOrigins    []string `yaml:"cors_origins"`
	AvatarDir      string   `yaml:"avatar_dir"`
	MetricsEnabled bool     `yaml:"metrics_enabled"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"`
}

type RedisConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

type ImportConfig struct {
	DataRoot string `yaml:"data_root"`
	Workers  int    `yaml:"workers"`
}

type ScoringConfig struct {
	PlayerCountWeight float64 `yaml:"player_count_weight"`
	PlayTimeWeight    float64 `yaml:"play_time_weight"`
	ComplexityWeight  float64 `yaml:"complexity_weight"`
	CategoryWeight    float64 `yaml:"category_weight"`
	SkillWeight       float64 `yaml:"skill_weight"`

	MaxTimeDistance       float64 `yaml:"max_time_distance"`
	MaxComplexityDistance float64 `yaml:"max_complexity_distance"`
	HighSkillThreshold    float64 `yaml:"high_skill_threshold"`
	RelatedSkillBonus     float64 `yaml:"related_skill_bonus"`
}

func Default() *Config {
	return &Config{
		Mode: "dev",
		Server: ServerConfig{
			Port:           8080,
			CORSOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
			AvatarDir:      "",
			MetricsEnabled: true,
		},
		Database: DatabaseConfig{
			Driver:  "postgres",
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "gamenight",
			SSLMode: "disable",
			Path:    "gamenight.db",
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			TTLSeconds: 300,
		},
		Import: ImportConfig{
			DataRoot: "data",
			Workers:  4,
		},
		Scoring: ScoringConfig{
			PlayerCountWeight:     25,
			PlayTimeWeight:        20,
			ComplexityWeight:      20,
			CategoryWeight:        20,
			SkillWeight:           15,
			MaxTimeDistance:       60,
			MaxComplexityDistance: 2.0,
			HighSkillThreshold:    75,
			RelatedSkillBonus:     60,
		},
	}
}

// Load reads the optional YAML file at path, then applies environment
// overrides on top. An empty path means defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Mode = envutil.Str("MODE", c.Mode)

	c.Server.Port = envutil.Int("SERVER_PORT", c.Server.Port)
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		c.Server.CORSOrigins = origins
	}
	c.Server.AvatarDir = envutil.Str("AVATAR_DIR", c.Server.AvatarDir)
	c.Server.MetricsEnabled = envutil.Bool("METRICS_ENABLED", c.Server.MetricsEnabled)

	c.Database.Driver = envutil.Str("DB_DRIVER", c.Database.Driver)
	c.Database.Host = envutil.Str("POSTGRES_HOST", c.Database.Host)
	c.Database.Port = envutil.Str("POSTGRES_PORT", c.Database.Port)
	c.Database.User = envutil.Str("POSTGRES_USER", c.Database.User)
	c.Database.Password = envutil.Str("POSTGRES_PASSWORD", c.Database.Password)
	c.Database.Name = envutil.Str("POSTGRES_NAME", c.Database.Name)
	c.Database.SSLMode = envutil.Str("POSTGRES_SSLMODE", c.Database.SSLMode)
	c.Database.Path = envutil.Str("SQLITE_PATH", c.Database.Path)

	c.Redis.Enabled = envutil.Bool("REDIS_ENABLED", c.Redis.Enabled)
	c.Redis.Addr = envutil.Str("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = envutil.Str("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = envutil.Int("REDIS_DB", c.Redis.DB)
	c.Redis.TTLSeconds = envutil.Int("SCORE_CACHE_TTL_SECONDS", c.Redis.TTLSeconds)

	c.Import.DataRoot = envutil.Str("DATA_ROOT", c.Import.DataRoot)
	c.Import.Workers = envutil.Int("IMPORT_WORKERS", c.Import.Workers)

	c.Scoring.MaxTimeDistance = envutil.Float("SCORE_MAX_TIME_DISTANCE", c.Scoring.MaxTimeDistance)
	c.Scoring.MaxComplexityDistance = envutil.Float("SCORE_MAX_COMPLEXITY_DISTANCE", c.Scoring.MaxComplexityDistance)
	c.Scoring.HighSkillThreshold = envutil.Float("SCORE_HIGH_SKILL_THRESHOLD", c.Scoring.HighSkillThreshold)
	c.Scoring.RelatedSkillBonus = envutil.Float("SCORE_RELATED_SKILL_BONUS", c.Scoring.RelatedSkillBonus)
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Import.Workers < 1 {
		return fmt.Errorf("config: import workers must be >= 1, got %d", c.Import.Workers)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	s := c.Scoring
	for name, w := range map[string]float64{
		"player_count_weight": s.PlayerCountWeight,
		"play_time_weight":    s.PlayTimeWeight,
		"complexity_weight":   s.ComplexityWeight,
		"category_weight":     s.CategoryWeight,
		"skill_weight":        s.SkillWeight,
	} {
		if w < 0 {
			return fmt.Errorf("config: scoring %s must not be negative", name)
		}
	}
	if s.PlayerCountWeight+s.PlayTimeWeight+s.ComplexityWeight+s.CategoryWeight+s.SkillWeight <= 0 {
		return fmt.Errorf("config: scoring weights sum to zero")
	}
	if s.MaxTimeDistance <= 0 || s.MaxComplexityDistance <= 0 {
		return fmt.Errorf("config: scoring distance limits must be positive")
	}
	return nil
}
