package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Polygon struct {
		APIKey         string        `yaml:"api_key"`
		BaseURL        string        `yaml:"base_url"`
		WebSocketURL   string        `yaml:"websocket_url"`
		UseLive        bool          `yaml:"use_live"`
		Tier           string        `yaml:"tier"`
		FixturesDir    string        `yaml:"fixtures_dir"`
		CacheTTL       time.Duration `yaml:"cache_ttl"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"polygon"`
	Scanner struct {
		Provider        string   `yaml:"provider"`
		Symbols         []string `yaml:"symbols"`
		HistoryBars     int      `yaml:"history_bars"`
		MinScore        float64  `yaml:"min_score"`
		ReviewScore     float64  `yaml:"review_score"`
		RiskPctPerTrade float64  `yaml:"risk_pct_per_trade"`
		MaxHeatPct      float64  `yaml:"max_heat_pct"`
		PortfolioValue  float64  `yaml:"portfolio_value"`
		FeesUSD         float64  `yaml:"fees_usd"`
		Workers         int      `yaml:"workers"`
	} `yaml:"scanner"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		c.Polygon.APIKey = v
	}
	if v := os.Getenv("USE_POLYGON_LIVE"); v != "" {
		c.Polygon.UseLive, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Scanner.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		if ok {
			c.Redis.Host = host
			c.Redis.Port, _ = strconv.Atoi(port)
		} else {
			c.Redis.Host = v
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Polygon.BaseURL == "" {
		c.Polygon.BaseURL = "https://api.polygon.io"
	}
	if c.Polygon.Tier == "" {
		c.Polygon.Tier = "basic"
	}
	if c.Polygon.CacheTTL == 0 {
		c.Polygon.CacheTTL = 5 * time.Minute
	}
	if c.Polygon.RequestTimeout == 0 {
		c.Polygon.RequestTimeout = 30 * time.Second
	}
	if c.Scanner.Provider == "" {
		c.Scanner.Provider = "polygon"
	}
	if c.Scanner.HistoryBars == 0 {
		c.Scanner.HistoryBars = 200
	}
	if c.Scanner.MinScore == 0 {
		c.Scanner.MinScore = 50.0
	}
	if c.Scanner.ReviewScore == 0 {
		c.Scanner.ReviewScore = 50.0
	}
	if c.Scanner.RiskPctPerTrade == 0 {
		c.Scanner.RiskPctPerTrade = 0.005
	}
	if c.Scanner.MaxHeatPct == 0 {
		c.Scanner.MaxHeatPct = 0.02
	}
	if c.Scanner.PortfolioValue == 0 {
		c.Scanner.PortfolioValue = 100000.0
	}
	if c.Scanner.FeesUSD == 0 {
		c.Scanner.FeesUSD = 1.0
	}
	if c.Scanner.Workers == 0 {
		c.Scanner.Workers = 8
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Scanner.Symbols) == 0 {
		return fmt.Errorf("scanner.symbols cannot be empty")
	}
	if c.Scanner.Provider != "polygon" && c.Scanner.Provider != "mock" {
		return fmt.Errorf("scanner.provider must be polygon or mock, got %q", c.Scanner.Provider)
	}
	if c.Polygon.UseLive && c.Polygon.APIKey == "" {
		return fmt.Errorf("polygon.api_key is required when polygon.use_live is true")
	}
	if c.Scanner.RiskPctPerTrade <= 0 || c.Scanner.RiskPctPerTrade > 0.05 {
		return fmt.Errorf("scanner.risk_pct_per_trade must be in (0, 0.05], got %v", c.Scanner.RiskPctPerTrade)
	}
	if c.Scanner.MaxHeatPct <= 0 || c.Scanner.MaxHeatPct > 0.20 {
		return fmt.Errorf("scanner.max_heat_pct must be in (0, 0.20], got %v", c.Scanner.MaxHeatPct)
	}
	if c.Scanner.MinScore < 0 || c.Scanner.MinScore > 100 {
		return fmt.Errorf("scanner.min_score must be in [0, 100], got %v", c.Scanner.MinScore)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka.enabled is true")
	}
	return nil
}
