package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/yarkeeb/bookfeed/pkg/consolidate"
)

const envPrefix = "BOOKFEED"

type Config struct {
	Symbol        string              `mapstructure:"symbol"`
	Log           LogConfig           `mapstructure:"log"`
	GRPC          GRPCConfig          `mapstructure:"grpc"`
	Admin         AdminConfig         `mapstructure:"admin"`
	Consolidation ConsolidationConfig `mapstructure:"consolidation"`
	Venues        VenuesConfig        `mapstructure:"venues"`
	Sinks         SinksConfig         `mapstructure:"sinks"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Production bool   `mapstructure:"production"`
}

type GRPCConfig struct {
	Addr string `mapstructure:"addr"`
}

type AdminConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type ConsolidationConfig struct {
	Tick     float64       `mapstructure:"tick"`
	TopN     int           `mapstructure:"top_n"`
	Interval time.Duration `mapstructure:"interval"`
}

func (c ConsolidationConfig) Consolidate() consolidate.Config {
	return consolidate.Config{Tick: c.Tick, TopN: c.TopN}
}

type VenuesConfig struct {
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	Binance       BinanceConfig `mapstructure:"binance"`
	OKX           OKXConfig     `mapstructure:"okx"`
	Kraken        KrakenConfig  `mapstructure:"kraken"`
}

type BinanceConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Symbol      string  `mapstructure:"symbol"`
	WSURL       string  `mapstructure:"ws_url"`
	RESTURL     string  `mapstructure:"rest_url"`
	DepthLimit  int     `mapstructure:"depth_limit"`
	SnapshotRPS float64 `mapstructure:"snapshot_rps"`
}

type OKXConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Symbol       string        `mapstructure:"symbol"`
	WSURL        string        `mapstructure:"ws_url"`
	PingInterval time.Duration `mapstructure:"ping_interval"`
}

type KrakenConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Symbol  string `mapstructure:"symbol"`
	WSURL   string `mapstructure:"ws_url"`
	Depth   int    `mapstructure:"depth"`
}

type SinksConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Redis    RedisConfig   `mapstructure:"redis"`
	Kafka    KafkaConfig   `mapstructure:"kafka"`
}

type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	Channel   string        `mapstructure:"channel"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("symbol", "BTCUSDT")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.production", false)
	v.SetDefault("grpc.addr", ":50051")
	v.SetDefault("admin.enabled", true)
	v.SetDefault("admin.addr", ":8080")

	v.SetDefault("consolidation.tick", 0.1)
	v.SetDefault("consolidation.top_n", 200)
	v.SetDefault("consolidation.interval", 200*time.Millisecond)

	v.SetDefault("venues.retry_interval", time.Second)
	v.SetDefault("venues.read_timeout", 30*time.Second)
	v.SetDefault("venues.binance.enabled", true)
	v.SetDefault("venues.binance.symbol", "BTCUSDT")
	v.SetDefault("venues.binance.ws_url", "wss://stream.binance.com:9443/ws")
	v.SetDefault("venues.binance.rest_url", "https://api.binance.com")
	v.SetDefault("venues.binance.depth_limit", 1000)
	v.SetDefault("venues.binance.snapshot_rps", 1.0)
	v.SetDefault("venues.okx.enabled", true)
	v.SetDefault("venues.okx.symbol", "BTC-USDT")
	v.SetDefault("venues.okx.ws_url", "wss://ws.okx.com:8443/ws/v5/public")
	v.SetDefault("venues.okx.ping_interval", 25*time.Second)
	v.SetDefault("venues.kraken.enabled", true)
	v.SetDefault("venues.kraken.symbol", "BTC/USDT")
	v.SetDefault("venues.kraken.ws_url", "wss://ws.kraken.com/v2")
	v.SetDefault("venues.kraken.depth", 100)

	v.SetDefault("sinks.interval", time.Second)
	v.SetDefault("sinks.redis.enabled", false)
	v.SetDefault("sinks.redis.addr", "localhost:6379")
	v.SetDefault("sinks.redis.password", "")
	v.SetDefault("sinks.redis.db", 0)
	v.SetDefault("sinks.redis.key_prefix", "bookfeed:")
	v.SetDefault("sinks.redis.channel", "bookfeed")
	v.SetDefault("sinks.redis.ttl", 10*time.Second)
	v.SetDefault("sinks.kafka.enabled", false)
	v.SetDefault("sinks.kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("sinks.kafka.topic", "bookfeed.consolidated")
}

// Load reads an optional .env file, then the YAML config at path (or
// ./config.yaml when path is empty and the file exists), then BOOKFEED_*
// environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Consolidation.Consolidate().Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Symbol) == "" {
		return errors.New("symbol is required")
	}
	for name, d := range map[string]time.Duration{
		"consolidation.interval": c.Consolidation.Interval,
		"venues.retry_interval":  c.Venues.RetryInterval,
		"sinks.interval":         c.Sinks.Interval,
	} {
		if d <= 0 {
			return errors.Errorf("%s must be positive, got %v", name, d)
		}
	}
	if !c.Venues.Binance.Enabled && !c.Venues.OKX.Enabled && !c.Venues.Kraken.Enabled {
		return errors.New("no venue enabled")
	}
	if c.Sinks.Kafka.Enabled && len(c.Sinks.Kafka.Brokers) == 0 {
		return errors.New("sinks.kafka.brokers is empty")
	}
	if c.Sinks.Redis.Enabled && c.Sinks.Redis.Addr == "" {
		return errors.New("sinks.redis.addr is empty")
	}
	return nil
}
