package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/minutes-archive/search-service/pkg/config"
	"github.com/minutes-archive/search-service/pkg/database"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Elasticsearch ElasticsearchConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Log           LogConfig
}

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type ElasticsearchConfig struct {
	Addresses []string      `mapstructure:"addresses"`
	Index     string        `mapstructure:"index"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8094)
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.file_path", "./minutes.db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.index", "minutes")
	v.SetDefault("elasticsearch.timeout", "2s")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.prefix", "search")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("log.level", "info")

	// Bind environment variables
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.file_path", "DB_FILE_PATH")
	v.BindEnv("elasticsearch.addresses", "ES_ADDRESSES")
	v.BindEnv("elasticsearch.index", "ES_INDEX")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations that cannot serve requests.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if _, err := database.ParseBackend(c.Database.Driver); err != nil {
		return fmt.Errorf("database.driver: %w", err)
	}
	if len(c.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("elasticsearch.addresses must not be empty")
	}
	if c.Elasticsearch.Timeout <= 0 {
		return fmt.Errorf("elasticsearch.timeout must be positive, got %s", c.Elasticsearch.Timeout)
	}
	// The engine timeout must leave room for the structured fallback.
	if c.Server.RequestTimeout > 0 && c.Elasticsearch.Timeout >= c.Server.RequestTimeout {
		return fmt.Errorf("elasticsearch.timeout (%s) must be smaller than server.request_timeout (%s)",
			c.Elasticsearch.Timeout, c.Server.RequestTimeout)
	}
	return nil
}

// DatabaseConfig translates into the connection settings pkg/database expects.
func (c *Config) DatabaseConfig() *database.Config {
	return &database.Config{
		Driver:          c.Database.Driver,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		DBName:          c.Database.DBName,
		SSLMode:         c.Database.SSLMode,
		FilePath:        c.Database.FilePath,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
	}
}
