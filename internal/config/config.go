package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Chat   ChatConfig
	JWT    JWTConfig
}

var (
	ConfigInstance *Config
	once           sync.Once
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	URL          string
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type ChatConfig struct {
	// Groups is the set of group ids that expose a chat channel.
	Groups          []string
	HistoryPageSize int
	APIPageSize     int
}

type JWTConfig struct {
	Secret string
}

func LoadConfig() (*Config, error) {
	once.Do(func() {
		viper.SetDefault("RELAY_HOST", "")
		viper.SetDefault("RELAY_PORT", "3001")
		viper.SetDefault("RELAY_READ_TIMEOUT", 30*time.Second)
		viper.SetDefault("RELAY_WRITE_TIMEOUT", 30*time.Second)
		viper.SetDefault("RELAY_IDLE_TIMEOUT", 60*time.Second)
		viper.SetDefault("RELAY_JWT_SECRET", "secret")
		viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
		viper.SetDefault("MONGO_DB", "ruqyahbd-forum")
		viper.SetDefault("REDIS_URL", "redis://127.0.0.1:6379/0")
		viper.SetDefault("REDIS_MAX_RETRIES", 3)
		viper.SetDefault("REDIS_POOL_SIZE", 100)
		viper.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
		viper.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
		viper.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
		viper.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
		viper.SetDefault("KAFKA_BROKERS", "")
		viper.SetDefault("KAFKA_TOPIC", "forum-relay-events")
		viper.SetDefault("CHAT_GROUPS", "group1,group2,group3")
		viper.SetDefault("CHAT_HISTORY_PAGE_SIZE", 10)
		viper.SetDefault("API_PAGE_SIZE", 20)
		viper.AutomaticEnv()

		ConfigInstance = &Config{
			Server: ServerConfig{
				Host:         viper.GetString("RELAY_HOST"),
				Port:         viper.GetString("RELAY_PORT"),
				ReadTimeout:  viper.GetDuration("RELAY_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("RELAY_WRITE_TIMEOUT"),
				IdleTimeout:  viper.GetDuration("RELAY_IDLE_TIMEOUT"),
			},
			Mongo: MongoConfig{
				URI:      viper.GetString("MONGO_URI"),
				Database: viper.GetString("MONGO_DB"),
			},
			Redis: RedisConfig{
				URL:          viper.GetString("REDIS_URL"),
				MaxRetries:   viper.GetInt("REDIS_MAX_RETRIES"),
				DialTimeout:  viper.GetDuration("REDIS_DIAL_TIMEOUT"),
				ReadTimeout:  viper.GetDuration("REDIS_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("REDIS_WRITE_TIMEOUT"),
				PoolSize:     viper.GetInt("REDIS_POOL_SIZE"),
				MinIdleConns: viper.GetInt("REDIS_MIN_IDLE_CONNS"),
			},
			Kafka: KafkaConfig{
				Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
				Topic:   viper.GetString("KAFKA_TOPIC"),
			},
			Chat: ChatConfig{
				Groups:          splitList(viper.GetString("CHAT_GROUPS")),
				HistoryPageSize: viper.GetInt("CHAT_HISTORY_PAGE_SIZE"),
				APIPageSize:     viper.GetInt("API_PAGE_SIZE"),
			},
			JWT: JWTConfig{
				Secret: viper.GetString("RELAY_JWT_SECRET"),
			},
		}
	})

	return ConfigInstance, nil
}

// OriginAllowed reports whether a browser origin may reach the relay. It
// backs both the CORS middleware and the websocket upgrader so the two
// surfaces can never disagree. The localhost defaults are always accepted;
// ALLOWED_ORIGINS extends the list.
func OriginAllowed(origin string) bool {
	if origin == "" {
		return false
	}

	allowed := []string{
		"http://localhost:3000",
		"https://localhost:3000",
		"http://127.0.0.1:3000",
	}
	allowed = append(allowed, splitList(os.Getenv("ALLOWED_ORIGINS"))...)

	for _, a := range allowed {
		if origin == a {
			return true
		}
	}

	// Allow localhost variations for development and testing
	return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
