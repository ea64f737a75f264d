package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Fetch    FetchConfig
	Session  SessionConfig
	Cache    CacheConfig
	Export   ExportConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	Host                 string
	Port                 string
	User                 string
	Password             string
	DBName               string
	SSLMode              string
	URL                  string
	MaxConcurrentQueries int
}

type FetchConfig struct {
	Dataset     string
	PageSize    int
	Concurrency int
}

type SessionConfig struct {
	Backend    string
	TTLSeconds int
}

type CacheConfig struct {
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type ExportConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// Enabled reports whether object storage uploads are configured.
func (c ExportConfig) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 120)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("LOG_FORMAT", "console")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "sales")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("DATABASE_URL", "")
		viper.SetDefault("DB_MAX_CONCURRENT_QUERIES", 10)
		viper.SetDefault("SALES_DATASET", "sales_summary_view")
		viper.SetDefault("FETCH_PAGE_SIZE", 1000)
		viper.SetDefault("FETCH_CONCURRENCY", 1)
		viper.SetDefault("SESSION_BACKEND", "memory")
		viper.SetDefault("SESSION_TTL_SECONDS", 8*60*60)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("EXPORT_ENDPOINT", "")
		viper.SetDefault("EXPORT_ACCESS_KEY", "")
		viper.SetDefault("EXPORT_SECRET_KEY", "")
		viper.SetDefault("EXPORT_BUCKET", "")
		viper.SetDefault("EXPORT_PREFIX", "reports/")
		viper.SetDefault("EXPORT_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Log: LogConfig{
				Level:  viper.GetString("LOG_LEVEL"),
				Format: viper.GetString("LOG_FORMAT"),
			},
			Database: DatabaseConfig{
				Host:                 viper.GetString("DB_HOST"),
				Port:                 viper.GetString("DB_PORT"),
				User:                 viper.GetString("DB_USER"),
				Password:             viper.GetString("DB_PASSWORD"),
				DBName:               viper.GetString("DB_NAME"),
				SSLMode:              viper.GetString("DB_SSLMODE"),
				URL:                  viper.GetString("DATABASE_URL"),
				MaxConcurrentQueries: viper.GetInt("DB_MAX_CONCURRENT_QUERIES"),
			},
			Fetch: FetchConfig{
				Dataset:     viper.GetString("SALES_DATASET"),
				PageSize:    viper.GetInt("FETCH_PAGE_SIZE"),
				Concurrency: viper.GetInt("FETCH_CONCURRENCY"),
			},
			Session: SessionConfig{
				Backend:    viper.GetString("SESSION_BACKEND"),
				TTLSeconds: viper.GetInt("SESSION_TTL_SECONDS"),
			},
			Cache: CacheConfig{
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
			},
			Export: ExportConfig{
				Endpoint:  viper.GetString("EXPORT_ENDPOINT"),
				AccessKey: viper.GetString("EXPORT_ACCESS_KEY"),
				SecretKey: viper.GetString("EXPORT_SECRET_KEY"),
				Bucket:    viper.GetString("EXPORT_BUCKET"),
				Prefix:    viper.GetString("EXPORT_PREFIX"),
				UseSSL:    viper.GetBool("EXPORT_USE_SSL"),
			},
		}
	})

	return instance
}
