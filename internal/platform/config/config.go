package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort            string
	JWTKey             []byte
	JWTExp             time.Duration
	CORSAllowedOrigins []string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GeminiAPIKey string
	GeminiModel  string

	AzureConnectionString string
	AzureContainerName    string

	LoaderAPIKey string

	GenerationRateLimitPerMinute int
	GenerationQueueName          string
	GenerationLockKey            string
	GenerationLockTTLSeconds     int
	GenerationJobTTL             time.Duration
}

// fileConfig is the optional YAML overlay. Environment variables win over it.
type fileConfig struct {
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"dbname"`
		SslMode  string `yaml:"sslmode"`
		URL      string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Gemini struct {
		Model string `yaml:"model"`
	} `yaml:"gemini"`
	Azure struct {
		Container string `yaml:"container"`
	} `yaml:"azure"`
	Generation struct {
		RateLimitPerMinute *int   `yaml:"rate_limit_per_minute"`
		QueueName          string `yaml:"queue_name"`
		LockKey            string `yaml:"lock_key"`
		LockTTLSeconds     int    `yaml:"lock_ttl_seconds"`
		JobTTLHours        int    `yaml:"job_ttl_hours"`
	} `yaml:"generation"`
}

// Load reads .env (if present), the optional YAML file named by QUIZ_CONFIG_FILE,
// and the process environment, in that order of increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	var fc fileConfig
	if path := os.Getenv("QUIZ_CONFIG_FILE"); path != "" {
		loaded, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		fc = *loaded
	}

	return fromEnv(fc), nil
}

func loadFile(path string) (*fileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config.loadFile: %w", err)
	}
	defer f.Close()

	fc := &fileConfig{}
	if err := yaml.NewDecoder(f).Decode(fc); err != nil {
		return nil, fmt.Errorf("config.loadFile: decode %s: %w", path, err)
	}
	return fc, nil
}

func fromEnv(fc fileConfig) *Config {
	rateLimit := 10
	if fc.Generation.RateLimitPerMinute != nil {
		rateLimit = *fc.Generation.RateLimitPerMinute
	}

	cfg := &Config{
		APIPort:            getEnv("API_PORT", or(fc.Server.Port, "8080")),
		JWTKey:             []byte(getEnv("JWT_SECRET", "default_secret_key")),
		JWTExp:             time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", orList(fc.Server.CORSOrigins, []string{"*"})),

		DBHost:     getEnv("DB_HOST", or(fc.Database.Host, "localhost")),
		DBPort:     getEnv("DB_PORT", or(fc.Database.Port, "5432")),
		DBUser:     getEnv("DB_USER", or(fc.Database.User, "postgres")),
		DBPassword: getEnv("DB_PASSWORD", or(fc.Database.Password, "postgres")),
		DBName:     getEnv("DB_NAME", or(fc.Database.Name, "quiz_app")),
		DBSslMode:  getEnv("DB_SSLMODE", or(fc.Database.SslMode, "disable")),

		RedisAddr:     getEnv("REDIS_ADDR", or(fc.Redis.Addr, "localhost:6379")),
		RedisPassword: getEnv("REDIS_PASSWORD", fc.Redis.Password),
		RedisDB:       getEnvAsInt("REDIS_DB", fc.Redis.DB),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", or(fc.Gemini.Model, "gemini-2.5-flash")),

		AzureConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING", ""),
		AzureContainerName:    getEnv("AZURE_CONTAINER_NAME", or(fc.Azure.Container, "cricket-data")),

		LoaderAPIKey: getEnv("QUIZ_LOADER_API_KEY", ""),

		GenerationRateLimitPerMinute: getEnvAsInt("GENERATION_RATE_LIMIT_PER_MINUTE", rateLimit),
		GenerationQueueName:          getEnv("GENERATION_QUEUE_NAME", or(fc.Generation.QueueName, "quiz_generation_jobs")),
		GenerationLockKey:            getEnv("GENERATION_LOCK_KEY", or(fc.Generation.LockKey, "quiz_generation_lock")),
		GenerationLockTTLSeconds:     getEnvAsInt("GENERATION_LOCK_TTL_SECONDS", orInt(fc.Generation.LockTTLSeconds, 120)),
		GenerationJobTTL:             time.Duration(getEnvAsInt("GENERATION_JOB_TTL_HOURS", orInt(fc.Generation.JobTTLHours, 24))) * time.Hour,
	}

	cfg.DBConnStr = getEnv("DATABASE_URL", fc.Database.URL)
	if cfg.DBConnStr == "" {
		cfg.DBConnStr = "host=" + cfg.DBHost +
			" port=" + cfg.DBPort +
			" user=" + cfg.DBUser +
			" password=" + cfg.DBPassword +
			" dbname=" + cfg.DBName +
			" sslmode=" + cfg.DBSslMode
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func orInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func orList(v, fallback []string) []string {
	if len(v) > 0 {
		return v
	}
	return fallback
}
