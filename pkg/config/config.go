package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Scheduling SchedulingConfig
	Holidays   HolidayConfig
	Notifier   NotifierConfig
	Enrollment EnrollmentConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulingConfig tunes slot generation and course projection.
type SchedulingConfig struct {
	WorkingHoursOpen   string
	WorkingHoursClose  string
	ClassStart         string
	ClassMinutes       int
	MaxProjectionWeeks int
	MaxSlotWindowDays  int
	Timezone           string
}

// HolidayConfig controls holiday sources and caching.
type HolidayConfig struct {
	NationalCountry string
	CacheEnabled    bool
	CacheTTL        time.Duration
}

// NotifierConfig governs change event fan-out.
type NotifierConfig struct {
	Workers           int
	BufferSize        int
	MaxRetries        int
	RetryDelay        time.Duration
	PGListenerEnabled bool
	PGChannel         string
}

// EnrollmentConfig covers enrollment write throttling and expiry.
type EnrollmentConfig struct {
	ExpiryCron     string
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	classMinutes := v.GetInt("SCHEDULING_CLASS_MINUTES")
	if classMinutes <= 0 {
		classMinutes = 120
	}
	maxWeeks := v.GetInt("SCHEDULING_MAX_PROJECTION_WEEKS")
	if maxWeeks <= 0 {
		maxWeeks = 104
	}
	slotWindow := v.GetInt("SCHEDULING_MAX_SLOT_WINDOW_DAYS")
	if slotWindow <= 0 {
		slotWindow = 366
	}
	cfg.Scheduling = SchedulingConfig{
		WorkingHoursOpen:   v.GetString("SCHEDULING_WORKING_HOURS_OPEN"),
		WorkingHoursClose:  v.GetString("SCHEDULING_WORKING_HOURS_CLOSE"),
		ClassStart:         v.GetString("SCHEDULING_CLASS_START"),
		ClassMinutes:       classMinutes,
		MaxProjectionWeeks: maxWeeks,
		MaxSlotWindowDays:  slotWindow,
		Timezone:           v.GetString("SCHEDULING_TIMEZONE"),
	}

	cfg.Holidays = HolidayConfig{
		NationalCountry: strings.ToUpper(v.GetString("SCHEDULING_NATIONAL_HOLIDAYS")),
		CacheEnabled:    v.GetBool("ENABLE_HOLIDAY_CACHE"),
		CacheTTL:        parseDuration(v.GetString("HOLIDAY_CACHE_TTL"), 6*time.Hour),
	}

	cfg.Notifier = NotifierConfig{
		Workers:           v.GetInt("NOTIFIER_WORKERS"),
		BufferSize:        v.GetInt("NOTIFIER_BUFFER"),
		MaxRetries:        v.GetInt("NOTIFIER_RETRIES"),
		RetryDelay:        parseDuration(v.GetString("NOTIFIER_RETRY_DELAY"), time.Second),
		PGListenerEnabled: v.GetBool("ENABLE_PG_LISTENER"),
		PGChannel:         v.GetString("NOTIFIER_PG_CHANNEL"),
	}

	cfg.Enrollment = EnrollmentConfig{
		ExpiryCron:     v.GetString("ENROLLMENT_EXPIRY_CRON"),
		RateLimitRPS:   v.GetFloat64("ENROLLMENT_RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("ENROLLMENT_RATE_LIMIT_BURST"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "course_scheduling")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULING_WORKING_HOURS_OPEN", "06:00")
	v.SetDefault("SCHEDULING_WORKING_HOURS_CLOSE", "22:00")
	v.SetDefault("SCHEDULING_CLASS_START", "09:00")
	v.SetDefault("SCHEDULING_CLASS_MINUTES", 120)
	v.SetDefault("SCHEDULING_MAX_PROJECTION_WEEKS", 104)
	v.SetDefault("SCHEDULING_MAX_SLOT_WINDOW_DAYS", 366)
	v.SetDefault("SCHEDULING_TIMEZONE", "UTC")

	v.SetDefault("SCHEDULING_NATIONAL_HOLIDAYS", "")
	v.SetDefault("ENABLE_HOLIDAY_CACHE", false)
	v.SetDefault("HOLIDAY_CACHE_TTL", "6h")

	v.SetDefault("NOTIFIER_WORKERS", 2)
	v.SetDefault("NOTIFIER_BUFFER", 64)
	v.SetDefault("NOTIFIER_RETRIES", 3)
	v.SetDefault("NOTIFIER_RETRY_DELAY", "1s")
	v.SetDefault("ENABLE_PG_LISTENER", false)
	v.SetDefault("NOTIFIER_PG_CHANNEL", "scheduling_changes")

	v.SetDefault("ENROLLMENT_EXPIRY_CRON", "@daily")
	v.SetDefault("ENROLLMENT_RATE_LIMIT_RPS", 20)
	v.SetDefault("ENROLLMENT_RATE_LIMIT_BURST", 40)
}

// Location resolves the scheduling timezone, falling back to UTC.
func (c SchedulingConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
