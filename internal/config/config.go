package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"tutorly-be/pkg/tutor"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Waitlist WaitlistConfig
	Voice    VoiceConfig
	Demo     DemoConfig
	Auth     AuthConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	RealtimeLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Email != ""
}

const (
	WaitlistStorePostgres = "postgres"
	WaitlistStoreSupabase = "supabase"
)

type WaitlistConfig struct {
	Store       string // "postgres" or "supabase"
	SupabaseURL string
	SupabaseKey string
}

type VoiceConfig struct {
	PublicKey  string
	GatewayURL string
	// Assistants overrides the built-in assistant per subject key.
	Assistants map[string]string
}

type DemoConfig struct {
	RoomTTL     time.Duration
	ReportTopic string
}

type AuthConfig struct {
	JwtSecret string
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			RealtimeLogPath:    getEnv("REALTIME_LOG_FILE_PATH", "logs/realtime.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Tuitionly"),
		},
		Waitlist: WaitlistConfig{
			Store:       strings.ToLower(getEnv("WAITLIST_STORE", WaitlistStorePostgres)),
			SupabaseURL: getEnv("SUPABASE_URL", ""),
			SupabaseKey: getEnv("SUPABASE_API_KEY", ""),
		},
		Voice: VoiceConfig{
			PublicKey:  getEnv("VOICE_PUBLIC_KEY", ""),
			GatewayURL: getEnv("VOICE_GATEWAY_URL", ""),
			Assistants: assistantOverrides(),
		},
		Demo: DemoConfig{
			RoomTTL:     time.Duration(getEnvAsInt("DEMO_ROOM_TTL_MINUTES", 30)) * time.Minute,
			ReportTopic: getEnv("SESSION_REPORT_TOPIC_NAME", "SESSION_REPORTS"),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "tutorly-backend"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
		},
	}
}

// assistantOverrides reads VOICE_ASSISTANT_<SUBJECT> for every known subject.
// Spaces in a subject key become underscores, e.g. VOICE_ASSISTANT_SOCIAL_SCIENCE.
func assistantOverrides() map[string]string {
	out := make(map[string]string)
	for _, subject := range tutor.Subjects() {
		key := "VOICE_ASSISTANT_" + strings.ToUpper(strings.ReplaceAll(subject, " ", "_"))
		if v := getEnv(key, ""); v != "" {
			out[subject] = v
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
