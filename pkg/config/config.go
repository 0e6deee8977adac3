package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Backend      BackendConfig
	Workflow     WorkflowConfig
	Upload       UploadConfig
	Alternatives AlternativesConfig
	Email        EmailConfig
	Link         LinkConfig
	JWT          JWTConfig
	Logger       LoggerConfig
	Mock         MockConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

// BackendConfig points at the receipt-analysis service.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type WorkflowConfig struct {
	// MinLoading is a pacing floor for the loading screen. Zero disables it.
	MinLoading time.Duration
	TTL        time.Duration
}

type UploadConfig struct {
	Policy string // pdf_images or pdf_only
}

type AlternativesConfig struct {
	Source string // backend or catalog
}

type EmailConfig struct {
	DraftStrategy string // backend or template
	Signature     string
}

type LinkConfig struct {
	ScriptURL        string
	ClientID         string
	Environment      string
	Product          string
	EntryPoint       string
	MerchantIDs      []int
	ExternalUserID   string
	TransactionsMode string // sync or demo
	SyncLimit        int
}

type JWTConfig struct {
	SecretKey string
}

// MockConfig drives the bundled demo backend.
type MockConfig struct {
	Port  string
	Delay time.Duration
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work the same way.
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	bodyLimitMB, _ := strconv.Atoi(getEnv("SERVER_BODY_LIMIT_MB", "20"))
	syncLimit, _ := strconv.Atoi(getEnv("LINK_SYNC_LIMIT", "5"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "3000"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			BodyLimit:    bodyLimitMB * 1024 * 1024,
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000"), "/"),
			Timeout: getDuration("BACKEND_TIMEOUT", 60*time.Second),
		},
		Workflow: WorkflowConfig{
			MinLoading: getDuration("WORKFLOW_MIN_LOADING", 0),
			TTL:        getDuration("WORKFLOW_TTL", 2*time.Hour),
		},
		Upload: UploadConfig{
			Policy: getEnv("UPLOAD_POLICY", "pdf_images"),
		},
		Alternatives: AlternativesConfig{
			Source: getEnv("ALTERNATIVES_SOURCE", "backend"),
		},
		Email: EmailConfig{
			DraftStrategy: getEnv("EMAIL_DRAFT_STRATEGY", "backend"),
			Signature:     getEnv("EMAIL_SIGNATURE", "[Your Company Name]"),
		},
		Link: LinkConfig{
			ScriptURL:        getEnv("LINK_SCRIPT_URL", "https://unpkg.com/knotapi-js@next"),
			ClientID:         getEnv("LINK_CLIENT_ID", "dda0778d-9486-47f8-bd80-6f2512f9bcdb"),
			Environment:      getEnv("LINK_ENVIRONMENT", "development"),
			Product:          getEnv("LINK_PRODUCT", "transaction_link"),
			EntryPoint:       getEnv("LINK_ENTRY_POINT", "demo"),
			MerchantIDs:      getInts("LINK_MERCHANT_IDS", []int{19, 44, 36}),
			ExternalUserID:   getEnv("LINK_EXTERNAL_USER_ID", "demo-user-1"),
			TransactionsMode: getEnv("LINK_TRANSACTIONS_MODE", "sync"),
			SyncLimit:        syncLimit,
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Mock: MockConfig{
			Port:  getEnv("MOCK_PORT", "8000"),
			Delay: getDuration("MOCK_DELAY", 0),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("10s") or bare seconds ("10").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getInts(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}
