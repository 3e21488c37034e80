package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

var (
	MAIN_ROUTES string
	APP_PORT    string
	JWTSecret   string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	SnowflakeNode int64

	// Inventory rules
	LowStockThreshold      int
	LenientQuantityParse   bool
	DispatchHistoryDefault int
	DispatchHistoryMax     int

	// Hazard classifier
	GeminiAPIKey       string
	GeminiModel        string
	OpenAIAPIKey       string
	OpenAIModel        string
	AIClassifierURL    string
	AIClassifierAPIKey string
	ClassifierTimeout  time.Duration

	// Low stock digest
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	AlertFrom       string
	AlertRecipients []string
	LowStockCron    string

	allowedOrigins map[string]bool
)

// LoadConfig membaca file .env dan menginisialisasi variabel konfigurasi
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Server Configuration
	MAIN_ROUTES = getEnv("MAIN_ROUTES", "/api/v1")
	APP_PORT = getEnv("APP_PORT", "9000")
	JWTSecret = getEnv("JWT_SECRET", "")

	// Database Configuration
	DBDriver = getEnv("DB_DRIVER", "postgres")
	DBHost = getEnv("DB_HOST", "localhost")
	DBPort = getEnv("DB_PORT", "5432")
	DBUser = getEnv("DB_USER", "postgres")
	DBPassword = getEnv("DB_PASSWORD", "")
	DBName = getEnv("DB_NAME", "warehouse_db")

	SnowflakeNode = int64(getEnvAsInt("SNOWFLAKE_NODE", 1))

	LowStockThreshold = getEnvAsInt("LOW_STOCK_THRESHOLD", 10)
	LenientQuantityParse = getEnvAsBool("LENIENT_QUANTITY_PARSE", false)
	DispatchHistoryDefault = getEnvAsInt("DISPATCH_HISTORY_DEFAULT", 100)
	DispatchHistoryMax = getEnvAsInt("DISPATCH_HISTORY_MAX", 500)

	GeminiAPIKey = getEnv("GEMINI_API_KEY", "")
	GeminiModel = getEnv("GEMINI_MODEL", "gemini-2.5-flash")
	OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	OpenAIModel = getEnv("OPENAI_MODEL", "gpt-4o-mini")
	AIClassifierURL = getEnv("AI_CLASSIFIER_URL", "")
	AIClassifierAPIKey = getEnv("AI_CLASSIFIER_API_KEY", "")
	ClassifierTimeout = time.Duration(getEnvAsInt("CLASSIFIER_TIMEOUT_SECONDS", 8)) * time.Second

	SMTPHost = getEnv("SMTP_HOST", "")
	SMTPPort = getEnvAsInt("SMTP_PORT", 465)
	SMTPUser = getEnv("SMTP_USER", "")
	SMTPPassword = getEnv("SMTP_PASSWORD", "")
	AlertFrom = getEnv("ALERT_FROM", SMTPUser)
	AlertRecipients = splitList(getEnv("ALERT_RECIPIENTS", ""))
	LowStockCron = getEnv("LOW_STOCK_CRON", "0 7 * * *")

	loadAllowedOrigins()
}

// AlertingEnabled reports whether the low stock digest has somewhere to go.
func AlertingEnabled() bool {
	return SMTPHost != "" && len(AlertRecipients) > 0
}

// getEnv membaca environment variable dengan nilai default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadAllowedOrigins() {
	allowedOrigins = make(map[string]bool)
	origins := splitList(getEnv("ALLOWED_ORIGINS", ""))

	if len(origins) == 0 {
		allowedOrigins = map[string]bool{
			"http://localhost:5173": true,
			"http://localhost:3000": true,
		}
		return
	}

	for _, origin := range origins {
		allowedOrigins[origin] = true
	}
}

func SetupCORS(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if allowedOrigins[origin] {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		// Handle preflight request
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}
