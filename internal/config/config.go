package config

import (
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
)

type Config struct {
	Server      ServerConfig
	Sheets      SheetsConfig
	Policy      PolicySettings
	Database    DatabaseConfig
	Transaction TransactionConfig
	App         AppConfig
	Cache       CacheConfig
	Storage     StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// Backend values for SheetsConfig.Backend.
const (
	BackendSheets = "sheets"
	BackendPublic = "public"
	BackendDrive  = "drive"
	BackendMemory = "memory"
)

type SheetsConfig struct {
	Backend         string
	SpreadsheetID   string
	Worksheet       string
	CredentialsFile string
	CredentialsJSON string
	RequestTimeout  time.Duration
}

// HasCredentials reports whether a service account is configured.
func (c SheetsConfig) HasCredentials() bool {
	return c.CredentialsJSON != "" || c.CredentialsFile != ""
}

// Credentials returns the service account JSON, reading the file when no inline
// value is set.
func (c SheetsConfig) Credentials() ([]byte, error) {
	if c.CredentialsJSON != "" {
		return []byte(c.CredentialsJSON), nil
	}
	return os.ReadFile(c.CredentialsFile)
}

// PolicySettings mirrors economics.Policy without the demand tables.
type PolicySettings struct {
	LeadTimeDays       float64
	SafetyStockDays    float64
	CarryingCostRate   float64
	OrderingCost       float64
	TargetServiceLevel float64
	CriticalStock      int
	LowStock           int
	HighStock          int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

// Transaction log backends.
const (
	LogMemory   = "memory"
	LogPostgres = "postgres"
)

type TransactionConfig struct {
	Log string
}

type AppConfig struct {
	DataDir   string
	LogLevel  string
	LogFormat string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ProductsTTLSeconds int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

// Load reads .env and the environment once per process.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		instance = FromViper(viper.GetViper())
		ensureDir(instance.App.DataDir)
	})

	return instance
}

func setDefaults(v *viper.Viper) {
	def := economics.DefaultPolicy()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("INVENTORY_BACKEND", "")
	v.SetDefault("GOOGLE_SHEETS_INVENTORY_ID", "")
	v.SetDefault("GOOGLE_SHEETS_WORKSHEET", "Inventory")
	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	v.SetDefault("GOOGLE_CREDENTIALS_JSON", "")
	v.SetDefault("GOOGLE_REQUEST_TIMEOUT_SECONDS", 10)

	v.SetDefault("POLICY_LEAD_TIME_DAYS", def.LeadTimeDays)
	v.SetDefault("POLICY_SAFETY_STOCK_DAYS", def.SafetyStockDays)
	v.SetDefault("POLICY_CARRYING_COST_RATE", def.CarryingCostRate)
	v.SetDefault("POLICY_ORDERING_COST", def.OrderingCost)
	v.SetDefault("POLICY_TARGET_SERVICE_LEVEL", def.TargetServiceLevel)
	v.SetDefault("POLICY_CRITICAL_STOCK", def.CriticalStock)
	v.SetDefault("POLICY_LOW_STOCK", def.LowStock)
	v.SetDefault("POLICY_HIGH_STOCK", def.HighStock)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "inventory")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("TRANSACTION_LOG", LogMemory)

	v.SetDefault("APP_DATA_DIR", "./data")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_PRODUCTS_TTL_SECONDS", 60)

	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "inventory-reports")
	v.SetDefault("STORAGE_PREFIX", "reports")
	v.SetDefault("STORAGE_USE_SSL", false)
}

// FromViper builds a Config from v after applying defaults and AutomaticEnv.
func FromViper(v *viper.Viper) *Config {
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Sheets: SheetsConfig{
			Backend:         strings.ToLower(strings.TrimSpace(v.GetString("INVENTORY_BACKEND"))),
			SpreadsheetID:   v.GetString("GOOGLE_SHEETS_INVENTORY_ID"),
			Worksheet:       v.GetString("GOOGLE_SHEETS_WORKSHEET"),
			CredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
			CredentialsJSON: v.GetString("GOOGLE_CREDENTIALS_JSON"),
			RequestTimeout:  time.Duration(v.GetInt("GOOGLE_REQUEST_TIMEOUT_SECONDS")) * time.Second,
		},
		Policy: PolicySettings{
			LeadTimeDays:       v.GetFloat64("POLICY_LEAD_TIME_DAYS"),
			SafetyStockDays:    v.GetFloat64("POLICY_SAFETY_STOCK_DAYS"),
			CarryingCostRate:   v.GetFloat64("POLICY_CARRYING_COST_RATE"),
			OrderingCost:       v.GetFloat64("POLICY_ORDERING_COST"),
			TargetServiceLevel: v.GetFloat64("POLICY_TARGET_SERVICE_LEVEL"),
			CriticalStock:      v.GetInt("POLICY_CRITICAL_STOCK"),
			LowStock:           v.GetInt("POLICY_LOW_STOCK"),
			HighStock:          v.GetInt("POLICY_HIGH_STOCK"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt("DB_MAX_CONNS"),
		},
		Transaction: TransactionConfig{
			Log: strings.ToLower(v.GetString("TRANSACTION_LOG")),
		},
		App: AppConfig{
			DataDir:   v.GetString("APP_DATA_DIR"),
			LogLevel:  v.GetString("LOG_LEVEL"),
			LogFormat: v.GetString("LOG_FORMAT"),
		},
		Cache: CacheConfig{
			Enabled:            v.GetBool("CACHE_ENABLED"),
			RedisURL:           v.GetString("REDIS_URL"),
			RedisHost:          v.GetString("REDIS_HOST"),
			RedisPort:          v.GetString("REDIS_PORT"),
			RedisPassword:      v.GetString("REDIS_PASSWORD"),
			RedisDB:            v.GetInt("REDIS_DB"),
			ProductsTTLSeconds: v.GetInt("CACHE_PRODUCTS_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Prefix:    v.GetString("STORAGE_PREFIX"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		},
	}

	cfg.Sheets.Backend = cfg.resolveBackend()
	return cfg
}

// resolveBackend picks a store when INVENTORY_BACKEND is unset: the Sheets API
// with credentials, the public CSV export with only a sheet id, else memory.
func (c *Config) resolveBackend() string {
	switch c.Sheets.Backend {
	case BackendSheets, BackendPublic, BackendDrive, BackendMemory:
		return c.Sheets.Backend
	}
	switch {
	case c.Sheets.SpreadsheetID != "" && c.Sheets.HasCredentials():
		return BackendSheets
	case c.Sheets.SpreadsheetID != "":
		return BackendPublic
	default:
		return BackendMemory
	}
}

// PolicyConfig returns the immutable stock policy for the economics and analysis code.
func (c *Config) PolicyConfig() economics.Policy {
	p := economics.DefaultPolicy()
	p.LeadTimeDays = c.Policy.LeadTimeDays
	p.SafetyStockDays = c.Policy.SafetyStockDays
	p.CarryingCostRate = c.Policy.CarryingCostRate
	p.OrderingCost = c.Policy.OrderingCost
	p.TargetServiceLevel = c.Policy.TargetServiceLevel
	p.CriticalStock = c.Policy.CriticalStock
	p.LowStock = c.Policy.LowStock
	p.HighStock = c.Policy.HighStock
	return p
}

func ensureDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
