package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers soportados.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Session SessionConfig
	Redis   RedisConfig
	AI      AIConfig
	Admin   AdminConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string // aparece en logs y en el informe PDF
	LogLevel    string
	StoreDriver string // postgres | memory
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	AutoMigrate bool
}

// ConnectionString devuelve DATABASE_URL si está definido; si no, el DSN construido.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN connection string con URL encoding para caracteres especiales de la contraseña.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerFile string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionConfig sesiones de entrada de stock.
type SessionConfig struct {
	Driver string // memory | redis
	TTL    time.Duration
}

// RedisConfig conexión a Redis para las sesiones.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AIConfig proveedor del análisis de inventario; sin clave el análisis queda deshabilitado.
type AIConfig struct {
	Provider        string // gemini | anthropic
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string
}

// AdminConfig usuario que se crea si la tabla de usuarios está vacía.
type AdminConfig struct {
	Username string
	Password string
}

// Load lee la configuración desde variables de entorno y, si existen, .env o config.env.
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	for _, name := range []string{".env", "config"} {
		v.SetConfigName(name)
		_ = v.MergeInConfig() // opcional
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:         v.GetString("APP_ENV"),
			Name:        v.GetString("APP_NAME"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetInt("JWT_EXPIRATION_MINUTES"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		HTTP: HTTPConfig{
			Host:        v.GetString("HTTP_HOST"),
			Port:        v.GetInt("HTTP_PORT"),
			SwaggerFile: v.GetString("HTTP_SWAGGER_FILE"),
		},
		Session: SessionConfig{
			Driver: strings.ToLower(v.GetString("SESSION_DRIVER")),
			TTL:    time.Duration(v.GetInt("SESSION_TTL_MINUTES")) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		AI: AIConfig{
			Provider:        strings.ToLower(v.GetString("AI_PROVIDER")),
			GeminiAPIKey:    v.GetString("GEMINI_API_KEY"),
			GeminiModel:     v.GetString("GEMINI_MODEL"),
			AnthropicAPIKey: v.GetString("ANTHROPIC_API_KEY"),
			AnthropicModel:  v.GetString("ANTHROPIC_MODEL"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "inventario-hotel")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "inventario_hotel")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JWT_EXPIRATION_MINUTES", 480)
	v.SetDefault("JWT_ISSUER", "inventario-hotel")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("HTTP_SWAGGER_FILE", "./docs/swagger.json")
	v.SetDefault("SESSION_DRIVER", DriverMemory)
	v.SetDefault("SESSION_TTL_MINUTES", 120)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("AI_PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("ANTHROPIC_MODEL", "claude-3-5-haiku-latest")
	v.SetDefault("ADMIN_USERNAME", "admin")
}

// Validate rechaza combinaciones que impedirían arrancar.
func (c *Config) Validate() error {
	switch c.App.StoreDriver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("STORE_DRIVER inválido: %q", c.App.StoreDriver)
	}
	switch c.Session.Driver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("SESSION_DRIVER inválido: %q", c.Session.Driver)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES debe ser positivo")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET es obligatorio")
	}
	return nil
}
