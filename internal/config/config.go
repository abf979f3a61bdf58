package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	Email    EmailConfig    `mapstructure:"email"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	Mode         string `mapstructure:"mode"` // debug | release | test
	ReadTimeout  int    `mapstructure:"readTimeout"`
	WriteTimeout int    `mapstructure:"writeTimeout"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig содержит настройки Redis. Пустой адрес отключает кеш.
type RedisConfig struct {
	// Mode: "single", "sentinel" или "cluster"
	Mode       string   `mapstructure:"mode"`
	Addrs      []string `mapstructure:"addrs"`
	Addr       string   `mapstructure:"addr"`
	Password   string   `mapstructure:"password"`
	DB         int      `mapstructure:"db"`
	MasterName string   `mapstructure:"master_name"`
	MaxRetries int      `mapstructure:"max_retries"`
}

// Enabled сообщает, настроен ли Redis
func (r RedisConfig) Enabled() bool {
	return r.Addr != "" || len(r.Addrs) > 0
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
	Issuer        string `mapstructure:"issuer"`
}

// Expiration возвращает время жизни токена
func (j JWTConfig) Expiration() time.Duration {
	return time.Duration(j.ExpirationHrs) * time.Hour
}

// AuthConfig содержит настройки аутентификации
type AuthConfig struct {
	BcryptCost int `mapstructure:"bcryptCost"`
}

// QuizConfig содержит настройки каталога викторин
type QuizConfig struct {
	// AvailableQuestionCount - минимум вопросов, при котором викторина видна пользователям
	AvailableQuestionCount int               `mapstructure:"availableQuestionCount"`
	CacheTTLSeconds        int               `mapstructure:"cacheTTLSeconds"`
	Composition            CompositionConfig `mapstructure:"composition"`
}

// CompositionConfig задает ограничения состава викторины
type CompositionConfig struct {
	Enforce      bool `mapstructure:"enforce"`
	MaxQuestions int  `mapstructure:"maxQuestions"`
	Easy         int  `mapstructure:"easy"`
	Medium       int  `mapstructure:"medium"`
	Hard         int  `mapstructure:"hard"`
}

// EmailConfig содержит настройки отправки писем через Resend
type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ResendAPIKey string `mapstructure:"resendApiKey"`
	From         string `mapstructure:"from"`
	LoginURL     string `mapstructure:"loginUrl"`
}

// CORSConfig содержит разрешенные источники
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.mode", "debug")
	vip.SetDefault("server.readTimeout", 15)
	vip.SetDefault("server.writeTimeout", 15)

	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")

	vip.SetDefault("redis.mode", "single")

	vip.SetDefault("jwt.expirationHrs", 720)
	vip.SetDefault("jwt.issuer", "kuiz-api")

	vip.SetDefault("auth.bcryptCost", 10)

	vip.SetDefault("quiz.availableQuestionCount", 10)
	vip.SetDefault("quiz.cacheTTLSeconds", 300)
	vip.SetDefault("quiz.composition.enforce", false)
	vip.SetDefault("quiz.composition.maxQuestions", 10)
	vip.SetDefault("quiz.composition.easy", 5)
	vip.SetDefault("quiz.composition.medium", 3)
	vip.SetDefault("quiz.composition.hard", 2)

	vip.SetDefault("cors.allowedOrigins", []string{"http://localhost:3000"})

	vip.SetDefault("log.level", "info")
}

func bindEnv(vip *viper.Viper) {
	// Server
	_ = vip.BindEnv("server.port", "SERVER_PORT")
	_ = vip.BindEnv("server.mode", "GIN_MODE")

	// Database
	_ = vip.BindEnv("database.host", "DATABASE_HOST")
	_ = vip.BindEnv("database.port", "DATABASE_PORT")
	_ = vip.BindEnv("database.user", "DATABASE_USER")
	_ = vip.BindEnv("database.password", "DATABASE_PASSWORD")
	_ = vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	_ = vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	// Redis
	_ = vip.BindEnv("redis.mode", "REDIS_MODE")
	_ = vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	_ = vip.BindEnv("redis.addr", "REDIS_ADDR")
	_ = vip.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = vip.BindEnv("redis.db", "REDIS_DB")
	_ = vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// JWT
	_ = vip.BindEnv("jwt.secret", "JWT_SECRET")
	_ = vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")
	_ = vip.BindEnv("jwt.issuer", "JWT_ISSUER")

	// Auth
	_ = vip.BindEnv("auth.bcryptCost", "AUTH_BCRYPTCOST")

	// Quiz
	_ = vip.BindEnv("quiz.availableQuestionCount", "QUIZ_AVAILABLEQUESTIONCOUNT")
	_ = vip.BindEnv("quiz.composition.enforce", "QUIZ_COMPOSITION_ENFORCE")

	// Email
	_ = vip.BindEnv("email.enabled", "EMAIL_ENABLED")
	_ = vip.BindEnv("email.resendApiKey", "RESEND_API_KEY")
	_ = vip.BindEnv("email.from", "EMAIL_FROM")
	_ = vip.BindEnv("email.loginUrl", "EMAIL_LOGIN_URL")

	// Log
	_ = vip.BindEnv("log.level", "LOG_LEVEL")
	_ = vip.BindEnv("log.pretty", "LOG_PRETTY")
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New()

	setDefaults(vip)
	bindEnv(vip)

	if configPath != "" {
		vip.SetConfigFile(configPath)
		// Файла может не быть, тогда работают переменные окружения и умолчания
		if err := vip.ReadInConfig(); err != nil {
			log.Warn().Err(err).Str("path", configPath).Msg("[Config] Не удалось прочитать файл конфигурации")
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("db_host", cfg.Database.Host).
		Str("db_name", cfg.Database.DBName).
		Bool("redis_enabled", cfg.Redis.Enabled()).
		Int("jwt_expiration_hrs", cfg.JWT.ExpirationHrs).
		Bool("email_enabled", cfg.Email.Enabled).
		Bool("composition_enforced", cfg.Quiz.Composition.Enforce).
		Str("port", cfg.Server.Port).
		Msg("[Config] Конфигурация загружена")

	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (check JWT_SECRET env var)")
	}
	if c.JWT.ExpirationHrs <= 0 {
		return fmt.Errorf("jwt expirationHrs must be positive, got %d", c.JWT.ExpirationHrs)
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth bcryptCost must be within [4, 31], got %d", c.Auth.BcryptCost)
	}
	if c.Email.Enabled && (c.Email.ResendAPIKey == "" || c.Email.From == "") {
		return fmt.Errorf("email is enabled but resendApiKey or from is empty (check RESEND_API_KEY, EMAIL_FROM env vars)")
	}
	if c.Server.Mode == "release" && c.Database.Password == "" {
		return fmt.Errorf("database password is required in release mode (check DATABASE_PASSWORD env var)")
	}
	return nil
}
