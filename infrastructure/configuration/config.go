package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"lustroom-portal/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Backend     Backend     `json:"backend"`
	RedisClient RedisClient `json:"redisClient"`
	Session     Session     `json:"session"`
	Cors        Cors        `json:"cors"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

// Backend points at the content API that owns authentication and entitlement.
type Backend struct {
	BaseURL        string `json:"baseURL"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Database int    `json:"database"`
	Username string `json:"username"`
}

type Session struct {
	CookieName   string `json:"cookieName"`
	CookieSecure bool   `json:"cookieSecure"`
	TTLHours     int    `json:"ttlHours"`
}

type Cors struct {
	AllowOrigins []string `json:"allowOrigins"`
}

type Logger struct {
	Format string `json:"format"`
}

const (
	DefaultPort           = 10001
	DefaultBackendBaseURL = "https://lustroom-downloader-backend.onrender.com/api/v1"
	DefaultCookieName     = "lustroom_session"
	DefaultSessionTTL     = 24
	DefaultBackendTimeout = 15
)

var C Config

func init() {
	LoadConfig()
	ApplyDefaults(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// ApplyDefaults overlays environment variables and fills anything still empty.
// Environment always wins over the config file.
func ApplyDefaults(c *Config) {
	initApp(c)
	initBackend(c)
	initRedis(c)
	initSession(c)
}

func initApp(c *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		c.App.SecretKey = v
	}
	// Port resolution order: APP_PORT -> PORT -> config -> default
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	}
	if c.App.Port == 0 {
		c.App.Port = DefaultPort
	}
	if v, ok := parseBool(os.Getenv("TLS_ENABLED")); ok {
		c.App.TLSEnabled = v
	}
	if c.App.TLSCertFile == "" {
		c.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if c.App.TLSKeyFile == "" {
		c.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if c.App.TLSEnabled {
		logger.GetLogger().WithFields(map[string]interface{}{"cert": c.App.TLSCertFile, "key": c.App.TLSKeyFile}).Info("TLS enabled via configuration")
	}
	if c.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; session cookies cannot be issued. Provide SECRET_KEY via environment.")
	}
}

func initBackend(c *Config) {
	if v := os.Getenv("BACKEND_BASE_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = DefaultBackendBaseURL
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if v := os.Getenv("BACKEND_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Backend.TimeoutSeconds = n
		}
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = DefaultBackendTimeout
	}
}

func initRedis(c *Config) {
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.RedisClient.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		c.RedisClient.Port = v
	}
	if v := os.Getenv("REDIS_USERNAME"); v != "" {
		c.RedisClient.Username = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RedisClient.Password = v
	}
	if c.RedisClient.Host != "" && c.RedisClient.Port == "" {
		c.RedisClient.Port = "6379"
	}
}

func initSession(c *Config) {
	if v := os.Getenv("SESSION_COOKIE_NAME"); v != "" {
		c.Session.CookieName = v
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultCookieName
	}
	if v, ok := parseBool(os.Getenv("SESSION_COOKIE_SECURE")); ok {
		c.Session.CookieSecure = v
	}
	if c.Session.TTLHours <= 0 {
		c.Session.TTLHours = DefaultSessionTTL
	}
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (r RedisClient) RedisAddr() string {
	if r.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

func parseBool(v string) (bool, bool) {
	switch v {
	case "1", "true", "TRUE", "True":
		return true, true
	case "0", "false", "FALSE", "False":
		return false, true
	}
	return false, false
}
