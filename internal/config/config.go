// Package config carga la configuración del servicio: YAML opcional,
// defaults y overrides por variables de entorno, en ese orden.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"env"`
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		// TrustedProxies (IPs o CIDRs) habilita leer X-Forwarded-For.
		TrustedProxies  []string `yaml:"trusted_proxies"`
		ReadTimeout     string   `yaml:"read_timeout"`
		WriteTimeout    string   `yaml:"write_timeout"`
		ShutdownTimeout string   `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	// Store de documentos. El esquema de la URI elige el adapter
	// (mongodb, mongodb+srv, postgres, memory).
	Store struct {
		URI            string `yaml:"uri"`
		Database       string `yaml:"database"`
		ConnectTimeout string `yaml:"connect_timeout"`
	} `yaml:"store"`

	CMS struct {
		BaseURL  string `yaml:"base_url"`
		APIToken string `yaml:"api_token"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"cms"`

	Session struct {
		Secret     string `yaml:"secret"`
		TTL        string `yaml:"ttl"`
		CookieName string `yaml:"cookie_name"`
		Secure     bool   `yaml:"secure"`
		Issuer     string `yaml:"issuer"`
	} `yaml:"session"`

	Tenancy struct {
		DefaultTenant string `yaml:"default_tenant"`
		CacheTTL      string `yaml:"cache_ttl"`
	} `yaml:"tenancy"`

	Auth struct {
		// ProtectAPI exige sesión con rol de staff en las rutas /api de recursos.
		ProtectAPI bool `yaml:"protect_api"`
	} `yaml:"auth"`

	Rate struct {
		Enabled bool   `yaml:"enabled"`
		Limit   int    `yaml:"limit"`
		Window  string `yaml:"window"`
		Redis   struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"rate"`

	ephemeralSecret bool
}

// Load lee path (si no es vacío), aplica defaults y variables de entorno y
// valida. Un path vacío usa solo defaults + entorno.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyDefaults()
	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(c.Session.Secret) == "" {
		// solo dev: secreto efímero, las sesiones no sobreviven un reinicio
		c.Session.Secret = randomSecret()
		c.ephemeralSecret = true
	}
	return &c, nil
}

// EphemeralSecret indica que Load generó el secreto de sesión porque no
// estaba configurado. Ese secreto no lo comparte ningún otro proceso.
func (c *Config) EphemeralSecret() bool { return c.ephemeralSecret }

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "restopos"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Store.ConnectTimeout == "" {
		c.Store.ConnectTimeout = "10s"
	}
	if c.CMS.Timeout == "" {
		c.CMS.Timeout = "15s"
	}
	if c.Session.TTL == "" {
		c.Session.TTL = "12h"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "restopos_session"
	}
	if c.Session.Issuer == "" {
		c.Session.Issuer = "restopos"
	}
	if c.Tenancy.DefaultTenant == "" {
		c.Tenancy.DefaultTenant = "default"
	}
	if c.Tenancy.CacheTTL == "" {
		c.Tenancy.CacheTTL = "1m"
	}
	if c.Rate.Limit == 0 {
		c.Rate.Limit = 120
	}
	if c.Rate.Window == "" {
		c.Rate.Window = "1m"
	}
	if c.Rate.Redis.Prefix == "" {
		c.Rate.Redis.Prefix = "restopos:rl:"
	}
}

// applyEnvOverrides pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvCSV("SERVER_TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = v
	}

	// STORE
	if v, ok := getEnvStr("MONGODB_URI"); ok {
		c.Store.URI = v
	}
	if v, ok := getEnvStr("MONGODB_DATABASE"); ok {
		c.Store.Database = v
	}
	if v, ok := getEnvDur("STORE_CONNECT_TIMEOUT"); ok {
		c.Store.ConnectTimeout = v.String()
	}

	// CMS
	if v, ok := getEnvStr("CMS_BASE_URL"); ok {
		c.CMS.BaseURL = v
	}
	if v, ok := getEnvStr("CMS_API_TOKEN"); ok {
		c.CMS.APIToken = v
	}
	if v, ok := getEnvDur("CMS_TIMEOUT"); ok {
		c.CMS.Timeout = v.String()
	}

	// SESSION
	if v, ok := getEnvStr("SESSION_SECRET"); ok {
		c.Session.Secret = v
	}
	if v, ok := getEnvDur("SESSION_TTL"); ok {
		c.Session.TTL = v.String()
	}
	if v, ok := getEnvStr("SESSION_COOKIE_NAME"); ok {
		c.Session.CookieName = v
	}
	if v, ok := getEnvBool("SESSION_COOKIE_SECURE"); ok {
		c.Session.Secure = v
	}

	// TENANCY
	if v, ok := getEnvStr("DEFAULT_TENANT"); ok {
		c.Tenancy.DefaultTenant = v
	}
	if v, ok := getEnvDur("TENANT_CACHE_TTL"); ok {
		c.Tenancy.CacheTTL = v.String()
	}

	// AUTH
	if v, ok := getEnvBool("API_REQUIRE_SESSION"); ok {
		c.Auth.ProtectAPI = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LIMIT"); ok {
		c.Rate.Limit = v
	}
	if v, ok := getEnvDur("RATE_WINDOW"); ok {
		c.Rate.Window = v.String()
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Rate.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Rate.Redis.DB = v
	}
}

// Validate chequea los valores sin los que el servicio no puede arrancar.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Store.URI) == "" {
		errs = append(errs, errors.New("store uri is required (set MONGODB_URI)"))
	}
	for name, v := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"store.connect_timeout":   c.Store.ConnectTimeout,
		"cms.timeout":             c.CMS.Timeout,
		"session.ttl":             c.Session.TTL,
		"tenancy.cache_ttl":       c.Tenancy.CacheTTL,
		"rate.window":             c.Rate.Window,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if c.Rate.Enabled && c.Rate.Limit <= 0 {
		errs = append(errs, errors.New("rate.limit must be positive"))
	}
	if c.IsProd() && len(c.Session.Secret) < 32 {
		errs = append(errs, errors.New("session secret must be at least 32 bytes in prod (set SESSION_SECRET)"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsProd indica APP_ENV=prod.
func (c *Config) IsProd() bool { return strings.EqualFold(c.App.Env, "prod") }

// ─── Duraciones ya validadas ───

func (c *Config) ReadTimeout() time.Duration     { return mustDur(c.Server.ReadTimeout) }
func (c *Config) WriteTimeout() time.Duration    { return mustDur(c.Server.WriteTimeout) }
func (c *Config) ShutdownTimeout() time.Duration { return mustDur(c.Server.ShutdownTimeout) }
func (c *Config) StoreConnectTimeout() time.Duration {
	return mustDur(c.Store.ConnectTimeout)
}
func (c *Config) CMSTimeout() time.Duration     { return mustDur(c.CMS.Timeout) }
func (c *Config) SessionTTL() time.Duration     { return mustDur(c.Session.TTL) }
func (c *Config) TenantCacheTTL() time.Duration { return mustDur(c.Tenancy.CacheTTL) }
func (c *Config) RateWindow() time.Duration     { return mustDur(c.Rate.Window) }

func mustDur(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ─── Env helpers ───

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}
