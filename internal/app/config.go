package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (MKBB_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string `default:"127.0.0.1:8080" usage:"Billing server listen address"`
	DataDir      string `default:"data" usage:"Directory for the JSON data files" flag:"data-dir"`
	NPRRate      string `default:"1.6" usage:"INR to NPR conversion rate" flag:"npr-rate"`
	APIKeyPepper string `usage:"HMAC pepper for API key hashing; empty disables auth (MKBB_API_KEY_PEPPER)" flag:"api-key-pepper"`
	Shop         ShopConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Graceful     GracefulConfig
}

// ShopConfig overrides parts of the shop identity printed on receipts.
// Empty fields keep the built-in defaults.
type ShopConfig struct {
	Name    string `usage:"Shop name shown on receipts" flag:"shop-name"`
	Address string `usage:"Shop address shown on receipts" flag:"shop-address"`
	GSTIN   string `usage:"Shop GSTIN shown on receipts" flag:"shop-gstin"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "MKBB",
		Files:     []string{"config.yaml", "/etc/mkbb/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()
	return &cfg, nil
}

// applyPlatformDefaults maps the standard PORT variable onto the listen
// address so platform deploys work without MKBB_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == "127.0.0.1:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
