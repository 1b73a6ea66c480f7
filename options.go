package chromalens

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/chromalens/chromalens-go/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	host      string
	port      int
	ssl       bool
	authToken string
	tenant    string
	database  string

	timeout     time.Duration
	maxAttempts int
	baseDelay   time.Duration
	maxElapsed  time.Duration

	rateRPS   float64
	rateBurst int

	maxBatchSize  int
	skipReadiness bool

	httpClient *http.Client
	logger     *zap.Logger
	metricsReg prometheus.Registerer

	// Deferred option errors, surfaced by New.
	err error
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		host:        config.DefaultHost,
		port:        config.DefaultPort,
		tenant:      config.DefaultTenant,
		database:    config.DefaultDatabase,
		timeout:     config.DefaultTimeoutSec * time.Second,
		maxAttempts: config.DefaultAttempts,
		baseDelay:   config.DefaultBaseDelay * time.Millisecond,
	}
}

// applyConfig overlays a loaded configuration onto the option state.
func (c *clientConfig) applyConfig(cfg config.Config) {
	conn := cfg.Connection
	if conn.Host != "" {
		c.host = conn.Host
	}
	if conn.Port != 0 {
		c.port = conn.Port
	}
	c.ssl = c.ssl || conn.SSL
	if conn.AuthToken != "" {
		c.authToken = conn.AuthToken
	}
	if conn.Tenant != "" {
		c.tenant = conn.Tenant
	}
	if conn.Database != "" {
		c.database = conn.Database
	}
	if conn.TimeoutSec > 0 {
		c.timeout = time.Duration(conn.TimeoutSec) * time.Second
	}
	if cfg.Retry.MaxAttempts > 0 {
		c.maxAttempts = cfg.Retry.MaxAttempts
	}
	if cfg.Retry.BaseDelayMS > 0 {
		c.baseDelay = time.Duration(cfg.Retry.BaseDelayMS) * time.Millisecond
	}
	if cfg.Retry.MaxElapsedMS > 0 {
		c.maxElapsed = time.Duration(cfg.Retry.MaxElapsedMS) * time.Millisecond
	}
	if cfg.Retry.RatePerSec > 0 {
		c.rateRPS = float64(cfg.Retry.RatePerSec)
		c.rateBurst = cfg.Retry.RateBurst
	}
}

// WithHost sets the server hostname. Default: localhost.
func WithHost(host string) Option {
	return optionFunc(func(c *clientConfig) { c.host = host })
}

// WithPort sets the server port. Default: 8000.
func WithPort(port int) Option {
	return optionFunc(func(c *clientConfig) { c.port = port })
}

// WithSSL enables HTTPS.
func WithSSL() Option {
	return optionFunc(func(c *clientConfig) { c.ssl = true })
}

// WithAuthToken sets the bearer token sent on every request.
func WithAuthToken(token string) Option {
	return optionFunc(func(c *clientConfig) { c.authToken = token })
}

// WithTenant sets the tenant all collection routes are scoped to.
// Default: default_tenant.
func WithTenant(tenant string) Option {
	return optionFunc(func(c *clientConfig) { c.tenant = tenant })
}

// WithDatabase sets the database all collection routes are scoped to.
// Default: default_database.
func WithDatabase(database string) Option {
	return optionFunc(func(c *clientConfig) { c.database = database })
}

// WithTimeout sets the per-request timeout. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) { c.timeout = d })
}

// WithRetry sets the retry budget: total attempts per request and the
// initial backoff delay. Defaults: 3 attempts, 100ms.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxAttempts = maxAttempts
		c.baseDelay = baseDelay
	})
}

// WithMaxElapsed caps the total time spent on one request across all retry
// attempts, backoff waits included. Zero (the default) bounds retries by the
// attempt budget only.
func WithMaxElapsed(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) { c.maxElapsed = d })
}

// WithRateLimit caps outgoing requests at rps with the given burst.
// Zero rps (the default) means unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return optionFunc(func(c *clientConfig) {
		c.rateRPS = rps
		c.rateBurst = burst
	})
}

// WithMaxBatchSize caps single write requests; larger batches are split.
// By default the server's pre-flight limit is used.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) { c.maxBatchSize = size })
}

// WithHTTPClient supplies a custom *http.Client, e.g. for proxies or mTLS.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) { c.httpClient = hc })
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) { c.logger = l })
}

// WithPrometheus registers SDK and transport metrics on the given
// registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) { c.metricsReg = reg })
}

// WithoutReadinessCheck skips the heartbeat and pre-flight probes during New.
func WithoutReadinessCheck() Option {
	return optionFunc(func(c *clientConfig) { c.skipReadiness = true })
}

// FromEnv reads CHROMA_* environment variables (CHROMA_HOST, CHROMA_PORT,
// CHROMA_SSL, CHROMA_API_KEY, CHROMA_TENANT, CHROMA_DATABASE,
// CHROMA_TIMEOUT_SECONDS, CHROMA_MAX_RETRIES). Unset variables leave the
// current values untouched.
func FromEnv() Option {
	return optionFunc(func(c *clientConfig) {
		c.applyConfig(config.FromEnvOverlay())
	})
}

// FromConfigFile loads a YAML configuration file, expanding ${VAR}
// references from the environment. Load errors surface from New.
func FromConfigFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		cfg, err := config.Load(path)
		if err != nil {
			c.err = fmt.Errorf("chromalens: load config %s: %w", path, err)
			return
		}
		c.applyConfig(cfg)
	})
}
