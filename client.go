package chromalens

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	domcol "github.com/chromalens/chromalens-go/internal/domain/collection"
	domitem "github.com/chromalens/chromalens-go/internal/domain/item"
	domquery "github.com/chromalens/chromalens-go/internal/domain/query"
	"github.com/chromalens/chromalens-go/internal/logger"
	collectionrepo "github.com/chromalens/chromalens-go/internal/repository/collection"
	itemrepo "github.com/chromalens/chromalens-go/internal/repository/item"
	systemrepo "github.com/chromalens/chromalens-go/internal/repository/system"
	"github.com/chromalens/chromalens-go/internal/rest"
	collectionuc "github.com/chromalens/chromalens-go/internal/usecase/collection"
	healthuc "github.com/chromalens/chromalens-go/internal/usecase/health"
	itemuc "github.com/chromalens/chromalens-go/internal/usecase/item"
	queryuc "github.com/chromalens/chromalens-go/internal/usecase/query"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so services can be substituted in tests.
type collectionUseCase interface {
	Create(ctx context.Context, name string, metadata domcol.Metadata, dimension int, distance domcol.Distance) (domcol.Collection, error)
	Ensure(ctx context.Context, name string, metadata domcol.Metadata, dimension int, distance domcol.Distance) (domcol.Collection, error)
	Get(ctx context.Context, name string) (domcol.Collection, error)
	List(ctx context.Context, cursor string, limit int) ([]domcol.Collection, string, error)
	Update(ctx context.Context, col domcol.Collection, newName *string, newMetadata domcol.Metadata) error
	Delete(ctx context.Context, name string) error
	Count(ctx context.Context, col domcol.Collection) (int, error)
	CountAll(ctx context.Context) (int, error)
}

type itemUseCase interface {
	Add(ctx context.Context, col domcol.Collection, items []domitem.Item) error
	Update(ctx context.Context, col domcol.Collection, items []domitem.Item) error
	Upsert(ctx context.Context, col domcol.Collection, items []domitem.Item) error
	Get(ctx context.Context, col domcol.Collection, ids []string, include []domquery.Include) (itemuc.GetResult, error)
	List(ctx context.Context, col domcol.Collection, cursor string, limit int, include []domquery.Include) ([]domitem.Item, string, error)
	Delete(ctx context.Context, col domcol.Collection, ids []string) (itemuc.DeleteResult, error)
	DeleteWhere(ctx context.Context, col domcol.Collection, where domquery.Where, whereDocument domquery.WhereDocument) error
	Count(ctx context.Context, col domcol.Collection) (int, error)
}

type queryUseCase interface {
	Search(ctx context.Context, col domcol.Collection, vectors [][]float32, topK int,
		where domquery.Where, whereDocument domquery.WhereDocument, include []domquery.Include) ([][]domquery.Scored, error)
}

type systemRepository interface {
	Heartbeat(ctx context.Context) (int64, error)
	Version(ctx context.Context) (string, error)
	Reset(ctx context.Context) error
	Identity(ctx context.Context) (systemrepo.Identity, error)
	PreFlight(ctx context.Context) (systemrepo.Limits, error)
	CreateTenant(ctx context.Context, name string) error
	GetTenant(ctx context.Context, name string) (systemrepo.Tenant, error)
	CreateDatabase(ctx context.Context, tenant, name string) error
	GetDatabase(ctx context.Context, tenant, name string) (systemrepo.Database, error)
	ListDatabases(ctx context.Context, tenant string) ([]systemrepo.Database, error)
	DeleteDatabase(ctx context.Context, tenant, name string) error
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the chromalens SDK entry point. It is safe for concurrent use.
type Client struct {
	tenant   string
	database string

	httpClient *http.Client
	collSvc    collectionUseCase
	itemSvc    itemUseCase
	querySvc   queryUseCase
	healthSvc  healthUseCase
	sys        systemRepository
	obs        *observer
	log        *zap.Logger
}

// New creates a Client and verifies the server is reachable.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}

	hc, err := buildHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	restClient, err := rest.NewClient(rest.Config{
		Host:        cfg.host,
		Port:        cfg.port,
		SSL:         cfg.ssl,
		AuthToken:   cfg.authToken,
		Timeout:     cfg.timeout,
		MaxAttempts: cfg.maxAttempts,
		BaseDelay:   cfg.baseDelay,
		MaxElapsed:  cfg.maxElapsed,
		HTTPClient:  hc,
	})
	if err != nil {
		return nil, fmt.Errorf("chromalens: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	sys := systemrepo.New(restClient)

	maxBatch := cfg.maxBatchSize
	if !cfg.skipReadiness {
		readyCtx, cancel := readinessContext(ctx, cfg.logger)
		defer cancel()

		if _, err := sys.Heartbeat(readyCtx); err != nil {
			return nil, fmt.Errorf("chromalens: server not ready: %w", err)
		}
		if maxBatch == 0 {
			// Best effort; older servers have no pre-flight endpoint.
			if limits, err := sys.PreFlight(readyCtx); err == nil {
				maxBatch = limits.MaxBatchSize
			}
		}
	}

	collRepo := collectionrepo.New(restClient, cfg.tenant, cfg.database)
	itRepo := itemrepo.New(restClient, cfg.tenant, cfg.database)

	return &Client{
		tenant:     cfg.tenant,
		database:   cfg.database,
		httpClient: hc,
		collSvc:    collectionuc.New(collRepo),
		itemSvc:    itemuc.New(itRepo, maxBatch),
		querySvc:   queryuc.New(itRepo),
		healthSvc:  healthuc.New(sys, sys),
		sys:        sys,
		obs:        obs,
		log:        cfg.logger,
	}, nil
}

// buildHTTPClient assembles the transport chain: rate limiting closest to
// the network, metrics around it. The caller's client is copied, never
// mutated.
func buildHTTPClient(cfg *clientConfig) (*http.Client, error) {
	hc := &http.Client{}
	if cfg.httpClient != nil {
		copied := *cfg.httpClient
		hc = &copied
	}

	transport := hc.Transport
	if cfg.rateRPS > 0 {
		transport = rest.NewRateLimitTransport(cfg.rateRPS, cfg.rateBurst, transport)
	}
	if cfg.metricsReg != nil {
		mt, err := rest.NewMetricsTransport(cfg.metricsReg, transport)
		if err != nil {
			return nil, fmt.Errorf("chromalens: %w", err)
		}
		transport = mt
	}
	hc.Transport = transport
	return hc, nil
}

func readinessContext(ctx context.Context, _ *zap.Logger) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, defaultReadinessTimeout)
}

// ctx attaches the configured logger for request-scoped transport logging.
func (c *Client) ctx(ctx context.Context) context.Context {
	if c.log == nil {
		return ctx
	}
	return logger.ContextWithLogger(ctx, c.log)
}

// Close releases idle connections held by the transport.
func (c *Client) Close() {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
}

// Tenant returns the tenant this client is scoped to.
func (c *Client) Tenant() string { return c.tenant }

// Database returns the database this client is scoped to.
func (c *Client) Database() string { return c.database }

// Heartbeat checks server liveness and returns its nanosecond token.
func (c *Client) Heartbeat(ctx context.Context) (_ int64, err error) {
	start := time.Now()
	defer func() { c.obs.observe("heartbeat", start, err) }()
	return c.sys.Heartbeat(c.ctx(ctx))
}

// Version returns the server version string.
func (c *Client) Version(ctx context.Context) (_ string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("version", start, err) }()
	return c.sys.Version(c.ctx(ctx))
}

// Reset wipes the entire server, dropping every tenant, database,
// collection and item. The server must allow resets.
func (c *Client) Reset(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("reset", start, err) }()
	return c.sys.Reset(c.ctx(ctx))
}

// Identity returns the authenticated caller's identity.
func (c *Client) Identity(ctx context.Context) (_ Identity, err error) {
	start := time.Now()
	defer func() { c.obs.observe("identity", start, err) }()

	id, err := c.sys.Identity(c.ctx(ctx))
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: id.UserID, Tenant: id.Tenant, Databases: id.Databases}, nil
}

// HealthStatus aggregates the individual server checks into one verdict.
type HealthStatus struct {
	Status       string            // "ok", "degraded", "error"
	Checks       map[string]string // check -> "ok"/"error"
	Heartbeat    int64
	MaxBatchSize int
}

// Health checks the server and reports per-check outcomes.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(c.ctx(ctx))
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:       string(report.Status),
		Checks:       checks,
		Heartbeat:    report.Heartbeat,
		MaxBatchSize: report.MaxBatchSize,
	}
}

// Collections returns the collection management service.
func (c *Client) Collections() *CollectionService {
	return &CollectionService{c: c}
}

// Items returns an item service handle for a collection. The handle
// resolves the collection on first use and keeps that resolution for its
// own lifetime; obtain a fresh handle to observe server-side changes.
func (c *Client) Items(collection string) *ItemService {
	return &ItemService{c: c, ref: &colRef{name: collection, svc: c.collSvc}}
}

// Query returns a query service handle for a collection. Resolution
// follows the same per-handle rules as Items.
func (c *Client) Query(collection string) *QueryService {
	return &QueryService{c: c, ref: &colRef{name: collection, svc: c.collSvc}}
}

// Tenants returns the tenant administration service.
func (c *Client) Tenants() *TenantService {
	return &TenantService{c: c}
}

// Databases returns the database administration service for the client's
// tenant.
func (c *Client) Databases() *DatabaseService {
	return &DatabaseService{c: c}
}

// colRef lazily resolves a collection name to its server-side identity.
// Item and query operations need the collection id and dimension; resolving
// once per handle keeps them to one extra round trip without the Client
// holding any cross-call collection state.
type colRef struct {
	name string
	svc  collectionUseCase

	mu  sync.Mutex
	col *domcol.Collection
}

func (r *colRef) resolve(ctx context.Context) (domcol.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.col != nil {
		return *r.col, nil
	}
	col, err := r.svc.Get(ctx, r.name)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("resolve collection %q: %w", r.name, err)
	}
	r.col = &col
	return col, nil
}
