// Package system talks to the server-level endpoints: liveness, version,
// identity, pre-flight limits, and tenant/database administration.
package system

import (
	"context"
	"fmt"
	"net/url"

	"github.com/chromalens/chromalens-go/internal/rest"
)

// api is the consumer interface for the transport client (ISP).
type api interface {
	Get(ctx context.Context, route string, params url.Values, out any) error
	Post(ctx context.Context, route string, body, out any) error
	Delete(ctx context.Context, route string, out any) error
}

// Identity describes the authenticated caller.
type Identity struct {
	UserID    string
	Tenant    string
	Databases []string
}

// Limits carries the server's pre-flight operational limits.
type Limits struct {
	MaxBatchSize int
}

// Tenant is a named tenant.
type Tenant struct {
	Name string
}

// Database is a named database within a tenant.
type Database struct {
	ID     string
	Name   string
	Tenant string
}

// Repo implements the server-level operations.
type Repo struct {
	api api
}

// New creates a system repository.
func New(a api) *Repo {
	return &Repo{api: a}
}

// Heartbeat returns the server's nanosecond heartbeat token.
func (r *Repo) Heartbeat(ctx context.Context) (int64, error) {
	var resp heartbeatResponse
	if err := r.api.Get(ctx, rest.RouteHeartbeat, nil, &resp); err != nil {
		return 0, fmt.Errorf("heartbeat: %w", err)
	}
	return resp.Nanosecond, nil
}

// Version returns the server version string.
func (r *Repo) Version(ctx context.Context) (string, error) {
	var v string
	if err := r.api.Get(ctx, rest.RouteVersion, nil, &v); err != nil {
		return "", fmt.Errorf("version: %w", err)
	}
	return v, nil
}

// Reset wipes the entire server. The server must be started with reset
// enabled, otherwise this fails with a validation error.
func (r *Repo) Reset(ctx context.Context) error {
	var ok bool
	if err := r.api.Post(ctx, rest.RouteReset, nil, &ok); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// Identity returns the authenticated caller's identity.
func (r *Repo) Identity(ctx context.Context) (Identity, error) {
	var resp identityResponse
	if err := r.api.Get(ctx, rest.RouteIdentity, nil, &resp); err != nil {
		return Identity{}, fmt.Errorf("identity: %w", err)
	}
	return Identity{UserID: resp.UserID, Tenant: resp.Tenant, Databases: resp.Databases}, nil
}

// PreFlight returns the server's operational limits.
func (r *Repo) PreFlight(ctx context.Context) (Limits, error) {
	var resp preFlightResponse
	if err := r.api.Get(ctx, rest.RoutePreFlight, nil, &resp); err != nil {
		return Limits{}, fmt.Errorf("pre-flight checks: %w", err)
	}
	return Limits{MaxBatchSize: resp.MaxBatchSize}, nil
}

// CreateTenant creates a tenant.
func (r *Repo) CreateTenant(ctx context.Context, name string) error {
	if err := r.api.Post(ctx, rest.Tenants(), nameRequest{Name: name}, nil); err != nil {
		return fmt.Errorf("create tenant %s: %w", name, err)
	}
	return nil
}

// GetTenant fetches a tenant by name.
func (r *Repo) GetTenant(ctx context.Context, name string) (Tenant, error) {
	var resp tenantDTO
	if err := r.api.Get(ctx, rest.Tenant(name), nil, &resp); err != nil {
		return Tenant{}, fmt.Errorf("get tenant %s: %w", name, err)
	}
	return Tenant{Name: resp.Name}, nil
}

// CreateDatabase creates a database under tenant.
func (r *Repo) CreateDatabase(ctx context.Context, tenant, name string) error {
	if err := r.api.Post(ctx, rest.Databases(tenant), nameRequest{Name: name}, nil); err != nil {
		return fmt.Errorf("create database %s/%s: %w", tenant, name, err)
	}
	return nil
}

// GetDatabase fetches a database by name.
func (r *Repo) GetDatabase(ctx context.Context, tenant, name string) (Database, error) {
	var resp databaseDTO
	if err := r.api.Get(ctx, rest.Database(tenant, name), nil, &resp); err != nil {
		return Database{}, fmt.Errorf("get database %s/%s: %w", tenant, name, err)
	}
	return databaseFromDTO(resp), nil
}

// ListDatabases returns the databases of a tenant.
func (r *Repo) ListDatabases(ctx context.Context, tenant string) ([]Database, error) {
	var resp []databaseDTO
	if err := r.api.Get(ctx, rest.Databases(tenant), nil, &resp); err != nil {
		return nil, fmt.Errorf("list databases %s: %w", tenant, err)
	}
	out := make([]Database, len(resp))
	for i, d := range resp {
		out[i] = databaseFromDTO(d)
	}
	return out, nil
}

// DeleteDatabase removes a database and everything in it.
func (r *Repo) DeleteDatabase(ctx context.Context, tenant, name string) error {
	if err := r.api.Delete(ctx, rest.Database(tenant, name), nil); err != nil {
		return fmt.Errorf("delete database %s/%s: %w", tenant, name, err)
	}
	return nil
}
