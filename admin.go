package chromalens

import (
	"context"
	"time"
)

// TenantService manages tenants. Most deployments only ever use the
// default tenant the client was configured with.
type TenantService struct {
	c *Client
}

// Create registers a new tenant.
func (s *TenantService) Create(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("tenant.create", start, err) }()
	return s.c.sys.CreateTenant(s.c.ctx(ctx), name)
}

// Get verifies a tenant exists and returns its name.
func (s *TenantService) Get(ctx context.Context, name string) (_ string, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("tenant.get", start, err) }()

	t, err := s.c.sys.GetTenant(s.c.ctx(ctx), name)
	if err != nil {
		return "", err
	}
	return t.Name, nil
}

// DatabaseService manages databases within the client's tenant.
type DatabaseService struct {
	c *Client
}

// Create registers a new database.
func (s *DatabaseService) Create(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("database.create", start, err) }()
	return s.c.sys.CreateDatabase(s.c.ctx(ctx), s.c.tenant, name)
}

// Get returns a database by name.
func (s *DatabaseService) Get(ctx context.Context, name string) (_ DatabaseInfo, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("database.get", start, err) }()

	db, err := s.c.sys.GetDatabase(s.c.ctx(ctx), s.c.tenant, name)
	if err != nil {
		return DatabaseInfo{}, err
	}
	return DatabaseInfo{ID: db.ID, Name: db.Name, Tenant: db.Tenant}, nil
}

// List returns every database in the client's tenant.
func (s *DatabaseService) List(ctx context.Context) (_ []DatabaseInfo, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("database.list", start, err) }()

	dbs, err := s.c.sys.ListDatabases(s.c.ctx(ctx), s.c.tenant)
	if err != nil {
		return nil, err
	}
	out := make([]DatabaseInfo, len(dbs))
	for i, db := range dbs {
		out[i] = DatabaseInfo{ID: db.ID, Name: db.Name, Tenant: db.Tenant}
	}
	return out, nil
}

// Delete removes a database and everything in it.
func (s *DatabaseService) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("database.delete", start, err) }()
	return s.c.sys.DeleteDatabase(s.c.ctx(ctx), s.c.tenant, name)
}
