package rest

import (
	"fmt"
	"net/url"
)

// API version prefix for every route.
const apiPrefix = "/api/v2"

// System routes.
const (
	RouteHeartbeat = "heartbeat"
	RouteVersion   = "version"
	RouteReset     = "reset"
	RoutePreFlight = "pre-flight-checks"
	RouteIdentity  = "auth/identity"
)

// Item operations appended to a collection route.
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpUpsert = "upsert"
	OpGet    = "get"
	OpDelete = "delete"
	OpCount  = "count"
	OpQuery  = "query"
)

// Tenants returns the tenants listing route.
func Tenants() string { return "tenants" }

// Tenant returns the route for one tenant.
func Tenant(name string) string {
	return fmt.Sprintf("tenants/%s", url.PathEscape(name))
}

// Databases returns the databases listing route for a tenant.
func Databases(tenant string) string {
	return Tenant(tenant) + "/databases"
}

// Database returns the route for one database.
func Database(tenant, name string) string {
	return Databases(tenant) + "/" + url.PathEscape(name)
}

// Collections returns the collections listing route.
func Collections(tenant, database string) string {
	return Database(tenant, database) + "/collections"
}

// CollectionsCount returns the collection count route.
func CollectionsCount(tenant, database string) string {
	return Database(tenant, database) + "/collections_count"
}

// Collection returns the route for one collection, by name or server id.
func Collection(tenant, database, nameOrID string) string {
	return Collections(tenant, database) + "/" + url.PathEscape(nameOrID)
}

// CollectionOp returns an item operation route under a collection.
func CollectionOp(tenant, database, collectionID, op string) string {
	return Collection(tenant, database, collectionID) + "/" + op
}
