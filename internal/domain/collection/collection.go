// Package collection holds the collection aggregate and its invariants.
package collection

import (
	"fmt"
	"regexp"

	"github.com/chromalens/chromalens-go/internal/domain"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Distance identifies the similarity space of a collection.
type Distance string

const (
	// DistanceL2 is squared euclidean distance (server default).
	DistanceL2 Distance = "l2"
	// DistanceCosine is cosine distance.
	DistanceCosine Distance = "cosine"
	// DistanceIP is inner product distance.
	DistanceIP Distance = "ip"
)

// IsValid checks if the distance function is supported.
func (d Distance) IsValid() bool {
	return d == DistanceL2 || d == DistanceCosine || d == DistanceIP
}

// Metadata is a mapping of string keys to scalar values
// (string, bool, int64 or float64).
type Metadata map[string]any

// Collection is an immutable collection handle. The identity (ID) is assigned
// by the server; everything else is declared at creation time.
type Collection struct {
	id        string
	name      string
	tenant    string
	database  string
	metadata  Metadata
	dimension int
	distance  Distance
}

// ValidateName checks the collection naming rules:
// ^[a-zA-Z0-9_-]+$, 1-64 chars.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required: %w", domain.ErrValidation)
	}
	if len(name) > 64 {
		return fmt.Errorf("collection name too long (max 64): %w", domain.ErrValidation)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf(
			"collection name may only contain letters, numbers, underscores and hyphens: %w",
			domain.ErrValidation,
		)
	}
	return nil
}

// ValidateMetadata checks that all metadata values are scalars.
func ValidateMetadata(md Metadata) error {
	for k, v := range md {
		switch v.(type) {
		case string, bool, int, int64, float64, float32:
		default:
			return fmt.Errorf("metadata key %q has non-scalar value %T: %w", k, v, domain.ErrValidation)
		}
	}
	return nil
}

// New validates and creates a Collection prior to a create call.
// Name: ^[a-zA-Z0-9_-]+$, 1-64 chars. Dimension: > 0. Metadata: scalars only.
func New(name string, metadata Metadata, dimension int, distance Distance) (Collection, error) {
	if distance == "" {
		distance = DistanceL2
	}
	if !distance.IsValid() {
		return Collection{}, fmt.Errorf("invalid distance function %q: %w", distance, domain.ErrValidation)
	}
	if err := ValidateName(name); err != nil {
		return Collection{}, err
	}
	if dimension <= 0 {
		return Collection{}, fmt.Errorf("dimension must be positive, got %d: %w", dimension, domain.ErrValidation)
	}
	if err := ValidateMetadata(metadata); err != nil {
		return Collection{}, err
	}

	return Collection{
		name:      name,
		metadata:  metadata,
		dimension: dimension,
		distance:  distance,
	}, nil
}

// Reconstruct creates a Collection without validation (wire hydration).
func Reconstruct(
	id, name, tenant, database string,
	metadata Metadata, dimension int, distance Distance,
) Collection {
	if distance == "" {
		distance = DistanceL2
	}
	return Collection{
		id:        id,
		name:      name,
		tenant:    tenant,
		database:  database,
		metadata:  metadata,
		dimension: dimension,
		distance:  distance,
	}
}

// ID returns the server-assigned collection identity.
func (c Collection) ID() string { return c.id }

// Name returns the collection name.
func (c Collection) Name() string { return c.name }

// Tenant returns the owning tenant.
func (c Collection) Tenant() string { return c.tenant }

// Database returns the owning database.
func (c Collection) Database() string { return c.database }

// Metadata returns the collection metadata.
func (c Collection) Metadata() Metadata { return c.metadata }

// Dimension returns the declared embedding dimension.
func (c Collection) Dimension() int { return c.dimension }

// Distance returns the similarity space.
func (c Collection) Distance() Distance { return c.distance }
