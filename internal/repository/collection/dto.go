package collection

import (
	domcol "github.com/chromalens/chromalens-go/internal/domain/collection"
)

// hnswDTO is the index configuration block of the wire collection.
type hnswDTO struct {
	Space     string `json:"space,omitempty"`
	Dimension int    `json:"dimension,omitempty"`
}

type configurationDTO struct {
	HNSW *hnswDTO `json:"hnsw,omitempty"`
}

type createRequest struct {
	Name          string            `json:"name"`
	Metadata      domcol.Metadata   `json:"metadata,omitempty"`
	Configuration *configurationDTO `json:"configuration,omitempty"`
	GetOrCreate   bool              `json:"get_or_create"`
}

type updateRequest struct {
	NewName     *string         `json:"new_name,omitempty"`
	NewMetadata domcol.Metadata `json:"new_metadata,omitempty"`
}

// collectionDTO is the wire representation of a collection.
type collectionDTO struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Tenant        string            `json:"tenant"`
	Database      string            `json:"database"`
	Metadata      domcol.Metadata   `json:"metadata"`
	Dimension     *int              `json:"dimension"`
	Configuration *configurationDTO `json:"configuration_json"`
}

// configurationToDTO serializes the client-declared index parameters.
func configurationToDTO(col domcol.Collection) *configurationDTO {
	hnsw := &hnswDTO{Space: string(col.Distance())}
	if col.Dimension() > 0 {
		hnsw.Dimension = col.Dimension()
	}
	return &configurationDTO{HNSW: hnsw}
}

// collectionFromDTO hydrates a domain collection. Servers that have not yet
// seen vectors report a null dimension; the configuration's declared
// dimension then stands in.
func collectionFromDTO(dto collectionDTO) (domcol.Collection, error) {
	dim := 0
	if dto.Dimension != nil {
		dim = *dto.Dimension
	}

	distance := domcol.DistanceL2
	if dto.Configuration != nil && dto.Configuration.HNSW != nil {
		if dto.Configuration.HNSW.Space != "" {
			distance = domcol.Distance(dto.Configuration.HNSW.Space)
		}
		if dim == 0 {
			dim = dto.Configuration.HNSW.Dimension
		}
	}

	return domcol.Reconstruct(dto.ID, dto.Name, dto.Tenant, dto.Database, dto.Metadata, dim, distance), nil
}
