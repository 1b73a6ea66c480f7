package chromalens

// Distance selects the similarity space of a collection.
type Distance string

// Distance function constants.
const (
	DistanceL2     Distance = "l2"
	DistanceCosine Distance = "cosine"
	DistanceIP     Distance = "ip"
)

// Metadata maps string keys to scalar values (string, bool, int or float).
type Metadata map[string]any

// Where filters items by metadata, using the server's filter operators
// (e.g. {"lang": "en"} or {"year": {"$gte": 2020}}).
type Where map[string]any

// WhereDocument filters items by document content
// (e.g. {"$contains": "vector"}).
type WhereDocument map[string]any

// Include selects which columns the server returns on reads.
type Include string

// Include constants.
const (
	IncludeEmbeddings Include = "embeddings"
	IncludeMetadatas  Include = "metadatas"
	IncludeDocuments  Include = "documents"
	IncludeDistances  Include = "distances"
)

// CollectionInfo represents collection metadata.
type CollectionInfo struct {
	ID        string
	Name      string
	Tenant    string
	Database  string
	Metadata  Metadata
	Dimension int
	Distance  Distance
}

// Item is a single vector record. ID is required everywhere except Add,
// where an empty ID is filled with a generated UUID.
type Item struct {
	ID       string
	Vector   []float32
	Metadata Metadata
	Document string
}

// ScoredItem is a single query hit.
type ScoredItem struct {
	Item     Item
	Distance float64
}

// GetResult is the outcome of fetching items by id.
type GetResult struct {
	Items   []Item
	Missing []string
}

// DeleteResult is the outcome of deleting items by id.
type DeleteResult struct {
	Deleted []string
	Missing []string
}

// ListResult is one page of items.
type ListResult struct {
	Items      []Item
	NextCursor string
}

// CollectionListResult is one page of collections.
type CollectionListResult struct {
	Collections []CollectionInfo
	NextCursor  string
}

// Identity describes the authenticated caller as the server sees it.
type Identity struct {
	UserID    string
	Tenant    string
	Databases []string
}

// DatabaseInfo represents a database within a tenant.
type DatabaseInfo struct {
	ID     string
	Name   string
	Tenant string
}
