package chromalens

// CollectionOption configures collection creation.
type CollectionOption interface {
	applyCollection(*collectionConfig)
}

// collectionOptionFunc adapts a function to the CollectionOption interface.
type collectionOptionFunc func(*collectionConfig)

func (f collectionOptionFunc) applyCollection(c *collectionConfig) { f(c) }

type collectionConfig struct {
	dimension int
	distance  Distance
	metadata  Metadata
}

// WithDimension declares the embedding dimension of the collection.
// Every vector written to or queried against it must match.
func WithDimension(dim int) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		c.dimension = dim
	})
}

// WithDistance sets the similarity space. Default: DistanceL2.
func WithDistance(d Distance) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		c.distance = d
	})
}

// WithCollectionMetadata attaches scalar metadata to the collection.
func WithCollectionMetadata(md Metadata) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		c.metadata = md
	})
}
