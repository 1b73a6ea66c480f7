package item

import (
	"github.com/chromalens/chromalens-go/internal/domain/collection"
	domitem "github.com/chromalens/chromalens-go/internal/domain/item"
	"github.com/chromalens/chromalens-go/internal/domain/query"
)

// writeRequest is the columnar payload for add/update/upsert.
type writeRequest struct {
	IDs        []string              `json:"ids"`
	Embeddings [][]float32           `json:"embeddings"`
	Metadatas  []collection.Metadata `json:"metadatas,omitempty"`
	Documents  []*string             `json:"documents,omitempty"`
}

// getRequest selects items by id and/or filter.
type getRequest struct {
	IDs           []string            `json:"ids,omitempty"`
	Where         query.Where         `json:"where,omitempty"`
	WhereDocument query.WhereDocument `json:"where_document,omitempty"`
	Limit         *int                `json:"limit,omitempty"`
	Offset        *int                `json:"offset,omitempty"`
	Include       []query.Include     `json:"include,omitempty"`
}

// getResponse is the columnar result of a get.
type getResponse struct {
	IDs        []string              `json:"ids"`
	Embeddings [][]float32           `json:"embeddings"`
	Metadatas  []collection.Metadata `json:"metadatas"`
	Documents  []*string             `json:"documents"`
}

// deleteRequest selects items to delete.
type deleteRequest struct {
	IDs           []string            `json:"ids,omitempty"`
	Where         query.Where         `json:"where,omitempty"`
	WhereDocument query.WhereDocument `json:"where_document,omitempty"`
}

// queryRequest is the wire form of a nearest-neighbour search.
type queryRequest struct {
	QueryEmbeddings [][]float32         `json:"query_embeddings"`
	NResults        int                 `json:"n_results"`
	Where           query.Where         `json:"where,omitempty"`
	WhereDocument   query.WhereDocument `json:"where_document,omitempty"`
	Include         []query.Include     `json:"include,omitempty"`
}

// queryResponse is columnar per query vector: the outer index is the query
// vector, the inner index the result rank.
type queryResponse struct {
	IDs        [][]string              `json:"ids"`
	Distances  [][]float64             `json:"distances"`
	Embeddings [][][]float32           `json:"embeddings"`
	Metadatas  [][]collection.Metadata `json:"metadatas"`
	Documents  [][]*string             `json:"documents"`
}

// itemsToColumns splits row items into the columnar wire layout.
func itemsToColumns(items []domitem.Item) writeRequest {
	req := writeRequest{
		IDs:        make([]string, len(items)),
		Embeddings: make([][]float32, len(items)),
		Metadatas:  make([]collection.Metadata, len(items)),
		Documents:  make([]*string, len(items)),
	}
	for i, it := range items {
		req.IDs[i] = it.ID()
		req.Embeddings[i] = it.Vector()
		req.Metadatas[i] = it.Metadata()
		if doc := it.Document(); doc != "" {
			d := doc
			req.Documents[i] = &d
		}
	}
	return req
}

// columnsToItems zips a columnar get result back into row items. Columns the
// server did not include are nil and yield zero values.
func columnsToItems(resp getResponse) []domitem.Item {
	items := make([]domitem.Item, len(resp.IDs))
	for i, id := range resp.IDs {
		items[i] = domitem.Reconstruct(
			id,
			column(resp.Embeddings, i),
			column(resp.Metadatas, i),
			document(resp.Documents, i),
		)
	}
	return items
}

// scoredFromColumns zips one query vector's result columns into scored items.
func scoredFromColumns(resp queryResponse, q int) []query.Scored {
	ids := resp.IDs[q]
	distances := column(resp.Distances, q)
	out := make([]query.Scored, len(ids))
	for i, id := range ids {
		it := domitem.Reconstruct(
			id,
			column(column(resp.Embeddings, q), i),
			column(column(resp.Metadatas, q), i),
			document(column(resp.Documents, q), i),
		)
		out[i] = query.NewScored(it, column(distances, i))
	}
	return out
}

// column returns col[i], or the zero value when the column is missing or
// shorter than the id column.
func column[T any](col []T, i int) T {
	var zero T
	if i >= len(col) {
		return zero
	}
	return col[i]
}

func document(col []*string, i int) string {
	d := column(col, i)
	if d == nil {
		return ""
	}
	return *d
}
