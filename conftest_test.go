package chromalens

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// fakeServer is a minimal in-memory vector database speaking the v2 wire
// protocol, enough to run the client end to end.
type fakeServer struct {
	srv      *httptest.Server
	requests atomic.Int64

	mu          sync.Mutex
	collections map[string]*fakeCollection // keyed by name
	byID        map[string]*fakeCollection
}

type fakeCollection struct {
	id        string
	name      string
	dimension int
	space     string
	metadata  map[string]any
	items     []fakeItem
}

type fakeItem struct {
	id       string
	vector   []float32
	metadata map[string]any
	document *string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	fs := &fakeServer{
		collections: make(map[string]*fakeCollection),
		byID:        make(map[string]*fakeCollection),
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			fs.requests.Add(1)
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api/v2", func(r chi.Router) {
		r.Get("/heartbeat", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, map[string]int64{"nanosecond heartbeat": time.Now().UnixNano()})
		})
		r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, "1.0.0-fake")
		})
		r.Get("/pre-flight-checks", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, map[string]int{"max_batch_size": 100})
		})
		r.Get("/tenants/{tenant}/databases/{db}/collections_count", func(w http.ResponseWriter, _ *http.Request) {
			fs.mu.Lock()
			defer fs.mu.Unlock()
			writeJSON(w, len(fs.collections))
		})
		r.Route("/tenants/{tenant}/databases/{db}/collections", func(r chi.Router) {
			r.Post("/", fs.createCollection)
			r.Get("/", fs.listCollections)
			r.Get("/{name}", fs.getCollection)
			r.Delete("/{name}", fs.deleteCollection)
			r.Put("/{id}", fs.updateCollection)
			r.Post("/{id}/add", fs.writeItems(false))
			r.Post("/{id}/upsert", fs.writeItems(true))
			r.Post("/{id}/update", fs.writeItems(true))
			r.Post("/{id}/get", fs.getItems)
			r.Post("/{id}/delete", fs.deleteItems)
			r.Post("/{id}/query", fs.queryItems)
			r.Get("/{id}/count", fs.countItems)
		})
	})

	fs.srv = httptest.NewServer(r)
	t.Cleanup(fs.srv.Close)
	return fs
}

// newTestClient builds a Client against the fake server.
func newTestClient(t *testing.T, fs *fakeServer, opts ...Option) *Client {
	t.Helper()

	u, err := url.Parse(fs.srv.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse test server port: %v", err)
	}

	all := append([]Option{
		WithHost(u.Hostname()),
		WithPort(port),
		WithRetry(3, time.Millisecond),
	}, opts...)

	c, err := New(context.Background(), all...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

type wireCollection struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Tenant        string         `json:"tenant"`
	Database      string         `json:"database"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Dimension     *int           `json:"dimension"`
	Configuration map[string]any `json:"configuration_json"`
}

func (fs *fakeServer) wire(col *fakeCollection) wireCollection {
	var dim *int
	if col.dimension > 0 {
		d := col.dimension
		dim = &d
	}
	return wireCollection{
		ID: col.id, Name: col.name,
		Tenant: "default_tenant", Database: "default_database",
		Metadata:  col.metadata,
		Dimension: dim,
		Configuration: map[string]any{
			"hnsw": map[string]any{"space": col.space, "dimension": col.dimension},
		},
	}
}

func (fs *fakeServer) createCollection(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Name          string         `json:"name"`
		Metadata      map[string]any `json:"metadata"`
		Configuration struct {
			HNSW struct {
				Space     string `json:"space"`
				Dimension int    `json:"dimension"`
			} `json:"hnsw"`
		} `json:"configuration"`
		GetOrCreate bool `json:"get_or_create"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if existing, ok := fs.collections[body.Name]; ok {
		if body.GetOrCreate {
			writeJSON(w, fs.wire(existing))
			return
		}
		writeError(w, http.StatusConflict, "collection already exists")
		return
	}
	col := &fakeCollection{
		id: uuid.NewString(), name: body.Name,
		dimension: body.Configuration.HNSW.Dimension,
		space:     body.Configuration.HNSW.Space,
		metadata:  body.Metadata,
	}
	fs.collections[body.Name] = col
	fs.byID[col.id] = col
	writeJSON(w, fs.wire(col))
}

func (fs *fakeServer) listCollections(w http.ResponseWriter, req *http.Request) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(req.URL.Query().Get("offset"))

	fs.mu.Lock()
	defer fs.mu.Unlock()
	names := make([]string, 0, len(fs.collections))
	for name := range fs.collections {
		names = append(names, name)
	}
	sort.Strings(names)

	out := []wireCollection{}
	for i := offset; i < len(names) && (limit == 0 || len(out) < limit); i++ {
		out = append(out, fs.wire(fs.collections[names[i]]))
	}
	writeJSON(w, out)
}

func (fs *fakeServer) getCollection(w http.ResponseWriter, req *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	col, ok := fs.collections[chi.URLParam(req, "name")]
	if !ok {
		writeError(w, http.StatusNotFound, "collection not found")
		return
	}
	writeJSON(w, fs.wire(col))
}

func (fs *fakeServer) deleteCollection(w http.ResponseWriter, req *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	name := chi.URLParam(req, "name")
	col, ok := fs.collections[name]
	if !ok {
		writeError(w, http.StatusNotFound, "collection not found")
		return
	}
	delete(fs.collections, name)
	delete(fs.byID, col.id)
	writeJSON(w, true)
}

func (fs *fakeServer) updateCollection(w http.ResponseWriter, req *http.Request) {
	var body struct {
		NewName     *string        `json:"new_name"`
		NewMetadata map[string]any `json:"new_metadata"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	col, ok := fs.byID[chi.URLParam(req, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "collection not found")
		return
	}
	if body.NewName != nil {
		delete(fs.collections, col.name)
		col.name = *body.NewName
		fs.collections[col.name] = col
	}
	if body.NewMetadata != nil {
		col.metadata = body.NewMetadata
	}
	writeJSON(w, fs.wire(col))
}

func (fs *fakeServer) collectionByID(req *http.Request) *fakeCollection {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.byID[chi.URLParam(req, "id")]
}

type wireWrite struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float32      `json:"embeddings"`
	Metadatas  []map[string]any `json:"metadatas"`
	Documents  []*string        `json:"documents"`
}

func (fs *fakeServer) writeItems(replace bool) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		col := fs.collectionByID(req)
		if col == nil {
			writeError(w, http.StatusNotFound, "collection not found")
			return
		}
		var body wireWrite
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		fs.mu.Lock()
		defer fs.mu.Unlock()
		for i, id := range body.IDs {
			it := fakeItem{id: id}
			if i < len(body.Embeddings) {
				it.vector = body.Embeddings[i]
			}
			if i < len(body.Metadatas) {
				it.metadata = body.Metadatas[i]
			}
			if i < len(body.Documents) {
				it.document = body.Documents[i]
			}
			if idx := indexOf(col.items, id); idx >= 0 {
				if !replace {
					writeError(w, http.StatusUnprocessableEntity, "duplicate id "+id)
					return
				}
				col.items[idx] = it
				continue
			}
			col.items = append(col.items, it)
		}
		writeJSON(w, true)
	}
}

func indexOf(items []fakeItem, id string) int {
	for i, it := range items {
		if it.id == id {
			return i
		}
	}
	return -1
}

func (fs *fakeServer) getItems(w http.ResponseWriter, req *http.Request) {
	col := fs.collectionByID(req)
	if col == nil {
		writeError(w, http.StatusNotFound, "collection not found")
		return
	}
	var body struct {
		IDs    []string `json:"ids"`
		Limit  *int     `json:"limit"`
		Offset *int     `json:"offset"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	var selected []fakeItem
	if len(body.IDs) > 0 {
		for _, id := range body.IDs {
			if idx := indexOf(col.items, id); idx >= 0 {
				selected = append(selected, col.items[idx])
			}
		}
	} else {
		selected = col.items
		if body.Offset != nil {
			if *body.Offset >= len(selected) {
				selected = nil
			} else {
				selected = selected[*body.Offset:]
			}
		}
		if body.Limit != nil && *body.Limit < len(selected) {
			selected = selected[:*body.Limit]
		}
	}

	out := wireWrite{IDs: []string{}, Embeddings: [][]float32{}, Metadatas: []map[string]any{}, Documents: []*string{}}
	for _, it := range selected {
		out.IDs = append(out.IDs, it.id)
		out.Embeddings = append(out.Embeddings, it.vector)
		out.Metadatas = append(out.Metadatas, it.metadata)
		out.Documents = append(out.Documents, it.document)
	}
	writeJSON(w, out)
}

func (fs *fakeServer) deleteItems(w http.ResponseWriter, req *http.Request) {
	col := fs.collectionByID(req)
	if col == nil {
		writeError(w, http.StatusNotFound, "collection not found")
		return
	}
	var body struct {
		IDs   []string       `json:"ids"`
		Where map[string]any `json:"where"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	keep := col.items[:0]
	for _, it := range col.items {
		if matchesDelete(it, body.IDs, body.Where) {
			continue
		}
		keep = append(keep, it)
	}
	col.items = keep
	writeJSON(w, true)
}

func matchesDelete(it fakeItem, ids []string, where map[string]any) bool {
	for _, id := range ids {
		if it.id == id {
			return true
		}
	}
	for k, v := range where {
		if it.metadata != nil && it.metadata[k] == v {
			return true
		}
	}
	return false
}

func (fs *fakeServer) countItems(w http.ResponseWriter, req *http.Request) {
	col := fs.collectionByID(req)
	if col == nil {
		writeError(w, http.StatusNotFound, "collection not found")
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	writeJSON(w, len(col.items))
}

func (fs *fakeServer) queryItems(w http.ResponseWriter, req *http.Request) {
	col := fs.collectionByID(req)
	if col == nil {
		writeError(w, http.StatusNotFound, "collection not found")
		return
	}
	var body struct {
		QueryEmbeddings [][]float32    `json:"query_embeddings"`
		NResults        int            `json:"n_results"`
		Where           map[string]any `json:"where"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	resp := struct {
		IDs        [][]string         `json:"ids"`
		Distances  [][]float64        `json:"distances"`
		Embeddings [][][]float32      `json:"embeddings"`
		Metadatas  [][]map[string]any `json:"metadatas"`
		Documents  [][]*string        `json:"documents"`
	}{}
	for _, qv := range body.QueryEmbeddings {
		type scored struct {
			item fakeItem
			dist float64
		}
		var matches []scored
		for _, it := range col.items {
			if !whereMatches(it, body.Where) {
				continue
			}
			matches = append(matches, scored{item: it, dist: l2(qv, it.vector)})
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })
		if body.NResults > 0 && len(matches) > body.NResults {
			matches = matches[:body.NResults]
		}

		ids, dists := []string{}, []float64{}
		embs, metas, docs := [][]float32{}, []map[string]any{}, []*string{}
		for _, m := range matches {
			ids = append(ids, m.item.id)
			dists = append(dists, m.dist)
			embs = append(embs, m.item.vector)
			metas = append(metas, m.item.metadata)
			docs = append(docs, m.item.document)
		}
		resp.IDs = append(resp.IDs, ids)
		resp.Distances = append(resp.Distances, dists)
		resp.Embeddings = append(resp.Embeddings, embs)
		resp.Metadatas = append(resp.Metadatas, metas)
		resp.Documents = append(resp.Documents, docs)
	}
	writeJSON(w, resp)
}

func whereMatches(it fakeItem, where map[string]any) bool {
	for k, v := range where {
		if it.metadata == nil || it.metadata[k] != v {
			return false
		}
	}
	return true
}

func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		if i >= len(b) {
			break
		}
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
