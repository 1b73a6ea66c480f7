// Package chromalens provides a typed Go client for ChromaDB-compatible
// vector database servers (v2 REST API).
//
// # Low-level API
//
//	client, _ := chromalens.New(ctx,
//	    chromalens.WithHost("localhost"), chromalens.WithPort(8000),
//	)
//	defer client.Close()
//
//	client.Collections().Create(ctx, "docs",
//	    chromalens.WithDimension(384), chromalens.WithDistance(chromalens.DistanceCosine),
//	)
//	client.Items("docs").Upsert(ctx, items)
//	results, _ := client.Query("docs").Search(ctx, vector, 10)
//
// # High-level API, schema-first with Go generics
//
//	type Article struct {
//	    ID    string    `chromalens:"id,id"`
//	    Text  string    `chromalens:"text,document"`
//	    Embed []float32 `chromalens:"embedding,vector"`
//	    Lang  string    `chromalens:"lang"`
//	}
//
//	idx, _ := chromalens.NewIndex[Article](client, "articles", chromalens.WithDimension(384))
//	_ = idx.Ensure(ctx)
//	_ = idx.UpsertBatch(ctx, articles)
//	hits, _ := idx.Search().Vector(v).TopK(5).Where("lang", "en").Do(ctx)
//
// All errors are classified: check them with errors.Is against the package
// sentinels (ErrNotFound, ErrValidation, ErrConnection, ...).
package chromalens
