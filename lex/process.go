package lex

import (
	"context"

	"github.com/bluesky-social/blexicon/atproto/lexicon"

	"golang.org/x/sync/errgroup"
)

// Raw schema document, as read from a file or other source.
type Document struct {
	Name string
	Raw  []byte
}

// Decodes and generates a batch of documents, returning one Result per document in input order.
//
// A document which fails to decode (or render) gets Result.Err set; other documents are unaffected. Every
// successfully decoded document is added to a catalog before generation starts, so references between documents
// in the batch resolve. References not found in the batch fall back to the Generator's Catalog, if it has one.
//
// Up to workers documents are processed concurrently. Cancelling ctx stops new documents from starting; those
// get the context error.
func (g *Generator) ProcessDocuments(ctx context.Context, docs []Document, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(docs))
	files := make([]*lexicon.SchemaFile, len(docs))

	eachDoc(ctx, len(docs), workers, func(i int) {
		results[i].Name = docs[i].Name
		sf, err := lexicon.UnmarshalSchemaFile(docs[i].Raw)
		if err != nil {
			results[i].Err = err
			return
		}
		files[i] = sf
	}, func(i int, err error) {
		results[i].Name = docs[i].Name
		results[i].Err = err
	})

	bc := lexicon.NewBaseCatalog()
	for i, sf := range files {
		if sf == nil {
			continue
		}
		if err := bc.AddSchemaFile(sf); err != nil {
			g.logger().Warn("schema document not added to catalog", "name", docs[i].Name, "id", sf.ID, "err", err)
		}
	}
	var cat lexicon.Catalog = bc
	if g.Catalog != nil {
		cat = &lexicon.LayeredCatalog{Base: bc, Fallback: g.Catalog}
	}

	eachDoc(ctx, len(docs), workers, func(i int) {
		if files[i] == nil {
			return
		}
		res, err := g.generate(files[i], cat)
		if err != nil {
			results[i].Err = err
			return
		}
		res.Name = docs[i].Name
		results[i] = *res
	}, func(i int, err error) {
		if results[i].Err == nil {
			results[i].Err = err
		}
	})
	return results
}

// Runs fn for indexes [0, n) with at most workers running at once. Each index writes only its own slot, so
// output order never depends on completion order. Indexes not started before ctx is done get skip instead.
func eachDoc(ctx context.Context, n, workers int, fn func(i int), skip func(i int, err error)) {
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			skip(i, err)
			continue
		}
		eg.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = eg.Wait()
}
