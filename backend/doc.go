// Package backend exposes the playground's languages as tool sources.
//
// Each language is a Backend whose tools run programs in that language.
// The package provides:
//
//   - Backend interface for tool sources
//   - Registry for managing backends and warming up their runtimes
//   - Aggregator for unified tool listing, execution and indexing
//
// # Registry
//
//	registry := backend.NewRegistry()
//	registry.Register(local.NewLanguage(pythonClient))
//	registry.Register(local.NewLanguage(jsClient))
//
//	// Load every runtime up front; failures are joined.
//	if err := registry.StartAll(ctx); err != nil {
//	    log.Println(err)
//	}
//
// # Aggregator
//
// Tool IDs have the form "language:tool":
//
//	agg := backend.NewAggregator(registry)
//	tools, _ := agg.ListAllTools(ctx)
//	result, _ := agg.Execute(ctx, "python:execute", map[string]any{"code": "print(1)"})
//
// BuildIndex loads every tool into an in-memory tooldiscovery index for
// search and lookup.
package backend
