package app

import (
	"rosiface/internal/adapters"
	"rosiface/internal/core"
	"rosiface/internal/ports"
)

// Service wires descriptor sources, the registry and the output adapters
// behind the use cases of the CLI and the HTTP server.
type Service struct {
	Source   ports.DescriptorSourcePort
	Watcher  ports.DescriptorWatcherPort
	Exporter ports.ExportPort
	TextDiff ports.TextDiffPort
	Metrics  *adapters.PrometheusMetrics
	Registry *core.Registry
	Catalog  *Catalog
	Query    core.QueryAPI
}

func NewService() Service {
	metrics := adapters.NewPrometheusMetrics()
	registry := core.NewRegistry(metrics)
	catalog := NewCatalog(registry)
	return Service{
		Source:   adapters.NewDescriptorFileAdapter(),
		Watcher:  adapters.NewDescriptorWatcherAdapter(0),
		Exporter: adapters.NewDocumentExporter(),
		TextDiff: adapters.NewUnifiedDiffAdapter(),
		Metrics:  metrics,
		Registry: registry,
		Catalog:  catalog,
		Query:    core.NewQueryAPI(catalog),
	}
}
