package ports

import "rosiface/internal/types"

// MetricsPort receives registry events for instrumentation.
type MetricsPort interface {
	ComponentRegistered(component string)
	CacheHit(component string)
	CacheMiss(component string)
	ResolutionFailed(component string, kind types.ErrorKind)
}
