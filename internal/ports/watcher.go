package ports

import "context"

// DescriptorWatcherPort reports descriptor files that changed on disk.
type DescriptorWatcherPort interface {
	// Watch emits batches of changed file paths until ctx is done.
	Watch(ctx context.Context, paths []string) (<-chan []string, error)
}
