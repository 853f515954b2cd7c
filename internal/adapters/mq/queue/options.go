package queue

// Option applies a configuration option to an InMemoryQueue.
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity sets the maximum number of buffered items.
func WithCapacity(capacity int) Option {
	return func(c *config) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}
