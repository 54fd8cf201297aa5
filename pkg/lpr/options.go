package lpr

type config struct {
	path string
}

// Option configures a Runtime.
type Option func(*config)

// WithStorePath persists the session at the given SQLite path.
func WithStorePath(path string) Option {
	return func(c *config) { c.path = path }
}

// WithMemoryStore keeps the session in memory (the default).
func WithMemoryStore() Option {
	return func(c *config) { c.path = "" }
}
