package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	once      bool
	watch     bool
	logOutput io.Writer
	version   string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOnce runs a single sweep regardless of app.sweeps.
func WithOnce(once bool) Option {
	return func(a *application) {
		a.once = once
	}
}

// WithWatch enables the change watcher in addition to app.watch.
func WithWatch(watch bool) Option {
	return func(a *application) {
		a.watch = a.watch || watch
	}
}

// WithLogOutput redirects the JSON log stream, overriding app.log_file.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}
