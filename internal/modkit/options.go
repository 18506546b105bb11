package modkit

import "io"

// Option mutates build configuration for a module
type Option func(*buildCfg)

// buildCfg is internal wiring state for options
type buildCfg struct {
	name     string
	ports    any
	progress io.Writer
	tty      *bool
}

// WithName sets a module name used in logs and registry
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPorts injects cross module ports declared by another module
// the concrete type is owned by the importing module
func WithPorts[T any](p T) Option {
	return func(c *buildCfg) { c.ports = p }
}

// WithProgressWriter routes progress output to w instead of stdout
func WithProgressWriter(w io.Writer) Option {
	return func(c *buildCfg) { c.progress = w }
}

// WithTTY forces terminal detection for the progress writer
func WithTTY(on bool) Option {
	return func(c *buildCfg) { c.tty = &on }
}
