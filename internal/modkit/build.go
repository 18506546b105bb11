package modkit

import (
	"io"
	"os"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name     string
	Ports    any
	Progress io.Writer
	// TTY is nil when the caller left detection to the module
	TTY *bool
}

// Build applies Option funcs to an internal buildCfg and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.progress == nil {
		c.progress = os.Stdout
	}
	return Built{
		Name:     c.name,
		Ports:    c.ports,
		Progress: c.progress,
		TTY:      c.tty,
	}
}
