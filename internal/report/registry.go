package report

import (
	"fmt"
	"sort"
)

// Factory creates a Writer for one output format.
type Factory func() Writer

// registry holds the mapping of output formats to their factory functions.
var registry = make(map[string]Factory)

// RegisterWriter registers a new output format with its factory function.
func RegisterWriter(format string, factory Factory) {
	if _, exists := registry[format]; exists {
		panic(fmt.Sprintf("report format '%s' already registered", format))
	}
	registry[format] = factory
}

// NewWriter returns a Writer for the given format.
func NewWriter(format string) (Writer, error) {
	factory, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("unknown report format: '%s'", format)
	}
	return factory(), nil
}

// Formats lists the registered output formats in sorted order.
func Formats() []string {
	formats := make([]string, 0, len(registry))
	for format := range registry {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}
