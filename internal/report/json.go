package report

import (
	"TagALog/internal/core/model"
	"encoding/json"
	"io"
	"time"
)

func init() {
	RegisterWriter("json", func() Writer { return &JSONWriter{} })
}

// TagRow is one entry of Document.TagCounts.
type TagRow struct {
	Tag   string `json:"tag"`
	Count uint64 `json:"count"`
}

// PortProtocolRow is one entry of Document.PortProtocolCounts.
type PortProtocolRow struct {
	Port     uint32 `json:"port"`
	Protocol string `json:"protocol"`
	Count    uint64 `json:"count"`
}

// Document is the JSON form of a report.
type Document struct {
	RunID              string            `json:"run_id"`
	GeneratedAt        string            `json:"generated_at"`
	TagCounts          []TagRow          `json:"tag_counts"`
	PortProtocolCounts []PortProtocolRow `json:"port_protocol_counts"`
	Diagnostics        model.Diagnostics `json:"diagnostics"`
}

// JSONWriter renders a report as a single indented JSON document.
type JSONWriter struct{}

func (w *JSONWriter) Write(out io.Writer, rep *Report) error {
	doc := Document{
		RunID:              rep.RunID,
		GeneratedAt:        rep.GeneratedAt.UTC().Format(time.RFC3339),
		TagCounts:          []TagRow{},
		PortProtocolCounts: []PortProtocolRow{},
		Diagnostics:        rep.Diagnostics,
	}
	for _, row := range rep.TagCounts.Sorted() {
		doc.TagCounts = append(doc.TagCounts, TagRow{Tag: row.Tag, Count: row.Count})
	}
	for _, row := range rep.PortProtocolCounts.Sorted() {
		doc.PortProtocolCounts = append(doc.PortProtocolCounts, PortProtocolRow{
			Port:     row.Port,
			Protocol: row.Protocol,
			Count:    row.Count,
		})
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
