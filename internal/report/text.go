package report

import (
	"bufio"
	"fmt"
	"io"
)

func init() {
	RegisterWriter("text", func() Writer { return &TextWriter{} })
}

// TextWriter renders the tag and port/protocol tables as labelled CSV sections.
type TextWriter struct{}

func (w *TextWriter) Write(out io.Writer, rep *Report) error {
	bw := bufio.NewWriter(out)

	fmt.Fprintln(bw, "Tag Counts:")
	fmt.Fprintln(bw, "Tag,Count")
	for _, row := range rep.TagCounts.Sorted() {
		fmt.Fprintf(bw, "%s,%d\n", row.Tag, row.Count)
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Port/Protocol Combination Counts:")
	fmt.Fprintln(bw, "Port,Protocol,Count")
	for _, row := range rep.PortProtocolCounts.Sorted() {
		fmt.Fprintf(bw, "%d,%s,%d\n", row.Port, row.Protocol, row.Count)
	}

	return bw.Flush()
}
