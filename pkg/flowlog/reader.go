package flowlog

import (
	"TagALog/internal/core/model"
	"TagALog/internal/pkg/source"
	"encoding/csv"
	"io"
	"iter"
	"net"
	"os"
)

// Column positions in a flow log row (0-based).
const (
	srcAddrIndex  = 3
	dstAddrIndex  = 4
	dstPortIndex  = 6
	protocolIndex = 7
)

// Option configures a Reader.
type Option func(*Reader)

// WithAddresses makes the reader also populate the source and destination
// addresses of each record.
func WithAddresses() Option {
	return func(r *Reader) { r.withAddresses = true }
}

// Reader reads flow records from a space-separated flow log without a header.
type Reader struct {
	name          string
	file          *os.File
	csv           *csv.Reader
	withAddresses bool

	consumed bool
	accepted int
	skipped  int
	err      error
}

// NewReader opens the flow log at filePath.
func NewReader(filePath string, opts ...Option) (*Reader, error) {
	f, err := source.Open(filePath)
	if err != nil {
		return nil, err
	}
	r := FromReader(f, filePath, opts...)
	r.file = f
	return r, nil
}

// FromReader reads flow records from an already open stream. name identifies
// the stream in errors. Closing the stream is up to the caller.
func FromReader(in io.Reader, name string, opts ...Option) *Reader {
	r := &Reader{
		name: name,
		csv:  source.NewReader(in, ' '),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Close releases the underlying file, if the reader opened one.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Records returns a single-use sequence over the flow log. Records are decoded
// one row at a time; ranging over the sequence a second time yields nothing.
// Rows with too few columns are skipped. Iteration stops at the first read or
// decode error, which is then reported by Err.
func (r *Reader) Records() iter.Seq[model.FlowRecord] {
	return func(yield func(model.FlowRecord) bool) {
		if r.consumed {
			return
		}
		r.consumed = true

		for {
			row, err := r.csv.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				r.err = source.WrapReadError(r.name, err)
				return
			}

			if !hasRequiredColumns(row) {
				r.skipped++
				continue
			}

			line, _ := r.csv.FieldPos(0)
			record, err := r.decode(line, row)
			if err != nil {
				r.err = err
				return
			}
			r.accepted++

			if !yield(record) {
				return
			}
		}
	}
}

// Err returns the error that stopped iteration, if any.
func (r *Reader) Err() error {
	return r.err
}

// Accepted returns the number of records yielded so far.
func (r *Reader) Accepted() int {
	return r.accepted
}

// Skipped returns the number of rows dropped for having too few columns.
func (r *Reader) Skipped() int {
	return r.skipped
}

// hasRequiredColumns is the single acceptance rule for flow log rows.
func hasRequiredColumns(row []string) bool {
	return len(row) > protocolIndex
}

func (r *Reader) decode(line int, row []string) (model.FlowRecord, error) {
	var record model.FlowRecord

	port, err := source.ParseUint(r.name, line, dstPortIndex, row[dstPortIndex], 32)
	if err != nil {
		return record, err
	}
	proto, err := source.ParseUint(r.name, line, protocolIndex, row[protocolIndex], 32)
	if err != nil {
		return record, err
	}
	record.DstPort = uint32(port)
	record.Protocol = uint32(proto)

	if r.withAddresses {
		// Rows without address data carry "-" here, which leaves the field nil.
		record.SrcIP = net.ParseIP(row[srcAddrIndex])
		record.DstIP = net.ParseIP(row[dstAddrIndex])
	}

	return record, nil
}
