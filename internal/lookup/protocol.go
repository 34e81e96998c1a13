package lookup

import (
	"TagALog/internal/core/model"
	"TagALog/internal/pkg/source"
	"io"
)

// ProtocolTable maps IANA protocol numbers to upper-cased protocol names.
// It is immutable once built.
type ProtocolTable struct {
	names    map[uint32]string
	fallback *ProtocolTable
	skipped  int
}

// NewProtocolTable builds a table from the given names, normalizing each one.
func NewProtocolTable(names map[uint32]string) *ProtocolTable {
	t := &ProtocolTable{names: make(map[uint32]string, len(names))}
	for proto, name := range names {
		t.names[proto] = source.Normalize(name)
	}
	return t
}

// Lookup returns the name for proto and whether it was found, consulting the
// fallback table when the primary one has no entry.
func (t *ProtocolTable) Lookup(proto uint32) (string, bool) {
	if name, ok := t.names[proto]; ok {
		return name, true
	}
	if t.fallback != nil {
		return t.fallback.Lookup(proto)
	}
	return "", false
}

// Name returns the name for proto, or model.UnknownProtocol.
func (t *ProtocolTable) Name(proto uint32) string {
	if name, ok := t.Lookup(proto); ok {
		return name
	}
	return model.UnknownProtocol
}

// Len returns the number of entries in the primary table.
func (t *ProtocolTable) Len() int {
	return len(t.names)
}

// Skipped returns the number of rows dropped while loading for having too few columns.
func (t *ProtocolTable) Skipped() int {
	return t.skipped
}

// WithFallback returns a copy of t that resolves numbers missing from t through fb.
func (t *ProtocolTable) WithFallback(fb *ProtocolTable) *ProtocolTable {
	return &ProtocolTable{names: t.names, fallback: fb, skipped: t.skipped}
}

// LoadProtocolTable reads a protocol map file with a header row followed by
// "number,name" rows.
func LoadProtocolTable(path string) (*ProtocolTable, error) {
	var table *ProtocolTable
	err := loadFile(path, func(r io.Reader, name string) error {
		var err error
		table, err = ReadProtocolTable(r, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// ReadProtocolTable parses a protocol map from r. name identifies the source in errors.
func ReadProtocolTable(r io.Reader, name string) (*ProtocolTable, error) {
	t := &ProtocolTable{names: make(map[uint32]string)}

	skipped, err := readTable(r, name, func(line int, row []string) (bool, error) {
		if len(row) < 2 {
			return false, nil
		}
		proto, err := source.ParseUint(name, line, 0, row[0], 32)
		if err != nil {
			return false, err
		}
		t.names[uint32(proto)] = source.Normalize(row[1])
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	t.skipped = skipped
	return t, nil
}
