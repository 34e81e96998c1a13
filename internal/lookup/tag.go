package lookup

import (
	"TagALog/internal/core/model"
	"TagALog/internal/pkg/source"
	"io"
)

// TagTable maps a destination port and protocol name to a tag.
// Keys and tags are stored upper-cased.
type TagTable struct {
	tags    map[model.PortProtocol]string
	skipped int
}

// NewTagTable builds a table from the given entries, normalizing protocol names and tags.
func NewTagTable(entries map[model.PortProtocol]string) *TagTable {
	t := &TagTable{tags: make(map[model.PortProtocol]string, len(entries))}
	for key, tag := range entries {
		key.Protocol = source.Normalize(key.Protocol)
		t.tags[key] = source.Normalize(tag)
	}
	return t
}

// Lookup returns the tag for the port/protocol pair and whether it was found.
func (t *TagTable) Lookup(port uint32, protocol string) (string, bool) {
	tag, ok := t.tags[model.PortProtocol{Port: port, Protocol: source.Normalize(protocol)}]
	return tag, ok
}

// Tag returns the tag for the port/protocol pair, or model.Untagged.
func (t *TagTable) Tag(port uint32, protocol string) string {
	if tag, ok := t.Lookup(port, protocol); ok {
		return tag
	}
	return model.Untagged
}

// Len returns the number of entries.
func (t *TagTable) Len() int {
	return len(t.tags)
}

// Skipped returns the number of rows dropped while loading for not having exactly three columns.
func (t *TagTable) Skipped() int {
	return t.skipped
}

// LoadTagTable reads a lookup table file with a header row followed by
// "dstport,protocol,tag" rows.
func LoadTagTable(path string) (*TagTable, error) {
	var table *TagTable
	err := loadFile(path, func(r io.Reader, name string) error {
		var err error
		table, err = ReadTagTable(r, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// ReadTagTable parses a lookup table from r. name identifies the source in errors.
func ReadTagTable(r io.Reader, name string) (*TagTable, error) {
	t := &TagTable{tags: make(map[model.PortProtocol]string)}

	skipped, err := readTable(r, name, func(line int, row []string) (bool, error) {
		if len(row) != 3 {
			return false, nil
		}
		port, err := source.ParseUint(name, line, 0, row[0], 32)
		if err != nil {
			return false, err
		}
		key := model.PortProtocol{Port: uint32(port), Protocol: source.Normalize(row[1])}
		t.tags[key] = source.Normalize(row[2])
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	t.skipped = skipped
	return t, nil
}
