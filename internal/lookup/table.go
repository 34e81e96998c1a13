// Package lookup loads the reference tables used to resolve protocol numbers
// and port/protocol pairs during aggregation.
package lookup

import (
	"TagALog/internal/pkg/source"
	"io"
)

// rowFunc handles one data row of a reference table. It reports whether the
// row was used; unused rows are counted as skipped.
type rowFunc func(line int, row []string) (bool, error)

// readTable reads a comma-delimited table, discards the header row and hands
// every following row to fn. It returns the number of rows fn declined.
func readTable(r io.Reader, name string, fn rowFunc) (int, error) {
	cr := source.NewReader(r, ',')

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, source.WrapReadError(name, err)
	}

	skipped := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return skipped, nil
		}
		if err != nil {
			return skipped, source.WrapReadError(name, err)
		}

		line, _ := cr.FieldPos(0)
		used, err := fn(line, row)
		if err != nil {
			return skipped, err
		}
		if !used {
			skipped++
		}
	}
}

// loadFile opens path and feeds it to read, closing the file on every path.
func loadFile(path string, read func(io.Reader, string) error) error {
	f, err := source.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return read(f, path)
}
