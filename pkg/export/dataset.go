package export

import "fmt"

// Dataset is an ordered table. Rows are positional so two columns may share a
// header label without colliding.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// Validate reports rows whose width differs from the header.
func (d Dataset) Validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(d.Headers))
		}
	}
	return nil
}
