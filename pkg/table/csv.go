package table

import (
	"encoding/csv"
	"io"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&CSVCodec{})
}

// CSVCodec reads and writes tables as RFC 4180 CSV with a header row.
type CSVCodec struct{}

func (c *CSVCodec) Name() string {
	return "csv"
}

func (c *CSVCodec) Extensions() []string {
	return []string{".csv"}
}

func (c *CSVCodec) Load(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, AppendRow pads

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Errorf("empty CSV file")
	}
	if err != nil {
		return nil, errors.Errorf("reading header: %w", err)
	}

	t := New(name, header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading record: %w", err)
		}
		if len(record) > len(header) {
			record = record[:len(header)]
		}
		if err := t.AppendRow(record); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (c *CSVCodec) Save(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Fields()); err != nil {
		return errors.Errorf("writing header: %w", err)
	}
	for _, row := range t.rows {
		if err := writer.Write(row); err != nil {
			return errors.Errorf("writing record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
