package pipeline

import (
	"encoding/csv"
	"errors"
	"io"
	"slices"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// NameColumn is the required input column.
const NameColumn = "business_name"

type nameRow struct {
	BusinessName string `csv:"business_name"`
}

// ReadNames reads the business_name column of a CSV, dropping blank cells.
func ReadNames(r io.Reader) ([]string, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eris.New("csv: input is empty")
		}
		return nil, eris.Wrap(err, "csv: read header")
	}
	if !slices.Contains(dec.Header(), NameColumn) {
		return nil, eris.Errorf("csv: missing %q column", NameColumn)
	}

	var names []string
	for {
		var row nameRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrap(err, "csv: decode row")
		}
		if strings.TrimSpace(row.BusinessName) == "" {
			continue
		}
		names = append(names, row.BusinessName)
	}
	return names, nil
}

// WriteRows writes rows with a header line, even when rows is empty.
func WriteRows(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(model.Row{}); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	if len(rows) > 0 {
		if err := enc.Encode(rows); err != nil {
			return eris.Wrap(err, "csv: write rows")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "csv: flush")
}
