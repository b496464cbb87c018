package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/forest-cover-service/internal/domain"
)

// Block kinds supported in a column transformer export.
const (
	KindStandardScaler = "standard_scaler"
	KindMinMaxScaler   = "min_max_scaler"
	KindPassthrough    = "passthrough"
)

// TransformerFormat identifies the JSON export layout.
const TransformerFormat = "column_transformer/v1"

// Block is one fitted sub-transform applied to a set of named columns.
//
//	standard_scaler: (x - mean) / scale   (mean defaults to 0, scale to 1)
//	min_max_scaler:  x*scale + min
//	passthrough:     x
type Block struct {
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean,omitempty"`
	Min     []float64 `json:"min,omitempty"`
	Scale   []float64 `json:"scale,omitempty"`
}

// ColumnTransformer concatenates the outputs of its blocks in order, the
// layout a fitted scikit-learn ColumnTransformer produces. Columns not named
// by any block are dropped.
type ColumnTransformer struct {
	Format string  `json:"format"`
	Blocks []Block `json:"blocks"`

	width int
}

// LoadColumnTransformer reads and validates a JSON export.
func LoadColumnTransformer(path string) (*ColumnTransformer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preprocessor: %w", err)
	}
	var ct ColumnTransformer
	if err := json.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("decode preprocessor: %w", err)
	}
	if err := ct.init(); err != nil {
		return nil, fmt.Errorf("invalid preprocessor %s: %w", path, err)
	}
	return &ct, nil
}

// NewColumnTransformer validates blocks built in code.
func NewColumnTransformer(blocks ...Block) (*ColumnTransformer, error) {
	ct := &ColumnTransformer{Format: TransformerFormat, Blocks: blocks}
	if err := ct.init(); err != nil {
		return nil, err
	}
	return ct, nil
}

func (ct *ColumnTransformer) init() error {
	if ct.Format != TransformerFormat {
		return fmt.Errorf("unsupported format %q", ct.Format)
	}
	if len(ct.Blocks) == 0 {
		return errors.New("no blocks")
	}
	ct.width = 0
	for i, b := range ct.Blocks {
		if err := b.validate(); err != nil {
			return fmt.Errorf("block %d (%s): %w", i, b.Name, err)
		}
		ct.width += len(b.Columns)
	}
	return nil
}

func (b Block) validate() error {
	n := len(b.Columns)
	if n == 0 {
		return errors.New("no columns")
	}
	checkLen := func(field string, v []float64, required bool) error {
		if v == nil && !required {
			return nil
		}
		if len(v) != n {
			return fmt.Errorf("%s has %d values for %d columns", field, len(v), n)
		}
		return nil
	}

	switch b.Kind {
	case KindStandardScaler:
		if err := checkLen("mean", b.Mean, false); err != nil {
			return err
		}
		if err := checkLen("scale", b.Scale, false); err != nil {
			return err
		}
		for i, s := range b.Scale {
			if s == 0 {
				return fmt.Errorf("zero scale for column %q", b.Columns[i])
			}
		}
	case KindMinMaxScaler:
		if err := checkLen("min", b.Min, true); err != nil {
			return err
		}
		if err := checkLen("scale", b.Scale, true); err != nil {
			return err
		}
	case KindPassthrough:
	default:
		return fmt.Errorf("unknown kind %q", b.Kind)
	}
	return nil
}

// NumOutputs is the width of every transformed row.
func (ct *ColumnTransformer) NumOutputs() int {
	return ct.width
}

// Transform applies every block to every row. A column named by a block but
// absent from f yields a *domain.MissingColumnError.
func (ct *ColumnTransformer) Transform(f domain.Frame) ([][]float64, error) {
	idx := make([][]int, len(ct.Blocks))
	for bi, b := range ct.Blocks {
		idx[bi] = make([]int, len(b.Columns))
		for ci, col := range b.Columns {
			pos := f.Index(col)
			if pos < 0 {
				return nil, &domain.MissingColumnError{Column: col}
			}
			idx[bi][ci] = pos
		}
	}

	out := make([][]float64, len(f.Rows))
	for r, row := range f.Rows {
		vec := make([]float64, 0, ct.width)
		for bi, b := range ct.Blocks {
			for ci, pos := range idx[bi] {
				vec = append(vec, b.apply(ci, row[pos]))
			}
		}
		out[r] = vec
	}
	return out, nil
}

func (b Block) apply(i int, x float64) float64 {
	switch b.Kind {
	case KindStandardScaler:
		if b.Mean != nil {
			x -= b.Mean[i]
		}
		if b.Scale != nil {
			x /= b.Scale[i]
		}
		return x
	case KindMinMaxScaler:
		return x*b.Scale[i] + b.Min[i]
	default:
		return x
	}
}
