package algorithms

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"filterlab/internal/models"
)

// Parameters holds operator settings as they arrive from YAML, the CLI or the GUI. Values may be
// typed numbers or their string form; the getters coerce and validate.
type Parameters map[string]interface{}

// Merge returns a copy of p with every key of overrides replacing p's value.
func (p Parameters) Merge(overrides Parameters) Parameters {
	out := make(Parameters, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func (p Parameters) Has(name string) bool {
	_, ok := p[name]
	return ok
}

func (p Parameters) Int(name string) (int, error) {
	v, ok := p[name]
	if !ok {
		return 0, models.NewValidationError(name, nil, "missing parameter")
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, models.NewValidationError(name, v, "expected an integer")
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, models.NewValidationError(name, v, "expected an integer")
		}
		return i, nil
	default:
		return 0, models.NewValidationError(name, v, fmt.Sprintf("unsupported type %T", v))
	}
}

func (p Parameters) Float(name string) (float64, error) {
	v, ok := p[name]
	if !ok {
		return 0, models.NewValidationError(name, nil, "missing parameter")
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, models.NewValidationError(name, v, "expected a number")
		}
		return f, nil
	default:
		return 0, models.NewValidationError(name, v, fmt.Sprintf("unsupported type %T", v))
	}
}

func (p Parameters) Text(name string) (string, error) {
	v, ok := p[name]
	if !ok {
		return "", models.NewValidationError(name, nil, "missing parameter")
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v), nil
	}
	return s, nil
}

// Matrix reads a rectangular numeric matrix. Besides nested slices it accepts the compact
// string form "a,b,c;d,e,f" used on the command line.
func (p Parameters) Matrix(name string) ([][]float64, error) {
	v, ok := p[name]
	if !ok {
		return nil, models.NewValidationError(name, nil, "missing parameter")
	}

	switch m := v.(type) {
	case [][]float64:
		return m, nil
	case [][]int:
		out := make([][]float64, len(m))
		for i, row := range m {
			out[i] = make([]float64, len(row))
			for j, c := range row {
				out[i][j] = float64(c)
			}
		}
		return out, nil
	case string:
		return parseMatrix(name, m)
	case []interface{}:
		out := make([][]float64, len(m))
		for i, row := range m {
			cells, ok := row.([]interface{})
			if !ok {
				return nil, models.NewValidationError(name, v, "expected a list of rows")
			}
			out[i] = make([]float64, len(cells))
			for j, c := range cells {
				f, err := Parameters{name: c}.Float(name)
				if err != nil {
					return nil, err
				}
				out[i][j] = f
			}
		}
		return out, nil
	default:
		return nil, models.NewValidationError(name, v, fmt.Sprintf("unsupported type %T", v))
	}
}

func parseMatrix(name, s string) ([][]float64, error) {
	var out [][]float64
	for _, line := range strings.Split(s, ";") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var row []float64
		for _, cell := range strings.Split(line, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, models.NewValidationError(name, s, "malformed matrix")
			}
			row = append(row, f)
		}
		out = append(out, row)
	}
	if len(out) == 0 {
		return nil, models.NewValidationError(name, s, "empty matrix")
	}
	return out, nil
}
