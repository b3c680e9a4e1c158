package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valyala/fastjson"

	"github.com/custodia-labs/curator/internal/core/domain"
)

// maxLineSize bounds a single JSON Lines record.
const maxLineSize = 64 << 20

// loadRecords reads JSON Lines from path. "-" or "" reads stdin.
func loadRecords(cmd *cobra.Command, path string) ([]domain.Record, error) {
	if path == "" || path == "-" {
		return readRecords(cmd.InOrStdin())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	records, err := readRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// loadSplits reads one JSON Lines file per split from name=path pairs.
func loadSplits(cmd *cobra.Command, pairs []string) (map[string][]domain.Record, error) {
	splits := make(map[string][]domain.Record, len(pairs))
	for _, pair := range pairs {
		name, path, ok := strings.Cut(pair, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("%w: split must be name=path, got %q", domain.ErrInvalidInput, pair)
		}
		if _, dup := splits[name]; dup {
			return nil, fmt.Errorf("%w: split %q given twice", domain.ErrInvalidInput, name)
		}
		records, err := loadRecords(cmd, path)
		if err != nil {
			return nil, fmt.Errorf("split %q: %w", name, err)
		}
		splits[name] = records
	}
	return splits, nil
}

// readRecords parses one JSON object per line. Blank lines are skipped.
// Object key order is kept and integers stay distinct from floats.
func readRecords(r io.Reader) ([]domain.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		parser  fastjson.Parser
		records = []domain.Record{}
		line    int
	)
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}

		v, err := parser.ParseBytes(text)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidInput, line, err)
		}
		if v.Type() != fastjson.TypeObject {
			return nil, fmt.Errorf("%w: line %d: expected object, got %s", domain.ErrInvalidInput, line, v.Type())
		}

		value, err := convertJSON(v)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidInput, line, err)
		}
		fields, _ := value.AsMap()
		records = append(records, domain.NewRecord(fields...))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return records, nil
}

func convertJSON(v *fastjson.Value) (domain.Value, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return domain.Null(), nil
	case fastjson.TypeTrue:
		return domain.Bool(true), nil
	case fastjson.TypeFalse:
		return domain.Bool(false), nil
	case fastjson.TypeString:
		s, err := v.StringBytes()
		if err != nil {
			return domain.Value{}, err
		}
		return domain.String(string(s)), nil
	case fastjson.TypeNumber:
		return convertNumber(v)
	case fastjson.TypeArray:
		arr, err := v.Array()
		if err != nil {
			return domain.Value{}, err
		}
		items := make([]domain.Value, len(arr))
		for i, item := range arr {
			if items[i], err = convertJSON(item); err != nil {
				return domain.Value{}, fmt.Errorf("index %d: %w", i, err)
			}
		}
		return domain.List(items...), nil
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return domain.Value{}, err
		}
		var (
			fields   = make([]domain.Field, 0, obj.Len())
			visitErr error
		)
		obj.Visit(func(key []byte, item *fastjson.Value) {
			if visitErr != nil {
				return
			}
			value, err := convertJSON(item)
			if err != nil {
				visitErr = fmt.Errorf("key %q: %w", key, err)
				return
			}
			fields = append(fields, domain.F(string(key), value))
		})
		if visitErr != nil {
			return domain.Value{}, visitErr
		}
		return domain.Map(fields...), nil
	default:
		return domain.Value{}, fmt.Errorf("unsupported JSON type %s", v.Type())
	}
}

// convertNumber keeps integer literals as Int and everything else as Float.
// Integers outside the int64 range fall back to Float.
func convertNumber(v *fastjson.Value) (domain.Value, error) {
	raw := v.MarshalTo(nil)
	if !bytes.ContainsAny(raw, ".eE") {
		if i, err := v.Int64(); err == nil {
			return domain.Int(i), nil
		}
	}
	f, err := v.Float64()
	if err != nil {
		return domain.Value{}, err
	}
	return domain.Float(f), nil
}
