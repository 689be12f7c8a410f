package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// maxExponent bounds the decimal exponent of a non-integer literal before it is
// expanded, so 1e999999999 is rejected without materialising the digits.
const maxExponent = 1000

// decodeObject parses body as a single JSON value with numbers kept as json.Number.
// An empty body decodes to an empty object.
func decodeObject(body []byte) (map[string]any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, ErrInvalidJSON
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrInvalidJSON
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrInvalidShape
	}
	return obj, nil
}

// asInt64 accepts any JSON number with an integral value that fits in 64 bits,
// so 5 and 5.0 are both integers while 5.5 is not. Non-plain literals are parsed
// exactly, so 9007199254740993.0 keeps its last digit.
func asInt64(v any) (int64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	lit := string(n)
	if i := strings.IndexAny(lit, "eE"); i >= 0 {
		exp, err := strconv.Atoi(lit[i+1:])
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return 0, false
		}
	}
	r, ok := new(big.Rat).SetString(lit)
	if !ok || !r.IsInt() || !r.Num().IsInt64() {
		return 0, false
	}
	return r.Num().Int64(), true
}

// asInt64Slice converts a JSON array of integers, rejecting it if any element is not one.
func asInt64Slice(v any) ([]int64, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]int64, 0, len(arr))
	for _, e := range arr {
		i, ok := asInt64(e)
		if !ok {
			return nil, false
		}
		out = append(out, i)
	}
	return out, true
}
