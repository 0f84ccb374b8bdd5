// Defines the canonical encoding of request parameters.

package protocol

import (
	"bytes"
	"encoding/json"
	"strconv"
	"unicode/utf8"
)

// Encode returns the canonical encoding of params: a compact JSON object
// with keys sorted byte-wise, strings escaped without HTML escaping,
// integers in base 10 and booleans as true/false.
//
// Only string, bool and integer values are accepted. Floating point
// values fail with ErrFloatField, anything else with ErrUnsupportedType,
// both wrapped in an *EncodingError.
func Encode(params Params) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range params.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writePair(&buf, k, params[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FormatValue renders a single scalar the way it would appear in a query
// string: strings verbatim, integers in base 10, booleans as true/false.
func FormatValue(field string, v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		if !utf8.ValidString(x) {
			return "", &EncodingError{Field: field, Err: ErrInvalidUTF8}
		}
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	}
	b, err := appendInteger(nil, field, v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writePair(buf *bytes.Buffer, k string, v interface{}) error {
	if err := writeString(buf, k, k); err != nil {
		return err
	}
	buf.WriteByte(':')
	return writeValue(buf, k, v)
}

func writeValue(buf *bytes.Buffer, field string, v interface{}) error {
	switch x := v.(type) {
	case string:
		return writeString(buf, field, x)
	case bool:
		buf.WriteString(strconv.FormatBool(x))
		return nil
	}
	b, err := appendInteger(buf.AvailableBuffer(), field, v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func appendInteger(dst []byte, field string, v interface{}) ([]byte, error) {
	switch x := v.(type) {
	case int:
		return strconv.AppendInt(dst, int64(x), 10), nil
	case int8:
		return strconv.AppendInt(dst, int64(x), 10), nil
	case int16:
		return strconv.AppendInt(dst, int64(x), 10), nil
	case int32:
		return strconv.AppendInt(dst, int64(x), 10), nil
	case int64:
		return strconv.AppendInt(dst, x, 10), nil
	case uint:
		return strconv.AppendUint(dst, uint64(x), 10), nil
	case uint8:
		return strconv.AppendUint(dst, uint64(x), 10), nil
	case uint16:
		return strconv.AppendUint(dst, uint64(x), 10), nil
	case uint32:
		return strconv.AppendUint(dst, uint64(x), 10), nil
	case uint64:
		return strconv.AppendUint(dst, x, 10), nil
	case float32, float64:
		return nil, &EncodingError{Field: field, Err: ErrFloatField}
	default:
		return nil, &EncodingError{Field: field, Err: ErrUnsupportedType}
	}
}

// writeString quotes s as a JSON string. Invalid UTF-8 is rejected
// because encoding/json would replace it with U+FFFD and make distinct
// inputs collide.
func writeString(buf *bytes.Buffer, field, s string) error {
	if !utf8.ValidString(s) {
		return &EncodingError{Field: field, Err: ErrInvalidUTF8}
	}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return &EncodingError{Field: field, Err: err}
	}
	// Encode terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// A Template renders the canonical encoding of a fixed parameter set
// with one integer field varying. The miner uses it to avoid re-sorting
// and re-quoting the whole envelope on every attempt.
type Template struct {
	head []byte
	tail []byte
}

// NewTemplate prepares the encoding of params with field left open.
// Any value params already holds for field is ignored.
func NewTemplate(params Params, field string) (*Template, error) {
	var before, after bytes.Buffer
	for _, k := range params.Keys() {
		if k == field {
			continue
		}
		dst := &after
		if k < field {
			dst = &before
		}
		if dst.Len() > 0 {
			dst.WriteByte(',')
		}
		if err := writePair(dst, k, params[k]); err != nil {
			return nil, err
		}
	}

	var head bytes.Buffer
	head.WriteByte('{')
	if before.Len() > 0 {
		head.Write(before.Bytes())
		head.WriteByte(',')
	}
	if err := writeString(&head, field, field); err != nil {
		return nil, err
	}
	head.WriteByte(':')

	var tail bytes.Buffer
	if after.Len() > 0 {
		tail.WriteByte(',')
		tail.Write(after.Bytes())
	}
	tail.WriteByte('}')

	return &Template{head: head.Bytes(), tail: tail.Bytes()}, nil
}

// Render appends the canonical encoding with the open field set to v
// to dst and returns the extended slice.
func (t *Template) Render(dst []byte, v uint64) []byte {
	dst = append(dst, t.head...)
	dst = strconv.AppendUint(dst, v, 10)
	return append(dst, t.tail...)
}
