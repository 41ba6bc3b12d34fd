package doc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// ParseJSON decodes a single JSON document token by token so that object
// members keep their declaration order. Duplicate keys are rejected.
func ParseJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err == io.EOF {
		return nil, errors.New("empty document")
	}
	if err != nil {
		return nil, err
	}

	v, err := decodeToken(dec, tok)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected data after the document")
	}

	return v, nil
}

func decodeToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf(`unexpected delimiter "%s"`, t)
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(string(t)), nil
	case float64:
		return Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case nil:
		return Null(), nil
	}

	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (*Value, error) {
	obj := Object()
	seen := make(map[string]bool)

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		if d, ok := tok.(json.Delim); ok && d == '}' {
			return obj, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		if seen[key] {
			return nil, fmt.Errorf(`duplicate key "%s"`, key)
		}
		seen[key] = true

		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}

		val, err := decodeToken(dec, tok)
		if err != nil {
			return nil, fmt.Errorf(`in "%s": %w`, key, err)
		}

		obj.Members = append(obj.Members, Member{Key: key, Value: val})
	}
}

func decodeArray(dec *json.Decoder) (*Value, error) {
	arr := Array()

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		if d, ok := tok.(json.Delim); ok && d == ']' {
			return arr, nil
		}

		val, err := decodeToken(dec, tok)
		if err != nil {
			return nil, fmt.Errorf("at index %d: %w", len(arr.Items), err)
		}

		arr.Items = append(arr.Items, val)
	}
}
