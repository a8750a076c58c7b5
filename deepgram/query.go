package deepgram

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Options are the query parameters of a listen request, kept in insertion order.
// Slice values become one parameter per element under the same key.
type Options struct {
	keys   []string
	values map[string]any
}

func NewOptions() *Options {
	return &Options{values: make(map[string]any)}
}

// Set replaces the value of an existing key in place or appends a new key.
func (o *Options) Set(key string, value any) *Options {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

func (o *Options) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

func (o *Options) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

func (o *Options) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Encode serializes the options as a query string without the leading "?".
func (o *Options) Encode() string {
	if o.Len() == 0 {
		return ""
	}

	var b strings.Builder
	appendParam := func(key string, value any) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(formatScalar(value)))
	}

	for _, key := range o.keys {
		value := o.values[key]
		if value == nil {
			continue
		}

		rv := reflect.ValueOf(value)
		if isSequence(rv) {
			for i := 0; i < rv.Len(); i++ {
				elem := rv.Index(i).Interface()
				if elem == nil {
					continue
				}
				appendParam(key, elem)
			}
			continue
		}

		appendParam(key, value)
	}

	return b.String()
}

// ParseOptions reads "key=value" pairs. Repeating a key turns its value into a list.
func ParseOptions(pairs []string) (*Options, error) {
	options := NewOptions()
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("parsing option %q: expected key=value", pair)
		}

		switch existing := options.values[key].(type) {
		case nil:
			options.Set(key, value)
		case []string:
			options.Set(key, append(existing, value))
		case string:
			options.Set(key, []string{existing, value})
		}
	}
	return options, nil
}

func isSequence(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice:
		// []byte is a value, not a list of numbers
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

func formatScalar(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
