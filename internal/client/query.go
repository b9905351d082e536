package client

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// Params are query string parameters. Nil values (including typed nil
// pointers) are dropped. Keys are encoded in ascending order.
type Params map[string]any

// Encode returns the URL-encoded query, without a leading '?'.
func (p Params) Encode() string {
	values := url.Values{}
	for key, value := range p {
		s, ok := paramString(value)
		if !ok {
			continue
		}
		values.Set(key, s)
	}
	return values.Encode()
}

func paramString(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	switch v := rv.Interface().(type) {
	case string:
		return v, true
	case time.Time:
		return v.Format(time.RFC3339), true
	case fmt.Stringer:
		return v.String(), true
	case []string:
		return strings.Join(v, ","), true
	}
	return fmt.Sprint(rv.Interface()), true
}

// appendQuery appends the encoded params to endpoint, using '&' when the
// endpoint already carries a query string and '?' otherwise.
func appendQuery(endpoint string, params Params) string {
	query := params.Encode()
	if query == "" {
		return endpoint
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + query
}
