package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Route is a method and a path template. Placeholders are written {name} and
// are filled in order by Expand.
type Route struct {
	Method  string
	Pattern string
}

func get(pattern string) Route   { return Route{Method: http.MethodGet, Pattern: pattern} }
func post(pattern string) Route  { return Route{Method: http.MethodPost, Pattern: pattern} }
func put(pattern string) Route   { return Route{Method: http.MethodPut, Pattern: pattern} }
func patch(pattern string) Route { return Route{Method: http.MethodPatch, Pattern: pattern} }
func del(pattern string) Route   { return Route{Method: http.MethodDelete, Pattern: pattern} }

// Expand substitutes args, path-escaped, for the placeholders in the pattern.
// It panics if the number of args does not match the number of placeholders.
func (r Route) Expand(args ...string) string {
	var b strings.Builder
	rest := r.Pattern
	i := 0
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			panic(fmt.Sprintf("client: unterminated placeholder in route %q", r.Pattern))
		}
		if i >= len(args) {
			panic(fmt.Sprintf("client: route %q needs more than %d arguments", r.Pattern, len(args)))
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(args[i]))
		i++
		rest = rest[open+closing+1:]
	}
	if i != len(args) {
		panic(fmt.Sprintf("client: route %q takes %d arguments, got %d", r.Pattern, i, len(args)))
	}
	return b.String()
}

func (r Route) String() string {
	return r.Method + " " + r.Pattern
}

// call is shared by the domain namespaces.
func (c *Client) call(ctx context.Context, r Route, args []string, query Params, body any, out any) error {
	return c.Do(ctx, Request{
		Method: r.Method,
		Path:   r.Expand(args...),
		Query:  query,
		Body:   body,
	}, out)
}

func ids(args ...string) []string {
	return args
}
