package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/storefront-dev/storefront/internal/client"
)

var requestMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

func newRequestCmd(a *app) *cobra.Command {
	var (
		params  []string
		data    string
		headers []string
	)
	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send a raw request to any API endpoint",
		Example: `  storefront request GET /products -p category=grocery -p page=2
  storefront request POST /cart/add -d '{"productId":"p1","quantity":2}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])
			if !requestMethods[method] {
				return fmt.Errorf("unsupported method %q", args[0])
			}

			query, err := parseParams(params)
			if err != nil {
				return err
			}
			header, err := parseHeaders(headers)
			if err != nil {
				return err
			}

			req := client.Request{Method: method, Path: args[1], Query: query, Header: header}
			if data != "" {
				if !json.Valid([]byte(data)) {
					return fmt.Errorf("--data is not valid JSON")
				}
				req.Body = data
			}

			return a.call(cmd.Context(), func(c *client.Client, out *json.RawMessage) error {
				return c.Do(cmd.Context(), req, out)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra header as 'Name: value' (repeatable)")
	return cmd
}

// parseParams turns key=value pairs into query params. A repeated key keeps the last value.
func parseParams(pairs []string) (client.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := client.Params{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

func parseHeaders(lines []string) (http.Header, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	header := http.Header{}
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Name: value'", line)
		}
		header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return header, nil
}
