package client

import (
	"testing"
	"time"
)

type status string

func (s status) String() string { return "status:" + string(s) }

func TestParamsEncode(t *testing.T) {
	var nilString *string
	page := 2

	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{name: "nil params", params: nil, want: ""},
		{name: "empty params", params: Params{}, want: ""},
		{name: "nil value dropped", params: Params{"category": "grocery", "page": nil}, want: "category=grocery"},
		{name: "typed nil pointer dropped", params: Params{"category": "grocery", "page": nilString}, want: "category=grocery"},
		{name: "pointer dereferenced", params: Params{"page": &page}, want: "page=2"},
		{name: "keys sorted", params: Params{"z": 1, "a": true, "m": 1.5}, want: "a=true&m=1.5&z=1"},
		{name: "values escaped", params: Params{"q": "red & blue shoes"}, want: "q=red+%26+blue+shoes"},
		{name: "empty string kept", params: Params{"q": ""}, want: "q="},
		{name: "stringer", params: Params{"status": status("open")}, want: "status=status%3Aopen"},
		{name: "string slice joined", params: Params{"ids": []string{"1", "2"}}, want: "ids=1%2C2"},
		{
			name:   "time formatted as RFC3339",
			params: Params{"from": time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
			want:   "from=2026-03-01T10%3A00%3A00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendQuery(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		params   Params
		want     string
	}{
		{name: "no params", endpoint: "/products", params: nil, want: "/products"},
		{name: "all params dropped", endpoint: "/products", params: Params{"page": nil}, want: "/products"},
		{name: "question mark separator", endpoint: "/products", params: Params{"page": 1}, want: "/products?page=1"},
		{name: "ampersand when endpoint has query", endpoint: "/products?sort=price", params: Params{"page": 1}, want: "/products?sort=price&page=1"},
		{
			name:     "undefined page scenario",
			endpoint: "/products",
			params:   Params{"category": "grocery", "page": nil},
			want:     "/products?category=grocery",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := appendQuery(tt.endpoint, tt.params); got != tt.want {
				t.Errorf("appendQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
