// Package credentials holds the bearer token the API client attaches to requests.
//
// The client only ever reads a token through a Provider. Writing and clearing
// tokens is done through a Store, normally via a Vault which combines a
// persistent ("remember me") store with a session scoped one.
//
// Every backend keeps the token under the same key name, TokenKey.
package credentials
