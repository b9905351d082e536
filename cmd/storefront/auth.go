package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/storefront-dev/storefront/internal/credentials"
	"github.com/storefront-dev/storefront/internal/session"
)

var errNotLoggedIn = errors.New("not logged in, run 'storefront login' first")

func newLoginCmd(a *app) *cobra.Command {
	var (
		email    string
		password string
		remember bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the auth token",
		Long: `Log in with email and password.

The password is taken from --password, then STOREFRONT_PASSWORD, and is
otherwise read from stdin. With --remember the token is kept in the token file
across sessions; without it the token is stored in the session store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("STOREFRONT_PASSWORD")
			}
			if password == "" {
				var err error
				if password, err = a.readPassword(); err != nil {
					return err
				}
			}

			if err := a.connect(cmd.Context()); err != nil {
				return err
			}
			res, err := a.session.Login(cmd.Context(), email, password, remember)
			if err != nil {
				return err
			}
			return a.printJSON(res.User)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVarP(&remember, "remember", "r", false, "keep the token across sessions")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) readPassword() (string, error) {
	fmt.Fprint(a.stderr, "Password: ")
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(cmd.Context()); err != nil {
				return err
			}
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.stderr, "Logged out.")
			return nil
		},
	}
}

// tokenInfo describes the stored token.
type tokenInfo struct {
	Status    string          `json:"status"`
	Scope     string          `json:"scope"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
	User      json.RawMessage `json:"user,omitempty"`
}

func (a *app) tokenInfo(cmd *cobra.Command) (tokenInfo, error) {
	status, scope, err := a.session.Status(cmd.Context())
	if err != nil {
		return tokenInfo{}, err
	}
	info := tokenInfo{Status: status.String(), Scope: scope.String()}
	if scope == credentials.ScopeNone {
		return info, nil
	}
	token, err := a.vault.Token(cmd.Context())
	if err != nil {
		return tokenInfo{}, err
	}
	if exp, ok := credentials.Expiry(token); ok {
		info.ExpiresAt = &exp
	}
	return info, nil
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user and the state of the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(cmd.Context()); err != nil {
				return err
			}
			info, err := a.tokenInfo(cmd)
			if err != nil {
				return err
			}
			if info.Status == session.TokenMissing.String() {
				return errNotLoggedIn
			}
			if err := a.session.Profile(cmd.Context(), &info.User); err != nil {
				return err
			}
			return a.printJSON(info)
		},
	}
}

func newRefreshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored token for a new one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(cmd.Context()); err != nil {
				return err
			}
			if _, err := a.session.Refresh(cmd.Context()); err != nil {
				return err
			}
			info, err := a.tokenInfo(cmd)
			if err != nil {
				return err
			}
			return a.printJSON(info)
		},
	}
}
