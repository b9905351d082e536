package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/storefront-dev/storefront/internal/client"
	"github.com/storefront-dev/storefront/internal/config"
	"github.com/storefront-dev/storefront/internal/credentials"
	"github.com/storefront-dev/storefront/internal/logger"
	"github.com/storefront-dev/storefront/internal/session"
)

// retryJitterPercent spreads retries from concurrent CLI invocations.
const retryJitterPercent = 20

// app holds what the commands share. The API client is only built by
// commands that call the API.
type app struct {
	envFile string
	baseURL string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg     *config.Config
	logger  *slog.Logger
	vault   *credentials.Vault
	client  *client.Client
	session *session.Manager

	closers []func() error
}

func (a *app) loadConfig() error {
	cfg, err := config.NewConfig(a.envFile)
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.APIBaseURL = a.baseURL
	}
	a.cfg = cfg
	// stdout is reserved for command output
	a.logger = logger.New(a.stderr, logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
	return nil
}

// connect builds the token vault, the API client and the session manager.
func (a *app) connect(ctx context.Context) error {
	if a.client != nil {
		return nil
	}

	vault, err := a.buildVault(ctx)
	if err != nil {
		return err
	}

	options := []client.Option{
		client.WithCredentials(vault),
		client.WithTimeout(a.cfg.RequestTimeout),
		client.WithLogger(a.logger),
		client.WithRateLimit(a.cfg.RateLimitRPS, a.cfg.RateLimitBurst),
	}
	if a.cfg.RetryMax > 0 {
		options = append(options, client.WithRetry(client.RetryPolicy{
			MaxRetries:    uint64(a.cfg.RetryMax),
			BaseDelay:     a.cfg.RetryBaseDelay,
			MaxDelay:      a.cfg.RetryMaxDelay,
			JitterPercent: retryJitterPercent,
		}))
	}

	a.vault = vault
	a.client = client.NewClient(a.cfg.APIBaseURL, options...)
	a.session = session.NewManager(a.client, vault, a.logger)

	a.logger.Debug("api client ready", slog.String("base_url", a.client.BaseURL()))
	return nil
}

// buildVault keeps remembered logins in the token file and session logins in
// Redis when configured, otherwise in a per-user file under the temp dir.
func (a *app) buildVault(ctx context.Context) (*credentials.Vault, error) {
	var fileOptions []credentials.FileStoreOption
	key, ok, err := a.cfg.TokenEncryptionKey()
	if err != nil {
		return nil, err
	}
	if ok {
		fileOptions = append(fileOptions, credentials.WithEncryptionKey(key))
	}
	persistent := credentials.NewFileStore(a.cfg.TokenFile, fileOptions...)
	a.logger.Debug("remembered tokens stored on disk", slog.String("path", persistent.Path()), slog.Bool("encrypted", ok))

	var sessionStore credentials.Store
	if a.cfg.RedisURL != "" {
		redisStore, rdb, err := credentials.NewRedisStoreFromURL(ctx, a.cfg.RedisURL, a.cfg.RedisKeyPrefix, a.cfg.SessionTTL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		a.logger.Debug("session tokens stored in redis", slog.String("key", redisStore.Key()))
		sessionStore = redisStore
	} else {
		sessionStore = credentials.NewFileStore(a.cfg.SessionFile, fileOptions...)
	}

	return credentials.NewVault(persistent, sessionStore, credentials.WithPruneExpired()), nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c()
	}
}

// reportError prints the user facing message on stderr and logs the detail.
func (a *app) reportError(err error) {
	var ce *client.ClientError
	if errors.As(err, &ce) {
		fmt.Fprintln(a.stderr, ce.UserError())
		if a.logger != nil {
			a.logger.Debug("command failed",
				slog.String("kind", ce.Kind.String()),
				slog.Int("status", ce.StatusCode),
				slog.String("error", ce.LogMessage),
			)
		}
		return
	}
	fmt.Fprintln(a.stderr, err)
}

// printJSON writes v to stdout as indented JSON.
func (a *app) printJSON(v any) error {
	var data []byte
	switch raw := v.(type) {
	case json.RawMessage:
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("formatting response: %w", err)
		}
		data = buf.Bytes()
	default:
		var err error
		data, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("formatting response: %w", err)
		}
	}
	_, err := fmt.Fprintln(a.stdout, string(data))
	return err
}

// call runs fn against the API and prints whatever it decoded.
func (a *app) call(ctx context.Context, fn func(c *client.Client, out *json.RawMessage) error) error {
	if err := a.connect(ctx); err != nil {
		return err
	}
	var out json.RawMessage
	if err := fn(a.client, &out); err != nil {
		return err
	}
	return a.printJSON(out)
}
