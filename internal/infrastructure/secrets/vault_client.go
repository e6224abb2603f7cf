// Package secrets retrieves the shared bearer token from HashiCorp Vault and
// maintains a locally cached copy so the hot path never depends on a live
// store round trip.
package secrets

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	vault "github.com/hashicorp/vault/api"
	"golang.org/x/sync/singleflight"

	"github.com/cloudedge-io/edgegate/internal/config"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/monitoring"
	"github.com/cloudedge-io/edgegate/pkg/errors"
	"github.com/cloudedge-io/edgegate/pkg/logger"
)

// Client retrieves the current shared token.
type Client interface {
	// FetchToken returns the current token, serving the locally cached copy
	// when present. It fails with ErrSecretUnavailable only when the cache is
	// cold and the store cannot be reached.
	FetchToken(ctx context.Context) (string, error)

	// Invalidate discards the cached copy, forcing the next FetchToken to hit
	// the store.
	Invalidate()
}

// kvReader is the slice of the Vault KV-v2 API the client needs. Satisfied by
// *vault.KVv2; tests substitute a fake.
type kvReader interface {
	Get(ctx context.Context, path string) (*vault.KVSecret, error)
}

// VaultClient reads the token from a KV-v2 secret and keeps a last-write-wins
// cached copy refreshed on a timer.
type VaultClient struct {
	reader  kvReader
	cfg     config.VaultConfig
	current atomic.Value // string; empty means cold
	group   singleflight.Group
	log     logger.Logger
	metrics *monitoring.Metrics
}

// NewVaultClient creates and configures a Vault-backed secret client.
func NewVaultClient(cfg config.VaultConfig, log logger.Logger, metrics *monitoring.Metrics) (*VaultClient, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return newVaultClient(client.KVv2(cfg.MountPath), cfg, log, metrics), nil
}

func newVaultClient(reader kvReader, cfg config.VaultConfig, log logger.Logger, metrics *monitoring.Metrics) *VaultClient {
	return &VaultClient{
		reader:  reader,
		cfg:     cfg,
		log:     log.WithComponent("secrets"),
		metrics: metrics,
	}
}

// FetchToken implements Client. Concurrent cold fetches collapse into a
// single store read.
func (c *VaultClient) FetchToken(ctx context.Context) (string, error) {
	if v, ok := c.current.Load().(string); ok && v != "" {
		return v, nil
	}

	tok, err, _ := c.group.Do("token", func() (interface{}, error) {
		// A concurrent caller may have populated the copy while we queued.
		if v, ok := c.current.Load().(string); ok && v != "" {
			return v, nil
		}
		return c.readFromStore(ctx)
	})
	if err != nil {
		return "", err
	}
	return tok.(string), nil
}

// Invalidate implements Client.
func (c *VaultClient) Invalidate() {
	c.current.Store("")
}

// StartRefresh refreshes the cached copy on a timer until ctx is cancelled.
// Refresh failures keep the existing copy; rotation is observed on the next
// successful read (last write wins).
func (c *VaultClient) StartRefresh(ctx context.Context) {
	interval := c.cfg.RefreshIntervalDuration()
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := c.readFromStore(ctx); err != nil {
					c.log.Warn(ctx, "secret refresh failed, keeping cached copy", logger.Error(err))
				}
			}
		}
	}()
}

func (c *VaultClient) readFromStore(ctx context.Context) (string, error) {
	secret, err := c.reader.Get(ctx, c.cfg.SecretPath)
	if err != nil {
		c.metrics.RecordSecretOp("fetch", "failure")
		c.log.Error(ctx, "failed to read token from secret store", err,
			logger.String("path", c.cfg.SecretPath))
		return "", errors.ErrSecretUnavailable.WithError(err)
	}
	if secret == nil || secret.Data == nil {
		c.metrics.RecordSecretOp("fetch", "failure")
		return "", errors.ErrSecretUnavailable.WithError(fmt.Errorf("secret %q not found", c.cfg.SecretPath))
	}

	value, ok := secret.Data[c.cfg.SecretField].(string)
	if !ok || value == "" {
		c.metrics.RecordSecretOp("fetch", "failure")
		return "", errors.ErrSecretUnavailable.WithError(
			fmt.Errorf("field %q missing from secret %q", c.cfg.SecretField, c.cfg.SecretPath))
	}

	c.current.Store(value)
	c.metrics.RecordSecretOp("fetch", "success")
	return value, nil
}
