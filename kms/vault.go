package kms

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
	"github.com/hashicorp/vault/api"
)

// VaultKMS wraps content keys through HashiCorp Vault's transit secrets
// engine. The master key never leaves Vault; wrapped keys are transit
// ciphertext strings ("vault:v1:...") stored as opaque bytes.
type VaultKMS struct {
	client    *api.Client
	mountPath string
	keyName   string
	log       *slog.Logger
}

// NewVaultKMS creates a transit-backed provider.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - token: Vault token with encrypt/decrypt capability on the key
//   - mountPath: transit engine mount path (e.g. "transit")
//   - keyName: name of the transit key to wrap under
//   - log: structured logger for operational insights
func NewVaultKMS(address, token, mountPath, keyName string, log *slog.Logger) (*VaultKMS, error) {
	config := api.DefaultConfig()
	config.Address = address
	config.HttpClient = &http.Client{Timeout: 30 * time.Second}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	client.SetToken(token)

	return &VaultKMS{
		client:    client,
		mountPath: strings.Trim(mountPath, "/"),
		keyName:   keyName,
		log:       log,
	}, nil
}

// WrapKey encrypts the content key with the transit key. The materials
// description is forwarded as Vault context so it is bound into the
// ciphertext when the transit key has derivation enabled.
func (k *VaultKMS) WrapKey(ctx context.Context, plaintextKey []byte, desc interfaces.MaterialsDescription) ([]byte, error) {
	payload := map[string]interface{}{
		"plaintext": base64.StdEncoding.EncodeToString(plaintextKey),
	}
	if vaultCtx, ok := desc["vault-context"]; ok {
		payload["context"] = base64.StdEncoding.EncodeToString([]byte(vaultCtx))
	}

	secret, err := k.client.Logical().WriteWithContext(ctx, k.transitPath("encrypt"), payload)
	if err != nil {
		return nil, fmt.Errorf("vault transit encrypt: %w", err)
	}
	ciphertext, ok := secret.Data["ciphertext"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: vault transit response has no ciphertext", interfaces.ErrInvalidFormat)
	}

	k.log.Debug("Wrapped content key via Vault transit",
		slog.String("key_name", k.keyName))

	return []byte(ciphertext), nil
}

// UnwrapKey decrypts a transit ciphertext back into the content key.
// Vault rejects tampered ciphertext and mismatched keys; those
// rejections surface as authentication failures.
func (k *VaultKMS) UnwrapKey(ctx context.Context, wrappedKey []byte, desc interfaces.MaterialsDescription) ([]byte, error) {
	payload := map[string]interface{}{
		"ciphertext": string(wrappedKey),
	}
	if vaultCtx, ok := desc["vault-context"]; ok {
		payload["context"] = base64.StdEncoding.EncodeToString([]byte(vaultCtx))
	}

	secret, err := k.client.Logical().WriteWithContext(ctx, k.transitPath("decrypt"), payload)
	if err != nil {
		return nil, fmt.Errorf("%w: vault transit decrypt rejected ciphertext: %v", interfaces.ErrAuthenticationFailure, err)
	}
	encoded, ok := secret.Data["plaintext"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: vault transit response has no plaintext", interfaces.ErrInvalidFormat)
	}
	plaintextKey, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: vault transit plaintext is not base64: %v", interfaces.ErrInvalidFormat, err)
	}
	return plaintextKey, nil
}

// Algorithm reports kms.
func (k *VaultKMS) Algorithm() interfaces.KeyWrapAlgorithm {
	return interfaces.WrapKMS
}

func (k *VaultKMS) transitPath(op string) string {
	return fmt.Sprintf("%s/%s/%s", k.mountPath, op, k.keyName)
}
