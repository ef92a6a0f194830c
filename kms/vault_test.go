package kms

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransit emulates the subset of Vault's transit API the provider
// uses: encrypt returns an opaque ciphertext token, decrypt resolves it.
type fakeTransit struct {
	ciphertexts map[string]string
	nextID      int
}

func (f *fakeTransit) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]string
		require.NoError(t, json.Unmarshal(body, &req))

		switch r.URL.Path {
		case "/v1/transit/encrypt/unit-key":
			f.nextID++
			token := fmt.Sprintf("vault:v1:%06d", f.nextID)
			f.ciphertexts[token] = req["plaintext"]
			writeSecret(w, map[string]interface{}{"ciphertext": token})
		case "/v1/transit/decrypt/unit-key":
			plaintext, ok := f.ciphertexts[req["ciphertext"]]
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"errors":["invalid ciphertext"]}`)
				return
			}
			writeSecret(w, map[string]interface{}{"plaintext": plaintext})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func writeSecret(w http.ResponseWriter, data map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func TestVaultKMSRoundTrip(t *testing.T) {
	transit := &fakeTransit{ciphertexts: map[string]string{}}
	srv := httptest.NewServer(transit.handler(t))
	defer srv.Close()

	k, err := NewVaultKMS(srv.URL, "unit-token", "transit", "unit-key", slog.Default())
	require.NoError(t, err)
	assert.Equal(t, interfaces.WrapKMS, k.Algorithm())

	cek := []byte("0123456789ABCDEF0123456789ABCDEF")
	wrapped, err := k.WrapKey(context.Background(), cek, nil)
	require.NoError(t, err)
	assert.Contains(t, string(wrapped), "vault:v1:")

	unwrapped, err := k.UnwrapKey(context.Background(), wrapped, nil)
	require.NoError(t, err)
	assert.Equal(t, cek, unwrapped)

	// The fake stores base64, proving the key crossed the wire encoded.
	assert.Equal(t, base64.StdEncoding.EncodeToString(cek), transit.ciphertexts[string(wrapped)])
}

func TestVaultKMSRejectsUnknownCiphertext(t *testing.T) {
	transit := &fakeTransit{ciphertexts: map[string]string{}}
	srv := httptest.NewServer(transit.handler(t))
	defer srv.Close()

	k, err := NewVaultKMS(srv.URL, "unit-token", "transit", "unit-key", slog.Default())
	require.NoError(t, err)

	_, err = k.UnwrapKey(context.Background(), []byte("vault:v1:corrupted"), nil)
	assert.ErrorIs(t, err, interfaces.ErrAuthenticationFailure)
}
