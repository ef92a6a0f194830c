package kms

import (
	"context"
	"testing"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleKMSRoundTrip(t *testing.T) {
	k, err := NewSimpleKMS([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	assert.Equal(t, interfaces.WrapAES, k.Algorithm())

	cek := []byte("0123456789ABCDEF0123456789ABCDEF")
	wrapped, err := k.WrapKey(context.Background(), cek, nil)
	require.NoError(t, err)
	assert.Len(t, wrapped, len(cek)+8)
	assert.NotEqual(t, cek, wrapped[8:])

	unwrapped, err := k.UnwrapKey(context.Background(), wrapped, nil)
	require.NoError(t, err)
	assert.Equal(t, cek, unwrapped)
}

func TestSimpleKMSWrongMasterKey(t *testing.T) {
	k1, err := NewSimpleKMS([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	k2, err := NewSimpleKMS([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)

	wrapped, err := k1.WrapKey(context.Background(), make([]byte, 32), nil)
	require.NoError(t, err)

	_, err = k2.UnwrapKey(context.Background(), wrapped, nil)
	assert.ErrorIs(t, err, interfaces.ErrAuthenticationFailure)
}

func TestSimpleKMSContextSeparation(t *testing.T) {
	base, err := NewSimpleKMS([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	app1, err := base.WithContext("app1")
	require.NoError(t, err)
	app2, err := base.WithContext("app2")
	require.NoError(t, err)

	cek := make([]byte, 32)
	wrapped, err := app1.WrapKey(context.Background(), cek, nil)
	require.NoError(t, err)

	unwrapped, err := app1.UnwrapKey(context.Background(), wrapped, nil)
	require.NoError(t, err)
	assert.Equal(t, cek, unwrapped)

	_, err = app2.UnwrapKey(context.Background(), wrapped, nil)
	assert.ErrorIs(t, err, interfaces.ErrAuthenticationFailure)

	_, err = base.UnwrapKey(context.Background(), wrapped, nil)
	assert.ErrorIs(t, err, interfaces.ErrAuthenticationFailure)
}

func TestSimpleKMSShortMasterKey(t *testing.T) {
	_, err := NewSimpleKMS([]byte("too short"))
	assert.Error(t, err)
}
