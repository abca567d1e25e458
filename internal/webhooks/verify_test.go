package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCheckValidSignature(t *testing.T) {
	v := NewVerifier("chapa", "s", "chapa-signature", "x-signature")
	body := []byte(`{"a":1}`)

	require.Equal(t, ModeEnforced, v.Mode())
	assert.NoError(t, v.Check(sign("s", body), body))
}

func TestCheckRejectsMutatedSignature(t *testing.T) {
	v := NewVerifier("chapa", "s", "x-signature")
	body := []byte(`{"a":1}`)
	good := sign("s", body)

	// Chaque mutation d'un seul octet doit être refusée
	for i := 0; i < len(good); i++ {
		bad := []byte(good)
		if bad[i] == 'a' {
			bad[i] = 'b'
		} else {
			bad[i] = 'a'
		}
		assert.ErrorIs(t, v.Check(string(bad), body), ErrInvalidSignature)
	}
}

func TestCheckMissingSignature(t *testing.T) {
	v := NewVerifier("telebirr", "secret", "x-telebirr-signature")
	assert.ErrorIs(t, v.Check("", []byte("{}")), ErrMissingSignature)
}

func TestDisabledModeAcceptsAnything(t *testing.T) {
	v := NewVerifier("chapa", "", "x-signature")

	require.Equal(t, ModeDisabled, v.Mode())
	assert.NoError(t, v.Check("", []byte("{}")))
	assert.NoError(t, v.Check("n-importe-quoi", []byte(`{"a":1}`)))
}

func TestSignatureHeaderFallback(t *testing.T) {
	v := NewVerifier("telebirr", "s", "x-telebirr-signature", "x-signature")

	r := httptest.NewRequest("POST", "/api/webhooks/telebirr", nil)
	r.Header.Set("x-signature", "abc")
	assert.Equal(t, "abc", v.Signature(r))

	// Le header spécifique au provider est prioritaire
	r.Header.Set("x-telebirr-signature", " def ")
	assert.Equal(t, "def", v.Signature(r))
}
