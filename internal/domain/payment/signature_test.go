//go:build unit

package payment_test

import (
	"strings"
	"testing"

	"palmgrove-bookings/internal/domain/payment"

	"github.com/stretchr/testify/assert"
)

func TestSignatureVerifier(t *testing.T) {
	verifier := payment.NewSignatureVerifier("webhook_secret")

	t.Run("round trip verifies", func(t *testing.T) {
		sig := verifier.Sign("order_abc", "pay_123")
		assert.True(t, verifier.Verify("order_abc", "pay_123", sig))
	})

	t.Run("tampered payment id fails", func(t *testing.T) {
		sig := verifier.Sign("order_abc", "pay_123")
		assert.False(t, verifier.Verify("order_abc", "pay_999", sig))
	})

	t.Run("tampered order id fails", func(t *testing.T) {
		sig := verifier.Sign("order_abc", "pay_123")
		assert.False(t, verifier.Verify("order_xyz", "pay_123", sig))
	})

	t.Run("flipped signature byte fails", func(t *testing.T) {
		sig := verifier.Sign("order_abc", "pay_123")
		var flipped string
		if sig[0] == 'a' {
			flipped = "b" + sig[1:]
		} else {
			flipped = "a" + sig[1:]
		}
		assert.False(t, verifier.Verify("order_abc", "pay_123", flipped))
	})

	t.Run("non-hex signature fails without panicking", func(t *testing.T) {
		assert.False(t, verifier.Verify("order_abc", "pay_123", "zz-not-hex"))
		assert.False(t, verifier.Verify("order_abc", "pay_123", ""))
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		other := payment.NewSignatureVerifier("different_secret")
		sig := other.Sign("order_abc", "pay_123")
		assert.False(t, verifier.Verify("order_abc", "pay_123", sig))
	})

	t.Run("signature is lowercase hex", func(t *testing.T) {
		sig := verifier.Sign("order_abc", "pay_123")
		assert.Equal(t, strings.ToLower(sig), sig)
		assert.Len(t, sig, 64)
	})
}
