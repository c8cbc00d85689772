package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier authenticates asynchronous gateway callbacks. The
// gateway signs "<orderID>|<paymentID>" with a shared webhook secret; we
// recompute the HMAC server-side and compare in constant time. A redirect
// query parameter or any other client-reported success carries zero trust;
// this check is the only path to marking a booking paid.
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

func (v *SignatureVerifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether the supplied signature matches the recomputed one.
// hmac.Equal compares in constant time.
func (v *SignatureVerifier) Verify(orderID, paymentID, signature string) bool {
	expected := v.Sign(orderID, paymentID)
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	exp, err := hex.DecodeString(expected)
	if err != nil {
		return false
	}
	return hmac.Equal(exp, sig)
}
