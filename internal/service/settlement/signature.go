package settlement

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain"
)

// Verifier checks provider event signatures. The Signature header carries
// "t=<unix>,v1=<hex hmac-sha256 of '<t>.<payload>'>"; events older than the
// tolerance are rejected to limit replay.
type Verifier struct {
	secret    []byte
	tolerance time.Duration
}

func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	return &Verifier{secret: []byte(secret), tolerance: tolerance}
}

func (v *Verifier) Verify(payload []byte, header string, now time.Time) error {
	ts, sigs, err := parseSignatureHeader(header)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSignatureInvalid, err)
	}

	if v.tolerance > 0 {
		age := now.Sub(time.Unix(ts, 0))
		if age > v.tolerance || age < -v.tolerance {
			return fmt.Errorf("%w: timestamp outside tolerance", domain.ErrSignatureInvalid)
		}
	}

	expected := computeSignature(v.secret, ts, payload)
	for _, sig := range sigs {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return fmt.Errorf("%w: no matching signature", domain.ErrSignatureInvalid)
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var (
		ts   int64
		seen bool
		sigs []string
	)
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("bad timestamp %q", value)
			}
			ts = parsed
			seen = true
		case "v1":
			sigs = append(sigs, value)
		}
	}
	if !seen {
		return 0, nil, fmt.Errorf("missing timestamp")
	}
	if len(sigs) == 0 {
		return 0, nil, fmt.Errorf("missing signature")
	}
	return ts, sigs, nil
}

func computeSignature(secret []byte, ts int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return mac.Sum(nil)
}
