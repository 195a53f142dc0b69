package settlement

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront/internal/domain"
)

func signHeader(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyValidSignature(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"type":"checkout.session.completed"}`)
	v := NewVerifier("whsec_test", 5*time.Minute)
	if err := v.Verify(payload, signHeader("whsec_test", now.Unix(), payload), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	now := time.Now()
	payload := []byte(`{}`)
	v := NewVerifier("whsec_test", 5*time.Minute)
	err := v.Verify(payload, signHeader("whsec_other", now.Unix(), payload), now)
	if !errors.Is(err, domain.ErrSignatureInvalid) {
		t.Fatalf("expected signature invalid, got %v", err)
	}
}

func TestVerifyTamperedPayload(t *testing.T) {
	now := time.Now()
	v := NewVerifier("whsec_test", 5*time.Minute)
	header := signHeader("whsec_test", now.Unix(), []byte(`{"a":1}`))
	err := v.Verify([]byte(`{"a":2}`), header, now)
	if !errors.Is(err, domain.ErrSignatureInvalid) {
		t.Fatalf("expected signature invalid, got %v", err)
	}
}

func TestVerifyStaleTimestamp(t *testing.T) {
	now := time.Now()
	payload := []byte(`{}`)
	v := NewVerifier("whsec_test", 5*time.Minute)
	old := now.Add(-time.Hour).Unix()
	err := v.Verify(payload, signHeader("whsec_test", old, payload), now)
	if !errors.Is(err, domain.ErrSignatureInvalid) {
		t.Fatalf("expected signature invalid for stale timestamp, got %v", err)
	}
}

func TestVerifyMalformedHeaders(t *testing.T) {
	v := NewVerifier("whsec_test", 5*time.Minute)
	payload := []byte(`{}`)
	for _, header := range []string{
		"",
		"garbage",
		"t=notanumber,v1=abc",
		"t=123",
		"v1=abcdef",
	} {
		if err := v.Verify(payload, header, time.Now()); !errors.Is(err, domain.ErrSignatureInvalid) {
			t.Fatalf("header %q: expected signature invalid, got %v", header, err)
		}
	}
}

func TestVerifySecondSignatureMatches(t *testing.T) {
	now := time.Now()
	payload := []byte(`{}`)
	v := NewVerifier("whsec_test", 5*time.Minute)
	good := signHeader("whsec_test", now.Unix(), payload)
	// Key-rotation style header: a stale v1 followed by the current one.
	header := fmt.Sprintf("t=%d,v1=%s,%s", now.Unix(), hex.EncodeToString([]byte("stale")), good[len(fmt.Sprintf("t=%d,", now.Unix())):])
	if err := v.Verify(payload, header, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
