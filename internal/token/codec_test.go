package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/birozsombor4/rest-api-template/internal/domain"
	"github.com/birozsombor4/rest-api-template/internal/token"
)

const testSecret = "codec-test-secret-at-least-32-chars!!"

var testPrincipal = domain.Principal{ID: 42, Username: "alice"}

func newCodec() *token.Codec {
	return token.New([]byte(testSecret))
}

func TestIssueDecode_RoundTrip(t *testing.T) {
	c := newCodec()
	issuedAt := time.Now().Truncate(time.Second)

	raw, err := c.Issue(testPrincipal, issuedAt)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := c.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.Username != testPrincipal.Username {
		t.Errorf("sub = %q, want %q", claims.Username, testPrincipal.Username)
	}
	if claims.UserID != testPrincipal.ID {
		t.Errorf("user_id = %d, want %d", claims.UserID, testPrincipal.ID)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != token.TTL {
		t.Errorf("exp - iat = %v, want %v", got, token.TTL)
	}
}

func TestDecode_WrongSegmentCount_MalformedToken(t *testing.T) {
	c := newCodec()
	for _, raw := range []string{"", "onlyone", "two.parts", "a.b.c.d"} {
		if _, err := c.Decode(raw); !isMalformed(err) {
			t.Errorf("Decode(%q) err = %v, want malformed token", raw, err)
		}
	}
}

func TestDecode_TamperedSignature_MalformedToken(t *testing.T) {
	c := newCodec()
	raw, err := c.Issue(testPrincipal, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Flip one byte in the signature segment.
	i := strings.LastIndex(raw, ".") + 1
	sig := []byte(raw[i:])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := raw[:i] + string(sig)

	if _, err := c.Decode(tampered); !isMalformed(err) {
		t.Errorf("Decode(tampered) err = %v, want malformed token", err)
	}
}

func TestDecode_WrongSecret_MalformedToken(t *testing.T) {
	other := token.New([]byte("a-completely-different-32-char-key!!"))
	raw, err := other.Issue(testPrincipal, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := newCodec().Decode(raw); !isMalformed(err) {
		t.Errorf("Decode(wrong secret) err = %v, want malformed token", err)
	}
}

func TestValidate_Expired_FalseNotError(t *testing.T) {
	c := newCodec()
	issuedAt := time.Now().Add(-11 * time.Hour)
	raw, err := c.Issue(testPrincipal, issuedAt)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ok, err := c.Validate(raw, testPrincipal.Username, time.Now())
	if err != nil {
		t.Fatalf("expired token must not be an error, got %v", err)
	}
	if ok {
		t.Error("expired token validated true")
	}
}

func TestValidate_SubjectMismatch_False(t *testing.T) {
	c := newCodec()
	raw, err := c.Issue(testPrincipal, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ok, err := c.Validate(raw, "mallory", time.Now())
	if err != nil {
		t.Fatalf("subject mismatch must not be an error, got %v", err)
	}
	if ok {
		t.Error("token with wrong subject validated true")
	}
}

func TestValidate_Fresh_True(t *testing.T) {
	c := newCodec()
	raw, err := c.Issue(testPrincipal, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ok, err := c.Validate(raw, testPrincipal.Username, time.Now())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !ok {
		t.Error("fresh token validated false")
	}
}

func TestIsExpired_Boundary(t *testing.T) {
	c := newCodec()
	issuedAt := time.Now().Truncate(time.Second)
	raw, err := c.Issue(testPrincipal, issuedAt)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	before := issuedAt.Add(token.TTL - time.Second)
	if expired, _ := c.IsExpired(raw, before); expired {
		t.Error("token expired one second early")
	}
	// now >= exp counts as expired.
	at := issuedAt.Add(token.TTL)
	if expired, _ := c.IsExpired(raw, at); !expired {
		t.Error("token not expired exactly at exp")
	}
}

func TestExtract_Projections(t *testing.T) {
	c := newCodec()
	issuedAt := time.Now().Truncate(time.Second)
	raw, err := c.Issue(testPrincipal, issuedAt)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	username, err := c.ExtractUsername(raw)
	if err != nil || username != testPrincipal.Username {
		t.Errorf("ExtractUsername = %q, %v; want %q, nil", username, err, testPrincipal.Username)
	}
	exp, err := c.ExtractExpiration(raw)
	if err != nil || !exp.Equal(issuedAt.Add(token.TTL)) {
		t.Errorf("ExtractExpiration = %v, %v; want %v, nil", exp, err, issuedAt.Add(token.TTL))
	}

	if _, err := c.ExtractUsername("not.a.token"); !isMalformed(err) {
		t.Errorf("ExtractUsername(garbage) err = %v, want malformed token", err)
	}
}

func isMalformed(err error) bool {
	kind, ok := domain.KindOf(err)
	return ok && kind == domain.KindMalformedToken
}
