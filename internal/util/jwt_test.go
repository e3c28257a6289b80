package util

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", "sess-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", claims.SessionID)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret", "sess-1", time.Hour)
	if _, err := ParseToken("other", token); err == nil {
		t.Error("ParseToken() with wrong secret error = nil, want error")
	}
}

func TestGenerateToken_DefaultTTL(t *testing.T) {
	token, _ := GenerateToken("secret", "sess-1", -time.Hour)
	// ttl <= 0 回退到默认 24h，仍然有效
	if _, err := ParseToken("secret", token); err != nil {
		t.Errorf("ParseToken() error = %v, want default ttl", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("secret", "not-a-token"); err == nil {
		t.Error("ParseToken(garbage) error = nil, want error")
	}
}

func TestParseTokenAt_Expiry(t *testing.T) {
	issued := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	token, err := GenerateTokenAt("secret", "sid-1", time.Hour, issued)
	if err != nil {
		t.Fatalf("GenerateTokenAt() error = %v", err)
	}
	if _, err := ParseTokenAt("secret", token, issued.Add(59*time.Minute)); err != nil {
		t.Errorf("ParseTokenAt() before exp error = %v", err)
	}
	if _, err := ParseTokenAt("secret", token, issued.Add(61*time.Minute)); err == nil {
		t.Error("ParseTokenAt() after exp should fail")
	}
}
