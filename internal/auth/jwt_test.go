package auth

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "session-1", "secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 || claims.ID != "session-1" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(42, "session-1", "secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Fatal("want error for wrong secret")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("definitely.not.a.jwt", "secret"); err == nil {
		t.Fatal("want error for malformed token")
	}
}
