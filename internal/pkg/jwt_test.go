package pkg

import (
	"testing"
)

func TestPairRoundTrip(t *testing.T) {
	pair, err := GeneratePair(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id = %d, want 42", claims.UserID)
	}

	// refresh token 不是 access token
	if _, err := ParseAccess(pair.RefreshToken); err == nil {
		t.Fatal("refresh token should not parse as access")
	}
}

func TestRefreshIssuesNewPair(t *testing.T) {
	pair, err := GeneratePair(7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	next, err := Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := ParseAccess(next.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed access: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("user id = %d, want 7", claims.UserID)
	}

	if _, err := Refresh(pair.AccessToken); err == nil {
		t.Fatal("access token should not refresh")
	}
	if _, err := Refresh("not-a-token"); err == nil {
		t.Fatal("garbage should not refresh")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	pair, err := GeneratePair(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	broken := pair.AccessToken + "x"
	if _, err := ParseAccess(broken); err == nil {
		t.Fatal("tampered token should be rejected")
	}
}
