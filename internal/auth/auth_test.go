package auth

import (
	"net/http/httptest"
	"testing"
)

func TestPasswordHashing(t *testing.T) {
	a := New("test-secret", 60)

	hash, err := a.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash equals plaintext")
	}
	if !a.CheckPassword(hash, "hunter2") {
		t.Error("correct password rejected")
	}
	if a.CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundtrip(t *testing.T) {
	a := New("test-secret", 60)

	token, err := a.GenerateToken("cur-1", "alice")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := a.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.CuratorID != "cur-1" || claims.Handle != "alice" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := New("secret-a", 60).GenerateToken("cur-1", "alice")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := New("secret-b", 60).ValidateToken(token); err == nil {
		t.Fatal("token signed with different secret accepted")
	}
}

func TestExpiredToken(t *testing.T) {
	a := New("test-secret", -1)
	token, err := a.GenerateToken("cur-1", "alice")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := a.ValidateToken(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestExtractClaims(t *testing.T) {
	a := New("test-secret", 60)
	token, err := a.GenerateToken("cur-1", "alice")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := httptest.NewRequest("POST", "/api/evaluations", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	claims := a.ExtractClaims(r)
	if claims == nil || claims.Handle != "alice" {
		t.Fatalf("claims = %+v", claims)
	}

	// Missing and malformed headers are anonymous, not errors.
	if got := a.ExtractClaims(httptest.NewRequest("POST", "/", nil)); got != nil {
		t.Errorf("no header: claims = %+v", got)
	}
	r = httptest.NewRequest("POST", "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	if got := a.ExtractClaims(r); got != nil {
		t.Errorf("non-bearer: claims = %+v", got)
	}
	r = httptest.NewRequest("POST", "/", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	if got := a.ExtractClaims(r); got != nil {
		t.Errorf("garbage token: claims = %+v", got)
	}
}
