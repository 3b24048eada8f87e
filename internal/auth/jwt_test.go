package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewJWT(t *testing.T) {
	if _, err := NewJWT(""); err == nil {
		t.Fatal("NewJWT accepted an empty secret")
	}

	if _, err := NewJWT("secret"); err != nil {
		t.Fatalf("NewJWT failed: %v", err)
	}
}

func TestGenerateVerify(t *testing.T) {
	tokens, err := NewJWT("test-secret")

	if err != nil {
		t.Fatalf("NewJWT failed: %v", err)
	}

	signed, err := tokens.Generate(42, "jane@example.com")

	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	token, err := tokens.Verify(signed)

	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		t.Fatal("claims are not MapClaims")
	}

	if id, _ := claims["user_id"].(float64); uint(id) != 42 {
		t.Errorf("user_id = %v, want 42", claims["user_id"])
	}

	if claims["email"] != "jane@example.com" {
		t.Errorf("email = %v", claims["email"])
	}
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	issuer, _ := NewJWT("secret-one")
	verifier, _ := NewJWT("secret-two")

	signed, err := issuer.Generate(1, "a@example.com")

	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := verifier.Verify(signed); err == nil {
		t.Fatal("Verify accepted a token signed with another secret")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens, _ := NewJWT("secret")

	if _, err := tokens.Verify("not-a-token"); err == nil {
		t.Fatal("Verify accepted garbage")
	}
}
