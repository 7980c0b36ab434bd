package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewManager("secret")

	token, err := m.Generate(42, "puppy", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 || claims.Username != "puppy" || claims.Subject != "42" || claims.ID == "" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewManager("secret")
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Generate(1, "a", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	m.now = time.Now
	if _, err := m.Verify(token); err == nil {
		t.Error("expected expired token to fail")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _ := NewManager("one").Generate(1, "a", time.Hour)

	if _, err := NewManager("two").Verify(token); err == nil {
		t.Error("expected signature failure")
	}
}

func TestVerifyRejectsOtherSigningMethod(t *testing.T) {
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := NewManager("secret").Verify(token); err == nil {
		t.Error("expected unsigned token to fail")
	}
}
