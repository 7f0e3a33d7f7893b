package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookmarkd/internal/config"
	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
)

const testSecret = "test-secret"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims *models.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(id int64) *models.Claims {
	return &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
		},
		ID:       id,
		Username: "reader",
	}
}

func TestHMACVerifier(t *testing.T) {
	verifier, err := NewHMACVerifier(testSecret, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	expired := validClaims(1)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	tests := []struct {
		name    string
		token   string
		wantID  int64
		wantErr bool
	}{
		{name: "valid", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(7)), wantID: 7},
		{name: "wrong secret", token: signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims(7)), wantErr: true},
		{name: "expired", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired), wantErr: true},
		{name: "no user id", token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(0)), wantErr: true},
		{name: "unexpected algorithm", token: signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims(7)), wantErr: true},
		{name: "garbage", token: "not-a-token", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.VerifyToken(tt.token)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Fatalf("VerifyToken() error = %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("VerifyToken() error = %v", err)
			}
			if claims.GetUserID() != tt.wantID {
				t.Errorf("user id = %d, want %d", claims.GetUserID(), tt.wantID)
			}
		})
	}
}

func TestNewVerifier(t *testing.T) {
	if _, err := NewVerifier(&config.Config{}, testLogger()); err == nil {
		t.Error("expected error without JWKS URL or secret")
	}

	v, err := NewVerifier(&config.Config{JWTSecret: testSecret}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(*HMACVerifier); !ok {
		t.Errorf("NewVerifier() = %T, want *HMACVerifier", v)
	}
}
