package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/valyala/fasthttp"
)

func signToken(t *testing.T, secret, sub string, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, Claims{
		Sub: sub,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("firmando token: %v", err)
	}
	return signed
}

func TestParse(t *testing.T) {
	parser := NewTokenParser("secreto")

	t.Run("token válido", func(t *testing.T) {
		claims, err := parser.Parse(signToken(t, "secreto", "user-1", jwt.SigningMethodHS256))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if claims.Sub != "user-1" {
			t.Fatalf("sub = %q", claims.Sub)
		}
	})

	t.Run("secreto equivocado", func(t *testing.T) {
		if _, err := parser.Parse(signToken(t, "otro", "user-1", jwt.SigningMethodHS256)); err == nil {
			t.Fatal("se esperaba error de firma")
		}
	})

	t.Run("token expirado", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			Sub: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		signed, _ := token.SignedString([]byte("secreto"))
		if _, err := parser.Parse(signed); err == nil {
			t.Fatal("se esperaba error por expiración")
		}
	})

	t.Run("basura", func(t *testing.T) {
		if _, err := parser.Parse("no.es.token"); err == nil {
			t.Fatal("se esperaba error de parseo")
		}
	})
}

func TestUserIDFromRequest(t *testing.T) {
	parser := NewTokenParser("secreto")

	t.Run("header válido", func(t *testing.T) {
		var ctx fasthttp.RequestCtx
		ctx.Request.Header.Set("Authorization", "Bearer "+signToken(t, "secreto", "user-9", jwt.SigningMethodHS256))
		if got := parser.UserIDFromRequest(&ctx); got != "user-9" {
			t.Fatalf("userID = %q", got)
		}
	})

	t.Run("sin header", func(t *testing.T) {
		var ctx fasthttp.RequestCtx
		if got := parser.UserIDFromRequest(&ctx); got != "" {
			t.Fatalf("userID = %q, se esperaba vacío", got)
		}
	})

	t.Run("sin prefijo Bearer", func(t *testing.T) {
		var ctx fasthttp.RequestCtx
		ctx.Request.Header.Set("Authorization", signToken(t, "secreto", "user-9", jwt.SigningMethodHS256))
		if got := parser.UserIDFromRequest(&ctx); got != "" {
			t.Fatalf("userID = %q, se esperaba vacío", got)
		}
	})

	t.Run("token inválido", func(t *testing.T) {
		var ctx fasthttp.RequestCtx
		ctx.Request.Header.Set("Authorization", "Bearer "+signToken(t, "otro", "user-9", jwt.SigningMethodHS256))
		if got := parser.UserIDFromRequest(&ctx); got != "" {
			t.Fatalf("userID = %q, se esperaba vacío", got)
		}
	})
}
