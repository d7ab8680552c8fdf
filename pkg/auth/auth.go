// Package auth extrae la identidad del usuario de los tokens emitidos
// por el servicio de identidad externo. El núcleo no crea cuentas ni
// valida credenciales: solo consume el identificador del usuario logueado.
package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/valyala/fasthttp"
)

// Claims claims mínimos que emite el servicio de identidad
type Claims struct {
	Sub      string `json:"sub"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// TokenParser valida tokens HS256 y extrae el identificador de usuario
type TokenParser struct {
	hmac []byte
}

// NewTokenParser crea un parser con el secreto compartido
func NewTokenParser(secret string) *TokenParser {
	return &TokenParser{hmac: []byte(secret)}
}

// Parse valida el token y devuelve sus claims
func (p *TokenParser) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.hmac, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// UserIDFromRequest devuelve el id de usuario del header Authorization,
// o "" si no hay token o no es válido. La ausencia de usuario no es un
// error aquí: cada operación decide si lo exige.
func (p *TokenParser) UserIDFromRequest(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == header {
		return ""
	}

	claims, err := p.Parse(tokenStr)
	if err != nil {
		return ""
	}

	return claims.Sub
}
