// Package auth は認証サービスを提供する。
//
// アイデンティティはステートレスなJWTで表現する。サーバー側にセッション
// テーブルは持たず、トークンは固定の有効期限（デフォルト2時間）まで有効。
// 失効リストを持たないため、サーバー起点の無効化はできない（設計上の
// トレードオフとして受け入れる）。
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/orbitforum/internal/model"
)

// Claims はトークンに埋め込むアイデンティティ情報。
// 標準クレーム（iat, exp）に加えてユーザーIDとユーザー名を持つ。
type Claims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ErrInvalidToken は署名不正・期限切れ・形式不正のトークンを示す。
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService はHS256署名のJWTを発行・検証する。
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService はTokenServiceを生成する。
// ttlには発行するトークンの有効期間を指定する（スペック上は2時間）。
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue は指定ユーザーのアイデンティティを埋め込んだ署名付きトークンを発行する。
func (s *TokenService) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークン文字列を検証し、埋め込まれたクレームを返す。
// 署名不正・期限切れ・HS256以外の署名方式はすべてErrInvalidTokenとして扱う。
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
