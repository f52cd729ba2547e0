// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hitoshi/orbitforum/internal/auth"
	"github.com/hitoshi/orbitforum/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// claimsContextKey はリクエストコンテキストに検証済みクレームを格納するためのキー。
var claimsContextKey = contextKey("claims")

// requestUserContextKey はロギングミドルウェアが差し込むホルダーのキー。
var requestUserContextKey = contextKey("request_user")

// requestUser は内側の認証ミドルウェアから外側のロギングミドルウェアへ
// 認証結果を伝えるためのホルダー。コンテキスト値は内側から外側へ
// 伝播しないため、ロギング側が事前に差し込んだホルダーに書き込む。
type requestUser struct {
	id string
}

// TokenVerifier はトークン検証に必要なインターフェース。
// auth.TokenServiceの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// NewAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証するミドルウェアを返す。
// ヘッダーが欠落・不正な形式の場合は401、署名不正または期限切れの場合は403を返す。
// 検証済みクレームをリクエストコンテキストに注入する。
func NewAuthMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. "Bearer <token>" 形式のヘッダーからトークンを取り出す
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				apiErr := model.NewTokenMissingError()
				WriteErrorResponse(w, apiErr.Status, apiErr)
				return
			}

			// 2. 署名と有効期限を検証
			claims, err := verifier.Verify(token)
			if err != nil {
				apiErr := model.NewTokenInvalidError()
				WriteErrorResponse(w, apiErr.Status, apiErr)
				return
			}

			// 3. 検証済みクレームをコンテキストに注入
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// bearerToken はAuthorizationヘッダー値からBearerトークンを取り出す。
// 形式が "Bearer <token>" でない場合はfalseを返す。
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ClaimsFromContext はリクエストコンテキストから検証済みクレームを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func ClaimsFromContext(ctx context.Context) (*auth.Claims, error) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("claims not found in context")
	}
	return claims, nil
}

// ContextWithClaims はコンテキストにクレームを注入する。
// ロギングミドルウェアのホルダーがコンテキストにあれば、認証済み
// ユーザーIDをそこにも書き込み、外側のリクエストログへ伝える。
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	if ru, ok := ctx.Value(requestUserContextKey).(*requestUser); ok && claims != nil {
		ru.id = claims.UserID
	}
	return context.WithValue(ctx, claimsContextKey, claims)
}
