package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/orbitforum/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// fieldはログインフォームなどでクライアントがハイライトすべき入力欄名（任意）。
type ErrorResponseBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Error: apiErr.Message,
		Field: apiErr.Field,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewStoreError())
}
