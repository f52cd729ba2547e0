// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"net/http"
)

// APIError は統一エラーフォーマットを表す。
// Statusはレスポンスに使うHTTPステータスコード、Fieldはログインフォームなどで
// クライアントがハイライトすべき入力フィールド名（任意）。
type APIError struct {
	Code    string // エラーコード
	Message string // 人間可読のエラーメッセージ
	Field   string // 対象フィールド（username / password など）
	Status  int    // HTTPステータスコード
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUsernameNotFound = "USERNAME_NOT_FOUND"
	ErrCodeWrongPassword    = "WRONG_PASSWORD"
	ErrCodeTokenMissing     = "TOKEN_MISSING"
	ErrCodeTokenInvalid     = "TOKEN_INVALID"
	ErrCodeStoreFailure     = "STORE_FAILURE"
)

// NewValidationError は必須フィールド欠落エラーを生成する。
func NewValidationError(field string) *APIError {
	return &APIError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("%s is required", field),
		Field:   field,
		Status:  http.StatusBadRequest,
	}
}

// NewUsernameNotFoundError はユーザー名が存在しない場合のログイン失敗を生成する。
// フロントエンドがusername入力欄をハイライトできるようfieldを付与する。
func NewUsernameNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeUsernameNotFound,
		Message: "Username not found",
		Field:   "username",
		Status:  http.StatusUnauthorized,
	}
}

// NewWrongPasswordError はパスワード不一致によるログイン失敗を生成する。
func NewWrongPasswordError() *APIError {
	return &APIError{
		Code:    ErrCodeWrongPassword,
		Message: "Incorrect password",
		Field:   "password",
		Status:  http.StatusUnauthorized,
	}
}

// NewTokenMissingError はAuthorizationヘッダーが欠落・不正な場合のエラーを生成する。
func NewTokenMissingError() *APIError {
	return &APIError{
		Code:    ErrCodeTokenMissing,
		Message: "Access denied. No token provided.",
		Status:  http.StatusUnauthorized,
	}
}

// NewTokenInvalidError は署名不正または期限切れトークンのエラーを生成する。
func NewTokenInvalidError() *APIError {
	return &APIError{
		Code:    ErrCodeTokenInvalid,
		Message: "Invalid or expired token",
		Status:  http.StatusForbidden,
	}
}

// NewStoreError はデータストア障害の汎用エラーを生成する。
// 内部詳細はログ側にのみ残し、クライアントには一般的なメッセージだけを返す。
func NewStoreError() *APIError {
	return &APIError{
		Code:    ErrCodeStoreFailure,
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}
}
