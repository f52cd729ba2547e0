// Package model はドメインモデルを定義する。
package model

import "time"

// User は登録ユーザーを表す。
// PasswordHashはbcryptハッシュであり、平文パスワードは保持しない。
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PublicUser はAPIレスポンスに含めてよいユーザー情報のみを持つ。
// トークンと一緒にクライアントへ返却される。
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Public はUserから公開可能なフィールドのみを抽出する。
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

// Category はフォーラムのセクター（カテゴリ）を表す。
// マイグレーションでシードされる参照データで、APIからは読み取り専用。
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Question はユーザーが投稿した質問を表す。
// 作成後は不変で、一覧は作成日時の降順で返す。
type Question struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CategoryID string    `json:"category_id"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}
