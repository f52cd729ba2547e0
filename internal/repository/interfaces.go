// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/orbitforum/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。ユーザー名の一意性はDB制約に委ねる。
	Create(ctx context.Context, user *model.User) error

	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// CategoryRepository はカテゴリ（参照データ）の読み取りインターフェース。
type CategoryRepository interface {
	// ListAll は全カテゴリを名前順で返す。
	ListAll(ctx context.Context) ([]model.Category, error)
}

// QuestionRepository は質問データの永続化インターフェース。
type QuestionRepository interface {
	// Create は質問を作成する。
	Create(ctx context.Context, question *model.Question) error

	// ListRecent は質問一覧を作成日時の降順で返す。
	ListRecent(ctx context.Context) ([]model.Question, error)
}
