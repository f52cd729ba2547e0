package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/orbitforum/internal/model"
)

// PostgresQuestionRepo はPostgreSQLを使用した質問リポジトリ。
type PostgresQuestionRepo struct {
	db *sql.DB
}

// NewPostgresQuestionRepo はPostgresQuestionRepoを生成する。
func NewPostgresQuestionRepo(db *sql.DB) *PostgresQuestionRepo {
	return &PostgresQuestionRepo{db: db}
}

// Create は質問を作成する。
// category_idとuser_idの整合性はFK制約に委ねる。
func (r *PostgresQuestionRepo) Create(ctx context.Context, question *model.Question) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO questions (id, title, content, category_id, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		question.ID, question.Title, question.Content,
		question.CategoryID, question.UserID, question.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	return nil
}

// ListRecent は質問一覧を作成日時の降順で返す。
func (r *PostgresQuestionRepo) ListRecent(ctx context.Context) ([]model.Question, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, content, category_id, user_id, created_at
		 FROM questions ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Title, &q.Content, &q.CategoryID, &q.UserID, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}

	return questions, nil
}

// compile-time interface check
var _ QuestionRepository = (*PostgresQuestionRepo)(nil)
