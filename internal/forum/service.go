// Package forum はフォーラムのドメインロジックを提供する。
package forum

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/orbitforum/internal/model"
	"github.com/hitoshi/orbitforum/internal/repository"
	"github.com/hitoshi/orbitforum/internal/security"
)

// DashboardData はダッシュボードが必要とする集約ペイロード。
// カテゴリ（参照データ）と質問一覧（新着順）をまとめて返す。
type DashboardData struct {
	Categories []model.Category `json:"categories"`
	Questions  []model.Question `json:"questions"`
}

// Service はダッシュボードデータの取得と質問投稿を提供する。
type Service struct {
	categories repository.CategoryRepository
	questions  repository.QuestionRepository
	sanitizer  security.PostSanitizerService
}

// NewService はServiceを生成する。
func NewService(
	categories repository.CategoryRepository,
	questions repository.QuestionRepository,
	sanitizer security.PostSanitizerService,
) *Service {
	return &Service{
		categories: categories,
		questions:  questions,
		sanitizer:  sanitizer,
	}
}

// GetData はカテゴリと質問の集約データを返す。
// 介在する書き込みがなければ同一トークンでの連続取得は同一結果になる。
func (s *Service) GetData(ctx context.Context) (*DashboardData, error) {
	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	questions, err := s.questions.ListRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	return &DashboardData{
		Categories: categories,
		Questions:  questions,
	}, nil
}

// PostQuestion は質問を投稿する。
// 投稿者のuserIDは検証済みトークンのクレームから渡されたものを使う。
// リクエストボディ由来のユーザーIDは決して信用しない。
// タイトルと本文は保存前にサニタイズされ、サニタイズ後に空になった
// フィールドは欠落として扱う。
func (s *Service) PostQuestion(ctx context.Context, userID, title, content, categoryID string) error {
	title = s.sanitizer.SanitizeTitle(title)
	content = s.sanitizer.SanitizeContent(content)

	switch {
	case title == "":
		return model.NewValidationError("title")
	case content == "":
		return model.NewValidationError("content")
	case categoryID == "":
		return model.NewValidationError("category_id")
	}

	question := &model.Question{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		CategoryID: categoryID,
		UserID:     userID,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.questions.Create(ctx, question); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	slog.Info("question posted",
		slog.String("question_id", question.ID),
		slog.String("user_id", userID),
		slog.String("category_id", categoryID),
	)
	return nil
}
