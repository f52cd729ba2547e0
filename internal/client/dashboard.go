package client

import (
	"strings"

	"github.com/hitoshi/orbitforum/internal/forum"
	"github.com/hitoshi/orbitforum/internal/model"
)

// DashboardFilter はダッシュボード表示用の絞り込み条件。
// ゼロ値は「絞り込みなし」を意味する。
type DashboardFilter struct {
	// CategoryID は一致させるカテゴリID。空文字なら全カテゴリ。
	// 照合はIDの完全一致で行い、カテゴリ名では照合しない。
	CategoryID string

	// TitleQuery はタイトルの部分一致検索文字列。大文字小文字は区別しない。
	TitleQuery string
}

// FilterQuestions はダッシュボードデータの質問一覧にフィルタを適用して返す。
// 入力は変更せず、結果は新しいスライスで返す（純関数）。
// 順序は入力の順序（サーバー側の新着順）を維持する。
func FilterQuestions(data *forum.DashboardData, filter DashboardFilter) []model.Question {
	if data == nil {
		return nil
	}

	query := strings.ToLower(strings.TrimSpace(filter.TitleQuery))

	out := make([]model.Question, 0, len(data.Questions))
	for _, q := range data.Questions {
		if filter.CategoryID != "" && q.CategoryID != filter.CategoryID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(q.Title), query) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// CategoryName はカテゴリIDから表示名を引く。見つからない場合はIDをそのまま返す。
func CategoryName(categories []model.Category, id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}
