package client

import (
	"reflect"
	"testing"
	"time"

	"github.com/hitoshi/orbitforum/internal/forum"
	"github.com/hitoshi/orbitforum/internal/model"
)

func sampleDashboard() *forum.DashboardData {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return &forum.DashboardData{
		Categories: []model.Category{
			{ID: "cat-deep-space", Name: "Deep Space"},
			{ID: "cat-navigation", Name: "Navigation"},
		},
		Questions: []model.Question{
			{ID: "q-3", Title: "Thruster calibration drift", CategoryID: "cat-navigation", CreatedAt: base.Add(2 * time.Hour)},
			{ID: "q-2", Title: "Deep space telemetry gaps", CategoryID: "cat-deep-space", CreatedAt: base.Add(time.Hour)},
			{ID: "q-1", Title: "Star chart updates", CategoryID: "cat-navigation", CreatedAt: base},
		},
	}
}

func TestFilterQuestions(t *testing.T) {
	tests := []struct {
		name    string
		filter  DashboardFilter
		wantIDs []string
	}{
		{
			name:    "絞り込みなしは全件を元の順序で返す",
			filter:  DashboardFilter{},
			wantIDs: []string{"q-3", "q-2", "q-1"},
		},
		{
			name:    "カテゴリIDの完全一致で絞り込む",
			filter:  DashboardFilter{CategoryID: "cat-navigation"},
			wantIDs: []string{"q-3", "q-1"},
		},
		{
			name:    "カテゴリ名ではIDと照合しない",
			filter:  DashboardFilter{CategoryID: "Navigation"},
			wantIDs: []string{},
		},
		{
			name:    "タイトルの部分一致は大文字小文字を区別しない",
			filter:  DashboardFilter{TitleQuery: "TELEMETRY"},
			wantIDs: []string{"q-2"},
		},
		{
			name:    "検索文字列の前後空白は無視する",
			filter:  DashboardFilter{TitleQuery: "  chart  "},
			wantIDs: []string{"q-1"},
		},
		{
			name:    "カテゴリと検索の複合条件",
			filter:  DashboardFilter{CategoryID: "cat-navigation", TitleQuery: "drift"},
			wantIDs: []string{"q-3"},
		},
		{
			name:    "一致なしは空スライス",
			filter:  DashboardFilter{TitleQuery: "no such title"},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := sampleDashboard()
			got := FilterQuestions(data, tt.filter)

			gotIDs := make([]string, 0, len(got))
			for _, q := range got {
				gotIDs = append(gotIDs, q.ID)
			}
			if !reflect.DeepEqual(gotIDs, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", gotIDs, tt.wantIDs)
			}
		})
	}
}

func TestFilterQuestions_DoesNotMutateInput(t *testing.T) {
	data := sampleDashboard()
	before := make([]model.Question, len(data.Questions))
	copy(before, data.Questions)

	FilterQuestions(data, DashboardFilter{CategoryID: "cat-deep-space"})

	if !reflect.DeepEqual(data.Questions, before) {
		t.Error("FilterQuestions must not mutate the input data")
	}
}

func TestFilterQuestions_NilData(t *testing.T) {
	if got := FilterQuestions(nil, DashboardFilter{}); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestCategoryName(t *testing.T) {
	categories := []model.Category{
		{ID: "cat-deep-space", Name: "Deep Space"},
	}

	if got := CategoryName(categories, "cat-deep-space"); got != "Deep Space" {
		t.Errorf("got %q, want %q", got, "Deep Space")
	}
	// 未知のIDはIDをそのまま返す
	if got := CategoryName(categories, "cat-unknown"); got != "cat-unknown" {
		t.Errorf("got %q, want %q", got, "cat-unknown")
	}
}
