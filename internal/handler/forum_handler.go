package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/orbitforum/internal/forum"
	"github.com/hitoshi/orbitforum/internal/middleware"
	"github.com/hitoshi/orbitforum/internal/model"
)

// ForumServiceInterface はフォーラムハンドラーが必要とするサービスインターフェース。
type ForumServiceInterface interface {
	GetData(ctx context.Context) (*forum.DashboardData, error)
	PostQuestion(ctx context.Context, userID, title, content, categoryID string) error
}

// ForumMetrics は投稿メトリクスの記録インターフェース。
type ForumMetrics interface {
	RecordQuestionPosted()
}

// ForumHandler はダッシュボードデータと質問投稿のHTTPハンドラー。
type ForumHandler struct {
	service ForumServiceInterface
	metrics ForumMetrics
}

// NewForumHandler はForumHandlerを生成する。metricsはnilでもよい。
func NewForumHandler(service ForumServiceInterface, metrics ForumMetrics) *ForumHandler {
	return &ForumHandler{
		service: service,
		metrics: metrics,
	}
}

// questionRequest は質問投稿リクエストのボディ。
// 投稿者のIDはボディからは受け取らず、検証済みクレームからのみ取得する。
type questionRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID string `json:"category_id"`
}

// GetData はカテゴリと質問の集約データを返す。
// GET /data
func (h *ForumHandler) GetData(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.GetData(r.Context())
	if err != nil {
		slog.Error("failed to fetch dashboard data", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// PostQuestion は質問を投稿する。
// POST /questions
func (h *ForumHandler) PostQuestion(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		apiErr := model.NewTokenMissingError()
		middleware.WriteErrorResponse(w, apiErr.Status, apiErr)
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	if err := h.service.PostQuestion(r.Context(), claims.UserID, req.Title, req.Content, req.CategoryID); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			middleware.WriteErrorResponse(w, apiErr.Status, apiErr)
			return
		}
		slog.Error("failed to post question",
			slog.String("error", err.Error()),
			slog.String("user_id", claims.UserID),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordQuestionPosted()
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Question posted!"})
}
