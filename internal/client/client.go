// Package client はサーバーAPIに対するHTTPセッションクライアントを提供する。
//
// ログインで得たトークンとユーザー情報をセッションストアに保持し、
// 認証が必要なリクエストにはAuthorizationヘッダーを自動付与する。
// トークンを保持していない状態での認証付きリクエストはサーバーに
// 問い合わせずにErrNotAuthenticatedで即座に失敗する。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hitoshi/orbitforum/internal/forum"
	"github.com/hitoshi/orbitforum/internal/model"
)

// ErrNotAuthenticated はセッションにトークンがない状態で
// 認証付きAPIを呼んだ場合に返される。
var ErrNotAuthenticated = errors.New("not authenticated")

// APIError はサーバーの統一エラーレスポンスをクライアント側で表現する。
type APIError struct {
	Message string // errorフィールドの内容
	Field   string // ハイライト対象の入力フィールド（任意）
	Status  int    // HTTPステータスコード
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// Session は認証済みセッションの永続化対象データ。
type Session struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// SessionStore はセッションの保存先インターフェース。
// ファイル実装はFileSessionStoreを参照。
type SessionStore interface {
	// Load は保存済みセッションを返す。未保存の場合はnilを返す。
	Load() (*Session, error)

	// Save はセッションを保存する。
	Save(session *Session) error

	// Clear は保存済みセッションを破棄する。未保存でもエラーにしない。
	Clear() error
}

// SessionClient はサーバーAPIを呼び出すクライアント本体。
// ログイン成功時にセッションを確立し、Logoutまたはトークン拒否まで維持する。
type SessionClient struct {
	baseURL string
	http    *http.Client
	store   SessionStore
	session *Session
}

// NewSessionClient はSessionClientを生成し、保存済みセッションがあれば復元する。
func NewSessionClient(baseURL string, store SessionStore) (*SessionClient, error) {
	c := &SessionClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		store:   store,
	}

	if store != nil {
		session, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		c.session = session
	}

	return c, nil
}

// IsAuthenticated はトークンを保持しているかを返す。
// トークンの有効性はサーバー側でのみ検証される点に注意。
func (c *SessionClient) IsAuthenticated() bool {
	return c.session != nil && c.session.Token != ""
}

// CurrentUser は保持中のセッションのユーザー情報を返す。未認証時はnil。
func (c *SessionClient) CurrentUser() *model.PublicUser {
	if c.session == nil {
		return nil
	}
	u := c.session.User
	return &u
}

// registerRequest / loginRequest はサーバーAPIのリクエストボディ。
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse はログイン成功時のサーバーレスポンス。
type LoginResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register は新規ユーザーを登録する。成功してもセッションは確立しない。
// 登録後は別途Loginを呼ぶ。
func (c *SessionClient) Register(ctx context.Context, username, email, password string) (string, error) {
	var resp messageResponse
	err := c.post(ctx, "/register", false, registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Login はユーザー名とパスワードで認証し、成功時にセッションを確立・保存する。
func (c *SessionClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.post(ctx, "/login", false, loginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.session = &Session{Token: resp.Token, User: resp.User}
	if c.store != nil {
		if err := c.store.Save(c.session); err != nil {
			return nil, fmt.Errorf("failed to persist session: %w", err)
		}
	}

	return &resp, nil
}

// Logout はセッションを破棄する。サーバー側に取り消しの概念はなく、
// トークンは有効期限まで生き続けるため、破棄はクライアント側のみの操作になる。
func (c *SessionClient) Logout() error {
	c.session = nil
	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
	}
	return nil
}

// FetchDashboard はカテゴリと質問の集約データを取得する。要認証。
func (c *SessionClient) FetchDashboard(ctx context.Context) (*forum.DashboardData, error) {
	if !c.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	var data forum.DashboardData
	if err := c.get(ctx, "/data", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// PostQuestion は質問を投稿する。要認証。
// 投稿者の識別はサーバーがトークンのクレームから行うため、
// クライアントからユーザーIDは送らない。
func (c *SessionClient) PostQuestion(ctx context.Context, title, content, categoryID string) (string, error) {
	if !c.IsAuthenticated() {
		return "", ErrNotAuthenticated
	}

	var resp messageResponse
	err := c.post(ctx, "/questions", true, map[string]string{
		"title":       title,
		"content":     content,
		"category_id": categoryID,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// --- HTTPヘルパー ---

func (c *SessionClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.doRequest(req, true, out)
}

func (c *SessionClient) post(ctx context.Context, path string, authed bool, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, authed, out)
}

// doRequest はリクエストを実行し、レスポンスをoutへデコードする。
// 2xx以外はエラーレスポンスとして解釈してAPIErrorで返す。トークン失効
// （403）も他のエラーと同様に表示用エラーとして呼び出し側へ渡すだけで、
// 保持中のセッションを自動的には破棄しない。セッションを捨てるのは
// 明示的なLogoutのみ。
func (c *SessionClient) doRequest(req *http.Request, authed bool, out any) error {
	if authed && c.session != nil {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	var errBody struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	if err := json.Unmarshal(raw, &errBody); err != nil || errBody.Error == "" {
		return &APIError{
			Message: http.StatusText(resp.StatusCode),
			Status:  resp.StatusCode,
		}
	}

	return &APIError{
		Message: errBody.Error,
		Field:   errBody.Field,
		Status:  resp.StatusCode,
	}
}
