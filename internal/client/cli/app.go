// Package cli はターミナル上の対話型フォーラムクライアントを提供する。
//
// 未認証時は登録とログインのフォームループ、認証後はダッシュボード表示と
// カテゴリ絞り込み・タイトル検索・質問投稿のコマンドループを提供する。
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hitoshi/orbitforum/internal/client"
	"github.com/hitoshi/orbitforum/internal/forum"
	"github.com/hitoshi/orbitforum/internal/model"
)

// SessionAPI はAppが必要とするクライアント操作のインターフェース。
// 実体は*client.SessionClientで、テストではスタブに差し替える。
type SessionAPI interface {
	IsAuthenticated() bool
	CurrentUser() *model.PublicUser
	Register(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, username, password string) (*client.LoginResponse, error)
	Logout() error
	FetchDashboard(ctx context.Context) (*forum.DashboardData, error)
	PostQuestion(ctx context.Context, title, content, categoryID string) (string, error)
}

// compile-time interface check
var _ SessionAPI = (*client.SessionClient)(nil)

// App は対話型クライアントの本体。
// filterは入力のたびに適用し直され、ダッシュボードデータ自体は変更しない。
type App struct {
	api    SessionAPI
	reader *bufio.Reader
	out    io.Writer
	filter client.DashboardFilter
}

// NewApp はAppを生成する。
func NewApp(api SessionAPI, in io.Reader, out io.Writer) *App {
	return &App{
		api:    api,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run はクライアントのメインループを実行する。
// 入力のEOF、exitコマンド、またはctxのキャンセルで終了する。
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "=== Mission Control Forum ===")

	for ctx.Err() == nil {
		var err error
		if a.api.IsAuthenticated() {
			err = a.dashboardLoop(ctx)
		} else {
			err = a.authLoop(ctx)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, errQuit) {
				fmt.Fprintln(a.out, "Bye!")
				return nil
			}
			return err
		}
	}
	return ctx.Err()
}

// errQuit はユーザーの明示的な終了要求を表す内部エラー。
var errQuit = errors.New("quit")

// --- 認証フォーム ---

// authLoop は未認証時のコマンドループ。loginとregisterを切り替えられる。
// ログインに成功すると戻り、Runがダッシュボードへ遷移させる。
func (a *App) authLoop(ctx context.Context) error {
	for {
		cmd, err := promptLine(a.reader, "[login | register | exit]", a.out)
		if err != nil {
			return err
		}

		switch cmd {
		case "login":
			if err := a.login(ctx); err != nil {
				return err
			}
			if a.api.IsAuthenticated() {
				return nil
			}
		case "register":
			if err := a.register(ctx); err != nil {
				return err
			}
		case "exit", "quit":
			return errQuit
		case "":
			continue
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

// login はログインフォームを1回実行する。
// 認証失敗はエラーメッセージと対象フィールドを表示して戻る（ループは継続）。
func (a *App) login(ctx context.Context) error {
	username, err := promptLine(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := promptPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Authenticating...")
	resp, err := a.api.Login(ctx, username, password)
	if err != nil {
		a.printAPIError(err)
		return nil
	}

	fmt.Fprintln(a.out, resp.Message)
	return nil
}

// register は登録フォームを1回実行する。成功してもログインはしない。
func (a *App) register(ctx context.Context) error {
	username, err := promptLine(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := promptLine(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := promptPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	message, err := a.api.Register(ctx, username, email, password)
	if err != nil {
		a.printAPIError(err)
		return nil
	}

	fmt.Fprintln(a.out, message)
	fmt.Fprintln(a.out, "Now log in with your new credentials.")
	return nil
}

// --- ダッシュボード ---

// dashboardLoop は認証後のコマンドループ。
// 毎回サーバーから最新データを取得し、フィルタ適用後の一覧を描画する。
func (a *App) dashboardLoop(ctx context.Context) error {
	for {
		data, err := a.api.FetchDashboard(ctx)
		if err != nil {
			// 取得失敗（トークン失効の403を含む）はバナー表示に留め、
			// セッションの破棄や認証フォームへの遷移は行わない。
			// 離脱するかどうかはユーザーの明示的な操作に委ねる。
			a.printAPIError(err)
			cmd, err := promptLine(a.reader, "[retry | logout | exit]", a.out)
			if err != nil {
				return err
			}
			switch cmd {
			case "logout":
				if err := a.api.Logout(); err != nil {
					fmt.Fprintln(a.out, "Logout failed:", err)
					continue
				}
				a.filter = client.DashboardFilter{}
				fmt.Fprintln(a.out, "Logged out.")
				return nil
			case "exit", "quit":
				return errQuit
			default:
				continue
			}
		}

		a.renderDashboard(data)

		cmd, err := promptLine(a.reader, "[search | sector | post | clear | logout | exit]", a.out)
		if err != nil {
			return err
		}

		switch cmd {
		case "search":
			query, err := promptLine(a.reader, "Title contains", a.out)
			if err != nil {
				return err
			}
			a.filter.TitleQuery = query
		case "sector":
			if err := a.chooseSector(data.Categories); err != nil {
				return err
			}
		case "post":
			if err := a.postQuestion(ctx, data.Categories); err != nil {
				return err
			}
		case "clear":
			a.filter = client.DashboardFilter{}
		case "logout":
			if err := a.api.Logout(); err != nil {
				fmt.Fprintln(a.out, "Logout failed:", err)
				continue
			}
			a.filter = client.DashboardFilter{}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		case "exit", "quit":
			return errQuit
		case "":
			continue
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

// renderDashboard はフィルタ適用後の質問一覧とカテゴリ一覧を描画する。
func (a *App) renderDashboard(data *forum.DashboardData) {
	user := a.api.CurrentUser()
	if user != nil {
		fmt.Fprintf(a.out, "\n--- Dashboard (%s) ---\n", user.Username)
	} else {
		fmt.Fprintln(a.out, "\n--- Dashboard ---")
	}

	fmt.Fprint(a.out, "Sectors: ")
	names := make([]string, 0, len(data.Categories))
	for _, c := range data.Categories {
		names = append(names, c.Name)
	}
	fmt.Fprintln(a.out, strings.Join(names, ", "))

	if a.filter.CategoryID != "" {
		fmt.Fprintf(a.out, "Sector filter: %s\n", client.CategoryName(data.Categories, a.filter.CategoryID))
	}
	if a.filter.TitleQuery != "" {
		fmt.Fprintf(a.out, "Search: %q\n", a.filter.TitleQuery)
	}

	questions := client.FilterQuestions(data, a.filter)
	if len(questions) == 0 {
		fmt.Fprintln(a.out, "No questions found.")
		return
	}
	for _, q := range questions {
		fmt.Fprintf(a.out, "  [%s] %s (%s)\n",
			client.CategoryName(data.Categories, q.CategoryID),
			q.Title,
			q.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
}

// chooseSector はカテゴリを番号で選択させてフィルタに設定する。
// 空入力は絞り込み解除。
func (a *App) chooseSector(categories []model.Category) error {
	for i, c := range categories {
		fmt.Fprintf(a.out, "  %d) %s — %s\n", i+1, c.Name, c.Description)
	}
	choice, err := promptLine(a.reader, "Sector number (empty for all)", a.out)
	if err != nil {
		return err
	}
	if choice == "" {
		a.filter.CategoryID = ""
		return nil
	}

	idx := -1
	fmt.Sscanf(choice, "%d", &idx)
	if idx < 1 || idx > len(categories) {
		fmt.Fprintln(a.out, "Invalid sector number.")
		return nil
	}
	a.filter.CategoryID = categories[idx-1].ID
	return nil
}

// postQuestion は質問投稿フォームを1回実行する。
func (a *App) postQuestion(ctx context.Context, categories []model.Category) error {
	title, err := promptLine(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := promptMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}

	for i, c := range categories {
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, c.Name)
	}
	choice, err := promptLine(a.reader, "Sector number", a.out)
	if err != nil {
		return err
	}
	idx := -1
	fmt.Sscanf(choice, "%d", &idx)
	if idx < 1 || idx > len(categories) {
		fmt.Fprintln(a.out, "Invalid sector number.")
		return nil
	}

	message, err := a.api.PostQuestion(ctx, title, content, categories[idx-1].ID)
	if err != nil {
		a.printAPIError(err)
		return nil
	}
	fmt.Fprintln(a.out, message)
	return nil
}

// printAPIError はサーバーエラーをユーザー向けに整形して表示する。
// フィールド付きエラーは対象の入力欄を明示する。
func (a *App) printAPIError(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Field != "" {
			fmt.Fprintf(a.out, "Error: %s (check the %s field)\n", apiErr.Message, apiErr.Field)
		} else {
			fmt.Fprintf(a.out, "Error: %s\n", apiErr.Message)
		}
		return
	}
	fmt.Fprintln(a.out, "Error:", err)
}
