// Package security はアプリケーションのセキュリティ機能を提供する。
//
// PostSanitizerService はユーザーが投稿する質問のタイトルと本文をサニタイズし、
// 保存されたコンテンツを閲覧する他ユーザーをXSSから保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// タイトルは全タグ除去、本文は最小限の整形タグのみ通過させる。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// PostSanitizerService は投稿コンテンツのサニタイズ機能のインターフェースを定義する。
// 質問の保存前に使用される。
type PostSanitizerService interface {
	// SanitizeTitle はタイトルから全HTMLタグを除去し、前後の空白を削る。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeTitle(raw string) string

	// SanitizeContent は本文をサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, ul, ol, li, blockquote, pre, code, strong, em）のみを
	// 通過させ、script, iframe, styleタグおよびon*イベント属性を除去する。
	// aタグにはrel="noopener noreferrer"が自動付与される。
	SanitizeContent(raw string) string
}

// postSanitizer はPostSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type postSanitizer struct {
	title   *bluemonday.Policy
	content *bluemonday.Policy
}

// NewPostSanitizer はPostSanitizerServiceの新しいインスタンスを生成する。
// タイトル用にはStrictPolicy（全タグ除去）、本文用には許可リストポリシーを構築する。
func NewPostSanitizer() *postSanitizer {
	content := bluemonday.NewPolicy()

	// 本文の許可タグ。script, iframe, style等は許可リストに含めないことで
	// 自動的に除去される。on*イベント属性はbluemondayのデフォルトで許可されない。
	content.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	// リンクはhref付きで許可し、rel属性を強制付与する
	content.AllowAttrs("href").OnElements("a")
	content.AllowRelativeURLs(false)
	content.AllowStandardURLs()
	content.RequireNoReferrerOnLinks(true)

	return &postSanitizer{
		title:   bluemonday.StrictPolicy(),
		content: content,
	}
}

// SanitizeTitle はタイトルから全HTMLタグを除去し、前後の空白を削る。
func (s *postSanitizer) SanitizeTitle(raw string) string {
	return strings.TrimSpace(s.title.Sanitize(raw))
}

// SanitizeContent は本文をサニタイズして安全なHTMLを返す。
func (s *postSanitizer) SanitizeContent(raw string) string {
	return strings.TrimSpace(s.content.Sanitize(raw))
}

// compile-time interface check
var _ PostSanitizerService = (*postSanitizer)(nil)
