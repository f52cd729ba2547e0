package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/orbitforum/internal/model"
	"github.com/hitoshi/orbitforum/internal/repository"
)

// LoginResult はログイン成功時にクライアントへ返す内容。
type LoginResult struct {
	Message string
	Token   string
	User    model.PublicUser
}

// Service は登録・ログインのドメインロジックを提供する。
type Service struct {
	users      repository.UserRepository
	tokens     *TokenService
	bcryptCost int
}

// NewService はServiceを生成する。
// bcryptCostが範囲外の場合はコスト10にフォールバックする。
func NewService(users repository.UserRepository, tokens *TokenService, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 10
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register は新規ユーザーを登録する。
// 平文パスワードはbcryptでハッシュ化してのみ保存し、ログにも残さない。
// ユーザー名の一意性チェックはストアのUNIQUE制約に委ねる。
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	switch {
	case username == "":
		return model.NewValidationError("username")
	case email == "":
		return model.NewValidationError("email")
	case password == "":
		return model.NewValidationError("password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", slog.String("user_id", user.ID))
	return nil
}

// Login はユーザー名とパスワードを検証し、署名付きトークンを発行する。
// ユーザー名が存在しない場合とパスワード不一致の場合を区別して返し、
// クライアントが対応する入力欄をハイライトできるようにする。
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, model.NewUsernameNotFoundError()
	}

	// bcryptの比較は一定構造の処理で、タイミングから平文を推測させない
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, model.NewWrongPasswordError()
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{
		Message: fmt.Sprintf("Welcome back, %s!", user.Username),
		Token:   token,
		User:    user.Public(),
	}, nil
}
