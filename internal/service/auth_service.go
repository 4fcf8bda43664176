package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/dto"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/repository"
	pkgerrors "github.com/vishwanathak47/Employee-Duty-Management/pkg/errors"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailExists        = pkgerrors.New(pkgerrors.KindConflict, "EmailExists", "该邮箱已注册")
	ErrSupervisorNotFound = pkgerrors.New(pkgerrors.KindNotFound, "SupervisorNotFound", "账号不存在")
)

// TokenBlacklist Token 黑名单存储（Redis 实现见 pkg/redis）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证业务接口
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Logout 将当前 Token 加入黑名单直至过期；未配置黑名单时为空操作
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, supervisorID string) (*dto.SupervisorResponse, error)
	UpdateTheme(ctx context.Context, supervisorID, theme string) (*dto.SupervisorResponse, error)
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例；blacklist 可为 nil
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Signup ──────────────────────

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.TokenResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.repo.Supervisor.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询账号失败", zap.Error(err))
		return nil, pkgerrors.Store(err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	supervisor := &model.Supervisor{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Supervisor.Create(ctx, supervisor); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建账号失败", zap.Error(err))
		return nil, pkgerrors.Store(err)
	}

	return s.issueToken(supervisor)
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询账号
	supervisor, err := s.repo.Supervisor.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询账号失败", zap.Error(err))
		return nil, pkgerrors.Store(err)
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(supervisor.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 签发 Token
	return s.issueToken(supervisor)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("加入 Token 黑名单失败", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me / UpdateTheme ──────────────────────

func (s *authService) Me(ctx context.Context, supervisorID string) (*dto.SupervisorResponse, error) {
	supervisor, err := s.repo.Supervisor.GetByID(ctx, supervisorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupervisorNotFound
		}
		s.logger.Error("查询账号失败", zap.String("id", supervisorID), zap.Error(err))
		return nil, pkgerrors.Store(err)
	}
	resp := toSupervisorResponse(supervisor)
	return &resp, nil
}

func (s *authService) UpdateTheme(ctx context.Context, supervisorID, theme string) (*dto.SupervisorResponse, error) {
	if err := s.repo.Supervisor.UpdateTheme(ctx, supervisorID, theme); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupervisorNotFound
		}
		s.logger.Error("更新主题失败", zap.String("id", supervisorID), zap.Error(err))
		return nil, pkgerrors.Store(err)
	}
	return s.Me(ctx, supervisorID)
}

// ── 辅助函数 ──

func (s *authService) issueToken(supervisor *model.Supervisor) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(supervisor.SupervisorID, supervisor.Email)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Supervisor:  toSupervisorResponse(supervisor),
	}, nil
}

func toSupervisorResponse(s *model.Supervisor) dto.SupervisorResponse {
	return dto.SupervisorResponse{
		ID:              s.SupervisorID,
		Name:            s.Name,
		Email:           s.Email,
		ThemePreference: s.ThemePreference,
		CreatedAt:       formatTime(s.CreatedAt),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
