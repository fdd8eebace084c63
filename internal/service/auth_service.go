package service

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/lankashop/storefront/internal/config"
	"github.com/lankashop/storefront/internal/constants"
	"github.com/lankashop/storefront/internal/logger"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// AuthService 用户认证服务
type AuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewAuthService 创建用户认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

// JWTClaims 用户 JWT 声明
type JWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RegisterInput 注册参数
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// LoginInput 登录参数
type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

// AuthResult 认证结果
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Register 注册新用户
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooWeak
	}

	exist, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        strings.TrimSpace(input.Phone),
		Role:         constants.RoleCustomer,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	logger.Infow("user_registered", "user_id", user.ID, "email", user.Email)

	return s.issueToken(user, false)
}

// Login 用户登录
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsBanned {
		return nil, ErrUserBanned
	}

	if err := s.userRepo.TouchLastLogin(user.ID, time.Now()); err != nil {
		logger.Warnw("touch_last_login_failed", "user_id", user.ID, "error", err)
	}

	return s.issueToken(user, input.RememberMe)
}

// GetUser 获取当前用户，封禁用户视为无效会话。
func (s *AuthService) GetUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsBanned {
		return nil, ErrUserBanned
	}
	return user, nil
}

// UpdateProfileInput 更新资料参数
type UpdateProfileInput struct {
	FullName *string
	Phone    *string
	Address  *string
}

// UpdateProfile 更新用户资料
func (s *AuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		fields["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		fields["address"] = strings.TrimSpace(*input.Address)
	}
	if len(fields) == 0 {
		return user, nil
	}
	if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(user.ID)
}

// GenerateJWT 生成用户 JWT Token
func (s *AuthService) GenerateJWT(user *models.User, rememberMe bool) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if rememberMe && s.cfg.JWT.RememberMeExpireHours > 0 {
		expireHours = s.cfg.JWT.RememberMeExpireHours
	}
	if expireHours <= 0 {
		expireHours = 24
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)
	claims := JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析用户 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &JWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func (s *AuthService) issueToken(user *models.User, rememberMe bool) (*AuthResult, error) {
	token, expiresAt, err := s.GenerateJWT(user, rememberMe)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", errors.New("邮箱不能为空")
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", errors.New("邮箱格式不正确")
	}
	return normalized, nil
}
