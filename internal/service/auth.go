package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/framepix/frame_shop/internal/hash"
	"github.com/framepix/frame_shop/internal/logging"
	"github.com/framepix/frame_shop/internal/models"
	"github.com/framepix/frame_shop/internal/repo"
	"github.com/framepix/frame_shop/pkg/tokens"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      Publisher
}

// TokenPair is what a successful login or refresh hands back, along with
// the expiries the handler needs for cookies.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
}

func (svc *AuthService) publish(ctx context.Context, key string, event map[string]interface{}) {
	if svc.Producer == nil {
		return
	}
	if err := svc.Producer.PublishEvent(ctx, "user_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

func (svc *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         "customer",
	}
	if err := svc.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	svc.publish(ctx, fmt.Sprint(user.ID), map[string]interface{}{
		"type":   "user_registered",
		"userID": user.ID,
	})
	return user, nil
}

func (svc *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	user, err := svc.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := svc.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	svc.publish(ctx, fmt.Sprint(user.ID), map[string]interface{}{
		"type":   "user_logged_in",
		"userID": user.ID,
	})
	return pair, nil
}

func (svc *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	now := time.Now().UTC()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)
	sub := strconv.FormatUint(uint64(user.ID), 10)

	access, err := tokens.SignAccessToken(sub, user.Role, svc.JWTSecret, accessExp)
	if err != nil {
		return nil, err
	}
	refresh, err := tokens.SignRefreshToken(sub, svc.RefreshSecret, refreshExp)
	if err != nil {
		return nil, err
	}

	claims, err := tokens.RefreshClaimsFromToken(refresh, svc.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if err := svc.Repo.SaveRefreshToken(ctx, &models.RefreshToken{
		Token:     tokens.Sha256Hex(refresh),
		JTI:       claims.ID,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}

// Refresh rotates a valid refresh token: the old row is revoked and a new
// pair is issued in one transaction, so replaying the old token fails.
func (svc *AuthService) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	claims, err := tokens.RefreshClaimsFromToken(rawToken, svc.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidRefreshToken)
	}

	user, err := svc.Repo.GetUserByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	now := time.Now().UTC()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)
	sub := claims.Subject

	access, err := tokens.SignAccessToken(sub, user.Role, svc.JWTSecret, accessExp)
	if err != nil {
		return nil, err
	}
	refresh, err := tokens.SignRefreshToken(sub, svc.RefreshSecret, refreshExp)
	if err != nil {
		return nil, err
	}
	newClaims, err := tokens.RefreshClaimsFromToken(refresh, svc.RefreshSecret)
	if err != nil {
		return nil, err
	}

	if err := svc.Repo.RotateRefreshToken(ctx, claims.ID, models.RefreshToken{
		Token:     tokens.Sha256Hex(refresh),
		JTI:       newClaims.ID,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		if errors.Is(err, repo.ErrTokenExpiredOrRevoked) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}

// LogOut revokes the presented refresh token. An empty token is a no-op so
// logout stays idempotent.
func (svc *AuthService) LogOut(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	return svc.Repo.RevokeRefreshToken(ctx, tokens.Sha256Hex(rawToken))
}
