package auth

import (
	"context"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hostelpass/internal/actor"
	"hostelpass/internal/admin"
	autherrors "hostelpass/internal/auth/errors"
	"hostelpass/internal/student"
)

const (
	accessTokenTTL  = time.Minute * 15
	refreshTokenTTL = time.Hour * 24 * 7
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, act actor.Context) (*AuthResponse, error)
	ChangePassword(ctx context.Context, act actor.Context, req ChangePasswordRequest) error
}

type service struct {
	students student.Repository
	admins   admin.Repository
	logger   *zap.Logger
}

func NewService(students student.Repository, admins admin.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{students: students, admins: admins, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (string, string, AuthResponse, error) {
	act, resp, hash, err := s.lookupByEmail(ctx, req.UserType, req.Email)
	if err != nil {
		// Same error for unknown email and wrong password.
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(act, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(act, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success",
		zap.String("actor_id", act.ID.String()),
		zap.String("kind", string(act.Kind)),
	)
	return accessToken, refreshToken, resp, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	kind, _ := claims["kind"].(string)

	// Re-fetch the account so a rotated token always carries the current
	// role and block.
	act, resp, _, err := s.lookupByID(ctx, kind, id)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrAccountNotFound
	}

	newAccessToken, err := s.generateToken(act, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := s.generateToken(act, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, resp, nil
}

func (s *service) GetMe(ctx context.Context, act actor.Context) (*AuthResponse, error) {
	_, resp, _, err := s.lookupByID(ctx, string(act.Kind), act.ID)
	if err != nil {
		return nil, autherrors.ErrAccountNotFound
	}
	return &resp, nil
}

func (s *service) ChangePassword(ctx context.Context, act actor.Context, req ChangePasswordRequest) error {
	_, _, hash, err := s.lookupByID(ctx, string(act.Kind), act.ID)
	if err != nil {
		return autherrors.ErrAccountNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.OldPassword)); err != nil {
		return autherrors.ErrWrongOldPassword
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if act.IsStudent() {
		st, err := s.students.FindByID(ctx, act.ID.String())
		if err != nil {
			return autherrors.ErrAccountNotFound
		}
		st.PasswordHash = string(newHash)
		if err := s.students.Update(ctx, st); err != nil {
			s.logger.Error("change password persist failed", zap.String("actor_id", act.ID.String()), zap.Error(err))
			return err
		}
	} else {
		a, err := s.admins.FindByID(ctx, act.ID.String())
		if err != nil {
			return autherrors.ErrAccountNotFound
		}
		a.PasswordHash = string(newHash)
		if err := s.admins.Update(ctx, a); err != nil {
			s.logger.Error("change password persist failed", zap.String("actor_id", act.ID.String()), zap.Error(err))
			return err
		}
	}

	s.logger.Info("password changed", zap.String("actor_id", act.ID.String()))
	return nil
}

func (s *service) lookupByEmail(ctx context.Context, userType, email string) (actor.Context, AuthResponse, string, error) {
	if userType == string(actor.KindAdmin) {
		a, err := s.admins.FindByEmail(ctx, email)
		if err != nil {
			return actor.Context{}, AuthResponse{}, "", err
		}
		return adminPrincipal(a)
	}

	st, err := s.students.FindByEmail(ctx, email)
	if err != nil {
		return actor.Context{}, AuthResponse{}, "", err
	}
	return studentPrincipal(st)
}

func (s *service) lookupByID(ctx context.Context, kind string, id uuid.UUID) (actor.Context, AuthResponse, string, error) {
	if kind == string(actor.KindAdmin) {
		a, err := s.admins.FindByID(ctx, id.String())
		if err != nil {
			return actor.Context{}, AuthResponse{}, "", err
		}
		return adminPrincipal(a)
	}

	st, err := s.students.FindByID(ctx, id.String())
	if err != nil {
		return actor.Context{}, AuthResponse{}, "", err
	}
	return studentPrincipal(st)
}

func studentPrincipal(st *student.Student) (actor.Context, AuthResponse, string, error) {
	act := actor.Student(st.ID)
	resp := AuthResponse{
		ID:    st.ID.String(),
		Name:  st.Name,
		Email: st.Email,
		Kind:  string(actor.KindStudent),
		Block: st.HostelBlock,
	}
	return act, resp, st.PasswordHash, nil
}

func adminPrincipal(a *admin.Admin) (actor.Context, AuthResponse, string, error) {
	act := actor.Admin(a.ID, a.Role, a.HostelBlock)
	resp := AuthResponse{
		ID:    a.ID.String(),
		Name:  a.Name,
		Email: a.Email,
		Kind:  string(actor.KindAdmin),
		Role:  string(a.Role),
		Block: a.HostelBlock,
	}
	return act, resp, a.PasswordHash, nil
}

func (s *service) generateToken(act actor.Context, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  act.ID.String(),
		"kind": string(act.Kind),
		"exp":  time.Now().Add(expiry).Unix(),
	}
	if act.IsAdmin() {
		claims["role"] = string(act.Role)
		claims["block"] = act.Block
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
