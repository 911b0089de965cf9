package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projectdesk/projectdesk-api/internal/apperr"
	"github.com/projectdesk/projectdesk-api/internal/models"
	"github.com/projectdesk/projectdesk-api/internal/utils"
)

// IdentityClaims is the verified payload of an external identity assertion.
type IdentityClaims struct {
	SubjectID     string
	Email         string
	Name          string
	EmailVerified bool
}

// IdentityVerifier validates a third-party login assertion against the
// expected audience and returns its claims. Verification mechanics live in
// the implementation; the auth service treats it as opaque.
type IdentityVerifier interface {
	Verify(ctx context.Context, assertion string) (*IdentityClaims, error)
}

// AuthService provides methods for user authentication and JWT operations
type AuthService struct {
	userService      *UserService
	identityVerifier IdentityVerifier
	jwtSecret        []byte
}

// NewAuthService creates a new AuthService
func NewAuthService(us *UserService, verifier IdentityVerifier, jwtSecret []byte) *AuthService {
	return &AuthService{
		userService:      us,
		identityVerifier: verifier,
		jwtSecret:        jwtSecret,
	}
}

// Register handles user registration. The role defaults to Staff when the
// request does not name one.
func (s *AuthService) Register(req models.RegisterRequest) (*models.LoginResponse, error) {
	role := models.RoleStaff
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			return nil, apperr.New(apperr.KindValidationFailed, "invalid role")
		}
		role = parsed
	}

	user, err := s.userService.CreateUserWithPassword(req.Name, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to generate token", err)
	}

	return &models.LoginResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	}, nil
}

// Login handles password login and JWT generation. Wrong email and wrong
// password produce the same message so account existence is not leaked.
func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userService.GetUserByEmail(req.Email)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	if !user.IsActive {
		return nil, apperr.AccountDisabled()
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to generate token", err)
	}

	return &models.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	}, nil
}

// GoogleLogin verifies a Google ID token and logs the account in, creating it
// on first sight. Accounts created this way are credential-less: they carry no
// password hash, so password login can never succeed for them.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*models.LoginResponse, error) {
	if s.identityVerifier == nil {
		return nil, apperr.New(apperr.KindInternal, "google sign-in is not configured")
	}

	claims, err := s.identityVerifier.Verify(ctx, idToken)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthenticated, "invalid google token", err)
	}

	if !claims.EmailVerified {
		return nil, apperr.New(apperr.KindUnverifiedIdentity, "google email not verified")
	}

	user, err := s.userService.GetUserByEmail(claims.Email)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			return nil, err
		}
		user, err = s.userService.CreateUser(&models.User{
			Name:     claims.Name,
			Email:    claims.Email,
			Password: "", // external-auth-only
			GoogleID: claims.SubjectID,
			Role:     models.RoleStaff,
			IsActive: true,
		})
		if err != nil {
			return nil, err
		}
	} else if user.GoogleID == "" {
		if err := s.userService.LinkGoogleID(user.ID, claims.SubjectID); err != nil {
			return nil, err
		}
		user.GoogleID = claims.SubjectID
	}

	if !user.IsActive {
		return nil, apperr.AccountDisabled()
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to generate token", err)
	}

	return &models.LoginResponse{
		Message: "Google login successful",
		Token:   token,
		User:    user,
	}, nil
}

// Me returns the current user's profile.
func (s *AuthService) Me(userID primitive.ObjectID) (*models.User, error) {
	return s.userService.GetUserByID(userID)
}
