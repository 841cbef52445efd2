package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/identity"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"github.com/shopadmin/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Authentication errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrUserInactive       = shared.NewDomainError("USER_INACTIVE", "Account is inactive")
	ErrTokenExpired       = shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	ErrTokenInvalid       = shared.NewDomainError("TOKEN_INVALID", "Invalid token")
)

// AuthService handles login, registration and token lifecycle for admins and customers
type AuthService struct {
	admins    identity.AdminRepository
	customers identity.CustomerRepository
	hasher    identity.PasswordHasher
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	metrics   *telemetry.BusinessMetrics
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service.
// metrics may be nil.
func NewAuthService(
	admins identity.AdminRepository,
	customers identity.CustomerRepository,
	hasher identity.PasswordHasher,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		admins:    admins,
		customers: customers,
		hasher:    hasher,
		jwt:       jwtService,
		blacklist: blacklist,
		metrics:   metrics,
		logger:    logger,
	}
}

// AdminLogin authenticates an admin by email and password
func (s *AuthService) AdminLogin(ctx context.Context, input LoginInput) (*AdminAuthResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "AdminLogin")
	defer span.End()

	admin, err := s.admins.FindByEmail(ctx, input.Email)
	if err != nil {
		if isNotFound(err) {
			s.logger.Warn("Admin login for unknown email", zap.String("email", identity.NormalizeEmail(input.Email)))
			s.metrics.RecordLogin(ctx, "admin", false)
			return nil, ErrInvalidCredentials
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	if !admin.VerifyPassword(input.Password, s.hasher) {
		s.logger.Warn("Admin login with wrong password", zap.String("admin_id", admin.ID.String()))
		s.metrics.RecordLogin(ctx, "admin", false)
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		s.logger.Warn("Login attempt for inactive admin", zap.String("admin_id", admin.ID.String()))
		s.metrics.RecordLogin(ctx, "admin", false)
		return nil, ErrUserInactive
	}

	pair, err := s.jwt.GenerateTokenPair(adminTokenInput(admin))
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	admin.RecordLogin()
	if err := s.admins.Update(ctx, admin); err != nil {
		s.logger.Error("Failed to record admin login", zap.String("admin_id", admin.ID.String()), zap.Error(err))
	}

	s.metrics.RecordLogin(ctx, "admin", true)
	s.logger.Info("Admin logged in", zap.String("admin_id", admin.ID.String()))

	return &AdminAuthResult{Tokens: tokenResultFrom(pair), Admin: AdminProfileFrom(admin)}, nil
}

// CustomerLogin authenticates a customer by email and password
func (s *AuthService) CustomerLogin(ctx context.Context, input LoginInput) (*CustomerAuthResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "CustomerLogin")
	defer span.End()

	customer, err := s.customers.FindByEmail(ctx, input.Email)
	if err != nil {
		if isNotFound(err) {
			s.metrics.RecordLogin(ctx, "customer", false)
			return nil, ErrInvalidCredentials
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	if !customer.VerifyPassword(input.Password, s.hasher) {
		s.metrics.RecordLogin(ctx, "customer", false)
		return nil, ErrInvalidCredentials
	}
	if !customer.IsActive {
		s.metrics.RecordLogin(ctx, "customer", false)
		return nil, ErrUserInactive
	}

	pair, err := s.jwt.GenerateTokenPair(customerTokenInput(customer))
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	customer.RecordLogin()
	if err := s.customers.Update(ctx, customer); err != nil {
		s.logger.Error("Failed to record customer login", zap.String("customer_id", customer.ID.String()), zap.Error(err))
	}

	s.metrics.RecordLogin(ctx, "customer", true)
	return &CustomerAuthResult{Tokens: tokenResultFrom(pair), Customer: CustomerProfileFrom(customer)}, nil
}

// RegisterCustomer creates a customer account and signs it in
func (s *AuthService) RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (*CustomerAuthResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "RegisterCustomer")
	defer span.End()

	customer, err := identity.NewCustomer(input.Email, input.Phone, input.FirstName, input.LastName, input.Password, s.hasher)
	if err != nil {
		return nil, err
	}

	exists, err := s.customers.ExistsByEmail(ctx, customer.Email)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}
	if customer.Phone != nil {
		exists, err := s.customers.ExistsByPhone(ctx, *customer.Phone)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Phone number is already registered")
		}
	}

	// the unique indexes still catch a concurrent registration
	if err := s.customers.Create(ctx, customer); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	pair, err := s.jwt.GenerateTokenPair(customerTokenInput(customer))
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("Customer registered", zap.String("customer_id", customer.ID.String()))
	return &CustomerAuthResult{Tokens: tokenResultFrom(pair), Customer: CustomerProfileFrom(customer)}, nil
}

// Refresh exchanges a refresh token for a new pair. The subject is reloaded
// so deactivation and permission changes take effect, and the presented
// refresh token is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "Refresh")
	defer span.End()

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Debug("Refresh token rejected", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, ErrTokenInvalid
	}

	var input auth.GenerateTokenInput
	switch claims.SubjectType {
	case auth.SubjectAdmin:
		admin, err := s.admins.FindByID(ctx, userID)
		if err != nil {
			return nil, subjectLookupError(err)
		}
		if !admin.IsActive {
			return nil, ErrUserInactive
		}
		input = adminTokenInput(admin)
	case auth.SubjectCustomer:
		customer, err := s.customers.FindByID(ctx, userID)
		if err != nil {
			return nil, subjectLookupError(err)
		}
		if !customer.IsActive {
			return nil, ErrUserInactive
		}
		input = customerTokenInput(customer)
	default:
		return nil, ErrTokenInvalid
	}

	pair, err := s.jwt.RotateTokenPair(claims, input)
	if err != nil {
		if errors.Is(err, auth.ErrMaxRefreshExceeded) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Maximum token refresh count exceeded, please log in again")
		}
		telemetry.RecordError(span, err)
		return nil, mapTokenError(err)
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke rotated refresh token", zap.Error(err))
	}

	result := tokenResultFrom(pair)
	return &result, nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if err := s.blacklist.AddToBlacklist(ctx, input.AccessJTI, input.AccessTTL); err != nil {
		return err
	}

	if input.RefreshToken == "" {
		return nil
	}
	claims, err := s.jwt.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		// an unusable refresh token needs no revocation
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL())
}

// Me loads the profile of the authenticated subject
func (s *AuthService) Me(ctx context.Context, subjectType auth.SubjectType, id uuid.UUID) (*CurrentSubject, error) {
	switch subjectType {
	case auth.SubjectAdmin:
		admin, err := s.admins.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		profile := AdminProfileFrom(admin)
		return &CurrentSubject{Type: subjectType, Admin: &profile}, nil
	case auth.SubjectCustomer:
		customer, err := s.customers.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		profile := CustomerProfileFrom(customer)
		return &CurrentSubject{Type: subjectType, Customer: &profile}, nil
	}
	return nil, ErrTokenInvalid
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return shared.NewDomainError("TOKEN_INVALID", "Token has been revoked")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return err
	}
	if invalidated {
		return shared.NewDomainError("TOKEN_INVALID", "Token has been revoked")
	}
	return nil
}

func adminTokenInput(a *identity.Admin) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		SubjectType: auth.SubjectAdmin,
		UserID:      a.ID,
		Email:       a.Email,
		Role:        string(a.Role),
		Permissions: identity.PermissionStrings(a.EffectivePermissions()),
	}
}

func customerTokenInput(c *identity.Customer) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		SubjectType: auth.SubjectCustomer,
		UserID:      c.ID,
		Email:       c.Email,
	}
}

func mapTokenError(err error) error {
	if errors.Is(err, auth.ErrExpiredToken) {
		return ErrTokenExpired
	}
	return ErrTokenInvalid
}

// subjectLookupError hides a deleted subject behind TOKEN_INVALID
func subjectLookupError(err error) error {
	if isNotFound(err) {
		return ErrTokenInvalid
	}
	return err
}
