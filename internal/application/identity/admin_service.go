package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/identity"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var errSuperAdminOnly = shared.NewDomainError("FORBIDDEN", "Only a superadmin can manage superadmin accounts")

// AdminService manages back-office accounts
type AdminService struct {
	admins    identity.AdminRepository
	hasher    identity.PasswordHasher
	blacklist auth.TokenBlacklist
	jwt       *auth.JWTService
	logger    *zap.Logger
}

// NewAdminService creates a new admin management service
func NewAdminService(
	admins identity.AdminRepository,
	hasher identity.PasswordHasher,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		admins:    admins,
		hasher:    hasher,
		jwt:       jwtService,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Create adds a new admin. Only a superadmin may create another superadmin.
func (s *AdminService) Create(ctx context.Context, actor Actor, input CreateAdminInput) (*AdminProfile, error) {
	acting, err := s.loadActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if input.Role == "" {
		input.Role = identity.RoleAdmin
	}
	if input.Role == identity.RoleSuperAdmin && !acting.IsSuperAdmin() {
		return nil, errSuperAdminOnly
	}

	perms, err := identity.ParsePermissions(input.Permissions)
	if err != nil {
		return nil, err
	}

	admin, err := identity.NewAdmin(input.Email, input.Name, input.Password, input.Role, perms, s.hasher)
	if err != nil {
		return nil, err
	}

	exists, err := s.admins.ExistsByEmail(ctx, admin.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An admin with this email already exists")
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Admin created",
		zap.String("admin_id", admin.ID.String()),
		zap.String("role", string(admin.Role)),
		zap.String("created_by", actor.ID.String()))

	profile := AdminProfileFrom(admin)
	return &profile, nil
}

// UpdatePermissions overwrites the stored permission list of an admin.
// Admins cannot change their own permissions.
func (s *AdminService) UpdatePermissions(ctx context.Context, actor Actor, adminID uuid.UUID, permissions []string) (*AdminProfile, error) {
	perms, err := identity.ParsePermissions(permissions)
	if err != nil {
		return nil, err
	}
	if actor.ID == adminID {
		return nil, shared.NewDomainError("FORBIDDEN", "You cannot change your own permissions")
	}

	target, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	acting, err := s.loadActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !acting.CanManage(target) {
		return nil, errSuperAdminOnly
	}

	target.SetPermissions(perms)
	if err := s.admins.Update(ctx, target); err != nil {
		return nil, err
	}

	s.logger.Info("Admin permissions updated",
		zap.String("admin_id", target.ID.String()),
		zap.Strings("permissions", identity.PermissionStrings(perms)),
		zap.String("updated_by", actor.ID.String()))

	profile := AdminProfileFrom(target)
	return &profile, nil
}

// SetActive activates or deactivates an admin. Deactivation revokes every
// token issued to the account so far.
func (s *AdminService) SetActive(ctx context.Context, actor Actor, adminID uuid.UUID, active bool) (*AdminProfile, error) {
	if actor.ID == adminID && !active {
		return nil, shared.NewDomainError("FORBIDDEN", "You cannot deactivate your own account")
	}

	target, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	acting, err := s.loadActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !acting.CanManage(target) {
		return nil, errSuperAdminOnly
	}

	if target.IsActive == active {
		profile := AdminProfileFrom(target)
		return &profile, nil
	}

	if active {
		target.Activate()
	} else {
		target.Deactivate()
	}
	if err := s.admins.Update(ctx, target); err != nil {
		return nil, err
	}

	if !active {
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, target.ID.String(), s.jwt.GetRefreshTokenExpiration()); err != nil {
			s.logger.Error("Failed to revoke tokens of deactivated admin", zap.String("admin_id", target.ID.String()), zap.Error(err))
		}
	}

	s.logger.Info("Admin status changed",
		zap.String("admin_id", target.ID.String()),
		zap.Bool("active", active),
		zap.String("updated_by", actor.ID.String()))

	profile := AdminProfileFrom(target)
	return &profile, nil
}

// Get returns a single admin
func (s *AdminService) Get(ctx context.Context, id uuid.UUID) (*AdminProfile, error) {
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := AdminProfileFrom(admin)
	return &profile, nil
}

// List returns a page of admins
func (s *AdminService) List(ctx context.Context, filter identity.AdminFilter) (shared.Paginated[AdminProfile], error) {
	filter.Filter = filter.Filter.Normalize()

	admins, total, err := s.admins.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[AdminProfile]{}, err
	}

	items := make([]AdminProfile, len(admins))
	for i, a := range admins {
		items[i] = AdminProfileFrom(a)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// loadActor resolves the acting admin; a vanished or inactive actor is unauthorized
func (s *AdminService) loadActor(ctx context.Context, actor Actor) (*identity.Admin, error) {
	acting, err := s.admins.FindByID(ctx, actor.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !acting.IsActive {
		return nil, ErrUserInactive
	}
	return acting, nil
}
