package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-admin/internal/authz"
	"shop-admin/internal/domain"
	"shop-admin/internal/dto"
	"shop-admin/internal/mapper"
	"shop-admin/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

// UserService defines the interface for user business logic
type UserService interface {
	Create(ctx context.Context, req dto.UserCreationRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UserUpdateRequest) (*dto.UserResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) (*dto.UserResponse, error)
	GetMyInfo(ctx context.Context) (*dto.UserResponse, error)
	List(ctx context.Context, page, size int) (domain.Page[dto.UserResponse], error)
	Search(ctx context.Context, keyword string, page, size int) (domain.Page[dto.UserResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IsOwner(ctx context.Context, username string, id uuid.UUID) (bool, error)
	ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error
	UpdateRole(ctx context.Context, id uuid.UUID, roleName string) (*dto.UserResponse, error)
	IsUsernameExist(ctx context.Context, username string) (bool, error)
	IsEmailExist(ctx context.Context, email string) (bool, error)
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	tx       repository.Transactor
	logger   *zap.Logger
}

// NewUserService creates a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tx repository.Transactor,
	logger *zap.Logger,
) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		tx:       tx,
		logger:   logger.Named("user_service"),
	}
}

// Create registers a user with the USER role and ACTIVE status.
// The user, its addresses and its role link are stored in one transaction.
func (s *userService) Create(ctx context.Context, req dto.UserCreationRequest) (*dto.UserResponse, error) {
	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := mapper.ToUser(req)
	user.ID = uuid.New()
	user.PasswordHash = hashedPassword
	user.Status = domain.UserStatusActive
	user.CreatedAt = now
	user.UpdatedAt = now
	for i := range user.Addresses {
		user.Addresses[i].ID = uuid.New()
		user.Addresses[i].UserID = user.ID
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		role, err := s.roleRepo.FindByName(ctx, domain.RoleUser)
		if err != nil {
			return err
		}
		user.Roles = []domain.Role{*role}
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	resp := mapper.ToUserResponse(user)
	return &resp, nil
}

// Update is allowed to admins and to the user itself
func (s *userService) Update(ctx context.Context, id uuid.UUID, req dto.UserUpdateRequest) (*dto.UserResponse, error) {
	user, _, err := s.findOwnedUser(ctx, id)
	if err != nil {
		return nil, err
	}

	mapper.ApplyUserUpdate(user, req)
	if req.Password != nil {
		hashedPassword, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashedPassword
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := mapper.ToUserResponse(user)
	return &resp, nil
}

func (s *userService) ChangeStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) (*dto.UserResponse, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Status = status
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User status changed",
		zap.String("user_id", id.String()),
		zap.String("status", string(status)),
	)

	resp := mapper.ToUserResponse(user)
	return &resp, nil
}

// GetMyInfo returns the record of the signed-in user
func (s *userService) GetMyInfo(ctx context.Context) (*dto.UserResponse, error) {
	principal, err := authz.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, principal.Username)
	if err != nil {
		return nil, err
	}

	resp := mapper.ToUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, page, size int) (domain.Page[dto.UserResponse], error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return domain.Page[dto.UserResponse]{}, err
	}

	page, size = normalizePage(page, size)
	users, total, err := s.userRepo.List(ctx, page, size)
	if err != nil {
		return domain.Page[dto.UserResponse]{}, err
	}

	return domain.NewPage(mapper.ToUserResponses(users), page, size, total), nil
}

// Search matches the keyword against first names, ignoring case
func (s *userService) Search(ctx context.Context, keyword string, page, size int) (domain.Page[dto.UserResponse], error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return domain.Page[dto.UserResponse]{}, err
	}

	page, size = normalizePage(page, size)
	users, total, err := s.userRepo.Search(ctx, keyword, page, size)
	if err != nil {
		return domain.Page[dto.UserResponse]{}, err
	}

	return domain.NewPage(mapper.ToUserResponses(users), page, size, total), nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := mapper.ToUserResponse(user)
	return &resp, nil
}

// Delete removes the user; addresses and role links go with it
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

// IsOwner reports whether the user with the given id has the given username
func (s *userService) IsOwner(ctx context.Context, username string, id uuid.UUID) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return user.Username == username, nil
}

// ChangePassword replaces the password hash. A user changing its own password must prove the old one;
// an admin acting on another user does not.
func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	user, principal, err := s.findOwnedUser(ctx, id)
	if err != nil {
		return err
	}

	if principal.Username == user.Username {
		if err := checkPassword(user.PasswordHash, oldPassword); err != nil {
			return err
		}
	}

	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashedPassword
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User password changed",
		zap.String("user_id", id.String()),
		zap.String("changed_by", principal.Username),
	)
	return nil
}

// UpdateRole replaces the user's role set with exactly the named role
func (s *userService) UpdateRole(ctx context.Context, id uuid.UUID, roleName string) (*dto.UserResponse, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	var user *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.FindByID(ctx, id); err != nil {
			return err
		}

		role, err := s.roleRepo.FindByName(ctx, roleName)
		if err != nil {
			return err
		}

		if err := s.userRepo.ReplaceRoles(ctx, id, []string{role.Name}); err != nil {
			return err
		}

		user, err = s.userRepo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User role updated",
		zap.String("user_id", id.String()),
		zap.String("role", roleName),
	)

	resp := mapper.ToUserResponse(user)
	return &resp, nil
}

func (s *userService) IsUsernameExist(ctx context.Context, username string) (bool, error) {
	return s.userRepo.ExistsByUsername(ctx, username)
}

func (s *userService) IsEmailExist(ctx context.Context, email string) (bool, error) {
	return s.userRepo.ExistsByEmail(ctx, email)
}

// hashPassword hashes a password using bcrypt with cost factor 10
func hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// checkPassword compares a bcrypt hash with a plaintext password
func checkPassword(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	return nil
}

// findOwnedUser loads the user for an admin or for the user itself. Non-admins get ErrForbidden
// for unknown ids too, so they cannot tell which ids exist.
func (s *userService) findOwnedUser(ctx context.Context, id uuid.UUID) (*domain.User, *authz.Principal, error) {
	principal, err := authz.RequireAuthenticated(ctx)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if !principal.IsAdmin() && errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: not the owner of this account", domain.ErrForbidden)
		}
		return nil, nil, err
	}

	if _, err := authz.RequireSelfOrAdmin(ctx, user.Username); err != nil {
		return nil, nil, err
	}
	return user, principal, nil
}
