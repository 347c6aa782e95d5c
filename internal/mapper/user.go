package mapper

import (
	"shop-admin/internal/domain"
	"shop-admin/internal/dto"
)

// ToUser copies the profile fields and addresses of a creation request.
// The password is not copied; callers store its hash.
func ToUser(req dto.UserCreationRequest) *domain.User {
	return &domain.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Addresses: mapAll(req.Addresses, ToAddress),
		Roles:     []domain.Role{},
	}
}

func ToAddress(req dto.AddressRequest) domain.Address {
	return domain.Address{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Street:    req.Street,
		City:      req.City,
		Province:  req.Province,
		IsDefault: req.IsDefault,
	}
}

// ApplyUserUpdate sets the non-nil profile fields of req on u. Password changes are hashed by the caller.
func ApplyUserUpdate(u *domain.User, req dto.UserUpdateRequest) {
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
}

func ToUserResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Status:    u.Status,
		Roles:     u.RoleNames(),
		Addresses: mapAll(u.Addresses, toAddressResponse),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponses(users []*domain.User) []dto.UserResponse {
	return mapAll(users, ToUserResponse)
}

func toAddressResponse(a domain.Address) dto.AddressResponse {
	return dto.AddressResponse{
		ID:        a.ID,
		FullName:  a.FullName,
		Phone:     a.Phone,
		Street:    a.Street,
		City:      a.City,
		Province:  a.Province,
		IsDefault: a.IsDefault,
	}
}
