package dto

import "github.com/classclarus/classroom-api/internal/models"

// OrganizationDTO is the public representation of an organization.
type OrganizationDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	OwnerID  uint64 `json:"owner_id"`
	JoinCode string `json:"join_code,omitempty"`
}

// OrganizationWithRoleDTO represents an organization with the user's role.
type OrganizationWithRoleDTO struct {
	OrganizationDTO
	Role models.Role `json:"role"`
}

// ToOrganizationDTO converts an organization model to its DTO.
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	dto := OrganizationDTO{
		ID:      org.ID,
		Name:    org.Name,
		OwnerID: org.OwnerID,
	}
	if org.JoinCode != nil {
		dto.JoinCode = org.JoinCode.Code
	}
	return dto
}

// OwnedOrganizationDTO converts an owned organization to a DTO tagged with
// the display-only owner role.
func OwnedOrganizationDTO(org models.Organization) OrganizationWithRoleDTO {
	return OrganizationWithRoleDTO{
		OrganizationDTO: ToOrganizationDTO(org),
		Role:            models.RoleOwner,
	}
}

// ToOrganizationWithRoleDTO converts a membership row to a DTO with role.
func ToOrganizationWithRoleDTO(membership models.OrganizationMembership) OrganizationWithRoleDTO {
	return OrganizationWithRoleDTO{
		OrganizationDTO: ToOrganizationDTO(membership.Organization),
		Role:            membership.Role,
	}
}
