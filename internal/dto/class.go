package dto

import "github.com/classclarus/classroom-api/internal/models"

// ClassDTO is the public representation of a class. Codes are only populated
// for owners.
type ClassDTO struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	OwnerID        uint64  `json:"owner_id"`
	OrganizationID *uint64 `json:"organization_id,omitempty"`
	StudentCode    string  `json:"student_code,omitempty"`
	TeacherCode    string  `json:"teacher_code,omitempty"`
	GuardianCode   string  `json:"guardian_code,omitempty"`
}

// ClassWithRoleDTO represents a class with the user's role.
type ClassWithRoleDTO struct {
	ClassDTO
	Role models.Role `json:"role"`
}

// ToClassDTO converts a class model to its DTO.
func ToClassDTO(class models.Class, includeCodes bool) ClassDTO {
	dto := ClassDTO{
		ID:             class.ID,
		Name:           class.Name,
		OwnerID:        class.OwnerID,
		OrganizationID: class.OrganizationID,
	}
	if includeCodes {
		dto.StudentCode = class.StudentCode
		dto.TeacherCode = class.TeacherCode
		dto.GuardianCode = class.GuardianCode
	}
	return dto
}

// OwnedClassDTO converts an owned class to a DTO with codes included and the
// display-only owner role.
func OwnedClassDTO(class models.Class) ClassWithRoleDTO {
	return ClassWithRoleDTO{
		ClassDTO: ToClassDTO(class, true),
		Role:     models.RoleOwner,
	}
}

// ToClassWithRoleDTO converts a membership row to a DTO with role.
func ToClassWithRoleDTO(membership models.ClassMembership) ClassWithRoleDTO {
	return ClassWithRoleDTO{
		ClassDTO: ToClassDTO(membership.Class, false),
		Role:     membership.Role,
	}
}
