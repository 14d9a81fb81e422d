package dto

import "github.com/classclarus/classroom-api/internal/models"

// UserDTO is the public representation of a user.
type UserDTO struct {
	ID                  uint64  `json:"id"`
	Email               string  `json:"email"`
	FirstName           string  `json:"first_name"`
	LastName            string  `json:"last_name"`
	StudentGuardianCode *string `json:"student_guardian_code,omitempty"`
	Token               string  `json:"token,omitempty"`
}

// ToUserDTO converts a user model to its DTO.
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:                  user.ID,
		Email:               user.Email,
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		StudentGuardianCode: user.StudentGuardianCode,
	}
	if user.SessionToken != nil {
		dto.Token = *user.SessionToken
	}
	return dto
}
