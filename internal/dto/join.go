package dto

import "github.com/classclarus/classroom-api/internal/models"

// JoinResponse is the success body for every join endpoint.
type JoinResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	EntityType string      `json:"entityType"`
	EntityID   uint64      `json:"entityId,omitempty"`
	ClassIDs   []uint64    `json:"classIds,omitempty"`
	Role       models.Role `json:"role"`
}

// LeaveResponse is the success body for the leave endpoints.
type LeaveResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	EntityType string `json:"entityType"`
	EntityID   uint64 `json:"entityId"`
}

// CandidateClassDTO is one joinable class offered during guardian-code
// disambiguation.
type CandidateClassDTO struct {
	ID               uint64  `json:"id"`
	Name             string  `json:"name"`
	OrganizationName *string `json:"organizationName"`
}

// ClassSelectionResponse asks the caller to resubmit with an explicit class
// selection. It is a 200, not an error.
type ClassSelectionResponse struct {
	Success                bool                `json:"success"`
	RequiresClassSelection bool                `json:"requiresClassSelection"`
	StudentName            string              `json:"studentName"`
	Classes                []CandidateClassDTO `json:"classes"`
}

// ToCandidateClassDTOs converts candidate classes with hydrated organizations.
func ToCandidateClassDTOs(classes []models.Class) []CandidateClassDTO {
	dtos := make([]CandidateClassDTO, len(classes))
	for i, class := range classes {
		var orgName *string
		if class.Organization != nil {
			name := class.Organization.Name
			orgName = &name
		}
		dtos[i] = CandidateClassDTO{
			ID:               class.ID,
			Name:             class.Name,
			OrganizationName: orgName,
		}
	}
	return dtos
}
