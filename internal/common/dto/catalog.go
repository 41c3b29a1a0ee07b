package dto

// ToggleSaveResponse reports the saved state after a toggle
type ToggleSaveResponse struct {
	Saved bool `json:"saved"`
}

// SoftDeleteRequest flips the active flag of a business
type SoftDeleteRequest struct {
	IsActive bool `json:"is_active"`
}
