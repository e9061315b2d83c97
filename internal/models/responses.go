package models

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type TherapistListResponse struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Specialty  string `json:"specialty"`
	ImageURL   string `json:"image_url"`
	Status     string `json:"status"`
	MatchScore int    `json:"match_score,omitempty"`
}
