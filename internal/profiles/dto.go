package profiles

import "time"

type createProfileRequest struct {
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		ID:        string(p.ID),
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
	}
}
