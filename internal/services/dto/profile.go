package dto

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"max=100"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
}
