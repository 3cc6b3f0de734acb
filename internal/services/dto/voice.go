package dto

type TranscribeRequest struct {
	Audio string `json:"audio" binding:"required" validate:"required,base64"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}
