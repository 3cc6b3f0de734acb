package handlers

import (
	"net/http"

	"braindump_backend/internal/services"
	"braindump_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type VoiceHandler struct {
	*BaseHandler
	transcriptionService services.TranscriptionService
}

func NewVoiceHandler(base *BaseHandler, transcriptionService services.TranscriptionService) *VoiceHandler {
	return &VoiceHandler{
		BaseHandler:          base,
		transcriptionService: transcriptionService,
	}
}

func (h *VoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/voice/transcribe", h.Transcribe)
}

// Transcribe converts audio to text only. The client reviews the text and
// submits it through the dump endpoint; transcription alone does not
// consume quota.
func (h *VoiceHandler) Transcribe(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req dto.TranscribeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	text, err := h.transcriptionService.Transcribe(c.Request.Context(), req.Audio)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TranscribeResponse{Text: text})
}
