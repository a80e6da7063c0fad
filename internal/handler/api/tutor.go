package api

import (
	"net/http"

	resdto "tutorhive/internal/handler/dto/response"
	"tutorhive/internal/infra"
	"tutorhive/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TutorHandler struct {
	tutorQueries queries.TutorQueries
}

func NewTutorHandler(tutorQueries queries.TutorQueries) *TutorHandler {
	return &TutorHandler{tutorQueries: tutorQueries}
}

// @Summary Resolve tutor id
// @Description Map an external marketplace uid to the internal tutor id
// @Tags tutors
// @Produce json
// @Param externalUid path string true "External UID"
// @Success 200 {object} resdto.ResolveTutorResponse
// @Failure 404 {object} map[string]string
// @Router /tutors/resolve/{externalUid} [get]
func (h *TutorHandler) ResolveTutorID(c *gin.Context) {
	externalUID := c.Param("externalUid")
	if externalUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "External uid required"})
		return
	}

	tutorID, err := h.tutorQueries.ResolveTutorID(c.Request.Context(), externalUID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tutor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.ResolveTutorResponse{TutorID: tutorID})
}
