package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/gamenight-backend/internal/http/response"
	"github.com/yungbote/gamenight-backend/internal/services"
)

type CompatibilityHandler struct {
	svc services.CompatibilityService
}

func NewCompatibilityHandler(svc services.CompatibilityService) *CompatibilityHandler {
	return &CompatibilityHandler{svc: svc}
}

func (h *CompatibilityHandler) ScoreGame(c *gin.Context) {
	playerID, err := uuid.Parse(c.Param("playerID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_player_id", fmt.Errorf("invalid player id %q", c.Param("playerID")))
		return
	}
	gameID, err := uuid.Parse(c.Param("gameID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_game_id", fmt.Errorf("invalid game id %q", c.Param("gameID")))
		return
	}

	score, err := h.svc.ScoreGame(c.Request.Context(), playerID, gameID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, score)
}

func (h *CompatibilityHandler) RankGames(c *gin.Context) {
	playerID, err := uuid.Parse(c.Param("playerID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_player_id", fmt.Errorf("invalid player id %q", c.Param("playerID")))
		return
	}

	scores, err := h.svc.RankGames(c.Request.Context(), playerID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"player_id": playerID,
		"scores":    scores,
	})
}
