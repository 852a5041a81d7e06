package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gamenight-backend/internal/http/response"
	"github.com/yungbote/gamenight-backend/internal/services"
)

type StatsHandler struct {
	svc services.OverviewService
}

func NewStatsHandler(svc services.OverviewService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) Overview(c *gin.Context) {
	overview, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, overview)
}

func (h *StatsHandler) RecentImports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.svc.RecentImports(c.Request.Context(), limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"runs": runs})
}
