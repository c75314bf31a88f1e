package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/combo-chronicle/internal/constants"
	"github.com/ericogr/combo-chronicle/internal/dedupe"
	"github.com/ericogr/combo-chronicle/internal/game"
	"github.com/ericogr/combo-chronicle/internal/keys"
)

// ListSkills returns the collectible skills.
func (h *RunHandler) ListSkills(c *gin.Context) {
	skills, _, err := dedupe.Do(&h.queries, keys.Query("skills"), h.repo.GetSkills)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCatalog})
		return
	}
	c.JSON(http.StatusOK, skills)
}

// ListEnemies returns every enemy ordered by floor.
func (h *RunHandler) ListEnemies(c *gin.Context) {
	enemies, _, err := dedupe.Do(&h.queries, keys.Query("enemies"), h.repo.GetEnemies)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCatalog})
		return
	}
	c.JSON(http.StatusOK, enemies)
}

// ListPassives returns every passive ability.
func (h *RunHandler) ListPassives(c *gin.Context) {
	passives, _, err := dedupe.Do(&h.queries, keys.Query("passives"), h.repo.GetPassives)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCatalog})
		return
	}
	c.JSON(http.StatusOK, passives)
}

// ListLeaderboard returns the best finished runs, top 10 by default.
func (h *RunHandler) ListLeaderboard(c *gin.Context) {
	limit := 10
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	runs, _, err := dedupe.Do(&h.queries, keys.Query("leaderboard", strconv.Itoa(limit)), func() ([]game.RunResult, error) {
		return h.repo.GetTopRuns(limit)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	c.JSON(http.StatusOK, runs)
}
