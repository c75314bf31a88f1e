package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/combo-chronicle/internal/constants"
	"github.com/ericogr/combo-chronicle/internal/engine"
	"github.com/ericogr/combo-chronicle/internal/keys"
	"github.com/ericogr/combo-chronicle/internal/service"
)

type playRequest struct {
	CardID string `json:"card_id" binding:"required"`
	// Staged commits the card without resolving it; the client then calls
	// advance once per step.
	Staged bool `json:"staged"`
}

type cardRequest struct {
	CardID string `json:"card_id" binding:"required"`
}

type passiveRequest struct {
	Key string `json:"key" binding:"required"`
}

// CreateRun starts a new run.
func (h *RunHandler) CreateRun(c *gin.Context) {
	v, err := h.runs.Create()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateRun})
		return
	}
	c.JSON(http.StatusCreated, gin.H{constants.JSONKeyRun: v})
}

// GetRun returns the current snapshot of a run.
func (h *RunHandler) GetRun(c *gin.Context) {
	id, ok := runIDParam(c)
	if !ok {
		return
	}
	v, err := h.runs.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyRun: v})
}

// PlayCard plays a card from the hand.
func (h *RunHandler) PlayCard(c *gin.Context) {
	id, ok := runIDParam(c)
	if !ok {
		return
	}
	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	out, v, err := h.runs.PlayCard(id, req.CardID, req.Staged)
	respondOutcome(c, out, v, err)
}

// Rest spends haste without playing a card.
func (h *RunHandler) Rest(c *gin.Context) {
	id, ok := runIDParam(c)
	if !ok {
		return
	}
	out, v, err := h.runs.Rest(id)
	respondOutcome(c, out, v, err)
}

// Advance runs one step of a staged play.
func (h *RunHandler) Advance(c *gin.Context) {
	id, ok := runIDParam(c)
	if !ok {
		return
	}
	more, v, err := h.runs.Advance(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyRun: v, "resolving": more})
}

func respondOutcome(c *gin.Context, out engine.Outcome, v engine.View, err error) {
	if err != nil {
		if errors.Is(err, service.ErrActionRejected) && out.Reason != engine.RejectNone {
			c.JSON(http.StatusConflict, gin.H{
				constants.JSONKeyError:  constants.ErrActionRejected,
				constants.JSONKeyReason: out.Reason,
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyOutcome: out, constants.JSONKeyRun: v})
}

func (h *RunHandler) ChooseCard(c *gin.Context) {
	h.withCard(c, h.runs.ChooseCard)
}

func (h *RunHandler) ChooseAbility(c *gin.Context) {
	h.withPassive(c, h.runs.ChooseAbility)
}

func (h *RunHandler) SkipReward(c *gin.Context) {
	h.simple(c, h.runs.SkipReward)
}

func (h *RunHandler) BuyCard(c *gin.Context) {
	h.withCard(c, h.runs.BuyCard)
}

func (h *RunHandler) BuyPassive(c *gin.Context) {
	h.withPassive(c, h.runs.BuyPassive)
}

func (h *RunHandler) RemoveCard(c *gin.Context) {
	h.withCard(c, h.runs.RemoveCard)
}

func (h *RunHandler) LeaveShop(c *gin.Context) {
	h.simple(c, h.runs.LeaveShop)
}

func (h *RunHandler) Restart(c *gin.Context) {
	h.simple(c, h.runs.Restart)
}

func (h *RunHandler) simple(c *gin.Context, fn func(runID string) (engine.View, error)) {
	id, ok := runIDParam(c)
	if !ok {
		return
	}
	v, err := fn(id)
	respondView(c, v, err)
}

func (h *RunHandler) withCard(c *gin.Context, fn func(runID, cardID string) (engine.View, error)) {
	id, ok := runIDParam(c)
	if !ok {
		return
	}
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	v, err := fn(id, req.CardID)
	respondView(c, v, err)
}

func (h *RunHandler) withPassive(c *gin.Context, fn func(runID, key string) (engine.View, error)) {
	id, ok := runIDParam(c)
	if !ok {
		return
	}
	var req passiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	v, err := fn(id, keys.Normalize(req.Key))
	respondView(c, v, err)
}

func respondView(c *gin.Context, v engine.View, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyRun: v})
}
