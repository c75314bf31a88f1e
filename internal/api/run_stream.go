package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ericogr/combo-chronicle/internal/constants"
	"github.com/ericogr/combo-chronicle/internal/logging"
)

const streamWriteWait = 10 * time.Second

// Stream upgrades to a websocket and pushes a snapshot of the run after
// every accepted action. The first frame is the current snapshot.
func (h *RunHandler) Stream(c *gin.Context) {
	id, ok := runIDParam(c)
	if !ok {
		return
	}
	if _, err := h.runs.Get(id); err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn(constants.ErrFailedUpgrade, logging.Fields{
			constants.LogFieldRunID:  id,
			constants.LogFieldReason: err.Error(),
		})
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(id)
	defer sub.Close()
	logging.Info("stream opened", logging.Fields{
		constants.LogFieldRunID:   id,
		constants.LogFieldClients: h.hub.Subscribers(id),
	})

	// The reader only watches for the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	v, err := h.runs.Get(id)
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(v); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case frame, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run closed"))
				return
			}
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		}
	}
}
