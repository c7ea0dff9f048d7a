package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/bidworks/rfp-api/config"
	"github.com/bidworks/rfp-api/models"
)

// WSHandler streams pipeline log entries to connected clients. A client may
// subscribe to every run, or pass ?rfp_id= to follow a single RFP.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	log := config.GetLogger()

	m := melody.New()
	m.Config.MaxMessageSize = 1024 * 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		rfpID, _ := s.Get("rfp_id")
		log.Debugf("Pipeline feed client connected (rfp filter: %v)", rfpID)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		log.Debug("Pipeline feed client disconnected")
	})
	m.HandleError(func(s *melody.Session, err error) {
		log.Warnf("Pipeline feed error: %v", err)
	})

	return &WSHandler{M: m}
}

func (h *WSHandler) HandleWS(c *gin.Context) {
	keys := map[string]interface{}{}
	if rfpID := c.Query("rfp_id"); rfpID != "" {
		keys["rfp_id"] = rfpID
	}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		config.GetLogger().Warnf("Failed to upgrade websocket: %v", err)
	}
}

type pipelineEvent struct {
	RFPID string          `json:"rfp_id"`
	Entry models.LogEntry `json:"entry"`
}

// BroadcastLogEntry pushes one pipeline log line to subscribers. Sessions
// with an rfp_id filter only receive entries for that RFP.
func (h *WSHandler) BroadcastLogEntry(rfpID string, entry models.LogEntry) {
	msg, err := json.Marshal(pipelineEvent{RFPID: rfpID, Entry: entry})
	if err != nil {
		return
	}

	err = h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		filter, exists := s.Get("rfp_id")
		return !exists || filter == rfpID
	})
	if err != nil {
		config.GetLogger().Warnf("Failed to broadcast pipeline entry: %v", err)
	}
}
