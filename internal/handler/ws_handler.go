package handler

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/openplanner/gradplan-backend/internal/config"
	"github.com/openplanner/gradplan-backend/internal/middleware"
	"github.com/openplanner/gradplan-backend/internal/service"
	ws "github.com/openplanner/gradplan-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live audit results for a plan. The audit worker publishes
// completion events on the plan's Redis channel; this handler relays them to
// the plan owner's open connections.
type WSHandler struct {
	rdb         *redis.Client
	planService *service.PlanService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, planService *service.PlanService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:         rdb,
		planService: planService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// PlanAuditStream godoc
// WS /ws/v1/plans/:id/audit
// Upgrades to WebSocket and relays audit events for one plan.
func (h *WSHandler) PlanAuditStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan ID"})
		return
	}

	if _, err := h.planService.GetOwnedPlan(c.Request.Context(), planID, claims.UserID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "plan not accessible"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("student_id", claims.UserID.String()).
		Str("plan_id", planID.String()).
		Logger()

	wsLog.Info().Msg("Audit stream connected")

	// Gorilla permits one concurrent writer; the relay goroutine and the read
	// loop's responses share this mutex.
	var writeMu sync.Mutex

	pubsub := h.rdb.Subscribe(c.Request.Context(), config.CacheKey.PlanAuditChannel(planID.String()))
	defer pubsub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range pubsub.Channel() {
			writeMu.Lock()
			err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload))
			writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}()

	for {
		msg, err := ws.ReadRequest(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionPing:
			writeMu.Lock()
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			writeMu.Unlock()
		case ws.ActionReaudit:
			h.planService.EnqueueAudit(c.Request.Context(), planID)
			writeMu.Lock()
			ws.WriteTyped(conn, ws.QueuedResponse{Event: ws.EventAuditQueued})
			writeMu.Unlock()
		default:
			writeMu.Lock()
			ws.WriteError(conn, "unknown action: "+string(msg.Action))
			writeMu.Unlock()
		}
	}

	pubsub.Close()
	<-done
}
