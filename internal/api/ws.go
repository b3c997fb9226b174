package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/clinscore-server/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The REST endpoints already allow any origin; the socket follows suit.
	CheckOrigin: func(*http.Request) bool { return true },
}

// liveUpdate is one frame of the live-recompute stream. Exactly one of
// result and issues is set; transient errors close the socket instead.
type liveUpdate struct {
	Result *domain.CalculationResult `json:"result,omitempty"`
	Issues []domain.ValidationIssue  `json:"issues,omitempty"`
	Error  string                    `json:"error,omitempty"`
}

// handleLive recomputes on every inbound frame so a client can stream form
// state as the user types and render the score as it changes. Results are
// not persisted; the client saves explicitly through the compute endpoint.
func (s *Server) handleLive(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.registry.Get(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var body computeBody
		if err := conn.ReadJSON(&body); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WithError(err).Debug("Websocket closed unexpectedly")
			}
			return
		}

		update := s.liveCompute(c, id, &body)
		if err := conn.WriteJSON(update); err != nil {
			s.logger.WithError(err).Debug("Websocket write failed")
			return
		}
	}
}

func (s *Server) liveCompute(c *gin.Context, id string, body *computeBody) liveUpdate {
	req, err := body.request(id)
	if err != nil {
		return liveUpdate{Error: err.Error()}
	}

	result, outcome, err := s.engine.Compute(c.Request.Context(), req)
	if err != nil {
		return liveUpdate{Error: "computation failed"}
	}
	if outcome != nil && outcome.Blocked() {
		return liveUpdate{Issues: outcome.Issues}
	}
	return liveUpdate{Result: result}
}
