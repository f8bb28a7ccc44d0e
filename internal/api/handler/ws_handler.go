package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/labourshub/marketplace/internal/infrastructure/realtime"
)

const pongWait = 60 * time.Second

// WSHandler upgrades authenticated clients to a live connection and keeps the
// presence registry in sync with the socket lifecycle.
type WSHandler struct {
	registry *realtime.Registry
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewWSHandler(registry *realtime.Registry, allowedOrigin string, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
		log: log,
	}
}

// clientMessage is the envelope for messages the browser sends over the socket.
type clientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Serve handles GET /ws. The connection only joins the presence registry once
// the client sends its register-user event; the registered identity always
// comes from the session, not from the message body.
func (h *WSHandler) Serve(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	conn := realtime.NewConnection(session.UserID, ws)
	conn.Start()

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	defer func() {
		h.registry.Unregister(conn)
		conn.Close(websocket.CloseNormalClosure, "")
	}()

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			return nil
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.log.Debug().Err(err).Str("user_id", session.UserID).Msg("unreadable socket message")
			continue
		}

		switch msg.Event {
		case "register-user":
			var claimed string
			_ = json.Unmarshal(msg.Data, &claimed)
			if claimed != "" && claimed != session.UserID {
				h.log.Debug().
					Str("user_id", session.UserID).
					Str("claimed_id", claimed).
					Msg("register-user id ignored, session identity used")
			}
			h.registry.Register(session.UserID, conn)
		default:
			h.log.Debug().Str("event", msg.Event).Msg("unknown socket event")
		}
	}
}
