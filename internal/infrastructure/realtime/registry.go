package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/labourshub/marketplace/internal/api/metrics"
)

// Conn is the outbound half of a live connection tracked by the Registry.
type Conn interface {
	Send(payload []byte) error
	Close(code int, reason string)
}

// Event is the wire envelope for pushed notifications.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Registry is the process-wide presence map from user id to live connection.
// The last registration for a user wins: a fresh connection replaces and
// closes any previous one, keeping one socket per user. Delivery through
// Push is best-effort at-most-once; users without a connection miss the
// event and recover state by re-fetching.
//
// Single-process only. Running more than one instance requires externalising
// presence to a shared pub/sub channel keyed by user id.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]Conn
	owner  map[Conn]string

	log zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		byUser: make(map[string]Conn),
		owner:  make(map[Conn]string),
		log:    log,
	}
}

// Register tracks conn as the live connection for userID, replacing any
// previous one. The replaced connection is closed outside the lock.
func (r *Registry) Register(userID string, conn Conn) {
	var previous Conn

	r.mu.Lock()
	if existing, ok := r.byUser[userID]; ok && existing != conn {
		previous = existing
		delete(r.owner, existing)
	}
	r.byUser[userID] = conn
	r.owner[conn] = userID
	metrics.ConnectedUsers.Set(float64(len(r.byUser)))
	r.mu.Unlock()

	if previous != nil {
		previous.Close(websocket.ClosePolicyViolation, "connection replaced")
	}

	r.log.Debug().Str("user_id", userID).Msg("user registered for live events")
}

// Lookup returns the connection for userID, or nil when the user is offline.
func (r *Registry) Lookup(userID string) Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byUser[userID]
}

// Unregister removes conn from the registry. Disconnect events only carry the
// connection handle, so the entry is located through the reverse map. Unknown
// handles are a no-op.
func (r *Registry) Unregister(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.owner[conn]
	if !ok {
		return
	}
	delete(r.owner, conn)
	// Only drop the user entry if it still points at this connection; a
	// replacement may already have taken the slot.
	if r.byUser[userID] == conn {
		delete(r.byUser, userID)
	}
	metrics.ConnectedUsers.Set(float64(len(r.byUser)))
}

// Push delivers event to userID if a connection is present. Absent users and
// send failures drop the event; the persisted record remains the source of
// truth and no retry is attempted.
func (r *Registry) Push(userID, event string, payload any) {
	conn := r.Lookup(userID)
	if conn == nil {
		metrics.NotificationsTotal.WithLabelValues(event, "dropped").Inc()
		r.log.Debug().Str("user_id", userID).Str("event", event).Msg("recipient offline, event dropped")
		return
	}

	data, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(event, "dropped").Inc()
		r.log.Error().Err(err).Str("event", event).Msg("failed to encode event")
		return
	}

	if err := conn.Send(data); err != nil {
		metrics.NotificationsTotal.WithLabelValues(event, "dropped").Inc()
		r.log.Debug().Err(err).Str("user_id", userID).Str("event", event).Msg("push failed, event dropped")
		return
	}

	metrics.NotificationsTotal.WithLabelValues(event, "pushed").Inc()
}
