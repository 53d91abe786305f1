package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/picogrid/convoy-tracker/pkg/domain"
	"github.com/picogrid/convoy-tracker/pkg/events"
	"github.com/picogrid/convoy-tracker/pkg/models"
)

// initTimeout bounds the wait for connection_init after the upgrade.
const initTimeout = 10 * time.Second

// heartbeatInterval is the emit rate of the heartbeat subscription.
const heartbeatInterval = time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Cross-origin policy is enforced by the CORS layer on the HTTP
	// routes; the websocket route accepts any origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleSubscriptions upgrades the connection and runs the control
// message protocol until the transport closes.
func (s *Server) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	session := &wsSession{
		server: s,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
		out:    make(chan models.WSMessage, 64),
		subs:   make(map[string]context.CancelFunc),
		log:    s.log.Named("ws"),
	}
	session.run()
}

// wsSession is one client connection on the subscription transport.
// All writes go through the out channel so the writer goroutine is the
// single writer on the connection.
type wsSession struct {
	server *Server
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	out    chan models.WSMessage

	mu   sync.Mutex
	subs map[string]context.CancelFunc

	log *zap.Logger
}

func (s *wsSession) run() {
	defer func() {
		s.cancel()
		s.closeAll()
		_ = s.conn.Close()
	}()

	if !s.awaitInit() {
		return
	}

	go s.writer()
	s.send(models.WSMessage{Type: models.MsgConnectionAck})

	for {
		var msg models.WSMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case models.MsgSubscribe:
			s.subscribe(msg)
		case models.MsgComplete:
			s.stop(msg.ID)
		case models.MsgPing:
			s.send(models.WSMessage{Type: models.MsgPong})
		}
	}
}

// awaitInit enforces the connection_init handshake.
func (s *wsSession) awaitInit() bool {
	_ = s.conn.SetReadDeadline(time.Now().Add(initTimeout))
	defer func() { _ = s.conn.SetReadDeadline(time.Time{}) }()

	var msg models.WSMessage
	if err := s.conn.ReadJSON(&msg); err != nil {
		return false
	}
	return msg.Type == models.MsgConnectionInit
}

func (s *wsSession) writer() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case msg := <-s.out:
			if err := s.conn.WriteJSON(msg); err != nil {
				s.cancel()
				return
			}
		}
	}
}

func (s *wsSession) send(msg models.WSMessage) {
	select {
	case s.out <- msg:
	case <-s.ctx.Done():
	}
}

func (s *wsSession) next(id, field string, value interface{}) {
	payload, err := json.Marshal(models.NextPayload{Data: map[string]interface{}{field: value}})
	if err != nil {
		s.log.Error("next payload encoding failed", zap.Error(err))
		return
	}
	s.send(models.WSMessage{ID: id, Type: models.MsgNext, Payload: payload})
}

// sendError delivers a per-subscription error without closing the
// transport.
func (s *wsSession) sendError(id, message string) {
	payload, _ := json.Marshal([]models.OperationError{{Message: message}})
	s.send(models.WSMessage{ID: id, Type: models.MsgError, Payload: payload})
}

// complete terminates one subscription stream. Slow-consumer drops land
// here too: a terminal complete, not an error.
func (s *wsSession) complete(id string) {
	s.stop(id)
	s.send(models.WSMessage{ID: id, Type: models.MsgComplete})
}

func (s *wsSession) stop(id string) {
	s.mu.Lock()
	cancel, ok := s.subs[id]
	if ok {
		delete(s.subs, id)
	}
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

func (s *wsSession) closeAll() {
	s.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(s.subs))
	for id, cancel := range s.subs {
		delete(s.subs, id)
		cancels = append(cancels, cancel)
	}
	s.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

func (s *wsSession) subscribe(msg models.WSMessage) {
	if msg.ID == "" {
		s.sendError(msg.ID, "subscribe requires an id")
		return
	}

	var req models.OperationRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		s.sendError(msg.ID, "malformed subscribe payload: "+err.Error())
		return
	}
	doc, perr := parseDocument(req.Query, s.server.cfg.MaxQueryDepth, s.server.cfg.MaxQueryComplexity)
	if perr != nil {
		s.sendError(msg.ID, perr.Message)
		return
	}

	s.mu.Lock()
	if _, exists := s.subs[msg.ID]; exists {
		s.mu.Unlock()
		s.sendError(msg.ID, "subscription id already in use: "+msg.ID)
		return
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.subs[msg.ID] = cancel
	s.mu.Unlock()

	go s.runSubscription(ctx, msg.ID, doc.Operation, req.Variables)
}

type convoyScopedArgs struct {
	ConvoyID string `json:"convoy_id"`
}

type alertArgs struct {
	ConvoyID    string  `json:"convoy_id"`
	MinSeverity *string `json:"min_severity,omitempty"`
}

type assetScopedArgs struct {
	AssetID string `json:"asset_id"`
}

// runSubscription binds one subscribe request to its topic. Filters run
// here, on the subscriber side of the broker.
func (s *wsSession) runSubscription(ctx context.Context, id, op string, vars map[string]json.RawMessage) {
	broker := s.server.resolver.broker

	switch op {
	case "heartbeat":
		s.runHeartbeat(ctx, id)

	case "allEngagementEvents":
		streamTopic(s, ctx, id, op, broker.Engagements, nil)

	case "engagementEvents":
		convoyID, ok := s.convoyArg(id, vars)
		if !ok {
			return
		}
		streamTopic(s, ctx, id, op, broker.Engagements, func(ev events.EngagementEvent) bool {
			return ev.ConvoyID == convoyID
		})

	case "rankingUpdates":
		convoyID, ok := s.convoyArg(id, vars)
		if !ok {
			return
		}
		streamTopic(s, ctx, id, op, broker.Rankings, func(ev events.RankingUpdateEvent) bool {
			return ev.ConvoyID == convoyID
		})

	case "assetStatusChanges":
		convoyID, ok := s.convoyArg(id, vars)
		if !ok {
			return
		}
		streamTopic(s, ctx, id, op, broker.AssetStatus, func(ev events.AssetStatusEvent) bool {
			return ev.ConvoyID == convoyID
		})

	case "alerts":
		var args alertArgs
		if err := decodeVars(vars, &args); err != nil {
			s.sendError(id, err.Error())
			return
		}
		convoyID, err := parseID(args.ConvoyID)
		if err != nil {
			s.sendError(id, err.Message)
			return
		}
		minSeverity := domain.SeverityInfo
		if args.MinSeverity != nil {
			sev, serr := domain.ParseAlertSeverity(*args.MinSeverity)
			if serr != nil {
				s.sendError(id, serr.Error())
				return
			}
			minSeverity = sev
		}
		streamTopic(s, ctx, id, op, broker.Alerts, func(ev events.AlertEvent) bool {
			return ev.ConvoyID == convoyID && ev.Severity.AtLeast(minSeverity)
		})

	case "assetTelemetry":
		var args assetScopedArgs
		if err := decodeVars(vars, &args); err != nil {
			s.sendError(id, err.Error())
			return
		}
		assetID, err := parseID(args.AssetID)
		if err != nil {
			s.sendError(id, err.Message)
			return
		}
		streamTopic(s, ctx, id, op, broker.Telemetry, func(t domain.Telemetry) bool {
			return t.DroneID == assetID
		})

	default:
		s.sendError(id, "unknown subscription "+op)
	}
}

func (s *wsSession) convoyArg(id string, vars map[string]json.RawMessage) (uuid.UUID, bool) {
	var args convoyScopedArgs
	if err := decodeVars(vars, &args); err != nil {
		s.sendError(id, err.Error())
		return uuid.Nil, false
	}
	parsed, perr := parseID(args.ConvoyID)
	if perr != nil {
		s.sendError(id, perr.Message)
		return uuid.Nil, false
	}
	return parsed, true
}

func decodeVars(vars map[string]json.RawMessage, out interface{}) error {
	raw, err := json.Marshal(vars)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *wsSession) runHeartbeat(ctx context.Context, id string) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.next(id, "heartbeat", now.UTC().Format(time.RFC3339))
		}
	}
}

// streamTopic pumps a broker topic into one subscription stream until
// the context ends or the topic side closes the channel.
func streamTopic[T any](s *wsSession, ctx context.Context, id, field string, topic *events.Topic[T], match func(T) bool) {
	sub := topic.Subscribe()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				s.complete(id)
				return
			}
			if match != nil && !match(ev) {
				continue
			}
			s.next(id, field, ev)
		}
	}
}
