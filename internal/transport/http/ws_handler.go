package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"snarkel-service/internal/app"
	"snarkel-service/internal/domain"
	"snarkel-service/internal/rewards"
)

// WSHandler bridges websocket connections onto room commands and events.
// It holds no room state: the room actor stays transport-agnostic and the
// handler only translates JSON frames.
type WSHandler struct {
	registry *app.Registry
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(registry *app.Registry, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type    string       `json:"type"`
	Payload domain.Event `json:"payload"`
}

type readyPayload struct {
	Ready bool `json:"ready"`
}

type startPayload struct {
	CountdownSeconds int `json:"countdownSeconds"`
}

type submitPayload struct {
	QuestionID    string   `json:"questionId"`
	OptionIDs     []string `json:"optionIds"`
	TimeRemaining int      `json:"timeRemaining"`
}

type messagePayload struct {
	Text string `json:"text"`
}

type rewardsPayload struct {
	Strategy string `json:"strategy"`
	TopN     int    `json:"topN"`
}

// ServeWS upgrades the request and wires the connection into its room.
// Query parameters: snarkelId, identity (wallet-derived), name.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	snarkelID := r.URL.Query().Get("snarkelId")
	identity := r.URL.Query().Get("identity")
	displayName := r.URL.Query().Get("name")
	if snarkelID == "" || identity == "" || displayName == "" {
		http.Error(w, "missing snarkelId, identity, or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	room, err := h.registry.GetOrCreate(r.Context(), snarkelID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "errorEvent", Payload: domain.ErrorEvent{
			ErrKind: domain.ErrorKind(err), Message: err.Error(),
		}})
		return
	}

	sub, err := room.Join(r.Context(), identity, displayName)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "errorEvent", Payload: domain.ErrorEvent{
			ErrKind: domain.ErrorKind(err), Message: err.Error(),
		}})
		return
	}
	defer h.registry.DeleteIfEmpty(snarkelID)
	defer sub.Close()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	// Single writer goroutine; everything outbound funnels through send.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case event, ok := <-sub.Events():
				if !ok {
					return
				}
				select {
				case send <- outboundMessage{Type: event.Kind(), Payload: event}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	h.readLoop(conn, room, sub, send, closeSignals)

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func (h *WSHandler) readLoop(conn *websocket.Conn, room *app.Room, sub *app.Subscription, send chan outboundMessage, closeSignals chan struct{}) {
	identity := sub.Identity
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "setReady":
			var payload readyPayload
			if !decode(inbound.Payload, &payload, send, closeSignals) {
				continue
			}
			room.SetReady(identity, payload.Ready)
		case "start":
			var payload startPayload
			if !decode(inbound.Payload, &payload, send, closeSignals) {
				continue
			}
			room.Start(identity, payload.CountdownSeconds)
		case "abortCountdown":
			room.AbortCountdown(identity)
		case "submitAnswer":
			var payload submitPayload
			if !decode(inbound.Payload, &payload, send, closeSignals) {
				continue
			}
			room.SubmitAnswer(domain.AnswerSubmission{
				Identity:      identity,
				QuestionID:    payload.QuestionID,
				OptionIDs:     payload.OptionIDs,
				TimeRemaining: payload.TimeRemaining,
			})
		case "sendMessage":
			var payload messagePayload
			if !decode(inbound.Payload, &payload, send, closeSignals) {
				continue
			}
			room.SendMessage(identity, payload.Text)
		case "previewRewards":
			var payload rewardsPayload
			if !decode(inbound.Payload, &payload, send, closeSignals) {
				continue
			}
			room.PreviewRewards(identity, domain.DistributionStrategy(payload.Strategy), rewards.Params{TopN: payload.TopN})
		case "finalizeRewards":
			var payload rewardsPayload
			if !decode(inbound.Payload, &payload, send, closeSignals) {
				continue
			}
			room.FinalizeRewards(identity, domain.DistributionStrategy(payload.Strategy), rewards.Params{TopN: payload.TopN})
		case "leave":
			return
		default:
			sendError(send, closeSignals, "UnsupportedMessage", "unsupported message type: "+inbound.Type)
		}
	}
}

func decode(raw json.RawMessage, v any, send chan outboundMessage, closeSignals chan struct{}) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		sendError(send, closeSignals, "InvalidPayload", "invalid payload")
		return false
	}
	return true
}

func sendError(send chan outboundMessage, closeSignals chan struct{}, kind, message string) {
	select {
	case send <- outboundMessage{Type: "errorEvent", Payload: domain.ErrorEvent{ErrKind: kind, Message: message}}:
	case <-closeSignals:
	}
}
