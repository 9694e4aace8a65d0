package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/banan-inc/agenthq/adapters/message_broker"
	"github.com/banan-inc/agenthq/domain"
	"github.com/banan-inc/agenthq/utils/log"
)

// Server pushes completed chat turns to connected observers.
type Server struct {
	upgrader websocket.Upgrader
	broker   domain.MessageBroker
	hub      *Hub
}

func NewServer(broker domain.MessageBroker) *Server {
	server := &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		broker:   broker,
		hub:      NewHub(),
	}

	go server.startChatTurnListener()

	return server
}

func (s *Server) GetHub() *Hub {
	return s.hub
}

// startChatTurnListener relays chat turn messages from the broker to every
// connected websocket observer.
func (s *Server) startChatTurnListener() {
	ctx := context.Background()

	messageChan, err := s.broker.Subscribe(ctx, message_broker.ChatTurnTopic, "")
	if err != nil {
		log.WithCtx(ctx).Error("failed to subscribe to chat turn topic", zap.Error(err))
		return
	}

	log.WithCtx(ctx).Info("websocket server listening for chat turns")

	for {
		select {
		case msg, ok := <-messageChan:
			if !ok {
				log.WithCtx(ctx).Info("chat turn topic closed, stopping listener")
				return
			}

			var turn domain.ChatTurnMessage
			if err := json.Unmarshal(msg.Payload, &turn); err != nil {
				log.WithCtx(ctx).Error("failed to unmarshal chat turn", zap.Error(err))
				continue
			}

			payload, err := json.Marshal(map[string]any{
				"type":       "chat_turn",
				"session_id": turn.SessionID,
				"user_id":    turn.UserID,
				"input":      turn.Input,
				"response":   turn.Response,
				"timestamp":  turn.Timestamp,
				"success":    turn.Success,
			})
			if err != nil {
				log.WithCtx(ctx).Error("failed to marshal observer message", zap.Error(err))
				continue
			}

			s.hub.Broadcast(payload)
			log.WithCtx(ctx).Info("broadcasted chat turn to observers",
				zap.String("session_id", turn.SessionID))

		case <-ctx.Done():
			return
		}
	}
}
