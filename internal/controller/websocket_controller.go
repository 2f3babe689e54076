package controller

import (
	"encoding/json"
	"fmt"

	"houserules/internal/model"
	"houserules/internal/service"
	"houserules/internal/ws"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

type WebSocketController struct {
	matchService *service.MatchService
}

func NewWebSocketController(matchService *service.MatchService) *WebSocketController {
	return &WebSocketController{
		matchService: matchService,
	}
}

// HandleConnection runs the read loop for one WebSocket connection.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	matchID := c.Locals("wsMatchID").(string)
	playerID := c.Locals("wsPlayerID").(string)

	if err := wsc.matchService.RegisterConnection(matchID, playerID, c); err != nil {
		log.Warn().Err(err).Str("match", matchID).Msg("failed to register connection")
		c.Close()
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("match", matchID).Msg("websocket read ended")
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debug().Err(err).Msg("unparseable websocket message")
			continue
		}

		if err := wsc.handleMessage(c, matchID, playerID, msg); err != nil {
			log.Debug().Err(err).Str("match", matchID).Msg("message handling failed")
			wsc.sendError(c, err.Error())
		}
	}

	wsc.matchService.UnregisterConnection(matchID, playerID)
}

func (wsc *WebSocketController) handleMessage(c *websocket.Conn, matchID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var mv model.Move
		if err := json.Unmarshal(msg.Payload, &mv); err != nil {
			return err
		}
		result, err := wsc.matchService.HandleMove(matchID, playerID, mv)
		if err != nil {
			return err
		}
		// Rejections go back to the sender only; accepted moves are
		// broadcast to the room by the service.
		if !result.Ok {
			payload, err := json.Marshal(result)
			if err != nil {
				return err
			}
			return c.WriteJSON(ws.Message{
				Type:    ws.MessageTypeMoveResult,
				Payload: payload,
			})
		}
		return nil

	case ws.MessageTypeResign:
		return wsc.matchService.Resign(matchID, playerID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(c *websocket.Conn, errorMsg string) {
	payload, err := json.Marshal(fiberMapError(errorMsg))
	if err != nil {
		return
	}
	c.WriteJSON(ws.Message{
		Type:    ws.MessageTypeError,
		Payload: payload,
	})
}

func fiberMapError(msg string) map[string]string {
	return map[string]string{"error": msg}
}
