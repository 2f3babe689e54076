package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade ensures requests to WebSocket endpoints are genuine
// upgrade attempts carrying the match and player identity the connection
// handler will need after the upgrade.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		matchID := c.Params("matchId")
		if matchID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "match ID is required",
			})
		}

		playerID := c.Locals("playerID")
		if playerID == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		// The connection context differs from the upgrade context, so stash
		// both IDs where the handler can reach them.
		c.Locals("wsMatchID", matchID)
		c.Locals("wsPlayerID", playerID)

		return c.Next()
	}
}
