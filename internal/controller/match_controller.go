package controller

import (
	"houserules/internal/model"
	"houserules/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MatchController struct {
	matchService *service.MatchService
}

func NewMatchController(matchService *service.MatchService) *MatchController {
	return &MatchController{matchService: matchService}
}

// ListRules serves the house-rule catalogue for the lobby.
func (mc *MatchController) ListRules(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"rules": mc.matchService.Rules(),
	})
}

type createMatchRequest struct {
	RuleID string `json:"ruleId"`
	VsAI   bool   `json:"vsAI"`
}

func (mc *MatchController) CreateMatch(c *fiber.Ctx) error {
	var req createMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	matchID, err := mc.matchService.CreateMatch(req.RuleID, req.VsAI)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message":  "Match created",
		"match_id": matchID,
	})
}

func (mc *MatchController) JoinMatch(c *fiber.Ctx) error {
	matchID := c.Params("matchId")
	playerID := c.Locals("playerID").(string)

	color, err := mc.matchService.JoinMatch(matchID, playerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Match joined",
		"color":   color,
	})
}

func (mc *MatchController) GetMatchState(c *fiber.Ctx) error {
	matchID := c.Params("matchId")

	state, err := mc.matchService.GetState(matchID)
	if err != nil {
		if err.Error() == "match not found" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch match state",
		})
	}

	return c.JSON(state)
}

// GetMoves lists the standard and rule-granted moves for the piece at the
// queried square.
func (mc *MatchController) GetMoves(c *fiber.Ctx) error {
	matchID := c.Params("matchId")
	pos := model.Position{
		X: c.QueryInt("x", -1),
		Y: c.QueryInt("y", -1),
	}
	if !pos.InBounds() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid square",
		})
	}

	moves, err := mc.matchService.GenerateMoves(matchID, pos)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(moves)
}

// PlayMove commits a move over REST. A rejected move is a normal 200
// response carrying ok:false; only transport-level problems are errors.
func (mc *MatchController) PlayMove(c *fiber.Ctx) error {
	matchID := c.Params("matchId")
	playerID := c.Locals("playerID").(string)

	var mv model.Move
	if err := c.BodyParser(&mv); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}

	result, err := mc.matchService.HandleMove(matchID, playerID, mv)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(result)
}

type joinMatchmakingRequest struct {
	RuleID string `json:"ruleId"`
}

func (mc *MatchController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	var req joinMatchmakingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := mc.matchService.JoinMatchmaking(playerID, req.RuleID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}
