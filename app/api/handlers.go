package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stchernia/voodoo-wizz/app/database"
	"github.com/stchernia/voodoo-wizz/app/feed"
)

func NewHandler(repo database.GameRepository, populator Populator) *Handler {
	return &Handler{
		repo:      repo,
		populator: populator,
	}
}

func (h *Handler) ListGames(c *gin.Context) {
	games, err := h.repo.List(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_games", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query games"})
		return
	}

	c.JSON(http.StatusOK, games)
}

func (h *Handler) CreateGame(c *gin.Context) {
	var req GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.repo.Create(c.Request.Context(), req.params())
	if err != nil {
		slog.Error("Database error", "operation", "create_game", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create game"})
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *Handler) UpdateGame(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	var req GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.repo.Update(c.Request.Context(), id, req.params())
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "update_game", "id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to update game"})
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *Handler) DeleteGame(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	err = h.repo.Delete(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "delete_game", "id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to delete game"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *Handler) SearchGames(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := database.SearchQuery{
		Platform: strings.TrimSpace(req.Platform),
		Name:     strings.TrimSpace(req.Name),
	}

	games, err := h.repo.Search(c.Request.Context(), query)
	if err != nil {
		slog.Error("Database error", "operation", "search_games", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query games"})
		return
	}

	c.JSON(http.StatusOK, games)
}

func (h *Handler) PopulateGames(c *gin.Context) {
	games, err := h.populator.Run(c.Request.Context())
	if err != nil {
		kind := "internal"
		switch {
		case errors.Is(err, feed.ErrFetch):
			kind = "fetch"
		case errors.Is(err, feed.ErrPersist):
			kind = "persist"
		}
		slog.Error("Populate failed", "kind", kind, "error", err)

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to populate games",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, games)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	count, err := h.repo.Count(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "health_check", "error", err)
		health["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	health["games"] = count

	c.JSON(http.StatusOK, health)
}
