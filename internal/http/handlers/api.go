package handlers

import (
	"errors"
	"net/http"

	"oddeven_backend/internal/badge"
	"oddeven_backend/internal/game"
	"oddeven_backend/internal/service"
	"oddeven_backend/internal/ton"

	"github.com/gin-gonic/gin"
)

// Создание новой игры с фиксированной ставкой
func (h *Handler) CreateGame(c *gin.Context) {
	var req struct {
		Stake int64 `json:"stake"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Stake <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stake"})
		return
	}

	ctx := c.Request.Context()
	created, err := h.GameService.CreateGame(ctx, req.Stake)
	if err != nil {
		if errors.Is(err, service.ErrStakeTooLow) || errors.Is(err, service.ErrStakeTooHigh) || errors.Is(err, service.ErrInvalidStake) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": created.ID, "stake": created.Stake})
}

// Вход в игру: тело содержит вносимую сумму, в ответе бейдж-токен и сдача
func (h *Handler) Join(c *gin.Context) {
	var req struct {
		Stake int64 `json:"stake"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Stake <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stake"})
		return
	}

	ctx := c.Request.Context()
	result, err := h.GameService.Join(ctx, c.Param("id"), req.Stake)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		if errors.Is(err, game.ErrWrongPhase) {
			c.JSON(http.StatusConflict, gin.H{"error": "not accepting players"})
			return
		}
		if errors.Is(err, game.ErrGameFull) {
			c.JSON(http.StatusConflict, gin.H{"error": "this game is full"})
			return
		}
		if errors.Is(err, game.ErrInsufficientStake) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient stake"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"badge":  result.Badge,
		"side":   result.Side,
		"change": result.Change,
	})
}

// Регистрация числа участника; бейдж-токен в Authorization
func (h *Handler) SubmitGuess(c *gin.Context) {
	proof, ok := badgeProof(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "badge required"})
		return
	}

	var req struct {
		Guess uint64 `json:"guess"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()
	if err := h.GameService.SubmitGuess(ctx, c.Param("id"), proof, req.Guess); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		if errors.Is(err, badge.ErrInvalidProof) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid badge"})
			return
		}
		if errors.Is(err, game.ErrWrongPhase) {
			c.JSON(http.StatusConflict, gin.H{"error": "it's not the time to pick a number"})
			return
		}
		if errors.Is(err, game.ErrUnknownParticipant) {
			c.JSON(http.StatusForbidden, gin.H{"error": "unknown participant"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "your number was registered"})
}

// Вывод банка победителем; опционально принимает TON адрес для записи
// в журнал выплат
func (h *Handler) Withdraw(c *gin.Context) {
	proof, ok := badgeProof(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "badge required"})
		return
	}

	var req struct {
		Wallet string `json:"wallet"`
	}
	// тело необязательно
	_ = c.ShouldBindJSON(&req)

	wallet := ""
	if req.Wallet != "" {
		normalized, err := ton.NormalizeAddress(req.Wallet)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet address"})
			return
		}
		wallet = normalized
	}

	ctx := c.Request.Context()
	amount, message, err := h.GameService.Withdraw(ctx, c.Param("id"), proof, wallet)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		if errors.Is(err, badge.ErrInvalidProof) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid badge"})
			return
		}
		if errors.Is(err, game.ErrWrongPhase) {
			c.JSON(http.StatusConflict, gin.H{"error": "it's not time to withdraw"})
			return
		}
		if errors.Is(err, game.ErrNotWinner) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you didn't win, better luck next time"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"amount": amount, "message": message})
}

// Снимок состояния игры
func (h *Handler) GameState(c *gin.Context) {
	state, err := h.GameService.State(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// Суммарный банк игры
func (h *Handler) TotalWagered(c *gin.Context) {
	total, err := h.GameService.TotalWagered(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_wagered": total})
}

// Размер ставки игры
func (h *Handler) StakeAmount(c *gin.Context) {
	stake, err := h.GameService.StakeAmount(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stake": stake})
}

// Текущие лимиты ставки при создании игр
func (h *Handler) StakeLimits(c *gin.Context) {
	limits := h.GameService.GetLimits()
	c.JSON(http.StatusOK, gin.H{
		"min_stake": limits.MinStake,
		"max_stake": limits.MaxStake,
	})
}
