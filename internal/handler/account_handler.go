package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/eaglebank/account-service/internal/cqrs"
	"github.com/eaglebank/account-service/internal/middleware"
	"github.com/eaglebank/account-service/internal/models"
	"github.com/eaglebank/account-service/internal/repository"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const jsonContentType = "application/json"

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	CreateAccount(context.Context, cqrs.CreateAccountCommand) (*models.Account, error)
	UpdateAccount(context.Context, cqrs.UpdateAccountCommand) (*models.Account, error)
	DeleteAccount(context.Context, cqrs.DeleteAccountCommand) error
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetAccount(context.Context, cqrs.GetAccountQuery) (*models.Account, error)
	ListAccounts(context.Context, cqrs.ListAccountsQuery) ([]models.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

// RegisterRoutes mounts the account endpoints under /accounts.
func RegisterRoutes(r gin.IRouter, h *AccountHandler) {
	accounts := r.Group("/accounts")
	{
		accounts.POST("", h.CreateAccount)
		accounts.GET("", h.ListAccounts)
		accounts.GET("/:id", h.GetAccount)
		accounts.PUT("/:id", h.UpdateAccount)
		accounts.DELETE("/:id", h.DeleteAccount)
	}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	if ct := c.GetHeader("Content-Type"); ct != jsonContentType {
		log.WithField("contentType", ct).Warn("Invalid Content-Type")
		middleware.RespondWithError(c, http.StatusUnsupportedMediaType, "Content-Type must be "+jsonContentType)
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.commands.CreateAccount(c.Request.Context(), cqrs.CreateAccountCommand{Data: body})
	if err != nil {
		if respondWithValidation(c, err) {
			return
		}
		log.WithError(err).Error("Failed to create account")
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	c.Header("Location", fmt.Sprintf("/accounts/%d", account.ID))
	c.JSON(http.StatusCreated, account.Serialize())
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.queries.ListAccounts(c.Request.Context(), cqrs.ListAccountsQuery{})
	if err != nil {
		log.WithError(err).Error("Failed to list accounts")
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list accounts")
		return
	}

	body := make([]map[string]any, len(accounts))
	for i := range accounts {
		body[i] = accounts[i].Serialize()
	}
	log.Infof("Listing %d accounts", len(body))
	c.JSON(http.StatusOK, body)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	account, err := h.queries.GetAccount(c.Request.Context(), cqrs.GetAccountQuery{ID: id})
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			respondNotFound(c, c.Param("id"))
			return
		}
		log.WithError(err).Error("Failed to get account")
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get account")
		return
	}

	c.JSON(http.StatusOK, account.Serialize())
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.commands.UpdateAccount(c.Request.Context(), cqrs.UpdateAccountCommand{ID: id, Data: body})
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			respondNotFound(c, c.Param("id"))
			return
		}
		if respondWithValidation(c, err) {
			return
		}
		log.WithError(err).Error("Failed to update account")
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, account.Serialize())
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	if err := h.commands.DeleteAccount(c.Request.Context(), cqrs.DeleteAccountCommand{ID: id}); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			respondNotFound(c, c.Param("id"))
			return
		}
		log.WithError(err).Error("Failed to delete account")
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	c.Status(http.StatusNoContent)
}

// accountID parses the :id path parameter. Anything that is not a positive
// integer cannot name a stored account and is answered with 404.
func accountID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondNotFound(c, raw)
		return 0, false
	}
	return id, true
}

func respondNotFound(c *gin.Context, id string) {
	middleware.RespondWithError(c, http.StatusNotFound, fmt.Sprintf("Account with id %s not found", id))
}

func respondWithValidation(c *gin.Context, err error) bool {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	middleware.RespondWithValidationError(c, verr.Fields)
	return true
}
