package middleware

import (
	"net/http"

	"github.com/eaglebank/account-service/internal/models"
	"github.com/gin-gonic/gin"
)

type BadRequestErrorResponse struct {
	Message string              `json:"message"`
	Details []models.FieldError `json:"details"`
}

func RespondWithValidationError(c *gin.Context, fieldErrors []models.FieldError) {
	c.JSON(http.StatusBadRequest, BadRequestErrorResponse{
		Message: "Invalid request data",
		Details: fieldErrors,
	})
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"message": message,
	})
}
