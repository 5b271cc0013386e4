package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName    = "Account REST API Service"
	ServiceVersion = "1.0"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    ServiceName,
		"version": ServiceVersion,
	})
}
