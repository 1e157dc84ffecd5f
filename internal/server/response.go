package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type messageBody struct {
	Message string `json:"message"`
}

type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, messageBody{Message: msg})
}

func invalid(c *gin.Context, msg string, fields map[string]string) {
	c.JSON(http.StatusBadRequest, errorBody{Message: msg, Errors: fields})
}
