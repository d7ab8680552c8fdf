package handlers

import (
	"encoding/json"
	"errors"

	"github.com/backsoul/studyquiz/pkg/models"
	"github.com/valyala/fasthttp"
)

// Métodos auxiliares para respuestas HTTP, compartidos por todos los handlers

func respondWithJSON(ctx *fasthttp.RequestCtx, statusCode int, response interface{}) {
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.SetStatusCode(statusCode)

	jsonData, err := json.Marshal(response)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"success": false, "error": "Error al serializar respuesta"}`)
		return
	}

	ctx.SetBody(jsonData)
}

func respondWithError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	response := models.APIResponse{
		Success: false,
		Error:   message,
	}
	respondWithJSON(ctx, statusCode, response)
}

func respondWithSuccess(ctx *fasthttp.RequestCtx, data interface{}, message string) {
	response := models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
	respondWithJSON(ctx, fasthttp.StatusOK, response)
}

// statusForError mapea la taxonomía de errores del núcleo a códigos HTTP.
// Todos son recuperables: la sesión sigue usable y la acción se puede
// reintentar.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidQuiz):
		return fasthttp.StatusBadRequest
	case errors.Is(err, models.ErrAuthRequired):
		return fasthttp.StatusUnauthorized
	case errors.Is(err, models.ErrSessionNotFound):
		return fasthttp.StatusNotFound
	case errors.Is(err, models.ErrSessionNotActive), errors.Is(err, models.ErrSubmitInProgress):
		return fasthttp.StatusConflict
	case errors.Is(err, models.ErrTimeout):
		return fasthttp.StatusGatewayTimeout
	case errors.Is(err, models.ErrNetworkUnavailable), errors.Is(err, models.ErrGeneration), errors.Is(err, models.ErrInvalidResponse):
		return fasthttp.StatusBadGateway
	default:
		return fasthttp.StatusInternalServerError
	}
}
