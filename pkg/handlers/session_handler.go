package handlers

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/backsoul/studyquiz/pkg/auth"
	"github.com/backsoul/studyquiz/pkg/models"
	"github.com/backsoul/studyquiz/pkg/services"
	websocketHub "github.com/backsoul/studyquiz/pkg/websocket"
	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"
)

var upgrader = websocket.FastHTTPUpgrader{
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool { return true },
}

// HealthChecker verifica el estado del almacenamiento
type HealthChecker interface {
	HealthCheck() error
}

// SessionHandler maneja las peticiones HTTP para sesiones de quiz
type SessionHandler struct {
	sessionService    *services.SessionService
	generationService *services.GenerationService
	handoffService    *services.HandoffService
	exportService     *services.ExportService
	scoreService      *services.ScoreService
	tokens            *auth.TokenParser
	hub               *websocketHub.Hub
	health            HealthChecker
}

// NewSessionHandler crea una nueva instancia del handler de sesiones
func NewSessionHandler(
	sessionService *services.SessionService,
	generationService *services.GenerationService,
	handoffService *services.HandoffService,
	exportService *services.ExportService,
	scoreService *services.ScoreService,
	tokens *auth.TokenParser,
	hub *websocketHub.Hub,
	health HealthChecker,
) *SessionHandler {
	return &SessionHandler{
		sessionService:    sessionService,
		generationService: generationService,
		handoffService:    handoffService,
		exportService:     exportService,
		scoreService:      scoreService,
		tokens:            tokens,
		hub:               hub,
		health:            health,
	}
}

// HealthCheck maneja GET /api/health
func (h *SessionHandler) HealthCheck(ctx *fasthttp.RequestCtx) {
	if h.health != nil {
		if err := h.health.HealthCheck(); err != nil {
			respondWithError(ctx, fasthttp.StatusServiceUnavailable, fmt.Sprintf("Redis no disponible: %v", err))
			return
		}
	}
	respondWithSuccess(ctx, map[string]string{"status": "ok"}, "Servidor funcionando")
}

// CreateSession maneja POST /api/sessions: consume el archivo entregado,
// pide el quiz al servicio de generación y arranca la sesión
func (h *SessionHandler) CreateSession(ctx *fasthttp.RequestCtx) {
	var request models.SessionCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &request); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "JSON inválido")
		return
	}

	if request.HandoffID == "" {
		respondWithError(ctx, fasthttp.StatusBadRequest, "handoffId es requerido")
		return
	}

	file, ok := h.handoffService.Take(request.HandoffID)
	if !ok {
		respondWithError(ctx, fasthttp.StatusNotFound, "Archivo no encontrado o ya consumido")
		return
	}

	userID := h.tokens.UserIDFromRequest(ctx)

	quiz, err := h.generationService.GenerateQuiz(file, request.RequestedQuestions, userID, request.Adaptive)
	if err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Error generando quiz: %v", err))
		return
	}
	if request.Topic != "" {
		quiz.Topic = request.Topic
	}

	session, err := h.sessionService.StartSession(userID, quiz, models.SessionOptions{
		UseTimer:           request.UseTimer,
		SecondsPerQuestion: request.SecondsPerQuestion,
		AdaptiveEnabled:    request.Adaptive,
	})
	if err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Error creando sesión: %v", err))
		return
	}

	respondWithSuccess(ctx, models.SessionResponse{Session: session}, "Sesión creada exitosamente")
}

// GetSession maneja GET /api/sessions/{id}
func (h *SessionHandler) GetSession(ctx *fasthttp.RequestCtx) {
	sessionID := ctx.UserValue("id").(string)

	session, err := h.sessionService.GetSession(sessionID)
	if err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Sesión no encontrada: %v", err))
		return
	}

	respondWithSuccess(ctx, models.SessionResponse{Session: session}, "Sesión obtenida exitosamente")
}

// RecordAnswer maneja POST /api/sessions/{id}/answer: registra la
// respuesta para cualquier índice (la última escritura gana)
func (h *SessionHandler) RecordAnswer(ctx *fasthttp.RequestCtx) {
	sessionID := ctx.UserValue("id").(string)

	var request models.AnswerRequest
	if err := json.Unmarshal(ctx.PostBody(), &request); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "JSON inválido")
		return
	}

	if err := h.sessionService.RecordAnswer(sessionID, request.QuestionIndex, request.Value); err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Error registrando respuesta: %v", err))
		return
	}

	session, _ := h.sessionService.GetSession(sessionID)
	respondWithSuccess(ctx, models.SessionResponse{Session: session}, "Respuesta registrada")
}

// GoNext maneja POST /api/sessions/{id}/next
func (h *SessionHandler) GoNext(ctx *fasthttp.RequestCtx) {
	sessionID := ctx.UserValue("id").(string)

	session, err := h.sessionService.GoNext(sessionID)
	if err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Error avanzando: %v", err))
		return
	}

	message := "Pregunta siguiente"
	if session.State == models.SessionSubmitted {
		message = "Última pregunta: sesión enviada"
	}
	respondWithSuccess(ctx, models.SessionResponse{Session: session}, message)
}

// GoPrevious maneja POST /api/sessions/{id}/previous
func (h *SessionHandler) GoPrevious(ctx *fasthttp.RequestCtx) {
	sessionID := ctx.UserValue("id").(string)

	session, err := h.sessionService.GoPrevious(sessionID)
	if err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Error retrocediendo: %v", err))
		return
	}

	respondWithSuccess(ctx, models.SessionResponse{Session: session}, "Pregunta anterior")
}

// Submit maneja POST /api/sessions/{id}/submit
func (h *SessionHandler) Submit(ctx *fasthttp.RequestCtx) {
	sessionID := ctx.UserValue("id").(string)

	session, err := h.sessionService.Submit(sessionID)
	if err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Error enviando sesión: %v", err))
		return
	}

	respondWithSuccess(ctx, models.SessionResponse{Session: session}, "Sesión enviada exitosamente")
}

// Reset maneja POST /api/sessions/{id}/reset
func (h *SessionHandler) Reset(ctx *fasthttp.RequestCtx) {
	sessionID := ctx.UserValue("id").(string)

	session, err := h.sessionService.Reset(sessionID)
	if err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Error reiniciando sesión: %v", err))
		return
	}

	respondWithSuccess(ctx, models.SessionResponse{Session: session}, "Sesión reiniciada")
}

// ExportSession maneja GET /api/sessions/{id}/export: pide el CSV al
// colaborador de formato con las filas de la sesión enviada
func (h *SessionHandler) ExportSession(ctx *fasthttp.RequestCtx) {
	sessionID := ctx.UserValue("id").(string)

	session, err := h.sessionService.GetSession(sessionID)
	if err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Sesión no encontrada: %v", err))
		return
	}
	if session.State != models.SessionSubmitted {
		respondWithError(ctx, fasthttp.StatusConflict, "La sesión todavía no fue enviada")
		return
	}

	csvText, err := h.exportService.ToCsvRequest(session.Quiz, session.Answers)
	if err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Error exportando resultados: %v", err))
		return
	}

	respondWithSuccess(ctx, map[string]string{"csv": csvText}, "Resultados exportados")
}

// GetHistory maneja GET /api/history: historial de intentos del usuario
func (h *SessionHandler) GetHistory(ctx *fasthttp.RequestCtx) {
	userID := h.tokens.UserIDFromRequest(ctx)

	attempts, err := h.scoreService.AttemptHistory(userID)
	if err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Error obteniendo historial: %v", err))
		return
	}

	respondWithSuccess(ctx, map[string]interface{}{
		"attempts": attempts,
		"count":    len(attempts),
	}, fmt.Sprintf("%d intentos en el historial", len(attempts)))
}

// HandleWebSocket maneja las conexiones WebSocket para feedback en vivo
// (ticks del temporizador, avances automáticos, envío de sesión)
func (h *SessionHandler) HandleWebSocket(ctx *fasthttp.RequestCtx) {
	err := upgrader.Upgrade(ctx, func(ws *websocket.Conn) {
		defer ws.Close()

		h.hub.Register(ws)
		defer h.hub.Unregister(ws)

		// Escuchar mensajes del cliente hasta que se desconecte
		for {
			_, _, err := ws.ReadMessage()
			if err != nil {
				log.Printf("Error leyendo mensaje WebSocket: %v", err)
				break
			}
		}
	})

	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		ctx.Error("Error upgrading to WebSocket", fasthttp.StatusInternalServerError)
	}
}
