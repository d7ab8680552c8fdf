package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/backsoul/studyquiz/pkg/auth"
	"github.com/backsoul/studyquiz/pkg/models"
	"github.com/backsoul/studyquiz/pkg/services"
	"github.com/valyala/fasthttp"
)

// NotesHandler maneja las peticiones HTTP para notas por pregunta
type NotesHandler struct {
	notesService *services.NotesService
	tokens       *auth.TokenParser
}

// NewNotesHandler crea una nueva instancia del handler de notas
func NewNotesHandler(notesService *services.NotesService, tokens *auth.TokenParser) *NotesHandler {
	return &NotesHandler{
		notesService: notesService,
		tokens:       tokens,
	}
}

// SaveNote maneja POST /api/notes
func (h *NotesHandler) SaveNote(ctx *fasthttp.RequestCtx) {
	var request models.NoteRequest
	if err := json.Unmarshal(ctx.PostBody(), &request); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "JSON inválido")
		return
	}

	if request.Text == "" {
		respondWithError(ctx, fasthttp.StatusBadRequest, "El texto de la nota es requerido")
		return
	}

	userID := h.tokens.UserIDFromRequest(ctx)
	if err := h.notesService.SetNote(userID, request.QuestionIndex, request.Text); err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Error guardando nota: %v", err))
		return
	}

	respondWithSuccess(ctx, models.Note{
		QuestionIndex: request.QuestionIndex,
		Text:          request.Text,
	}, "Nota guardada exitosamente")
}

// GetNote maneja GET /api/notes/{index}
func (h *NotesHandler) GetNote(ctx *fasthttp.RequestCtx) {
	indexStr := ctx.UserValue("index").(string)
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("Índice inválido: %s", indexStr))
		return
	}

	userID := h.tokens.UserIDFromRequest(ctx)
	if userID == "" {
		respondWithError(ctx, fasthttp.StatusUnauthorized, models.ErrAuthRequired.Error())
		return
	}

	text, ok := h.notesService.GetNote(userID, index)
	if !ok {
		respondWithError(ctx, fasthttp.StatusNotFound, fmt.Sprintf("No hay nota para la pregunta %d", index))
		return
	}

	respondWithSuccess(ctx, models.Note{
		QuestionIndex: index,
		Text:          text,
	}, "Nota obtenida exitosamente")
}
