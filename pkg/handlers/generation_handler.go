package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/backsoul/studyquiz/pkg/models"
	"github.com/backsoul/studyquiz/pkg/services"
	"github.com/valyala/fasthttp"
)

// GenerationHandler maneja la subida de documentos y la generación de
// planes de estudio
type GenerationHandler struct {
	handoffService    *services.HandoffService
	generationService *services.GenerationService
	exportService     *services.ExportService
}

// NewGenerationHandler crea una nueva instancia del handler de generación
func NewGenerationHandler(
	handoffService *services.HandoffService,
	generationService *services.GenerationService,
	exportService *services.ExportService,
) *GenerationHandler {
	return &GenerationHandler{
		handoffService:    handoffService,
		generationService: generationService,
		exportService:     exportService,
	}
}

// UploadFile maneja POST /api/upload: recibe el documento multipart y lo
// deja en la entrega en memoria para la pantalla siguiente
func (h *GenerationHandler) UploadFile(ctx *fasthttp.RequestCtx) {
	header, err := ctx.FormFile("file")
	if err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "Archivo 'file' es requerido")
		return
	}

	opened, err := header.Open()
	if err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("Error abriendo archivo: %v", err))
		return
	}
	defer opened.Close()

	data, err := io.ReadAll(opened)
	if err != nil {
		respondWithError(ctx, fasthttp.StatusInternalServerError, fmt.Sprintf("Error leyendo archivo: %v", err))
		return
	}

	lastModified, _ := strconv.ParseInt(string(ctx.FormValue("lastModified")), 10, 64)

	file := models.FileUpload{
		Name:         header.Filename,
		Size:         len(data),
		MimeType:     header.Header.Get("Content-Type"),
		LastModified: lastModified,
		Data:         data,
	}
	handoffID := h.handoffService.Put(file)

	log.Printf("📄 Archivo recibido: %s (%d bytes)", file.Name, file.Size)
	respondWithSuccess(ctx, map[string]interface{}{
		"handoffId": handoffID,
		"name":      file.Name,
		"size":      file.Size,
		"mimeType":  file.MimeType,
	}, "Archivo recibido")
}

// GenerateSchedule maneja POST /api/schedule: consume el archivo
// entregado y devuelve el plan de estudio junto con su bloque de texto
func (h *GenerationHandler) GenerateSchedule(ctx *fasthttp.RequestCtx) {
	var request models.ScheduleRequest
	if err := json.Unmarshal(ctx.PostBody(), &request); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "JSON inválido")
		return
	}

	if request.HandoffID == "" {
		respondWithError(ctx, fasthttp.StatusBadRequest, "handoffId es requerido")
		return
	}
	if request.DurationDays < 1 {
		respondWithError(ctx, fasthttp.StatusBadRequest, "durationDays debe ser al menos 1")
		return
	}
	if request.HoursPerDay < 0.5 {
		respondWithError(ctx, fasthttp.StatusBadRequest, "hoursPerDay debe ser al menos 0.5")
		return
	}

	file, ok := h.handoffService.Take(request.HandoffID)
	if !ok {
		respondWithError(ctx, fasthttp.StatusNotFound, "Archivo no encontrado o ya consumido")
		return
	}

	schedule, err := h.generationService.GenerateSchedule(file, request.DurationDays, request.HoursPerDay)
	if err != nil {
		respondWithError(ctx, statusForError(err), fmt.Sprintf("Error generando plan de estudio: %v", err))
		return
	}

	respondWithSuccess(ctx, map[string]interface{}{
		"schedule": schedule,
		"text":     h.exportService.ToPlainText(schedule),
	}, fmt.Sprintf("Plan de estudio de %d días generado", len(schedule)))
}
