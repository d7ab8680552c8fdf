package services

import (
	"sync"

	"github.com/backsoul/studyquiz/pkg/models"
	"github.com/google/uuid"
)

// HandoffService entrega de archivo entre pantallas: un objeto de
// transferencia en memoria, de un solo uso. El archivo se borra al
// consumirse, nunca se serializa a almacenamiento intermedio.
type HandoffService struct {
	mu    sync.Mutex
	files map[string]models.FileUpload
}

// NewHandoffService crea una nueva instancia del servicio de entrega
func NewHandoffService() *HandoffService {
	return &HandoffService{
		files: make(map[string]models.FileUpload),
	}
}

// Put guarda el archivo y devuelve el id de entrega
func (h *HandoffService) Put(file models.FileUpload) string {
	id := uuid.New().String()
	h.mu.Lock()
	h.files[id] = file
	h.mu.Unlock()
	return id
}

// Take devuelve el archivo y lo elimina inmediatamente: un segundo Take
// con el mismo id falla
func (h *HandoffService) Take(id string) (models.FileUpload, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	file, ok := h.files[id]
	if ok {
		delete(h.files, id)
	}
	return file, ok
}
