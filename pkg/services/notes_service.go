package services

import (
	"fmt"
	"log"

	"github.com/backsoul/studyquiz/pkg/models"
)

// NotesService asocia notas de texto libre con índices de pregunta.
// El valor local es la fuente de lectura; la persistencia se delega al
// colaborador externo (no hay relectura remota). Las notas sobreviven a
// la sesión que las originó.
type NotesService struct {
	store    Store
	poster   Poster
	notesURL string
}

// NewNotesService crea una nueva instancia del servicio de notas
func NewNotesService(store Store, poster Poster, notesURL string) *NotesService {
	return &NotesService{
		store:    store,
		poster:   poster,
		notesURL: notesURL,
	}
}

// SetNote guarda la nota localmente y pide su persistencia al
// colaborador externo. Exige usuario identificado: es una precondición
// local, no un error de red, y el caller debe responder pidiendo login.
func (n *NotesService) SetNote(userID string, questionIndex int, text string) error {
	if userID == "" {
		return models.ErrAuthRequired
	}
	if questionIndex < 0 {
		return fmt.Errorf("índice de pregunta %d inválido", questionIndex)
	}

	if err := n.store.Set(noteKey(userID, questionIndex), text, 0); err != nil {
		return fmt.Errorf("error guardando nota localmente: %v", err)
	}

	if n.poster == nil {
		return nil
	}
	payload := map[string]interface{}{
		"userId":        userID,
		"questionIndex": questionIndex,
		"text":          text,
	}
	if err := n.poster.PostJSON(n.notesURL+"/api/save-notes", payload, nil); err != nil {
		// la nota quedó guardada localmente; el fallo remoto es
		// recuperable y se le muestra al usuario para reintentar
		log.Printf("⚠️ Persistencia externa de nota falló (usuario %s, pregunta %d): %v", userID, questionIndex, err)
		return fmt.Errorf("nota guardada localmente, persistencia externa falló: %w", err)
	}

	return nil
}

// GetNote devuelve el último valor local de la nota, si existe
func (n *NotesService) GetNote(userID string, questionIndex int) (string, bool) {
	if userID == "" {
		return "", false
	}
	value, err := n.store.Get(noteKey(userID, questionIndex))
	if err != nil {
		return "", false
	}
	return value, true
}

func noteKey(userID string, questionIndex int) string {
	return fmt.Sprintf("quiz:notes:%s:%d", userID, questionIndex)
}
