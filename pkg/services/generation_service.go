package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/backsoul/studyquiz/pkg/models"
)

// GenerationService cliente del servicio externo de generación: recibe
// el documento y devuelve un quiz o un plan de estudio. El núcleo no
// extrae texto ni genera preguntas, solo reenvía el archivo y valida
// que la respuesta sea usable.
type GenerationService struct {
	poster  Poster
	baseURL string
}

// NewGenerationService crea una nueva instancia del cliente de generación
func NewGenerationService(poster Poster, baseURL string) *GenerationService {
	return &GenerationService{
		poster:  poster,
		baseURL: baseURL,
	}
}

type generateQuizRequest struct {
	FileName               string `json:"fileName"`
	File                   []byte `json:"file"` // base64 en el JSON
	RequestedQuestionCount int    `json:"requestedQuestionCount"`
	UserID                 string `json:"userId,omitempty"`
	Adaptive               bool   `json:"adaptive"`
}

type generateScheduleRequest struct {
	FileName     string  `json:"fileName"`
	File         []byte  `json:"file"`
	DurationDays int     `json:"durationDays"`
	HoursPerDay  float64 `json:"hoursPerDay"`
}

// GenerateQuiz pide un quiz generado a partir del documento. Con
// adaptive el servicio ajusta la dificultad según el desempeño previo
// del usuario; el núcleo solo reenvía la bandera y muestra la etiqueta
// de dificultad que vuelve.
func (g *GenerationService) GenerateQuiz(file models.FileUpload, questionCount int, userID string, adaptive bool) (*models.Quiz, error) {
	if questionCount <= 0 {
		questionCount = 10
	}

	request := generateQuizRequest{
		FileName:               file.Name,
		File:                   file.Data,
		RequestedQuestionCount: questionCount,
		UserID:                 userID,
		Adaptive:               adaptive,
	}

	var out struct {
		Quiz       *models.Quiz `json:"quiz"`
		Difficulty string       `json:"difficulty"`
	}
	if err := g.poster.PostJSON(g.baseURL+"/api/upload-pdf", request, &out); err != nil {
		if errors.Is(err, models.ErrTimeout) || errors.Is(err, models.ErrNetworkUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", models.ErrGeneration, err)
	}

	if out.Quiz == nil || out.Quiz.Len() == 0 {
		return nil, fmt.Errorf("%w: el servicio no devolvió preguntas", models.ErrGeneration)
	}
	if out.Difficulty != "" {
		out.Quiz.Difficulty = out.Difficulty
	}

	log.Printf("📚 Quiz generado: %d preguntas (dificultad: %s)", out.Quiz.Len(), out.Quiz.Difficulty)
	return out.Quiz, nil
}

// GenerateSchedule pide el plan de estudio día por día para el documento
func (g *GenerationService) GenerateSchedule(file models.FileUpload, durationDays int, hoursPerDay float64) ([]models.ScheduleDay, error) {
	if durationDays < 1 {
		return nil, fmt.Errorf("durationDays debe ser al menos 1")
	}
	if hoursPerDay < 0.5 {
		return nil, fmt.Errorf("hoursPerDay debe ser al menos 0.5")
	}

	request := generateScheduleRequest{
		FileName:     file.Name,
		File:         file.Data,
		DurationDays: durationDays,
		HoursPerDay:  hoursPerDay,
	}

	var out struct {
		Schedule []models.ScheduleDay `json:"schedule"`
	}
	if err := g.poster.PostJSON(g.baseURL+"/api/generate-study-schedule", request, &out); err != nil {
		return nil, err
	}

	if len(out.Schedule) == 0 {
		return nil, fmt.Errorf("%w: plan de estudio vacío", models.ErrInvalidResponse)
	}
	for i := range out.Schedule {
		if out.Schedule[i].Day == 0 {
			out.Schedule[i].Day = i + 1
		}
	}

	log.Printf("📅 Plan de estudio generado: %d días", len(out.Schedule))
	return out.Schedule, nil
}
