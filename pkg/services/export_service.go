package services

import (
	"fmt"
	"strings"

	"github.com/backsoul/studyquiz/pkg/models"
)

// ExportService serializa una sesión terminada a formatos portables.
// El CSV lo renderiza el colaborador externo a partir del payload de
// filas; el bloque de texto del plan de estudio se formatea localmente.
type ExportService struct {
	poster    Poster
	exportURL string
}

// NewExportService crea una nueva instancia del servicio de exportación
func NewExportService(poster Poster, exportURL string) *ExportService {
	return &ExportService{
		poster:    poster,
		exportURL: exportURL,
	}
}

// BuildRows arma las filas {pregunta, respuesta enviada, respuesta
// autoritativa} en el orden del quiz. Índices sin responder van como
// cadena vacía.
func (e *ExportService) BuildRows(quiz *models.Quiz, answers map[int]string) []models.ExportRow {
	rows := make([]models.ExportRow, 0, quiz.Len())
	for i, question := range quiz.Questions {
		rows = append(rows, models.ExportRow{
			Question:            question.Text,
			SubmittedAnswer:     answers[i],
			AuthoritativeAnswer: question.AnswerKey,
		})
	}
	return rows
}

// ToCsvRequest envía las filas al colaborador de formato y devuelve el
// texto CSV que este renderiza
func (e *ExportService) ToCsvRequest(quiz *models.Quiz, answers map[int]string) (string, error) {
	rows := e.BuildRows(quiz, answers)
	if len(rows) == 0 {
		return "", models.ErrInvalidQuiz
	}

	var out struct {
		Csv string `json:"csv"`
	}
	payload := map[string]interface{}{"rows": rows}
	if err := e.poster.PostJSON(e.exportURL+"/api/export-results", payload, &out); err != nil {
		return "", err
	}
	if out.Csv == "" {
		return "", fmt.Errorf("%w: CSV vacío", models.ErrInvalidResponse)
	}

	return out.Csv, nil
}

// ToPlainText formatea el plan de estudio día por día, de forma
// determinista y enteramente local: bloques "Day N:" / "Topics:" /
// "Activities:" / "Duration:" separados por una línea en blanco
func (e *ExportService) ToPlainText(days []models.ScheduleDay) string {
	var b strings.Builder
	for i, day := range days {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Day %d:\n", day.Day)
		fmt.Fprintf(&b, "Topics: %s\n", day.Topics)
		fmt.Fprintf(&b, "Activities: %s\n", day.Activities)
		fmt.Fprintf(&b, "Duration: %s\n", day.Duration)
	}
	return b.String()
}
