package models

// Question estructura para representar una pregunta del quiz generado
type Question struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	AnswerKey   string   `json:"answerKey"`
	Explanation string   `json:"explanation,omitempty"`
}

// Quiz conjunto ordenado de preguntas generado a partir de un documento.
// Es inmutable una vez que arranca una sesión.
type Quiz struct {
	Questions  []Question `json:"questions"`
	Difficulty string     `json:"difficulty,omitempty"` // "easy", "medium", "hard" - lo asigna el servicio de generación
	Topic      string     `json:"topic,omitempty"`
}

// Len devuelve el número de preguntas del quiz
func (q *Quiz) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Questions)
}

// ScheduleDay un día del plan de estudio generado
type ScheduleDay struct {
	Day        int    `json:"day"`
	Topics     string `json:"topics"`
	Activities string `json:"activities"`
	Duration   string `json:"duration"`
}

// Note nota libre asociada a una pregunta
type Note struct {
	QuestionIndex int    `json:"questionIndex"`
	Text          string `json:"text"`
}

// FileUpload archivo subido que se entrega entre pantallas (una sola vez)
type FileUpload struct {
	Name         string `json:"name"`
	Size         int    `json:"size"`
	MimeType     string `json:"mimeType"`
	LastModified int64  `json:"lastModified"`
	Data         []byte `json:"data"`
}

// ExportRow fila del payload de exportación a CSV
type ExportRow struct {
	Question            string `json:"question"`
	SubmittedAnswer     string `json:"submittedAnswer"`
	AuthoritativeAnswer string `json:"authoritativeAnswer"`
}

// APIResponse estructura estándar para respuestas de API
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SessionCreateRequest request para crear una sesión de quiz
type SessionCreateRequest struct {
	HandoffID          string `json:"handoffId"`
	RequestedQuestions int    `json:"requestedQuestionCount"`
	Topic              string `json:"topic"`
	UseTimer           bool   `json:"useTimer"`
	SecondsPerQuestion int    `json:"secondsPerQuestion"`
	Adaptive           bool   `json:"adaptive"`
}

// AnswerRequest request para registrar una respuesta
type AnswerRequest struct {
	QuestionIndex int    `json:"questionIndex"`
	Value         string `json:"value"`
}

// NoteRequest request para guardar una nota
type NoteRequest struct {
	QuestionIndex int    `json:"questionIndex"`
	Text          string `json:"text"`
}

// ScheduleRequest request para generar un plan de estudio
type ScheduleRequest struct {
	HandoffID    string  `json:"handoffId"`
	DurationDays int     `json:"durationDays"`
	HoursPerDay  float64 `json:"hoursPerDay"`
}

// SessionResponse respuesta de sesión
type SessionResponse struct {
	Session *QuizSession `json:"session,omitempty"`
	Message string       `json:"message,omitempty"`
}
