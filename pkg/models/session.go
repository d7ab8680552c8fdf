package models

import "time"

// Estados de una sesión de quiz
const (
	SessionConfiguring = "configuring"
	SessionActive      = "active"
	SessionSubmitted   = "submitted"
)

// SessionOptions configuración con la que arranca una sesión
type SessionOptions struct {
	UseTimer           bool `json:"useTimer"`
	SecondsPerQuestion int  `json:"secondsPerQuestion"`
	AdaptiveEnabled    bool `json:"adaptiveEnabled"`
}

// QuizSession representa el intento de un usuario sobre un quiz.
// El quiz es compartido y de solo lectura; el mapa de respuestas es
// propiedad exclusiva de la sesión (índice ausente = sin responder).
type QuizSession struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId,omitempty"`
	Quiz           *Quiz          `json:"quiz"`
	ActiveIndex    int            `json:"activeIndex"`
	Answers        map[int]string `json:"answers"`
	State          string         `json:"state"`
	StartTime      time.Time      `json:"startTime"`
	TimerRemaining int            `json:"timerRemaining"`
	Options        SessionOptions `json:"options"`
	Score          *ScoreResult   `json:"score,omitempty"`
	LastActivity   time.Time      `json:"lastActivity"`
}

// QuestionResult corrección de una pregunta después del envío
type QuestionResult struct {
	QuestionIndex       int    `json:"questionIndex"`
	SubmittedAnswer     string `json:"submittedAnswer"`
	AuthoritativeAnswer string `json:"authoritativeAnswer"`
	IsCorrect           bool   `json:"isCorrect"`
}

// ScoreResult resumen inmutable de una sesión enviada.
// Se calcula una sola vez, en la transición a SessionSubmitted.
type ScoreResult struct {
	CorrectCount   int              `json:"correctCount"`
	Total          int              `json:"total"`
	Percentage     float64          `json:"percentage"`
	ElapsedSeconds int              `json:"elapsedSeconds"`
	Results        []QuestionResult `json:"results"`
}

// Attempt intento histórico de quiz guardado por usuario
type Attempt struct {
	CorrectCount   int       `json:"correctCount"`
	Total          int       `json:"total"`
	Percentage     float64   `json:"percentage"`
	Topic          string    `json:"topic,omitempty"`
	ElapsedSeconds int       `json:"elapsedSeconds"`
	CreatedAt      time.Time `json:"createdAt"`
}
