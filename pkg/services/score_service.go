package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/backsoul/studyquiz/pkg/matcher"
	"github.com/backsoul/studyquiz/pkg/models"
)

const attemptsKeyPrefix = "quiz:attempts:"

// ScoreService calcula el resultado de una sesión y lo reporta al
// colaborador externo de puntajes
type ScoreService struct {
	store    Store
	poster   Poster
	scoreURL string
}

// NewScoreService crea una nueva instancia del servicio de puntajes
func NewScoreService(store Store, poster Poster, scoreURL string) *ScoreService {
	return &ScoreService{
		store:    store,
		poster:   poster,
		scoreURL: scoreURL,
	}
}

// Score calcula el resultado agregado: por cada pregunta compara la
// respuesta registrada (ausente = cadena vacía, que nunca equivale a
// nada) contra la autoritativa con la heurística de equivalencia.
func (s *ScoreService) Score(quiz *models.Quiz, answers map[int]string, startedAt time.Time) *models.ScoreResult {
	total := quiz.Len()
	results := make([]models.QuestionResult, 0, total)

	correct := 0
	for i, question := range quiz.Questions {
		submitted := answers[i]
		isCorrect := matcher.Matches(submitted, question.AnswerKey)
		if isCorrect {
			correct++
		}
		results = append(results, models.QuestionResult{
			QuestionIndex:       i,
			SubmittedAnswer:     submitted,
			AuthoritativeAnswer: question.AnswerKey,
			IsCorrect:           isCorrect,
		})
	}

	elapsed := 0
	if !startedAt.IsZero() {
		elapsed = int(time.Since(startedAt).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
	}

	return &models.ScoreResult{
		CorrectCount:   correct,
		Total:          total,
		Percentage:     100 * float64(correct) / float64(total),
		ElapsedSeconds: elapsed,
		Results:        results,
	}
}

// SubmitScore guarda el intento en el historial local y lo postea al
// colaborador externo. Cualquier fallo se registra y no interrumpe el
// flujo visible del usuario. Sin usuario identificado no hay nada que
// reportar.
func (s *ScoreService) SubmitScore(userID, topic string, score *models.ScoreResult) {
	if userID == "" {
		log.Println("👤 Sesión sin usuario identificado, el puntaje no se reporta")
		return
	}

	attempt := models.Attempt{
		CorrectCount:   score.CorrectCount,
		Total:          score.Total,
		Percentage:     score.Percentage,
		Topic:          topic,
		ElapsedSeconds: score.ElapsedSeconds,
		CreatedAt:      time.Now(),
	}
	if s.store != nil {
		data, err := json.Marshal(attempt)
		if err == nil {
			if err := s.store.PushToList(attemptsKeyPrefix+userID, string(data)); err != nil {
				log.Printf("⚠️ Error guardando intento en historial: %v", err)
			}
		}
	}

	if s.poster == nil {
		return
	}
	payload := map[string]interface{}{
		"userId":         userID,
		"correctCount":   score.CorrectCount,
		"total":          score.Total,
		"topic":          topic,
		"elapsedSeconds": score.ElapsedSeconds,
	}
	if err := s.poster.PostJSON(s.scoreURL+"/api/quiz/submit", payload, nil); err != nil {
		log.Printf("⚠️ Error reportando puntaje de %s: %v", userID, err)
	}
}

// AttemptHistory devuelve el historial de intentos del usuario
func (s *ScoreService) AttemptHistory(userID string) ([]models.Attempt, error) {
	if userID == "" {
		return nil, models.ErrAuthRequired
	}
	if s.store == nil {
		return nil, nil
	}

	values, err := s.store.GetList(attemptsKeyPrefix + userID)
	if err != nil {
		return nil, fmt.Errorf("error obteniendo historial: %v", err)
	}

	attempts := make([]models.Attempt, 0, len(values))
	for _, value := range values {
		var attempt models.Attempt
		if err := json.Unmarshal([]byte(value), &attempt); err != nil {
			log.Printf("⚠️ Intento inválido en historial de %s: %v", userID, err)
			continue
		}
		attempts = append(attempts, attempt)
	}

	return attempts, nil
}
