package services

import (
	"errors"
	"testing"
	"time"

	"github.com/backsoul/studyquiz/pkg/models"
)

func TestScore(t *testing.T) {
	service := NewScoreService(nil, nil, "")
	quiz := newTestQuiz(4)

	t.Run("sin respuestas todo es incorrecto", func(t *testing.T) {
		score := service.Score(quiz, map[int]string{}, time.Time{})
		if score.CorrectCount != 0 || score.Total != 4 || score.Percentage != 0 {
			t.Fatalf("score = %+v", score)
		}
		if len(score.Results) != 4 {
			t.Fatalf("results = %d, se esperaba 4", len(score.Results))
		}
		for _, result := range score.Results {
			if result.IsCorrect || result.SubmittedAnswer != "" {
				t.Fatalf("resultado inesperado: %+v", result)
			}
		}
	})

	t.Run("todas correctas", func(t *testing.T) {
		answers := map[int]string{0: "B) Verde", 1: "B) Verde", 2: "B) Verde", 3: "B) Verde"}
		score := service.Score(quiz, answers, time.Time{})
		if score.CorrectCount != 4 || score.Percentage != 100 {
			t.Fatalf("score = %+v", score)
		}
	})

	t.Run("mezcla y orden de resultados", func(t *testing.T) {
		answers := map[int]string{1: "A) Rojo", 3: "B) Verde"}
		score := service.Score(quiz, answers, time.Time{})
		if score.CorrectCount != 1 || score.Percentage != 25 {
			t.Fatalf("score = %+v", score)
		}
		for i, result := range score.Results {
			if result.QuestionIndex != i {
				t.Fatalf("results fuera de orden: %+v", score.Results)
			}
		}
		if score.Results[1].IsCorrect || !score.Results[3].IsCorrect {
			t.Fatalf("results = %+v", score.Results)
		}
	})

	t.Run("tiempo transcurrido", func(t *testing.T) {
		score := service.Score(quiz, nil, time.Now().Add(-3*time.Second))
		if score.ElapsedSeconds < 2 || score.ElapsedSeconds > 4 {
			t.Fatalf("elapsedSeconds = %d", score.ElapsedSeconds)
		}
		// sin hora de inicio no hay tiempo que medir
		if got := service.Score(quiz, nil, time.Time{}); got.ElapsedSeconds != 0 {
			t.Fatalf("elapsedSeconds = %d, se esperaba 0", got.ElapsedSeconds)
		}
		// reloj corrido hacia el futuro: el piso es cero
		if got := service.Score(quiz, nil, time.Now().Add(time.Minute)); got.ElapsedSeconds != 0 {
			t.Fatalf("elapsedSeconds = %d, se esperaba 0", got.ElapsedSeconds)
		}
	})
}

func TestSubmitScoreWithoutUserIsNoop(t *testing.T) {
	store := newFakeStore()
	poster := &fakePoster{}
	service := NewScoreService(store, poster, "http://puntajes")

	service.SubmitScore("", "tema", &models.ScoreResult{CorrectCount: 1, Total: 2})

	if poster.callCount() != 0 {
		t.Fatal("sin usuario no debe haber posteo")
	}
	if attempts, _ := store.GetList(attemptsKeyPrefix); len(attempts) != 0 {
		t.Fatal("sin usuario no debe haber historial")
	}
}

func TestSubmitScorePosterFailureKeepsHistory(t *testing.T) {
	store := newFakeStore()
	poster := &fakePoster{err: models.ErrNetworkUnavailable}
	service := NewScoreService(store, poster, "http://puntajes")

	service.SubmitScore("user-2", "tema", &models.ScoreResult{CorrectCount: 2, Total: 3, Percentage: 66.7})

	attempts, err := service.AttemptHistory("user-2")
	if err != nil {
		t.Fatalf("AttemptHistory: %v", err)
	}
	if len(attempts) != 1 || attempts[0].CorrectCount != 2 || attempts[0].Topic != "tema" {
		t.Fatalf("attempts = %+v", attempts)
	}
}

func TestAttemptHistoryRequiresUser(t *testing.T) {
	service := NewScoreService(newFakeStore(), nil, "")
	if _, err := service.AttemptHistory(""); !errors.Is(err, models.ErrAuthRequired) {
		t.Fatalf("err = %v, se esperaba ErrAuthRequired", err)
	}
}

func TestAttemptHistorySkipsInvalidEntries(t *testing.T) {
	store := newFakeStore()
	service := NewScoreService(store, nil, "")

	store.PushToList(attemptsKeyPrefix+"user-3", `{"correctCount":3,"total":5,"topic":"redes"}`)
	store.PushToList(attemptsKeyPrefix+"user-3", `no es json`)

	attempts, err := service.AttemptHistory("user-3")
	if err != nil {
		t.Fatalf("AttemptHistory: %v", err)
	}
	if len(attempts) != 1 || attempts[0].Total != 5 {
		t.Fatalf("attempts = %+v", attempts)
	}
}
