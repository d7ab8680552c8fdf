package services

import (
	"errors"
	"testing"

	"github.com/backsoul/studyquiz/pkg/models"
)

func TestBuildRows(t *testing.T) {
	service := NewExportService(nil, "")
	quiz := newTestQuiz(3)
	answers := map[int]string{0: "B) Verde", 2: "A) Rojo"}

	rows := service.BuildRows(quiz, answers)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, se esperaba 3", len(rows))
	}
	if rows[0].Question != "Pregunta 1" || rows[0].SubmittedAnswer != "B) Verde" || rows[0].AuthoritativeAnswer != "B) Verde" {
		t.Fatalf("rows[0] = %+v", rows[0])
	}
	// los índices sin responder van como cadena vacía
	if rows[1].SubmittedAnswer != "" {
		t.Fatalf("rows[1] = %+v", rows[1])
	}
	if rows[2].SubmittedAnswer != "A) Rojo" {
		t.Fatalf("rows[2] = %+v", rows[2])
	}
}

func TestToCsvRequest(t *testing.T) {
	t.Run("devuelve el CSV del colaborador", func(t *testing.T) {
		poster := &fakePoster{respond: respondJSON(map[string]string{
			"csv": "Question,Your Answer,Correct Answer\nPregunta 1,B) Verde,B) Verde\n",
		})}
		service := NewExportService(poster, "http://exportar")

		csv, err := service.ToCsvRequest(newTestQuiz(1), map[int]string{0: "B) Verde"})
		if err != nil {
			t.Fatalf("ToCsvRequest: %v", err)
		}
		if csv == "" || csv[:8] != "Question" {
			t.Fatalf("csv = %q", csv)
		}

		call, _ := poster.lastCall()
		if call.URL != "http://exportar/api/export-results" {
			t.Fatalf("URL = %q", call.URL)
		}
		payload := call.Payload.(map[string]interface{})
		if _, ok := payload["rows"].([]models.ExportRow); !ok {
			t.Fatalf("payload = %v", payload)
		}
	})

	t.Run("CSV vacío es respuesta inválida", func(t *testing.T) {
		poster := &fakePoster{respond: respondJSON(map[string]string{"csv": ""})}
		service := NewExportService(poster, "http://exportar")

		if _, err := service.ToCsvRequest(newTestQuiz(1), nil); !errors.Is(err, models.ErrInvalidResponse) {
			t.Fatalf("err = %v, se esperaba ErrInvalidResponse", err)
		}
	})

	t.Run("quiz vacío", func(t *testing.T) {
		service := NewExportService(&fakePoster{}, "http://exportar")
		if _, err := service.ToCsvRequest(&models.Quiz{}, nil); !errors.Is(err, models.ErrInvalidQuiz) {
			t.Fatalf("err = %v, se esperaba ErrInvalidQuiz", err)
		}
	})

	t.Run("fallo de red se propaga", func(t *testing.T) {
		poster := &fakePoster{err: models.ErrTimeout}
		service := NewExportService(poster, "http://exportar")
		if _, err := service.ToCsvRequest(newTestQuiz(1), nil); !errors.Is(err, models.ErrTimeout) {
			t.Fatalf("err = %v, se esperaba ErrTimeout", err)
		}
	})
}

func TestToPlainText(t *testing.T) {
	service := NewExportService(nil, "")
	days := []models.ScheduleDay{
		{Day: 1, Topics: "Capas OSI", Activities: "Leer capítulo 1", Duration: "2 horas"},
		{Day: 2, Topics: "TCP/IP", Activities: "Ejercicios prácticos", Duration: "1.5 horas"},
	}

	got := service.ToPlainText(days)
	want := "Day 1:\n" +
		"Topics: Capas OSI\n" +
		"Activities: Leer capítulo 1\n" +
		"Duration: 2 horas\n" +
		"\n" +
		"Day 2:\n" +
		"Topics: TCP/IP\n" +
		"Activities: Ejercicios prácticos\n" +
		"Duration: 1.5 horas\n"
	if got != want {
		t.Fatalf("ToPlainText =\n%q\nse esperaba\n%q", got, want)
	}

	if service.ToPlainText(nil) != "" {
		t.Fatal("sin días no hay texto")
	}
}
