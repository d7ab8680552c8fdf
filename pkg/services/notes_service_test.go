package services

import (
	"errors"
	"testing"

	"github.com/backsoul/studyquiz/pkg/models"
)

func TestSetNoteRequiresUser(t *testing.T) {
	service := NewNotesService(newFakeStore(), nil, "")
	if err := service.SetNote("", 0, "apunte"); !errors.Is(err, models.ErrAuthRequired) {
		t.Fatalf("err = %v, se esperaba ErrAuthRequired", err)
	}
}

func TestSetNoteRejectsNegativeIndex(t *testing.T) {
	service := NewNotesService(newFakeStore(), nil, "")
	if err := service.SetNote("user-1", -1, "apunte"); err == nil {
		t.Fatal("se esperaba error por índice negativo")
	}
}

func TestSetAndGetNote(t *testing.T) {
	poster := &fakePoster{}
	service := NewNotesService(newFakeStore(), poster, "http://notas")

	if err := service.SetNote("user-1", 2, "repasar la pregunta 3"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}
	// la última escritura gana
	if err := service.SetNote("user-1", 2, "ya entendida"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}

	text, ok := service.GetNote("user-1", 2)
	if !ok || text != "ya entendida" {
		t.Fatalf("GetNote = (%q, %v)", text, ok)
	}

	call, hasCall := poster.lastCall()
	if !hasCall || call.URL != "http://notas/api/save-notes" {
		t.Fatalf("posteo inesperado: %+v", call)
	}
	payload := call.Payload.(map[string]interface{})
	if payload["userId"] != "user-1" || payload["questionIndex"] != 2 || payload["text"] != "ya entendida" {
		t.Fatalf("payload = %v", payload)
	}

	// notas de otro usuario u otro índice no se mezclan
	if _, ok := service.GetNote("user-2", 2); ok {
		t.Fatal("la nota no debe ser visible para otro usuario")
	}
	if _, ok := service.GetNote("user-1", 3); ok {
		t.Fatal("la nota no debe aparecer en otro índice")
	}
}

func TestSetNoteRemoteFailureKeepsLocalValue(t *testing.T) {
	poster := &fakePoster{err: models.ErrNetworkUnavailable}
	service := NewNotesService(newFakeStore(), poster, "http://notas")

	err := service.SetNote("user-1", 0, "apunte")
	if !errors.Is(err, models.ErrNetworkUnavailable) {
		t.Fatalf("err = %v, se esperaba ErrNetworkUnavailable envuelto", err)
	}

	// la nota quedó guardada aunque falle la persistencia externa
	text, ok := service.GetNote("user-1", 0)
	if !ok || text != "apunte" {
		t.Fatalf("GetNote = (%q, %v)", text, ok)
	}
}

func TestGetNoteWithoutUser(t *testing.T) {
	service := NewNotesService(newFakeStore(), nil, "")
	if _, ok := service.GetNote("", 0); ok {
		t.Fatal("sin usuario no hay notas")
	}
}
