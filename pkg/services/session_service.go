package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/backsoul/studyquiz/pkg/models"
	"github.com/google/uuid"
)

const (
	sessionKeyPrefix  = "quiz:session:"
	activeSessionsKey = "quiz:active_sessions"
	sessionTTL        = 24 * time.Hour
	minSecondsPerQ    = 10
)

// Broadcaster publica eventos de sesión para que la capa de presentación
// renderice feedback. El hub de WebSocket lo implementa.
type Broadcaster interface {
	BroadcastTimerTick(sessionID string, remaining int)
	BroadcastAutoAdvance(sessionID string, activeIndex int)
	BroadcastSubmitted(sessionID string, score interface{})
}

// SessionService orquesta el ciclo de vida de las sesiones de quiz:
// configuración → activa → enviada. Es el dueño del temporizador y toda
// mutación de la sesión pasa por aquí, serializada bajo un solo mutex
// (eventos de usuario y ticks del temporizador por igual).
type SessionService struct {
	mu         sync.Mutex
	sessions   map[string]*models.QuizSession
	submitting map[string]bool

	store  Store
	timers *TimerService
	scores *ScoreService
	hub    Broadcaster
}

// NewSessionService crea una nueva instancia del servicio de sesiones
func NewSessionService(store Store, timers *TimerService, scores *ScoreService, hub Broadcaster) *SessionService {
	return &SessionService{
		sessions:   make(map[string]*models.QuizSession),
		submitting: make(map[string]bool),
		store:      store,
		timers:     timers,
		scores:     scores,
		hub:        hub,
	}
}

// StartSession crea una sesión activa sobre el quiz dado. El quiz no
// puede estar vacío; a partir de aquí es de solo lectura.
func (s *SessionService) StartSession(userID string, quiz *models.Quiz, opts models.SessionOptions) (*models.QuizSession, error) {
	if quiz.Len() == 0 {
		return nil, models.ErrInvalidQuiz
	}

	if opts.UseTimer && opts.SecondsPerQuestion < minSecondsPerQ {
		log.Printf("⏱️ secondsPerQuestion=%d por debajo del mínimo, usando %d", opts.SecondsPerQuestion, minSecondsPerQ)
		opts.SecondsPerQuestion = minSecondsPerQ
	}

	now := time.Now()
	session := &models.QuizSession{
		ID:           uuid.New().String(),
		UserID:       userID,
		Quiz:         quiz,
		ActiveIndex:  0,
		Answers:      make(map[int]string),
		State:        models.SessionActive,
		StartTime:    now,
		LastActivity: now,
		Options:      opts,
	}
	if opts.UseTimer {
		session.TimerRemaining = opts.SecondsPerQuestion
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	snap := snapshot(session)
	s.mu.Unlock()

	s.persist(snap)
	if opts.UseTimer {
		s.startTimer(session.ID, opts.SecondsPerQuestion)
	}

	log.Printf("✅ Nueva sesión creada (ID: %s, preguntas: %d, timer: %v)", session.ID, quiz.Len(), opts.UseTimer)
	return snap, nil
}

// GetSession obtiene una sesión por ID; si no está en memoria intenta
// rehidratarla desde Redis (sin temporizador)
func (s *SessionService) GetSession(sessionID string) (*models.QuizSession, error) {
	s.mu.Lock()
	if session, ok := s.sessions[sessionID]; ok {
		snap := snapshot(session)
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	if s.store == nil {
		return nil, models.ErrSessionNotFound
	}
	data, err := s.store.Get(sessionKeyPrefix + sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSessionNotFound, err)
	}

	var session models.QuizSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("error parsing sesión: %v", err)
	}
	if session.Answers == nil {
		session.Answers = make(map[int]string)
	}

	s.mu.Lock()
	s.sessions[session.ID] = &session
	snap := snapshot(&session)
	s.mu.Unlock()

	log.Printf("🔄 Sesión %s rehidratada desde Redis (sin temporizador)", sessionID)
	return snap, nil
}

// RecordAnswer registra la respuesta para cualquier índice del quiz, no
// solo el activo (la navegación hacia atrás lo necesita). La última
// escritura por índice gana.
func (s *SessionService) RecordAnswer(sessionID string, index int, value string) error {
	s.mu.Lock()
	session, err := s.activeLocked(sessionID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if index < 0 || index >= session.Quiz.Len() {
		s.mu.Unlock()
		return fmt.Errorf("índice de pregunta %d fuera de rango", index)
	}

	session.Answers[index] = value
	session.LastActivity = time.Now()
	snap := snapshot(session)
	s.mu.Unlock()

	s.persist(snap)
	return nil
}

// GoNext avanza a la siguiente pregunta con el temporizador completo.
// En la última pregunta equivale a Submit.
func (s *SessionService) GoNext(sessionID string) (*models.QuizSession, error) {
	s.mu.Lock()
	session, err := s.activeLocked(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if session.ActiveIndex >= session.Quiz.Len()-1 {
		s.mu.Unlock()
		return s.Submit(sessionID)
	}

	session.ActiveIndex++
	session.LastActivity = time.Now()
	s.restartTimerLocked(session)
	snap := snapshot(session)
	s.mu.Unlock()

	s.persist(snap)
	return snap, nil
}

// GoPrevious retrocede a la pregunta anterior. Volver a una pregunta ya
// visitada también reinicia el temporizador al valor completo: el tiempo
// no se arrastra entre preguntas.
func (s *SessionService) GoPrevious(sessionID string) (*models.QuizSession, error) {
	s.mu.Lock()
	session, err := s.activeLocked(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if session.ActiveIndex > 0 {
		session.ActiveIndex--
		session.LastActivity = time.Now()
		s.restartTimerLocked(session)
	}
	snap := snapshot(session)
	s.mu.Unlock()

	s.persist(snap)
	return snap, nil
}

// Submit envía la sesión: cancela el temporizador, calcula el resultado
// una sola vez y pasa a SessionSubmitted. Es idempotente: sobre una
// sesión ya enviada devuelve el mismo resultado sin recalcular.
func (s *SessionService) Submit(sessionID string) (*models.QuizSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, models.ErrSessionNotFound
	}
	if session.State == models.SessionSubmitted {
		snap := snapshot(session)
		s.mu.Unlock()
		return snap, nil
	}
	if session.State != models.SessionActive {
		s.mu.Unlock()
		return nil, models.ErrSessionNotActive
	}
	if s.submitting[sessionID] {
		s.mu.Unlock()
		return nil, models.ErrSubmitInProgress
	}
	s.submitting[sessionID] = true

	s.timers.Cancel(sessionID)

	score := s.scores.Score(session.Quiz, session.Answers, session.StartTime)
	session.Score = score
	session.State = models.SessionSubmitted
	session.TimerRemaining = 0
	session.LastActivity = time.Now()

	userID := session.UserID
	topic := session.Quiz.Topic
	snap := snapshot(session)
	s.mu.Unlock()

	s.persist(snap)
	if s.hub != nil {
		s.hub.BroadcastSubmitted(sessionID, score)
	}

	// El envío del puntaje al colaborador externo es asíncrono y no
	// fatal; la bandera de envío en curso evita un doble posteo.
	go func() {
		s.scores.SubmitScore(userID, topic, score)
		s.mu.Lock()
		delete(s.submitting, sessionID)
		s.mu.Unlock()
	}()

	log.Printf("🏁 Sesión %s enviada: %d/%d (%.1f%%)", sessionID, score.CorrectCount, score.Total, score.Percentage)
	return snap, nil
}

// Reset limpia la sesión y vuelve a configuración. Es seguro llamarlo
// desde cualquier estado.
func (s *SessionService) Reset(sessionID string) (*models.QuizSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, models.ErrSessionNotFound
	}

	s.timers.Cancel(sessionID)
	session.State = models.SessionConfiguring
	session.Answers = make(map[int]string)
	session.ActiveIndex = 0
	session.Score = nil
	session.TimerRemaining = 0
	session.StartTime = time.Time{}
	session.LastActivity = time.Now()
	snap := snapshot(session)
	s.mu.Unlock()

	s.persist(snap)
	log.Printf("🔄 Sesión %s reiniciada", sessionID)
	return snap, nil
}

// OnTimerExpired callback interno del temporizador: avanza a la
// siguiente pregunta o, en la última, envía la sesión
func (s *SessionService) OnTimerExpired(sessionID string) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok || session.State != models.SessionActive {
		s.mu.Unlock()
		return
	}

	if session.ActiveIndex < session.Quiz.Len()-1 {
		session.ActiveIndex++
		session.LastActivity = time.Now()
		s.restartTimerLocked(session)
		activeIndex := session.ActiveIndex
		snap := snapshot(session)
		s.mu.Unlock()

		s.persist(snap)
		if s.hub != nil {
			s.hub.BroadcastAutoAdvance(sessionID, activeIndex)
		}
		return
	}
	s.mu.Unlock()

	if _, err := s.Submit(sessionID); err != nil {
		log.Printf("⚠️ Error enviando sesión %s al expirar el tiempo: %v", sessionID, err)
	}
}

// onTick callback interno del temporizador en cada segundo restante
func (s *SessionService) onTick(sessionID string, remaining int) {
	s.mu.Lock()
	if session, ok := s.sessions[sessionID]; ok && session.State == models.SessionActive {
		session.TimerRemaining = remaining
	}
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.BroadcastTimerTick(sessionID, remaining)
	}
}

// restartTimerLocked rearma el temporizador de la pregunta activa al
// valor completo configurado. Requiere tener tomado s.mu.
func (s *SessionService) restartTimerLocked(session *models.QuizSession) {
	if !session.Options.UseTimer {
		return
	}
	session.TimerRemaining = session.Options.SecondsPerQuestion
	s.startTimer(session.ID, session.Options.SecondsPerQuestion)
}

func (s *SessionService) startTimer(sessionID string, seconds int) {
	s.timers.Start(sessionID, seconds,
		func(remaining int) { s.onTick(sessionID, remaining) },
		func() { s.OnTimerExpired(sessionID) },
	)
}

// activeLocked obtiene la sesión exigiendo estado activo. Requiere s.mu.
func (s *SessionService) activeLocked(sessionID string) (*models.QuizSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	if session.State != models.SessionActive {
		return nil, models.ErrSessionNotActive
	}
	return session, nil
}

// snapshot copia la sesión (incluido el mapa de respuestas) para que los
// handlers serialicen sin carreras con los ticks del temporizador
func snapshot(session *models.QuizSession) *models.QuizSession {
	copia := *session
	copia.Answers = make(map[int]string, len(session.Answers))
	for k, v := range session.Answers {
		copia.Answers[k] = v
	}
	return &copia
}

// persist guarda el estado de la sesión en Redis; los errores se
// registran y no interrumpen el flujo
func (s *SessionService) persist(session *models.QuizSession) {
	if s.store == nil {
		return
	}

	data, err := json.Marshal(session)
	if err != nil {
		log.Printf("⚠️ Error serializando sesión %s: %v", session.ID, err)
		return
	}
	if err := s.store.Set(sessionKeyPrefix+session.ID, string(data), sessionTTL); err != nil {
		log.Printf("⚠️ Error guardando sesión %s: %v", session.ID, err)
	}

	if session.State == models.SessionActive {
		if err := s.store.AddToSet(activeSessionsKey, session.ID); err != nil {
			log.Printf("⚠️ Error agregando a sesiones activas: %v", err)
		}
	} else {
		if err := s.store.RemoveFromSet(activeSessionsKey, session.ID); err != nil {
			log.Printf("⚠️ Error quitando de sesiones activas: %v", err)
		}
	}
}
