package services

import (
	"sync"
	"time"
)

// TimerService administra la cuenta regresiva por pregunta de cada sesión.
// Cada sesión tiene como máximo una cuenta regresiva activa: arrancar una
// nueva cancela implícitamente la anterior, y cancelar o expirar no deja
// estado. El controlador debe rearmarla explícitamente en cada pregunta.
type TimerService struct {
	mu       sync.Mutex
	interval time.Duration
	timers   map[string]*countdown
}

type countdown struct {
	stop chan struct{}
}

// NewTimerService crea el servicio con ticks de un segundo
func NewTimerService() *TimerService {
	return NewTimerServiceWithInterval(time.Second)
}

// NewTimerServiceWithInterval permite acortar el tick en los tests
func NewTimerServiceWithInterval(interval time.Duration) *TimerService {
	return &TimerService{
		interval: interval,
		timers:   make(map[string]*countdown),
	}
}

// Start arranca una cuenta regresiva de seconds para la sesión.
// onTick se invoca con el tiempo restante en cada tick; onExpired se
// invoca exactamente una vez al llegar a cero.
func (t *TimerService) Start(sessionID string, seconds int, onTick func(remaining int), onExpired func()) {
	t.mu.Lock()
	if prev, ok := t.timers[sessionID]; ok {
		close(prev.stop)
	}
	cd := &countdown{stop: make(chan struct{})}
	t.timers[sessionID] = cd
	t.mu.Unlock()

	go t.run(sessionID, cd, seconds, onTick, onExpired)
}

// Cancel detiene la cuenta regresiva de la sesión si existe
func (t *TimerService) Cancel(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cd, ok := t.timers[sessionID]; ok {
		close(cd.stop)
		delete(t.timers, sessionID)
	}
}

// Active indica si la sesión tiene una cuenta regresiva corriendo
func (t *TimerService) Active(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.timers[sessionID]
	return ok
}

func (t *TimerService) run(sessionID string, cd *countdown, seconds int, onTick func(int), onExpired func()) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	remaining := seconds
	for {
		select {
		case <-cd.stop:
			return
		case <-ticker.C:
			remaining--
			if remaining <= 0 {
				// solo notifica si esta cuenta sigue siendo la vigente:
				// un Start posterior ya la reemplazó y su expiración es obsoleta
				if t.clear(sessionID, cd) && onExpired != nil {
					onExpired()
				}
				return
			}
			if onTick != nil {
				onTick(remaining)
			}
		}
	}
}

// clear quita la cuenta regresiva del mapa solo si sigue siendo la actual
// y devuelve si lo era
func (t *TimerService) clear(sessionID string, cd *countdown) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if current, ok := t.timers[sessionID]; ok && current == cd {
		delete(t.timers, sessionID)
		return true
	}
	return false
}
