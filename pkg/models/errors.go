package models

import "errors"

// Errores del núcleo. Todos son recuperables para el usuario: ninguno
// termina el proceso, la sesión sigue siendo usable y la acción se
// puede reintentar.
var (
	// ErrInvalidQuiz quiz vacío o malformado; la sesión se queda en configuración
	ErrInvalidQuiz = errors.New("quiz inválido o vacío")
	// ErrAuthRequired precondición local: no hay usuario identificado
	ErrAuthRequired = errors.New("se requiere iniciar sesión")
	// ErrGeneration el servicio de generación no devolvió nada usable
	ErrGeneration = errors.New("error generando contenido")
	// ErrInvalidResponse respuesta vacía o malformada de un colaborador externo
	ErrInvalidResponse = errors.New("respuesta inválida del servicio externo")
	// ErrTimeout la petición superó el tiempo de espera del cliente
	ErrTimeout = errors.New("tiempo de espera agotado, reintenta o reduce el alcance")
	// ErrNetworkUnavailable no se recibió respuesta del servicio externo
	ErrNetworkUnavailable = errors.New("servicio externo no disponible")
	// ErrSubmitInProgress ya hay un envío en curso para la sesión
	ErrSubmitInProgress = errors.New("envío en curso")
	// ErrSessionNotActive la operación requiere una sesión activa
	ErrSessionNotActive = errors.New("la sesión no está activa")
	// ErrSessionNotFound sesión inexistente o expirada
	ErrSessionNotFound = errors.New("sesión no encontrada")
)
