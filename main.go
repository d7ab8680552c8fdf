package main

import (
	"log"
	"strings"
	"time"

	"github.com/backsoul/studyquiz/pkg/auth"
	"github.com/backsoul/studyquiz/pkg/config"
	"github.com/backsoul/studyquiz/pkg/handlers"
	"github.com/backsoul/studyquiz/pkg/redis"
	"github.com/backsoul/studyquiz/pkg/services"
	"github.com/backsoul/studyquiz/pkg/websocket"
	"github.com/valyala/fasthttp"
)

var (
	cfg               config.Config
	redisClient       *redis.RedisClient
	timerService      *services.TimerService
	scoreService      *services.ScoreService
	sessionService    *services.SessionService
	notesService      *services.NotesService
	exportService     *services.ExportService
	generationService *services.GenerationService
	handoffService    *services.HandoffService
	sessionHandler    *handlers.SessionHandler
	notesHandler      *handlers.NotesHandler
	generationHandler *handlers.GenerationHandler
	hub               *websocket.Hub
)

func main() {
	log.Println("🚀 Iniciando servidor de quizzes de estudio")
	cfg = config.FromEnv()

	initRedis()
	initServices()

	server := &fasthttp.Server{
		Handler: requestHandler,
		Name:    "StudyQuiz Server",
	}

	log.Printf("🎮 Servidor de quizzes iniciado en %s", cfg.HTTPAddr)
	log.Printf("🔧 API Health: http://localhost%s/api/health", cfg.HTTPAddr)
	log.Printf("🧠 Servicio de generación: %s", cfg.GenerationURL)
	log.Println("🔄 Presiona Ctrl+C para detener el servidor")

	if err := server.ListenAndServe(cfg.HTTPAddr); err != nil {
		log.Fatalf("Error al iniciar el servidor: %v", err)
	}
}

func initRedis() {
	log.Printf("🔌 Conectando a Redis en %s...", cfg.RedisAddr)
	redisClient = redis.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func initServices() {
	log.Println("⚙️  Inicializando servicios...")

	collaborator := services.NewHTTPCollaborator(time.Duration(cfg.RequestTimeoutSec) * time.Second)
	tokens := auth.NewTokenParser(cfg.JWTSecret)

	// Inicializar WebSocket Hub
	hub = websocket.NewHub()
	go hub.Run()

	timerService = services.NewTimerService()
	scoreService = services.NewScoreService(redisClient, collaborator, cfg.ScoreURL)
	sessionService = services.NewSessionService(redisClient, timerService, scoreService, hub)
	notesService = services.NewNotesService(redisClient, collaborator, cfg.NotesURL)
	exportService = services.NewExportService(collaborator, cfg.ExportURL)
	generationService = services.NewGenerationService(collaborator, cfg.GenerationURL)
	handoffService = services.NewHandoffService()

	// Inicializar handlers
	sessionHandler = handlers.NewSessionHandler(sessionService, generationService, handoffService, exportService, scoreService, tokens, hub, redisClient)
	notesHandler = handlers.NewNotesHandler(notesService, tokens)
	generationHandler = handlers.NewGenerationHandler(handoffService, generationService, exportService)
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	// Obtener la ruta solicitada
	path := string(ctx.Path())
	method := string(ctx.Method())

	// Log de la petición
	log.Printf("📡 %s %s", method, path)

	// Configurar headers de respuesta
	ctx.Response.Header.Set("Server", "StudyQuiz-FastHTTP/1.0")
	ctx.Response.Header.Set("Cache-Control", "no-cache")

	// Headers CORS para desarrollo
	ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
	ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	// Manejar preflight requests
	if method == "OPTIONS" {
		ctx.SetStatusCode(fasthttp.StatusOK)
		return
	}

	// Enrutamiento
	switch {
	// API Routes - Health
	case path == "/api/health":
		sessionHandler.HealthCheck(ctx)

	// API Routes - Documentos y generación
	case path == "/api/upload" && method == "POST":
		generationHandler.UploadFile(ctx)
	case path == "/api/schedule" && method == "POST":
		generationHandler.GenerateSchedule(ctx)

	// API Routes - Sesiones
	case path == "/api/sessions" && method == "POST":
		sessionHandler.CreateSession(ctx)
	case path == "/api/history" && method == "GET":
		sessionHandler.GetHistory(ctx)

	// API Routes - Notas
	case path == "/api/notes" && method == "POST":
		notesHandler.SaveNote(ctx)
	case strings.HasPrefix(path, "/api/notes/") && method == "GET":
		handleNoteGetRoutes(ctx, path)

	// WebSocket Route
	case path == "/ws":
		sessionHandler.HandleWebSocket(ctx)

	// API Routes - Sesiones individuales (con parámetros)
	case strings.HasPrefix(path, "/api/sessions/") && method == "GET":
		handleSessionGetRoutes(ctx, path)
	case strings.HasPrefix(path, "/api/sessions/") && method == "POST":
		handleSessionPostRoutes(ctx, path)

	default:
		serve404(ctx)
	}
}

func handleSessionGetRoutes(ctx *fasthttp.RequestCtx, path string) {
	parts := strings.Split(path, "/")

	// /api/sessions/{id}/export
	if len(parts) == 5 && parts[1] == "api" && parts[2] == "sessions" && parts[4] == "export" {
		ctx.SetUserValue("id", parts[3])
		sessionHandler.ExportSession(ctx)
		return
	}

	// /api/sessions/{id}
	if len(parts) == 4 && parts[1] == "api" && parts[2] == "sessions" {
		ctx.SetUserValue("id", parts[3])
		sessionHandler.GetSession(ctx)
		return
	}

	serve404(ctx)
}

func handleSessionPostRoutes(ctx *fasthttp.RequestCtx, path string) {
	parts := strings.Split(path, "/")

	if len(parts) != 5 || parts[1] != "api" || parts[2] != "sessions" {
		serve404(ctx)
		return
	}

	ctx.SetUserValue("id", parts[3])
	switch parts[4] {
	case "answer":
		sessionHandler.RecordAnswer(ctx)
	case "next":
		sessionHandler.GoNext(ctx)
	case "previous":
		sessionHandler.GoPrevious(ctx)
	case "submit":
		sessionHandler.Submit(ctx)
	case "reset":
		sessionHandler.Reset(ctx)
	default:
		serve404(ctx)
	}
}

func handleNoteGetRoutes(ctx *fasthttp.RequestCtx, path string) {
	parts := strings.Split(path, "/")

	// /api/notes/{index}
	if len(parts) == 4 && parts[1] == "api" && parts[2] == "notes" {
		ctx.SetUserValue("index", parts[3])
		notesHandler.GetNote(ctx)
		return
	}

	serve404(ctx)
}

func serve404(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusNotFound)
	ctx.SetContentType("application/json")
	ctx.SetBodyString(`{"success": false, "error": "Ruta no encontrada"}`)
}
