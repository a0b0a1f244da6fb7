package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/Geti23/quiz-app/internal/app"
	"github.com/Geti23/quiz-app/internal/domain"
)

// Handler exposes the quiz use cases over HTTP. Status mapping: unknown quiz
// id is 404, schema violations are 422, an answer index outside the question
// count is 400.
type Handler struct {
	service  *app.QuizService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(service *app.QuizService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// NewRouter assembles the chi router with the standard middleware chain.
func NewRouter(service *app.QuizService, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	NewHandler(service, logger).Routes(r)
	return r
}

// Routes mounts all endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Get("/health", h.handleHealth)

	r.Route("/quizzes", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Delete("/", h.handleClearAll)

		r.Route("/{quizID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleReplace)
			r.Delete("/", h.handleDelete)
			r.Post("/answers", h.handleSubmitAnswer)
			r.Get("/results", h.handleResults)
			r.Get("/watch", h.handleWatch)
		})
	})
}

type questionPayload struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Difficulty    string   `json:"difficulty,omitempty"`
	Category      string   `json:"category,omitempty"`
}

type quizRequest struct {
	Title            string            `json:"title"`
	TimeLimitSeconds *float64          `json:"time_limit_seconds,omitempty"`
	Questions        []questionPayload `json:"questions"`
}

type quizSummary struct {
	QuizID           string   `json:"quiz_id"`
	Title            string   `json:"title"`
	QuestionCount    int      `json:"question_count"`
	TimeLimitSeconds *float64 `json:"time_limit_seconds,omitempty"`
}

type quizDetail struct {
	quizSummary
	Questions []domain.Question `json:"questions"`
	Answers   map[int]string    `json:"answers"`
}

type answerRequest struct {
	QuestionIndex *int   `json:"question_index"`
	Answer        string `json:"answer"`
}

type resultsResponse struct {
	QuizID           string  `json:"quiz_id"`
	Score            int     `json:"score"`
	Total            int     `json:"total"`
	Percentage       float64 `json:"percentage"`
	Summary          string  `json:"summary"`
	Passed           bool    `json:"passed"`
	Perfect          bool    `json:"perfect"`
	IncorrectIndices []int   `json:"incorrect_indices"`
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "quiz-app",
		"status":  "ok",
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	size, err := h.service.Size(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"quizzes": size,
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, questions, ok := h.decodeQuizRequest(w, r)
	if !ok {
		return
	}

	quiz, err := h.service.Create(r.Context(), req.Title, req.TimeLimitSeconds, questions)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, summarize(quiz))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.Get(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail(quiz))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.service.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	summaries := make([]quizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, summarize(quiz))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"quizzes": summaries,
		"count":   len(summaries),
	})
}

func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request) {
	req, questions, ok := h.decodeQuizRequest(w, r)
	if !ok {
		return
	}

	quiz, err := h.service.Replace(r.Context(), chi.URLParam(r, "quizID"), req.Title, req.TimeLimitSeconds, questions)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(quiz))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "quizID")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "quiz deleted"})
}

func (h *Handler) handleClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearAll(r.Context()); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "all quizzes deleted"})
}

func (h *Handler) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionIndex == nil {
		writeError(w, http.StatusUnprocessableEntity, "question_index is required")
		return
	}

	feedback, err := h.service.SubmitAnswer(r.Context(), chi.URLParam(r, "quizID"), *req.QuestionIndex, req.Answer)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	results, err := h.service.Results(r.Context(), quizID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{
		QuizID:           quizID,
		Score:            results.Result.Score,
		Total:            results.Result.Total,
		Percentage:       results.Result.Percentage,
		Summary:          results.Result.Summary(),
		Passed:           results.Passed,
		Perfect:          results.Perfect,
		IncorrectIndices: results.IncorrectIndices,
	})
}

// decodeQuizRequest parses and validates the shared create/replace payload.
// Title must be non-empty after trimming; question text validation happens in
// the domain constructors and surfaces as 422 through writeServiceError.
func (h *Handler) decodeQuizRequest(w http.ResponseWriter, r *http.Request) (quizRequest, []domain.Question, bool) {
	var req quizRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return quizRequest{}, nil, false
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusUnprocessableEntity, "title must not be empty")
		return quizRequest{}, nil, false
	}

	questions := make([]domain.Question, 0, len(req.Questions))
	for _, p := range req.Questions {
		questions = append(questions, domain.Question{
			Text:          p.Text,
			Options:       p.Options,
			CorrectAnswer: p.CorrectAnswer,
			Difficulty:    p.Difficulty,
			Category:      p.Category,
		})
	}
	return req, questions, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		writeError(w, http.StatusNotFound, "quiz not found")
	case errors.Is(err, domain.ErrAnswerIndexOutOfRange):
		writeError(w, http.StatusBadRequest, "question index out of range")
	case errors.Is(err, domain.ErrQuestionTextEmpty):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func summarize(quiz *domain.Quiz) quizSummary {
	return quizSummary{
		QuizID:           quiz.ID,
		Title:            quiz.Title,
		QuestionCount:    len(quiz.Questions),
		TimeLimitSeconds: quiz.TimeLimitSeconds,
	}
}

func detail(quiz *domain.Quiz) quizDetail {
	questions := quiz.Questions
	if questions == nil {
		questions = []domain.Question{}
	}
	return quizDetail{
		quizSummary: summarize(quiz),
		Questions:   questions,
		Answers:     quiz.Answers,
	}
}

func requestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
