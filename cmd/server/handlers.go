package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"examtrainer"
	"examtrainer/export"
	"examtrainer/parse"
	"examtrainer/quiz"
	"examtrainer/store"
)

type handler struct {
	cfg      examtrainer.Config
	pipeline *examtrainer.Pipeline
	store    *store.Store
	attempts *store.Attempts
	sessions *quiz.Manager
	tokens   *tokenStore
	validate *validator.Validate
}

func newHandler(cfg examtrainer.Config, pipeline *examtrainer.Pipeline, attempts *store.Attempts, tokens *tokenStore) *handler {
	validate := validator.New()
	validate.RegisterValidation("answerletters", validAnswerLetters)

	return &handler{
		cfg:      cfg,
		pipeline: pipeline,
		store:    pipeline.Store(),
		attempts: attempts,
		sessions: quiz.NewManager(),
		tokens:   tokens,
		validate: validate,
	}
}

// answerLettersRe matches the answer format questions carry: a single
// option letter or a comma-separated list ("B", "A,C", "a, c").
var answerLettersRe = regexp.MustCompile(`^[A-Za-z]([ ]*,[ ]*[A-Za-z])*$`)

func validAnswerLetters(fl validator.FieldLevel) bool {
	return answerLettersRe.MatchString(fl.Field().String())
}

// POST /login
// Exchanges the app password for an API token. With no password
// configured, any login succeeds.
func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if h.cfg.Password != "" && req.Password != h.cfg.Password {
		writeError(w, http.StatusUnauthorized, "wrong password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": h.tokens.issue()})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// GET /exams
func (h *handler) handleListExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list exams")
		slog.Error("list exams error", "error", err)
		return
	}

	stats := make([]store.ExamStats, 0, len(exams))
	for _, exam := range exams {
		st, err := h.store.Stats(exam)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list exams")
			slog.Error("exam stats error", "exam", exam, "error", err)
			return
		}
		stats = append(stats, st)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exams": stats,
	})
}

// POST /exams
// Multipart upload: an "exam" name, an optional "append" flag, and one
// or more PDFs under "files". Source names derive from the uploaded
// filenames.
func (h *handler) handleCreateExam(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(100 << 20); err != nil { // 100MB max
		writeError(w, http.StatusBadRequest, "expected multipart form upload")
		return
	}

	exam := r.FormValue("exam")
	if exam == "" {
		writeError(w, http.StatusBadRequest, "exam is required")
		return
	}
	if !store.ValidExamName(exam) {
		writeError(w, http.StatusBadRequest, "invalid exam name")
		return
	}
	appendMode := r.FormValue("append") == "true" || r.FormValue("append") == "1"

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "at least one file is required")
		return
	}

	// Stage the uploads in a temp directory under their original
	// (sanitised) filenames.
	tmpDir, err := os.MkdirTemp("", "examtrainer-upload-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process upload")
		slog.Error("creating temp dir", "error", err)
		return
	}
	defer os.RemoveAll(tmpDir)

	paths := make([]string, 0, len(files))
	for _, header := range files {
		safeName := filepath.Base(header.Filename)

		src, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read upload")
			slog.Error("opening upload", "file", safeName, "error", err)
			return
		}

		tmpPath := filepath.Join(tmpDir, safeName)
		dst, err := os.Create(tmpPath)
		if err != nil {
			src.Close()
			writeError(w, http.StatusInternalServerError, "failed to save file")
			slog.Error("creating temp file", "error", err)
			return
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			src.Close()
			writeError(w, http.StatusInternalServerError, "failed to save file")
			slog.Error("saving uploaded file", "file", safeName, "error", err)
			return
		}
		dst.Close()
		src.Close()
		paths = append(paths, tmpPath)
	}

	batch, err := h.pipeline.IngestBatch(ctx, exam, paths, appendMode)
	if errors.Is(err, examtrainer.ErrNoQuestions) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "no questions found in the uploaded documents",
			"result": batch,
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ingestion failed")
		slog.Error("ingest error", "exam", exam, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, batch)
}

// GET /exams/{exam}
// Returns one page of the collection; ?page=N selects the page.
func (h *handler) handleGetExam(w http.ResponseWriter, r *http.Request) {
	exam := r.PathValue("exam")
	if !h.store.Exists(exam) {
		writeError(w, http.StatusNotFound, "exam not found")
		return
	}

	questions, err := h.store.Load(exam)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load exam")
		slog.Error("load exam error", "exam", exam, "error", err)
		return
	}

	page := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			page = n
		}
	}

	start, end := quiz.PageBounds(page, h.cfg.QuestionsPerPage, len(questions))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exam":        exam,
		"page":        page,
		"total_pages": quiz.TotalPages(len(questions), h.cfg.QuestionsPerPage),
		"total":       len(questions),
		"questions":   questions[start:end],
	})
}

// DELETE /exams/{exam}
func (h *handler) handleDeleteExam(w http.ResponseWriter, r *http.Request) {
	exam := r.PathValue("exam")

	if err := h.store.Delete(exam); err != nil {
		switch {
		case errors.Is(err, store.ErrExamNotFound):
			writeError(w, http.StatusNotFound, "exam not found")
		case errors.Is(err, store.ErrInvalidExam):
			writeError(w, http.StatusBadRequest, "invalid exam name")
		default:
			writeError(w, http.StatusInternalServerError, "delete failed")
			slog.Error("delete exam error", "exam", exam, "error", err)
		}
		return
	}

	// Attempt history follows the exam.
	if err := h.attempts.DeleteByExam(r.Context(), exam); err != nil {
		slog.Error("deleting attempt history", "exam", exam, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /exams/{exam}/stats
func (h *handler) handleExamStats(w http.ResponseWriter, r *http.Request) {
	exam := r.PathValue("exam")
	if !h.store.Exists(exam) {
		writeError(w, http.StatusNotFound, "exam not found")
		return
	}

	collection, err := h.store.Stats(exam)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		slog.Error("exam stats error", "exam", exam, "error", err)
		return
	}
	history, err := h.attempts.StatsByExam(r.Context(), exam)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		slog.Error("attempt stats error", "exam", exam, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"collection": collection,
		"attempts":   history,
	})
}

type editQuestionRequest struct {
	SourceNumber         string        `json:"source_document_number"`
	PageNumber           int           `json:"page_number" validate:"gte=0"`
	Type                 string        `json:"question_type" validate:"required,oneof=multiple_choice_single multiple_choice_multiple yes_no image_selection drag_and_drop input_text"`
	Stem                 string        `json:"stem" validate:"required"`
	Choices              parse.Choices `json:"choices"`
	AuthoritativeAnswer  string        `json:"authoritative_answer" validate:"omitempty,answerletters"`
	CommunityAnswer      string        `json:"community_answer" validate:"omitempty,answerletters"`
	AIAnswer             string        `json:"ai_answer" validate:"omitempty,answerletters"`
	CommunityExplanation string        `json:"community_explanation"`
	AIExplanation        string        `json:"ai_explanation"`
}

// PUT /exams/{exam}/questions/{id}
// Replaces one question's editable fields. The stored id, source name
// and image list survive the edit.
func (h *handler) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	exam := r.PathValue("exam")
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	var req editQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("validation failed: %v", err))
		return
	}

	updated := parse.Question{
		SourceNumber:         req.SourceNumber,
		PageNumber:           req.PageNumber,
		Type:                 req.Type,
		Stem:                 req.Stem,
		Choices:              req.Choices,
		AuthoritativeAnswer:  req.AuthoritativeAnswer,
		CommunityAnswer:      req.CommunityAnswer,
		AIAnswer:             req.AIAnswer,
		CommunityExplanation: req.CommunityExplanation,
		AIExplanation:        req.AIExplanation,
	}

	if err := h.store.UpdateQuestion(exam, id, updated); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidExam):
			writeError(w, http.StatusBadRequest, "invalid exam name")
		case errors.Is(err, store.ErrExamNotFound):
			writeError(w, http.StatusNotFound, "exam not found")
		case errors.Is(err, store.ErrQuestionNotFound):
			writeError(w, http.StatusNotFound, "question not found")
		default:
			writeError(w, http.StatusInternalServerError, "update failed")
			slog.Error("update question error", "exam", exam, "question_id", id, "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// GET /exams/{exam}/images/{name}
func (h *handler) handleImage(w http.ResponseWriter, r *http.Request) {
	exam := r.PathValue("exam")
	if !h.store.Exists(exam) {
		writeError(w, http.StatusNotFound, "exam not found")
		return
	}

	path := h.store.ImagePath(exam, r.PathValue("name"))
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	http.ServeFile(w, r, path)
}

// POST /exams/{exam}/quiz
func (h *handler) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	exam := r.PathValue("exam")
	if !h.store.Exists(exam) {
		writeError(w, http.StatusNotFound, "exam not found")
		return
	}

	questions, err := h.store.Load(exam)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load exam")
		slog.Error("load exam error", "exam", exam, "error", err)
		return
	}
	if len(questions) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "exam has no questions")
		return
	}

	session := h.sessions.Start(exam)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":     session,
		"total":       len(questions),
		"total_pages": quiz.TotalPages(len(questions), h.cfg.QuestionsPerPage),
	})
}

// GET /quiz/{token}
// Returns the session with the current page of questions; ?page=N
// moves the cursor first.
func (h *handler) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if err := h.sessions.SetPage(token, n); err != nil {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}
		}
	}

	session, err := h.sessions.Get(token)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	questions, err := h.store.Load(session.Exam)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load exam")
		slog.Error("load exam error", "exam", session.Exam, "error", err)
		return
	}

	start, end := quiz.PageBounds(session.Page, h.cfg.QuestionsPerPage, len(questions))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":     session,
		"questions":   questions[start:end],
		"total":       len(questions),
		"total_pages": quiz.TotalPages(len(questions), h.cfg.QuestionsPerPage),
	})
}

// PUT /quiz/{token}/answers
func (h *handler) handleSaveAnswers(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	var req struct {
		Answers map[int]string `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.sessions.SaveAnswers(token, req.Answers); err != nil {
		if errors.Is(err, quiz.ErrSessionSubmitted) {
			writeError(w, http.StatusConflict, "session already submitted")
			return
		}
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// POST /quiz/{token}/submit
// Grades the session against its exam, records the attempt, and ends
// the session.
func (h *handler) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	session, err := h.sessions.Submit(token)
	if err != nil {
		if errors.Is(err, quiz.ErrSessionSubmitted) {
			writeError(w, http.StatusConflict, "session already submitted")
			return
		}
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	questions, err := h.store.Load(session.Exam)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load exam")
		slog.Error("load exam error", "exam", session.Exam, "error", err)
		return
	}

	result := quiz.Grade(questions, session.Answers, h.cfg.PassThreshold)

	attemptID, err := h.attempts.Record(r.Context(), store.Attempt{
		Exam:       session.Exam,
		Score:      result.Score,
		Total:      result.Total,
		Percentage: result.Percentage,
		Passed:     result.Passed,
	}, result.Answers)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record attempt")
		slog.Error("record attempt error", "exam", session.Exam, "error", err)
		return
	}

	h.sessions.End(token)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attempt_id": attemptID,
		"result":     result,
	})
}

// GET /exams/{exam}/attempts
func (h *handler) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	exam := r.PathValue("exam")

	attempts, err := h.attempts.ListByExam(r.Context(), exam)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list attempts")
		slog.Error("list attempts error", "exam", exam, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attempts": attempts,
	})
}

// GET /attempts/{id}
func (h *handler) handleGetAttempt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	attempt, answers, err := h.attempts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrAttemptNotFound) {
			writeError(w, http.StatusNotFound, "attempt not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load attempt")
		slog.Error("get attempt error", "attempt_id", id, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attempt": attempt,
		"answers": answers,
	})
}

// DELETE /attempts/{id}
func (h *handler) handleDeleteAttempt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.attempts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrAttemptNotFound) {
			writeError(w, http.StatusNotFound, "attempt not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "delete failed")
		slog.Error("delete attempt error", "attempt_id", id, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /exams/{exam}/export/questions.csv
func (h *handler) handleExportQuestionsCSV(w http.ResponseWriter, r *http.Request) {
	exam := r.PathValue("exam")
	questions, ok := h.loadForExport(w, exam)
	if !ok {
		return
	}

	data, err := export.QuestionsCSV(questions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		slog.Error("export error", "exam", exam, "error", err)
		return
	}
	serveDownload(w, exam+"_questions.csv", "text/csv", data)
}

// GET /exams/{exam}/export/questions.xlsx
func (h *handler) handleExportQuestionsXLSX(w http.ResponseWriter, r *http.Request) {
	exam := r.PathValue("exam")
	questions, ok := h.loadForExport(w, exam)
	if !ok {
		return
	}

	data, err := export.QuestionsXLSX(questions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		slog.Error("export error", "exam", exam, "error", err)
		return
	}
	serveDownload(w, exam+"_questions.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// GET /exams/{exam}/export/attempts.csv
func (h *handler) handleExportAttemptsCSV(w http.ResponseWriter, r *http.Request) {
	exam := r.PathValue("exam")

	attempts, err := h.attempts.ListByExam(r.Context(), exam)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		slog.Error("export error", "exam", exam, "error", err)
		return
	}

	data, err := export.AttemptsCSV(attempts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		slog.Error("export error", "exam", exam, "error", err)
		return
	}
	serveDownload(w, exam+"_attempts.csv", "text/csv", data)
}

// loadForExport loads an exam's collection, writing the error response
// itself when the exam is missing or unreadable.
func (h *handler) loadForExport(w http.ResponseWriter, exam string) ([]parse.Question, bool) {
	if !h.store.Exists(exam) {
		writeError(w, http.StatusNotFound, "exam not found")
		return nil, false
	}
	questions, err := h.store.Load(exam)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load exam")
		slog.Error("load exam error", "exam", exam, "error", err)
		return nil, false
	}
	return questions, true
}

// serveDownload writes raw bytes as a named file attachment.
func serveDownload(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
