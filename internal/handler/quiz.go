package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uniseats/lecture-seat-reservation/internal/catalog"
	"github.com/uniseats/lecture-seat-reservation/internal/repository"
)

// QuizHandler serves the anonymous self-assessment quiz of a lecture.
// Statements come from the catalog; submissions are stored without any
// identity, so the endpoints deliberately sit outside the session
// middleware.
type QuizHandler struct {
	Catalog *catalog.Catalog
	Answers *repository.QuizRepo
}

// NewQuizHandler constructs a QuizHandler.
func NewQuizHandler(cat *catalog.Catalog, answers *repository.QuizRepo) *QuizHandler {
	if cat == nil || answers == nil {
		panic("nil dependency passed to NewQuizHandler")
	}
	return &QuizHandler{Catalog: cat, Answers: answers}
}

// Get handles GET /v1/lectures/:lecture/quiz.  It returns the statement
// texts only; the truth values stay on the server until a submission
// comes back.
func (h *QuizHandler) Get(c echo.Context) error {
	lectureID := c.Param("lecture")
	if _, err := h.Catalog.Lecture(lectureID); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lecture"})
	}
	statements := h.Catalog.Quiz(lectureID)
	if len(statements) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "lecture has no quiz"})
	}
	texts := make([]string, 0, len(statements))
	for _, s := range statements {
		texts = append(texts, s.Text)
	}
	return c.JSON(http.StatusOK, echo.Map{"statements": texts})
}

type quizSubmitReq struct {
	Answers []bool `json:"answers"`
}

// Submit handles POST /v1/lectures/:lecture/quiz.  The submission must
// answer every statement.  Answers are recorded anonymously; the response
// grades the submission so the student gets immediate feedback.
func (h *QuizHandler) Submit(c echo.Context) error {
	lectureID := c.Param("lecture")
	if _, err := h.Catalog.Lecture(lectureID); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lecture"})
	}
	statements := h.Catalog.Quiz(lectureID)
	if len(statements) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "lecture has no quiz"})
	}
	var req quizSubmitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Answers) != len(statements) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "answer every statement"})
	}
	if err := h.Answers.RecordAnswers(c.Request().Context(), lectureID, req.Answers); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "temporary failure, please retry"})
	}
	correct := 0
	truths := make([]bool, 0, len(statements))
	for i, s := range statements {
		truths = append(truths, s.Truth)
		if req.Answers[i] == s.Truth {
			correct++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"correct": correct,
		"total":   len(statements),
		"truths":  truths,
	})
}

// Tally handles GET /v1/lectures/:lecture/quiz/tally (admin).  It returns
// the aggregate true/false counts per statement, never individual
// submissions.
func (h *QuizHandler) Tally(c echo.Context) error {
	lectureID := c.Param("lecture")
	if _, err := h.Catalog.Lecture(lectureID); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lecture"})
	}
	tallies, err := h.Answers.Tally(c.Request().Context(), lectureID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "temporary failure, please retry"})
	}
	items := make([]echo.Map, 0, len(tallies))
	for _, t := range tallies {
		items = append(items, echo.Map{"statement": t.Statement, "true": t.True, "false": t.False})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}
