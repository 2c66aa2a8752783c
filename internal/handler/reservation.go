package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/uniseats/lecture-seat-reservation/internal/catalog"
	"github.com/uniseats/lecture-seat-reservation/internal/seatmap"
	"github.com/uniseats/lecture-seat-reservation/internal/service"
)

// ReservationHandler exposes the reservation service over HTTP: the
// per-lecture seat board, the reserve command and the admin
// delete/restore overrides.  Authorization beyond "has a session" is the
// service's job; the handler only translates outcomes to status codes.
type ReservationHandler struct {
	Svc     *service.Service
	Catalog *catalog.Catalog
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc *service.Service, cat *catalog.Catalog) *ReservationHandler {
	if svc == nil || cat == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc, Catalog: cat}
}

type sessionDTO struct {
	ID       uint64 `json:"id"`
	Date     string `json:"date"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Seats    int    `json:"seats"`
}

type sessionViewDTO struct {
	Session    sessionDTO    `json:"session"`
	Rows       []seatmap.Row `json:"rows"`
	Registered bool          `json:"registered"`
}

// ListLectures handles GET /v1/lectures, the public course index.
func (h *ReservationHandler) ListLectures(c echo.Context) error {
	lectures := h.Catalog.Lectures()
	items := make([]echo.Map, 0, len(lectures))
	for _, l := range lectures {
		items = append(items, echo.Map{"id": l.ID, "title": l.Title, "lecturer": l.Lecturer})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// LectureBoard handles GET /v1/lectures/:lecture/sessions.  It returns
// the viewer's reservation board: every visible session with its
// projected seat rows.  Non-admins only ever see their own rows and only
// today's sessions; admins see every row across the configured window.
func (h *ReservationHandler) LectureBoard(c echo.Context) error {
	viewer, err := viewerFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	views, err := h.Svc.LectureBoard(c.Request().Context(), c.Param("lecture"), viewer)
	if err != nil {
		return serviceError(c, err)
	}
	items := make([]sessionViewDTO, 0, len(views))
	for _, v := range views {
		items = append(items, sessionViewDTO{
			Session: sessionDTO{
				ID:       v.Session.ID,
				Date:     v.Session.Date.Format(time.DateOnly),
				Title:    v.Session.Title,
				Location: v.Session.Location,
				Seats:    v.Session.Seats,
			},
			Rows:       v.Rows,
			Registered: v.Registered,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

type reserveReq struct {
	// Name lets an admin register someone else; ignored for non-admins.
	Name string `json:"name"`
}

// Reserve handles POST /v1/sessions/:id/reserve.  A repeat reserve for an
// already-registered identity is reported as success: the desired end
// state (one active registration) already holds.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	viewer, err := viewerFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || sessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Svc.Reserve(c.Request().Context(), sessionID, viewer, req.Name); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "seat reserved"})
}

type overrideReq struct {
	Identity string `json:"identity"`
}

// Delete handles POST /v1/sessions/:id/delete (admin).  The row keeps its
// ledger slot; later seat numbers do not shift.
func (h *ReservationHandler) Delete(c echo.Context) error {
	return h.override(c, true)
}

// Restore handles POST /v1/sessions/:id/restore (admin).  The row gets
// back exactly the seat number its ledger position implies.
func (h *ReservationHandler) Restore(c echo.Context) error {
	return h.override(c, false)
}

func (h *ReservationHandler) override(c echo.Context, deleted bool) error {
	viewer, err := viewerFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || sessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req overrideReq
	if err := c.Bind(&req); err != nil || req.Identity == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identity is required"})
	}
	if deleted {
		err = h.Svc.Delete(c.Request().Context(), sessionID, viewer, req.Identity)
	} else {
		err = h.Svc.Restore(c.Request().Context(), sessionID, viewer, req.Identity)
	}
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}
