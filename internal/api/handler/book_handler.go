package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/diwanhq/diwan/internal/core/ports"
)

// BookHandler handles HTTP requests for the correspondence registry.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// Create handles POST /v1/books.
//
// @Summary      Register a new book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book details"
// @Success      201   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      413   {object}  errorResponse
// @Router       /v1/books [post]
func (h *BookHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.service.Create(c.Request().Context(), ports.CreateBookInput{
		OwnerID: claims.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Number:  req.Number,
		Date:    req.Date,
		Entity:  req.Entity,
		Subject: req.Subject,
		File:    toFileInput(req.File),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toBookResponse(book))
}

// Get handles GET /v1/books/:id.
//
// @Summary      Get a book by id
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  bookResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	// Admins may read any user's record; everyone else is owner-scoped.
	ownerID := claims.UserID
	if claims.Role.CanManageUsers() {
		ownerID = ""
	}

	book, err := h.service.Get(c.Request().Context(), ownerID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Update handles PUT /v1/books/:id.
//
// @Summary      Replace a book by id
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Book id"
// @Param        body  body      bookRequest  true  "Replacement book fields"
// @Success      200   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      413   {object}  errorResponse
// @Router       /v1/books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.service.Update(c.Request().Context(), ports.UpdateBookInput{
		ID:      c.Param("id"),
		OwnerID: claims.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Number:  req.Number,
		Date:    req.Date,
		Entity:  req.Entity,
		Subject: req.Subject,
		File:    toFileInput(req.File),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Delete handles DELETE /v1/books/:id. Deleting an unknown id succeeds.
//
// @Summary      Delete a book by id
// @Tags         books
// @Security     BearerAuth
// @Param        id  path  string  true  "Book id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /v1/books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), claims.UserID, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/books.
//
// @Summary      List the caller's books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        type   query     string  false  "Narrow by direction (incoming|outgoing)"
// @Param        q      query     string  false  "Case-insensitive substring search"
// @Param        page   query     int     false  "1-based page"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  listBooksResponse
// @Failure      400    {object}  errorResponse
// @Router       /v1/books [get]
func (h *BookHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return h.list(c, claims.UserID)
}

// ListForUser handles GET /v1/users/:id/books (admin only).
//
// @Summary      List another user's books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Owner user id"
// @Param        type   query     string  false  "Narrow by direction (incoming|outgoing)"
// @Param        q      query     string  false  "Case-insensitive substring search"
// @Param        page   query     int     false  "1-based page"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  listBooksResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/users/{id}/books [get]
func (h *BookHandler) ListForUser(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}
	return h.list(c, c.Param("id"))
}

func (h *BookHandler) list(c echo.Context, ownerID string) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListBooksInput{
		OwnerID: ownerID,
		Type:    c.QueryParam("type"),
		Search:  c.QueryParam("q"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listBooksResponse{
		Data: toBookResponses(result.Items),
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Stats handles GET /v1/books/stats.
//
// @Summary      Dashboard aggregates for the caller's registry
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  bookStatsResponse
// @Router       /v1/books/stats [get]
func (h *BookHandler) Stats(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bookStatsResponse{
		Total:           stats.Total,
		Incoming:        stats.Incoming,
		Outgoing:        stats.Outgoing,
		RecentWithFiles: toBookResponses(stats.RecentWithFiles),
	})
}
