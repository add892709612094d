package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"

	"github.com/qolzam/bookcatalog/books/errors"
	"github.com/qolzam/bookcatalog/books/models"
	"github.com/qolzam/bookcatalog/books/services"
	"github.com/qolzam/bookcatalog/books/validation"
	"github.com/qolzam/bookcatalog/internal/types"
)

// BookHandler handles all book-related HTTP requests
type BookHandler struct {
	bookService services.BookService
	decoder     *schema.Decoder
}

// NewBookHandler creates a new BookHandler with injected dependencies
func NewBookHandler(bookService services.BookService) *BookHandler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &BookHandler{bookService: bookService, decoder: decoder}
}

// ListBooks handles GET /books with dsql, field filters and pagination
func (h *BookHandler) ListBooks(c *fiber.Ctx) error {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid query string")
	}

	filter := &models.BookFilter{}
	if err := h.decoder.Decode(filter, values); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid query parameters: "+err.Error())
	}

	if err := validation.ValidateBookFilter(filter); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	result, err := h.bookService.ListBooks(c.UserContext(), filter)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// GetBook handles GET /books/:id
func (h *BookHandler) GetBook(c *fiber.Ctx) error {
	id, ok := bookID(c)
	if !ok {
		return errors.HandleIDError(c, c.Params("id"))
	}

	book, err := h.bookService.GetBook(c.UserContext(), id)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	if book == nil {
		return errors.HandleNotFoundError(c, id)
	}
	return c.JSON(book)
}

// CreateBook handles POST /books. The caller's username is recorded as creator.
func (h *BookHandler) CreateBook(c *fiber.Ctx) error {
	var req models.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if err := validation.ValidateBookRequest(&req); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	book, err := h.bookService.AddBook(c.UserContext(), &req, user.Username)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(book)
}

// UpdateBook handles PUT /books/:id. Admins may update any book, others
// only books they own.
func (h *BookHandler) UpdateBook(c *fiber.Ctx) error {
	id, ok := bookID(c)
	if !ok {
		return errors.HandleIDError(c, c.Params("id"))
	}

	var req models.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}
	if err := validation.ValidateBookRequest(&req); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	if done, err := h.authorize(c, id); done {
		return err
	}

	updated, err := h.bookService.UpdateBook(c.UserContext(), id, &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	if !updated {
		return errors.HandleNotFoundError(c, id)
	}

	book, err := h.bookService.GetBook(c.UserContext(), id)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	if book == nil {
		return errors.HandleNotFoundError(c, id)
	}
	return c.JSON(book)
}

// DeleteBook handles DELETE /books/:id with the same policy as UpdateBook
func (h *BookHandler) DeleteBook(c *fiber.Ctx) error {
	id, ok := bookID(c)
	if !ok {
		return errors.HandleIDError(c, c.Params("id"))
	}

	if done, err := h.authorize(c, id); done {
		return err
	}

	deleted, err := h.bookService.DeleteBook(c.UserContext(), id)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	if !deleted {
		return errors.HandleNotFoundError(c, id)
	}
	return c.SendStatus(http.StatusNoContent)
}

// authorize writes the rejection response and reports done=true when the
// caller may not modify book id.
func (h *BookHandler) authorize(c *fiber.Ctx, id int64) (bool, error) {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return true, errors.HandleUserContextError(c, "Invalid user context")
	}

	ownership, err := h.bookService.CheckOwnership(c.UserContext(), id, user.Username)
	if err != nil {
		return true, errors.HandleServiceError(c, err)
	}

	switch ownership {
	case models.OwnershipNotFound:
		return true, errors.HandleNotFoundError(c, id)
	case models.OwnershipNotOwner:
		if !user.IsAdmin() {
			return true, errors.HandlePermissionError(c, "Only the book's author or an admin can modify it")
		}
	}
	return false, nil
}

func bookID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
