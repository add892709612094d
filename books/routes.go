package books

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qolzam/bookcatalog/books/handlers"
	"github.com/qolzam/bookcatalog/internal/middleware/authjwt"
	"github.com/qolzam/bookcatalog/internal/middleware/authrole"
	"github.com/qolzam/bookcatalog/internal/middleware/constraints"
	platformconfig "github.com/qolzam/bookcatalog/internal/platform/config"
	"github.com/qolzam/bookcatalog/internal/types"
)

// BooksHandlers holds all the handlers this router needs.
type BooksHandlers struct {
	BookHandler *handlers.BookHandler
}

// RegisterRoutes mounts the books API under the configured base route.
// Reads are public; writes need a valid token.
func RegisterRoutes(app *fiber.App, h *BooksHandlers, cfg *platformconfig.Config) {
	auth := authjwt.New(authjwt.Config{
		PublicKey: cfg.JWT.PublicKey,
		Issuer:    cfg.JWT.Issuer,
		Audience:  cfg.JWT.Audience,
	})
	mount(app.Group(cfg.Server.BaseRoute+"/books"), h, auth)
}

func mount(group fiber.Router, h *BooksHandlers, auth fiber.Handler) {
	requireID := constraints.RequireID("id")

	group.Get("/", h.BookHandler.ListBooks)
	group.Get("/:id", requireID, h.BookHandler.GetBook)

	group.Post("/", auth, authrole.RequireRole(types.AdminRole, types.AuthorRole), h.BookHandler.CreateBook)
	group.Put("/:id", requireID, auth, h.BookHandler.UpdateBook)
	group.Delete("/:id", requireID, auth, h.BookHandler.DeleteBook)
}
