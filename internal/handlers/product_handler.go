package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"bistro/internal/services"
	"bistro/internal/validation"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service *services.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the public catalog routes and, behind gate, the admin mutations.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, gate ...fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/list", h.HandleList)
	productRoutes.Get("/details/:id", h.HandleDetails)
	productRoutes.Get("/search", h.HandleSearch)
	productRoutes.Post("/create", guarded(gate, h.HandleCreate)...)
	productRoutes.Put("/edit/:id", guarded(gate, h.HandleUpdate)...)

	router.Post("/admin/create/product", guarded(gate, h.HandleCreate)...)
	router.Put("/admin/edit/:id", guarded(gate, h.HandleUpdate)...)
	router.Patch("/admin/update/:id", guarded(gate, h.HandleUpdate)...)
	router.Delete("/admin/delete/product/:id", guarded(gate, h.HandleDelete)...)
}

// HandleList retrieves all products.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list products")
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleDetails retrieves a single product by its ID.
func (h *ProductHandler) HandleDetails(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid ID", err)
	}
	product, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleSearch filters products by name, category, price range and stock.
func (h *ProductHandler) HandleSearch(c *fiber.Ctx) error {
	filter, err := services.TranslateFilters(c.Queries())
	if err != nil {
		return respondError(c, err)
	}
	products, err := h.service.Search(c.UserContext(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to search products")
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleCreate creates a product after schema validation.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var input validation.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	product, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

// HandleUpdate merges the supplied fields over a stored product. It serves both the full edit
// and the partial update routes.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid ID", err)
	}

	var patch services.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	product, err := h.service.Update(c.UserContext(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

// HandleDelete removes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid ID", err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}
