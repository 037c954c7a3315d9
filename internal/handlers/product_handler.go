package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ProductHandler handles HTTP requests for products.
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

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts lists products, optionally filtered by name, category,
// availability and price. Filters combine.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return err
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return fmt.Errorf("could not list products: %w", err)
	}

	results := make([]map[string]any, 0, len(products))
	for _, p := range products {
		results = append(results, p.Serialize())
	}
	h.logger.Debug().Int("count", len(results)).Msg("listed products")
	return c.JSON(results)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(product.Serialize())
}

// HandleCreateProduct creates a new product from a JSON body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	if err := requireJSON(c); err != nil {
		return err
	}

	var product models.Product
	if err := product.Deserialize(c.Body()); err != nil {
		return err
	}

	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return fmt.Errorf("could not create product: %w", err)
	}

	h.logger.Info().Uint("product_id", product.ID).Str("name", product.Name).Msg("product created")
	c.Location(fmt.Sprintf("%s/products/%d", c.BaseURL(), product.ID))
	return c.Status(fiber.StatusCreated).JSON(product.Serialize())
}

// HandleUpdateProduct replaces the business fields of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	if err := requireJSON(c); err != nil {
		return err
	}

	if err := product.Deserialize(c.Body()); err != nil {
		return err
	}

	if err := h.service.UpdateProduct(c.UserContext(), product); err != nil {
		return fmt.Errorf("could not update product %d: %w", id, err)
	}

	h.logger.Info().Uint("product_id", product.ID).Msg("product updated")
	return c.JSON(product.Serialize())
}

// HandleDeleteProduct deletes a product. Deleting a missing product still
// answers 204.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return fmt.Errorf("could not delete product %d: %w", id, err)
	}

	h.logger.Info().Uint("product_id", id).Msg("product deleted")
	return c.SendStatus(fiber.StatusNoContent)
}

// requireJSON rejects requests whose Content-Type is not JSON or whose body
// is not well-formed JSON.
func requireJSON(c *fiber.Ctx) error {
	if !c.Is("json") {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "Content-Type must be application/json")
	}
	if body := c.Body(); len(body) > 0 && !json.Valid(body) {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "Request body is not valid JSON")
	}
	return nil
}

// productID parses the :id route parameter. An id that cannot name a
// product is reported as not found.
func productID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("product with ID %q: %w", raw, models.ErrProductNotFound)
	}
	return uint(id), nil
}

func parseProductFilter(c *fiber.Ctx) (models.ProductFilter, error) {
	var filter models.ProductFilter

	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}

	if raw := c.Query("category"); raw != "" {
		category, err := models.ParseCategory(strings.ToUpper(raw))
		if err != nil {
			return filter, models.NewValidationError("Invalid category filter", err)
		}
		filter.Category = &category
	}

	if raw := c.Query("available"); raw != "" {
		available := false
		switch strings.ToLower(raw) {
		case "true", "yes", "1":
			available = true
		}
		filter.Available = &available
	}

	if raw := c.Query("price"); raw != "" {
		price, err := models.ParsePrice(raw)
		if err != nil {
			return filter, err
		}
		filter.Price = &price
	}

	return filter, nil
}
