package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"edeng/internal/domain"
	applog "edeng/internal/log"
	"edeng/internal/services"
	"edeng/internal/validate"
)

type JewelHandler struct {
	Catalog *services.CatalogService
}

func (h *JewelHandler) List(c *fiber.Ctx) error {
	f := domain.JewelFilter{
		MaxPrice: validate.Price(c.Query("maxPrice")),
		Type:     c.Query("type"),
	}
	if txt, ok := validate.Txt(c.Query("txt")); ok {
		f.Txt = txt
	}
	if d := c.Query("designed"); d != "" {
		designed, err := strconv.ParseBool(d)
		if err != nil {
			return badRequest(c, "designed must be a boolean")
		}
		f.Designed = &designed
	}

	jewels, err := h.Catalog.Query(c.Context(), f)
	if err != nil {
		return fail(c, "jewel.query", err)
	}
	return c.JSON(jewels)
}

func (h *JewelHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("jewelId"))
	if !ok {
		return badRequest(c, "invalid jewel id")
	}
	j, err := h.Catalog.Get(c.Context(), id)
	if err != nil {
		return fail(c, "jewel.get", err)
	}
	return c.JSON(j)
}

// Create inserts a new jewel owned by the logged-in user.
func (h *JewelHandler) Create(c *fiber.Ctx) error {
	var j domain.Jewel
	if err := c.BodyParser(&j); err != nil {
		return badRequest(c, "malformed jewel")
	}
	j.ID = primitive.NilObjectID
	j.Owner = ""

	saved, err := h.Catalog.Save(c.Context(), j, caller(c))
	if err != nil {
		return fail(c, "jewel.add", err)
	}
	applog.Audit(c, "jewel.add", map[string]any{"id": saved.ID.Hex(), "vendor": saved.Vendor})
	return c.JSON(saved)
}

func (h *JewelHandler) Update(c *fiber.Ctx) error {
	var j domain.Jewel
	if err := c.BodyParser(&j); err != nil {
		return badRequest(c, "malformed jewel")
	}
	if j.ID.IsZero() {
		return badRequest(c, "missing jewel id")
	}

	saved, err := h.Catalog.Save(c.Context(), j, caller(c))
	if err != nil {
		return fail(c, "jewel.update", err)
	}
	applog.Audit(c, "jewel.update", map[string]any{"id": saved.ID.Hex()})
	return c.JSON(saved)
}

func (h *JewelHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("jewelId"))
	if !ok {
		return badRequest(c, "invalid jewel id")
	}
	if err := h.Catalog.Remove(c.Context(), id, caller(c)); err != nil {
		return fail(c, "jewel.delete", err)
	}
	applog.Audit(c, "jewel.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"msg": "Jewel successfully deleted", "jewelId": id})
}

// Decrease is called after a purchase to take sold units off the shelf.
func (h *JewelHandler) Decrease(c *fiber.Ctx) error {
	var body struct {
		ID     string `json:"id"`
		Amount int    `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	id, ok := validate.ID(body.ID)
	if !ok {
		return badRequest(c, "invalid jewel id")
	}

	j, err := h.Catalog.DecreaseQuantity(c.Context(), id, validate.Amount(body.Amount))
	if err != nil {
		return fail(c, "jewel.decrease", err)
	}
	applog.Info(c, "jewel.decrease", map[string]any{"id": id, "quantity": j.Quantity})
	return c.JSON(j)
}
