package handlers

import (
	"github.com/gofiber/fiber/v2"

	"edeng/internal/domain"
	applog "edeng/internal/log"
	"edeng/internal/ypay"
)

// OrderMailer sends the admin order-summary email.
// *services.MailerService satisfies it.
type OrderMailer interface {
	SendOrderEmail(to string, contact domain.Contact, items []domain.CartItem, amount float64) error
}

type YpayHandler struct {
	Gateway   *ypay.Client
	Mailer    OrderMailer
	AdminMail string
}

// Payment runs the checkout flow against the gateway and relays the
// buyer redirect URL and charge identifier.
func (h *YpayHandler) Payment(c *fiber.Ctx) error {
	var req ypay.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed payment request")
	}
	if len(req.Items) == 0 {
		return badRequest(c, "empty cart")
	}

	result, err := h.Gateway.CreatePayment(c.Context(), req)
	if err != nil {
		return fail(c, "ypay.payment", err)
	}
	applog.Audit(c, "ypay.payment", map[string]any{
		"chargeIdentifier": result.ChargeIdentifier,
		"amount":           req.Amount,
	})
	return c.JSON(result)
}

type receiptRequest struct {
	Contact domain.Contact    `json:"contact"`
	Items   []domain.CartItem `json:"items"`
	Amount  float64           `json:"amount"`
}

// Document generates a standalone receipt on the gateway.
func (h *YpayHandler) Document(c *fiber.Ctx) error {
	var req receiptRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed document request")
	}

	result, err := h.Gateway.CreateDocument(c.Context(), req.Contact, req.Items, req.Amount)
	if err != nil {
		return fail(c, "ypay.document", err)
	}
	applog.Audit(c, "ypay.document", map[string]any{"serialNumber": result.SerialNumber})
	return c.JSON(result)
}

// NotifyAdmin mails the order summary to the shop admin. Invoked by
// the gateway webhook or by the client after the redirect; a send
// failure here never touches a payment result already returned.
func (h *YpayHandler) NotifyAdmin(c *fiber.Ctx) error {
	var req receiptRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}

	if err := h.Mailer.SendOrderEmail(h.AdminMail, req.Contact, req.Items, req.Amount); err != nil {
		return fail(c, "ypay.notify_admin", err)
	}
	applog.Info(c, "ypay.notify_admin", map[string]any{"to": h.AdminMail})
	return c.JSON(fiber.Map{"success": true})
}
