// Package payment exposes the payment lifecycle over HTTP.
package payment

import (
	"github.com/amirasaad/affiliates/pkg/domain"
	paymentsvc "github.com/amirasaad/affiliates/pkg/service/payment"
	"github.com/amirasaad/affiliates/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routes registers the payment endpoints.
//
//   - POST /payments               : record a pending payment
//   - GET  /payments/:id           : fetch a payment
//   - POST /payments/:id/complete  : mark completed (idempotent)
//   - POST /payments/:id/refund    : mark refunded (idempotent)
//   - POST /payments/:id/fail      : mark failed
func Routes(app *fiber.App, svc *paymentsvc.Service) {
	app.Post("/payments", Record(svc))
	app.Get("/payments/:id", Get(svc))
	app.Post("/payments/:id/complete", Complete(svc))
	app.Post("/payments/:id/refund", Refund(svc))
	app.Post("/payments/:id/fail", Fail(svc))
}

// Record returns a handler creating a pending payment.
func Record(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RecordPaymentRequest](c)
		if input == nil {
			return err
		}
		companyID, err := uuid.Parse(input.CompanyID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid company id", err.Error())
		}
		amount, err := decimal.NewFromString(input.Amount)
		if err != nil {
			return common.DomainErrorJSON(c, "Invalid amount", domain.ErrInvalidAmount)
		}
		fee := decimal.Zero
		if input.Fee != "" {
			if fee, err = decimal.NewFromString(input.Fee); err != nil {
				return common.DomainErrorJSON(c, "Invalid fee", domain.ErrInvalidFee)
			}
		}
		var payerID *uuid.UUID
		if input.PayerID != nil {
			id, err := uuid.Parse(*input.PayerID)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid payer id", err.Error())
			}
			payerID = &id
		}
		p, err := svc.Record(c.UserContext(), paymentsvc.RecordInput{
			CompanyID:  companyID,
			Amount:     amount,
			Fee:        fee,
			Currency:   input.Currency,
			PayerID:    payerID,
			ExternalID: input.ExternalID,
			Metadata:   input.Metadata,
		})
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to record payment", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Payment recorded", toPaymentResponse(p))
	}
}

// Get returns a handler fetching a payment by id.
func Get(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid payment id", err.Error())
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to fetch payment", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment fetched", toPaymentResponse(p))
	}
}

// Complete returns a handler completing a payment. Safe to call more
// than once; duplicates return the payment unchanged.
func Complete(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid payment id", err.Error())
		}
		input := &CompletePaymentRequest{}
		if len(c.Body()) > 0 {
			if input, err = common.BindAndValidate[CompletePaymentRequest](c); input == nil {
				return err
			}
		}
		p, err := svc.Complete(c.UserContext(), id, input.ExternalID)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to complete payment", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment completed", toPaymentResponse(p))
	}
}

// Refund returns a handler refunding a completed payment.
func Refund(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid payment id", err.Error())
		}
		input := &RefundPaymentRequest{}
		if len(c.Body()) > 0 {
			if input, err = common.BindAndValidate[RefundPaymentRequest](c); input == nil {
				return err
			}
		}
		p, err := svc.Refund(c.UserContext(), id, input.ExternalReference)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to refund payment", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment refunded", toPaymentResponse(p))
	}
}

// Fail returns a handler marking a pending payment failed.
func Fail(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid payment id", err.Error())
		}
		p, err := svc.Fail(c.UserContext(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to mark payment failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment failed", toPaymentResponse(p))
	}
}
