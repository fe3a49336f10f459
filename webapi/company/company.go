// Package company exposes companies, their ledger and the cached
// revenue aggregate over HTTP.
package company

import (
	revenuesvc "github.com/amirasaad/affiliates/pkg/service/revenue"
	"github.com/amirasaad/affiliates/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the company endpoints.
//
//   - POST /companies                        : create a company
//   - GET  /companies/:id/revenue            : cached revenue
//   - POST /companies/:id/revenue/recompute  : full recomputation
//   - GET  /companies/:id/transactions       : ledger entries
func Routes(app *fiber.App, svc *revenuesvc.Service) {
	app.Post("/companies", Create(svc))
	app.Get("/companies/:id/revenue", GetRevenue(svc))
	app.Post("/companies/:id/revenue/recompute", RecomputeRevenue(svc))
	app.Get("/companies/:id/transactions", ListTransactions(svc))
}

// Create returns a handler creating a company.
func Create(svc *revenuesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateCompanyRequest](c)
		if input == nil {
			return err
		}
		var ownerID *uuid.UUID
		if input.OwnerID != nil {
			id, err := uuid.Parse(*input.OwnerID)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid owner id", err.Error())
			}
			ownerID = &id
		}
		created, err := svc.CreateCompany(c.UserContext(), input.Name, ownerID)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to create company", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Company created", toCompanyResponse(created))
	}
}

// GetRevenue returns a handler reading the cached revenue aggregate.
func GetRevenue(svc *revenuesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid company id", err.Error())
		}
		rev, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to fetch revenue", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Revenue fetched", toRevenueResponse(rev))
	}
}

// RecomputeRevenue returns a handler re-deriving the cached revenue
// from the transaction log.
func RecomputeRevenue(svc *revenuesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid company id", err.Error())
		}
		rev, err := svc.Recompute(c.UserContext(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to recompute revenue", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Revenue recomputed", toRevenueResponse(rev))
	}
}

// ListTransactions returns a handler listing the company's ledger.
func ListTransactions(svc *revenuesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid company id", err.Error())
		}
		txs, err := svc.ListTransactions(c.UserContext(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions listed", toTransactionResponses(txs))
	}
}
