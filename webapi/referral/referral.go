// Package referral exposes the referral engine over HTTP.
package referral

import (
	"strconv"

	"github.com/amirasaad/affiliates/pkg/config"
	"github.com/amirasaad/affiliates/pkg/domain"
	domainreferral "github.com/amirasaad/affiliates/pkg/domain/referral"
	referralsvc "github.com/amirasaad/affiliates/pkg/service/referral"
	"github.com/amirasaad/affiliates/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routes registers the referral endpoints.
//
//   - POST /profiles                 : create a referral profile
//   - POST /profiles/link            : link a signup to a referral code
//   - GET  /users/:id/upline         : resolve the upline chain
//   - GET  /users/:id/commissions    : list commissions earned
//   - GET  /users/:id/commissions/generated : commissions a user's sales produced
//   - POST /commissions/distribute   : distribute commissions for a sale
func Routes(app *fiber.App, svc *referralsvc.Service, cfg *config.App) {
	app.Post("/profiles", CreateProfile(svc))
	app.Post("/profiles/link", LinkReferral(svc))
	app.Get("/users/:id/upline", ResolveUpline(svc))
	app.Get("/users/:id/commissions", ListCommissions(svc))
	app.Get("/users/:id/commissions/generated", ListGenerated(svc))
	app.Post("/commissions/distribute", Distribute(svc, cfg))
}

// CreateProfile returns a handler creating a referral profile with a
// fresh referral code.
func CreateProfile(svc *referralsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateProfileRequest](c)
		if input == nil {
			return err
		}
		userID, err := uuid.Parse(input.UserID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid user id", err.Error())
		}
		p, err := svc.CreateProfile(c.UserContext(), userID)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to create profile", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Profile created", toProfileResponse(p))
	}
}

// LinkReferral returns a handler assigning the referred-by edge from a
// referral code.
func LinkReferral(svc *referralsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LinkReferralRequest](c)
		if input == nil {
			return err
		}
		userID, err := uuid.Parse(input.UserID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid user id", err.Error())
		}
		p, err := svc.LinkReferral(c.UserContext(), userID, input.ReferralCode)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to link referral", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Referral linked", toProfileResponse(p))
	}
}

// ResolveUpline returns a handler resolving the ancestor chain of a
// user. The levels query parameter bounds the walk (default 3).
func ResolveUpline(svc *referralsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid user id", err.Error())
		}
		levels := 3
		if raw := c.Query("levels"); raw != "" {
			levels, err = strconv.Atoi(raw)
			if err != nil || levels < 1 {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid levels parameter", raw)
			}
		}
		upline, err := svc.ResolveUpline(c.UserContext(), userID, levels)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to resolve upline", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Upline resolved", upline)
	}
}

// ListCommissions returns a handler listing a recipient's commissions.
func ListCommissions(svc *referralsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid user id", err.Error())
		}
		list, err := svc.ListCommissions(c.UserContext(), userID)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to list commissions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Commissions listed", toCommissionResponses(list))
	}
}

// ListGenerated returns a handler listing the commissions a user's
// sales generated for their upline.
func ListGenerated(svc *referralsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid user id", err.Error())
		}
		list, err := svc.ListGenerated(c.UserContext(), userID)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to list commissions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Commissions listed", toCommissionResponses(list))
	}
}

// Distribute returns a handler creating commissions for a sale. The rate
// table comes from the request when present, otherwise from config.
func Distribute(svc *referralsvc.Service, cfg *config.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[DistributeRequest](c)
		if input == nil {
			return err
		}
		sourceID, err := uuid.Parse(input.SourceUserID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid source user id", err.Error())
		}
		amount, err := decimal.NewFromString(input.Amount)
		if err != nil {
			return common.DomainErrorJSON(c, "Invalid amount", domain.ErrInvalidAmount)
		}
		rates, err := parseRates(input.Rates, cfg)
		if err != nil {
			return common.DomainErrorJSON(c, "Invalid rate table", err)
		}
		created, err := svc.Distribute(c.UserContext(), sourceID, amount, rates)
		if err != nil {
			return common.DomainErrorJSON(c, "Distribution failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Commissions distributed",
			toCommissionResponses(created))
	}
}

func parseRates(raw []string, cfg *config.App) ([]decimal.Decimal, error) {
	if len(raw) == 0 {
		return domainreferral.ParseRateTable(cfg.Commission.Rates)
	}
	rates := make([]decimal.Decimal, 0, len(raw))
	for _, s := range raw {
		r, err := decimal.NewFromString(s)
		if err != nil {
			return nil, domain.ErrInvalidAmount
		}
		rates = append(rates, r)
	}
	if !domainreferral.ValidRateTable(rates) {
		return nil, domain.ErrInvalidAmount
	}
	return rates, nil
}
