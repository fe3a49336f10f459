// Package app builds the Fiber application from wired dependencies.
package app

import (
	"context"
	"strings"

	"github.com/amirasaad/affiliates/pkg/config"
	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/amirasaad/affiliates/pkg/domain/events"
	paymentsvc "github.com/amirasaad/affiliates/pkg/service/payment"
	referralsvc "github.com/amirasaad/affiliates/pkg/service/referral"
	revenuesvc "github.com/amirasaad/affiliates/pkg/service/revenue"
	"github.com/amirasaad/affiliates/webapi/common"
	companywebapi "github.com/amirasaad/affiliates/webapi/company"
	paymentwebapi "github.com/amirasaad/affiliates/webapi/payment"
	referralwebapi "github.com/amirasaad/affiliates/webapi/referral"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New builds all services, registers event handlers, and returns the
// Fiber app.
func New(deps config.Deps) *fiber.App {
	referralSvc := referralsvc.NewService(deps)
	paymentSvc := paymentsvc.NewService(deps)
	revenueSvc := revenuesvc.NewService(deps)

	bus := deps.EventBus
	logger := deps.Logger

	// Audit handlers. The ledger writes never depend on these; they run
	// after commit and only observe.
	bus.Subscribe(events.TypePaymentCompleted, func(ctx context.Context, e domain.Event) error {
		if ev, ok := e.(events.PaymentCompleted); ok {
			logger.Info("payment completed",
				"payment_id", ev.PaymentID,
				"company_id", ev.CompanyID,
				"net_amount", ev.NetAmount.StringFixed(2),
				"currency", ev.Currency,
			)
		}
		return nil
	})
	bus.Subscribe(events.TypePaymentRefunded, func(ctx context.Context, e domain.Event) error {
		if ev, ok := e.(events.PaymentRefunded); ok {
			logger.Info("payment refunded",
				"payment_id", ev.PaymentID,
				"company_id", ev.CompanyID,
				"net_amount", ev.NetAmount.StringFixed(2),
			)
		}
		return nil
	})
	bus.Subscribe(events.TypePaymentFailed, func(ctx context.Context, e domain.Event) error {
		if ev, ok := e.(events.PaymentFailed); ok {
			logger.Warn("payment failed",
				"payment_id", ev.PaymentID,
				"company_id", ev.CompanyID,
			)
		}
		return nil
	})
	bus.Subscribe(events.TypeCommissionsDistributed, func(ctx context.Context, e domain.Event) error {
		if ev, ok := e.(events.CommissionsDistributed); ok {
			logger.Info("commissions distributed",
				"source_user_id", ev.SourceUserID,
				"sale_amount", ev.SaleAmount.StringFixed(2),
				"count", ev.Count,
			)
		}
		return nil
	})
	bus.Subscribe(events.TypeRevenueRecomputed, func(ctx context.Context, e domain.Event) error {
		if ev, ok := e.(events.RevenueRecomputed); ok {
			logger.Info("revenue recomputed",
				"company_id", ev.CompanyID,
				"total_revenue", ev.TotalRevenue.StringFixed(2),
			)
		}
		return nil
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        deps.Config.RateLimit.MaxRequests,
		Expiration: deps.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(c, "Too Many Requests",
				fiber.ErrTooManyRequests, fiber.StatusTooManyRequests)
		},
	}))
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("App is working! 🚀")
	})

	referralwebapi.Routes(app, referralSvc, deps.Config)
	paymentwebapi.Routes(app, paymentSvc)
	companywebapi.Routes(app, revenueSvc)
	return app
}
