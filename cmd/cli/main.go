package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/amirasaad/affiliates/infra/initializer"
	"github.com/amirasaad/affiliates/pkg/config"
	domainreferral "github.com/amirasaad/affiliates/pkg/domain/referral"
	referralsvc "github.com/amirasaad/affiliates/pkg/service/referral"
	revenuesvc "github.com/amirasaad/affiliates/pkg/service/revenue"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func main() {
	argsLen := len(os.Args)
	if argsLen < 2 {
		fmt.Println("Usage: cli <command> [arguments]")
		fmt.Println("Commands: upline <user_id> [levels], distribute <user_id> <amount>, recompute <company_id>, reconcile")
		return
	}
	cmd := os.Args[1]

	cfg, err := config.Load(".env", slog.Default())
	if err != nil {
		fmt.Println("Failed to load configuration:", err)
		return
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		fmt.Println("Failed to initialize dependencies:", err)
		return
	}
	ctx := context.Background()

	switch cmd {
	case "upline":
		if argsLen < 3 {
			fmt.Println("Usage: upline <user_id> [levels]")
			return
		}
		userID, err := uuid.Parse(os.Args[2])
		if err != nil {
			fmt.Println("Invalid user id:", err)
			return
		}
		levels := 3
		if argsLen > 3 {
			if levels, err = strconv.Atoi(os.Args[3]); err != nil || levels < 1 {
				fmt.Println("Invalid levels:", os.Args[3])
				return
			}
		}
		svc := referralsvc.NewService(*deps)
		upline, err := svc.ResolveUpline(ctx, userID, levels)
		if err != nil {
			fmt.Println("Error resolving upline:", err)
			return
		}
		for _, entry := range upline {
			fmt.Printf("level %d: %s\n", entry.Level, entry.UserID)
		}
	case "distribute":
		if argsLen < 4 {
			fmt.Println("Usage: distribute <user_id> <amount>")
			return
		}
		userID, err := uuid.Parse(os.Args[2])
		if err != nil {
			fmt.Println("Invalid user id:", err)
			return
		}
		amount, err := decimal.NewFromString(os.Args[3])
		if err != nil {
			fmt.Println("Invalid amount:", err)
			return
		}
		rates, err := domainreferral.ParseRateTable(cfg.Commission.Rates)
		if err != nil {
			fmt.Println("Invalid configured rate table:", err)
			return
		}
		svc := referralsvc.NewService(*deps)
		created, err := svc.Distribute(ctx, userID, amount, rates)
		if err != nil {
			fmt.Println("Error distributing commissions:", err)
			return
		}
		for _, com := range created {
			fmt.Printf("level %d: %s -> %s\n", com.Level, com.Amount.StringFixed(2), com.RecipientID)
		}
	case "recompute":
		if argsLen < 3 {
			fmt.Println("Usage: recompute <company_id>")
			return
		}
		companyID, err := uuid.Parse(os.Args[2])
		if err != nil {
			fmt.Println("Invalid company id:", err)
			return
		}
		svc := revenuesvc.NewService(*deps)
		rev, err := svc.Recompute(ctx, companyID)
		if err != nil {
			fmt.Println("Error recomputing revenue:", err)
			return
		}
		fmt.Printf("Company %s revenue: %s\n", rev.CompanyID, rev.TotalRevenue.StringFixed(2))
	case "reconcile":
		svc := revenuesvc.NewService(*deps)
		if err := svc.ReconcileAll(ctx); err != nil {
			fmt.Println("Reconciliation finished with errors:", err)
			return
		}
		fmt.Println("Reconciliation complete")
	default:
		fmt.Println("Unknown command:", cmd)
	}
}
