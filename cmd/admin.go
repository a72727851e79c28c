package cmd

import (
	"time"

	"amplify/pkg/number"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "owner-only ledger operations",
}

var riskCmd = &cobra.Command{
	Use:   "risk <add|remove> <rating> [advanceRate] [interestRate]",
	Short: "manage the risk table",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		service := provideAssetService(system, database)

		switch args[0] {
		case "add":
			if len(args) < 4 {
				cmd.PrintErrln("usage: risk add <rating> <advanceRate> <interestRate>")
				return
			}

			err := service.AddRiskItem(ctx, system.Owner, args[1], number.Decimal(args[2]), number.Decimal(args[3]))
			if err != nil {
				cmd.PrintErrln("add risk item error:", err)
				return
			}
		case "remove":
			if err := service.RemoveRiskItem(ctx, system.Owner, args[1]); err != nil {
				cmd.PrintErrln("remove risk item error:", err)
				return
			}
		default:
			cmd.PrintErrln("unknown action:", args[0])
		}
	},
}

var borrowerCmd = &cobra.Command{
	Use:   "borrower <whitelist|blacklist> <address>",
	Short: "manage the borrower whitelist",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		service := provideControllerService(system, database)

		var err error
		switch args[0] {
		case "whitelist":
			err = service.WhitelistBorrower(ctx, system.Owner, args[1])
		case "blacklist":
			err = service.BlacklistBorrower(ctx, system.Owner, args[1])
		default:
			cmd.PrintErrln("unknown action:", args[0])
			return
		}

		if err != nil {
			cmd.PrintErrln("borrower", args[0], "error:", err)
		}
	},
}

var poolSpeedCmd = &cobra.Command{
	Use:   "pool-speed <pool> <speed>",
	Short: "set a pool's reward speed",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		service := provideControllerService(system, database)

		if err := service.SetAmptSpeed(ctx, system.Owner, args[0], number.Decimal(args[1]), time.Now()); err != nil {
			cmd.PrintErrln("set speed error:", err)
		}
	},
}

var stableCoinCmd = &cobra.Command{
	Use:   "stablecoin <add|remove> <address> [symbol]",
	Short: "manage the stablecoin registry",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		service := provideControllerService(system, database)

		var err error
		switch args[0] {
		case "add":
			symbol := ""
			if len(args) > 2 {
				symbol = args[2]
			}

			err = service.AddStableCoin(ctx, system.Owner, args[1], symbol)
		case "remove":
			err = service.RemoveStableCoin(ctx, system.Owner, args[1])
		default:
			cmd.PrintErrln("unknown action:", args[0])
			return
		}

		if err != nil {
			cmd.PrintErrln("stablecoin", args[0], "error:", err)
		}
	},
}

var mintCmd = &cobra.Command{
	Use:   "mint <token> <account> <amount>",
	Short: "mint tokens to an account",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		amount := number.Decimal(args[2])
		if !amount.IsPositive() {
			cmd.PrintErrln("invalid amount:", args[2])
			return
		}

		service := provideWalletService(database)
		if err := service.Mint(ctx, args[0], args[1], amount); err != nil {
			cmd.PrintErrln("mint error:", err)
			return
		}

		cmd.Println("minted", cast.ToString(amount), args[0], "to", args[1])
	},
}

func init() {
	adminCmd.AddCommand(riskCmd)
	adminCmd.AddCommand(borrowerCmd)
	adminCmd.AddCommand(poolSpeedCmd)
	adminCmd.AddCommand(stableCoinCmd)
	adminCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(adminCmd)
}
