package cmd

import (
	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "create or upgrade the amplify ledger tables",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			cmd.PrintErrln("migrate ledger tables error:", err)
			return
		}

		cmd.Println("ledger tables are up to date")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
