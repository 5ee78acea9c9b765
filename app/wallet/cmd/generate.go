package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/tipchune/tipchune/foundation/blockchain/signature"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) {
	privateKey, err := signature.GenerateKey()
	if err != nil {
		log.Fatal(err)
	}

	if err := privateKey.Save(getPrivateKeyPath()); err != nil {
		log.Fatal(err)
	}
}
