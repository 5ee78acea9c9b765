package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/tipchune/tipchune/foundation/blockchain/signature"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address for the account",
	Run:   addressRun,
}

func init() {
	rootCmd.AddCommand(addressCmd)
}

func addressRun(cmd *cobra.Command, args []string) {
	privateKey, err := signature.LoadKey(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	address, err := privateKey.PublicKey().Address()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(address)
}
