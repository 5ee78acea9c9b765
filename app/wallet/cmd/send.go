package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/tipchune/tipchune/foundation/blockchain/database"
	"github.com/tipchune/tipchune/foundation/blockchain/signature"
)

var (
	url      string
	sourceTx string
	sourceIx uint64
	to       string
	value    uint64
)

// sendCmd represents the send command.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a transaction spending one of your outputs",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().StringVarP(&sourceTx, "source-tx", "s", "", "Digest of the transaction holding the output to spend.")
	sendCmd.Flags().Uint64VarP(&sourceIx, "source-index", "i", 0, "Index of the output to spend.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address receiving the value.")
	sendCmd.Flags().Uint64VarP(&value, "value", "v", 0, "Value to send.")
}

func sendRun(cmd *cobra.Command, args []string) {
	privateKey, err := signature.LoadKey(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	var txDigest signature.Digest
	if err := txDigest.UnmarshalText([]byte(sourceTx)); err != nil {
		log.Fatal(err)
	}

	toAddress, err := signature.ToAddress(to)
	if err != nil {
		log.Fatal(err)
	}

	input, err := database.NewTxIn(privateKey, database.TxOutPtr{
		TxDigest: txDigest,
		Index:    sourceIx,
	})
	if err != nil {
		log.Fatal(err)
	}

	tx := database.Transaction{
		Inputs: []database.TxIn{input},
		Outputs: []database.TxOut{
			{Address: toAddress, Amount: value},
		},
	}

	data, err := json.Marshal(tx)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	fmt.Println("status:", resp.Status)
}
