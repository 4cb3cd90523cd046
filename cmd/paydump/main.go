package main

import (
	"flag"
	"fmt"
	"log"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/paygate-contract/rpc/paymentledger"
)

// number of payment records requested per RPC call.
const pageSize = 100

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	ledgerContract := flag.String("contract", "", "Address of the PaymentLedger contract (LE hex)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *ledgerContract == "":
		log.Fatal("missing PaymentLedger contract address")
	}

	ledgerAddress, err := util.Uint160DecodeStringLE(*ledgerContract)
	if err != nil {
		log.Fatal(fmt.Errorf("decode PaymentLedger contract address: %w", err))
	}

	err = dumpPayments(*neoRPCEndpoint, ledgerAddress)
	if err != nil {
		log.Fatal(err)
	}
}

func dumpPayments(neoBlockchainRPCEndpoint string, ledgerAddress util.Uint160) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	ledger := paymentledger.NewReader(b.invoker, ledgerAddress)

	token, err := ledger.Token()
	if err != nil {
		return fmt.Errorf("get payment token address: %w", err)
	}

	paused, err := ledger.Paused()
	if err != nil {
		return fmt.Errorf("get pause state: %w", err)
	}

	balance, err := ledger.Balance()
	if err != nil {
		return fmt.Errorf("get ledger balance: %w", err)
	}

	length, err := ledger.PaymentsLength()
	if err != nil {
		return fmt.Errorf("get number of payments: %w", err)
	}

	log.Printf("PaymentLedger %s at block #%d: token %s, paused %t, balance %s, %s payment(s)\n",
		ledgerAddress.StringLE(), b.currentBlock, token.StringLE(), paused, balance, length)

	if info, err := ledger.TokenInfo(); err == nil {
		log.Printf("payment token: name %q, symbol %q\n", info.Name, info.Symbol)
	}

	for start := big.NewInt(0); start.Cmp(length) < 0; start = start.Add(start, big.NewInt(pageSize)) {
		records, err := ledger.GetPayments(start, big.NewInt(pageSize))
		if err != nil {
			return fmt.Errorf("get payments starting from %s: %w", start, err)
		}

		for i := range records {
			fmt.Printf("#%d payer %s amount %s memo %q timestamp %s\n",
				start.Int64()+int64(i), records[i].Payer.StringLE(), records[i].Amount, records[i].Memo, records[i].Timestamp)
		}
	}

	return nil
}
