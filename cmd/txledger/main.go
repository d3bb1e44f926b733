// Package main provides the batch CLI that replays a transaction CSV file and
// prints the final account snapshots as CSV on stdout.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/go-petr/tx-ledger/internal/accountstore"
	"github.com/go-petr/tx-ledger/internal/csvstream"
	"github.com/go-petr/tx-ledger/internal/ledgerservice"
	"github.com/go-petr/tx-ledger/internal/txstore"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: txledger <input_file>.csv")
		os.Exit(2)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	filename := os.Args[1]

	file, err := os.Open(filename)
	if err != nil {
		logger.Fatal().Err(err).Str("file", filename).Msg("cannot open input file")
	}
	defer file.Close()

	accounts := accountstore.New()
	transactions := txstore.New()
	ledger := ledgerservice.New(accounts, transactions)

	ctx := logger.WithContext(context.Background())

	if err := ledger.Process(ctx, csvstream.NewDecoder(file)); err != nil {
		logger.Fatal().Err(err).Str("file", filename).Msg("cannot read input file")
	}

	snapshot, err := ledger.Accounts(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot snapshot accounts")
	}

	if err := csvstream.NewEncoder(os.Stdout).Encode(snapshot); err != nil {
		logger.Fatal().Err(err).Msg("cannot write account snapshots")
	}
}
