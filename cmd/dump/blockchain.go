package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"

	"github.com/glacier-token/glacier-contract/rpc/token"
)

// number of accounts read from the contract iterator at once.
const accountBatchSize = 100

// wrapper over the Neo RPC client providing token contract inspection.
type remoteBlockchain struct {
	rpc     *rpcclient.Client
	invoker *invoker.Invoker
}

// newRemoteBlockChain dials Neo RPC server and returns remoteBlockchain based
// on the opened connection. Connection and all requests are done within 15s
// timeout.
func newRemoteBlockChain(blockChainRPCEndpoint string) (*remoteBlockchain, error) {
	c, err := rpcclient.New(context.Background(), blockChainRPCEndpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	if err = c.Init(); err != nil {
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	return &remoteBlockchain{
		rpc:     c,
		invoker: invoker.New(c, nil),
	}, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

func (x *remoteBlockchain) dumpTokenInfo(contractHash util.Uint160) error {
	reader := token.NewReader(x.invoker, contractHash)

	name, err := reader.Name()
	if err != nil {
		return fmt.Errorf("read name: %w", err)
	}

	symbol, err := reader.Symbol()
	if err != nil {
		return fmt.Errorf("read symbol: %w", err)
	}

	decimals, err := reader.Decimals()
	if err != nil {
		return fmt.Errorf("read decimals: %w", err)
	}

	admin, err := reader.Admin()
	if err != nil {
		return fmt.Errorf("read administrator: %w", err)
	}

	supply, err := reader.TotalSupply()
	if err != nil {
		return fmt.Errorf("read total supply: %w", err)
	}

	log.Printf("%s (%s), decimals %d, administrator %s, total supply %s\n",
		name, symbol, decimals, admin.StringLE(), supply)

	return nil
}

// dumpAccounts prints every account known to the contract along with its
// balance and frozen flag.
func (x *remoteBlockchain) dumpAccounts(contractHash util.Uint160) error {
	reader := token.NewReader(x.invoker, contractHash)

	return x.iterateAccounts(reader, func(acc util.Uint160) error {
		balance, err := reader.BalanceOf(acc)
		if err != nil {
			return fmt.Errorf("read balance of %s: %w", acc.StringLE(), err)
		}

		frozen, err := reader.IsFrozen(acc)
		if err != nil {
			return fmt.Errorf("read frozen flag of %s: %w", acc.StringLE(), err)
		}

		status := "active"
		if frozen {
			status = "frozen"
		}

		log.Printf("%s: %s (%s)\n", acc.StringLE(), balance, status)

		return nil
	})
}

func (x *remoteBlockchain) iterateAccounts(reader *token.ContractReader, f func(util.Uint160) error) error {
	sessionID, iter, err := reader.Accounts()
	if err != nil {
		// Fall back for servers without session support.
		items, err := reader.AccountsExpanded(accountBatchSize)
		if err != nil {
			return fmt.Errorf("iterate accounts: %w", err)
		}

		return forEachAccountItem(items, f)
	}

	defer func() {
		_ = x.invoker.TerminateSession(sessionID)
	}()

	for {
		items, err := x.invoker.TraverseIterator(sessionID, &iter, accountBatchSize)
		if err != nil {
			return fmt.Errorf("traverse accounts iterator: %w", err)
		}

		if len(items) == 0 {
			return nil
		}

		if err = forEachAccountItem(items, f); err != nil {
			return err
		}
	}
}

func forEachAccountItem(items []stackitem.Item, f func(util.Uint160) error) error {
	for i := range items {
		b, err := items[i].TryBytes()
		if err != nil {
			return fmt.Errorf("unexpected account key item: %w", err)
		}

		acc, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return fmt.Errorf("decode account key: %w", err)
		}

		if err = f(acc); err != nil {
			return err
		}
	}

	return nil
}
