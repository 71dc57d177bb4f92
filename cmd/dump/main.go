package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractAddress := flag.String("contract", "", "Token contract address (LE hex or Neo address)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractAddress == "":
		log.Fatal("missing token contract address")
	}

	contractHash, err := parseContractAddress(*contractAddress)
	if err != nil {
		log.Fatal(fmt.Errorf("parse contract address: %w", err))
	}

	err = _dump(*neoRPCEndpoint, contractHash)
	if err != nil {
		log.Fatal(err)
	}
}

func parseContractAddress(s string) (util.Uint160, error) {
	h, err := util.Uint160DecodeStringLE(s)
	if err == nil {
		return h, nil
	}

	return address.StringToUint160(s)
}

func _dump(neoBlockchainRPCEndpoint string, contractHash util.Uint160) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	if err := b.dumpTokenInfo(contractHash); err != nil {
		return fmt.Errorf("dump token info: %w", err)
	}

	if err := b.dumpAccounts(contractHash); err != nil {
		return fmt.Errorf("dump accounts: %w", err)
	}

	return nil
}
