package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

type contractDump struct {
	Name    string        `json:"name"`
	Address string        `json:"address"`
	Block   uint32        `json:"block"`
	Items   []storageItem `json:"items"`
}

// storageItem is one contract storage entry with key and value in base58.
type storageItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	userAddr := flag.String("user", "", "Address of the User contract")
	trusteeAddr := flag.String("trustee", "", "Address of the Trustee contract")
	tradeAddr := flag.String("trade", "", "Address of the Trade contract")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *userAddr == "":
		log.Fatal("missing User contract address")
	case *trusteeAddr == "":
		log.Fatal("missing Trustee contract address")
	case *tradeAddr == "":
		log.Fatal("missing Trade contract address")
	}

	const rootDir = "testdata"

	err := os.MkdirAll(rootDir, 0700)
	if err != nil {
		log.Fatal(fmt.Errorf("create root dir: %w", err))
	}

	err = _dump(*neoRPCEndpoint, rootDir, map[string]string{
		"user":    *userAddr,
		"trustee": *trusteeAddr,
		"trade":   *tradeAddr,
	})
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Themis contracts are successfully dumped to '%s/'\n", rootDir)
}

func _dump(neoBlockchainRPCEndpoint, rootDir string, contracts map[string]string) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	for name, rawAddr := range contracts {
		log.Printf("Processing contract '%s'...\n", name)

		addr, err := parseContractAddress(rawAddr)
		if err != nil {
			return fmt.Errorf("parse '%s' contract address: %w", name, err)
		}

		err = overtakeContract(b, rootDir, name, addr)
		if err != nil {
			return fmt.Errorf("dump '%s' contract: %w", name, err)
		}
	}

	return nil
}

func overtakeContract(from *remoteBlockchain, rootDir, name string, addr util.Uint160) error {
	if _, err := from.getContractState(addr); err != nil {
		return err
	}

	d := contractDump{
		Name:    name,
		Address: address.Uint160ToString(addr),
		Block:   from.currentBlock,
	}

	err := from.iterateContractStorage(addr, func(key, value []byte) error {
		d.Items = append(d.Items, storageItem{
			Key:   base58.Encode(key),
			Value: base58.Encode(value),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("iterate contract storage: %w", err)
	}

	f, err := os.Create(filepath.Join(rootDir, name+".json"))
	if err != nil {
		return fmt.Errorf("create dump file: %w", err)
	}

	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	err = enc.Encode(d)
	if err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}

	return nil
}

// parseContractAddress accepts both Neo address notation and little-endian
// script hash hex.
func parseContractAddress(s string) (util.Uint160, error) {
	if u, err := address.StringToUint160(s); err == nil {
		return u, nil
	}
	return util.Uint160DecodeStringLE(s)
}
