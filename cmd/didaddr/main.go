package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/0xMailMan/violette-easya-sub000/did"
	"github.com/0xMailMan/violette-easya-sub000/ledger"
)

var (
	seed       string
	cryptoType string
)

func init() {
	flag.StringVar(&seed, "seed", "", "family seed")
	flag.StringVar(&cryptoType, "crypto", ledger.CryptoTypeECDSA, "crypto type (ecdsa or ed25519)")
}

func main() {
	flag.Parse()
	key, err := ledger.ImportKeyFromSeed(seed, cryptoType)
	if err != nil {
		log.Fatal(err)
	}
	address := ledger.GetAddress(key, nil)
	fmt.Printf("address: %v\n", address)
	fmt.Printf("did: %v\n", did.FormatID(address))
	fmt.Printf("pubkey: %v\n", ledger.PublicKeyHex(key, nil))
}
