package params

import (
	"errors"
	"strings"
)

// CheckConfig check config
func CheckConfig() (err error) {
	config := GetConfig()
	if config.Identifier == "" {
		return errors.New("server must config non empty 'Identifier'")
	}
	err = checkLedgerConfig(config.Ledger)
	if err != nil {
		return err
	}
	err = checkIdentityConfig(config.Identity)
	if err != nil {
		return err
	}
	if config.MongoDB != nil {
		err = config.MongoDB.CheckConfig()
		if err != nil {
			return err
		}
	}
	return nil
}

func checkLedgerConfig(ledger *LedgerConfig) error {
	if ledger == nil {
		return errors.New("server must config 'Ledger'")
	}
	if len(ledger.APIAddress) == 0 {
		return errors.New("ledger must config 'APIAddress'")
	}
	switch strings.ToLower(ledger.NetID) {
	case "mainnet", "testnet", "devnet":
	default:
		return errors.New("unsupported ledger network: " + ledger.NetID)
	}
	return nil
}

func checkIdentityConfig(identity *IdentityConfig) error {
	if identity == nil {
		return errors.New("server must config 'Identity'")
	}
	if identity.Seed == "" && identity.SeedFile == "" {
		return errors.New("identity must config 'Seed' or 'SeedFile'")
	}
	switch identity.CryptoType {
	case "ecdsa", "ed25519":
	default:
		return errors.New("identity must config 'CryptoType' of ecdsa or ed25519")
	}
	return nil
}

// CheckConfig check mongodb config
func (cfg *MongoDBConfig) CheckConfig() error {
	if cfg.DBURL == "" {
		return errors.New("mongodb must config 'DBURL'")
	}
	if cfg.DBName == "" {
		return errors.New("mongodb must config 'DBName'")
	}
	return nil
}
