package params

import (
	"encoding/json"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/0xMailMan/violette-easya-sub000/common"
	"github.com/0xMailMan/violette-easya-sub000/log"
)

const defaultAPIPort = 11557

var (
	anchorConfig      *AnchorConfig
	loadConfigStarter sync.Once
)

// AnchorConfig config items (decode from toml file)
type AnchorConfig struct {
	Identifier string
	Ledger     *LedgerConfig
	Identity   *IdentityConfig
	MongoDB    *MongoDBConfig   `toml:",omitempty" json:",omitempty"`
	APIServer  *APIServerConfig `toml:",omitempty" json:",omitempty"`
}

// LedgerConfig ledger gateway config
type LedgerConfig struct {
	BlockChain      string   // always XRPL for now
	NetID           string   // mainnet, testnet or devnet
	APIAddress      []string // websocket endpoints
	WatchEndpoints  string   `toml:",omitempty" json:",omitempty"` // file holding endpoints to watch
	ConfirmTimeout  uint64   `toml:",omitempty" json:",omitempty"` // seconds
	ConfirmInterval uint64   `toml:",omitempty" json:",omitempty"` // seconds
	ExplorerURL     string   `toml:",omitempty" json:",omitempty"`
}

// IdentityConfig identity key config
type IdentityConfig struct {
	Seed       string `json:"-"`
	SeedFile   string `json:"-"`
	CryptoType string // ecdsa or ed25519
	TxFee      int64  `toml:",omitempty" json:",omitempty"` // drops
}

// MongoDBConfig mongodb config
type MongoDBConfig struct {
	DBURL    string
	DBName   string
	UserName string `json:"-"`
	Password string `json:"-"`
}

// APIServerConfig api service config
type APIServerConfig struct {
	Port           int
	AllowedOrigins []string
}

// GetConfig get anchor config
func GetConfig() *AnchorConfig {
	return anchorConfig
}

// SetConfig set anchor config
func SetConfig(config *AnchorConfig) {
	anchorConfig = config
}

// GetLedgerConfig get ledger config
func GetLedgerConfig() *LedgerConfig {
	config := GetConfig()
	if config == nil {
		return nil
	}
	return config.Ledger
}

// GetIdentityConfig get identity config
func GetIdentityConfig() *IdentityConfig {
	return GetConfig().Identity
}

// GetAPIPort get api service port
func GetAPIPort() int {
	apiServer := GetConfig().APIServer
	if apiServer == nil || apiServer.Port == 0 {
		return defaultAPIPort
	}
	return apiServer.Port
}

// GetExplorerURL get transaction explorer url for verification links
func GetExplorerURL() string {
	ledger := GetLedgerConfig()
	if ledger == nil || ledger.ExplorerURL == "" {
		return "https://livenet.xrpl.org"
	}
	return ledger.ExplorerURL
}

// LoadConfig load and check config from file, fatal on any error
func LoadConfig(configFile string) *AnchorConfig {
	loadConfigStarter.Do(func() {
		if configFile == "" {
			log.Fatalf("LoadConfig error: no config file specified")
		}
		log.Println("Config file is", configFile)
		if !common.FileExist(configFile) {
			log.Fatalf("LoadConfig error: config file %v not exist", configFile)
		}
		config := &AnchorConfig{}
		if _, err := toml.DecodeFile(configFile, &config); err != nil {
			log.Fatalf("LoadConfig error (toml DecodeFile): %v", err)
		}

		SetConfig(config)
		bs, _ := json.MarshalIndent(config, "", "  ")
		log.Println("LoadConfig finished.", string(bs))
		if err := CheckConfig(); err != nil {
			log.Fatalf("Check config failed. %v", err)
		}
	})
	return anchorConfig
}
