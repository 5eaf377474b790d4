package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/0xMailMan/violette-easya-sub000/anchor"
	"github.com/0xMailMan/violette-easya-sub000/cmd/utils"
	"github.com/0xMailMan/violette-easya-sub000/identity"
	"github.com/0xMailMan/violette-easya-sub000/internal/anchorapi"
	"github.com/0xMailMan/violette-easya-sub000/ledger"
	"github.com/0xMailMan/violette-easya-sub000/log"
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
	"github.com/0xMailMan/violette-easya-sub000/params"
	rpcserver "github.com/0xMailMan/violette-easya-sub000/rpc/server"
	"github.com/0xMailMan/violette-easya-sub000/tether"
	"github.com/0xMailMan/violette-easya-sub000/worker"
)

var (
	clientIdentifier = "anchorserver"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the anchorserver command line interface")
)

func initApp() {
	// Initialize the CLI app and start action
	app.Action = anchorserver
	app.HideVersion = true // we have a command to print the version
	app.Commands = []*cli.Command{
		utils.VersionCommand,
	}
	app.Flags = []cli.Flag{
		utils.ConfigFileFlag,
		utils.LogFileFlag,
		utils.LogRotationFlag,
		utils.LogMaxAgeFlag,
		utils.VerbosityFlag,
		utils.JSONFormatFlag,
		utils.ColorFormatFlag,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
}

func main() {
	initApp()
	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func anchorserver(ctx *cli.Context) error {
	utils.SetLogger(ctx)
	if ctx.NArg() > 0 {
		return fmt.Errorf("invalid command: %q", ctx.Args().Get(0))
	}
	configFile := utils.GetConfigFilePath(ctx)
	config := params.LoadConfig(configFile)

	if config.MongoDB != nil {
		dbConfig := config.MongoDB
		mongodb.MongoServerInit([]string{dbConfig.DBURL}, dbConfig.DBName, dbConfig.UserName, dbConfig.Password)
	}

	conn := ledger.NewConn(config.Ledger.APIAddress)
	gateway := ledger.NewGateway(conn)
	if config.Ledger.ConfirmInterval > 0 {
		gateway.SetConfirmInterval(time.Duration(config.Ledger.ConfirmInterval) * time.Second)
	}

	seed, err := loadSeed(config.Identity)
	if err != nil {
		return err
	}
	confirmTimeout := time.Duration(config.Ledger.ConfirmTimeout) * time.Second

	manager, err := identity.NewManager(gateway, identity.MongoStore{}, &identity.Config{
		Seed:           seed,
		CryptoType:     config.Identity.CryptoType,
		TxFee:          config.Identity.TxFee,
		ConfirmTimeout: confirmTimeout,
	})
	if err != nil {
		return err
	}
	anchorer, err := anchor.NewAnchorer(gateway, anchor.MongoStore{}, &anchor.Config{
		Seed:           seed,
		CryptoType:     config.Identity.CryptoType,
		TxFee:          config.Identity.TxFee,
		ConfirmTimeout: confirmTimeout,
	})
	if err != nil {
		return err
	}
	recorder := tether.NewRecorder(tether.MongoStore{})

	anchorapi.SetServices(manager, anchorer, recorder)

	worker.StartWork(conn, gateway)
	time.Sleep(100 * time.Millisecond)
	rpcserver.StartAPIServer()

	utils.WaitAndCleanup(func() {
		conn.Close()
	})
	return nil
}

func loadSeed(config *params.IdentityConfig) (string, error) {
	if config.Seed != "" {
		return config.Seed, nil
	}
	body, err := ioutil.ReadFile(config.SeedFile)
	if err != nil {
		return "", fmt.Errorf("read seed file failed, %w", err)
	}
	seed := strings.TrimSpace(string(body))
	if seed == "" {
		return "", fmt.Errorf("seed file %v is empty", config.SeedFile)
	}
	return seed, nil
}
