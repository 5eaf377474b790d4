package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/0xMailMan/violette-easya-sub000/cmd/utils"
	"github.com/0xMailMan/violette-easya-sub000/internal/anchorapi"
	"github.com/0xMailMan/violette-easya-sub000/log"
	"github.com/0xMailMan/violette-easya-sub000/rpc/client"
)

var (
	clientIdentifier = "anchorctl"
	gitCommit        = ""
	gitDate          = ""
	app              = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the anchorctl command line interface")

	serverFlag = &cli.StringFlag{
		Name:  "server",
		Usage: "anchor server address",
		Value: "http://127.0.0.1:11557",
	}

	serverInfoCommand = &cli.Command{
		Action: serverInfoAction,
		Name:   "serverinfo",
		Usage:  "get anchor server info",
		Flags:  []cli.Flag{serverFlag},
	}
	resolveCommand = &cli.Command{
		Action:    resolveAction,
		Name:      "resolve",
		Usage:     "resolve a did to its document",
		ArgsUsage: "<did>",
		Flags:     []cli.Flag{serverFlag},
	}
	latestAnchorsCommand = &cli.Command{
		Action: latestAnchorsAction,
		Name:   "anchors",
		Usage:  "list latest anchor receipts",
		Flags: []cli.Flag{
			serverFlag,
			&cli.IntFlag{
				Name:  "limit",
				Usage: "max number of receipts",
				Value: 20,
			},
		},
	}
	tetheringsCommand = &cli.Command{
		Action:    tetheringsAction,
		Name:      "tetherings",
		Usage:     "list tethering records of a did",
		ArgsUsage: "<did>",
		Flags:     []cli.Flag{serverFlag},
	}
)

func initApp() {
	app.Commands = []*cli.Command{
		serverInfoCommand,
		resolveCommand,
		latestAnchorsCommand,
		tetheringsCommand,
		utils.VersionCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
}

func main() {
	initApp()
	client.InitHTTPClient()
	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func printResult(result interface{}) error {
	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

func serverURL(ctx *cli.Context) string {
	return strings.TrimSuffix(ctx.String(serverFlag.Name), "/")
}

// serverinfo exercises the json-rpc surface, the read commands below
// go through the rest routes
func serverInfoAction(ctx *cli.Context) error {
	var result anchorapi.ServerInfo
	err := client.RpcPost(&result, serverURL(ctx)+"/rpc", "anchor.GetServerInfo")
	if err != nil {
		return err
	}
	return printResult(result)
}

func resolveAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("miss required position argument <did>")
	}
	didID := ctx.Args().Get(0)
	var result anchorapi.DIDResult
	err := client.RpcGet(&result, serverURL(ctx)+"/did/resolve/"+didID)
	if err != nil {
		return err
	}
	return printResult(result)
}

func latestAnchorsAction(ctx *cli.Context) error {
	params := map[string]string{"limit": strconv.Itoa(ctx.Int("limit"))}
	var result []*anchorapi.AnchorReceipt
	err := client.RpcGetRequest(&result, serverURL(ctx)+"/anchor/latest", params, nil, 60)
	if err != nil {
		return err
	}
	return printResult(result)
}

func tetheringsAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("miss required position argument <did>")
	}
	didID := ctx.Args().Get(0)
	var result []*anchorapi.TetherRecord
	err := client.RpcGet(&result, serverURL(ctx)+"/tether/"+didID)
	if err != nil {
		return err
	}
	return printResult(result)
}
