package utils

import (
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/0xMailMan/violette-easya-sub000/log"
	"github.com/0xMailMan/violette-easya-sub000/params"
)

var (
	clientIdentifier string
	gitCommit        string
	gitDate          string

	// TopWaitGroup is waited on before the process exits
	TopWaitGroup = new(sync.WaitGroup)
	// CleanupChan is closed when the process receives a stop signal
	CleanupChan = make(chan struct{})
)

// NewApp creates an app with sane defaults.
func NewApp(identifier, gitcommit, gitdate, usage string) *cli.App {
	clientIdentifier = identifier
	gitCommit = gitcommit
	gitDate = gitdate
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Usage = usage
	return app
}

// TopWaitGroupWait wait until all background tasks finished
func TopWaitGroupWait() {
	TopWaitGroup.Wait()
}

// WaitAndCleanup wait exit signal, then call the cleanup and flag all
// watchers through CleanupChan
func WaitAndCleanup(cleanup func()) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signalChan
	log.Info("receive stop signal", "signal", sig)
	close(CleanupChan)
	cleanup()
	TopWaitGroupWait()
}
