package worker

import (
	"time"

	"github.com/0xMailMan/violette-easya-sub000/ledger"
	"github.com/0xMailMan/violette-easya-sub000/rpc/client"
)

const interval = 10 * time.Millisecond

var (
	conn    *ledger.Conn
	gateway *ledger.Gateway
)

// StartWork start anchor server background jobs
func StartWork(ledgerConn *ledger.Conn, ledgerGateway *ledger.Gateway) {
	logWorker("worker", "start server worker")

	client.InitHTTPClient()
	conn = ledgerConn
	gateway = ledgerGateway

	go StartAnchorConfirmJob()
	time.Sleep(interval)

	go StartPendingRecordJob()
	time.Sleep(interval)

	go WatchEndpointsDynamically()
}
