package worker

import (
	"sync"

	"github.com/0xMailMan/violette-easya-sub000/mongodb"
)

var anchorConfirmStarter sync.Once

// StartAnchorConfirmJob confirm anchors whose settlement was not
// observed at submit time
func StartAnchorConfirmJob() {
	anchorConfirmStarter.Do(func() {
		logWorker("confirmanchor", "start anchor confirm job")
		for {
			res, err := mongodb.FindUnsettledAnchors()
			if err != nil {
				logWorkerError("confirmanchor", "find unsettled anchors error", err)
			}
			if len(res) > 0 {
				logWorker("confirmanchor", "find unsettled anchors to confirm", "count", len(res))
			}
			for _, anchor := range res {
				err = processUnsettledAnchor(anchor)
				if err != nil {
					logWorkerError("confirmanchor", "process unsettled anchor error", err, "root", anchor.Root)
				}
			}
			restInJob(restIntervalInConfirmJob)
		}
	})
}

func processUnsettledAnchor(anchor *mongodb.MgoAnchor) error {
	if anchor.TxHash == "" {
		return nil
	}
	outcome, found := gateway.CheckSettlement(anchor.TxHash)
	if !found {
		logWorkerTrace("confirmanchor", "anchor still pending", "root", anchor.Root, "txhash", anchor.TxHash)
		return nil
	}
	if outcome.Rejected() {
		logWorkerError("confirmanchor", "anchor settled with failure", outcome.Err(), "root", anchor.Root)
		return nil
	}
	logWorker("confirmanchor", "anchor settled", "root", anchor.Root, "ledgerSequence", outcome.LedgerSequence)
	return mongodb.UpdateAnchorSettled(anchor.Root, outcome.TxHash, outcome.LedgerSequence)
}
