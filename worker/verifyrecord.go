package worker

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"

	"github.com/0xMailMan/violette-easya-sub000/did"
	"github.com/0xMailMan/violette-easya-sub000/ledger"
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
)

var pendingRecordStarter sync.Once

// StartPendingRecordJob verify identity records stuck in pending
// status by comparing the latest validated document memo against the
// stored document
func StartPendingRecordJob() {
	pendingRecordStarter.Do(func() {
		logWorker("verifyrecord", "start pending record job")
		for {
			res, err := mongodb.FindDIDRecordsWithStatus(mongodb.StatusPending)
			if err != nil {
				logWorkerError("verifyrecord", "find pending records error", err)
			}
			if len(res) > 0 {
				logWorker("verifyrecord", "find pending records to verify", "count", len(res))
			}
			for _, record := range res {
				err = processPendingRecord(record)
				if err != nil {
					logWorkerError("verifyrecord", "process pending record error", err, "did", record.Key)
				}
			}
			restInJob(restIntervalInVerifyJob)
		}
	})
}

func processPendingRecord(record *mongodb.MgoDIDRecord) error {
	payload, txHash, err := gateway.LatestMemo(record.Address, ledger.MemoTypeDID)
	if errors.Is(err, ledger.ErrNoLedgerRecord) {
		return failWhenExpired(record)
	}
	if err != nil {
		return err
	}

	var document did.Document
	if err := json.Unmarshal([]byte(record.Document), &document); err != nil {
		return err
	}
	encoded, err := did.Encode(&document)
	if err != nil {
		return err
	}
	if !bytes.Equal(payload, encoded.Payload) {
		logWorkerTrace("verifyrecord", "latest memo does not match pending document", "did", record.Key)
		return failWhenExpired(record)
	}

	outcome, found := gateway.CheckSettlement(txHash)
	ledgerSeq := record.LedgerSequence
	if found && outcome.Settled() {
		ledgerSeq = outcome.LedgerSequence
	}
	logWorker("verifyrecord", "pending record verified", "did", record.Key, "txhash", txHash)
	return mongodb.UpdateDIDRecordStatus(record.Key, mongodb.StatusVerified, txHash, ledgerSeq)
}

func failWhenExpired(record *mongodb.MgoDIDRecord) error {
	if now()-record.LastUpdated <= maxPendingLifetime {
		return nil
	}
	logWorker("verifyrecord", "pending record expired", "did", record.Key)
	return mongodb.UpdateDIDRecordStatus(record.Key, mongodb.StatusFailed, record.TxHash, record.LedgerSequence)
}
