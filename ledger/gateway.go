package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rubblelabs/ripple/data"

	"github.com/0xMailMan/violette-easya-sub000/log"
)

// query errors
var (
	ErrNoLedgerRecord   = errors.New("no matching record on ledger")
	ErrAccountNotFound  = errors.New("account not found on ledger")
	ErrObserveCancelled = errors.New("settlement observation cancelled, transaction may still settle")
)

const (
	defaultConfirmInterval = 4 * time.Second
	accountTxPageSize      = 20
)

// Gateway submits signed transactions to the ledger and answers
// record queries. Submissions from one controlling address are
// serialized to respect the ledger's per-account sequence ordering;
// different addresses proceed concurrently.
type Gateway struct {
	conn            *Conn
	confirmInterval time.Duration

	mu           sync.Mutex
	addressLocks map[string]*sync.Mutex
}

// NewGateway wire a gateway onto a connection handle
func NewGateway(conn *Conn) *Gateway {
	return &Gateway{
		conn:            conn,
		confirmInterval: defaultConfirmInterval,
		addressLocks:    make(map[string]*sync.Mutex),
	}
}

// SetConfirmInterval adjust the settlement poll interval
func (g *Gateway) SetConfirmInterval(interval time.Duration) {
	if interval > 0 {
		g.confirmInterval = interval
	}
}

func (g *Gateway) addressLock(address string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	lock, exist := g.addressLocks[address]
	if !exist {
		lock = new(sync.Mutex)
		g.addressLocks[address] = lock
	}
	return lock
}

// SubmitNext fetch the account's next transaction sequence, hand it
// to the build callback and submit the built transaction, all under
// the address lock. Concurrent writers sharing one controlling
// address therefore can never sign the same sequence.
func (g *Gateway) SubmitNext(address string, build func(txseq uint32) (data.Transaction, error)) (Outcome, error) {
	lock := g.addressLock(address)
	lock.Lock()
	defer lock.Unlock()

	txseq, err := g.AccountSequence(address)
	if err != nil {
		return Outcome{}, err
	}
	tx, err := build(txseq)
	if err != nil {
		return Outcome{}, err
	}
	return g.submit(tx, address)
}

// submit send the signed transaction and decode its provisional
// outcome. The result is Pending at best; finality comes from
// ObserveSettlement.
func (g *Gateway) submit(tx data.Transaction, address string) (Outcome, error) {
	remote, err := g.conn.Remote()
	if err != nil {
		return Outcome{}, err
	}
	result, err := remote.Submit(tx)
	if err != nil || result == nil {
		g.conn.Drop()
		if err == nil {
			err = ErrDisconnected
		}
		return Outcome{}, err
	}

	txHash := tx.GetBase().Hash.String()
	outcome := decodeSubmitOutcome(result, txHash)
	log.Info("submitted ledger transaction",
		"account", address, "txhash", txHash,
		"code", outcome.Code, "outcome", outcome.Kind.String())
	return outcome, nil
}

// ObserveSettlement poll the ledger until the transaction appears in
// a validated ledger or ctx expires. On cancellation the transaction
// may still settle later; callers must re-resolve before assuming
// non-existence.
func (g *Gateway) ObserveSettlement(ctx context.Context, txHash string) (Outcome, error) {
	hash, err := data.NewHash256(txHash)
	if err != nil {
		return Outcome{}, err
	}
	for {
		outcome, found := g.checkValidated(*hash, txHash)
		if found {
			return outcome, nil
		}
		select {
		case <-ctx.Done():
			return Outcome{Kind: OutcomePending, TxHash: txHash}, ErrObserveCancelled
		case <-time.After(g.confirmInterval):
		}
	}
}

// CheckSettlement one shot settlement check, used by background
// confirm jobs that poll on their own schedule.
func (g *Gateway) CheckSettlement(txHash string) (Outcome, bool) {
	hash, err := data.NewHash256(txHash)
	if err != nil {
		return Outcome{}, false
	}
	return g.checkValidated(*hash, txHash)
}

func (g *Gateway) checkValidated(hash data.Hash256, txHash string) (Outcome, bool) {
	remote, err := g.conn.Remote()
	if err != nil {
		log.Warn("settlement check connect error", "err", err)
		return Outcome{}, false
	}
	result, err := remote.Tx(hash)
	if err != nil || result == nil {
		// transaction not yet known to the queried node
		log.Trace("settlement check miss", "txhash", txHash, "err", err)
		return Outcome{}, false
	}
	if !result.Validated {
		return Outcome{}, false
	}
	code := result.MetaData.TransactionResult.String()
	kind := OutcomeSettled
	if !result.MetaData.TransactionResult.Success() {
		kind = OutcomeRejected
	}
	return Outcome{
		Kind:           kind,
		Code:           code,
		Reason:         TranslateResult(code),
		LedgerSequence: result.LedgerSequence,
		TxHash:         txHash,
	}, true
}

// AccountSequence next transaction sequence of an account
func (g *Gateway) AccountSequence(address string) (uint32, error) {
	account, err := data.NewAccountFromAddress(address)
	if err != nil {
		return 0, err
	}
	remote, err := g.conn.Remote()
	if err != nil {
		return 0, err
	}
	result, err := remote.AccountInfo(*account)
	if err != nil || result == nil {
		if err == nil {
			err = ErrAccountNotFound
		}
		return 0, err
	}
	if result.AccountData.Sequence == nil {
		return 0, ErrAccountNotFound
	}
	return *result.AccountData.Sequence, nil
}

// LatestMemo scan validated account transactions for the newest memo
// of the given type and return its payload with the carrying
// transaction hash. The scan is a read-only idempotent query, safe
// to retry.
func (g *Gateway) LatestMemo(address, memoType string) (payload []byte, txHash string, err error) {
	account, err := data.NewAccountFromAddress(address)
	if err != nil {
		return nil, "", err
	}
	remote, err := g.conn.Remote()
	if err != nil {
		return nil, "", err
	}

	var (
		bestSeq   uint32
		bestIndex uint32
		found     bool
	)
	for txm := range remote.AccountTx(*account, accountTxPageSize, -1, -1) {
		if txm == nil || !txm.MetaData.TransactionResult.Success() {
			continue
		}
		if txm.GetBase().Account.String() != address {
			continue
		}
		body, ok := memoData(txm.Transaction, memoType)
		if !ok {
			continue
		}
		if !found || txm.LedgerSequence > bestSeq ||
			(txm.LedgerSequence == bestSeq && txm.MetaData.TransactionIndex >= bestIndex) {
			bestSeq = txm.LedgerSequence
			bestIndex = txm.MetaData.TransactionIndex
			payload = body
			txHash = txm.GetBase().Hash.String()
			found = true
		}
	}
	if !found {
		return nil, "", ErrNoLedgerRecord
	}
	return payload, txHash, nil
}

func memoData(tx data.Transaction, memoType string) ([]byte, bool) {
	for _, memo := range tx.GetBase().Memos {
		if string(memo.Memo.MemoType) == memoType {
			return memo.Memo.MemoData, true
		}
	}
	return nil, false
}
