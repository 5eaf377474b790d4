package ledger

import (
	"fmt"

	"github.com/rubblelabs/ripple/crypto"
	"github.com/rubblelabs/ripple/data"
)

// memo types written to the ledger
const (
	MemoTypeDID    = "DID"
	MemoTypeAnchor = "ANCHOR"
)

// NewSignedMemoTransaction build and sign a self account-set
// transaction carrying a memo payload.
func NewSignedMemoTransaction(key crypto.Key, keyseq *uint32, txseq uint32, fee int64, memoType string, memoData []byte) (data.Transaction, error) {
	tx := &data.AccountSet{
		TxBase: data.TxBase{
			TransactionType: data.ACCOUNT_SET,
		},
	}
	base := tx.GetBase()
	base.Sequence = txseq
	fei, err := data.NewNativeValue(fee)
	if err != nil {
		return nil, fmt.Errorf("build transaction fee failed, %w", err)
	}
	base.Fee = *fei
	copy(base.Account[:], key.Id(keyseq))

	memo := data.Memo{}
	memo.Memo.MemoType = []byte(memoType)
	memo.Memo.MemoData = memoData
	base.Memos = append(base.Memos, memo)

	if err := data.Sign(tx, key, keyseq); err != nil {
		return nil, fmt.Errorf("sign transaction failed, %w", err)
	}
	return tx, nil
}
