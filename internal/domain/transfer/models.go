package transfer

import "horizon/internal/domain/transaction"

// Params describe a transfer between two linked accounts. The receiver is
// addressed by the public shareable id of their bank link.
type Params struct {
	SenderUserID        string `json:"-"`
	SenderLinkID        string `json:"senderLinkId"`
	ReceiverShareableID string `json:"receiverShareableId"`
	Amount              string `json:"amount"`
	Note                string `json:"note"`
}

// Transfer is the recorded outcome: the processor resource plus the two
// ledger legs that make the movement visible on both accounts.
type Transfer struct {
	TransferURL string                         `json:"transferUrl"`
	Debit       *transaction.LedgerTransaction `json:"debit"`
	Credit      *transaction.LedgerTransaction `json:"credit"`
}
