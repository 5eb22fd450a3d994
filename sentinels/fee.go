// Package sentinels turns transactions and appended ledgers into alert
// messages.
package sentinels

import (
	"errors"
	"fmt"

	"github.com/xrpscan/burnwatch/amount"
	"github.com/xrpscan/burnwatch/models"
)

const (
	DefaultFeeThresholdDrops  int64 = 1_000_000
	DefaultBurnThresholdDrops int64 = 3_000_000
	DefaultWindowSize               = 1000
	DefaultTxLinkTemplate           = "https://xrpcharts.ripple.com/#/transactions/%s"
)

// FeeSentinel flags transactions paying a fee above a fixed threshold.
type FeeSentinel struct {
	threshold    amount.Drops
	linkTemplate string
}

// NewFeeSentinel builds a FeeSentinel. linkTemplate is a fmt template
// receiving the transaction hash.
func NewFeeSentinel(threshold amount.Drops, linkTemplate string) *FeeSentinel {
	if linkTemplate == "" {
		linkTemplate = DefaultTxLinkTemplate
	}
	return &FeeSentinel{threshold: threshold, linkTemplate: linkTemplate}
}

// Evaluate returns an alert message when the fee is strictly above the
// threshold. A fee that is not a non-negative integer yields a
// *models.MalformedEventError.
func (s *FeeSentinel) Evaluate(ev models.TransactionEvent) (string, bool, error) {
	fee, err := amount.Parse(ev.Fee)
	if err != nil {
		return "", false, &models.MalformedEventError{Field: "Fee", Value: ev.Fee, Err: err}
	}
	if fee.IsNegative() {
		return "", false, &models.MalformedEventError{Field: "Fee", Value: ev.Fee, Err: errors.New("negative fee")}
	}
	if !fee.GreaterThan(s.threshold) {
		return "", false, nil
	}

	link := fmt.Sprintf(s.linkTemplate, ev.Hash)
	msg := fmt.Sprintf("I saw a transaction pay a fee of %s drops (%s XRP). %s", fee, fee.XRP(), link)
	return msg, true, nil
}
