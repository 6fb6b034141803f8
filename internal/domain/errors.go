package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrConnectivity            = errors.New("connectivity error")
	ErrSignatureDecode         = errors.New("failed to decode signature")
	ErrPriceConversion         = errors.New("failed to convert price")
	ErrTransactionBuildTimeout = errors.New("transaction build timed out")
	ErrTransactionBuild        = errors.New("transaction build failed")
	ErrTransactionSubmit       = errors.New("transaction submit failed")
	ErrFatalStartup            = errors.New("fatal startup error")
)

// PriceConversionError tells which feed could not be represented as an unsigned 64-bit price.
type PriceConversionError struct {
	Feed  FeedID
	Price decimal.Decimal
	Raw   string // set when the stored value is not a finite decimal (NaN, Infinity)
}

func (e *PriceConversionError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("failed to convert %s price %s to u64", e.Feed, e.Raw)
	}
	return fmt.Sprintf("failed to convert %s price %s to u64", e.Feed, e.Price.String())
}

func (e *PriceConversionError) Unwrap() error { return ErrPriceConversion }
