// Package ledger applies a purchase as one atomic state transition: balance
// debit, stock decrement, and sale recording either all commit or none do.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/2023371019/CheckMeKit/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	// ErrInvalidQuantity indicates a non-positive purchase quantity.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrProductNotFound indicates the product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrNoAccount indicates the buyer has no registered balance account.
	ErrNoAccount = errors.New("buyer has no registered account")
	// ErrInsufficientStock indicates fewer units remain than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInsufficientFunds indicates the balance does not cover the subtotal.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrTransactionLost indicates a concurrent writer consumed the stock or
	// balance after this transaction's checks passed; nothing was committed.
	ErrTransactionLost = errors.New("purchase lost a concurrent update")
)

// Receipt reports the state resulting from a committed purchase.
type Receipt struct {
	SaleID           uint    `json:"id_venta"`
	RemainingBalance float64 `json:"saldoRestante"`
	RemainingStock   int     `json:"nuevoStock"`
}

// Ledger executes purchases against the shared store. It holds no state of
// its own; the store is the single source of truth.
type Ledger struct {
	db  *gorm.DB
	log zerolog.Logger
}

func New(db *gorm.DB, log zerolog.Logger) *Ledger {
	return &Ledger{db: db, log: log.With().Str("component", "ledger").Logger()}
}

// Purchase debits the buyer's balance, decrements the product stock, and
// records a sale with its line item, all inside one transaction.
//
// The stock and balance checks run inside that same transaction, and both
// mutations are conditional updates (balance >= subtotal, stock >= quantity),
// so the check and the write are indivisible: a concurrent purchase that
// drains either row causes zero affected rows here, and the whole transaction
// rolls back with ErrTransactionLost. No partial effect is ever observable.
func (l *Ledger) Purchase(ctx context.Context, buyerID, productID uint, quantity int) (*Receipt, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var receipt Receipt
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("id = ?", productID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		var account models.CompanyAccount
		if err := tx.Where("user_id = ?", buyerID).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoAccount
			}
			return err
		}

		subtotal := product.Price * float64(quantity)
		if quantity > product.Stock {
			return fmt.Errorf("%w: %d unit(s) remaining", ErrInsufficientStock, product.Stock)
		}
		if subtotal > account.Balance {
			return fmt.Errorf("%w: balance %.2f, needed %.2f", ErrInsufficientFunds, account.Balance, subtotal)
		}

		debit := tx.Model(&models.CompanyAccount{}).
			Where("user_id = ? AND balance >= ?", buyerID, subtotal).
			Update("balance", gorm.Expr("balance - ?", subtotal))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return ErrTransactionLost
		}

		decrement := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", productID, quantity).
			Update("stock", gorm.Expr("stock - ?", quantity))
		if decrement.Error != nil {
			return decrement.Error
		}
		if decrement.RowsAffected == 0 {
			return ErrTransactionLost
		}

		sale := models.Sale{UserID: buyerID, AccountID: account.ID, Total: subtotal}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}
		line := models.SaleLine{
			SaleID:    sale.ID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}

		// Re-read both rows for the receipt: a concurrent purchase may have
		// committed between our read and the conditional updates, so deriving
		// the remaining stock from the pre-update read could be stale.
		if err := tx.Where("user_id = ?", buyerID).First(&account).Error; err != nil {
			return err
		}
		var remaining models.Product
		if err := tx.First(&remaining, productID).Error; err != nil {
			return err
		}
		receipt = Receipt{
			SaleID:           sale.ID,
			RemainingBalance: account.Balance,
			RemainingStock:   remaining.Stock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Info().
		Uint("buyer", buyerID).
		Uint("product", productID).
		Int("quantity", quantity).
		Uint("sale", receipt.SaleID).
		Float64("balance", receipt.RemainingBalance).
		Msg("purchase committed")
	return &receipt, nil
}
