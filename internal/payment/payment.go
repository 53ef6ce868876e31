package payment

import (
	"context"
	"errors"

	"github.com/fjod/go_order/internal/domain"
)

var ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")

type Method string

const (
	MethodCashOnDelivery Method = "cash_on_delivery"
	MethodCard           Method = "card"
	MethodBankTransfer   Method = "bank_transfer"
	MethodEWallet        Method = "e_wallet"
)

func (m Method) String() string {
	return string(m)
}

// Details is the request-scoped bag of method-specific payment fields
// (card number, transfer code, wallet phone). Never persisted.
type Details map[string]string

// Detail keys read by the built-in strategies
const (
	DetailCardNumber    = "card_number"
	DetailCardExpiry    = "card_expiry"
	DetailCardCVC       = "card_cvc"
	DetailAccountNumber = "account_number"
	DetailBankName      = "bank_name"
	DetailPhoneNumber   = "phone_number"
)

// Strategy settles payment for one method. Implementations are stateless;
// the boolean is the settle outcome, the error is reserved for gateway
// transport failures.
type Strategy interface {
	Pay(ctx context.Context, order *domain.Order, details Details) (bool, error)
	Method() Method
}
