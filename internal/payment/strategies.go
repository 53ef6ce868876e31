package payment

import (
	"context"

	"github.com/fjod/go_order/internal/domain"
)

// cashOnDeliveryStrategy collects payment at the door; settling always
// succeeds and never reaches a gateway.
type cashOnDeliveryStrategy struct{}

func (cashOnDeliveryStrategy) Method() Method { return MethodCashOnDelivery }

func (cashOnDeliveryStrategy) Pay(context.Context, *domain.Order, Details) (bool, error) {
	return true, nil
}

type cardStrategy struct {
	gateway Gateway
}

func (cardStrategy) Method() Method { return MethodCard }

func (s cardStrategy) Pay(ctx context.Context, order *domain.Order, details Details) (bool, error) {
	if details[DetailCardNumber] == "" ||
		details[DetailCardExpiry] == "" ||
		details[DetailCardCVC] == "" {
		return false, nil
	}
	return s.gateway.Settle(ctx, MethodCard, order.FinalAmount())
}

type bankTransferStrategy struct {
	gateway Gateway
}

func (bankTransferStrategy) Method() Method { return MethodBankTransfer }

func (s bankTransferStrategy) Pay(ctx context.Context, order *domain.Order, details Details) (bool, error) {
	if details[DetailAccountNumber] == "" || details[DetailBankName] == "" {
		return false, nil
	}
	return s.gateway.Settle(ctx, MethodBankTransfer, order.FinalAmount())
}

// minPhoneDigits is the shortest wallet phone number accepted.
const minPhoneDigits = 9

type eWalletStrategy struct {
	gateway Gateway
}

func (eWalletStrategy) Method() Method { return MethodEWallet }

func (s eWalletStrategy) Pay(ctx context.Context, order *domain.Order, details Details) (bool, error) {
	if len(details[DetailPhoneNumber]) < minPhoneDigits {
		return false, nil
	}
	return s.gateway.Settle(ctx, MethodEWallet, order.FinalAmount())
}
