package types

import (
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/samber/lo"
)

// PaymentMethod is how a member settled a period.
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "efectivo"
	PaymentMethodTransfer    PaymentMethod = "transferencia"
	PaymentMethodMercadoPago PaymentMethod = "mercadopago"
	PaymentMethodCard        PaymentMethod = "tarjeta"
)

// DefaultPaymentMethod is used when a payment does not say how it was made.
const DefaultPaymentMethod = PaymentMethodCash

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Validate() error {
	allowed := []PaymentMethod{
		PaymentMethodCash,
		PaymentMethodTransfer,
		PaymentMethodMercadoPago,
		PaymentMethodCard,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid payment method").
			WithHintf("Payment method must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}
