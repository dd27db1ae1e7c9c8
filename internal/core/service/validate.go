package service

import (
	"strings"

	"github.com/novashop/checkout/internal/core/domain"
)

// ValidationError carries field-scoped messages. It blocks a checkout before
// any store or gateway call is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// CheckoutInput is everything the customer submits on the checkout form.
type CheckoutInput struct {
	CartID        string               `json:"cartId"`
	Customer      domain.Customer      `json:"customer"`
	Address       domain.Address       `json:"address"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	CardNumber    string               `json:"cardNumber,omitempty"`
}

// validateCheckout applies the checkout form rules. Formatting characters in
// phone, CPF, zip and card number are tolerated; only digits count.
func validateCheckout(in CheckoutInput) *ValidationError {
	fields := make(map[string]string)

	if in.Customer.Name == "" {
		fields["name"] = "name is required"
	}
	if in.Customer.Email == "" {
		fields["email"] = "email is required"
	}

	phone := digitsOnly(in.Customer.Phone)
	switch {
	case phone == "":
		fields["phone"] = "phone is required"
	case len(phone) < 10:
		fields["phone"] = "phone must have 10 or 11 digits"
	}

	cpf := digitsOnly(in.Customer.CPF)
	switch {
	case cpf == "":
		fields["cpf"] = "CPF is required"
	case len(cpf) != 11:
		fields["cpf"] = "CPF must have exactly 11 digits"
	}

	if in.Address.Street == "" {
		fields["street"] = "street is required"
	}
	if in.Address.Number == "" {
		fields["number"] = "number is required"
	}
	if in.Address.Neighborhood == "" {
		fields["neighborhood"] = "neighborhood is required"
	}
	if in.Address.City == "" {
		fields["city"] = "city is required"
	}
	if in.Address.State == "" {
		fields["state"] = "state is required"
	}

	zip := digitsOnly(in.Address.Zip)
	switch {
	case zip == "":
		fields["zip"] = "zip is required"
	case len(zip) != 8:
		fields["zip"] = "zip must have exactly 8 digits"
	}

	switch in.PaymentMethod {
	case domain.PaymentMethodCard:
		card := digitsOnly(in.CardNumber)
		switch {
		case card == "":
			fields["cardNumber"] = "card number is required"
		case len(card) != 16:
			fields["cardNumber"] = "card number must have exactly 16 digits"
		}
	case domain.PaymentMethodPix:
	default:
		fields["paymentMethod"] = "payment method must be card or pix"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
