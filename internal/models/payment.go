package models

import (
	"fmt"
	"net/url"
)

// PaymentMethodPromptPay is the only supported payment method: the shopper
// scans a static Thai QR code and the admin confirms the order manually.
const PaymentMethodPromptPay = "promptpay"

// PaymentInstructions tells the shopper how to pay for an order
type PaymentInstructions struct {
	Method    string `json:"method"`
	Amount    int    `json:"amount"`
	Payload   string `json:"payload"`
	QRCodeURL string `json:"qr_code_url"`
}

// NewPromptPayInstructions builds the QR payload for the given PromptPay
// account and amount.
func NewPromptPayInstructions(account string, amount int) PaymentInstructions {
	payload := fmt.Sprintf("PROMPTPAY|%s|%d", account, amount)
	return PaymentInstructions{
		Method:    PaymentMethodPromptPay,
		Amount:    amount,
		Payload:   payload,
		QRCodeURL: "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=" + url.QueryEscape(payload),
	}
}
