package order

import (
	"dispatch/internal/pkg/errs"
)

// PaymentMethod identifies how the customer pays for an order.
type PaymentMethod int

const (
	// PaymentMethodUnknown represents an invalid or undefined payment method.
	PaymentMethodUnknown PaymentMethod = iota

	// CashOnDelivery means the courier collects cash at the door.
	// Delivery completion is gated on settlement for this method.
	CashOnDelivery

	// Prepaid means the order was paid through the payment gateway at checkout.
	Prepaid
)

// getPaymentMethodStrings returns a map of PaymentMethod values to their string representations.
func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentMethodUnknown: "Unknown",
		CashOnDelivery:       "CashOnDelivery",
		Prepaid:              "Prepaid",
	}
}

// Validate checks if the PaymentMethod value is valid.
func (m PaymentMethod) Validate() error {
	if m != CashOnDelivery && m != Prepaid {
		return errs.NewValueIsInvalidError("payment method")
	}
	return nil
}

// String returns the human-readable name of the payment method.
func (m PaymentMethod) String() string {
	if str, ok := getPaymentMethodStrings()[m]; ok {
		return str
	}
	return "Unknown"
}

// PaymentMethodFromString parses a payment method from its string representation.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	for method, str := range getPaymentMethodStrings() {
		if str == s && method != PaymentMethodUnknown {
			return method, nil
		}
	}
	return PaymentMethodUnknown, errs.NewValueIsInvalidError("payment method")
}

// PaymentStatus tracks the settlement state of an order's payment.
type PaymentStatus int

const (
	// PaymentStatusUnknown represents an invalid or undefined payment status.
	PaymentStatusUnknown PaymentStatus = iota

	// PaymentPending means funds have not been confirmed yet.
	// For cash on delivery this lasts until cash is reconciled as collected.
	PaymentPending

	// PaymentCompleted means funds were confirmed (gateway capture or cash settlement).
	PaymentCompleted

	// PaymentFailed means the gateway declined or the capture failed.
	PaymentFailed

	// PaymentRefunded means a completed payment was returned to the customer.
	PaymentRefunded
)

// getPaymentStatusStrings returns a map of PaymentStatus values to their string representations.
func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentStatusUnknown: "Unknown",
		PaymentPending:       "Pending",
		PaymentCompleted:     "Completed",
		PaymentFailed:        "Failed",
		PaymentRefunded:      "Refunded",
	}
}

// Validate checks if the PaymentStatus value is valid.
func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return nil
	default:
		return errs.NewValueIsInvalidError("payment status")
	}
}

// String returns the human-readable name of the payment status.
func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// PaymentStatusFromString parses a payment status from its string representation.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, str := range getPaymentStatusStrings() {
		if str == s && status != PaymentStatusUnknown {
			return status, nil
		}
	}
	return PaymentStatusUnknown, errs.NewValueIsInvalidError("payment status")
}
