package payment

import (
	"context"
	"errors"
	"fmt"
)

// ErrGateway wraps every failure coming out of the payment processor so
// callers can tell infrastructure trouble apart from state conflicts.
var ErrGateway = errors.New("payment gateway error")

// Charge is the gateway's answer to a charge request. Reference is the
// processor-side identifier persisted on the order; ClientHandle is handed to
// the client to complete the payment flow.
type Charge struct {
	Reference    string `json:"reference"`
	ClientHandle string `json:"clientHandle"`
}

// Event is a gateway callback reporting the outcome of a charge.
type Event struct {
	Reference  string `json:"reference" binding:"required"`
	Authorized bool   `json:"authorized"`
}

// Gateway is the capability interface to the external payment processor.
type Gateway interface {
	CreateCharge(ctx context.Context, amount float64, currency string, metadata map[string]string) (Charge, error)
	ReverseCharge(ctx context.Context, reference string) error
}

func gatewayErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrGateway, op, err)
}
