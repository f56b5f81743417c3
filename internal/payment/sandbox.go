package payment

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// SandboxGateway is an in-process gateway for development and local testing.
// Charges always succeed; reversals fail for unknown references.
type SandboxGateway struct {
	mu      sync.Mutex
	charges map[string]float64
}

func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{charges: make(map[string]float64)}
}

func (g *SandboxGateway) CreateCharge(ctx context.Context, amount float64, currency string, metadata map[string]string) (Charge, error) {
	ref := "sbx_" + uuid.NewString()

	g.mu.Lock()
	g.charges[ref] = amount
	g.mu.Unlock()

	log.Printf("[PAYMENT] [INFO] sandbox charge %s created: %.2f %s", ref, amount, currency)
	return Charge{
		Reference:    ref,
		ClientHandle: "sbx_secret_" + uuid.NewString(),
	}, nil
}

func (g *SandboxGateway) ReverseCharge(ctx context.Context, reference string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.charges[reference]; !ok {
		return fmt.Errorf("unknown charge reference %q", reference)
	}
	delete(g.charges, reference)
	log.Printf("[PAYMENT] [INFO] sandbox charge %s reversed", reference)
	return nil
}
