package payments

import (
	"context"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

// ======================================================
// Checkout (Mercado Pago)
// ======================================================

type PreferenceInput struct {
	Title      string
	Amount     float64
	Reference  string
	PayerEmail string
}

// Checkout cria a cobrança do agendamento online. Implementado pelo
// Mercado Pago; os usecases só conhecem a interface.
type Checkout interface {
	CreatePreference(ctx context.Context, in PreferenceInput) (string, error)
}

type MercadoPago struct {
	client preference.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}

	return &MercadoPago{
		client: preference.NewClient(cfg),
	}, nil
}

// CreatePreference retorna a URL de checkout (init point).
func (m *MercadoPago) CreatePreference(
	ctx context.Context,
	in PreferenceInput,
) (string, error) {

	req := preference.Request{
		ExternalReference: in.Reference,
		Items: []preference.ItemRequest{
			{
				Title:     in.Title,
				Quantity:  1,
				UnitPrice: in.Amount,
			},
		},
	}

	if in.PayerEmail != "" {
		req.Payer = &preference.PayerRequest{Email: in.PayerEmail}
	}

	resource, err := m.client.Create(ctx, req)
	if err != nil {
		return "", err
	}

	return resource.InitPoint, nil
}

var _ Checkout = (*MercadoPago)(nil)
