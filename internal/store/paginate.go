package store

import "context"

// ======================================================
// Drain — leitura paginada completa
// ======================================================

const (
	// Tamanho fixo de página do store remoto
	DefaultPageSize = 1000

	// Teto de segurança contra loops em coleções inesperadamente
	// grandes; aceita truncar silenciosamente como trade-off.
	DefaultMaxPages = 10
)

type DrainState string

const (
	StateComplete  DrainState = "complete"
	StateTruncated DrainState = "truncated"
)

type DrainResult[T any] struct {
	Rows  []T
	State DrainState
}

// PageFunc busca uma página (offset/limit) da fonte.
type PageFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// Drain esgota a fonte página a página: página curta encerra com
// StateComplete; atingir maxPages encerra com StateTruncated. Qualquer
// erro aborta na hora e descarta o parcial acumulado.
func Drain[T any](ctx context.Context, pageSize, maxPages int, fetch PageFunc[T]) (DrainResult[T], error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var rows []T

	for page := 0; page < maxPages; page++ {
		batch, err := fetch(ctx, page*pageSize, pageSize)
		if err != nil {
			return DrainResult[T]{}, err
		}

		rows = append(rows, batch...)

		if len(batch) < pageSize {
			return DrainResult[T]{Rows: rows, State: StateComplete}, nil
		}
	}

	return DrainResult[T]{Rows: rows, State: StateTruncated}, nil
}

// DrainAll usa os limites padrão (1000 x 10).
func DrainAll[T any](ctx context.Context, fetch PageFunc[T]) (DrainResult[T], error) {
	return Drain(ctx, DefaultPageSize, DefaultMaxPages, fetch)
}
