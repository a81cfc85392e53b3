package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fonte fake com N registros sequenciais
func sourceOf(total int) PageFunc[int] {
	return func(ctx context.Context, offset, limit int) ([]int, error) {
		if offset >= total {
			return nil, nil
		}
		end := offset + limit
		if end > total {
			end = total
		}
		out := make([]int, 0, end-offset)
		for i := offset; i < end; i++ {
			out = append(out, i)
		}
		return out, nil
	}
}

func TestDrainComplete(t *testing.T) {
	tests := []struct {
		name  string
		total int
	}{
		{"vazio", 0},
		{"menos de uma pagina", 7},
		{"pagina exata", 10},
		{"varias paginas", 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Drain(context.Background(), 10, 10, sourceOf(tt.total))
			require.NoError(t, err)

			assert.Equal(t, StateComplete, res.State)
			assert.Len(t, res.Rows, tt.total)
		})
	}
}

func TestDrainTruncatesAtPageCeiling(t *testing.T) {
	// 10 páginas de 10 lotam o teto; o resto fica para trás
	res, err := Drain(context.Background(), 10, 10, sourceOf(150))
	require.NoError(t, err)

	assert.Equal(t, StateTruncated, res.State)
	assert.Len(t, res.Rows, 100)
}

func TestDrainExactCeilingIsTruncated(t *testing.T) {
	// coleção que termina exatamente no teto: sem a página curta de
	// confirmação, o resultado é reportado como truncado
	res, err := Drain(context.Background(), 10, 10, sourceOf(100))
	require.NoError(t, err)

	assert.Equal(t, StateTruncated, res.State)
	assert.Len(t, res.Rows, 100)
}

func TestDrainErrorDiscardsPartial(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	fetch := func(ctx context.Context, offset, limit int) ([]int, error) {
		calls++
		if calls == 3 {
			return nil, boom
		}
		out := make([]int, limit)
		return out, nil
	}

	res, err := Drain(context.Background(), 10, 10, fetch)
	require.ErrorIs(t, err, boom)

	assert.Empty(t, res.Rows)
	assert.Equal(t, 3, calls)
}

func TestDrainAllUsesDefaults(t *testing.T) {
	res, err := DrainAll(context.Background(), sourceOf(DefaultPageSize+1))
	require.NoError(t, err)

	assert.Equal(t, StateComplete, res.State)
	assert.Len(t, res.Rows, DefaultPageSize+1)
}
