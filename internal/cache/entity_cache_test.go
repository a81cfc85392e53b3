package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// fakeSource conta quantas idas ao store cada Resolve provoca.
type fakeSource struct {
	clients    map[uuid.UUID]models.Client
	modalities map[uuid.UUID]models.Modality

	clientCalls   int
	modalityCalls int
	lastAsked     []uuid.UUID
}

func (f *fakeSource) ListClientsByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]models.Client, error) {
	f.clientCalls++
	f.lastAsked = ids

	var out []models.Client
	for _, id := range ids {
		if cl, ok := f.clients[id]; ok {
			out = append(out, cl)
		}
	}
	return out, nil
}

func (f *fakeSource) ListModalitiesByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]models.Modality, error) {
	f.modalityCalls++

	var out []models.Modality
	for _, id := range ids {
		if m, ok := f.modalities[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func newFakeSource() (*fakeSource, models.Client, models.Modality) {
	cl := models.Client{ID: uuid.New(), Name: "Maria"}
	m := models.Modality{ID: uuid.New(), Name: "Pilates", Price: 90}

	return &fakeSource{
		clients:    map[uuid.UUID]models.Client{cl.ID: cl},
		modalities: map[uuid.UUID]models.Modality{m.ID: m},
	}, cl, m
}

func TestResolveClientsSecondCallHitsCache(t *testing.T) {
	src, cl, _ := newFakeSource()
	c := New(src)
	account := uuid.New()

	got, err := c.ResolveClients(context.Background(), account, []uuid.UUID{cl.ID})
	require.NoError(t, err)
	assert.Equal(t, cl.Name, got[cl.ID].Name)
	assert.Equal(t, 1, src.clientCalls)

	// segunda leitura não vai ao store
	got, err = c.ResolveClients(context.Background(), account, []uuid.UUID{cl.ID})
	require.NoError(t, err)
	assert.Equal(t, cl.Name, got[cl.ID].Name)
	assert.Equal(t, 1, src.clientCalls)
}

func TestResolveClientsDedupesAndSkipsNil(t *testing.T) {
	src, cl, _ := newFakeSource()
	c := New(src)
	account := uuid.New()

	got, err := c.ResolveClients(context.Background(), account, []uuid.UUID{
		cl.ID, cl.ID, uuid.Nil, cl.ID,
	})
	require.NoError(t, err)

	assert.Len(t, got, 1)
	assert.Equal(t, 1, src.clientCalls)
	assert.Equal(t, []uuid.UUID{cl.ID}, src.lastAsked)
}

func TestResolveClientsMissingIDStaysAbsent(t *testing.T) {
	src, cl, _ := newFakeSource()
	c := New(src)
	account := uuid.New()

	ghost := uuid.New()

	got, err := c.ResolveClients(context.Background(), account, []uuid.UUID{cl.ID, ghost})
	require.NoError(t, err)

	assert.Contains(t, got, cl.ID)
	assert.NotContains(t, got, ghost)
}

func TestResolveClientsFetchesOnlyMissing(t *testing.T) {
	src, cl, _ := newFakeSource()
	c := New(src)
	account := uuid.New()

	_, err := c.ResolveClients(context.Background(), account, []uuid.UUID{cl.ID})
	require.NoError(t, err)

	other := models.Client{ID: uuid.New(), Name: "João"}
	src.clients[other.ID] = other

	got, err := c.ResolveClients(context.Background(), account, []uuid.UUID{cl.ID, other.ID})
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Equal(t, 2, src.clientCalls)
	assert.Equal(t, []uuid.UUID{other.ID}, src.lastAsked, "só o id que faltava vai ao store")
}

func TestResolveModalities(t *testing.T) {
	src, _, m := newFakeSource()
	c := New(src)
	account := uuid.New()

	got, err := c.ResolveModalities(context.Background(), account, []uuid.UUID{m.ID})
	require.NoError(t, err)
	assert.Equal(t, m.Price, got[m.ID].Price)

	_, err = c.ResolveModalities(context.Background(), account, []uuid.UUID{m.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, src.modalityCalls)
}

func TestCacheIsScopedPerAccount(t *testing.T) {
	src, cl, _ := newFakeSource()
	c := New(src)

	_, err := c.ResolveClients(context.Background(), uuid.New(), []uuid.UUID{cl.ID})
	require.NoError(t, err)

	// outra conta não enxerga o cache da primeira
	_, err = c.ResolveClients(context.Background(), uuid.New(), []uuid.UUID{cl.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, src.clientCalls)
}

func TestPutAndRemoveClient(t *testing.T) {
	src, cl, _ := newFakeSource()
	c := New(src)
	account := uuid.New()

	renamed := cl
	renamed.Name = "Maria Silva"
	c.PutClient(account, renamed)

	got, err := c.ResolveClients(context.Background(), account, []uuid.UUID{cl.ID})
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", got[cl.ID].Name)
	assert.Zero(t, src.clientCalls, "Put alimenta o cache sem ir ao store")

	c.RemoveClient(account, cl.ID)

	_, err = c.ResolveClients(context.Background(), account, []uuid.UUID{cl.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, src.clientCalls)
}

func TestFlushDropsAccount(t *testing.T) {
	src, cl, m := newFakeSource()
	c := New(src)
	account := uuid.New()

	_, err := c.ResolveClients(context.Background(), account, []uuid.UUID{cl.ID})
	require.NoError(t, err)
	_, err = c.ResolveModalities(context.Background(), account, []uuid.UUID{m.ID})
	require.NoError(t, err)

	c.Flush(account)

	_, err = c.ResolveClients(context.Background(), account, []uuid.UUID{cl.ID})
	require.NoError(t, err)
	_, err = c.ResolveModalities(context.Background(), account, []uuid.UUID{m.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, src.clientCalls)
	assert.Equal(t, 2, src.modalityCalls)
}
