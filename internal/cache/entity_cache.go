package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// Source é o recorte do store usado para buscar apenas os ids que
// ainda não estão em cache.
type Source interface {
	ListClientsByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]models.Client, error)
	ListModalitiesByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]models.Modality, error)
}

// EntityCache guarda clientes e modalidades por conta, em memória,
// pela vida da sessão. Objeto explícito injetado na montagem (nada de
// mapas globais) e descartado por conta no logout.
type EntityCache struct {
	mu     sync.Mutex
	source Source

	clients    map[uuid.UUID]map[uuid.UUID]models.Client
	modalities map[uuid.UUID]map[uuid.UUID]models.Modality
}

func New(source Source) *EntityCache {
	return &EntityCache{
		source:     source,
		clients:    make(map[uuid.UUID]map[uuid.UUID]models.Client),
		modalities: make(map[uuid.UUID]map[uuid.UUID]models.Modality),
	}
}

// ======================================================
// Resolve
// ======================================================

// ResolveClients devolve os registros de todos os ids pedidos, buscando
// no store só o que falta e mesclando no cache antes de responder.
// Ids inexistentes ficam simplesmente ausentes do mapa.
func (c *EntityCache) ResolveClients(
	ctx context.Context,
	accountID uuid.UUID,
	ids []uuid.UUID,
) (map[uuid.UUID]models.Client, error) {

	want := dedupe(ids)

	c.mu.Lock()
	bucket, ok := c.clients[accountID]
	if !ok {
		bucket = make(map[uuid.UUID]models.Client)
		c.clients[accountID] = bucket
	}

	var missing []uuid.UUID
	for _, id := range want {
		if _, ok := bucket[id]; !ok {
			missing = append(missing, id)
		}
	}
	c.mu.Unlock()

	if len(missing) > 0 {
		fetched, err := c.source.ListClientsByIDs(ctx, accountID, missing)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		for _, cl := range fetched {
			bucket[cl.ID] = cl
		}
		c.mu.Unlock()
	}

	out := make(map[uuid.UUID]models.Client, len(want))
	c.mu.Lock()
	for _, id := range want {
		if rec, ok := bucket[id]; ok {
			out[id] = rec
		}
	}
	c.mu.Unlock()

	return out, nil
}

func (c *EntityCache) ResolveModalities(
	ctx context.Context,
	accountID uuid.UUID,
	ids []uuid.UUID,
) (map[uuid.UUID]models.Modality, error) {

	want := dedupe(ids)

	c.mu.Lock()
	bucket, ok := c.modalities[accountID]
	if !ok {
		bucket = make(map[uuid.UUID]models.Modality)
		c.modalities[accountID] = bucket
	}

	var missing []uuid.UUID
	for _, id := range want {
		if _, ok := bucket[id]; !ok {
			missing = append(missing, id)
		}
	}
	c.mu.Unlock()

	if len(missing) > 0 {
		fetched, err := c.source.ListModalitiesByIDs(ctx, accountID, missing)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		for _, m := range fetched {
			bucket[m.ID] = m
		}
		c.mu.Unlock()
	}

	out := make(map[uuid.UUID]models.Modality, len(want))
	c.mu.Lock()
	for _, id := range want {
		if rec, ok := bucket[id]; ok {
			out[id] = rec
		}
	}
	c.mu.Unlock()

	return out, nil
}

// ======================================================
// Reconciliação pós-mutação
// ======================================================

func (c *EntityCache) PutClient(accountID uuid.UUID, client models.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.clients[accountID]
	if !ok {
		bucket = make(map[uuid.UUID]models.Client)
		c.clients[accountID] = bucket
	}
	bucket[client.ID] = client
}

func (c *EntityCache) PutModality(accountID uuid.UUID, m models.Modality) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.modalities[accountID]
	if !ok {
		bucket = make(map[uuid.UUID]models.Modality)
		c.modalities[accountID] = bucket
	}
	bucket[m.ID] = m
}

func (c *EntityCache) RemoveClient(accountID uuid.UUID, clientID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if bucket, ok := c.clients[accountID]; ok {
		delete(bucket, clientID)
	}
}

func (c *EntityCache) RemoveModality(accountID uuid.UUID, modalityID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if bucket, ok := c.modalities[accountID]; ok {
		delete(bucket, modalityID)
	}
}

// Flush descarta tudo da conta (logout / troca de conta).
func (c *EntityCache) Flush(accountID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.clients, accountID)
	delete(c.modalities, accountID)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
