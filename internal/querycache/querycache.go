package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Cache guarda resultados de queries derivadas (agendamentos, reservas
// do cliente, horários livres) no redis, sob um namespace versionado
// por conta. Invalidar = incrementar a versão; as chaves antigas
// expiram sozinhas.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client) *Cache {
	return &Cache{
		rdb: rdb,
		ttl: 10 * time.Minute,
	}
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *Cache) version(ctx context.Context, accountID uuid.UUID) (int64, error) {
	v, err := c.rdb.Get(ctx, "qver:"+accountID.String()).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

func (c *Cache) key(accountID uuid.UUID, version int64, name string) string {
	return fmt.Sprintf("q:%s:%d:%s", accountID, version, name)
}

// Get preenche dest a partir do cache; retorna false em miss.
func (c *Cache) Get(ctx context.Context, accountID uuid.UUID, name string, dest any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	version, err := c.version(ctx, accountID)
	if err != nil {
		return false, err
	}

	raw, err := c.rdb.Get(ctx, c.key(accountID, version, name)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}

	return true, nil
}

func (c *Cache) Set(ctx context.Context, accountID uuid.UUID, name string, value any) error {
	return c.SetTTL(ctx, accountID, name, value, 0)
}

// SetTTL grava com validade própria; zero ou acima do teto cai no
// padrão. Usado por resultados derivados de data, que não podem
// sobreviver à virada do dia.
func (c *Cache) SetTTL(ctx context.Context, accountID uuid.UUID, name string, value any, ttl time.Duration) error {
	if !c.enabled() {
		return nil
	}

	if ttl <= 0 || ttl > c.ttl {
		ttl = c.ttl
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	version, err := c.version(ctx, accountID)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, c.key(accountID, version, name), raw, ttl).Err()
}

// Invalidate marca como velhas todas as queries derivadas da conta.
func (c *Cache) Invalidate(ctx context.Context, accountID uuid.UUID) error {
	if !c.enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return c.rdb.Incr(ctx, "qver:"+accountID.String()).Err()
}
