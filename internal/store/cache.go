package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Connector abre un handle nuevo.
type Connector func(ctx context.Context) (Handle, error)

// ConnectionCache entrega un único Handle por proceso.
//
// El primer Acquire dispara la conexión; los llamadores concurrentes esperan
// ese mismo intento. Un handle exitoso se reutiliza hasta Close. Un fallo se
// devuelve a todos los que esperaban y no se guarda: el siguiente Acquire
// vuelve a intentar. No hay expiración ni health-check.
type ConnectionCache struct {
	connect Connector

	mu     sync.RWMutex
	handle Handle

	sf       singleflight.Group
	attempts atomic.Int64

	// OnConnect se invoca tras cada intento (err nil si conectó).
	OnConnect func(attempt int64, err error)
}

// NewConnectionCache valida cfg y prepara el cache sin conectar.
// Falla de inmediato si la URI falta o su esquema no tiene adapter.
func NewConnectionCache(cfg Config) (*ConnectionCache, error) {
	a, err := AdapterFor(cfg.URI)
	if err != nil {
		return nil, err
	}
	return NewConnectionCacheWith(func(ctx context.Context) (Handle, error) {
		return a.Connect(ctx, cfg)
	}), nil
}

// NewConnectionCacheWith usa un Connector arbitrario.
func NewConnectionCacheWith(connect Connector) *ConnectionCache {
	return &ConnectionCache{connect: connect}
}

// Acquire retorna el handle compartido, conectando si todavía no existe.
func (c *ConnectionCache) Acquire(ctx context.Context) (Handle, error) {
	if h := c.current(); h != nil {
		return h, nil
	}

	v, err, _ := c.sf.Do("handle", func() (any, error) {
		// Double-check: otro intento pudo terminar antes de entrar al grupo.
		if h := c.current(); h != nil {
			return h, nil
		}
		n := c.attempts.Add(1)
		// El intento es compartido: no depende de la cancelación del primer llamador.
		h, err := c.connect(context.WithoutCancel(ctx))
		if c.OnConnect != nil {
			c.OnConnect(n, err)
		}
		if err != nil {
			return nil, fmt.Errorf("store: connect: %w", err)
		}
		c.mu.Lock()
		c.handle = h
		c.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Handle), nil
}

// Attempts retorna cuántas veces se invocó al Connector.
func (c *ConnectionCache) Attempts() int64 { return c.attempts.Load() }

// Connected indica si hay un handle en cache.
func (c *ConnectionCache) Connected() bool { return c.current() != nil }

// Close cierra el handle. Solo lo usa el shutdown del proceso.
func (c *ConnectionCache) Close(ctx context.Context) error {
	c.mu.Lock()
	h := c.handle
	c.handle = nil
	c.mu.Unlock()
	if h == nil {
		return nil
	}
	return h.Close(ctx)
}

func (c *ConnectionCache) current() Handle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.handle
}
