package store

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// Adapter abre handles para uno o más esquemas de URI.
type Adapter interface {
	// Name retorna el nombre del driver ("mongo", "pg", "memory").
	Name() string
	// Schemes lista los esquemas que atiende (ej: "mongodb", "mongodb+srv").
	Schemes() []string
	Connect(ctx context.Context, cfg Config) (Handle, error)
}

// Config describe cómo conectar al store.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// ─── Registry Global ───

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// RegisterAdapter registra a por cada uno de sus esquemas. Llamar en init().
func RegisterAdapter(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, scheme := range a.Schemes() {
		scheme = strings.ToLower(scheme)
		if prev, exists := adapters[scheme]; exists {
			panic(fmt.Sprintf("store: scheme %q already registered by %q", scheme, prev.Name()))
		}
		adapters[scheme] = a
	}
}

// AdapterFor resuelve el adapter que atiende el esquema de uri.
func AdapterFor(uri string) (Adapter, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, ErrNotConfigured
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, redact(uri))
	}
	registryMu.RLock()
	a, ok := adapters[strings.ToLower(u.Scheme)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, u.Scheme)
	}
	return a, nil
}

// Schemes retorna los esquemas registrados, ordenados.
func Schemes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(adapters))
	for s := range adapters {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Open conecta usando el adapter que corresponde a cfg.URI.
func Open(ctx context.Context, cfg Config) (Handle, error) {
	a, err := AdapterFor(cfg.URI)
	if err != nil {
		return nil, err
	}
	return a.Connect(ctx, cfg)
}

// redact oculta credenciales de una URI para mensajes de error.
func redact(uri string) string {
	if i := strings.Index(uri, "@"); i >= 0 {
		if j := strings.Index(uri, "://"); j >= 0 && j < i {
			return uri[:j+3] + "***" + uri[i:]
		}
	}
	return uri
}
