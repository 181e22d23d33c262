package logger

import (
	"time"

	"go.uber.org/zap"
)

// ─── HTTP ───

func RequestID(v string) zap.Field       { return zap.String("request_id", v) }
func Method(v string) zap.Field          { return zap.String("method", v) }
func Path(v string) zap.Field            { return zap.String("path", v) }
func Route(v string) zap.Field           { return zap.String("route", v) }
func Status(v int) zap.Field             { return zap.Int("status", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }
func Bytes(v int) zap.Field              { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field        { return zap.String("client_ip", v) }

// ─── Dominio ───

// Tenant es el slug del restaurante (tenant) del request.
func Tenant(v string) zap.Field     { return zap.String("tenant", v) }
func UserID(v string) zap.Field     { return zap.String("user_id", v) }
func Role(v string) zap.Field       { return zap.String("role", v) }
func Resource(v string) zap.Field   { return zap.String("resource", v) }
func Collection(v string) zap.Field { return zap.String("collection", v) }

// Upstream identifica la URL del CMS consultada.
func Upstream(v string) zap.Field { return zap.String("upstream", v) }

// Adapter es el nombre del driver de store (mongo, pg, memory).
func Adapter(v string) zap.Field { return zap.String("adapter", v) }

// ─── Estructura ───

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }

// ─── Genéricos ───

func Err(err error) zap.Field               { return zap.Error(err) }
func Count(v int) zap.Field                 { return zap.Int("count", v) }
func Attempt(v int64) zap.Field             { return zap.Int64("attempt", v) }
func String(k, v string) zap.Field          { return zap.String(k, v) }
func Bool(k string, v bool) zap.Field       { return zap.Bool(k, v) }
func Any(k string, v interface{}) zap.Field { return zap.Any(k, v) }
