// Package session implementa ports.SessionStore en memoria (go-cache) y en Redis.
// Los valores se guardan como JSON para que ambas variantes se comporten igual.
package session

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ldtnet/pdv-api/internal/application/ports"
)

// Driver tipo de almacén de sesiones.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverRedis  Driver = "redis"
)

// Options configuración del almacén.
type Options struct {
	Driver        Driver
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New devuelve el almacén según el driver; cualquier valor distinto de redis usa memoria.
// El cierre devuelto libera la conexión a Redis (no-op en memoria).
func New(opts Options) (ports.SessionStore, func() error, error) {
	switch opts.Driver {
	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		return NewRedisStore(client, opts.TTL), client.Close, nil
	case DriverMemory, "":
		return NewMemoryStore(opts.TTL), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("session: driver desconocido %q", opts.Driver)
	}
}
