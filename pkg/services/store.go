package services

import "time"

// Store operaciones de almacenamiento que usan los servicios.
// *redis.RedisClient la implementa; los tests usan un almacén en memoria.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string, ttl time.Duration) error
	Delete(key string) error
	AddToSet(key, member string) error
	RemoveFromSet(key, member string) error
	GetSetMembers(key string) ([]string, error)
	PushToList(key, value string) error
	GetList(key string) ([]string, error)
}
