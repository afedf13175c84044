package cache

import (
	"net"
	"strconv"

	redisstorage "github.com/gofiber/storage/redis"
)

// Storage returns a fiber storage on the cache server using database db.
// Session data and OAuth state live in their own databases next to db 0.
func Storage(db int) *redisstorage.Storage {
	opts := GetClient().Options()
	host, port := "127.0.0.1", 6379
	if h, p, err := net.SplitHostPort(opts.Addr); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}
	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Username: opts.Username,
		Password: opts.Password,
		Database: db,
	})
}
