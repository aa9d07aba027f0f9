package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter returns a Gin middleware that limits requests per IP. The
// limiter state lives in Redis so the limit holds across replicas; it falls
// back to the in-memory store when Redis is unavailable.
func RateLimiter(client *redis.Client) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  100,
	}

	var store limiter.Store
	if client != nil {
		var err error
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix: "ratelimit",
		})
		if err != nil {
			log.Printf("⚠️ Redis limiter store unavailable, using memory store: %v", err)
			store = memory.NewStore()
		}
	} else {
		store = memory.NewStore()
	}

	instance := limiter.New(store, rate)
	return ginlimiter.NewMiddleware(instance)
}
