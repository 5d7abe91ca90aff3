package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/clinicalos/clinic-api/internal/handler"
	"github.com/clinicalos/clinic-api/pkg/circuitbreaker"
)

type LoginThrottleConfig struct {
	MaxAttempts int
	Window      time.Duration
}

func DefaultLoginThrottleConfig() LoginThrottleConfig {
	return LoginThrottleConfig{
		MaxAttempts: 10,
		Window:      time.Minute,
	}
}

// LoginThrottle limits login attempts per client IP using a fixed window
// counter in redis. When redis is down the breaker fails open so an outage
// never locks everyone out.
type LoginThrottle struct {
	client *redis.Client
	cb     *circuitbreaker.CircuitBreaker
	config LoginThrottleConfig
	logger *zerolog.Logger
}

func NewLoginThrottle(client *redis.Client, config LoginThrottleConfig, logger *zerolog.Logger) *LoginThrottle {
	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "login-throttle",
		MaxFailures: 3,
		Timeout:     15 * time.Second,
	})
	return &LoginThrottle{
		client: client,
		cb:     cb,
		config: config,
		logger: logger,
	}
}

func (t *LoginThrottle) Throttle() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("login_attempts:%s", c.ClientIP())

		var attempts int64
		err := t.cb.Execute(func() error {
			ctx := c.Request.Context()
			n, err := t.client.Incr(ctx, key).Result()
			if err != nil {
				return err
			}
			if n == 1 {
				t.client.Expire(ctx, key, t.config.Window)
			}
			attempts = n
			return nil
		})
		if err != nil {
			t.logger.Warn().Err(err).Msg("login throttle unavailable, failing open")
			c.Next()
			return
		}

		if attempts > int64(t.config.MaxAttempts) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, handler.NewErrorResponse("too many login attempts, try again later"))
			return
		}

		c.Next()
	}
}
