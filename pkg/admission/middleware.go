package admission

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type errorBody struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Middleware runs the engine for every request. The client address comes from
// ctx.IP(), which honours the proxy header configured on the fiber app.
func Middleware(engine *Engine) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		req := &Request{
			IP:        ctx.IP(),
			Method:    ctx.Method(),
			Path:      ctx.Path(),
			RawQuery:  string(ctx.Request().URI().QueryString()),
			UserAgent: ctx.Get(fiber.HeaderUserAgent),
			Headers:   make(map[string]string, len(inspectedHeaders)),
		}
		for _, h := range inspectedHeaders {
			if v := ctx.Get(h); v != "" {
				req.Headers[h] = v
			}
		}

		decision := engine.Protect(ctx.UserContext(), req)

		if rl := decision.RateLimit; rl != nil {
			ctx.Set("X-RateLimit-Limit", strconv.Itoa(rl.Limit))
			ctx.Set("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining))
		}

		if !decision.IsDenied() {
			return ctx.Next()
		}

		switch decision.Reason {
		case ReasonRateLimit:
			retry := 1
			if decision.RateLimit != nil {
				retry = int(math.Ceil(decision.RateLimit.RetryAfter.Seconds()))
				if retry < 1 {
					retry = 1
				}
			}
			ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
			return ctx.Status(fiber.StatusTooManyRequests).JSON(errorBody{
				Code:    fiber.StatusTooManyRequests,
				Message: "Too many requests",
			})
		case ReasonBot:
			return ctx.Status(fiber.StatusForbidden).JSON(errorBody{
				Code:    fiber.StatusForbidden,
				Message: "Bot detected",
			})
		default:
			return ctx.Status(fiber.StatusForbidden).JSON(errorBody{
				Code:    fiber.StatusForbidden,
				Message: "Forbidden",
			})
		}
	}
}
