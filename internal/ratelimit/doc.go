// Package ratelimit counts requests per client address in fixed windows.
//
// Two backends implement [Limiter]: [MemoryLimiter] keeps counters in
// process and [RedisLimiter] keeps them in Redis so several server
// instances share one ceiling.
package ratelimit
