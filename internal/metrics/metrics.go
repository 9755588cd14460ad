package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPRequests counts handled requests by method and status class.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "airwaves",
	Name:      "http_requests_total",
	Help:      "HTTP requests handled, by method and status code.",
}, []string{"method", "status"})

// TokenCacheHits counts bearer validations served from the Redis cache.
var TokenCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "airwaves",
	Name:      "token_cache_hits_total",
	Help:      "Token validations answered from cache.",
})

// TokenCacheMisses counts bearer validations that called the identity provider.
var TokenCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "airwaves",
	Name:      "token_cache_misses_total",
	Help:      "Token validations that required an upstream userinfo call.",
})
