// Package kernel assembles the HTTP handler: global middleware, operational
// endpoints, the static file server for the local disk, and the API routes.
package kernel

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/roastery/app/routes"
	"github.com/shashiranjanraj/roastery/pkg/cache"
	"github.com/shashiranjanraj/roastery/pkg/metrics"
	"github.com/shashiranjanraj/roastery/pkg/middleware"
	"github.com/shashiranjanraj/roastery/pkg/orm"
	"github.com/shashiranjanraj/roastery/pkg/reqid"
	"github.com/shashiranjanraj/roastery/pkg/router"
	"github.com/shashiranjanraj/roastery/pkg/storage"
	"github.com/shashiranjanraj/roastery/pkg/workerpool"
)

// assetWorkers bounds concurrent asset uploads and deletions.
const assetWorkers = 8

// HTTPKernel owns the router and the worker pool behind the asset store.
type HTTPKernel struct {
	router *router.Router
	pool   *workerpool.Pool
}

// NewHTTPKernel builds the full handler. Call after config, database, cache,
// and storage have connected.
func NewHTTPKernel() *HTTPKernel {
	// Wire cache into ORM (breaks the import cycle).
	orm.CacheStore = &ormCache{}

	pool := workerpool.New(assetWorkers)
	opts := storage.DefaultAssetOptions()
	opts.Pool = pool
	assets := storage.NewAssets(storage.Default(), storage.DefaultName(), opts)

	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Recovery          — catches panics before they kill the goroutine
	//  3. Request ID        — inject unique ID before anything logs
	//  4. Logger            — logs request_id from context
	//  5. CORS              — set CORS headers
	//  6. Rate limiter      — reject abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	// Operational endpoints — no auth, no rate limit exemption needed.
	r.HandleFunc("/metrics", metrics.Handler())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Serve local-disk assets; the S3 driver returns absolute URLs instead.
	if root, ok := storage.LocalRoot("local"); ok {
		r.Mount("/storage/", http.StripPrefix("/storage/", http.FileServer(http.Dir(root))))
	}

	routes.RegisterAPI(r, assets)

	return &HTTPKernel{router: r, pool: pool}
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Router exposes the named-route table (route:list).
func (k *HTTPKernel) Router() *router.Router {
	return k.router
}

// Shutdown drains the asset worker pool.
func (k *HTTPKernel) Shutdown() {
	k.pool.Shutdown()
}

// ormCache bridges pkg/cache to the orm.Cacher interface.
// Lives here so neither orm nor cache imports the other.
type ormCache struct{}

func (c *ormCache) Get(key string, dest interface{}) bool {
	return cache.Get(key, dest)
}

func (c *ormCache) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}
