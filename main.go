// main.go

package main

import (
	"errors"
	"flag"
	"log"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// App wires the storefront together. Handlers reach everything through
// this struct; there are no package-level mutable globals.
type App struct {
	cfg     *Config
	log     *zap.SugaredLogger
	kv      *KVStore
	cart    *CartStore
	catalog *Catalog
	ids     *OrderIDSource
}

func main() {
	cfgPath := flag.String("config", "", "path to yaml config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := LoadConfig(*cfgPath)
	if err != nil {
		sugar.Fatalw("load config", "err", err)
	}

	kv, err := OpenKVStore(cfg.DBPath)
	if err != nil {
		sugar.Fatalw("open storage", "path", cfg.DBPath, "err", err)
	}
	defer kv.Close()

	catalog, err := LoadCatalog(cfg.CatalogPath)
	if err != nil {
		sugar.Fatalw("load catalog", "path", cfg.CatalogPath, "err", err)
	}

	app := &App{
		cfg:     cfg,
		log:     sugar,
		kv:      kv,
		cart:    NewCartStore(kv, sugar),
		catalog: catalog,
		ids:     NewOrderIDSource(time.Now().UnixNano()),
	}

	r := app.router()
	sugar.Infow("listening", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		sugar.Fatalw("server", "err", err)
	}
}

func (a *App) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLog(a.log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Products
	r.GET("/api/products", a.listProducts)

	// Cart
	r.GET("/api/cart", a.getCart)
	r.POST("/api/cart", a.addToCart)
	r.POST("/api/cart/:index/increase", a.increaseItem)
	r.POST("/api/cart/:index/decrease", a.decreaseItem)
	r.DELETE("/api/cart/:index", a.removeItem)
	r.DELETE("/api/cart", a.clearCart)

	// Checkout
	r.POST("/api/checkout", a.startCheckout)
	r.GET("/api/checkout", a.checkoutSummary)

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestId", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func requestLog(sugar *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		sugar.Infow("request",
			"id", c.GetString("requestId"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// ----- Products -----

func (a *App) listProducts(c *gin.Context) {
	products := a.catalog.Products()
	if q := c.Query("q"); q != "" {
		products = a.catalog.Search(q)
	} else if cat := c.Query("category"); cat != "" {
		products = a.catalog.ByCategory(cat)
	}
	c.JSON(200, products)
}

// ----- Cart -----

func (a *App) getCart(c *gin.Context) {
	c.JSON(200, gin.H{
		"items":         a.cart.Items(),
		"totalQuantity": a.cart.TotalQuantity(),
		"subtotal":      a.cart.Subtotal(),
	})
}

func (a *App) addToCart(c *gin.Context) {
	var req LineItem
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if req.ID == "" || req.Name == "" || req.Price < 0 {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if req.Color == "" {
		req.Color = "Default"
	}
	if err := a.cart.Add(req); err != nil {
		if errors.Is(err, ErrDuplicateOption) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	a.getCart(c)
}

func cartIndex(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid index"})
		return 0, false
	}
	return i, true
}

func (a *App) increaseItem(c *gin.Context) {
	i, ok := cartIndex(c)
	if !ok {
		return
	}
	if err := a.cart.Increase(i); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	a.getCart(c)
}

func (a *App) decreaseItem(c *gin.Context) {
	i, ok := cartIndex(c)
	if !ok {
		return
	}
	if err := a.cart.Decrease(i); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	a.getCart(c)
}

func (a *App) removeItem(c *gin.Context) {
	i, ok := cartIndex(c)
	if !ok {
		return
	}
	if err := a.cart.Remove(i); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	a.getCart(c)
}

func (a *App) clearCart(c *gin.Context) {
	if err := a.cart.Clear(); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"status": "cleared"})
}

// ----- Checkout -----

func (a *App) startCheckout(c *gin.Context) {
	var req UserInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	items := a.cart.Items()
	if len(items) == 0 {
		c.JSON(400, gin.H{"error": "cart is empty"})
		return
	}
	snap, err := CaptureSnapshot(items, req, a.ids)
	if err != nil {
		var incomplete *IncompleteFormError
		if errors.As(err, &incomplete) {
			c.JSON(400, gin.H{"error": incomplete.Error(), "missing": incomplete.Missing})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := saveSnapshot(a.kv, snap); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, snap)
}

func (a *App) checkoutSummary(c *gin.Context) {
	snap, ok, err := loadSnapshot(a.kv)
	if err != nil {
		// corrupt snapshot: recover to "nothing in progress", keep the
		// detail in the log only
		a.log.Warnw("checkout storage corrupt", "err", err)
		ok = false
	}
	if !ok {
		c.JSON(404, gin.H{"error": "no checkout in progress"})
		return
	}
	summary := Summarize(snap, a.cfg.StoreName, a.cfg.WhatsAppPhone)
	c.JSON(200, gin.H{"order": snap, "summary": summary})
}
