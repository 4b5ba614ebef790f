package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
	icache "github.com/umi1970/TradeMatrix-sub001/internal/service/cache"
	"github.com/umi1970/TradeMatrix-sub001/internal/service/metrics"
	"github.com/umi1970/TradeMatrix-sub001/internal/service/ratelimit"
	"github.com/umi1970/TradeMatrix-sub001/internal/usecase"
	applogger "github.com/umi1970/TradeMatrix-sub001/pkg/logger"
	xutil "github.com/umi1970/TradeMatrix-sub001/pkg/util"
)

// DecisionHandler exposes read-side decision endpoints over plain net/http,
// with per-remote rate limiting and short-TTL response caching.
type DecisionHandler struct {
	stats   *usecase.DecisionStatsUseCase
	levels  *usecase.LevelsUseCase
	scanner *usecase.AlertScanner
	cache   icache.BytesCache
	rl      *ratelimit.Limiter
	l       *applogger.Logger
}

func NewDecisionHandler(stats *usecase.DecisionStatsUseCase, levels *usecase.LevelsUseCase, scanner *usecase.AlertScanner) *DecisionHandler {
	metrics.Register()
	return &DecisionHandler{stats: stats, levels: levels, scanner: scanner, rl: ratelimit.New()}
}

func (h *DecisionHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetLogger injects a structured logger.
func (h *DecisionHandler) SetLogger(l *applogger.Logger) { h.l = l }

func (h *DecisionHandler) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := "stats"
		defer func() { metrics.EvaluateLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			if h.l != nil {
				h.l.Warn("decision.stats missing symbol")
			}
			http.Error(w, "symbol required", http.StatusBadRequest)
			return
		}
		hours := parseInt(r.URL.Query().Get("hours"), 24)
		if !h.rl.Allow(r.RemoteAddr+":stats", 5, 2) {
			if h.l != nil {
				h.l.Warn("decision.stats rate_limited", applogger.String("remote", r.RemoteAddr))
			}
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		cacheKey := "stats:" + symbol + ":" + strconv.Itoa(hours)
		if h.serveCached(w, endpoint, cacheKey) {
			return
		}
		res, err := h.stats.GetStats(r.Context(), usecase.GetStatsParams{Symbol: symbol, Hours: hours})
		if err != nil {
			metrics.EvaluateErrors.WithLabelValues(endpoint).Inc()
			if h.l != nil {
				h.l.Error("decision.stats error", applogger.Error(err))
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, endpoint, cacheKey, res, 30*time.Second)
	}
}

func (h *DecisionHandler) Levels() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := "levels"
		defer func() { metrics.EvaluateLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			if h.l != nil {
				h.l.Warn("decision.levels missing symbol")
			}
			http.Error(w, "symbol required", http.StatusBadRequest)
			return
		}
		date := time.Now().UTC()
		if d := r.URL.Query().Get("date"); d != "" {
			parsed, err := time.Parse("2006-01-02", d)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = parsed
		}
		if !h.rl.Allow(r.RemoteAddr+":levels", 5, 2) {
			if h.l != nil {
				h.l.Warn("decision.levels rate_limited", applogger.String("remote", r.RemoteAddr))
			}
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		cacheKey := "levels:" + symbol + ":" + date.Format("2006-01-02")
		if h.serveCached(w, endpoint, cacheKey) {
			return
		}
		lv, err := h.levels.Resolve(r.Context(), symbol, date)
		if err != nil {
			metrics.EvaluateErrors.WithLabelValues(endpoint).Inc()
			if h.l != nil {
				h.l.Error("decision.levels error", applogger.Error(err))
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, endpoint, cacheKey, lv, 60*time.Second)
	}
}

func (h *DecisionHandler) ScanAlerts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := "scan"
		defer func() { metrics.EvaluateLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			if h.l != nil {
				h.l.Warn("decision.scan missing symbol")
			}
			http.Error(w, "symbol required", http.StatusBadRequest)
			return
		}
		n := parseInt(r.URL.Query().Get("n"), 50)
		tf := domrepo.NormalizeTimeframe(r.URL.Query().Get("tf"))
		if !h.rl.Allow(r.RemoteAddr+":scan", 3, 1) {
			if h.l != nil {
				h.l.Warn("decision.scan rate_limited", applogger.String("remote", r.RemoteAddr))
			}
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		// scan mutates setup state; never served from cache
		res, err := h.scanner.Scan(r.Context(), symbol, n, tf)
		if err != nil {
			metrics.EvaluateErrors.WithLabelValues(endpoint).Inc()
			if h.l != nil {
				h.l.Error("decision.scan error", applogger.Error(err))
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, endpoint, "", res, 0)
	}
}

func (h *DecisionHandler) serveCached(w http.ResponseWriter, endpoint, key string) bool {
	if h.cache == nil || key == "" {
		return false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		if h.l != nil {
			h.l.Warn("decision."+endpoint+" cache_get_error", applogger.Error(err))
		}
		return false
	}
	if !ok {
		if h.l != nil {
			h.l.Debug("decision."+endpoint+" cache_miss", applogger.String("key", key))
		}
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	if h.l != nil {
		h.l.Debug("decision."+endpoint+" cache_hit", applogger.String("key", key))
	}
	if _, err := w.Write(b); err != nil && h.l != nil {
		h.l.Warn("decision."+endpoint+" write_error", applogger.Error(err))
	}
	return true
}

func (h *DecisionHandler) writeJSON(w http.ResponseWriter, endpoint, cacheKey string, v interface{}, ttl time.Duration) {
	w.Header().Set("Content-Type", "application/json")
	b, err := json.Marshal(v)
	if err != nil {
		if h.l != nil {
			h.l.Error("decision."+endpoint+" marshal_error", applogger.Error(err))
		}
		http.Error(w, "encode error", http.StatusInternalServerError)
		return
	}
	if h.cache != nil && cacheKey != "" && ttl > 0 {
		if err := h.cache.SetBytes(cacheKey, b, ttl); err != nil && h.l != nil {
			h.l.Warn("decision."+endpoint+" cache_set_error", applogger.Error(err))
		}
	}
	if _, err := w.Write(b); err != nil && h.l != nil {
		h.l.Warn("decision."+endpoint+" write_error", applogger.Error(err))
	}
}

func parseInt(s string, def int) int { return xutil.ParseIntDefault(s, def) }
