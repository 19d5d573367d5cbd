package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"go-restaurant-radar/internal/core/config"
)

type recMod struct {
	name  string
	prio  int
	order *[]string
}

func (m recMod) Priority() int               { return m.prio }
func (m recMod) MountAPI(*gin.RouterGroup)   { *m.order = append(*m.order, "api:"+m.name) }
func (m recMod) MountAdmin(*gin.RouterGroup) { *m.order = append(*m.order, "admin:"+m.name) }

type publicOnly struct{ order *[]string }

func (m publicOnly) MountPublic(*gin.RouterGroup) { *m.order = append(*m.order, "public") }

func TestRegistryOrdersByPriority(t *testing.T) {
	var order []string
	reg := NewRegistry(
		recMod{name: "late", prio: 200, order: &order},
		recMod{name: "first", prio: 0, order: &order},
		publicOnly{order: &order},
	)
	g := gin.New().Group("/")
	reg.MountPublic(g)
	reg.MountAPI(g)
	reg.MountAdmin(g)

	want := []string{"public", "api:first", "api:late", "admin:first", "admin:late"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	zero := withDefaults(config.Limits{})
	if zero.RPS <= 0 || zero.Burst <= 0 || zero.Concurrency <= 0 || zero.MaxBodyMB <= 0 || zero.TimeoutSec <= 0 {
		t.Fatalf("defaults not applied: %+v", zero)
	}
}

func TestEngineWithoutModules(t *testing.T) {
	r := NewAPIEngine(Options{Mode: gin.TestMode})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}
}
