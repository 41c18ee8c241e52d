package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/supplybot/supplybot-backend/api/controllers"
	catalogcontrollers "github.com/supplybot/supplybot-backend/api/controllers/catalog"
	draftcontrollers "github.com/supplybot/supplybot-backend/api/controllers/drafts"
	"github.com/supplybot/supplybot-backend/api/middleware"
	draftsvc "github.com/supplybot/supplybot-backend/internal/drafts"
	"github.com/supplybot/supplybot-backend/pkg/config"
	"github.com/supplybot/supplybot-backend/pkg/db"
	"github.com/supplybot/supplybot-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	engine catalogcontrollers.Engine,
	draftService draftsvc.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Actor(logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/match", catalogcontrollers.Match(engine, logg))
			r.Get("/suggest", catalogcontrollers.Suggest(engine, logg, cfg.Matching.SuggestionLimit))
			r.Get("/autocomplete", catalogcontrollers.AutoComplete(engine, logg, cfg.Matching.AutoCompleteLimit))
			r.Get("/categories", catalogcontrollers.Categories(engine, logg))
			r.Get("/categories/{category}/products", catalogcontrollers.ProductsByCategory(engine, logg))
			r.Get("/products/{name}/synonyms", catalogcontrollers.ProductSynonyms(engine, logg))
			r.Post("/synonyms", catalogcontrollers.AddSynonym(engine, logg))
			r.Post("/learn", catalogcontrollers.Learn(engine, logg))
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", draftcontrollers.Open(draftService, logg))
			r.Get("/current", draftcontrollers.Current(draftService, logg))
			r.Post("/{draftID}/lines", draftcontrollers.AddLines(draftService, logg))
			r.Post("/{draftID}/send", draftcontrollers.Send(draftService, logg))
		})

		r.Route("/draft-items", func(r chi.Router) {
			r.Post("/{itemID}/confirm", draftcontrollers.ConfirmItem(draftService, logg))
			r.Patch("/{itemID}/quantity", draftcontrollers.UpdateItemQuantity(draftService, logg))
			r.Delete("/{itemID}", draftcontrollers.RemoveItem(draftService, logg))
		})
	})

	return r
}
