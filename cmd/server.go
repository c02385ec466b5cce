package cmd

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"segue/config"
	"segue/handlers"
	"segue/middleware"
	"segue/services"
	"segue/websocket"
)

// StartWebServer starts the web server. A positive port wins over the
// SEGUE_PORT environment variable.
func StartWebServer(port int) {
	// Set production mode if not specified
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := NewRouter()

	// Start server
	portStr := config.Port()
	if port > 0 {
		portStr = strconv.Itoa(port)
	}

	log.Printf("Segue web server starting on port %s", portStr)
	if err := r.Run(":" + portStr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// NewRouter builds the fully wired engine: services, handlers, middleware
// and routes. StartWebServer runs it; tests drive it directly.
func NewRouter() *gin.Engine {
	// Initialize services
	hub := websocket.NewHub()
	go hub.Run()

	store := services.NewLibraryStore(hub, config.LibraryTTL())
	store.StartSweeper(time.Minute)

	searchService := services.NewSearchService()
	duplicateService := services.NewDuplicateService()
	metadataService := services.NewMetadataService()
	statsService := services.NewStatsService()
	smartlistService := services.NewSmartlistService()
	playlistService := services.NewPlaylistService()
	transitionService := services.NewTransitionService()
	pathService := services.NewPathService()
	enrichService := services.NewEnrichService()

	// Initialize handlers
	libraryHandler := handlers.NewLibraryHandler(store, searchService, hub)
	exportHandler := handlers.NewExportHandler(store)
	analysisHandler := handlers.NewAnalysisHandler(store, duplicateService, statsService)
	metadataHandler := handlers.NewMetadataHandler(store, metadataService, hub)
	playlistHandler := handlers.NewPlaylistHandler(store, smartlistService, playlistService, hub)
	searchHandler := handlers.NewSearchHandler(store, searchService, transitionService)
	pathHandler := handlers.NewPathHandler(store, pathService, hub)
	enrichHandler := handlers.NewEnrichHandler(store, enrichService, hub)
	eventsHandler := handlers.NewEventsHandler(store, hub)
	healthHandler := handlers.NewHealthHandler(store)

	// Setup router
	r := gin.New()

	// Apply middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.Logging())
	r.Use(middleware.Security())
	r.Use(middleware.BodyLimit(config.MaxUploadBytes()))

	// Setup routes
	setupRoutes(r, routeHandlers{
		library:   libraryHandler,
		export:    exportHandler,
		analysis:  analysisHandler,
		metadata:  metadataHandler,
		playlists: playlistHandler,
		search:    searchHandler,
		paths:     pathHandler,
		enrich:    enrichHandler,
		events:    eventsHandler,
		health:    healthHandler,
	})

	return r
}

// routeHandlers bundles every handler the router needs.
type routeHandlers struct {
	library   *handlers.LibraryHandler
	export    *handlers.ExportHandler
	analysis  *handlers.AnalysisHandler
	metadata  *handlers.MetadataHandler
	playlists *handlers.PlaylistHandler
	search    *handlers.SearchHandler
	paths     *handlers.PathHandler
	enrich    *handlers.EnrichHandler
	events    *handlers.EventsHandler
	health    *handlers.HealthHandler
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, h routeHandlers) {
	// Health check endpoint
	r.GET("/health", h.health.HealthCheck)

	// API routes group
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", h.health.APIStatus)

		// Library lifecycle endpoints
		apiGroup.POST("/import", h.library.Import)
		apiGroup.GET("/libraries", h.library.List)

		// Per-library endpoints
		libraryGroup := apiGroup.Group("/library/:id")
		{
			libraryGroup.GET("", h.library.Get)
			libraryGroup.DELETE("", h.library.Delete)
			libraryGroup.GET("/tracks", h.library.Tracks)

			// Export endpoints
			libraryGroup.POST("/export", h.export.Export)
			libraryGroup.POST("/export_bundle", h.export.ExportBundle)

			// Analysis endpoints
			libraryGroup.GET("/duplicates", h.analysis.Duplicates)
			libraryGroup.GET("/stats", h.analysis.Stats)
			libraryGroup.GET("/health", h.analysis.Health)

			// Metadata endpoints
			libraryGroup.GET("/metadata_issues", h.metadata.Issues)
			libraryGroup.POST("/metadata_auto_fix", h.metadata.AutoFix)
			libraryGroup.GET("/tags", h.metadata.AllTags)
			libraryGroup.GET("/custom_field_keys", h.metadata.CustomFieldKeys)
			libraryGroup.GET("/tracks/:trackId/tags", h.metadata.TrackTags)
			libraryGroup.POST("/tracks/:trackId/tags", h.metadata.AddTrackTags)
			libraryGroup.GET("/tracks/:trackId/custom_fields", h.metadata.TrackCustomFields)
			libraryGroup.POST("/tracks/:trackId/custom_fields", h.metadata.MergeTrackCustomFields)

			// Playlist endpoints
			libraryGroup.POST("/generate_playlist", h.playlists.GenerateV1)
			libraryGroup.POST("/generate_playlist_v2", h.playlists.GenerateV2)
			libraryGroup.POST("/merge_playlists", h.playlists.Merge)
			libraryGroup.POST("/playlists/:playlistId/move", h.playlists.MovePlaylist)

			// Folder endpoints
			libraryGroup.POST("/folders", h.playlists.CreateFolder)
			libraryGroup.GET("/folders", h.playlists.FolderTree)
			libraryGroup.DELETE("/folders/:folderId", h.playlists.DeleteFolder)
			libraryGroup.POST("/folders/:folderId/move", h.playlists.MoveFolder)

			// Search and transition endpoints
			libraryGroup.GET("/search", h.search.Search)
			libraryGroup.GET("/transitions", h.search.Transitions)

			// Path rewrite endpoints
			libraryGroup.POST("/preview_rewrite_paths", h.paths.Preview)
			libraryGroup.POST("/apply_rewrite_paths", h.paths.Apply)

			// Enrichment endpoint
			libraryGroup.POST("/enrich", h.enrich.Enrich)
		}

		// WebSocket endpoints for the event feed
		wsGroup := apiGroup.Group("/ws")
		{
			// WebSocket endpoint for one library's events
			wsGroup.GET("/libraries/:id", h.events.LibraryFeed)

			// WebSocket endpoint for all library events
			wsGroup.GET("/libraries", h.events.Firehose)
		}
	}
}
