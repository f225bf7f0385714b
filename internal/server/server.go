package server

import (
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/applications"
	"recruit-backend/internal/candidates"
	"recruit-backend/internal/postings"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/server/middleware"
	"recruit-backend/internal/shared/storage/object"
)

// Deps carries everything the HTTP surface needs. DB may be nil when
// running against memory repositories.
type Deps struct {
	Config       config.Config
	DB           *sql.DB
	Queue        *queue.Service
	Candidates   candidates.Repo
	Postings     postings.Repo
	Applications applications.Repo
	Store        object.ObjectStore
}

// NewEngine builds the gin engine with middleware and routes registered.
func NewEngine(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(d.Config.CORSAllowOrigin),
	)

	registerRoutes(r, d)
	return r
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
