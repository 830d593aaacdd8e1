package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/ammar-oker/RedisInsight/pkg/crypto"
	"github.com/ammar-oker/RedisInsight/pkg/instance"
	"github.com/ammar-oker/RedisInsight/pkg/server/store"
	"github.com/ammar-oker/RedisInsight/pkg/streams"
)

type Server struct {
	Cipher       crypto.SymmetricCipher
	Router       *mux.Router
	DB           *gorm.DB
	Databases    store.DatabasesStore
	Certificates store.CertificatesStore
	Health       store.HealthStore
	Pool         *instance.Pool
	Instances    *instance.Service
	Streams      *streams.Service
	srv          *http.Server
}

func NewServer(
	cipher crypto.SymmetricCipher,
	db *gorm.DB,
	databases store.DatabasesStore,
	certificates store.CertificatesStore,
	health store.HealthStore,
	pool *instance.Pool,
	instances *instance.Service,
	streamsService *streams.Service,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Cipher:       cipher,
		Router:       router,
		DB:           db,
		Databases:    databases,
		Certificates: certificates,
		Health:       health,
		Pool:         pool,
		Instances:    instances,
		Streams:      streamsService,
		srv:          srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}
