package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ammar-oker/RedisInsight/pkg/server"
	"github.com/ammar-oker/RedisInsight/pkg/server/store"
)

// RegisterCertificatesEndpoints registers the certificate registry endpoints
func RegisterCertificatesEndpoints(s *server.Server) {
	router := s.Router
	certificates := s.Certificates

	certsRouter := router.PathPrefix("/certificates").Subrouter()

	// GET /certificates/ca - List stored CA certificates
	certsRouter.HandleFunc("/ca", handleListCaCertificates(certificates)).Methods("GET")

	// DELETE /certificates/ca/{id}
	certsRouter.HandleFunc("/ca/{id}", handleDeleteCaCertificate(certificates)).Methods("DELETE")

	// GET /certificates/client - List stored client certificate pairs
	certsRouter.HandleFunc("/client", handleListClientCertificates(certificates)).Methods("GET")

	// DELETE /certificates/client/{id}
	certsRouter.HandleFunc("/client/{id}", handleDeleteClientCertificate(certificates)).Methods("DELETE")
}

func handleListCaCertificates(certificates store.CertificatesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := certificates.ListCaCertificates()
		if err != nil {
			respondWithMappedError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, infos)
	}
}

func handleDeleteCaCertificate(certificates store.CertificatesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		if err := certificates.DeleteCaCertificate(vars["id"]); err != nil {
			respondWithMappedError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleListClientCertificates(certificates store.CertificatesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := certificates.ListClientCertificates()
		if err != nil {
			respondWithMappedError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, infos)
	}
}

func handleDeleteClientCertificate(certificates store.CertificatesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		if err := certificates.DeleteClientCertificate(vars["id"]); err != nil {
			respondWithMappedError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
