package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ammar-oker/RedisInsight/pkg/server"
	"github.com/ammar-oker/RedisInsight/pkg/streams"
)

// RegisterStreamsEndpoints registers the stream browsing and consumer group
// endpoints under /instance/{id}/streams
func RegisterStreamsEndpoints(s *server.Server) {
	router := s.Router
	service := s.Streams

	streamsRouter := router.PathPrefix("/instance/{id}/streams").Subrouter()

	// POST /instance/{id}/streams/get-entries - Range query over a stream
	streamsRouter.HandleFunc("/get-entries", handleGetStreamEntries(service)).Methods("POST")

	// POST /instance/{id}/streams - Create a stream with initial entries
	streamsRouter.HandleFunc("", handleCreateStream(service)).Methods("POST")

	// POST /instance/{id}/streams/entries - Append entries
	streamsRouter.HandleFunc("/entries", handleAddStreamEntries(service)).Methods("POST")

	// DELETE /instance/{id}/streams/entries - Remove entries by id
	streamsRouter.HandleFunc("/entries", handleDeleteStreamEntries(service)).Methods("DELETE")

	// POST /instance/{id}/streams/consumer-groups/get - List consumer groups
	streamsRouter.HandleFunc("/consumer-groups/get", handleGetConsumerGroups(service)).Methods("POST")

	// POST /instance/{id}/streams/consumer-groups - Create a consumer group
	streamsRouter.HandleFunc("/consumer-groups", handleCreateConsumerGroup(service)).Methods("POST")

	// DELETE /instance/{id}/streams/consumer-groups - Destroy a consumer group
	streamsRouter.HandleFunc("/consumer-groups", handleDeleteConsumerGroup(service)).Methods("DELETE")

	// POST /instance/{id}/streams/consumer-groups/consumers/get - List consumers
	streamsRouter.HandleFunc("/consumer-groups/consumers/get", handleGetConsumers(service)).Methods("POST")

	// DELETE /instance/{id}/streams/consumer-groups/consumers - Remove a consumer
	streamsRouter.HandleFunc("/consumer-groups/consumers", handleDeleteConsumer(service)).Methods("DELETE")

	// POST .../consumers/pending-messages/get - Page of the pending entries list
	streamsRouter.HandleFunc("/consumer-groups/consumers/pending-messages/get", handleGetPendingMessages(service)).Methods("POST")

	// POST .../consumers/pending-messages/ack - Acknowledge pending entries
	streamsRouter.HandleFunc("/consumer-groups/consumers/pending-messages/ack", handleAckPendingMessages(service)).Methods("POST")
}

func handleGetStreamEntries(service *streams.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseID := mux.Vars(r)["id"]

		var req streams.GetEntriesRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.KeyName == "" {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "keyName is required"})
			return
		}

		response, err := service.GetEntries(r.Context(), databaseID, req)
		if err != nil {
			respondWithOperationError(w, r, databaseID, "stream-get-entries", err)
			return
		}

		respondWithJSON(w, http.StatusOK, response)
	}
}

// CreateStreamRequest creates a stream with its initial entries
type CreateStreamRequest struct {
	KeyName string             `json:"keyName"`
	Entries []streams.NewEntry `json:"entries"`
}

func handleCreateStream(service *streams.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseID := mux.Vars(r)["id"]

		var req CreateStreamRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.KeyName == "" || len(req.Entries) == 0 {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "keyName and entries are required"})
			return
		}

		ids, err := service.CreateStream(r.Context(), databaseID, req.KeyName, req.Entries)
		if err != nil {
			respondWithOperationError(w, r, databaseID, "stream-create", err)
			return
		}

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{"keyName": req.KeyName, "entries": ids})
	}
}

func handleAddStreamEntries(service *streams.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseID := mux.Vars(r)["id"]

		var req CreateStreamRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.KeyName == "" || len(req.Entries) == 0 {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "keyName and entries are required"})
			return
		}

		ids, err := service.AddEntries(r.Context(), databaseID, req.KeyName, req.Entries)
		if err != nil {
			respondWithOperationError(w, r, databaseID, "stream-add-entries", err)
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{"keyName": req.KeyName, "entries": ids})
	}
}

// DeleteStreamEntriesRequest lists entry ids to remove from a stream
type DeleteStreamEntriesRequest struct {
	KeyName string   `json:"keyName"`
	Entries []string `json:"entries"`
}

func handleDeleteStreamEntries(service *streams.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseID := mux.Vars(r)["id"]

		var req DeleteStreamEntriesRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.KeyName == "" || len(req.Entries) == 0 {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "keyName and entries are required"})
			return
		}

		affected, err := service.DeleteEntries(r.Context(), databaseID, req.KeyName, req.Entries)
		if err != nil {
			respondWithOperationError(w, r, databaseID, "stream-delete-entries", err)
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]int64{"affected": affected})
	}
}

// StreamKeyRequest names the stream a consumer group operation targets
type StreamKeyRequest struct {
	KeyName string `json:"keyName"`
}

func handleGetConsumerGroups(service *streams.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseID := mux.Vars(r)["id"]

		var req StreamKeyRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.KeyName == "" {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "keyName is required"})
			return
		}

		groups, err := service.Groups(r.Context(), databaseID, req.KeyName)
		if err != nil {
			respondWithOperationError(w, r, databaseID, "consumer-groups-get", err)
			return
		}

		respondWithJSON(w, http.StatusOK, groups)
	}
}

// ConsumerGroupRequest creates or destroys a consumer group
type ConsumerGroupRequest struct {
	KeyName         string `json:"keyName"`
	GroupName       string `json:"groupName"`
	LastDeliveredID string `json:"lastDeliveredId,omitempty"`
}

func handleCreateConsumerGroup(service *streams.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseID := mux.Vars(r)["id"]

		var req ConsumerGroupRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.KeyName == "" || req.GroupName == "" {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "keyName and groupName are required"})
			return
		}

		if err := service.CreateGroup(r.Context(), databaseID, req.KeyName, req.GroupName, req.LastDeliveredID); err != nil {
			respondWithOperationError(w, r, databaseID, "consumer-group-create", err)
			return
		}

		respondWithJSON(w, http.StatusCreated, map[string]string{"keyName": req.KeyName, "groupName": req.GroupName})
	}
}

func handleDeleteConsumerGroup(service *streams.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseID := mux.Vars(r)["id"]

		var req ConsumerGroupRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.KeyName == "" || req.GroupName == "" {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "keyName and groupName are required"})
			return
		}

		affected, err := service.DeleteGroup(r.Context(), databaseID, req.KeyName, req.GroupName)
		if err != nil {
			respondWithOperationError(w, r, databaseID, "consumer-group-delete", err)
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]int64{"affected": affected})
	}
}

// ConsumersRequest targets the consumers of one group
type ConsumersRequest struct {
	KeyName      string `json:"keyName"`
	GroupName    string `json:"groupName"`
	ConsumerName string `json:"consumerName,omitempty"`
}

func handleGetConsumers(service *streams.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseID := mux.Vars(r)["id"]

		var req ConsumersRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.KeyName == "" || req.GroupName == "" {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "keyName and groupName are required"})
			return
		}

		consumers, err := service.Consumers(r.Context(), databaseID, req.KeyName, req.GroupName)
		if err != nil {
			respondWithOperationError(w, r, databaseID, "consumers-get", err)
			return
		}

		respondWithJSON(w, http.StatusOK, consumers)
	}
}

func handleDeleteConsumer(service *streams.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseID := mux.Vars(r)["id"]

		var req ConsumersRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.KeyName == "" || req.GroupName == "" || req.ConsumerName == "" {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "keyName, groupName and consumerName are required"})
			return
		}

		affected, err := service.DeleteConsumer(r.Context(), databaseID, req.KeyName, req.GroupName, req.ConsumerName)
		if err != nil {
			respondWithOperationError(w, r, databaseID, "consumer-delete", err)
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]int64{"affected": affected})
	}
}

// PendingMessagesRequest pages through a group's pending entries list
type PendingMessagesRequest struct {
	KeyName      string `json:"keyName"`
	GroupName    string `json:"groupName"`
	ConsumerName string `json:"consumerName,omitempty"`
	Start        string `json:"start,omitempty"`
	End          string `json:"end,omitempty"`
	Count        int    `json:"count,omitempty"`
}

func handleGetPendingMessages(service *streams.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseID := mux.Vars(r)["id"]

		var req PendingMessagesRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.KeyName == "" || req.GroupName == "" {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "keyName and groupName are required"})
			return
		}

		messages, err := service.PendingMessages(r.Context(), databaseID, req.KeyName, req.GroupName, req.ConsumerName, req.Start, req.End, req.Count)
		if err != nil {
			respondWithOperationError(w, r, databaseID, "pending-messages-get", err)
			return
		}

		respondWithJSON(w, http.StatusOK, messages)
	}
}

// AckPendingMessagesRequest lists pending entry ids to acknowledge
type AckPendingMessagesRequest struct {
	KeyName   string   `json:"keyName"`
	GroupName string   `json:"groupName"`
	Entries   []string `json:"entries"`
}

func handleAckPendingMessages(service *streams.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseID := mux.Vars(r)["id"]

		var req AckPendingMessagesRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.KeyName == "" || req.GroupName == "" || len(req.Entries) == 0 {
			respondWithError(w, http.StatusBadRequest, map[string]string{"message": "keyName, groupName and entries are required"})
			return
		}

		affected, err := service.AckPending(r.Context(), databaseID, req.KeyName, req.GroupName, req.Entries)
		if err != nil {
			respondWithOperationError(w, r, databaseID, "pending-messages-ack", err)
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]int64{"affected": affected})
	}
}
