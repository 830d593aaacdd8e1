package endpoints

import (
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammar-oker/RedisInsight/pkg/streams"
)

// newStreamsServer seeds a record backed by miniredis and returns the
// stream route prefix for it.
func newStreamsServer(t *testing.T) (*testServer, *miniredis.Miniredis, string) {
	t.Helper()

	ts := newTestServer(t)
	mr := miniredis.RunT(t)
	record := seedDatabase(t, ts.Databases, "local", mr.Addr())

	return ts, mr, ts.URL + "/instance/" + record.ID + "/streams"
}

func TestCreateStreamEndpoint(t *testing.T) {
	_, _, base := newStreamsServer(t)

	var created map[string]interface{}
	status := doJSON(t, http.MethodPost, base, CreateStreamRequest{
		KeyName: "events",
		Entries: []streams.NewEntry{{Fields: map[string]string{"kind": "deploy"}}},
	}, &created)

	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "events", created["keyName"])
	assert.Len(t, created["entries"], 1)
}

func TestCreateStreamConflict(t *testing.T) {
	_, mr, base := newStreamsServer(t)
	_, err := mr.XAdd("events", "*", []string{"kind", "deploy"})
	require.NoError(t, err)

	status := doJSON(t, http.MethodPost, base, CreateStreamRequest{
		KeyName: "events",
		Entries: []streams.NewEntry{{Fields: map[string]string{"kind": "deploy"}}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetStreamEntriesEndpoint(t *testing.T) {
	_, mr, base := newStreamsServer(t)
	_, err := mr.XAdd("events", "1-1", []string{"kind", "deploy"})
	require.NoError(t, err)
	_, err = mr.XAdd("events", "2-1", []string{"kind", "rollback"})
	require.NoError(t, err)

	var response streams.EntriesResponse
	status := doJSON(t, http.MethodPost, base+"/get-entries", streams.GetEntriesRequest{
		KeyName: "events",
	}, &response)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(2), response.Total)
	require.Len(t, response.Entries, 2)
	// Newest first by default.
	assert.Equal(t, "2-1", response.Entries[0].ID)
}

func TestGetStreamEntriesMissingKey(t *testing.T) {
	_, _, base := newStreamsServer(t)

	status := doJSON(t, http.MethodPost, base+"/get-entries", streams.GetEntriesRequest{
		KeyName: "missing",
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetStreamEntriesRequiresKeyName(t *testing.T) {
	_, _, base := newStreamsServer(t)

	status := doJSON(t, http.MethodPost, base+"/get-entries", streams.GetEntriesRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAddStreamEntriesMissingKey(t *testing.T) {
	_, _, base := newStreamsServer(t)

	status := doJSON(t, http.MethodPost, base+"/entries", CreateStreamRequest{
		KeyName: "missing",
		Entries: []streams.NewEntry{{Fields: map[string]string{"kind": "deploy"}}},
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteStreamEntriesEndpoint(t *testing.T) {
	_, mr, base := newStreamsServer(t)
	_, err := mr.XAdd("events", "1-1", []string{"kind", "deploy"})
	require.NoError(t, err)

	var result map[string]int64
	status := doJSON(t, http.MethodDelete, base+"/entries", DeleteStreamEntriesRequest{
		KeyName: "events",
		Entries: []string{"1-1", "9-9"},
	}, &result)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), result["affected"])
}

func TestConsumerGroupLifecycle(t *testing.T) {
	_, mr, base := newStreamsServer(t)
	_, err := mr.XAdd("events", "1-1", []string{"kind", "deploy"})
	require.NoError(t, err)

	status := doJSON(t, http.MethodPost, base+"/consumer-groups", ConsumerGroupRequest{
		KeyName:   "events",
		GroupName: "workers",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	// Creating the same group again is rejected.
	status = doJSON(t, http.MethodPost, base+"/consumer-groups", ConsumerGroupRequest{
		KeyName:   "events",
		GroupName: "workers",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var result map[string]int64
	status = doJSON(t, http.MethodDelete, base+"/consumer-groups", ConsumerGroupRequest{
		KeyName:   "events",
		GroupName: "workers",
	}, &result)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), result["affected"])
}

func TestGetConsumerGroupsMissingStream(t *testing.T) {
	_, _, base := newStreamsServer(t)

	status := doJSON(t, http.MethodPost, base+"/consumer-groups/get", StreamKeyRequest{
		KeyName: "missing",
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteConsumerGroupMissingStream(t *testing.T) {
	_, _, base := newStreamsServer(t)

	status := doJSON(t, http.MethodDelete, base+"/consumer-groups", ConsumerGroupRequest{
		KeyName:   "missing",
		GroupName: "workers",
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateConsumerGroupMissingStream(t *testing.T) {
	_, _, base := newStreamsServer(t)

	status := doJSON(t, http.MethodPost, base+"/consumer-groups", ConsumerGroupRequest{
		KeyName:   "missing",
		GroupName: "workers",
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteConsumerRequiresName(t *testing.T) {
	_, _, base := newStreamsServer(t)

	status := doJSON(t, http.MethodDelete, base+"/consumer-groups/consumers", ConsumersRequest{
		KeyName:   "events",
		GroupName: "workers",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAckPendingMessagesRequiresEntries(t *testing.T) {
	_, _, base := newStreamsServer(t)

	status := doJSON(t, http.MethodPost, base+"/consumer-groups/consumers/pending-messages/ack", AckPendingMessagesRequest{
		KeyName:   "events",
		GroupName: "workers",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStreamOperationPermissionDenied(t *testing.T) {
	_, mr, base := newStreamsServer(t)

	// The record carries no password, so once the server demands one every
	// command is rejected before it runs.
	mr.RequireAuth("s3cret")

	status := doJSON(t, http.MethodPost, base+"/get-entries", streams.GetEntriesRequest{
		KeyName: "events",
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestStreamOperationUnknownDatabase(t *testing.T) {
	ts := newTestServer(t)

	status := doJSON(t, http.MethodPost, ts.URL+"/instance/nope/streams/get-entries", streams.GetEntriesRequest{
		KeyName: "events",
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
