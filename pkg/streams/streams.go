// Package streams implements stream browsing and consumer group management
// against the Redis instance behind a connection record.
package streams

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ammar-oker/RedisInsight/pkg/instance"
)

// ErrKeyExists is returned when creating a stream under a key that is
// already present.
var ErrKeyExists = errors.New("key already exists")

// Sort orders for entry range queries.
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// Entry is one stream entry with its flattened field/value pairs.
type Entry struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// NewEntry is an entry to append. An empty ID lets the server assign one.
type NewEntry struct {
	ID     string            `json:"id,omitempty"`
	Fields map[string]string `json:"fields"`
}

// GetEntriesRequest is a range query over a stream.
type GetEntriesRequest struct {
	KeyName   string `json:"keyName"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Count     int    `json:"count,omitempty"`
	SortOrder string `json:"sortOrder,omitempty"`
}

// EntriesResponse carries a page of entries plus stream-level facts.
type EntriesResponse struct {
	KeyName         string  `json:"keyName"`
	Total           int64   `json:"total"`
	LastGeneratedID string  `json:"lastGeneratedId"`
	FirstEntry      *Entry  `json:"firstEntry"`
	LastEntry       *Entry  `json:"lastEntry"`
	Entries         []Entry `json:"entries"`
}

// ConsumerGroup describes one consumer group on a stream.
type ConsumerGroup struct {
	Name              string `json:"name"`
	Consumers         int64  `json:"consumers"`
	Pending           int64  `json:"pending"`
	LastDeliveredID   string `json:"lastDeliveredId"`
	SmallestPendingID string `json:"smallestPendingId,omitempty"`
	GreatestPendingID string `json:"greatestPendingId,omitempty"`
}

// Consumer describes one consumer within a group.
type Consumer struct {
	Name    string `json:"name"`
	Pending int64  `json:"pending"`
	IdleMs  int64  `json:"idle"`
}

// PendingMessage is one entry from the group's pending entries list.
type PendingMessage struct {
	ID           string `json:"id"`
	ConsumerName string `json:"consumerName"`
	IdleMs       int64  `json:"idle"`
	Delivered    int64  `json:"delivered"`
}

// Service runs stream operations through pooled per-record clients.
type Service struct {
	resolver instance.ClientResolver

	// Upper bound on entries returned per page regardless of the
	// requested count.
	maxPageSize int
}

// NewService creates a new Service
func NewService(resolver instance.ClientResolver, maxPageSize int) *Service {
	return &Service{resolver: resolver, maxPageSize: maxPageSize}
}

// GetEntries reads a page of entries from a stream along with its totals.
// A missing key and a key of another type are distinct failures; both
// surface the server's own message.
func (s *Service) GetEntries(ctx context.Context, databaseID string, req GetEntriesRequest) (*EntriesResponse, error) {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	exists, err := client.Exists(ctx, req.KeyName).Result()
	if err != nil {
		return nil, instance.TranslateError(err)
	}
	if exists == 0 {
		return nil, instance.ErrKeyNotFound
	}

	total, err := client.XLen(ctx, req.KeyName).Result()
	if err != nil {
		return nil, instance.TranslateError(err)
	}

	start, end := req.Start, req.End
	if start == "" {
		start = "-"
	}
	if end == "" {
		end = "+"
	}
	count := req.Count
	if count <= 0 || count > s.maxPageSize {
		count = s.maxPageSize
	}

	var messages []redis.XMessage
	if req.SortOrder == SortAsc {
		messages, err = client.XRangeN(ctx, req.KeyName, start, end, int64(count)).Result()
	} else {
		messages, err = client.XRevRangeN(ctx, req.KeyName, end, start, int64(count)).Result()
	}
	if err != nil {
		return nil, instance.TranslateError(err)
	}

	response := &EntriesResponse{
		KeyName: req.KeyName,
		Total:   total,
		Entries: toEntries(messages),
	}

	if err := s.fillStreamFacts(ctx, client, req.KeyName, response); err != nil {
		return nil, err
	}
	return response, nil
}

// fillStreamFacts populates the boundary entries and the last generated id.
// The boundaries come from single-entry range queries; XINFO STREAM refines
// the last generated id, which can exceed the newest entry after deletions.
func (s *Service) fillStreamFacts(ctx context.Context, client redis.UniversalClient, keyName string, response *EntriesResponse) error {
	first, err := client.XRangeN(ctx, keyName, "-", "+", 1).Result()
	if err != nil {
		return instance.TranslateError(err)
	}
	last, err := client.XRevRangeN(ctx, keyName, "+", "-", 1).Result()
	if err != nil {
		return instance.TranslateError(err)
	}

	if len(first) > 0 {
		response.FirstEntry = toEntry(first[0])
	}
	if len(last) > 0 {
		response.LastEntry = toEntry(last[0])
		response.LastGeneratedID = last[0].ID
	}

	if info, err := client.XInfoStream(ctx, keyName).Result(); err == nil && info.LastGeneratedID != "" {
		response.LastGeneratedID = info.LastGeneratedID
	}
	return nil
}

// CreateStream creates a stream by appending its initial entries. The key
// must not exist yet.
func (s *Service) CreateStream(ctx context.Context, databaseID, keyName string, entries []NewEntry) ([]string, error) {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	exists, err := client.Exists(ctx, keyName).Result()
	if err != nil {
		return nil, instance.TranslateError(err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: %s", ErrKeyExists, keyName)
	}

	return s.appendEntries(ctx, client, keyName, entries)
}

// AddEntries appends entries to an existing stream.
func (s *Service) AddEntries(ctx context.Context, databaseID, keyName string, entries []NewEntry) ([]string, error) {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	exists, err := client.Exists(ctx, keyName).Result()
	if err != nil {
		return nil, instance.TranslateError(err)
	}
	if exists == 0 {
		return nil, instance.ErrKeyNotFound
	}

	return s.appendEntries(ctx, client, keyName, entries)
}

func (s *Service) appendEntries(ctx context.Context, client redis.UniversalClient, keyName string, entries []NewEntry) ([]string, error) {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		id := entry.ID
		if id == "" {
			id = "*"
		}

		values := make(map[string]interface{}, len(entry.Fields))
		for field, value := range entry.Fields {
			values[field] = value
		}

		assigned, err := client.XAdd(ctx, &redis.XAddArgs{
			Stream: keyName,
			ID:     id,
			Values: values,
		}).Result()
		if err != nil {
			return ids, instance.TranslateError(err)
		}
		ids = append(ids, assigned)
	}
	return ids, nil
}

// DeleteEntries removes entries by id and reports how many were removed.
func (s *Service) DeleteEntries(ctx context.Context, databaseID, keyName string, ids []string) (int64, error) {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return 0, err
	}

	affected, err := client.XDel(ctx, keyName, ids...).Result()
	if err != nil {
		return 0, instance.TranslateError(err)
	}
	return affected, nil
}

// Groups lists the consumer groups of a stream, with the boundaries of each
// group's pending entries list when it has any.
func (s *Service) Groups(ctx context.Context, databaseID, keyName string) ([]ConsumerGroup, error) {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	infos, err := client.XInfoGroups(ctx, keyName).Result()
	if err != nil {
		return nil, instance.TranslateError(err)
	}

	groups := make([]ConsumerGroup, 0, len(infos))
	for _, info := range infos {
		group := ConsumerGroup{
			Name:            info.Name,
			Consumers:       info.Consumers,
			Pending:         info.Pending,
			LastDeliveredID: info.LastDeliveredID,
		}

		if info.Pending > 0 {
			summary, err := client.XPending(ctx, keyName, info.Name).Result()
			if err != nil {
				return nil, instance.TranslateError(err)
			}
			group.SmallestPendingID = summary.Lower
			group.GreatestPendingID = summary.Higher
		}

		groups = append(groups, group)
	}
	return groups, nil
}

// CreateGroup registers a consumer group on an existing stream. An empty
// lastDeliveredID starts the group at the newest entry.
func (s *Service) CreateGroup(ctx context.Context, databaseID, keyName, groupName, lastDeliveredID string) error {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return err
	}

	exists, err := client.Exists(ctx, keyName).Result()
	if err != nil {
		return instance.TranslateError(err)
	}
	if exists == 0 {
		return instance.ErrKeyNotFound
	}

	if lastDeliveredID == "" {
		lastDeliveredID = "$"
	}

	if err := client.XGroupCreate(ctx, keyName, groupName, lastDeliveredID).Err(); err != nil {
		return instance.TranslateError(err)
	}
	return nil
}

// DeleteGroup destroys a consumer group and reports whether it existed.
func (s *Service) DeleteGroup(ctx context.Context, databaseID, keyName, groupName string) (int64, error) {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return 0, err
	}

	affected, err := client.XGroupDestroy(ctx, keyName, groupName).Result()
	if err != nil {
		return 0, instance.TranslateError(err)
	}
	return affected, nil
}

// Consumers lists the consumers of a group.
func (s *Service) Consumers(ctx context.Context, databaseID, keyName, groupName string) ([]Consumer, error) {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	infos, err := client.XInfoConsumers(ctx, keyName, groupName).Result()
	if err != nil {
		return nil, instance.TranslateError(err)
	}

	consumers := make([]Consumer, 0, len(infos))
	for _, info := range infos {
		consumers = append(consumers, Consumer{
			Name:    info.Name,
			Pending: info.Pending,
			IdleMs:  info.Idle.Milliseconds(),
		})
	}
	return consumers, nil
}

// DeleteConsumer removes a consumer from a group, dropping its pending
// entries, and reports how many entries were pending.
func (s *Service) DeleteConsumer(ctx context.Context, databaseID, keyName, groupName, consumerName string) (int64, error) {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return 0, err
	}

	affected, err := client.XGroupDelConsumer(ctx, keyName, groupName, consumerName).Result()
	if err != nil {
		return 0, instance.TranslateError(err)
	}
	return affected, nil
}

// PendingMessages reads a page of the group's pending entries list,
// optionally filtered to one consumer.
func (s *Service) PendingMessages(ctx context.Context, databaseID, keyName, groupName, consumerName, start, end string, count int) ([]PendingMessage, error) {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	if start == "" {
		start = "-"
	}
	if end == "" {
		end = "+"
	}
	if count <= 0 || count > s.maxPageSize {
		count = s.maxPageSize
	}

	entries, err := client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream:   keyName,
		Group:    groupName,
		Start:    start,
		End:      end,
		Count:    int64(count),
		Consumer: consumerName,
	}).Result()
	if err != nil {
		return nil, instance.TranslateError(err)
	}

	messages := make([]PendingMessage, 0, len(entries))
	for _, entry := range entries {
		messages = append(messages, PendingMessage{
			ID:           entry.ID,
			ConsumerName: entry.Consumer,
			IdleMs:       entry.Idle.Milliseconds(),
			Delivered:    entry.RetryCount,
		})
	}
	return messages, nil
}

// AckPending acknowledges pending entries and reports how many were
// actually acknowledged.
func (s *Service) AckPending(ctx context.Context, databaseID, keyName, groupName string, ids []string) (int64, error) {
	client, err := s.resolver.Client(ctx, databaseID)
	if err != nil {
		return 0, err
	}

	acked, err := client.XAck(ctx, keyName, groupName, ids...).Result()
	if err != nil {
		return 0, instance.TranslateError(err)
	}
	return acked, nil
}

func toEntries(messages []redis.XMessage) []Entry {
	entries := make([]Entry, 0, len(messages))
	for _, message := range messages {
		if entry := toEntry(message); entry != nil {
			entries = append(entries, *entry)
		}
	}
	return entries
}

func toEntry(message redis.XMessage) *Entry {
	if message.ID == "" {
		return nil
	}

	fields := make(map[string]string, len(message.Values))
	for field, value := range message.Values {
		fields[field] = fmt.Sprint(value)
	}
	return &Entry{ID: message.ID, Fields: fields}
}
