package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRecord is the denormalized registration written on every register
// call so the notification trigger can look up a device without touching
// the relational store.
type TokenRecord struct {
	PushToken string    `json:"push_token"`
	DeviceID  string    `json:"device_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PushTokenStore keeps per-(tenant, serial) push tokens in Redis.
type PushTokenStore struct {
	client *redis.Client
	prefix string
}

func NewPushTokenStore(client *redis.Client) *PushTokenStore {
	return &PushTokenStore{
		client: client,
		prefix: "pushtoken:",
	}
}

func (s *PushTokenStore) key(tenantID, serialNumber string) string {
	return fmt.Sprintf("%s%s:%s", s.prefix, tenantID, serialNumber)
}

// Upsert overwrites the token record for a (tenant, serial) pair.
func (s *PushTokenStore) Upsert(ctx context.Context, tenantID, serialNumber string, record TokenRecord) error {
	if serialNumber == "" {
		return errors.New("serial number cannot be empty")
	}

	record.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal token record: %w", err)
	}

	if err := s.client.Set(ctx, s.key(tenantID, serialNumber), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store push token: %w", err)
	}

	return nil
}

// Get returns the token record, or (nil, nil) when none is stored.
func (s *PushTokenStore) Get(ctx context.Context, tenantID, serialNumber string) (*TokenRecord, error) {
	data, err := s.client.Get(ctx, s.key(tenantID, serialNumber)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load push token: %w", err)
	}

	var record TokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token record: %w", err)
	}

	return &record, nil
}
