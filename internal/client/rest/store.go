// Package rest implements the remote slot store contract over the
// availability HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"slotscheduler/internal/domain"
)

// Store talks to the availability API. It implements client.SlotStore and
// client.UserDirectory. Timeouts are left to the injected http.Client.
type Store struct {
	baseURL string
	client  *http.Client
	token   string
}

// NewStore returns a Store for the API at baseURL.
func NewStore(baseURL string, client *http.Client) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{baseURL: baseURL, client: client}
}

// SetToken sets the bearer token attached to every request.
func (s *Store) SetToken(token string) {
	s.token = token
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

// slotPayload is the wire form of a slot: flat fields with RFC 3339 instants.
type slotPayload struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Duration  int       `json:"duration"`
	Title     string    `json:"title,omitempty"`
	Attendees []string  `json:"attendees,omitempty"`
}

func (p slotPayload) toDomain() domain.Slot {
	return domain.Slot{
		ID:              p.ID,
		Owner:           p.User,
		Interval:        domain.TimeInterval{Start: p.Start, End: p.End},
		DurationMinutes: p.Duration,
		Title:           p.Title,
		Attendees:       p.Attendees,
	}
}

func payloadFrom(slot domain.Slot) slotPayload {
	return slotPayload{
		ID:        slot.ID,
		User:      slot.Owner,
		Start:     slot.Interval.Start,
		End:       slot.Interval.End,
		Duration:  slot.DurationMinutes,
		Title:     slot.Title,
		Attendees: slot.Attendees,
	}
}

// List implements client.SlotStore.
func (s *Store) List(ctx context.Context, owner string) ([]domain.Slot, error) {
	endpoint := s.baseURL + "/availability/slots?user=" + url.QueryEscape(owner)
	data, err := s.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var payloads []slotPayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("%w: decode slot list: %v", domain.ErrRemoteUnavailable, err)
	}
	slots := make([]domain.Slot, 0, len(payloads))
	for _, p := range payloads {
		slots = append(slots, p.toDomain())
	}
	return slots, nil
}

// Create implements client.SlotStore.
func (s *Store) Create(ctx context.Context, slot domain.Slot) (domain.Slot, error) {
	data, err := s.do(ctx, http.MethodPost, s.baseURL+"/availability/slots", payloadFrom(slot))
	if err != nil {
		return domain.Slot{}, err
	}
	var p slotPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Slot{}, fmt.Errorf("%w: decode created slot: %v", domain.ErrRemoteUnavailable, err)
	}
	return p.toDomain(), nil
}

// Update implements client.SlotStore.
func (s *Store) Update(ctx context.Context, slot domain.Slot) (domain.Slot, error) {
	endpoint := s.baseURL + "/availability/slots/" + url.PathEscape(slot.ID)
	data, err := s.do(ctx, http.MethodPut, endpoint, payloadFrom(slot))
	if err != nil {
		return domain.Slot{}, err
	}
	var p slotPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Slot{}, fmt.Errorf("%w: decode updated slot: %v", domain.ErrRemoteUnavailable, err)
	}
	return p.toDomain(), nil
}

// Delete implements client.SlotStore.
func (s *Store) Delete(ctx context.Context, id string) error {
	endpoint := s.baseURL + "/availability/slots/" + url.PathEscape(id)
	_, err := s.do(ctx, http.MethodDelete, endpoint, nil)
	return err
}

// Users implements client.UserDirectory.
func (s *Store) Users(ctx context.Context) ([]domain.User, error) {
	data, err := s.do(ctx, http.MethodGet, s.baseURL+"/admin/users", nil)
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%w: decode user list: %v", domain.ErrRemoteUnavailable, err)
	}
	return users, nil
}

// do performs one request and returns the envelope's data payload. Transport
// faults and server errors map to domain.ErrRemoteUnavailable; a 404 maps to
// domain.ErrNotFound.
func (s *Store) do(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrRemoteUnavailable, err)
	}
	if resp.StatusCode >= 400 {
		msg := resp.Status
		if env.Error != nil {
			msg = env.Error.Message
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrRemoteUnavailable, msg)
	}
	return env.Data, nil
}
