package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

// ErrTicketNotFound is returned when a ticket id has no stored report,
// either because it never existed or because its record expired.
var ErrTicketNotFound = errors.New("storage: ticket not found")

// Ticket records expire after this long; the recent index is cleaned up
// lazily as expired ids are encountered.
const ticketTTL = 30 * 24 * time.Hour

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func ticketKey(id string) string {
	return fmt.Sprintf("triage:ticket:%s", id)
}

func recentZKey() string {
	return "triage:tickets:recent"
}

// SaveTicket stores the full report and indexes it by handling time.
func (s *RedisStore) SaveTicket(ctx context.Context, report model.TicketReport) error {
	b, err := json.Marshal(report)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, ticketKey(report.TicketID), b, ticketTTL).Err(); err != nil {
		return err
	}
	z := &redis.Z{Score: float64(report.CreatedAt.Unix()), Member: report.TicketID}
	return s.rdb.ZAdd(ctx, recentZKey(), *z).Err()
}

// Ticket fetches one stored report by id.
func (s *RedisStore) Ticket(ctx context.Context, id string) (model.TicketReport, error) {
	b, err := s.rdb.Get(ctx, ticketKey(id)).Bytes()
	if err == redis.Nil {
		return model.TicketReport{}, ErrTicketNotFound
	}
	if err != nil {
		return model.TicketReport{}, err
	}
	var report model.TicketReport
	if err := json.Unmarshal(b, &report); err != nil {
		return model.TicketReport{}, err
	}
	return report, nil
}

// RecentTickets returns up to n reports, newest first. Ids whose records
// have expired are dropped from the index as they are found.
func (s *RedisStore) RecentTickets(ctx context.Context, n int) ([]model.TicketReport, error) {
	ids, err := s.rdb.ZRevRangeWithScores(ctx, recentZKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.TicketReport, 0, len(ids))
	for _, z := range ids {
		id := z.Member.(string)
		b, err := s.rdb.Get(ctx, ticketKey(id)).Bytes()
		if err == redis.Nil {
			s.rdb.ZRem(ctx, recentZKey(), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		var report model.TicketReport
		if err := json.Unmarshal(b, &report); err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, nil
}
