package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"folio/logger"
	"folio/models"
)

// viewBucket is the dedup window: one counted view per client per post
// per 6 hours.
const viewBucket = 6 * time.Hour

// ViewCounter bumps the persistent view counter. Satisfied by
// repositories.PostRepository.
type ViewCounter interface {
	IncrementViews(ctx context.Context, slug string) error
}

// ViewEventStore keeps the per-client dedup records. Satisfied by
// repositories.ViewEventRepository.
type ViewEventStore interface {
	Exists(ctx context.Context, slug, ipHash string) (bool, error)
	Insert(ctx context.Context, ev *models.ViewEvent) (*mongo.InsertOneResult, error)
}

// ViewService gates the view counter behind a per-client dedup record.
type ViewService struct {
	posts  ViewCounter
	events ViewEventStore
}

func NewViewService(posts ViewCounter, events ViewEventStore) *ViewService {
	return &ViewService{posts: posts, events: events}
}

// ClientIP extracts the caller address: first forwarded-for hop, then the
// CDN header, then real-ip, then a sentinel for direct unknown clients.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if cf := r.Header.Get("CF-Connecting-IP"); cf != "" {
		return cf
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	return "0.0.0.0"
}

// IPHash buckets the client into a 6-hour window: sha256(ip "-" bucket)
// where bucket is the epoch-second count divided by the window.
func IPHash(ip string, at time.Time) string {
	bucket := at.Unix() / int64(viewBucket/time.Second)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%d", ip, bucket)))
	return hex.EncodeToString(sum[:])
}

// Track records one view of slug from ip. It returns rateLimited=true
// when a dedup record for this client and window already exists, in which
// case the counter is untouched.
//
// The existence check and the insert are not one atomic operation: two
// near-simultaneous requests from the same client can both pass the check
// before either inserts, occasionally double counting. Known race, kept
// as is; fixing it would need a unique (slug, ip_hash) constraint plus a
// collision-tolerant increment and would change observable behavior.
func (s *ViewService) Track(ctx context.Context, sl, ip string) (rateLimited bool, err error) {
	sl = NormalizeSlug(sl)
	hash := IPHash(ip, time.Now())

	exists, err := s.events.Exists(ctx, sl, hash)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}

	if _, err := s.events.Insert(ctx, &models.ViewEvent{Slug: sl, IPHash: hash}); err != nil {
		return false, err
	}
	if err := s.posts.IncrementViews(ctx, sl); err != nil {
		return false, err
	}

	logger.DebugWithFields("view recorded", logger.Fields{"slug": sl})
	return false, nil
}
