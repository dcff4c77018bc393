package notify

import (
	"github.com/google/uuid"

	"github.com/sazzad018/deshbord-sub000/internal/domain"
)

// registry is the role-partitioned store of live handles. It is NOT safe for
// concurrent use: it is owned exclusively by the hub goroutine, which
// serializes all mutation and iteration through the command channel.
type registry struct {
	buckets map[domain.Role]map[uuid.UUID]*Handle
}

func newRegistry() *registry {
	return &registry{buckets: make(map[domain.Role]map[uuid.UUID]*Handle)}
}

// add inserts a handle into its role bucket. Last registration wins: an
// existing handle with the same id is closed and replaced, so a peer that
// reconnects before its stale handle is reaped never has two live entries.
func (r *registry) add(h *Handle) {
	if old := r.get(h.id); old != nil {
		old.close()
		r.remove(h.id)
	}
	bucket, ok := r.buckets[h.role]
	if !ok {
		bucket = make(map[uuid.UUID]*Handle)
		r.buckets[h.role] = bucket
	}
	bucket[h.id] = h
}

// remove deletes a handle from whichever bucket holds it. Idempotent.
func (r *registry) remove(id uuid.UUID) {
	for role, bucket := range r.buckets {
		if _, ok := bucket[id]; ok {
			delete(bucket, id)
			if len(bucket) == 0 {
				delete(r.buckets, role)
			}
			return
		}
	}
}

func (r *registry) get(id uuid.UUID) *Handle {
	for _, bucket := range r.buckets {
		if h, ok := bucket[id]; ok {
			return h
		}
	}
	return nil
}

// forEachInRole visits a snapshot of the handles in one role bucket, so fn
// may add or remove handles without invalidating the iteration.
func (r *registry) forEachInRole(role domain.Role, fn func(*Handle)) {
	for _, h := range r.snapshot(func(h *Handle) bool { return h.role == role }) {
		fn(h)
	}
}

// forEachWhereSubject visits handles matching a subject across all roles;
// subjects are role-agnostic for unicast delivery.
func (r *registry) forEachWhereSubject(subject string, fn func(*Handle)) {
	for _, h := range r.snapshot(func(h *Handle) bool { return h.subject == subject }) {
		fn(h)
	}
}

// forEachAll visits every registered handle.
func (r *registry) forEachAll(fn func(*Handle)) {
	for _, h := range r.snapshot(func(*Handle) bool { return true }) {
		fn(h)
	}
}

func (r *registry) snapshot(match func(*Handle) bool) []*Handle {
	var out []*Handle
	for _, bucket := range r.buckets {
		for _, h := range bucket {
			if match(h) {
				out = append(out, h)
			}
		}
	}
	return out
}

// counts returns the number of live handles per role.
func (r *registry) counts() map[domain.Role]int {
	out := make(map[domain.Role]int, len(r.buckets))
	for role, bucket := range r.buckets {
		out[role] = len(bucket)
	}
	return out
}
