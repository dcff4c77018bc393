package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sazzad018/deshbord-sub000/internal/domain"
)

func newTestHandle(role domain.Role, subject string) (*Handle, *fakeConn) {
	conn := &fakeConn{}
	return NewHandle(role, subject, conn), conn
}

func TestRegistryAddAndCounts(t *testing.T) {
	r := newRegistry()

	a, _ := newTestHandle(domain.RoleAdmin, domain.SubjectAnonymous)
	b, _ := newTestHandle(domain.RoleClient, "cust-1")
	c, _ := newTestHandle(domain.RoleClient, "cust-2")

	r.add(a)
	r.add(b)
	r.add(c)

	counts := r.counts()
	assert.Equal(t, 1, counts[domain.RoleAdmin])
	assert.Equal(t, 2, counts[domain.RoleClient])
}

func TestRegistryAddReplacesSameID(t *testing.T) {
	r := newRegistry()

	first, firstConn := newTestHandle(domain.RoleClient, "cust-1")
	r.add(first)

	second := &Handle{id: first.id, role: domain.RoleClient, subject: "cust-1", alive: true, conn: &fakeConn{}}
	r.add(second)

	assert.Equal(t, 1, r.counts()[domain.RoleClient])
	assert.Same(t, second, r.get(first.id))
	assert.True(t, firstConn.isClosed())
}

func TestRegistryRemoveIsIdempotent(t *testing.T) {
	r := newRegistry()

	h, _ := newTestHandle(domain.RoleAdmin, domain.SubjectAnonymous)
	r.add(h)

	r.remove(h.id)
	r.remove(h.id)

	assert.Nil(t, r.get(h.id))
	assert.Equal(t, 0, r.counts()[domain.RoleAdmin])
}

func TestRegistryForEachInRole(t *testing.T) {
	r := newRegistry()

	a, _ := newTestHandle(domain.RoleAdmin, domain.SubjectAnonymous)
	b, _ := newTestHandle(domain.RoleClient, "cust-1")
	r.add(a)
	r.add(b)

	var visited []*Handle
	r.forEachInRole(domain.RoleAdmin, func(h *Handle) { visited = append(visited, h) })

	assert.Equal(t, []*Handle{a}, visited)
}

func TestRegistryForEachWhereSubjectSpansRoles(t *testing.T) {
	r := newRegistry()

	a, _ := newTestHandle(domain.RoleAdmin, "cust-1")
	b, _ := newTestHandle(domain.RoleClient, "cust-1")
	c, _ := newTestHandle(domain.RoleClient, "cust-2")
	r.add(a)
	r.add(b)
	r.add(c)

	seen := make(map[*Handle]int)
	r.forEachWhereSubject("cust-1", func(h *Handle) { seen[h]++ })

	assert.Len(t, seen, 2)
	assert.Equal(t, 1, seen[a])
	assert.Equal(t, 1, seen[b])
}

// The iteration works on a snapshot, so fn may mutate the registry without
// a handle being visited twice or the loop crashing.
func TestRegistryIterationSurvivesMutation(t *testing.T) {
	r := newRegistry()

	for i := 0; i < 5; i++ {
		h, _ := newTestHandle(domain.RoleClient, "cust-1")
		r.add(h)
	}

	visits := 0
	r.forEachAll(func(h *Handle) {
		visits++
		r.remove(h.id)
		extra, _ := newTestHandle(domain.RoleAdmin, domain.SubjectAnonymous)
		r.add(extra)
	})

	assert.Equal(t, 5, visits)
}
