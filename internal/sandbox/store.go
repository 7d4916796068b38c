package sandbox

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is a stored entity in its JSON object form.
type Record map[string]any

var (
	errNotFound    = errors.New("record not found")
	errNotDeleted  = errors.New("record is not deleted")
	errBadPage     = errors.New("page and limit must be positive integers")
	errLimitTooBig = fmt.Errorf("limit must not exceed %d", maxLimit)
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// reservedParams are list parameters that are not field filters.
var reservedParams = map[string]bool{
	"page": true, "limit": true, "search": true,
	"sortBy": true, "sortOrder": true, "includeDeleted": true,
}

// collection holds the records of one entity path in insertion order.
type collection struct {
	mu    sync.RWMutex
	order []string
	items map[string]Record
	now   func() time.Time
}

func newCollection(now func() time.Time) *collection {
	return &collection{items: make(map[string]Record), now: now}
}

func (c *collection) stamp() string {
	return c.now().UTC().Format(time.RFC3339Nano)
}

// insert stores a copy of r with a fresh id and timestamps.
func (c *collection) insert(r Record) Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := r.clone()
	id, _ := rec["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}
	rec["id"] = id
	ts := c.stamp()
	rec["createdAt"] = ts
	rec["updatedAt"] = ts
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = rec
	return rec.clone()
}

// get returns a copy of a record. Soft-deleted records are returned only when
// includeDeleted is set.
func (c *collection) get(id string, includeDeleted bool) (Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.items[id]
	if !ok || (!includeDeleted && rec.deleted()) {
		return nil, errNotFound
	}
	return rec.clone(), nil
}

// update merges patch into a live record. Keys in immutable are ignored.
func (c *collection) update(id string, patch Record) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.items[id]
	if !ok || rec.deleted() {
		return nil, errNotFound
	}
	for k, v := range patch {
		switch k {
		case "id", "createdAt", "updatedAt", "deletedAt":
			continue
		}
		rec[k] = v
	}
	rec["updatedAt"] = c.stamp()
	return rec.clone(), nil
}

func (c *collection) softDelete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.items[id]
	if !ok || rec.deleted() {
		return errNotFound
	}
	ts := c.stamp()
	rec["deletedAt"] = ts
	rec["updatedAt"] = ts
	return nil
}

func (c *collection) restore(id string) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.items[id]
	if !ok {
		return nil, errNotFound
	}
	if !rec.deleted() {
		return nil, errNotDeleted
	}
	delete(rec, "deletedAt")
	rec["updatedAt"] = c.stamp()
	return rec.clone(), nil
}

func (c *collection) forceDelete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return errNotFound
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// count returns live records matching pred.
func (c *collection) count(pred func(Record) bool) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, id := range c.order {
		rec := c.items[id]
		if !rec.deleted() && (pred == nil || pred(rec)) {
			n++
		}
	}
	return n
}

// all returns copies of live records in insertion order.
func (c *collection) all() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Record, 0, len(c.order))
	for _, id := range c.order {
		if rec := c.items[id]; !rec.deleted() {
			out = append(out, rec.clone())
		}
	}
	return out
}

// listQuery is a parsed list request.
type listQuery struct {
	page           int
	limit          int
	search         string
	sortBy         string
	desc           bool
	includeDeleted bool
	filters        map[string]string
}

func parseListQuery(values map[string][]string) (listQuery, error) {
	q := listQuery{page: 1, limit: defaultLimit, filters: make(map[string]string)}
	first := func(k string) string {
		if v := values[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	if s := first("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return q, errBadPage
		}
		q.page = n
	}
	if s := first("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return q, errBadPage
		}
		if n > maxLimit {
			return q, errLimitTooBig
		}
		q.limit = n
	}
	q.search = strings.ToLower(strings.TrimSpace(first("search")))
	q.sortBy = first("sortBy")
	q.desc = strings.EqualFold(first("sortOrder"), "desc")
	q.includeDeleted = first("includeDeleted") == "true"

	for k, v := range values {
		if reservedParams[k] || len(v) == 0 {
			continue
		}
		q.filters[k] = v[0]
	}
	return q, nil
}

// list applies filters, search, sort and paging. It returns the page rows and
// the total number of matches.
func (c *collection) list(q listQuery) ([]Record, int) {
	c.mu.RLock()
	matched := make([]Record, 0, len(c.order))
	for _, id := range c.order {
		rec := c.items[id]
		if rec.deleted() && !q.includeDeleted {
			continue
		}
		if !rec.matches(q.filters) || !rec.contains(q.search) {
			continue
		}
		matched = append(matched, rec.clone())
	}
	c.mu.RUnlock()

	if q.sortBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			cmp := compareValues(matched[i][q.sortBy], matched[j][q.sortBy])
			if q.desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	total := len(matched)
	start := (q.page - 1) * q.limit
	if start >= total {
		return []Record{}, total
	}
	end := start + q.limit
	if end > total {
		end = total
	}
	return matched[start:end], total
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (r Record) deleted() bool {
	v, ok := r["deletedAt"]
	return ok && v != nil
}

// matches reports whether every filter equals the field of the same name.
// Filters naming fields the record does not have are ignored.
func (r Record) matches(filters map[string]string) bool {
	for k, want := range filters {
		got, ok := r[k]
		if !ok {
			continue
		}
		if stringValue(got) != want {
			return false
		}
	}
	return true
}

// contains reports whether any string field contains term.
func (r Record) contains(term string) bool {
	if term == "" {
		return true
	}
	for _, v := range r {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return fmt.Sprint(v)
}

func compareValues(a, b any) int {
	fa, aNum := a.(float64)
	fb, bNum := b.(float64)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(stringValue(a), stringValue(b))
}
