package items

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultLimit is the page size used when the client supplies none.
const DefaultLimit = 25

// filterableColumns maps recognized filter keys to item columns. Filter
// keys outside this set are ignored without error; clients routinely pass
// extraneous parameters and the contract is to tolerate them.
var filterableColumns = map[string]string{
	"status":     "status",
	"visibility": "visibility",
	"title":      "title",
}

// sortableColumns maps recognized sort keys (API casing) to item columns.
var sortableColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"status":      "status",
	"visibility":  "visibility",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// ListParams describes one page of an owner-scoped item listing.
type ListParams struct {
	Page   int
	Limit  int
	Sort   string            // comma-separated "field:direction" pairs
	Filter map[string]string // candidate equality filters, whitelisted here
}

// Normalized clamps pagination inputs: a non-positive limit falls back to
// DefaultLimit and a non-positive page to 1, so the computed offset can
// never go negative.
func (p ListParams) Normalized() ListParams {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	return p
}

// Offset returns the row offset for the (already normalized) page.
func (p ListParams) Offset() int {
	return p.Limit * (p.Page - 1)
}

// listQuery is a built owner-scoped list query: a WHERE clause (shared by
// the page select and the total count), its arguments, and an ORDER BY.
type listQuery struct {
	where string
	order string
	args  []any
}

// buildListQuery assembles the predicate and ordering for one listing.
// The owner predicate is unconditional and always first; filters can only
// narrow it further.
func buildListQuery(ownerID int64, p ListParams) listQuery {
	q := listQuery{
		where: "user_id = $1",
		args:  []any{ownerID},
	}

	// Honored filter keys in a stable order so the generated SQL is
	// deterministic.
	keys := make([]string, 0, len(p.Filter))
	for k := range p.Filter {
		if _, ok := filterableColumns[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.where += fmt.Sprintf(" AND %s = $%d", filterableColumns[k], len(q.args)+1)
		q.args = append(q.args, p.Filter[k])
	}

	q.order = orderClause(p.Sort)
	return q
}

// orderClause parses a "field:direction,field:direction" sort spec.
// Fragments that do not split into exactly two parts are skipped, as are
// unknown fields. Direction is ascending unless the token is "desc"
// (case-insensitive). With no usable fragment the listing falls back to
// id ascending.
func orderClause(spec string) string {
	var parts []string
	for _, frag := range strings.Split(spec, ",") {
		kv := strings.Split(strings.TrimSpace(frag), ":")
		if len(kv) != 2 {
			continue
		}
		col, ok := sortableColumns[strings.TrimSpace(kv[0])]
		if !ok {
			continue
		}
		dir := "ASC"
		if strings.EqualFold(strings.TrimSpace(kv[1]), "desc") {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	if len(parts) == 0 {
		return "id ASC"
	}
	return strings.Join(parts, ", ")
}
