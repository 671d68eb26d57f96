package pkg

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
	defaultSort     = "id:desc"
)

// reservedParams lists query parameter names used for pagination, search and
// sorting, not for filtering.
var reservedParams = map[string]bool{
	"page":   true,
	"size":   true,
	"search": true,
	"sort":   true,
}

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ParsePageRequest extracts page, size, search, sort and filter parameters
// from the query string, using the shop API's parameter names.
func ParsePageRequest(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if page < 1 {
		page = defaultPage
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			filter[key] = values[0]
		}
	}

	return domain.PageRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
		Sort:     c.DefaultQuery("sort", defaultSort),
		Filter:   filter,
	}
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET based on the page request.
func Paginate(req domain.PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (req.Page - 1) * req.PageSize
		return db.Offset(offset).Limit(req.PageSize)
	}
}

// Sort returns a GORM scope that applies ORDER BY based on the page request.
// Only field names present in the allowed list are accepted; others are silently ignored.
// Field names are validated against a strict pattern to prevent SQL injection.
func Sort(req domain.PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field, direction, ok := strings.Cut(req.Sort, ":")
		if !ok {
			return db
		}
		field = strings.TrimSpace(field)
		direction = strings.TrimSpace(strings.ToLower(direction))

		if direction != "asc" && direction != "desc" {
			return db
		}
		if !validFieldName.MatchString(field) || !slices.Contains(allowed, field) {
			return db
		}
		return db.Order(field + " " + direction)
	}
}

// Search returns a GORM scope matching req.Search case-insensitively against
// any of the given columns. An empty search term applies no condition.
func Search(req domain.PageRequest, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term := strings.ToLower(strings.TrimSpace(req.Search))
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + escapeLike(term) + "%"
		conds := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, col := range columns {
			if !validFieldName.MatchString(col) {
				continue
			}
			conds = append(conds, "LOWER("+col+") LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
		if len(conds) == 0 {
			return db
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// Filter returns a GORM scope that applies WHERE conditions based on the page
// request filters. allowed maps query parameter names to column names; keys
// outside it are silently ignored. Keys ending with "__like" produce a
// LIKE '%value%' condition; "true"/"false" values compare as booleans; others
// use exact match.
func Filter(req domain.PageRequest, allowed map[string]string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for key, value := range req.Filter {
			like := strings.HasSuffix(key, "__like")
			column, ok := allowed[strings.TrimSuffix(key, "__like")]
			if !ok || !validFieldName.MatchString(column) {
				continue
			}
			switch {
			case like:
				db = db.Where(column+" LIKE ? ESCAPE '\\'", "%"+escapeLike(value)+"%")
			case value == "true" || value == "false":
				db = db.Where(column+" = ?", value == "true")
			default:
				db = db.Where(column+" = ?", value)
			}
		}
		return db
	}
}

// NewPagination builds the descriptor for one page of a total-element count.
func NewPagination(total int64, req domain.PageRequest) domain.Pagination {
	return domain.Pagination{
		CurrentPage:   req.Page,
		TotalElements: total,
		PageSize:      req.PageSize,
	}.Normalize()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
