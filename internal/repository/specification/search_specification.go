package specification

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike quotes LIKE wildcards so the value matches literally
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// AnyFieldContains matches rows where any term appears in any field (ILIKE, Postgres)
type AnyFieldContains struct {
	Fields []string
	Terms  []string
}

func (s AnyFieldContains) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Fields) == 0 || len(s.Terms) == 0 {
		return db
	}
	clauses := make([]string, 0, len(s.Fields)*len(s.Terms))
	args := make([]interface{}, 0, len(s.Fields)*len(s.Terms))
	for _, term := range s.Terms {
		pattern := "%" + EscapeLike(term) + "%"
		for _, field := range s.Fields {
			clauses = append(clauses, field+" ILIKE ?")
			args = append(args, pattern)
		}
	}
	// Parenthesized so the disjunction does not swallow sibling conditions
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// NonEmpty excludes rows where field is blank
type NonEmpty struct {
	Field string
}

func (s NonEmpty) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("TRIM(" + s.Field + ") <> ''")
}
