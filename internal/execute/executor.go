package execute

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/ops-agent/backend/internal/nlq"
	"github.com/ops-agent/backend/pkg/logger"
)

var placeholderPattern = regexp.MustCompile(`:([a-z_]+)`)

// Executor runs SQL artifacts against a read replica of the monitoring
// backend's datastore. Only SELECT statements are accepted; anything
// else is refused before reaching the database.
type Executor struct {
	db *sql.DB
}

func NewExecutor(host string, port int, user, password, database string) (*Executor, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", user, password, host, port, database)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open replica connection: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	logger.Info("Replica executor initialized",
		zap.String("host", host),
		zap.String("database", database),
	)

	return &Executor{db: db}, nil
}

func (e *Executor) Close() error {
	return e.db.Close()
}

// DB exposes the replica handle for collaborators that run their own
// read-only queries (the history fetcher).
func (e *Executor) DB() *sql.DB {
	return e.db
}

// Ping verifies the replica is reachable.
func (e *Executor) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// Run executes the artifact and returns rows as column-name maps.
func (e *Executor) Run(ctx context.Context, artifact nlq.SQLArtifact) ([]map[string]interface{}, error) {
	if !strings.HasPrefix(strings.TrimSpace(strings.ToUpper(artifact.Text)), "SELECT") {
		return nil, fmt.Errorf("refusing to execute non-SELECT statement")
	}

	query, args, err := ExpandBindings(artifact.Text, artifact.Bindings)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	logger.Debug("Replica query executed", zap.Int("rows", len(results)))
	return results, nil
}

// ExpandBindings rewrites :name placeholders to driver positional
// arguments in the order they appear in the statement. Every placeholder
// must have a binding; a dangling placeholder is an error rather than a
// silently empty argument.
func ExpandBindings(query string, bindings map[string]interface{}) (string, []interface{}, error) {
	var args []interface{}
	var missing []string

	expanded := placeholderPattern.ReplaceAllStringFunc(query, func(match string) string {
		name := match[1:]
		value, ok := bindings[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		args = append(args, value)
		return "?"
	})

	if len(missing) > 0 {
		return "", nil, fmt.Errorf("unbound placeholders: %s", strings.Join(missing, ", "))
	}

	return expanded, args, nil
}
