package stats

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type hitRepository struct {
	DB *sql.DB
}

// NewHitRepository returns a Postgres-backed HitRepository.
func NewHitRepository(db *sql.DB) HitRepository {
	return &hitRepository{DB: db}
}

func (r *hitRepository) Create(ctx context.Context, hit *EndpointHit) error {
	query := `
		INSERT INTO hits (id, app, uri, ip, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, hit.ID, hit.App, hit.URI, hit.IP, hit.Timestamp)
	return err
}

func (r *hitRepository) Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	count := "COUNT(*)"
	if unique {
		count = "COUNT(DISTINCT ip)"
	}
	query := `
		SELECT app, uri, ` + count + ` AS hits
		FROM hits
		WHERE timestamp BETWEEN $1 AND $2
			AND (cardinality($3::text[]) = 0 OR uri = ANY($3))
		GROUP BY app, uri
		ORDER BY hits DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, start, end, pq.Array(uris))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]ViewStats, 0)
	for rows.Next() {
		var s ViewStats
		if err := rows.Scan(&s.App, &s.URI, &s.Hits); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
