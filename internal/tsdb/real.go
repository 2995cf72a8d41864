package tsdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/sweeney/enclosure-monitor/internal/alerts"
)

// Open prepares a connection pool for the given postgres conn string.
// sql.Open does not dial: an unreachable database surfaces as per-query
// errors, so the daemon still starts while the store is down.
func Open(connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("open timescale connection: %w", err)
	}
	return db, nil
}

// TimescaleQuerier reads temperature history from a hypertable.
type TimescaleQuerier struct {
	db    *sql.DB
	table string
}

func NewTimescaleQuerier(db *sql.DB, table string) *TimescaleQuerier {
	return &TimescaleQuerier{db: db, table: table}
}

// TempReadings returns CCD and LN2 readings in [from, to], oldest first.
// Rows with a NULL temperature are skipped.
func (q *TimescaleQuerier) TempReadings(ctx context.Context, from, to time.Time) ([]alerts.TempReading, error) {
	query := fmt.Sprintf(
		"SELECT time, camera, sensor, temperature FROM %s WHERE time BETWEEN $1 AND $2 AND sensor IN ('ccd', 'ln2') ORDER BY time",
		q.table,
	)

	rows, err := q.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.table, err)
	}
	defer rows.Close()

	var readings []alerts.TempReading
	for rows.Next() {
		var (
			ts          time.Time
			camera      string
			sensor      string
			temperature sql.NullFloat64
		)
		if err := rows.Scan(&ts, &camera, &sensor, &temperature); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", q.table, err)
		}
		if !temperature.Valid {
			continue
		}
		readings = append(readings, alerts.TempReading{
			Time:        ts,
			Camera:      camera,
			Sensor:      sensor,
			Temperature: temperature.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", q.table, err)
	}

	return readings, nil
}
