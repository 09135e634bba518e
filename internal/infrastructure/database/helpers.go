package database

import (
	"github.com/rs/zerolog/log"
)

// Close shuts the pool down. Safe to call more than once.
func (db *PostgresDB) Close() {
	if db.Pool == nil {
		return
	}

	log.Info().Msg("Closing database connection pool")
	db.Pool.Close()
	db.Pool = nil
}

// PoolStats is a snapshot of connection pool utilization, exposed on the
// health endpoint.
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	IdleConns     int32 `json:"idle_conns"`
	MaxConns      int32 `json:"max_conns"`
}

func (db *PostgresDB) Stats() PoolStats {
	if db.Pool == nil {
		return PoolStats{}
	}

	raw := db.Pool.Stat()
	return PoolStats{
		TotalConns:    raw.TotalConns(),
		AcquiredConns: raw.AcquiredConns(),
		IdleConns:     raw.IdleConns(),
		MaxConns:      raw.MaxConns(),
	}
}
