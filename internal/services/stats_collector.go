package services

import (
	"context"
	"log"
	"time"

	"sierras-backend/internal/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsCollector refreshes the workshop Prometheus gauges from the
// database on a fixed interval.
type StatsCollector struct {
	db       *pgxpool.Pool
	interval time.Duration
	stopChan chan struct{}
}

func NewStatsCollector(db *pgxpool.Pool) *StatsCollector {
	return &StatsCollector{
		db:       db,
		interval: 60 * time.Second,
		stopChan: make(chan struct{}),
	}
}

// Start runs the collector loop. Call in a goroutine.
func (c *StatsCollector) Start() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

// Stop terminates the collector loop
func (c *StatsCollector) Stop() {
	close(c.stopChan)
}

func (c *StatsCollector) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := c.db.Query(ctx, `
		SELECT es.nombre, COUNT(s.id)
		FROM estados_sierra es
		LEFT JOIN sierras s ON s.estado_id = es.id AND s.activo = true
		GROUP BY es.nombre
	`)
	if err != nil {
		log.Printf("[Stats] Failed to count sierras: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var estado string
		var count int
		if err := rows.Scan(&estado, &count); err != nil {
			log.Printf("[Stats] Scan failed: %v", err)
			return
		}
		metrics.SierrasPorEstado.WithLabelValues(estado).Set(float64(count))
	}
	if err := rows.Err(); err != nil {
		log.Printf("[Stats] Row iteration failed: %v", err)
		return
	}

	var pendientes int
	err = c.db.QueryRow(ctx, `SELECT COUNT(*) FROM afilados WHERE fecha_salida IS NULL`).Scan(&pendientes)
	if err != nil {
		log.Printf("[Stats] Failed to count pending afilados: %v", err)
		return
	}
	metrics.AfiladosPendientes.Set(float64(pendientes))
}
