package journal

import (
	"time"
)

// ListOrdersByTicker returns a ticker's orders in execution order.
func (j *SQLite) ListOrdersByTicker(ticker string) ([]OrderRecord, error) {
	rows, err := j.db.Query(`
		SELECT order_id, run_id, ticker, side, quantity, price, commission, time
		FROM orders
		WHERE ticker = ?
		ORDER BY time ASC`, ticker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRecord
	for rows.Next() {
		var rec OrderRecord
		if err := rows.Scan(
			&rec.OrderID,
			&rec.RunID,
			&rec.Ticker,
			&rec.Side,
			&rec.Quantity,
			&rec.Price,
			&rec.Commission,
			&rec.Time,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOrdersBetween returns orders executed within [start, end).
func (j *SQLite) ListOrdersBetween(start, end time.Time) ([]OrderRecord, error) {
	rows, err := j.db.Query(`
		SELECT order_id, run_id, ticker, side, quantity, price, commission, time
		FROM orders
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRecord
	for rows.Next() {
		var rec OrderRecord
		if err := rows.Scan(
			&rec.OrderID,
			&rec.RunID,
			&rec.Ticker,
			&rec.Side,
			&rec.Quantity,
			&rec.Price,
			&rec.Commission,
			&rec.Time,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSnapshots returns a run's end-of-day snapshots in time order.
func (j *SQLite) ListSnapshots(runID string) ([]Snapshot, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, free_money, active_money, portfolio_cost
		FROM snapshots
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(
			&s.RunID,
			&s.Time,
			&s.FreeMoney,
			&s.ActiveMoney,
			&s.PortfolioCost,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
