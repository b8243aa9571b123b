package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordOrder(rec OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(order_id, run_id, ticker, side, quantity, price, commission, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.OrderID, rec.RunID, rec.Ticker, rec.Side,
		rec.Quantity, rec.Price, rec.Commission, rec.Time,
	)
	return err
}

func (j *SQLite) RecordSnapshot(s Snapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO snapshots
		(run_id, time, free_money, active_money, portfolio_cost)
		VALUES (?, ?, ?, ?, ?)`,
		s.RunID, s.Time, s.FreeMoney, s.ActiveMoney, s.PortfolioCost,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
