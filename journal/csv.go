package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	orders *csv.Writer
	snaps  *csv.Writer
	of, sf *os.File
}

func NewCSV(ordersPath, snapshotsPath string) (*CSVJournal, error) {
	of, err := os.Create(ordersPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(snapshotsPath)
	if err != nil {
		of.Close()
		return nil, err
	}

	ow := csv.NewWriter(of)
	sw := csv.NewWriter(sf)

	if err := ow.Write([]string{"order_id", "run_id", "ticker", "side", "quantity", "price", "commission", "time"}); err != nil {
		return nil, err
	}
	if err := sw.Write([]string{"run_id", "time", "free_money", "active_money", "portfolio_cost"}); err != nil {
		return nil, err
	}

	ow.Flush()
	if err := ow.Error(); err != nil {
		return nil, err
	}
	sw.Flush()
	if err := sw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{orders: ow, snaps: sw, of: of, sf: sf}, nil
}

func (j *CSVJournal) RecordOrder(rec OrderRecord) error {
	j.orders.Write([]string{
		rec.OrderID,
		rec.RunID,
		rec.Ticker,
		rec.Side,
		strconv.Itoa(rec.Quantity),
		f(rec.Price),
		f(rec.Commission),
		rec.Time.Format(time.RFC3339),
	})
	j.orders.Flush()
	return j.orders.Error()
}

func (j *CSVJournal) RecordSnapshot(s Snapshot) error {
	j.snaps.Write([]string{
		s.RunID,
		s.Time.Format(time.RFC3339),
		f(s.FreeMoney),
		f(s.ActiveMoney),
		f(s.PortfolioCost),
	})
	j.snaps.Flush()
	return j.snaps.Error()
}

func (j *CSVJournal) Close() error {
	j.orders.Flush()
	j.snaps.Flush()
	if err := j.of.Close(); err != nil {
		j.sf.Close()
		return err
	}
	return j.sf.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
