package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// evalRecord is one row of optimize_log.csv. Parameter columns follow
// NewParamVector order and hold the clamped values actually simulated.
type evalRecord struct {
	Eval                int     `csv:"eval"`
	Fitness             float64 `csv:"fitness"`
	DeliveriesPerSec    float64 `csv:"deliveries_per_sec"`
	Quality             float64 `csv:"quality"`
	CellSize            float64 `csv:"cell_size"`
	SearchRadius        float64 `csv:"search_radius"`
	RadiusStep          float64 `csv:"radius_step"`
	PushMultiplier      float64 `csv:"push_multiplier"`
	DeliveredSpeedLimit float64 `csv:"delivered_speed_limit"`
}

func newEvalRecord(eval int, fitness, rate, quality float64, values []float64) evalRecord {
	return evalRecord{
		Eval:                eval,
		Fitness:             fitness,
		DeliveriesPerSec:    rate,
		Quality:             quality,
		CellSize:            values[0],
		SearchRadius:        values[1],
		RadiusStep:          values[2],
		PushMultiplier:      values[3],
		DeliveredSpeedLimit: values[4],
	}
}

// evalLog appends evaluation records to a CSV file, header first.
type evalLog struct {
	file          *os.File
	headerWritten bool
}

func createEvalLog(path string) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	return &evalLog{file: f}, nil
}

func (l *evalLog) Append(r evalRecord) error {
	rows := []evalRecord{r}
	var err error
	if !l.headerWritten {
		err = gocsv.Marshal(rows, l.file)
		l.headerWritten = err == nil
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, l.file)
	}
	if err != nil {
		return fmt.Errorf("writing eval log: %w", err)
	}
	return nil
}

func (l *evalLog) Close() error {
	return l.file.Close()
}
