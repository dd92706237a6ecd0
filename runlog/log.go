// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package runlog records per-step agent diagnostics: in memory as an
etable.Table (optionally streamed as CSV while it grows), and persistently
in a SQLite database keyed by run id.
*/
package runlog

import (
	"io"
	"log"
	"strconv"

	"github.com/emer/etable/agg"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/htmrl/agent"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 4

// Row is one step of one run.
type Row struct {
	Run     string    `desc:"run id"`
	Step    int       `desc:"agent step"`
	Reward  float32   `desc:"reward passed to the step"`
	TDErr   float32   `desc:"scaled TD error"`
	GreedyQ float32   `desc:"value of the greedy action"`
	ChosenQ float32   `desc:"value of the chosen action"`
	Action  int       `desc:"chosen action"`
	Greedy  int       `desc:"greedy action"`
	State   []float32 `desc:"condensed state vector, only persisted by Store"`
}

// FromStats fills the row from an agent's step stats.
func (rw *Row) FromStats(run string, st *agent.Stats) {
	rw.Run = run
	rw.Step = st.Step
	rw.Reward = st.Reward
	rw.TDErr = st.TDErr
	rw.GreedyQ = st.GreedyQ
	rw.ChosenQ = st.ChosenQ
	rw.Action = st.Chosen
	rw.Greedy = st.Greedy
}

// Log is a table of step rows.
type Log struct {
	Table etable.Table `desc:"one row per step"`
	csv   io.Writer
	hdr   bool
}

// NewLog returns an empty log with the given table name.
func NewLog(name string) *Log {
	lg := &Log{}
	lg.Config(name)
	return lg
}

// Config sets up the table columns, removing all rows.
func (lg *Log) Config(name string) {
	dt := &lg.Table
	dt.SetMetaData("name", name)
	dt.SetMetaData("desc", "Record of agent diagnostics per step")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{
		{"Run", etensor.STRING, nil, nil},
		{"Step", etensor.INT64, nil, nil},
		{"Reward", etensor.FLOAT64, nil, nil},
		{"TDErr", etensor.FLOAT64, nil, nil},
		{"GreedyQ", etensor.FLOAT64, nil, nil},
		{"ChosenQ", etensor.FLOAT64, nil, nil},
		{"Action", etensor.INT64, nil, nil},
		{"Greedy", etensor.INT64, nil, nil},
	}
	dt.SetFromSchema(sch, 0)
	lg.hdr = false
}

// SetCSV streams every row recorded from now on to w, tab separated,
// with headers written before the first row.
func (lg *Log) SetCSV(w io.Writer) {
	lg.csv = w
	lg.hdr = false
}

// Rows returns the number of rows.
func (lg *Log) Rows() int { return lg.Table.Rows }

// Record appends a row.
func (lg *Log) Record(rw *Row) {
	dt := &lg.Table
	row := dt.Rows
	dt.SetNumRows(row + 1)

	dt.SetCellString("Run", row, rw.Run)
	dt.SetCellFloat("Step", row, float64(rw.Step))
	dt.SetCellFloat("Reward", row, float64(rw.Reward))
	dt.SetCellFloat("TDErr", row, float64(rw.TDErr))
	dt.SetCellFloat("GreedyQ", row, float64(rw.GreedyQ))
	dt.SetCellFloat("ChosenQ", row, float64(rw.ChosenQ))
	dt.SetCellFloat("Action", row, float64(rw.Action))
	dt.SetCellFloat("Greedy", row, float64(rw.Greedy))

	if lg.csv != nil {
		if !lg.hdr {
			if _, err := dt.WriteCSVHeaders(lg.csv, etable.Tab); err != nil {
				log.Println(err)
			}
			lg.hdr = true
		}
		if err := dt.WriteCSVRow(lg.csv, row, etable.Tab); err != nil {
			log.Println(err)
		}
	}
}

// Summary are mean diagnostics over a range of rows.
type Summary struct {
	N       int
	Reward  float64
	TDErr   float64
	GreedyQ float64
}

// Summary returns the means over the last n rows (all rows if n <= 0 or
// n exceeds the number of rows).
func (lg *Log) Summary(n int) Summary {
	ix := etable.NewIdxView(&lg.Table)
	if n > 0 && n < len(ix.Idxs) {
		ix.Idxs = ix.Idxs[len(ix.Idxs)-n:]
	}
	sm := Summary{N: len(ix.Idxs)}
	if sm.N == 0 {
		return sm
	}
	sm.Reward = agg.Mean(ix, "Reward")[0]
	sm.TDErr = agg.Mean(ix, "TDErr")[0]
	sm.GreedyQ = agg.Mean(ix, "GreedyQ")[0]
	return sm
}

// Rewards returns the reward column.
func (lg *Log) Rewards() []float64 {
	dt := &lg.Table
	rs := make([]float64, dt.Rows)
	for i := range rs {
		rs[i] = dt.CellFloat("Reward", i)
	}
	return rs
}
