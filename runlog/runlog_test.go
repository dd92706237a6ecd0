// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runlog

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emer/htmrl/agent"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRow(run string, step int) *Row {
	st := agent.Stats{Step: step, Reward: float32(step % 2), TDErr: 0.25, GreedyQ: float32(step), ChosenQ: 1, Greedy: 2, Chosen: 1}
	rw := &Row{}
	rw.FromStats(run, &st)
	return rw
}

func TestLogRecord(t *testing.T) {
	lg := NewLog("TestLog")
	var buf bytes.Buffer
	lg.SetCSV(&buf)
	for i := 1; i <= 4; i++ {
		lg.Record(testRow("r1", i))
	}
	if lg.Rows() != 4 {
		t.Fatalf("rows %d", lg.Rows())
	}
	dt := &lg.Table
	if dt.CellFloat("Step", 2) != 3 || dt.CellFloat("Action", 0) != 1 || dt.CellString("Run", 3) != "r1" {
		t.Errorf("cells: step %g action %g run %s", dt.CellFloat("Step", 2), dt.CellFloat("Action", 0), dt.CellString("Run", 3))
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("csv lines %d want 5:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "Reward") || !strings.Contains(lines[0], "GreedyQ") {
		t.Errorf("csv header: %s", lines[0])
	}

	rs := lg.Rewards()
	want := []float64{1, 0, 1, 0}
	for i := range want {
		if rs[i] != want[i] {
			t.Errorf("reward %d: %g want %g", i, rs[i], want[i])
		}
	}

	sm := lg.Summary(0)
	if sm.N != 4 || sm.Reward != 0.5 || sm.GreedyQ != 2.5 || sm.TDErr != 0.25 {
		t.Errorf("summary all: %+v", sm)
	}
	sm = lg.Summary(2)
	if sm.N != 2 || sm.Reward != 0.5 || sm.GreedyQ != 3.5 {
		t.Errorf("summary last 2: %+v", sm)
	}
	if sm := NewLog("empty").Summary(10); sm.N != 0 {
		t.Errorf("empty summary: %+v", sm)
	}
}

func TestStore(t *testing.T) {
	s := tempStore(t)
	r1, err := s.NewRun("first")
	if err != nil {
		t.Fatal(err)
	}
	r2, err := s.NewRun("second")
	if err != nil {
		t.Fatal(err)
	}
	if r1 == r2 || r1 == "" {
		t.Fatalf("run ids %q %q", r1, r2)
	}
	for i := 1; i <= 6; i++ {
		rw := testRow(r1, i)
		rw.State = []float32{0.5, float32(i), -1}
		if err := s.InsertStep(rw); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.InsertStep(testRow(r2, 1)); err != nil {
		t.Fatal(err)
	}
	if n, err := s.CountSteps(r1); err != nil || n != 6 {
		t.Errorf("count r1 %d %v", n, err)
	}
	if n, err := s.CountSteps(r2); err != nil || n != 1 {
		t.Errorf("count r2 %d %v", n, err)
	}
	if err := s.InsertStep(testRow(r1, 3)); err == nil {
		t.Error("expected error for duplicate step")
	}
	if err := s.InsertStep(testRow("no-such-run", 1)); err == nil {
		t.Error("expected foreign key error")
	}

	rw, err := s.GetStep(r1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if rw.Step != 4 || rw.GreedyQ != 4 || rw.TDErr != 0.25 || rw.Action != 1 || rw.Greedy != 2 {
		t.Errorf("row: %+v", rw)
	}
	if len(rw.State) != 3 || rw.State[1] != 4 || rw.State[2] != -1 {
		t.Errorf("state: %v", rw.State)
	}
	rw, err = s.GetStep(r2, 1)
	if err != nil || rw.State != nil {
		t.Errorf("nil state row: %+v %v", rw, err)
	}
	if _, err := s.GetStep(r2, 7); err == nil {
		t.Error("expected error for missing step")
	}

	m, err := s.MeanReward(r1)
	if err != nil || math.Abs(m-0.5) > 1e-9 {
		t.Errorf("mean reward %g %v", m, err)
	}
}
