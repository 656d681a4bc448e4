package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/twd38/alamo-app-sub003/pkg/catalog"
	"github.com/twd38/alamo-app-sub003/pkg/site"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingProgress struct {
	n atomic.Int64
}

func (p *countingProgress) Increment() int {
	return int(p.n.Add(1))
}

func municipality(n int) []site.Lot {
	lots := make([]site.Lot, n)
	for i := range lots {
		l := scenarioLot()
		l.ID = fmt.Sprintf("lot-%03d", i)
		l.WidthFt = 40 + float64(i%8)*10
		l.DepthFt = 100 + float64(i%5)*20
		l.AreaSqFt = l.WidthFt * l.DepthFt
		l.FARLimit = site.Limit(0.5 + float64(i%6)*0.5)
		l.LandCost = 200000 + float64(i)*10000
		lots[i] = l
	}
	return lots
}

func TestScreenMatchesSequentialEvaluation(t *testing.T) {
	lots := municipality(40)
	schemes := catalog.Default().Schemes()
	a := site.DefaultAssumptions()
	progress := &countingProgress{}

	s := &Screener{Workers: 8, Progress: progress}
	got, err := s.Screen(context.Background(), lots, schemes, a)
	if err != nil {
		t.Fatalf("Screen failed: %v", err)
	}

	if len(got) != len(lots) {
		t.Fatalf("results = %d, want %d", len(got), len(lots))
	}
	for i, lr := range got {
		if lr.Lot.ID != lots[i].ID {
			t.Fatalf("result %d is lot %s, want %s", i, lr.Lot.ID, lots[i].ID)
		}
		want := EvaluateChecked(lots[i], schemes, a)
		if diff := cmp.Diff(want, lr.Scenarios, cmpopts.EquateErrors()); diff != "" {
			t.Fatalf("lot %s differs from sequential evaluation (-want +got):\n%s", lots[i].ID, diff)
		}
	}

	if progress.n.Load() != int64(len(lots)*len(schemes)) {
		t.Errorf("progress ticks = %d, want %d", progress.n.Load(), len(lots)*len(schemes))
	}
}

func TestScreenIsolatesInvalidLot(t *testing.T) {
	lots := municipality(3)
	lots[1].WidthFt = -10

	core, logs := observer.New(zap.WarnLevel)
	s := &Screener{Workers: 2, Logger: zap.New(core)}
	got, err := s.Screen(context.Background(), lots, catalog.Default().Schemes(), site.DefaultAssumptions())
	if err != nil {
		t.Fatalf("an invalid lot must not abort the batch: %v", err)
	}

	for _, sc := range got[1].Scenarios {
		if sc.Err == nil {
			t.Errorf("lot-001/%s should be rejected", sc.Scheme.Name)
		}
	}
	for _, i := range []int{0, 2} {
		for _, sc := range got[i].Scenarios {
			if sc.Err != nil {
				t.Errorf("%s/%s unexpectedly rejected: %v", got[i].Lot.ID, sc.Scheme.Name, sc.Err)
			}
		}
	}

	if n := logs.FilterMessage("pair rejected").Len(); n != catalog.Default().Len() {
		t.Errorf("rejection log entries = %d, want %d", n, catalog.Default().Len())
	}

	sum := Summarize(got)
	if sum.Invalid != catalog.Default().Len() || sum.Lots != 3 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestScreenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Screener{Workers: 4}
	_, err := s.Screen(ctx, municipality(50), catalog.Default().Schemes(), site.DefaultAssumptions())
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestScreenZeroValue(t *testing.T) {
	var s Screener
	got, err := s.Screen(context.Background(), municipality(2), catalog.Default().Schemes(), site.DefaultAssumptions())
	if err != nil {
		t.Fatalf("Screen failed: %v", err)
	}
	if len(got) != 2 || len(got[0].Scenarios) != catalog.Default().Len() {
		t.Errorf("unexpected result shape: %d lots", len(got))
	}
}
