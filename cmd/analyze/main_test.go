package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_insight/internal/feature/analysis/domain"
	"stock_insight/internal/feature/analysis/domain/entity"
)

type fakeLister struct {
	codes []string
	err   error
}

func (f fakeLister) ActiveCodes(context.Context) ([]string, error) { return f.codes, f.err }

type fakeAnalyzer struct {
	fail  map[string]bool
	calls []string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, symbol, startDate, endDate string) (*entity.AnalysisResult, error) {
	f.calls = append(f.calls, symbol)
	if f.fail[symbol] {
		return nil, domain.ErrDataUnavailable
	}
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return &entity.AnalysisResult{
		Symbol:      strings.ToUpper(symbol),
		Range:       entity.DateRange{Start: day, End: day},
		Trend:       entity.TrendNeutral,
		GeneratedAt: day,
	}, nil
}

func TestRun_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	a := &fakeAnalyzer{fail: map[string]bool{"BAD": true}}
	var out bytes.Buffer
	err := run(context.Background(), a, &out, []string{"aapl", "BAD", "msft"}, "", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"aapl", "BAD", "msft"}, a.calls)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "AAPL", first["symbol"])
}

func TestRun_AllFailed(t *testing.T) {
	t.Parallel()

	a := &fakeAnalyzer{fail: map[string]bool{"X": true}}
	err := run(context.Background(), a, &bytes.Buffer{}, []string{"X"}, "", "")
	assert.Error(t, err)
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := &fakeAnalyzer{}
	err := run(ctx, a, &bytes.Buffer{}, []string{"AAPL"}, "", "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, a.calls)
}

func TestRootCmd_RequiresSymbol(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(&fakeAnalyzer{}, nil)
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestRootCmd_Flags(t *testing.T) {
	t.Parallel()

	a := &fakeAnalyzer{}
	var out bytes.Buffer
	cmd := newRootCmd(a, nil)
	cmd.SetArgs([]string{"AAPL", "--start", "2024-01-01", "--end", "2024-01-31"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, []string{"AAPL"}, a.calls)
	assert.Contains(t, out.String(), `"symbol":"AAPL"`)
}

func TestRootCmd_Watchlist(t *testing.T) {
	t.Parallel()

	a := &fakeAnalyzer{}
	var out bytes.Buffer
	cmd := newRootCmd(a, fakeLister{codes: []string{"MSFT", "NVDA"}})
	cmd.SetArgs([]string{"AAPL", "--watchlist"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, a.calls)
}

func TestRootCmd_WatchlistErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		lister fakeLister
		want   string
	}{
		{name: "lister error", lister: fakeLister{err: errors.New("db down")}, want: "db down"},
		{name: "empty watchlist", lister: fakeLister{}, want: "no symbols"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := &fakeAnalyzer{}
			cmd := newRootCmd(a, tt.lister)
			cmd.SetArgs([]string{"--watchlist"})
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			assert.ErrorContains(t, cmd.Execute(), tt.want)
			assert.Empty(t, a.calls)
		})
	}
}
