package engine

import (
	"errors"
	"testing"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/stretchr/testify/suite"
)

type EngineTestSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) TestNilCallbacksAreSkipped() {
	callbacks := LifecycleCallbacks{}

	suite.NoError(callbacks.BacktestStart(1))
	suite.NoError(callbacks.RunStart("run", "ema_cross", 100))
	suite.NoError(callbacks.ProcessData(1, 100))
	suite.NoError(callbacks.Trade(types.Trade{}))
	suite.NotPanics(func() {
		callbacks.RunEnd("run", types.BacktestResult{})
		callbacks.BacktestEnd(nil)
	})
}

func (suite *EngineTestSuite) TestOnProcessDataCallbackWithProgress() {
	var progress []int

	callback := OnProcessDataCallback(func(current int, total int) error {
		progress = append(progress, current)

		return nil
	})
	callbacks := LifecycleCallbacks{OnProcessData: &callback}

	for i := 1; i <= 5; i++ {
		suite.NoError(callbacks.ProcessData(i, 5))
	}

	suite.Equal([]int{1, 2, 3, 4, 5}, progress)
}

func (suite *EngineTestSuite) TestCallbackErrorIsReturned() {
	stop := errors.New("stop")
	callback := OnRunStartCallback(func(runID string, strategyName string, totalBars int) error {
		return stop
	})
	callbacks := LifecycleCallbacks{OnRunStart: &callback}

	suite.ErrorIs(callbacks.RunStart("run", "ema_cross", 100), stop)
}

func (suite *EngineTestSuite) TestEndCallbacksReceiveValues() {
	var (
		endErr   error
		endRunID string
	)

	failure := errors.New("failed")
	backtestEnd := OnBacktestEndCallback(func(err error) { endErr = err })
	runEnd := OnRunEndCallback(func(runID string, result types.BacktestResult) { endRunID = runID })

	callbacks := LifecycleCallbacks{OnBacktestEnd: &backtestEnd, OnRunEnd: &runEnd}
	callbacks.BacktestEnd(failure)
	callbacks.RunEnd("run-1", types.BacktestResult{})

	suite.Equal(failure, endErr)
	suite.Equal("run-1", endRunID)
}
