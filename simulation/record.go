package simulation

import (
	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/metrics"
)

type processEntry struct {
	RunID          string
	ID             int
	ArrivalTime    int64
	BurstTime      int64
	StartTime      int64
	EndTime        int64
	TurnaroundTime int64
	WaitingTime    int64
	ResponseTime   int64
	Dispatches     int
}

type summaryEntry struct {
	RunID              string
	Policy             string
	NumProcesses       int
	AverageTurnaround  float64
	AverageWaiting     float64
	AverageResponse    float64
	CPUEfficiency      float64
	TotalTime          int64
	TotalExecutionTime int64
	SwitchOverhead     int64
	ContextSwitches    int
	SwitchAccounting   string
}

func (s *Simulation) record(result *cpu.Result, summary metrics.Summary) {
	s.dataRecorder.CreateTable(ProcessTableName, processEntry{})
	s.dataRecorder.CreateTable(SummaryTableName, summaryEntry{})

	for _, p := range summary.Processes {
		s.dataRecorder.InsertData(ProcessTableName, processEntry{
			RunID:          s.id,
			ID:             p.ID,
			ArrivalTime:    int64(p.ArrivalTime),
			BurstTime:      int64(p.BurstTime),
			StartTime:      int64(p.StartTime),
			EndTime:        int64(p.EndTime),
			TurnaroundTime: int64(p.TurnaroundTime),
			WaitingTime:    int64(p.WaitingTime),
			ResponseTime:   int64(p.ResponseTime),
			Dispatches:     p.Dispatches,
		})
	}

	s.dataRecorder.InsertData(SummaryTableName, summaryEntry{
		RunID:              s.id,
		Policy:             result.Policy.String(),
		NumProcesses:       len(summary.Processes),
		AverageTurnaround:  summary.AverageTurnaround,
		AverageWaiting:     summary.AverageWaiting,
		AverageResponse:    summary.AverageResponse,
		CPUEfficiency:      summary.CPUEfficiency,
		TotalTime:          int64(summary.TotalTime),
		TotalExecutionTime: int64(summary.TotalExecutionTime),
		SwitchOverhead:     int64(summary.SwitchOverhead),
		ContextSwitches:    summary.ContextSwitches,
		SwitchAccounting:   s.accounting.Mode.String(),
	})

	s.dataRecorder.Flush()
}
