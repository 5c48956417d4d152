package monitoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/metrics"
	"github.com/sarchlab/schedsim/workload"
)

// SimulateRequest is the body of POST /api/simulate.
type SimulateRequest struct {
	Algorithm   string `json:"algorithm"`
	Processes   string `json:"processes"`
	TimeQuantum int    `json:"time_quantum"`
}

// SimulateResponse is the result of POST /api/simulate.
type SimulateResponse struct {
	Policy  string          `json:"policy"`
	Summary metrics.Summary `json:"summary"`
	Slices  []cpu.Slice     `json:"slices"`
}

// GenerateResponse is the result of GET /api/generate.
type GenerateResponse struct {
	Processes string `json:"processes"`
}

type errorRsp struct {
	Error string `json:"error"`
}

func (m *Monitor) simulate(w http.ResponseWriter, r *http.Request) {
	req := SimulateRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request: %w", err))
		return
	}

	rsp, err := m.runRequest(req)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	writeJSON(w, http.StatusOK, rsp)
}

func (m *Monitor) runRequest(req SimulateRequest) (*SimulateResponse, error) {
	policy, err := cpu.ParsePolicy(req.Algorithm, req.TimeQuantum)
	if err != nil {
		return nil, err
	}

	processes, err := m.reader.ParseString(req.Processes)
	if err != nil {
		return nil, err
	}

	result, err := cpu.Simulate(processes, policy)
	if err != nil {
		return nil, err
	}

	summary, err := metrics.Calculate(result, m.accounting)
	if err != nil {
		return nil, err
	}

	return &SimulateResponse{
		Policy:  policy.String(),
		Summary: summary,
		Slices:  result.Slices,
	}, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, cpu.ErrInvalidInput),
		errors.Is(err, cpu.ErrEmptyProcessSet),
		errors.Is(err, workload.ErrMalformedLine),
		errors.Is(err, workload.ErrTooManyProcesses):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (m *Monitor) generate(w http.ResponseWriter, r *http.Request) {
	count := workload.DefaultMaxProcesses
	if m.reader.MaxProcesses > 0 {
		count = m.reader.MaxProcesses
	}

	seed := time.Now().UnixNano()

	q := r.URL.Query()
	if s := q.Get("count"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest,
				fmt.Errorf("invalid count %q", s))
			return
		}

		count = n
	}

	if m.reader.MaxProcesses > 0 && count > m.reader.MaxProcesses {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: the limit is %d",
			workload.ErrTooManyProcesses, m.reader.MaxProcesses))
		return
	}

	if s := q.Get("seed"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest,
				fmt.Errorf("invalid seed %q", s))
			return
		}

		seed = v
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		Processes: workload.Format(workload.Generate(count, seed)),
	})
}

func methodNotAllowed(allowed string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allowed)
		writeError(w, http.StatusMethodNotAllowed,
			fmt.Errorf("method %s not allowed, use %s", r.Method, allowed))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorRsp{Error: err.Error()})
}
