package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/sim"
	"github.com/sarchlab/schedsim/workload"
)

type fixedState struct {
	state cpu.State
}

func (s fixedState) State() cpu.State {
	return s.state
}

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		router http.Handler
	)

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		m = NewMonitor()
		router = m.Router()
	})

	Context("simulate", func() {
		It("should run a Round Robin simulation", func() {
			rec := serve(http.MethodPost, "/api/simulate",
				`{"algorithm":"RR","processes":"1 0 5\n2 1 3\n3 2 8\n","time_quantum":2}`)

			Expect(rec.Code).To(Equal(http.StatusOK))

			rsp := SimulateResponse{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
			Expect(rsp.Policy).To(Equal("RR(q=2)"))
			Expect(rsp.Summary.TotalTime).To(Equal(sim.VTime(16)))
			Expect(rsp.Summary.TotalExecutionTime).To(Equal(sim.VTime(16)))
			Expect(rsp.Summary.Processes).To(HaveLen(3))
			Expect(rsp.Summary.Processes[1].ResponseTime).To(Equal(sim.VTime(1)))
			Expect(rsp.Slices).To(HaveLen(9))
		})

		It("should run an FCFS simulation", func() {
			rec := serve(http.MethodPost, "/api/simulate",
				`{"algorithm":"FCFS","processes":"1 0 5\n2 1 3\n3 2 8\n"}`)

			Expect(rec.Code).To(Equal(http.StatusOK))

			rsp := SimulateResponse{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
			Expect(rsp.Summary.AverageWaiting).To(BeNumerically("~", 10.0/3, 1e-9))
		})

		DescribeTable("bad requests",
			func(body string) {
				rec := serve(http.MethodPost, "/api/simulate", body)

				Expect(rec.Code).To(Equal(http.StatusBadRequest))
				Expect(rec.Body.String()).To(ContainSubstring(`"error"`))
			},
			Entry("not json", `{`),
			Entry("unknown algorithm",
				`{"algorithm":"SJF","processes":"1 0 5"}`),
			Entry("zero quantum",
				`{"algorithm":"RR","processes":"1 0 5","time_quantum":0}`),
			Entry("malformed line",
				`{"algorithm":"FCFS","processes":"1 0"}`),
			Entry("empty workload",
				`{"algorithm":"FCFS","processes":""}`),
			Entry("zero burst",
				`{"algorithm":"FCFS","processes":"1 0 0"}`),
		)

		DescribeTable("other methods",
			func(method string) {
				rec := serve(method, "/api/simulate", "")

				Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
				Expect(rec.Header().Get("Allow")).To(Equal(http.MethodPost))
				Expect(rec.Body.String()).To(ContainSubstring(`"error"`))
			},
			Entry("GET", http.MethodGet),
			Entry("PUT", http.MethodPut),
			Entry("DELETE", http.MethodDelete),
		)

		It("should enforce the process limit", func() {
			m.WithWorkloadReader(workload.Reader{MaxProcesses: 1})

			rec := serve(http.MethodPost, "/api/simulate",
				`{"algorithm":"FCFS","processes":"1 0 5\n2 0 5\n"}`)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("generate", func() {
		It("should generate a workload", func() {
			rec := serve(http.MethodGet, "/api/generate?count=5&seed=3", "")

			Expect(rec.Code).To(Equal(http.StatusOK))

			rsp := GenerateResponse{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
			Expect(rsp.Processes).To(Equal(
				workload.Format(workload.Generate(5, 3))))
		})

		It("should use the process limit as the default count", func() {
			rec := serve(http.MethodGet, "/api/generate", "")

			rsp := GenerateResponse{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
			Expect(strings.Count(rsp.Processes, "\n")).
				To(Equal(workload.DefaultMaxProcesses))
		})

		DescribeTable("bad parameters",
			func(target string) {
				rec := serve(http.MethodGet, target, "")

				Expect(rec.Code).To(Equal(http.StatusBadRequest))
			},
			Entry("negative count", "/api/generate?count=-1"),
			Entry("count over the limit", "/api/generate?count=51"),
			Entry("bad seed", "/api/generate?seed=x"),
		)

		It("should reject other methods", func() {
			rec := serve(http.MethodPost, "/api/generate", "")

			Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
			Expect(rec.Header().Get("Allow")).To(Equal(http.MethodGet))
		})
	})

	Context("engine control", func() {
		It("should report missing engine", func() {
			rec := serve(http.MethodGet, "/api/now", "")

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should report the current time", func() {
			engine := sim.NewSerialEngine()
			m.RegisterEngine(engine)

			rec := serve(http.MethodGet, "/api/now", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal(`{"now":0}`))
		})

		It("should pause and continue the engine", func() {
			engine := sim.NewSerialEngine()
			m.RegisterEngine(engine)

			serve(http.MethodGet, "/api/pause", "")
			Expect(engine.IsPaused()).To(BeTrue())

			serve(http.MethodGet, "/api/continue", "")
			Expect(engine.IsPaused()).To(BeFalse())
		})
	})

	Context("dispatcher", func() {
		It("should report missing dispatcher", func() {
			rec := serve(http.MethodGet, "/api/dispatcher", "")

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should serialize the dispatcher state", func() {
			m.RegisterDispatcher(fixedState{state: cpu.State{
				Name:       "CPU",
				Policy:     "FCFS",
				Running:    2,
				ReadyQueue: []int{3},
			}})

			rec := serve(http.MethodGet, "/api/dispatcher", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.Len()).To(BeNumerically(">", 0))
		})
	})

	Context("progress", func() {
		It("should list and remove progress bars", func() {
			bar := m.CreateProgressBar("Simulation", 3)

			rec := serve(http.MethodGet, "/api/progress", "")
			Expect(rec.Body.String()).To(ContainSubstring(`"name":"Simulation"`))
			Expect(rec.Body.String()).To(ContainSubstring(`"total":3`))

			m.CompleteProgressBar(bar)

			rec = serve(http.MethodGet, "/api/progress", "")
			Expect(rec.Body.String()).To(Equal("[]"))
		})
	})

	It("should serve the web page", func() {
		rec := serve(http.MethodGet, "/", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})
})

var _ = Describe("ProgressHook", func() {
	It("should follow arrivals and completions", func() {
		bar := &ProgressBar{Total: 3}
		hook := NewProgressHook(bar)
		counter := NewProgressHook(bar)

		engine := sim.NewSerialEngine()
		engine.AcceptHook(hook)

		_, err := cpu.Simulate(
			[]cpu.Process{
				cpu.NewProcess(1, 0, 5),
				cpu.NewProcess(2, 1, 3),
				cpu.NewProcess(3, 2, 8),
			},
			cpu.FCFS(),
			cpu.WithEngine(engine),
			cpu.WithDispatcherHook(counter),
		)

		Expect(err).NotTo(HaveOccurred())
		completed, active := bar.Counts()
		Expect(completed).To(Equal(uint64(3)))
		Expect(active).To(Equal(uint64(0)))
	})
})
