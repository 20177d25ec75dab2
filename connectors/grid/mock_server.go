package grid

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/gridmix/core/model"
	"github.com/kilianp07/gridmix/infra/logger"
)

// Mock endpoint paths.
const (
	MockGenerationPath = "/gen-summary"
	MockFuelMixPath    = "/fuel-type-data"
	MockPricePath      = "/price"
)

// MockServer serves the observations of a Source in the report shapes read
// by HTTPSource, for local runs without a market data account.
type MockServer struct {
	addr     string
	src      Source
	fields   FieldMap
	priceKey string
	log      logger.Logger
	srv      *http.Server
	requests *prometheus.CounterVec
	failed   prometheus.Counter
}

// NewMockServer creates a mock server reading from src and registering its
// metrics on reg. If reg is nil the default registerer is used.
func NewMockServer(addr string, src Source, cfg Config, reg prometheus.Registerer) *MockServer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cfg.SetDefaults()
	log := logger.New("grid-mock")

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grid_mock_requests_total",
		Help: "Requests served by the mock market data server",
	}, []string{"endpoint"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_mock_requests_failed_total",
		Help: "Mock requests whose observations could not be read",
	})
	if err := reg.Register(requests); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if exist, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				requests = exist
			}
		}
	}
	if err := reg.Register(failed); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if exist, ok := are.ExistingCollector.(prometheus.Counter); ok {
				failed = exist
			}
		}
	}

	return &MockServer{
		addr:     addr,
		src:      src,
		fields:   cfg.Fields,
		priceKey: cfg.PriceField,
		log:      log,
		requests: requests,
		failed:   failed,
	}
}

// Handler returns the routes of the server.
func (s *MockServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("pong")); err != nil {
			s.log.Errorf("write pong: %v", err)
		}
	})
	mux.HandleFunc(MockGenerationPath, s.serve("generation", s.generationDoc))
	mux.HandleFunc(MockFuelMixPath, s.serve("fuel_mix", fuelMixDoc))
	mux.HandleFunc(MockPricePath, s.serve("price", s.priceDoc))
	return mux
}

func (s *MockServer) serve(endpoint string, render func(model.Observations) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		obs, err := s.src.Fetch(r.Context())
		if err != nil {
			s.failed.Inc()
			s.log.Errorf("mock %s: %v", endpoint, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if obs.Timestamp.IsZero() {
			obs.Timestamp = time.Now().UTC()
		}
		s.requests.WithLabelValues(endpoint).Inc()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(render(obs)); err != nil {
			s.log.Errorf("encode %s: %v", endpoint, err)
		}
	}
}

func (s *MockServer) generationDoc(obs model.Observations) any {
	type field struct {
		Name string `json:"name"`
	}
	doc := struct {
		Fields []field `json:"fields"`
		Data   [][]any `json:"data"`
	}{
		Fields: []field{{s.fields.Timestamp}, {s.fields.NonRenewable}, {s.fields.Renewable}, {s.fields.Wind}},
		Data:   [][]any{},
	}
	if p := obs.Primary; p != nil {
		ts := obs.Timestamp.UTC().Format("2006-01-02T15:04:05")
		doc.Data = append(doc.Data, []any{ts, p.NonRenewableMW, p.RenewableMW, p.WindMW})
	}
	return doc
}

func fuelMixDoc(obs model.Observations) any {
	codes := make(map[model.FuelType]string, len(eiaFuelCodes))
	for code, f := range eiaFuelCodes {
		codes[f] = code
	}
	type row struct {
		Period   string  `json:"period"`
		FuelType string  `json:"fueltype"`
		Value    float64 `json:"value"`
	}
	period := obs.Timestamp.UTC().Format("2006-01-02T15")
	rows := make([]row, 0, len(obs.Secondary))
	for f, mw := range obs.Secondary {
		code, ok := codes[f]
		if !ok {
			code = f.String()
		}
		rows = append(rows, row{Period: period, FuelType: code, Value: mw})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].FuelType < rows[j].FuelType })

	var doc struct {
		Response struct {
			Data []row `json:"data"`
		} `json:"response"`
	}
	doc.Response.Data = rows
	return doc
}

func (s *MockServer) priceDoc(obs model.Observations) any {
	doc := map[string]any{s.priceKey: nil}
	if obs.MarketPrice != nil {
		doc[s.priceKey] = *obs.MarketPrice
	}
	return doc
}

// Addr returns the listening address once Start has been called.
func (s *MockServer) Addr() string { return s.addr }

// Start runs the HTTP server until the context is canceled.
func (s *MockServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr().String()
	s.srv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("shutdown server: %v", err)
		}
		cancel()
	}()
	s.log.Infof("mock market data server listening on %s", s.addr)
	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
