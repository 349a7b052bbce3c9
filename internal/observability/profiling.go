package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/tournament-sync/internal/config"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
)

// Profiling owns the optional pprof listener and the continuous-profiling
// session. Either may be nil.
type Profiling struct {
	logger    *logging.Logger
	pprof     *http.Server
	pprofAddr string
	profiler  *pyroscope.Profiler
}

func StartProfiling(cfg config.Config, logger *logging.Logger) (*Profiling, error) {
	if logger == nil {
		logger = logging.Default()
	}
	p := &Profiling{logger: logger}

	if cfg.PprofEnabled {
		listener, err := net.Listen("tcp", cfg.PprofAddr)
		if err != nil {
			return nil, err
		}
		p.pprof = &http.Server{Handler: pprofMux(), ReadHeaderTimeout: 5 * time.Second}
		p.pprofAddr = listener.Addr().String()
		go func() {
			if err := p.pprof.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("pprof server failed", "error", err)
			}
		}()
		logger.Info("pprof server started", "addr", p.pprofAddr)
	}

	if cfg.PyroscopeEnabled {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName:   cfg.PyroscopeAppName,
			ServerAddress:     cfg.PyroscopeServerAddress,
			AuthToken:         cfg.PyroscopeAuthToken,
			BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
			BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
			UploadRate:        cfg.PyroscopeUploadRate,
			Tags: map[string]string{
				"env":     cfg.AppEnv,
				"service": cfg.ServiceName,
				"version": cfg.ServiceVersion,
			},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseSpace,
				pyroscope.ProfileGoroutines,
				pyroscope.ProfileMutexDuration,
				pyroscope.ProfileBlockDuration,
			},
		})
		if err != nil {
			_ = p.Stop(context.Background())
			return nil, err
		}
		p.profiler = profiler
		logger.Info("pyroscope started", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)
	}

	return p, nil
}

// Addr is the pprof listener address, or "" when pprof is off.
func (p *Profiling) Addr() string {
	if p == nil {
		return ""
	}
	return p.pprofAddr
}

func (p *Profiling) Stop(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var errs []error
	if p.pprof != nil {
		errs = append(errs, p.pprof.Shutdown(ctx))
	}
	if p.profiler != nil {
		errs = append(errs, p.profiler.Stop())
	}
	return errors.Join(errs...)
}

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}
