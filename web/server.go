package web

import (
	"net/http"

	"motor-control-panel/devices"
	"motor-control-panel/session"
	"motor-control-panel/utils"

	"github.com/rs/zerolog/log"
)

// Server is the browser control panel. It only calls into the session and
// renders what the session reports.
type Server struct {
	session   *session.Session
	desktop   utils.Desktop
	listPorts func() ([]devices.PortInfo, error)
	auto      devices.Selector
	mux       *http.ServeMux
}

func NewServer(s *session.Session, desktop utils.Desktop) *Server {
	srv := &Server{
		session:   s,
		desktop:   desktop,
		listPorts: devices.ListPorts,
		auto:      devices.AutoSelector{},
		mux:       http.NewServeMux(),
	}

	srv.mux.HandleFunc("/", srv.indexHandler)
	srv.mux.HandleFunc("/status", srv.statusHandler)
	srv.mux.HandleFunc("/ports", srv.portsHandler)
	srv.mux.HandleFunc("/connect", srv.connectHandler)
	srv.mux.HandleFunc("/disconnect", srv.disconnectHandler)
	srv.mux.HandleFunc("/actuator/press", srv.pressHandler)
	srv.mux.HandleFunc("/actuator/release", srv.releaseHandler)
	srv.mux.HandleFunc("/stop", srv.stopHandler)
	srv.mux.HandleFunc("/level", srv.levelHandler)
	srv.mux.HandleFunc("/command", srv.commandHandler)
	srv.mux.HandleFunc("/logs", srv.logsHandler)
	srv.mux.HandleFunc("/logs/stream", srv.logsStreamHandler)
	srv.mux.HandleFunc("/logs/copy", srv.logsCopyHandler)
	srv.mux.HandleFunc("/logs/type", srv.logsTypeHandler)

	return srv
}

func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	srv.mux.ServeHTTP(w, r)
}

// StartServer serves the panel on addr until the listener fails.
func StartServer(addr string, s *session.Session, desktop utils.Desktop) error {
	log.Info().Str("addr", addr).Msgf("web panel on http://localhost%s", addr)
	return http.ListenAndServe(addr, NewServer(s, desktop))
}
