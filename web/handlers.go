package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"motor-control-panel/devices"
	"motor-control-panel/logging"
	"motor-control-panel/protocol"
	"motor-control-panel/session"
	"motor-control-panel/types"

	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write json response")
	}
}

func requirePOST(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// sendErrorStatus maps session errors to HTTP codes.
func sendErrorStatus(err error) int {
	var werr *session.TransportWriteError
	switch {
	case errors.Is(err, protocol.ErrInvalidCommand):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotConnected):
		return http.StatusServiceUnavailable
	case errors.As(err, &werr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (srv *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, srv.session.Status())
}

func (srv *Server) portsHandler(w http.ResponseWriter, r *http.Request) {
	ports, err := srv.listPorts()
	if err != nil || len(ports) == 0 {
		if err != nil {
			log.Warn().Err(err).Msg("list serial ports")
		}
		ports = devices.CommonPorts()
	}
	writeJSON(w, http.StatusOK, ports)
}

func (srv *Server) connectHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}

	var req struct {
		Port string `json:"port"`
	}
	// An empty body means "pick a port for me".
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var sel devices.Selector = srv.auto
	if req.Port != "" {
		sel = devices.FixedPort(req.Port)
	}

	if err := srv.session.Connect(r.Context(), sel); err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, session.ErrAlreadyConnected) {
			code = http.StatusConflict
		}
		http.Error(w, err.Error(), code)
		return
	}
	writeJSON(w, http.StatusOK, srv.session.Status())
}

func (srv *Server) disconnectHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}
	srv.session.Disconnect()
	writeJSON(w, http.StatusOK, srv.session.Status())
}

type actuatorRequest struct {
	ID int `json:"id"`
}

func (srv *Server) decodeActuator(w http.ResponseWriter, r *http.Request) (int, bool) {
	if !requirePOST(w, r) {
		return 0, false
	}
	var req actuatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return 0, false
	}
	if err := protocol.ValidateActuator(req.ID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return req.ID, true
}

// Press and release are fire-and-forget: the outcome shows up in the log,
// never as an error response.
func (srv *Server) pressHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := srv.decodeActuator(w, r)
	if !ok {
		return
	}
	srv.session.Press(id)
	w.WriteHeader(http.StatusAccepted)
}

func (srv *Server) releaseHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := srv.decodeActuator(w, r)
	if !ok {
		return
	}
	srv.session.Release(id)
	w.WriteHeader(http.StatusAccepted)
}

func (srv *Server) stopHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}
	if err := srv.session.SendStopAll(); err != nil {
		http.Error(w, err.Error(), sendErrorStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (srv *Server) levelHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}
	var req struct {
		Level int `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := srv.session.SetDriveLevel(req.Level); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, srv.session.Status())
}

func (srv *Server) commandHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}
	var req struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	cmd, err := protocol.Parse(req.Command)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := srv.session.Send(cmd); err != nil {
		http.Error(w, err.Error(), sendErrorStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (srv *Server) logsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, srv.session.LogSnapshot())
}

func (srv *Server) logsStreamHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sink := srv.session.Log()
	client := sink.Subscribe(100)
	defer sink.Unsubscribe(client)

	// Tell the page it may fetch the snapshot now without missing entries.
	fmt.Fprint(w, ": subscribed\n\n")
	flusher.Flush()

	for {
		select {
		case entry, ok := <-client:
			if !ok {
				return
			}
			data, _ := json.Marshal(entry)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (srv *Server) logsCopyHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}
	if err := srv.desktop.Copy(logging.Format(srv.session.LogSnapshot())); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// logsTypeHandler types the newest inbound telemetry line into whatever
// window has focus on the host.
func (srv *Server) logsTypeHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}

	line := ""
	for _, e := range srv.session.LogSnapshot() {
		if e.Kind != types.Inbound {
			continue
		}
		if l := strings.TrimPrefix(e.Message, "RX: "); l != "" {
			line = l
			break
		}
	}
	if line == "" {
		http.Error(w, "No telemetry received yet", http.StatusNotFound)
		return
	}

	if err := srv.desktop.Type(line); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"typed": line})
}
