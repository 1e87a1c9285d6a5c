package web

import (
	"html/template"
	"net/http"

	"motor-control-panel/config"

	"github.com/rs/zerolog/log"
)

const htmlTemplate = `
<!DOCTYPE html>
<html>
<head>
    <title>Motor Control Panel</title>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; background-color: #f5f5f5; }
        .container { max-width: 900px; margin: 0 auto; }
        .card { background: white; padding: 20px; margin: 10px 0; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .connected { color: #4CAF50; font-weight: bold; }
        .disconnected { color: #f44336; font-weight: bold; }
        button { background-color: #2196F3; color: white; border: none; padding: 10px 20px; margin: 5px; border-radius: 4px; cursor: pointer; }
        button:disabled { background-color: #ccc; cursor: not-allowed; }
        .grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 10px; }
        .grid button { padding: 30px 0; font-size: 24px; touch-action: none; user-select: none; }
        .grid button.active { background-color: #FF9800; }
        button.stop { background-color: #f44336; }
        input, select { padding: 8px; margin: 5px; border: 1px solid #ddd; border-radius: 4px; }
        input[type=range] { width: 70%; }
        .log { height: 240px; overflow-y: scroll; background-color: #000; color: #0f0; padding: 10px; font-family: monospace; font-size: 12px; }
        .log .outbound { color: #4fc3f7; }
        .log .lifecycle { color: #ffeb3b; }
        h1 { color: #333; text-align: center; }
        h2 { color: #555; border-bottom: 2px solid #2196F3; padding-bottom: 5px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Motor Control Panel</h1>

        <div class="card">
            <h2>Connection</h2>
            <p>Status: <span id="state" class="disconnected">...</span> <span id="port"></span></p>
            <select id="ports"><option value="">Auto (first USB port)</option></select>
            <button id="connect" onclick="connectPort()">Connect</button>
            <button id="disconnect" onclick="disconnectPort()">Disconnect</button>
        </div>

        <div class="card">
            <h2>Actuators</h2>
            <p>Drive level: <input type="range" id="level" min="{{.MinLevel}}" max="{{.MaxLevel}}" value="{{.Level}}"> <span id="level-value">{{.Level}}</span></p>
            <div class="grid">
                {{range .Actuators}}<button class="act" data-id="{{.}}" disabled>{{.}}</button>
                {{end}}
            </div>
            <button class="stop" id="stop-all" onclick="stopAll()" disabled>Stop all</button>
        </div>

        <div class="card">
            <h2>Activity</h2>
            <div class="log" id="log"></div>
            <button onclick="post('/logs/copy')">Copy log</button>
            <button onclick="post('/logs/type')">Type last telemetry</button>
        </div>
    </div>

<script>
// Requests go out one at a time so a release can never overtake its press.
let queue = Promise.resolve();
function post(path, body) {
    queue = queue.then(() => fetch(path, {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: body === undefined ? '' : JSON.stringify(body),
    })).catch(() => {});
    return queue;
}

let connected = false;
function render(st) {
    connected = st.connected;
    const state = document.getElementById('state');
    state.textContent = st.state;
    state.className = st.connected ? 'connected' : 'disconnected';
    document.getElementById('port').textContent = st.port ? '(' + st.port + ')' : '';
    document.querySelectorAll('.act').forEach(b => b.disabled = !st.connected);
    document.getElementById('stop-all').disabled = !st.connected;
    document.getElementById('connect').disabled = st.state !== 'disconnected';
}

async function refresh() {
    try {
        const r = await fetch('/status');
        render(await r.json());
    } catch (e) {}
}

async function loadPorts() {
    const r = await fetch('/ports');
    const ports = await r.json();
    const sel = document.getElementById('ports');
    (ports || []).forEach(p => {
        const o = document.createElement('option');
        o.value = p.name;
        o.textContent = p.name + (p.product ? ' - ' + p.product : '');
        sel.appendChild(o);
    });
}

function connectPort() {
    post('/connect', {port: document.getElementById('ports').value}).then(refresh);
}
function disconnectPort() { post('/disconnect').then(refresh); }
function stopAll() { post('/stop'); }

document.querySelectorAll('.act').forEach(b => {
    const id = parseInt(b.dataset.id, 10);
    let held = false;
    const press = e => {
        e.preventDefault();
        if (held || !connected) return;
        held = true;
        b.classList.add('active');
        post('/actuator/press', {id});
    };
    const release = () => {
        if (!held) return;
        held = false;
        b.classList.remove('active');
        post('/actuator/release', {id});
    };
    b.addEventListener('pointerdown', press);
    b.addEventListener('pointerup', release);
    b.addEventListener('pointerleave', release);
    b.addEventListener('pointercancel', release);
});

const level = document.getElementById('level');
level.addEventListener('input', () => {
    document.getElementById('level-value').textContent = level.value;
});
level.addEventListener('change', () => post('/level', {level: parseInt(level.value, 10)}));

const logBox = document.getElementById('log');
function addLine(e) {
    const d = document.createElement('div');
    d.className = e.kind;
    d.textContent = new Date(e.time).toLocaleTimeString() + ' ' + e.message;
    logBox.insertBefore(d, logBox.firstChild);
    while (logBox.childNodes.length > {{.LogCapacity}}) logBox.removeChild(logBox.lastChild);
}

const events = new EventSource('/logs/stream');
events.onopen = async () => {
    logBox.innerHTML = '';
    const r = await fetch('/logs');
    const entries = await r.json();
    (entries || []).slice().reverse().forEach(addLine);
};
events.onmessage = m => {
    addLine(JSON.parse(m.data));
    refresh();
};

loadPorts();
refresh();
setInterval(refresh, 2000);
</script>
</body>
</html>
`

var indexTemplate = template.Must(template.New("index").Parse(htmlTemplate))

type indexData struct {
	Actuators   []int
	MinLevel    int
	MaxLevel    int
	Level       int
	LogCapacity int
}

func (srv *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := indexData{
		MinLevel:    config.MIN_LEVEL,
		MaxLevel:    config.MAX_LEVEL,
		Level:       srv.session.DriveLevel(),
		LogCapacity: srv.session.Log().Capacity(),
	}
	for id := config.MIN_ACTUATOR; id <= config.MAX_ACTUATOR; id++ {
		data.Actuators = append(data.Actuators, id)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("render index")
	}
}
