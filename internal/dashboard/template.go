package dashboard

// pageTemplate is the full dashboard document. The inline script is the
// page's whole event controller: dropdown changes, the animation toggle and
// the client-side timer all POST to the API and remount the returned chart
// fragments.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Heading}}</title>
    {{.EChartsCDN}}
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            color: #333;
            max-width: 1280px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .header {
            text-align: center;
            margin-bottom: 24px;
        }
        .header h1 {
            margin: 0;
            font-size: 2em;
        }
        .controls {
            background: white;
            padding: 16px 20px;
            border-radius: 8px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
            margin-bottom: 24px;
            display: flex;
            align-items: center;
            gap: 16px;
            flex-wrap: wrap;
        }
        .controls label {
            font-weight: 600;
        }
        .controls select {
            min-width: 260px;
            padding: 4px;
        }
        .controls button {
            padding: 8px 16px;
            border: none;
            border-radius: 6px;
            background-color: #225ea8;
            color: white;
            cursor: pointer;
        }
        .controls button:hover {
            background-color: #1d91c0;
        }
        .card {
            background: white;
            padding: 20px;
            border-radius: 8px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
            margin-bottom: 24px;
        }
        .card h2 {
            margin-top: 0;
            font-size: 1.2em;
        }
        .links a {
            margin-right: 16px;
        }
        .news-item {
            margin-bottom: 8px;
        }
        .footer {
            text-align: center;
            color: #666;
            font-size: 0.9em;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Heading}}</h1>
    </div>

    <div class="controls">
        <label for="country-select">Countries:</label>
        <select id="country-select" multiple size="6">
            {{range .Countries}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>
            {{end}}
        </select>
        <button id="toggle-btn" type="button">{{.ButtonLabel}}</button>
        <div class="links">
            <a href="/charts/page" target="_blank">Printable charts</a>
            <a href="/export/linechart.png">Download PNG</a>
            <a href="/export/data.xlsx">Download XLSX</a>
        </div>
    </div>

    <div class="card">
        <div id="line-card">{{.LineChart}}</div>
    </div>

    <div class="card">
        <h2>{{.HeatmapLabel}}</h2>
        <div id="heatmap-card">{{.Heatmap}}</div>
    </div>

    {{if .NewsEnabled}}
    <div class="card" id="news-card">
        <h2>Energy news</h2>
        <div id="news-items">Loading…</div>
    </div>
    {{end}}

    <div class="footer">
        <p>Data: monthly electricity statistics | gCO2e/kWh | v{{.Version}}</p>
    </div>

    <script>
    (function() {
        var intervalMs = {{.IntervalMS}};
        var running = {{.Running}};
        var timer = null;

        var select = document.getElementById('country-select');
        var toggleBtn = document.getElementById('toggle-btn');

        function postJSON(url, body) {
            return fetch(url, {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: body ? JSON.stringify(body) : null
            }).then(function(resp) { return resp.json(); });
        }

        function remount(hostId, payload) {
            if (!payload) return;
            var host = document.getElementById(hostId);
            host.innerHTML = payload.div;
            var script = document.createElement('script');
            script.textContent = payload.script;
            host.appendChild(script);
        }

        function syncSelect(selection) {
            var chosen = {};
            (selection || []).forEach(function(name) { chosen[name] = true; });
            for (var i = 0; i < select.options.length; i++) {
                select.options[i].selected = !!chosen[select.options[i].value];
            }
        }

        function applyUpdate(update) {
            toggleBtn.textContent = update.button_label;
            syncSelect(update.selection);
            remount('line-card', update.line);
            remount('heatmap-card', update.heatmap);
            if (update.running) { startTimer(); } else { stopTimer(); }
        }

        function startTimer() {
            if (!timer) { timer = setInterval(tick, intervalMs); }
        }

        function stopTimer() {
            if (timer) { clearInterval(timer); timer = null; }
        }

        function tick() {
            postJSON('/api/animation/tick').then(applyUpdate);
        }

        select.addEventListener('change', function() {
            var countries = [];
            for (var i = 0; i < select.options.length; i++) {
                if (select.options[i].selected) { countries.push(select.options[i].value); }
            }
            postJSON('/api/selection', {countries: countries}).then(applyUpdate);
        });

        toggleBtn.addEventListener('click', function() {
            postJSON('/api/animation/toggle').then(applyUpdate);
        });

        if (running) { startTimer(); }

        var newsItems = document.getElementById('news-items');
        if (newsItems) {
            fetch('/api/news').then(function(resp) {
                if (resp.status !== 200) { throw new Error('no news'); }
                return resp.json();
            }).then(function(data) {
                if (!data.items || !data.items.length) {
                    newsItems.textContent = 'No news right now.';
                    return;
                }
                newsItems.innerHTML = data.items.map(function(item) {
                    var a = document.createElement('a');
                    a.href = item.link;
                    a.target = '_blank';
                    a.textContent = item.title;
                    return '<div class="news-item">' + a.outerHTML + '</div>';
                }).join('');
            }).catch(function() {
                newsItems.textContent = 'News unavailable.';
            });
        }
    })();
    </script>
</body>
</html>`
