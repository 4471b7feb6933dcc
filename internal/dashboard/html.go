package dashboard

const emptyChartHTML = `<!DOCTYPE html><html><body style="font-family: system-ui, sans-serif; color: #94a3b8; background: #1e293b;"><p>No emotions detected yet.</p></body></html>`

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Inter', -apple-system, system-ui, sans-serif; background: #0f172a; color: #e2e8f0; min-height: 100vh; }
        .header { background: linear-gradient(135deg, #1e293b, #334155); padding: 1.5rem 2rem; border-bottom: 1px solid #475569; display: flex; justify-content: space-between; align-items: center; }
        .header h1 { font-size: 1.5rem; background: linear-gradient(135deg, #38bdf8, #818cf8); background-clip: text; -webkit-background-clip: text; -webkit-text-fill-color: transparent; }
        .header .status { padding: 0.5rem 1rem; border-radius: 9999px; font-size: 0.875rem; font-weight: 600; background: #854d0e; color: #fde047; }
        .status.ok { background: #166534; color: #4ade80; }
        .status.error { background: #991b1b; color: #fca5a5; }
        .layout { display: grid; grid-template-columns: 360px 1fr; gap: 1rem; padding: 2rem; }
        .card { background: #1e293b; border: 1px solid #334155; border-radius: 12px; padding: 1.5rem; margin-bottom: 1rem; }
        .card h2 { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.05em; color: #94a3b8; margin-bottom: 0.75rem; }
        .card.accent { border-color: #38bdf8; }
        input, textarea { width: 100%; background: #0f172a; color: #e2e8f0; border: 1px solid #475569; border-radius: 8px; padding: 0.5rem; margin-bottom: 0.5rem; font: inherit; }
        textarea { min-height: 90px; resize: vertical; }
        button { background: #38bdf8; color: #0f172a; border: 0; border-radius: 8px; padding: 0.5rem 1rem; font-weight: 600; cursor: pointer; margin: 0 0.25rem 0.25rem 0; }
        button.secondary { background: #334155; color: #e2e8f0; }
        button:disabled { opacity: 0.5; cursor: wait; }
        .message { font-size: 0.875rem; margin-top: 0.5rem; color: #94a3b8; }
        .message.success { color: #4ade80; }
        .message.warning { color: #fbbf24; }
        .message.error { color: #f87171; }
        iframe { width: 100%; height: 1100px; border: 0; border-radius: 12px; background: #ffffff; }
        table { width: 100%; border-collapse: collapse; font-size: 0.875rem; }
        th, td { text-align: left; padding: 0.4rem; border-bottom: 1px solid #334155; }
        th { color: #94a3b8; font-weight: 600; }
        .scroll { max-height: 360px; overflow-y: auto; }
        .Positive { color: #4ade80; }
        .Negative { color: #f87171; }
        .Neutral { color: #38bdf8; }
        .footer { text-align: center; padding: 1rem; color: #475569; font-size: 0.75rem; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Title}}</h1>
        <span class="status" id="status">Idle</span>
    </div>
    <div class="layout">
        <div>
            <div class="card accent">
                <h2>Scrape Reviews</h2>
                <input id="product" placeholder="Product name">
                <input id="url" placeholder="Review URL, page number as {}">
                <label class="message"><input type="checkbox" id="analyze" style="width:auto" checked> Analyze after scraping</label>
                <div><button id="scrape-btn" onclick="scrape()">Scrape</button></div>
                {{if .Presets}}<div style="margin-top:0.5rem">{{range .Presets}}<button class="secondary" data-preset="{{.Name}}" onclick="scrapePreset(this)">{{.Name}}</button>{{end}}</div>{{end}}
                <div class="message" id="scrape-msg"></div>
            </div>
            <div class="card">
                <h2>Upload CSV</h2>
                <input type="file" id="file" accept=".csv">
                <input id="column" placeholder="Text column (default Comment)">
                <button onclick="analyzeFile()">Process</button>
                <div class="message" id="upload-msg"></div>
            </div>
            <div class="card">
                <h2>Analyze Text</h2>
                <textarea id="text" placeholder="Paste text or markdown"></textarea>
                <button onclick="analyzeText()">Analyze</button>
                <div class="message" id="text-msg"></div>
            </div>
            <div class="card">
                <h2>Quick Sentiment</h2>
                <textarea id="sentiment-text" placeholder="How does this sound?"></textarea>
                <button onclick="sentiment()">Predict</button>
                <div class="message" id="sentiment-msg"></div>
            </div>
        </div>
        <div>
            <div class="card"><iframe id="chart" src="/chart"></iframe></div>
            <div class="card">
                <h2>Emotion Counts</h2>
                <table><thead><tr><th>Emotion</th><th>Category</th><th>Count</th></tr></thead><tbody id="emotions"></tbody></table>
            </div>
            <div class="card">
                <h2>Results <a href="/api/results?format=csv" style="color:#38bdf8; float:right">Download CSV</a></h2>
                <div class="scroll"><table><thead><tr><th id="column-head">Comment</th><th>Detected_Emotion</th></tr></thead><tbody id="results"></tbody></table></div>
            </div>
        </div>
    </div>
    <div class="footer">reviewmood {{.Version}}</div>
    <script>
        const positive = new Set(['admiration','amusement','approval','caring','desire','excitement','gratitude','joy','love','optimism','pride','realization','relief']);
        const negative = new Set(['anger','annoyance','disappointment','disapproval','disgust','embarrassment','fear','grief','nervousness','remorse','sadness']);
        function category(label) { return positive.has(label) ? 'Positive' : negative.has(label) ? 'Negative' : 'Neutral'; }

        function show(id, text, kind) {
            const el = document.getElementById(id);
            el.textContent = text;
            el.className = 'message ' + (kind || '');
        }
        function status(text, kind) {
            const el = document.getElementById('status');
            el.textContent = text;
            el.className = 'status ' + (kind || '');
        }
        function cell(row, text, cls) {
            const td = row.insertCell();
            td.textContent = text;
            if (cls) td.className = cls;
        }

        async function call(path, options) {
            status('Working...');
            const r = await fetch(path, options);
            const d = await r.json();
            if (!r.ok) {
                status('Error', 'error');
                throw new Error(d.error || r.statusText);
            }
            status('Ready', 'ok');
            return d;
        }
        function postJSON(path, body) {
            return call(path, { method: 'POST', headers: { 'Content-Type': 'application/json' }, body: JSON.stringify(body) });
        }

        async function refresh() {
            document.getElementById('chart').src = '/chart?t=' + Date.now();
            const s = await (await fetch('/api/results')).json();
            document.getElementById('column-head').textContent = s.column || 'Comment';
            const results = document.getElementById('results');
            results.innerHTML = '';
            (s.results || []).forEach(r => {
                const row = results.insertRow();
                cell(row, r.text);
                cell(row, r.label, category(r.label));
            });
            const c = await (await fetch('/api/counts')).json();
            const emotions = document.getElementById('emotions');
            emotions.innerHTML = '';
            (c.emotions || []).forEach(e => {
                const row = emotions.insertRow();
                const cat = category(e.label);
                cell(row, e.label);
                cell(row, cat, cat);
                cell(row, e.count);
            });
        }

        async function runScrape(body, btn) {
            if (btn) btn.disabled = true;
            show('scrape-msg', 'Scraping ' + body.product + ' reviews...');
            try {
                const d = await postJSON('/api/scrape', body);
                show('scrape-msg', 'Saved ' + d.reviews + ' reviews from ' + d.pages + ' pages to ' + d.path, 'success');
                if (d.analyzed) await refresh();
            } catch (e) {
                show('scrape-msg', e.message, 'error');
            } finally {
                if (btn) btn.disabled = false;
            }
        }
        function scrape() {
            const product = document.getElementById('product').value.trim();
            const url = document.getElementById('url').value.trim();
            if (!product || !url) {
                show('scrape-msg', 'Please enter both product name and URL.', 'warning');
                return;
            }
            runScrape({ product: product, url: url, analyze: document.getElementById('analyze').checked }, document.getElementById('scrape-btn'));
        }
        function scrapePreset(btn) {
            const name = btn.dataset.preset;
            runScrape({ preset: name, product: name, analyze: document.getElementById('analyze').checked }, btn);
        }

        async function analyzeFile() {
            const input = document.getElementById('file');
            if (!input.files.length) {
                show('upload-msg', 'Please choose a CSV file.', 'warning');
                return;
            }
            const form = new FormData();
            form.append('file', input.files[0]);
            form.append('column', document.getElementById('column').value.trim());
            show('upload-msg', 'Processing...');
            try {
                const d = await call('/api/analyze', { method: 'POST', body: form });
                show('upload-msg', 'Classified ' + d.total + ' rows.', 'success');
                await refresh();
            } catch (e) {
                show('upload-msg', e.message, 'error');
            }
        }

        async function analyzeText() {
            const text = document.getElementById('text').value;
            if (!text.trim()) {
                show('text-msg', 'Please input some text to analyze.', 'warning');
                return;
            }
            try {
                const d = await postJSON('/api/text', { text: text });
                show('text-msg', 'Detected ' + ((d.emotions || [])[0] || {}).label + '.', 'success');
                await refresh();
            } catch (e) {
                show('text-msg', e.message, 'error');
            }
        }

        async function sentiment() {
            const text = document.getElementById('sentiment-text').value;
            if (!text.trim()) {
                show('sentiment-msg', 'Please input some text to analyze.', 'warning');
                return;
            }
            try {
                const d = await postJSON('/api/sentiment', { text: text });
                const kind = d.sentiment === 'positive' ? 'success' : d.sentiment === 'negative' ? 'error' : 'warning';
                show('sentiment-msg', d.message, kind);
            } catch (e) {
                show('sentiment-msg', e.message, 'error');
            }
        }

        refresh();
    </script>
</body>
</html>`
