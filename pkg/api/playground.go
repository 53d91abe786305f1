package api

// playgroundHTML is a minimal self-contained console for the operation
// endpoint: a textarea for the envelope and a result pane.
const playgroundHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Convoy Tracker Console</title>
<style>
body { font-family: monospace; margin: 2rem; background: #1e1e1e; color: #d4d4d4; }
textarea { width: 100%; height: 12rem; background: #252526; color: #d4d4d4; border: 1px solid #3c3c3c; padding: 0.5rem; }
pre { background: #252526; border: 1px solid #3c3c3c; padding: 0.5rem; white-space: pre-wrap; }
button { padding: 0.4rem 1.2rem; margin: 0.5rem 0; }
</style>
</head>
<body>
<h2>Convoy Tracker Console</h2>
<textarea id="query">{ ranking(convoy_id: $convoy_id, limit: $limit) }</textarea>
<textarea id="variables">{"convoy_id": "00000000-0000-0000-0000-000000000001", "limit": 10}</textarea>
<button onclick="run()">Execute</button>
<pre id="result"></pre>
<script>
async function run() {
  const query = document.getElementById('query').value;
  let variables = {};
  try { variables = JSON.parse(document.getElementById('variables').value || '{}'); }
  catch (e) { document.getElementById('result').textContent = 'invalid variables: ' + e; return; }
  const resp = await fetch('/graphql', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({query, variables})
  });
  document.getElementById('result').textContent = JSON.stringify(await resp.json(), null, 2);
}
</script>
</body>
</html>
`
