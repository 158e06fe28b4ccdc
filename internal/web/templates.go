package web

import "html/template"

var (
	uploadTmpl   = template.Must(template.New("upload").Parse(uploadHTML))
	selectTmpl   = template.Must(template.New("select").Parse(selectHTML))
	resultsTmpl  = template.Must(template.New("results").Parse(resultsHTML))
	tutorialTmpl = template.Must(template.New("tutorial").Parse(tutorialHTML))
)

const uploadHTML = `<!DOCTYPE html>
<html>
<head><title>BetweenLines</title></head>
<body>
<h1>BetweenLines</h1>
<p>Upload an exported WhatsApp chat (.txt or .zip) to see who plays which role.</p>
{{if .Flash}}<p class="flash">{{.Flash}}</p>{{end}}
<form action="/upload" method="post" enctype="multipart/form-data">
  <input type="file" name="file" accept=".txt,.zip" required>
  <button type="submit">Analyze</button>
</form>
<p><a href="/tutorial">How do I export a chat?</a></p>
</body>
</html>`

const selectHTML = `<!DOCTYPE html>
<html>
<head><title>BetweenLines - Who are you?</title></head>
<body>
<h1>Who is who?</h1>
<form action="/select" method="post">
  <input type="hidden" name="token" value="{{.Token}}">
  <label>You:
    <select name="you">
      {{range .Participants}}<option value="{{.}}">{{.}}</option>{{end}}
    </select>
  </label>
  <label>Them:
    <select name="them">
      {{range .Participants}}<option value="{{.}}">{{.}}</option>{{end}}
    </select>
  </label>
  <button type="submit">Show roles</button>
</form>
</body>
</html>`

const resultsHTML = `<!DOCTYPE html>
<html>
<head><title>BetweenLines - Results</title></head>
<body>
<h1>{{.Report.You}} and {{.Report.Them}}</h1>
<table>
  <tr><th>Role</th><th>{{.Report.You}}</th><th>{{.Report.Them}}</th><th>Why</th></tr>
  {{range .Report.Entries}}
  <tr>
    <td>{{.Name}}</td>
    <td>{{.YouPct}}%</td>
    <td>{{.ThemPct}}%</td>
    <td>{{.Explanation}}</td>
  </tr>
  {{end}}
</table>
<p><a href="/">Analyze another chat</a></p>
</body>
</html>`

const tutorialHTML = `<!DOCTYPE html>
<html>
<head><title>BetweenLines - Tutorial</title></head>
<body>
<h1>Exporting a chat</h1>
<ol>
  <li>Open the chat in WhatsApp.</li>
  <li>Tap the menu, then More, then Export chat.</li>
  <li>Choose "Without media" and save the .txt (or .zip) file.</li>
  <li>Upload it on the home page.</li>
</ol>
<p>The file is deleted from the server as soon as your results are shown.</p>
<p><a href="/">Back</a></p>
</body>
</html>`
