package handler

import (
	"bytes"
	"html/template"
	"net/http"
)

// tabs lists the settings tabs in display order.
var tabs = []tab{
	{Name: "general", Label: "General"},
}

type tab struct {
	Name  string
	Label string
}

var settingsTmpl = template.Must(template.New("settings").Parse(settingsHTML))

type pageData struct {
	Tab     string
	Tabs    []tab
	Doc     any
	Updated bool
	Error   string

	TokenField string
	Token      string
}

func renderSettings(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := settingsTmpl.Execute(&buf, data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

const settingsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Favorites Settings</title>
</head>
<body>
<div class="wrap">
    <h1>Favorites Settings</h1>

    <h2 class="nav-tab-wrapper">
        {{- range .Tabs}}
        <a class="nav-tab{{if eq .Name $.Tab}} nav-tab-active{{end}}" href="/admin/settings?tab={{.Name}}">{{.Label}}</a>
        {{- end}}
    </h2>

    {{if .Updated}}<div class="notice notice-success"><p>Settings saved.</p></div>{{end}}
    {{if .Error}}<div class="notice notice-error"><p>{{.Error}}</p></div>{{end}}

    <form method="post" enctype="multipart/form-data" action="/admin/settings?tab={{.Tab}}">
        <input type="hidden" name="{{.TokenField}}" value="{{.Token}}">
        <table class="form-table">
            {{- if eq .Tab "general"}}
            {{- with .Doc}}
            <tr>
                <th scope="row">Anonymous Users</th>
                <td>
                    <label><input type="checkbox" name="anonymous_display" value="true"{{if .Anonymous.Display}} checked{{end}}> Enable favorites for anonymous users</label><br>
                    <label><input type="checkbox" name="anonymous_save" value="true"{{if .Anonymous.Save}} checked{{end}}> Save anonymous favorites to the database</label>
                </td>
            </tr>
            <tr>
                <th scope="row">Require Login</th>
                <td>
                    <label><input type="checkbox" name="require_login" value="true"{{if .RequireLogin}} checked{{end}}> Require users to log in to favorite</label><br>
                    <label><input type="checkbox" name="redirect_anonymous" value="true"{{if .RedirectAnonymous}} checked{{end}}> Redirect anonymous users</label><br>
                    <input type="text" name="redirect_url" value="{{.RedirectURL}}" placeholder="Redirect URL">
                </td>
            </tr>
            <tr>
                <th scope="row">Cookie Consent</th>
                <td>
                    <label><input type="checkbox" name="consent_require" value="true"{{if .Consent.Require}} checked{{end}}> Require cookie consent before favoriting</label><br>
                    <textarea name="consent_modal" rows="4" cols="60">{{.Consent.Modal}}</textarea><br>
                    <input type="text" name="consent_button_text" value="{{.Consent.ConsentButtonText}}" placeholder="Consent button text">
                    <input type="text" name="deny_button_text" value="{{.Consent.DenyButtonText}}" placeholder="Deny button text">
                </td>
            </tr>
            {{- end}}
            {{- end}}
        </table>
        <p class="submit"><input type="submit" name="submit" id="submit" class="button button-primary" value="Save Changes"></p>
    </form>
</div><!-- .wrap -->
</body>
</html>
`
