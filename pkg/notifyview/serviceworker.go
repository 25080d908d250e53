package notifyview

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"text/template"

	"medic-backend/pkg/pushclient"
)

// SDKVersion is the Firebase JS SDK the worker script loads.
const SDKVersion = "10.12.2"

//go:embed sw.js.tmpl
var swSource string

var swTemplate = template.Must(template.New("firebase-messaging-sw.js").Parse(swSource))

type firebaseAppConfig struct {
	APIKey            string `json:"apiKey"`
	AuthDomain        string `json:"authDomain"`
	ProjectID         string `json:"projectId"`
	StorageBucket     string `json:"storageBucket"`
	MessagingSenderID string `json:"messagingSenderId"`
	AppID             string `json:"appId"`
}

// ServiceWorkerScript renders the background worker. It embeds the same
// base Options the foreground Presenter uses, under BackgroundTag.
func ServiceWorkerScript(cfg pushclient.WebConfig, icon string) ([]byte, error) {
	appConfig, err := json.Marshal(firebaseAppConfig{
		APIKey:            cfg.APIKey,
		AuthDomain:        cfg.AuthDomain,
		ProjectID:         cfg.ProjectID,
		StorageBucket:     cfg.StorageBucket,
		MessagingSenderID: cfg.MessagingSenderID,
		AppID:             cfg.AppID,
	})
	if err != nil {
		return nil, err
	}
	base, err := json.Marshal(BaseOptions(BackgroundTag, icon))
	if err != nil {
		return nil, err
	}
	appName, _ := json.Marshal(AppName)
	defaultBody, _ := json.Marshal(DefaultBody)

	var buf bytes.Buffer
	err = swTemplate.Execute(&buf, map[string]string{
		"SDKVersion":     SDKVersion,
		"FirebaseConfig": string(appConfig),
		"BaseOptions":    string(base),
		"AppName":        string(appName),
		"DefaultBody":    string(defaultBody),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
