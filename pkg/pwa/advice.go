package pwa

import "strings"

// Advice is the server-side answer for GET /api/pwa/advice.
type Advice struct {
	Platform     Platform      `json:"platform"`
	Installed    bool          `json:"installed"`
	PromptLikely bool          `json:"promptLikely"`
	Instructions *Instructions `json:"instructions,omitempty"`
}

// Advise derives install guidance from the user agent and the standalone
// hints a client reports.
func Advise(userAgent string, standalone bool, referrer string) Advice {
	env := Environment{
		UserAgent:             userAgent,
		DisplayModeStandalone: standalone,
		Referrer:              referrer,
	}
	adv := Advice{
		Platform:  ClassifyPlatform(userAgent),
		Installed: IsInstalled(env),
	}
	if adv.Installed {
		return adv
	}

	adv.PromptLikely = CheckRequirements(env).IsAndroidChrome ||
		(adv.Platform == PlatformDesktop && strings.Contains(strings.ToLower(userAgent), "chrome"))
	if !adv.PromptLikely {
		adv.Instructions = InstructionsFor(adv.Platform)
	}
	return adv
}

// Manifest is the web app manifest served at /manifest.webmanifest.
type Manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	StartURL        string         `json:"start_url"`
	Scope           string         `json:"scope"`
	Display         string         `json:"display"`
	BackgroundColor string         `json:"background_color"`
	ThemeColor      string         `json:"theme_color"`
	Icons           []ManifestIcon `json:"icons"`
}

type ManifestIcon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose,omitempty"`
}

func NewManifest(name, icon string) Manifest {
	return Manifest{
		Name:            name,
		ShortName:       name,
		StartURL:        "/",
		Scope:           "/",
		Display:         "standalone",
		BackgroundColor: "#ffffff",
		ThemeColor:      "#4285f4",
		Icons: []ManifestIcon{
			{Src: icon, Sizes: "192x192", Type: "image/png", Purpose: "any maskable"},
		},
	}
}
