package pwa

// Instructions are manual install steps for platforms without a prompt.
type Instructions struct {
	Platform Platform `json:"platform"`
	Title    string   `json:"title"`
	Steps    []string `json:"steps"`
	Footer   string   `json:"footer"`
}

var iosInstructions = Instructions{
	Platform: PlatformIOS,
	Title:    "iPhoneでアプリをインストールするには：",
	Steps: []string{
		"画面下部の共有ボタン（□↑）をタップ",
		"「ホーム画面に追加」を選択",
		"「追加」をタップして完了",
	},
	Footer: "これでホーム画面からアプリを起動できます！",
}

var desktopInstructions = Instructions{
	Platform: PlatformDesktop,
	Title:    "デスクトップでアプリをインストールするには：",
	Steps: []string{
		"Chrome: アドレスバー右側のインストールアイコンをクリック",
		"Chrome: または、メニュー > その他のツール > ショートカットを作成",
		"Edge: アドレスバー右側のアプリアイコンをクリック",
		"Edge: 「インストール」をクリック",
	},
	Footer: "これでデスクトップからアプリを起動できます！",
}

var androidInstructions = Instructions{
	Platform: PlatformAndroid,
	Title:    "Androidでアプリをインストールするには：",
	Steps: []string{
		"ブラウザのメニュー（⋮）をタップ",
		"「ホーム画面に追加」または「アプリをインストール」を選択",
		"「インストール」をタップして完了",
	},
	Footer: "これでホーム画面からアプリを起動できます！",
}

// InstructionsFor returns manual steps for the platform, or nil when there
// are none.
func InstructionsFor(p Platform) *Instructions {
	var in Instructions
	switch p {
	case PlatformIOS:
		in = iosInstructions
	case PlatformDesktop:
		in = desktopInstructions
	case PlatformAndroid:
		in = androidInstructions
	default:
		return nil
	}
	in.Steps = append([]string(nil), in.Steps...)
	return &in
}
