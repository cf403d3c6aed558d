/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package i18n holds the user-facing strings in Japanese and English.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a translatable message.
type Key string

// Message keys.
const (
	Title             Key = "title"
	Subtitle          Key = "subtitle"
	InputPane         Key = "pane.input"
	FilterPane        Key = "pane.filter"
	FilterLabel       Key = "filter.label"
	FilterPlaceholder Key = "filter.placeholder"
	ExpectedPane      Key = "pane.expected"
	OutputPane        Key = "pane.output"
	StageMenu         Key = "menu.stages"
	StageMenuButton   Key = "menu.stages.button"
	HelpMenuButton    Key = "menu.help.button"
	ManualTitle       Key = "manual.title"
	OpenInNewTab      Key = "manual.newTab"
	SourceCode        Key = "manual.source"
	Placeholder       Key = "outcome.placeholder"
	Running           Key = "outcome.running"
	JSONParseError    Key = "outcome.jsonParseError"
	Match             Key = "result.match"
	Mismatch          Key = "result.mismatch"
	PrevStage         Key = "stage.prev"
	NextStage         Key = "stage.next"
)

var messages = map[language.Tag]map[Key]string{
	language.Japanese: {
		Title:             "Learn jq",
		Subtitle:          "JSON と jq フィルターを入力して、出力を確認できる学習アプリ",
		InputPane:         "元のJSON",
		FilterPane:        "ユーザの入力",
		FilterLabel:       "jq フィルター",
		FilterPlaceholder: "例: .users | map(.name)",
		ExpectedPane:      "想定出力",
		OutputPane:        "出力結果",
		StageMenu:         "ステージ",
		StageMenuButton:   "メニュー",
		HelpMenuButton:    "ヘルプメニュー",
		ManualTitle:       "jq Manual",
		OpenInNewTab:      "新しいタブで開く",
		SourceCode:        "jqのソースコード",
		Placeholder:       "（ここに実行結果を表示します）",
		Running:           "実行中...",
		JSONParseError:    "JSON パースエラー: %s",
		Match:             "想定出力と一致しました",
		Mismatch:          "想定出力と一致しません",
		PrevStage:         "前のステージ",
		NextStage:         "次のステージ",
	},
	language.English: {
		Title:             "Learn jq",
		Subtitle:          "A learning app: write a jq filter against JSON and check the output",
		InputPane:         "Input JSON",
		FilterPane:        "Your filter",
		FilterLabel:       "jq filter",
		FilterPlaceholder: "e.g. .users | map(.name)",
		ExpectedPane:      "Expected output",
		OutputPane:        "Output",
		StageMenu:         "Stages",
		StageMenuButton:   "Menu",
		HelpMenuButton:    "Help menu",
		ManualTitle:       "jq Manual",
		OpenInNewTab:      "Open in new tab",
		SourceCode:        "jq source code",
		Placeholder:       "(the result will appear here)",
		Running:           "Running...",
		JSONParseError:    "JSON parse error: %s",
		Match:             "Matches the expected output",
		Mismatch:          "Does not match the expected output",
		PrevStage:         "Previous stage",
		NextStage:         "Next stage",
	},
}

// Supported lists the available languages; the first is the default.
var Supported = []language.Tag{language.Japanese, language.English}

var (
	matcher = language.NewMatcher(Supported)
	cat     = newCatalog()
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(Supported[0]))
	for tag, table := range messages {
		for key, msg := range table {
			if err := b.SetString(tag, string(key), msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Printer formats messages for one language.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a printer for the best supported match of lang, such as "ja",
// "en-US", or an Accept-Language header value. Unknown or empty input selects
// Japanese.
func New(lang string) *Printer {
	tag := Supported[0]
	if lang != "" {
		tags, _, err := language.ParseAcceptLanguage(lang)
		if err == nil && len(tags) > 0 {
			_, index, confidence := matcher.Match(tags...)
			if confidence != language.No {
				tag = Supported[index]
			}
		}
	}
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Tag returns the selected language.
func (p *Printer) Tag() language.Tag {
	return p.tag
}

// Lang returns the BCP 47 code of the selected language.
func (p *Printer) Lang() string {
	return p.tag.String()
}

// T returns the message for key, formatted with args.
func (p *Printer) T(key Key, args ...any) string {
	return p.p.Sprintf(string(key), args...)
}

// Has reports whether key has a message in every supported language.
func Has(key Key) bool {
	for _, tag := range Supported {
		if _, ok := messages[tag][key]; !ok {
			return false
		}
	}
	return true
}
