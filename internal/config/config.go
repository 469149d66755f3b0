package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	TabWidth        int    `toml:"tab-width"`
	LineNumbers     string `toml:"line-numbers"`
	GitBranchSymbol string `toml:"git-branch-symbol"`
	InitialCapacity int    `toml:"initial-capacity"`
	GrowthIncrement int    `toml:"growth-increment"`
	Highlight       *bool  `toml:"highlight"`
}

// HighlightEnabled defaults to true when the option is absent.
func (o EditorOptions) HighlightEnabled() bool {
	return o.Highlight == nil || *o.Highlight
}

type Theme struct {
	Theme                      string `toml:"theme"`
	Foreground                 string `toml:"foreground"`
	Background                 string `toml:"background"`
	StatuslineForeground       string `toml:"statusline-foreground"`
	StatuslineBackground       string `toml:"statusline-background"`
	CommandlineForeground      string `toml:"commandline-foreground"`
	CommandlineBackground      string `toml:"commandline-background"`
	LineNumberForeground       string `toml:"line-number-foreground"`
	LineNumberActiveForeground string `toml:"line-number-active-foreground"`
	SelectionForeground        string `toml:"selection-foreground"`
	SelectionBackground        string `toml:"selection-background"`
	SyntaxKeyword              string `toml:"syntax-keyword"`
	SyntaxString               string `toml:"syntax-string"`
	SyntaxComment              string `toml:"syntax-comment"`
	SyntaxType                 string `toml:"syntax-type"`
	SyntaxFunction             string `toml:"syntax-function"`
	SyntaxNumber               string `toml:"syntax-number"`
	SyntaxConstant             string `toml:"syntax-constant"`
	SyntaxOperator             string `toml:"syntax-operator"`
	SyntaxPunctuation          string `toml:"syntax-punctuation"`
	SyntaxField                string `toml:"syntax-field"`
	SyntaxBuiltin              string `toml:"syntax-builtin"`
	SyntaxVariable             string `toml:"syntax-variable"`
	SyntaxParameter            string `toml:"syntax-parameter"`
}

type Config struct {
	Editor EditorOptions     `toml:"editor"`
	Theme  Theme             `toml:"theme"`
	Keymap map[string]string `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:        4,
			LineNumbers:     "absolute",
			GitBranchSymbol: "git:",
			InitialCapacity: 10,
			GrowthIncrement: 10,
		},
		Theme: Theme{
			Foreground:                 "#B3B1AD",
			Background:                 "#0A0E14",
			StatuslineForeground:       "#0A0E14",
			StatuslineBackground:       "#B3B1AD",
			CommandlineForeground:      "#B3B1AD",
			CommandlineBackground:      "#0F1419",
			LineNumberForeground:       "#3E4B59",
			LineNumberActiveForeground: "#B3B1AD",
			SelectionForeground:        "#B3B1AD",
			SelectionBackground:        "#27425A",
			SyntaxKeyword:              "#FFA759",
			SyntaxString:               "#BAE67E",
			SyntaxComment:              "#5C6773",
			SyntaxType:                 "#5CCFE6",
			SyntaxFunction:             "#FFD173",
			SyntaxNumber:               "#D4BFFF",
			SyntaxConstant:             "#FFDD8E",
			SyntaxOperator:             "#F29668",
			SyntaxPunctuation:          "#C0C0C0",
			SyntaxField:                "#E6B673",
			SyntaxBuiltin:              "#73D0FF",
			SyntaxVariable:             "#B3B1AD",
			SyntaxParameter:            "#B3B1AD",
		},
		// Values are either "go:<object>:<direction>",
		// "delete:<object>:<direction>" or a named action.
		Keymap: map[string]string{
			"left":          "go:char:left",
			"right":         "go:char:right",
			"up":            "go:line:up",
			"down":          "go:line:down",
			"ctrl+b":        "go:char:left",
			"ctrl+f":        "go:char:right",
			"ctrl+p":        "go:line:up",
			"ctrl+n":        "go:line:down",
			"home":          "go:line:left",
			"end":           "go:line:right",
			"ctrl+a":        "go:line:left",
			"ctrl+e":        "go:line:right",
			"alt+b":         "go:word:left",
			"alt+f":         "go:word:right",
			"alt+left":      "go:word:left",
			"alt+right":     "go:word:right",
			"backspace":     "delete:char:left",
			"del":           "delete:char:right",
			"ctrl+d":        "delete:char:right",
			"alt+d":         "delete:word:right",
			"alt+backspace": "delete:word:left",
			"ctrl+k":        "delete:line:right",
			"ctrl+u":        "delete:line:left",
			"ctrl+space":    "toggle_selection",
			"alt+w":         "copy",
			"ctrl+w":        "cut",
			"ctrl+y":        "paste",
			"ctrl+s":        "save",
			"ctrl+x":        "save_as",
			"ctrl+q":        "quit",
			"ctrl+c":        "quit",
			"enter":         "newline",
			"tab":           "tab",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.LineNumbers != "" {
		cfg.Editor.LineNumbers = userCfg.Editor.LineNumbers
	}
	if userCfg.Editor.GitBranchSymbol != "" {
		cfg.Editor.GitBranchSymbol = userCfg.Editor.GitBranchSymbol
	}
	if userCfg.Editor.InitialCapacity > 0 {
		cfg.Editor.InitialCapacity = userCfg.Editor.InitialCapacity
	}
	if userCfg.Editor.GrowthIncrement > 0 {
		cfg.Editor.GrowthIncrement = userCfg.Editor.GrowthIncrement
	}
	if userCfg.Editor.Highlight != nil {
		cfg.Editor.Highlight = userCfg.Editor.Highlight
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap {
		if v == "" || v == "none" {
			delete(cfg.Keymap, k)
			continue
		}
		cfg.Keymap[k] = v
	}

	return cfg, nil
}

func setIf(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeTheme(dst *Theme, src Theme) {
	setIf(&dst.Foreground, src.Foreground)
	setIf(&dst.Background, src.Background)
	setIf(&dst.StatuslineForeground, src.StatuslineForeground)
	setIf(&dst.StatuslineBackground, src.StatuslineBackground)
	setIf(&dst.CommandlineForeground, src.CommandlineForeground)
	setIf(&dst.CommandlineBackground, src.CommandlineBackground)
	setIf(&dst.LineNumberForeground, src.LineNumberForeground)
	setIf(&dst.LineNumberActiveForeground, src.LineNumberActiveForeground)
	setIf(&dst.SelectionForeground, src.SelectionForeground)
	setIf(&dst.SelectionBackground, src.SelectionBackground)
	setIf(&dst.SyntaxKeyword, src.SyntaxKeyword)
	setIf(&dst.SyntaxString, src.SyntaxString)
	setIf(&dst.SyntaxComment, src.SyntaxComment)
	setIf(&dst.SyntaxType, src.SyntaxType)
	setIf(&dst.SyntaxFunction, src.SyntaxFunction)
	setIf(&dst.SyntaxNumber, src.SyntaxNumber)
	setIf(&dst.SyntaxConstant, src.SyntaxConstant)
	setIf(&dst.SyntaxOperator, src.SyntaxOperator)
	setIf(&dst.SyntaxPunctuation, src.SyntaxPunctuation)
	setIf(&dst.SyntaxField, src.SyntaxField)
	setIf(&dst.SyntaxBuiltin, src.SyntaxBuiltin)
	setIf(&dst.SyntaxVariable, src.SyntaxVariable)
	setIf(&dst.SyntaxParameter, src.SyntaxParameter)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme accepts both a flat theme file and one wrapped in [theme].
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, err
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("GAPEDIT_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "gapedit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gapedit"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
