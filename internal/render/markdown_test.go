package render

import (
	"strings"
	"testing"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:     "paragraphs",
			input:    "你好，猫咪！\n\n这是一个问候。",
			contains: []string{"<p>你好，猫咪！</p>", "<p>这是一个问候。</p>"},
		},
		{
			name:     "hard wraps",
			input:    "用法：口语\n语法：感叹词",
			contains: []string{"用法：口语<br>"},
		},
		{
			name:     "emphasis",
			input:    "**hola** means 你好",
			contains: []string{"<strong>hola</strong>"},
		},
		{
			name:     "table",
			input:    "| es | zh |\n|----|----|\n| gato | 猫 |",
			contains: []string{"<table>", "<td>gato</td>"},
		},
		{
			name:     "strikethrough",
			input:    "~~perro~~ gato",
			contains: []string{"<del>perro</del>"},
		},
		{
			name:     "autolink",
			input:    "see https://rae.es",
			contains: []string{`<a href="https://rae.es">https://rae.es</a>`},
		},
		{
			name:        "raw html is dropped",
			input:       "<script>alert(1)</script>\n\nhola",
			contains:    []string{"<p>hola</p>"},
			notContains: []string{"<script>"},
		},
		{
			name:        "inline html is dropped",
			input:       "hola <img src=x onerror=alert(1)>",
			notContains: []string{"<img"},
		},
		{
			name:  "empty",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.input)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Render() = %q, want to contain %q", got, want)
				}
			}
			for _, bad := range tt.notContains {
				if strings.Contains(got, bad) {
					t.Errorf("Render() = %q, must not contain %q", got, bad)
				}
			}
		})
	}
}
