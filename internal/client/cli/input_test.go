package cli

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestPromptLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"通常の行", "nova\n", "nova"},
		{"前後の空白は削る", "  nova  \n", "nova"},
		{"CRLFも削る", "nova\r\n", "nova"},
		{"末尾改行なしのEOFは読めた分を返す", "nova", "nova"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			reader := bufio.NewReader(strings.NewReader(tt.input))

			got, err := promptLine(reader, "Username", &out)
			if err != nil {
				t.Fatalf("promptLine() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if !strings.Contains(out.String(), "Username: ") {
				t.Errorf("prompt not written: %q", out.String())
			}
		})
	}
}

func TestPromptLine_EmptyEOF_ReturnsError(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(""))

	_, err := promptLine(reader, "Username", &out)
	if err != io.EOF {
		t.Errorf("error = %v, want io.EOF", err)
	}
}

func TestPromptMultiline(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("line one\nline two\n\nignored\n"))

	got, err := promptMultiline(reader, "Content", &out)
	if err != nil {
		t.Fatalf("promptMultiline() error = %v", err)
	}
	if got != "line one\nline two" {
		t.Errorf("got %q, want joined lines", got)
	}
	if !strings.Contains(out.String(), "empty line to finish") {
		t.Errorf("prompt not written: %q", out.String())
	}
}

func TestPromptPassword_NonTerminal_FallsBackToLine(t *testing.T) {
	// テスト実行時の標準入力は端末ではないため、行読み取りへの
	// フォールバック経路が使われる
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("secret-pass\n"))

	got, err := promptPassword(reader, "Password", &out)
	if err != nil {
		t.Fatalf("promptPassword() error = %v", err)
	}
	if got != "secret-pass" {
		t.Errorf("got %q, want %q", got, "secret-pass")
	}
}
